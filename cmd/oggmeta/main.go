// Command oggmeta inspects and edits the comment headers of Ogg Vorbis,
// Opus and Speex files.
//
// Usage:
//
//	oggmeta info song.opus
//	oggmeta info --json *.ogg
//	oggmeta pages song.ogg
//	oggmeta set song.opus TITLE="New Title" --delete COMMENT
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/simonhull/oggmeta"
	"github.com/simonhull/oggmeta/internal/logger"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	var (
		configFile string
		logLevel   string
		logFormat  string
	)

	return &cli.Command{
		Name:    "oggmeta",
		Usage:   "Inspect and edit Ogg Vorbis, Opus and Speex metadata",
		Version: oggmeta.GetVersionInfo().String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "path to config.yaml",
				Value:       configPath(),
				Destination: &configFile,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Value:       "warn",
				Destination: &logLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "log format (text, json)",
				Value:       "text",
				Destination: &logFormat,
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := LoadConfig(configFile)
			if err != nil {
				return ctx, err
			}
			applyLogConfig(cmd, cfg, &logLevel, &logFormat)

			log := logger.ForFormat(stderr(cmd), logFormat, logger.ParseLevel(logLevel)).
				With("run", uuid.NewString())
			log.Debug("starting", "config", configFile)

			ctx = logger.WithContext(ctx, log)
			return withConfig(ctx, cfg), nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			infoCmd(),
			pagesCmd(),
			setCmd(),
		},
	}
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
