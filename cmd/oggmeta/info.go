package main

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/simonhull/oggmeta"
	"github.com/simonhull/oggmeta/internal/logger"
)

// fileReport is the JSON shape printed by "info --json".
type fileReport struct {
	Path        string   `json:"path"`
	Format      string   `json:"format"`
	Codec       string   `json:"codec"`
	Serial      uint32   `json:"serial"`
	DurationMs  int64    `json:"duration_ms"`
	BitrateKbps int      `json:"bitrate_kbps,omitempty"`
	SampleRate  int      `json:"sample_rate"`
	Channels    int      `json:"channels"`
	PreSkip     int      `json:"pre_skip,omitempty"`
	VBR         bool     `json:"vbr"`
	Vendor      string   `json:"vendor"`
	Comments    []string `json:"comments"`
	Warnings    []string `json:"warnings,omitempty"`
}

func newFileReport(f *oggmeta.File) fileReport {
	r := fileReport{
		Path:        f.Path,
		Format:      f.Format.String(),
		Codec:       f.Audio.Codec,
		Serial:      f.Audio.Serial,
		DurationMs:  f.Audio.Duration.Milliseconds(),
		BitrateKbps: f.Audio.Bitrate,
		SampleRate:  f.Audio.SampleRate,
		Channels:    f.Audio.Channels,
		PreSkip:     f.Audio.PreSkip,
		VBR:         f.Audio.VBR,
		Vendor:      f.Tags.Vendor,
		Comments:    f.Tags.Comments(),
	}
	if r.Comments == nil {
		r.Comments = []string{}
	}
	for _, w := range f.Warnings {
		r.Warnings = append(r.Warnings, w.Message)
	}
	return r
}

func infoCmd() *cli.Command {
	var (
		asJSON bool
		verify bool
		jobs   int
	)

	return &cli.Command{
		Name:      "info",
		Usage:     "Show audio properties and comments",
		ArgsUsage: "<file> [file...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print JSON instead of text", Destination: &asJSON},
			&cli.BoolFlag{Name: "verify", Usage: "reject header pages with a bad checksum", Destination: &verify},
			&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Usage: "files read concurrently (0 = one per CPU)", Destination: &jobs},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return cli.Exit("error: at least one file is required", 1)
			}
			applyInfoConfig(cmd, configFrom(ctx), &jobs)

			log := logger.FromContext(ctx)
			opts := []oggmeta.Option{oggmeta.WithLogger(log)}
			if verify {
				opts = append(opts, oggmeta.WithChecksumVerification())
			}

			files, err := oggmeta.OpenManyWithOptions(ctx, jobs, paths, opts...)
			if err != nil {
				return errors.Wrap(err, "info")
			}
			defer func() {
				for _, f := range files {
					_ = f.Close()
				}
			}()
			log.Debug("read files", "count", len(files), "jobs", jobs)

			reports := make([]fileReport, 0, len(files))
			for _, f := range files {
				reports = append(reports, newFileReport(f))
			}

			out := stdout(cmd)
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(reports)
			}
			for i, r := range reports {
				if i > 0 {
					_, _ = fmt.Fprintln(out)
				}
				printReport(out, r, files[i])
			}
			return nil
		},
	}
}

func printReport(w io.Writer, r fileReport, f *oggmeta.File) {
	_, _ = fmt.Fprintf(w, "%s\n", r.Path)
	_, _ = fmt.Fprintf(w, "  Format:  %s\n", r.Format)
	_, _ = fmt.Fprintf(w, "  Audio:   %s\n", f.Audio)
	_, _ = fmt.Fprintf(w, "  Serial:  %#08x\n", r.Serial)
	_, _ = fmt.Fprintf(w, "  Vendor:  %s\n", r.Vendor)
	for _, c := range r.Comments {
		_, _ = fmt.Fprintf(w, "  %s\n", c)
	}
	for _, msg := range r.Warnings {
		_, _ = fmt.Fprintf(w, "  warning: %s\n", msg)
	}
}
