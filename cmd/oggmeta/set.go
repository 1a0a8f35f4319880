package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/simonhull/oggmeta"
	"github.com/simonhull/oggmeta/internal/logger"
)

// assignment is one KEY=VALUE argument.
type assignment struct {
	key   string
	value string
}

func parseAssignments(args []string) ([]assignment, error) {
	out := make([]assignment, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, errors.Errorf("invalid assignment %q, want KEY=VALUE", arg)
		}
		if strings.ContainsAny(key, "=~") {
			return nil, errors.Errorf("invalid field name %q", key)
		}
		out = append(out, assignment{key: strings.ToUpper(key), value: value})
	}
	return out, nil
}

// applyEdits deletes the named fields, then sets every assigned field.
// Repeated keys become multiple values in argument order.
func applyEdits(tags *oggmeta.Tags, deletes []string, edits []assignment) {
	for _, key := range deletes {
		tags.Delete(key)
	}

	values := make(map[string][]string)
	var order []string
	for _, e := range edits {
		if _, ok := values[e.key]; !ok {
			order = append(order, e.key)
		}
		values[e.key] = append(values[e.key], e.value)
	}
	for _, key := range order {
		tags.Set(key, values[key]...)
	}
}

func setCmd() *cli.Command {
	var (
		deletes       []string
		vendor        string
		output        string
		backup        string
		validate      bool
		preserveMtime bool
	)

	return &cli.Command{
		Name:      "set",
		Usage:     "Rewrite the comment header",
		ArgsUsage: "<file> [KEY=VALUE...]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "delete", Aliases: []string{"d"}, Usage: "remove a field (repeatable)", Destination: &deletes},
			&cli.StringFlag{Name: "vendor", Usage: "replace the vendor string", Destination: &vendor},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write to this path instead of in place", Destination: &output},
			&cli.StringFlag{Name: "backup", Usage: "keep the original with this suffix", Destination: &backup},
			&cli.BoolFlag{Name: "validate", Usage: "re-read the written file and compare", Destination: &validate},
			&cli.BoolFlag{Name: "preserve-mtime", Usage: "keep the original modification time", Destination: &preserveMtime},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return cli.Exit("error: a file is required", 1)
			}
			path := cmd.Args().First()
			edits, err := parseAssignments(cmd.Args().Tail())
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if len(edits) == 0 && len(deletes) == 0 && vendor == "" {
				return cli.Exit("error: nothing to change", 1)
			}
			applySetConfig(cmd, configFrom(ctx), &backup, &validate)

			log := logger.FromContext(ctx).With("path", path)

			f, err := oggmeta.OpenContext(ctx, path, oggmeta.WithLogger(log))
			if err != nil {
				return errors.Wrapf(err, "set %s", path)
			}
			defer f.Close()

			applyEdits(&f.Tags, deletes, edits)
			if vendor != "" {
				f.Tags.Vendor = vendor
			}

			var opts []oggmeta.SaveOption
			if backup != "" {
				opts = append(opts, oggmeta.WithBackup(backup))
			}
			if validate {
				opts = append(opts, oggmeta.WithValidation())
			}
			if preserveMtime {
				opts = append(opts, oggmeta.WithPreserveModTime())
			}

			dest := path
			if output != "" {
				dest = output
			}
			if err := f.SaveAsContext(ctx, dest, opts...); err != nil {
				return errors.Wrapf(err, "save %s", dest)
			}
			log.Info("saved", "output", dest, "comments", len(f.Tags.Comments()))
			return nil
		},
	}
}
