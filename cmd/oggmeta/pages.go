package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/simonhull/oggmeta/internal/logger"
	"github.com/simonhull/oggmeta/internal/ogg"
)

// pageRow is one line of the page dump.
type pageRow struct {
	Offset   int64  `json:"offset"`
	Flags    string `json:"flags"`
	Granule  string `json:"granule"`
	Serial   uint32 `json:"serial"`
	Sequence uint32 `json:"sequence"`
	Segments int    `json:"segments"`
	Size     int64  `json:"size"`
	CRCOK    bool   `json:"crc_ok"`
}

func newPageRow(p *ogg.Page) pageRow {
	granule := "-1"
	if p.GranulePosition != ogg.NoGranule {
		granule = strconv.FormatUint(p.GranulePosition, 10)
	}
	return pageRow{
		Offset:   p.Start,
		Flags:    pageFlags(p),
		Granule:  granule,
		Serial:   p.Serial,
		Sequence: p.Sequence,
		Segments: len(p.Segments),
		Size:     p.Size(),
		CRCOK:    p.VerifyChecksum(),
	}
}

// pageFlags renders the header type as three columns: continued, first, last.
func pageFlags(p *ogg.Page) string {
	flags := []byte("---")
	if p.IsContinued() {
		flags[0] = 'c'
	}
	if p.IsFirst() {
		flags[1] = 'b'
	}
	if p.IsLast() {
		flags[2] = 'e'
	}
	return string(flags)
}

func pagesCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "pages",
		Usage:     "Dump the page headers of an Ogg file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print JSON instead of a table", Destination: &asJSON},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return cli.Exit("error: exactly one file is required", 1)
			}
			path := cmd.Args().First()

			rows, err := dumpPages(ctx, path)
			if err != nil {
				return errors.Wrapf(err, "pages %s", path)
			}

			out := stdout(cmd)
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			return printPages(out, rows)
		},
	}
}

// dumpPages reads every page of the file in order. A damaged page ends the
// dump with an error after the pages read so far.
func dumpPages(ctx context.Context, path string) ([]pageRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	log := logger.FromContext(ctx)

	var rows []pageRow
	for {
		if err := ctx.Err(); err != nil {
			return rows, err
		}
		p, err := ogg.ReadPage(f)
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, err
		}
		row := newPageRow(p)
		if !row.CRCOK {
			log.Warn("bad page checksum", "offset", p.Start, "sequence", p.Sequence)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func printPages(w io.Writer, rows []pageRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	_, _ = fmt.Fprintln(tw, "OFFSET\tFLAGS\tGRANULE\tSERIAL\tSEQ\tSEGS\tSIZE\tCRC\t")
	for _, r := range rows {
		crc := "ok"
		if !r.CRCOK {
			crc = "BAD"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%#08x\t%d\t%d\t%d\t%s\t\n",
			r.Offset, r.Flags, r.Granule, r.Serial, r.Sequence, r.Segments, r.Size, crc)
	}
	return tw.Flush()
}
