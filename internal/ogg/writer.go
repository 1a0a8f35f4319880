package ogg

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/simonhull/oggmeta/internal/logger"
	"github.com/simonhull/oggmeta/internal/types"
)

// writer implements registry.FormatWriter by rewriting the comment header
// and splicing the original audio pages back in.
type writer struct{}

// Write copies original to w with file.Tags as the new comment header.
//
// The identification page is copied as is. The comment packet, followed by
// any further header packets that ended inside the old metadata region
// (the Vorbis setup header), is paginated with the stream's serial and
// numbered on from the identification page. Audio pages are copied
// verbatim, so their sequence numbers are not renumbered when the metadata
// page count changes.
func (wr *writer) Write(ctx context.Context, w io.Writer, file *types.File, original io.ReaderAt, originalSize int64) error {
	log := logger.FromContext(ctx).With("path", file.Path)
	sr := io.NewSectionReader(original, 0, originalSize)

	first, err := ReadPage(sr)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &types.CorruptedFileError{Path: file.Path, Reason: "empty stream", Err: io.ErrUnexpectedEOF}
		}
		return withPath(err, file.Path)
	}

	c, ok := detectCodec(first.Content)
	if !ok {
		return &types.UnsupportedWriteError{Format: file.Format, Reason: "unknown Ogg codec"}
	}

	b, err := skipMetadata(sr)
	if err != nil {
		return withPath(err, file.Path)
	}

	packets, partial := Packets(b.Metadata)
	if partial != nil {
		last := b.Metadata[len(b.Metadata)-1]
		return &types.CorruptedFileError{
			Path:     file.Path,
			Offset:   last.Start,
			Reason:   "header packet left open at the end of the metadata pages",
			Expected: "next page flagged as continued",
			Observed: fmt.Sprintf("%d unterminated bytes", len(partial)),
		}
	}
	if len(packets) == 0 {
		return &types.CorruptedFileError{
			Path:   file.Path,
			Offset: b.Metadata[0].Start,
			Reason: "comment header does not end within the metadata pages",
		}
	}

	vendor := file.Tags.Vendor
	if vendor == "" {
		vendor, _, _ = c.parseComments(packets[0]) //nolint:errcheck // Vendor is best effort
	}

	replacement := append([][]byte{c.commentPacket(vendor, file.Tags.Comments())}, packets[1:]...)
	pages := Paginate(replacement, first.Serial, first.Sequence+1, 0)
	if len(pages) != len(b.Metadata) {
		log.Debug("metadata page count changed; audio sequence numbers kept",
			"old_pages", len(b.Metadata), "new_pages", len(pages))
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := io.Copy(w, io.NewSectionReader(original, 0, b.Metadata[0].Start)); err != nil {
		return fmt.Errorf("copy identification page: %w", err)
	}

	if err := Splice(w, sr, b, first.Serial, pages); err != nil {
		return withPath(err, file.Path)
	}

	log.Debug("spliced comment header",
		"codec", c.String(),
		"pages", len(pages),
		"audio_start", b.AudioStart,
		"audio_bytes", originalSize-b.AudioStart)
	return nil
}
