package ogg

import (
	"bytes"
	"fmt"
	"io"

	"github.com/simonhull/oggmeta/internal/types"
)

// Splice writes the replacement metadata pages followed by the audio region
// of r, starting at b.AudioStart, to w.
//
// Every page in pages is assigned serial and has its checksum regenerated in
// place. Sequence numbers must be strictly increasing. Audio pages are copied
// verbatim. Bytes before the metadata region (the identification page) are
// the caller's to write.
func Splice(w io.Writer, r io.ReadSeeker, b *Boundary, serial uint32, pages []*Page) error {
	if b == nil {
		return &types.CorruptedFileError{
			Reason: "metadata region never terminated: no audio boundary to splice at",
		}
	}

	for i, p := range pages {
		if err := p.validateLacing(); err != nil {
			return err
		}
		if i > 0 && p.Sequence <= pages[i-1].Sequence {
			return &types.CorruptedFileError{
				Reason:   "unexpected page ordering in replacement metadata",
				Expected: fmt.Sprintf("sequence > %d", pages[i-1].Sequence),
				Observed: fmt.Sprintf("sequence %d at page %d", p.Sequence, i),
			}
		}
	}

	if _, err := r.Seek(b.AudioStart, io.SeekStart); err != nil {
		return fmt.Errorf("seek to audio region: %w", err)
	}

	for _, p := range pages {
		p.Serial = serial
		p.GenerateChecksum()
		if _, err := w.Write(p.Bytes()); err != nil {
			return fmt.Errorf("write metadata page %d: %w", p.Sequence, err)
		}
	}

	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copy audio region: %w", err)
	}
	return nil
}

// SpliceBytes is Splice into memory.
func SpliceBytes(r io.ReadSeeker, b *Boundary, serial uint32, pages []*Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := Splice(&buf, r, b, serial, pages); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteMetadata locates the end of the metadata region starting at the
// current position of r (the first comment page) and returns the
// replacement pages followed by the original audio region.
func WriteMetadata(r io.ReadSeeker, serial uint32, pages []*Page) ([]byte, error) {
	b, err := skipMetadata(r)
	if err != nil {
		return nil, err
	}
	return SpliceBytes(r, b, serial, pages)
}
