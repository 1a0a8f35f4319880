package ogg

import (
	"errors"
	"fmt"
	"io"

	"github.com/simonhull/oggmeta/internal/types"
)

// Boundary marks where the metadata region of a stream ends.
type Boundary struct {
	// AudioStart is the offset of the first page that does not continue
	// the metadata region.
	AudioStart int64

	// Metadata holds the pages of the region, first comment page first.
	Metadata []*Page
}

// skipMetadata consumes the comment header region starting at the current
// position of r, which must be the first comment page (the page after the
// identification page).
//
// Pages flagged as continued are taken as part of the region. At the first
// page that is not, r is seeked back to that page's start and the boundary
// is returned. A stream that ends inside the region is malformed.
func skipMetadata(r io.ReadSeeker) (*Boundary, error) {
	first, err := ReadPage(r)
	if err != nil {
		return nil, unterminated(r, err)
	}

	b := &Boundary{Metadata: []*Page{first}}
	for {
		p, err := ReadPage(r)
		if err != nil {
			return nil, unterminated(r, err)
		}

		if p.Serial != first.Serial {
			return nil, &types.CorruptedFileError{
				Offset:   p.Start,
				Reason:   "unexpected page ordering in metadata region",
				Expected: fmt.Sprintf("serial %#08x", first.Serial),
				Observed: fmt.Sprintf("serial %#08x", p.Serial),
			}
		}

		if !p.IsContinued() {
			if _, err := r.Seek(p.Start, io.SeekStart); err != nil {
				return nil, fmt.Errorf("seek back to audio page: %w", err)
			}
			b.AudioStart = p.Start
			return b, nil
		}

		b.Metadata = append(b.Metadata, p)
	}
}

// unterminated converts end of stream inside the metadata region into a
// malformed-stream error.
func unterminated(r io.Seeker, err error) error {
	if !errors.Is(err, io.EOF) {
		return err
	}
	pos, _ := r.Seek(0, io.SeekCurrent) //nolint:errcheck // Offset is informational
	return &types.CorruptedFileError{
		Offset: pos,
		Reason: "metadata region never terminated: stream ended inside the comment header",
		Err:    io.ErrUnexpectedEOF,
	}
}
