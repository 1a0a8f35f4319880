// Package ogg implements the Ogg page container used by Vorbis, Opus and
// Speex: page framing, metadata-region navigation, audio property
// derivation and comment-header splicing.
package ogg

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/simonhull/oggmeta/internal/types"
)

// Header type flags.
const (
	FlagContinued byte = 0x01 // Page continues a packet from the previous page
	FlagFirst     byte = 0x02 // Beginning of stream
	FlagLast      byte = 0x04 // End of stream
)

const (
	captureSequence = "OggS"
	headerSize      = 27
	maxSegments     = 255

	// NoGranule marks a page on which no packet ends.
	NoGranule = ^uint64(0)
)

// Page is one physical unit of a logical bitstream.
type Page struct {
	Start           int64  // Byte offset of the page in the source stream
	HeaderType      byte   // Bit flags, see FlagContinued, FlagFirst, FlagLast
	GranulePosition uint64 // Codec-defined time position at the end of the page
	Serial          uint32 // Logical bitstream identifier
	Sequence        uint32 // Page sequence number
	Checksum        uint32 // CRC as stored (or as last generated)
	Segments        []byte // Lacing values
	Content         []byte // Concatenated segments
}

// IsContinued reports whether the page starts in the middle of a packet.
func (p *Page) IsContinued() bool {
	return p.HeaderType&FlagContinued != 0
}

// IsFirst reports whether the page is the first of its logical stream.
func (p *Page) IsFirst() bool {
	return p.HeaderType&FlagFirst != 0
}

// IsLast reports whether the page is the last of its logical stream.
func (p *Page) IsLast() bool {
	return p.HeaderType&FlagLast != 0
}

// Size returns the serialized length of the page.
func (p *Page) Size() int64 {
	return int64(headerSize + len(p.Segments) + len(p.Content))
}

// Bytes serializes the page with its stored checksum.
func (p *Page) Bytes() []byte {
	buf := make([]byte, p.Size())
	copy(buf[0:4], captureSequence)
	buf[4] = 0 // stream structure version
	buf[5] = p.HeaderType
	binary.LittleEndian.PutUint64(buf[6:14], p.GranulePosition)
	binary.LittleEndian.PutUint32(buf[14:18], p.Serial)
	binary.LittleEndian.PutUint32(buf[18:22], p.Sequence)
	binary.LittleEndian.PutUint32(buf[22:26], p.Checksum)
	buf[26] = byte(len(p.Segments))
	copy(buf[headerSize:], p.Segments)
	copy(buf[headerSize+len(p.Segments):], p.Content)
	return buf
}

// computeChecksum returns the CRC of the page with its checksum field zeroed.
func (p *Page) computeChecksum() uint32 {
	buf := p.Bytes()
	clear(buf[22:26])
	return checksum(buf)
}

// GenerateChecksum recomputes and stores the page CRC.
func (p *Page) GenerateChecksum() {
	p.Checksum = p.computeChecksum()
}

// VerifyChecksum reports whether the stored CRC matches the page contents.
func (p *Page) VerifyChecksum() bool {
	return p.Checksum == p.computeChecksum()
}

// validateLacing checks that the segment table describes the content.
func (p *Page) validateLacing() error {
	if len(p.Segments) > maxSegments {
		return &types.CorruptedFileError{
			Offset:   p.Start,
			Reason:   "too many segments in page",
			Expected: fmt.Sprintf("at most %d", maxSegments),
			Observed: fmt.Sprintf("%d", len(p.Segments)),
		}
	}
	total := 0
	for _, s := range p.Segments {
		total += int(s)
	}
	if total != len(p.Content) {
		return &types.CorruptedFileError{
			Offset:   p.Start,
			Reason:   "segment table does not match page content",
			Expected: fmt.Sprintf("%d content bytes", total),
			Observed: fmt.Sprintf("%d", len(p.Content)),
		}
	}
	return nil
}

// ReadPage reads one page at the current position of r.
//
// Pages are read strictly in sequence: the capture pattern must be at the
// current position. ReadPage returns io.EOF only when r is exhausted before
// the first header byte; a page cut short is a *types.CorruptedFileError.
func ReadPage(r io.ReadSeeker) (*Page, error) {
	return readPage(r, true)
}

// readPageHeader reads the header and segment table of one page and seeks
// past its content, leaving Content nil.
func readPageHeader(r io.ReadSeeker) (*Page, error) {
	return readPage(r, false)
}

func readPage(r io.ReadSeeker, withContent bool) (*Page, error) {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("locate page: %w", err)
	}

	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, truncated(start, "page header", err)
	}

	if string(header[0:4]) != captureSequence {
		return nil, &types.CorruptedFileError{
			Offset:   start,
			Reason:   "missing page capture pattern",
			Expected: fmt.Sprintf("%q", captureSequence),
			Observed: fmt.Sprintf("%q", header[0:4]),
		}
	}
	if header[4] != 0 {
		return nil, &types.CorruptedFileError{
			Offset:   start + 4,
			Reason:   "unsupported stream structure version",
			Expected: "0",
			Observed: fmt.Sprintf("%d", header[4]),
		}
	}

	p := &Page{
		Start:           start,
		HeaderType:      header[5],
		GranulePosition: binary.LittleEndian.Uint64(header[6:14]),
		Serial:          binary.LittleEndian.Uint32(header[14:18]),
		Sequence:        binary.LittleEndian.Uint32(header[18:22]),
		Checksum:        binary.LittleEndian.Uint32(header[22:26]),
		Segments:        make([]byte, header[26]),
	}

	if _, err := io.ReadFull(r, p.Segments); err != nil {
		return nil, truncated(start, "segment table", err)
	}

	size := 0
	for _, s := range p.Segments {
		size += int(s)
	}

	if !withContent {
		if _, err := r.Seek(int64(size), io.SeekCurrent); err != nil {
			return nil, fmt.Errorf("skip page content at offset %d: %w", start, err)
		}
		return p, nil
	}

	p.Content = make([]byte, size)
	if _, err := io.ReadFull(r, p.Content); err != nil {
		return nil, truncated(start, "page content", err)
	}

	return p, nil
}

// truncated converts a short read into a malformed-stream error. Other I/O
// failures are passed through unchanged.
func truncated(offset int64, what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &types.CorruptedFileError{
			Offset: offset,
			Reason: "truncated " + what,
			Err:    io.ErrUnexpectedEOF,
		}
	}
	return fmt.Errorf("read %s at offset %d: %w", what, offset, err)
}
