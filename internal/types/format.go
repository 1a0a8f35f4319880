package types

import (
	"io"

	"github.com/simonhull/oggmeta/internal/binary"
)

// Format represents the detected audio format.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported format.
	FormatUnknown Format = iota // Unknown
	// FormatVorbis represents Ogg Vorbis audio files.
	FormatVorbis // Ogg Vorbis
	// FormatOpus represents Ogg Opus audio files.
	FormatOpus // Opus
	// FormatSpeex represents Ogg Speex audio files.
	FormatSpeex // Speex
)

// String returns the display name of the format.
func (f Format) String() string {
	switch f {
	case FormatVorbis:
		return "Ogg Vorbis"
	case FormatOpus:
		return "Opus"
	case FormatSpeex:
		return "Speex"
	default:
		return "Unknown"
	}
}

// Extensions returns common file extensions for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatVorbis:
		return []string{".ogg", ".oga"}
	case FormatOpus:
		return []string{".opus"}
	case FormatSpeex:
		return []string{".spx"}
	case FormatUnknown:
		return nil
	default:
		return nil
	}
}

// Codec magic markers found at the start of the identification packet.
const (
	MagicVorbis = "\x01vorbis"
	MagicOpus   = "OpusHead"
	MagicSpeex  = "Speex   "
)

// DetectFormat determines the audio file format by examining magic bytes.
//
// The file must start with an Ogg page ("OggS"); the codec is identified by
// the magic at the start of the first packet. Detection does not validate
// the rest of the stream.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	// Ogg page header: 27 bytes fixed + segment table (variable).
	// Minimum needed: 27 (header) + 1 (segment table) + 7 ("\x01vorbis") = 35 bytes
	if size < 35 {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "file too small",
		}
	}

	sr := binary.NewSafeReader(r, size, path)

	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, 0, "file magic bytes"); err != nil {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "failed to read file header",
		}
	}
	if string(magic) != "OggS" {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "not an Ogg stream",
		}
	}

	segCount, err := binary.ReadLE[uint8](sr, 26, "segment count")
	if err != nil {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "truncated first page",
		}
	}

	// First packet starts after: 27 (header) + segment_count (segment table)
	packetOffset := int64(27 + int(segCount))
	avail := size - packetOffset
	if avail <= 0 {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "truncated first page",
		}
	}
	codecMagic := make([]byte, min(avail, 8))
	if err := sr.ReadAt(codecMagic, packetOffset, "codec magic"); err != nil {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "failed to read codec magic",
		}
	}

	switch {
	case len(codecMagic) >= 8 && string(codecMagic[:8]) == MagicOpus:
		return FormatOpus, nil
	case len(codecMagic) >= 8 && string(codecMagic[:8]) == MagicSpeex:
		return FormatSpeex, nil
	case len(codecMagic) >= 7 && string(codecMagic[:7]) == MagicVorbis:
		return FormatVorbis, nil
	}

	return FormatUnknown, &UnsupportedFormatError{
		Path:   path,
		Reason: "unknown Ogg codec",
	}
}
