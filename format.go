package oggmeta

import (
	"io"

	"github.com/simonhull/oggmeta/internal/types"
)

// Format is an alias to types.Format.
type Format = types.Format

// Re-export all format constants.
const (
	FormatUnknown = types.FormatUnknown
	FormatVorbis  = types.FormatVorbis
	FormatOpus    = types.FormatOpus
	FormatSpeex   = types.FormatSpeex
)

// DetectFormat identifies the codec of an Ogg stream from its first page.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	return types.DetectFormat(r, size, path)
}
