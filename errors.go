package oggmeta

import (
	"github.com/simonhull/oggmeta/internal/types"
)

// OutOfBoundsError is an alias to types.OutOfBoundsError.
type OutOfBoundsError = types.OutOfBoundsError

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
type UnsupportedFormatError = types.UnsupportedFormatError

// CorruptedFileError is an alias to types.CorruptedFileError.
//
// It is returned for every malformed-stream condition: truncated pages, a
// metadata region that never ends, pages out of order, and granule
// positions that go backwards.
type CorruptedFileError = types.CorruptedFileError

// UnsupportedWriteError is an alias to types.UnsupportedWriteError.
type UnsupportedWriteError = types.UnsupportedWriteError

// Warning is an alias to types.Warning.
type Warning = types.Warning
