package oggmeta

import (
	"github.com/simonhull/oggmeta/internal/types"
)

// Tags is an alias to types.Tags.
type Tags = types.Tags
