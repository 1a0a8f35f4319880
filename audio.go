package oggmeta

import (
	"github.com/simonhull/oggmeta/internal/types"
)

// AudioInfo is an alias to types.AudioInfo.
type AudioInfo = types.AudioInfo

// ReplayGainInfo is an alias to types.ReplayGainInfo.
type ReplayGainInfo = types.ReplayGainInfo
