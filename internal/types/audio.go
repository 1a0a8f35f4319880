package types

import (
	"fmt"
	"strings"
	"time"
)

// AudioInfo represents technical audio properties.
//
// Duration and Bitrate are derived from the stream's granule positions and
// the size of its audio region; SampleRate and Channels come from the
// identification header.
type AudioInfo struct {
	ReplayGain *ReplayGainInfo
	Codec      string
	Container  string
	Duration   time.Duration
	SampleRate int
	Channels   int
	// Bitrate in kbps, averaged over the audio region. Zero when the
	// stream has no measurable duration.
	Bitrate int
	// InputSampleRate is the pre-encoding rate recorded by Opus encoders
	// (informational; Opus always decodes at 48 kHz).
	InputSampleRate int
	PreSkip         int
	Serial          uint32
	VBR             bool
}

// ReplayGainInfo represents loudness normalization data.
//
// See https://wiki.hydrogenaud.io/index.php?title=ReplayGain
type ReplayGainInfo struct {
	TrackGain float64 // Track gain adjustment in dB (can be negative)
	TrackPeak float64 // Track peak amplitude (0.0 to 1.0+)
	AlbumGain float64 // Album gain adjustment in dB (can be negative)
	AlbumPeak float64 // Album peak amplitude (0.0 to 1.0+)
}

// String returns a human-readable representation of the audio info.
// Example output: "Opus 48.0kHz stereo 96kbps VBR 3m25s".
func (a AudioInfo) String() string {
	parts := []string{a.Codec}
	if a.SampleRate > 0 {
		parts = append(parts, fmt.Sprintf("%.1fkHz", float64(a.SampleRate)/1000))
	}
	if ch := channelDescription(a.Channels); ch != "" {
		parts = append(parts, ch)
	}
	if a.Bitrate > 0 {
		quality := fmt.Sprintf("%dkbps", a.Bitrate)
		if a.VBR {
			quality += " VBR"
		}
		parts = append(parts, quality)
	}
	if a.Duration > 0 {
		parts = append(parts, a.Duration.Round(time.Second).String())
	}

	return strings.Join(slicesCompact(parts), " ")
}

// channelDescription returns a human-readable channel description.
func channelDescription(channels int) string {
	switch channels {
	case 0:
		return ""
	case 1:
		return "mono"
	case 2:
		return "stereo"
	case 4:
		return "quad"
	case 6:
		return "5.1"
	case 8:
		return "7.1"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}

// slicesCompact drops empty strings.
func slicesCompact(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
