// Package vorbis provides Vorbis comment parsing and encoding.
//
// Vorbis comments carry the metadata of all three Ogg codecs handled here:
// Vorbis, Opus and Speex. A comment block is a length-prefixed vendor string
// followed by a count of length-prefixed UTF-8 "KEY=VALUE" comments, all
// lengths little-endian 32-bit.
package vorbis

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/simonhull/oggmeta/internal/binary"
	"github.com/simonhull/oggmeta/internal/types"
)

// ParseComment parses a single Vorbis comment in "KEY=VALUE" format
// and populates the appropriate fields in the File struct.
//
// Field names are case-insensitive. Every comment is stored in the raw tag
// table, which keeps the mapped standard fields in sync.
//
// Returns an error if the comment is not in valid "KEY=VALUE" format.
func ParseComment(comment string, file *types.File) error {
	key, value, ok := strings.Cut(comment, "=")
	if !ok {
		return fmt.Errorf("missing '=' in comment: %s", comment)
	}
	key = strings.ToUpper(key)

	switch key {
	case "REPLAYGAIN_TRACK_GAIN":
		replayGain(file).TrackGain = parseReplayGainValue(value)
	case "REPLAYGAIN_TRACK_PEAK":
		replayGain(file).TrackPeak = parseReplayGainPeak(value)
	case "REPLAYGAIN_ALBUM_GAIN":
		replayGain(file).AlbumGain = parseReplayGainValue(value)
	case "REPLAYGAIN_ALBUM_PEAK":
		replayGain(file).AlbumPeak = parseReplayGainPeak(value)
	}

	file.Tags.Add(key, value)
	return nil
}

func replayGain(file *types.File) *types.ReplayGainInfo {
	if file.Audio.ReplayGain == nil {
		file.Audio.ReplayGain = &types.ReplayGainInfo{}
	}
	return file.Audio.ReplayGain
}

// parseReplayGainValue parses a ReplayGain gain value like "-6.50 dB" or "-6.50".
func parseReplayGainValue(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, " dB")
	s = strings.TrimSuffix(s, "dB")
	s = strings.TrimSpace(s)
	val, _ := strconv.ParseFloat(s, 64) //nolint:errcheck // Best effort parsing, zero value is fine
	return val
}

// parseReplayGainPeak parses a ReplayGain peak value like "0.988127".
func parseReplayGainPeak(s string) float64 {
	val, _ := strconv.ParseFloat(strings.TrimSpace(s), 64) //nolint:errcheck // Best effort parsing, zero value is fine
	return val
}

// ParseCommentBlock decodes a comment block into its vendor string and
// comments. Bytes after the last comment (the Vorbis framing bit, Opus
// padding) are ignored.
func ParseCommentBlock(data []byte) (vendor string, comments []string, err error) {
	sr := binary.NewSafeReader(bytes.NewReader(data), int64(len(data)), "comment block")
	r := binary.NewReader(sr, 0)

	vendorLen, err := binary.ReadValue[uint32](r, "vendor length")
	if err != nil {
		return "", nil, err
	}
	if int64(vendorLen) > r.Remaining() {
		return "", nil, fmt.Errorf("vendor length %d exceeds remaining %d bytes", vendorLen, r.Remaining())
	}
	if vendor, err = r.ReadString(int(vendorLen), "vendor string"); err != nil {
		return "", nil, err
	}

	count, err := binary.ReadValue[uint32](r, "comment count")
	if err != nil {
		return vendor, nil, err
	}
	// Each comment needs at least its 4-byte length.
	if int64(count) > r.Remaining()/4 {
		return vendor, nil, fmt.Errorf("comment count %d exceeds what %d remaining bytes can hold", count, r.Remaining())
	}

	comments = make([]string, 0, count)
	for i := range count {
		length, err := binary.ReadValue[uint32](r, "comment length")
		if err != nil {
			return vendor, comments, fmt.Errorf("comment %d: %w", i, err)
		}
		if int64(length) > r.Remaining() {
			return vendor, comments, fmt.Errorf("comment %d at offset %d: length %d exceeds remaining %d bytes",
				i, r.Offset()-4, length, r.Remaining())
		}
		comment, err := r.ReadString(int(length), "comment")
		if err != nil {
			return vendor, comments, fmt.Errorf("comment %d: %w", i, err)
		}
		comments = append(comments, comment)
	}

	return vendor, comments, nil
}

// EncodeCommentBlock encodes a vendor string and comments as a comment block.
func EncodeCommentBlock(vendor string, comments []string) []byte {
	var buf bytes.Buffer
	sw := binary.NewSafeWriter(&buf)

	// Writes to a bytes.Buffer cannot fail.
	_ = sw.WriteLengthPrefixed(vendor)            //nolint:errcheck // bytes.Buffer
	_ = binary.WriteLE(sw, uint32(len(comments))) //nolint:errcheck // bytes.Buffer
	for _, c := range comments {
		_ = sw.WriteLengthPrefixed(c) //nolint:errcheck // bytes.Buffer
	}

	return buf.Bytes()
}
