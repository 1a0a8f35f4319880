package ogg

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/icza/bitio"

	binutil "github.com/simonhull/oggmeta/internal/binary"
	"github.com/simonhull/oggmeta/internal/types"
)

// codec identifies an Ogg-encapsulated codec family.
type codec int

const (
	codecVorbis codec = iota
	codecOpus
	codecSpeex
)

func (c codec) String() string {
	switch c {
	case codecVorbis:
		return "Vorbis"
	case codecOpus:
		return "Opus"
	case codecSpeex:
		return "Speex"
	default:
		return fmt.Sprintf("codec(%d)", int(c))
	}
}

// Format returns the public format constant for the codec.
func (c codec) Format() types.Format {
	switch c {
	case codecVorbis:
		return types.FormatVorbis
	case codecOpus:
		return types.FormatOpus
	case codecSpeex:
		return types.FormatSpeex
	default:
		return types.FormatUnknown
	}
}

// profile describes where a codec keeps its identification fields. Offsets
// are relative to the end of the skipped prefix (magic plus version fields).
type profile struct {
	codec            codec
	magic            string
	headerSkip       int
	channelOffset    int
	channelSize      int // 1 or 4 bytes
	sampleRateOffset int
	preSkipOffset    int    // -1 when the codec has no pre-skip
	clockRate        uint32 // 0: the stream's own sample rate is the granule clock
}

// newProfile builds a profile and panics on an impossible configuration.
func newProfile(c codec, magic string, skip, chanOff, chanSize, rateOff, preSkipOff int, clock int64) profile {
	switch {
	case clock < 0 || clock > int64(^uint32(0)):
		panic(fmt.Sprintf("ogg: %s profile: clock rate %d out of range", c, clock))
	case skip < len(magic):
		panic(fmt.Sprintf("ogg: %s profile: header skip %d shorter than magic", c, skip))
	case chanSize != 1 && chanSize != 4:
		panic(fmt.Sprintf("ogg: %s profile: channel field size %d", c, chanSize))
	}
	return profile{
		codec:            c,
		magic:            magic,
		headerSkip:       skip,
		channelOffset:    chanOff,
		channelSize:      chanSize,
		sampleRateOffset: rateOff,
		preSkipOffset:    preSkipOff,
		clockRate:        uint32(clock),
	}
}

var profiles = [...]profile{
	codecVorbis: newProfile(codecVorbis, types.MagicVorbis, 11, 0, 1, 1, -1, 0),
	codecOpus:   newProfile(codecOpus, types.MagicOpus, 9, 0, 1, 3, 1, 48000),
	codecSpeex:  newProfile(codecSpeex, types.MagicSpeex, 36, 12, 4, 0, -1, 0),
}

func profileFor(c codec) profile {
	return profiles[c]
}

// detectCodec matches the identification packet against the known magics.
func detectCodec(firstPacket []byte) (codec, bool) {
	for _, p := range profiles {
		if bytes.HasPrefix(firstPacket, []byte(p.magic)) {
			return p.codec, true
		}
	}
	return 0, false
}

// idHeader holds the fields read from an identification packet.
type idHeader struct {
	channels   uint8
	sampleRate uint32
	preSkip    uint16
}

// identify reads the identification fields from the first packet.
func (p profile) identify(content []byte) (idHeader, error) {
	var h idHeader
	if !strings.HasPrefix(string(content), p.magic) {
		return h, &types.CorruptedFileError{
			Reason:   fmt.Sprintf("%s identification header has wrong magic", p.codec),
			Expected: fmt.Sprintf("%q", p.magic),
			Observed: fmt.Sprintf("%q", content[:min(len(content), len(p.magic))]),
		}
	}

	sr := binutil.NewSafeReader(bytes.NewReader(content), int64(len(content)), "")
	base := int64(p.headerSkip)

	switch p.channelSize {
	case 1:
		ch, err := binutil.ReadLE[uint8](sr, base+int64(p.channelOffset), "channel count")
		if err != nil {
			return h, p.truncatedHeader(err)
		}
		h.channels = ch
	default:
		ch, err := binutil.ReadLE[uint32](sr, base+int64(p.channelOffset), "channel count")
		if err != nil {
			return h, p.truncatedHeader(err)
		}
		h.channels = uint8(min(ch, 255))
	}

	rate, err := binutil.ReadLE[uint32](sr, base+int64(p.sampleRateOffset), "sample rate")
	if err != nil {
		return h, p.truncatedHeader(err)
	}
	h.sampleRate = rate

	if p.preSkipOffset >= 0 {
		preSkip, err := binutil.ReadLE[uint16](sr, base+int64(p.preSkipOffset), "pre-skip")
		if err != nil {
			return h, p.truncatedHeader(err)
		}
		h.preSkip = preSkip
	}

	if p.clockRate == 0 && h.sampleRate == 0 {
		return h, &types.CorruptedFileError{
			Offset:   base + int64(p.sampleRateOffset),
			Reason:   fmt.Sprintf("%s identification header has a zero sample rate", p.codec),
			Expected: "non-zero sample rate",
			Observed: "0",
		}
	}

	return h, nil
}

// clock returns the granule clock rate for a stream with header h.
func (p profile) clock(h idHeader) uint32 {
	if p.clockRate != 0 {
		return p.clockRate
	}
	return h.sampleRate
}

func (p profile) truncatedHeader(err error) error {
	return &types.CorruptedFileError{
		Reason: fmt.Sprintf("truncated %s identification header", p.codec),
		Err:    err,
	}
}

// Vorbis identification header: 7 magic, 4 version, 1 channels, 4 rate,
// 3x4 bitrates, then one byte of packed block sizes and the framing byte.
const (
	vorbisBlocksizeOffset = 28
	vorbisFramingOffset   = 29
)

// vorbisBlocksizes unpacks and validates the two block size exponents of a
// Vorbis identification header. Both must lie in 6..13 and the short block
// must not exceed the long one.
func vorbisBlocksizes(content []byte) (short, long int, err error) {
	if len(content) <= vorbisFramingOffset {
		return 0, 0, fmt.Errorf("identification header is %d bytes, want at least %d", len(content), vorbisFramingOffset+1)
	}

	br := bitio.NewReader(bytes.NewReader(content[vorbisBlocksizeOffset : vorbisBlocksizeOffset+1]))
	// The byte holds blocksize_1 in its high nibble.
	exp1, err := br.ReadBits(4)
	if err != nil {
		return 0, 0, fmt.Errorf("read blocksize_1: %w", err)
	}
	exp0, err := br.ReadBits(4)
	if err != nil {
		return 0, 0, fmt.Errorf("read blocksize_0: %w", err)
	}

	switch {
	case exp0 < 6 || exp0 > 13 || exp1 < 6 || exp1 > 13:
		return 0, 0, fmt.Errorf("block size exponents %d/%d outside 6..13", exp0, exp1)
	case exp0 > exp1:
		return 0, 0, fmt.Errorf("short block size 2^%d exceeds long block size 2^%d", exp0, exp1)
	case content[vorbisFramingOffset]&0x01 == 0:
		return 0, 0, fmt.Errorf("framing bit not set")
	}

	return 1 << exp0, 1 << exp1, nil
}
