package ogg

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/bits"
	"time"

	"github.com/simonhull/oggmeta/internal/types"
)

// Properties are the audio properties derived from a stream's granule
// positions and size.
type Properties struct {
	Duration   time.Duration
	Bitrate    uint32 // Average bitrate over the audio region, kbit/s
	HasBitrate bool   // False when the duration is under one millisecond
	SampleRate uint32 // As stored in the identification header
	Channels   uint8
}

// deriveProperties computes duration and average bitrate.
//
// The playable frame count is lastGranule - (firstGranule + preSkip), in
// units of clockRate. clockRate must be positive.
func deriveProperties(firstGranule uint64, preSkip uint16, lastGranule uint64, clockRate uint32, audioBytes int64) (Properties, error) {
	start, carry := bits.Add64(firstGranule, uint64(preSkip), 0)
	if carry != 0 || lastGranule < start {
		expected := fmt.Sprintf("last granule >= %d", start)
		if carry != 0 {
			expected = "first granule + pre-skip within 64 bits"
		}
		return Properties{}, &types.CorruptedFileError{
			Reason:   "incorrect time-position values",
			Expected: expected,
			Observed: fmt.Sprintf("first %d, pre-skip %d, last %d", firstGranule, preSkip, lastGranule),
		}
	}
	frames := lastGranule - start

	hi, lo := bits.Mul64(frames, 1000)
	if hi >= uint64(clockRate) {
		return Properties{}, &types.CorruptedFileError{
			Reason:   "granule position out of range",
			Observed: fmt.Sprintf("%d frames at %d Hz", frames, clockRate),
		}
	}
	durationMs, _ := bits.Div64(hi, lo, uint64(clockRate))
	if durationMs > maxDurationMs {
		return Properties{}, &types.CorruptedFileError{
			Reason:   "granule position out of range",
			Expected: fmt.Sprintf("duration <= %d ms", maxDurationMs),
			Observed: fmt.Sprintf("%d frames at %d Hz", frames, clockRate),
		}
	}

	props := Properties{Duration: time.Duration(durationMs) * time.Millisecond}
	if durationMs > 0 {
		hi, lo := bits.Mul64(uint64(max(audioBytes, 0)), 8)
		var bitrate uint64
		if hi < durationMs {
			bitrate, _ = bits.Div64(hi, lo, durationMs)
		}
		if hi >= durationMs || bitrate > math.MaxUint32 {
			return Properties{}, &types.CorruptedFileError{
				Reason:   "bitrate out of range",
				Expected: fmt.Sprintf("<= %d kbit/s", uint64(math.MaxUint32)),
				Observed: fmt.Sprintf("%d bytes over %d ms", audioBytes, durationMs),
			}
		}
		props.Bitrate = uint32(bitrate)
		props.HasBitrate = true
	}
	return props, nil
}

// maxDurationMs is the longest duration a time.Duration can hold.
const maxDurationMs = uint64(math.MaxInt64 / int64(time.Millisecond))

// findLastPage scans forward from the current position of r and returns the
// last page of the logical stream serial that carries a granule position.
// The scan stops at end of stream or at the first page of another stream.
// Page contents are skipped, not read.
func findLastPage(r io.ReadSeeker, serial uint32) (*Page, error) {
	end, err := streamEnd(r)
	if err != nil {
		return nil, err
	}

	var last *Page
	for {
		p, err := readPageHeader(r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if p.Start+p.Size() > end {
			return nil, &types.CorruptedFileError{
				Offset:   p.Start,
				Reason:   "truncated page content",
				Expected: fmt.Sprintf("%d bytes", p.Size()),
				Observed: fmt.Sprintf("%d bytes", end-p.Start),
				Err:      io.ErrUnexpectedEOF,
			}
		}
		if p.Serial != serial {
			break
		}
		if p.GranulePosition != NoGranule {
			last = p
		}
	}

	if last == nil {
		pos, _ := r.Seek(0, io.SeekCurrent) //nolint:errcheck // Offset is informational
		return nil, &types.CorruptedFileError{
			Offset: pos,
			Reason: "no audio page carries a granule position",
		}
	}
	return last, nil
}

// streamEnd returns the length of r, leaving the position unchanged.
func streamEnd(r io.Seeker) (int64, error) {
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("locate stream position: %w", err)
	}
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("locate stream end: %w", err)
	}
	if _, err := r.Seek(pos, io.SeekStart); err != nil {
		return 0, fmt.Errorf("restore stream position: %w", err)
	}
	return end, nil
}

// stream is everything learned from one pass over a logical stream.
type stream struct {
	profile  profile
	id       idHeader
	first    *Page
	boundary *Boundary
	last     *Page
	props    Properties
}

// scanStream identifies the codec of first, walks the metadata region and
// derives properties. r must be positioned just after first.
func scanStream(r io.ReadSeeker, first *Page, streamLen int64) (*stream, error) {
	c, ok := detectCodec(first.Content)
	if !ok {
		return nil, &types.UnsupportedFormatError{Reason: "unknown Ogg codec"}
	}
	s := &stream{profile: profileFor(c), first: first}

	id, err := s.profile.identify(first.Content)
	if err != nil {
		return nil, err
	}
	s.id = id

	if s.boundary, err = skipMetadata(r); err != nil {
		return nil, err
	}
	if s.last, err = findLastPage(r, first.Serial); err != nil {
		return nil, err
	}

	s.props, err = deriveProperties(
		first.GranulePosition,
		id.preSkip,
		s.last.GranulePosition,
		s.profile.clock(id),
		streamLen-s.boundary.AudioStart,
	)
	if err != nil {
		return nil, err
	}
	s.props.SampleRate = id.sampleRate
	s.props.Channels = id.channels

	return s, nil
}

// ReadProperties derives the audio properties of the stream whose
// identification page is first. r must be positioned just after first;
// streamLen is the total length of the stream in bytes.
func ReadProperties(r io.ReadSeeker, first *Page, streamLen int64) (Properties, error) {
	s, err := scanStream(r, first, streamLen)
	if err != nil {
		return Properties{}, err
	}
	return s.props, nil
}
