package ogg

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/simonhull/oggmeta/internal/logger"
	"github.com/simonhull/oggmeta/internal/registry"
	"github.com/simonhull/oggmeta/internal/types"
	"github.com/simonhull/oggmeta/internal/vorbis"
)

const containerOgg = "Ogg"

// parser implements registry.FormatParser for Vorbis, Opus and Speex streams.
type parser struct{}

// Parse reads the first logical stream of an Ogg file: codec, properties and
// comment header.
func (p *parser) Parse(ctx context.Context, r io.ReaderAt, size int64, path string, opts registry.ParseOptions) (*types.File, error) {
	log := logger.FromContext(ctx).With("path", path)
	sr := io.NewSectionReader(r, 0, size)

	first, err := ReadPage(sr)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &types.CorruptedFileError{Path: path, Reason: "empty stream", Err: io.ErrUnexpectedEOF}
		}
		return nil, withPath(err, path)
	}

	file := &types.File{Path: path, Size: size}
	if !first.IsFirst() {
		file.Warnings = append(file.Warnings, types.Warning{
			Stage:   "container",
			Message: "first page is not flagged beginning-of-stream",
			Offset:  first.Start,
		})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s, err := scanStream(sr, first, size)
	if err != nil {
		return nil, withPath(err, path)
	}
	log.Debug("scanned ogg stream",
		"codec", s.profile.codec.String(),
		"serial", s.first.Serial,
		"metadata_pages", len(s.boundary.Metadata),
		"audio_start", s.boundary.AudioStart,
		"last_granule", s.last.GranulePosition)

	file.Format = s.profile.codec.Format()

	headers := append([]*Page{first}, s.boundary.Metadata...)
	for _, pg := range headers {
		if pg.VerifyChecksum() {
			continue
		}
		if opts.VerifyChecksums {
			return nil, &types.CorruptedFileError{
				Path:     path,
				Offset:   pg.Start,
				Reason:   "page checksum mismatch",
				Expected: fmt.Sprintf("%#08x", pg.computeChecksum()),
				Observed: fmt.Sprintf("%#08x", pg.Checksum),
			}
		}
		file.Warnings = append(file.Warnings, types.Warning{
			Stage:   "container",
			Message: fmt.Sprintf("page %d has a bad checksum", pg.Sequence),
			Offset:  pg.Start,
		})
	}

	fillAudioInfo(file, s)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parseCommentHeader(file, s)

	return file, nil
}

// fillAudioInfo copies the derived properties and codec specifics into file.
func fillAudioInfo(file *types.File, s *stream) {
	a := &file.Audio
	a.Codec = s.profile.codec.String()
	a.Container = containerOgg
	a.Serial = s.first.Serial
	a.Duration = s.props.Duration
	a.Channels = int(s.props.Channels)
	a.SampleRate = int(s.props.SampleRate)
	a.PreSkip = int(s.id.preSkip)
	if s.props.HasBitrate {
		a.Bitrate = int(s.props.Bitrate)
	}

	content := s.first.Content
	switch s.profile.codec {
	case codecOpus:
		// Opus always decodes at 48 kHz; the header rate is the encoder input.
		a.InputSampleRate = a.SampleRate
		a.SampleRate = int(s.profile.clockRate)
		a.VBR = true
		if len(content) >= 18 {
			if gain := int16(binary.LittleEndian.Uint16(content[16:18])); gain != 0 {
				file.Warnings = append(file.Warnings, types.Warning{
					Stage:   "technical",
					Message: fmt.Sprintf("output gain of %.2f dB is applied on decode", float64(gain)/256),
				})
			}
		}

	case codecVorbis:
		if _, _, err := vorbisBlocksizes(content); err != nil {
			file.Warnings = append(file.Warnings, types.Warning{
				Stage:   "technical",
				Message: fmt.Sprintf("vorbis identification header: %v", err),
				Offset:  s.first.Start,
			})
		}
		if len(content) >= 28 {
			maxRate := int32(binary.LittleEndian.Uint32(content[16:20]))
			minRate := int32(binary.LittleEndian.Uint32(content[24:28]))
			a.VBR = maxRate != minRate || maxRate <= 0
		}

	case codecSpeex:
		// vbr flag follows mode, mode_bitstream_version, nb_channels,
		// bitrate and frame_size.
		if off := s.profile.headerSkip + 24; len(content) >= off+4 {
			a.VBR = binary.LittleEndian.Uint32(content[off:off+4]) != 0
		}
	}
}

// parseCommentHeader decodes the comment packet from the metadata pages.
// A damaged comment header is recorded as a warning; the properties are
// still usable.
func parseCommentHeader(file *types.File, s *stream) {
	packets, partial := Packets(s.boundary.Metadata)
	if partial != nil {
		last := s.boundary.Metadata[len(s.boundary.Metadata)-1]
		file.Warnings = append(file.Warnings, types.Warning{
			Stage:   "container",
			Message: fmt.Sprintf("header packet left open at the end of the metadata pages (%d bytes)", len(partial)),
			Offset:  last.Start,
		})
	}
	if len(packets) == 0 {
		file.Warnings = append(file.Warnings, types.Warning{
			Stage:   "metadata",
			Message: "comment header does not end within the metadata pages",
			Offset:  s.boundary.Metadata[0].Start,
		})
		return
	}

	vendor, comments, err := s.profile.codec.parseComments(packets[0])
	if err != nil {
		file.Warnings = append(file.Warnings, types.Warning{
			Stage:   "metadata",
			Message: fmt.Sprintf("failed to parse comment header: %v", err),
			Offset:  s.boundary.Metadata[0].Start,
		})
	}

	file.Tags.Vendor = vendor
	for _, c := range comments {
		if err := vorbis.ParseComment(c, file); err != nil {
			file.Warnings = append(file.Warnings, types.Warning{
				Stage:   "metadata",
				Message: err.Error(),
			})
		}
	}
}

// withPath fills in the path of a path-less error from the page layer.
func withPath(err error, path string) error {
	var corrupted *types.CorruptedFileError
	if errors.As(err, &corrupted) && corrupted.Path == "" {
		corrupted.Path = path
	}
	var unsupported *types.UnsupportedFormatError
	if errors.As(err, &unsupported) && unsupported.Path == "" {
		unsupported.Path = path
	}
	return err
}

// init registers the Ogg parser and writer for every supported codec.
func init() {
	p := &parser{}
	w := &writer{}
	for _, f := range []types.Format{types.FormatVorbis, types.FormatOpus, types.FormatSpeex} {
		registry.Register(f, p)
		registry.RegisterWriter(f, w)
	}
}
