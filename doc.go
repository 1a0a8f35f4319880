// Package oggmeta reads and rewrites the metadata of Ogg audio streams.
//
// oggmeta handles the three Ogg codecs that carry Vorbis comments: Vorbis,
// Opus and Speex. It derives duration and average bitrate from granule
// positions, exposes the comment header as Tags, and rewrites the comment
// header without touching a single byte of audio.
//
// # Quick Start
//
// Reading metadata from an Ogg file:
//
//	file, err := oggmeta.Open("song.opus")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	fmt.Printf("%s - %s\n", file.Tags.Artist, file.Tags.Title)
//	fmt.Printf("Duration: %s\n", file.Audio.Duration)
//
// Changing a tag:
//
//	file.Tags.Title = "New Title"
//	file.Tags.Set("ENCODED_BY", "me")
//	if err := file.Save(oggmeta.WithBackup(".bak")); err != nil {
//		log.Fatal(err)
//	}
//
// # Supported Formats
//
//   - Ogg Vorbis (.ogg, .oga)
//   - Ogg Opus (.opus)
//   - Ogg Speex (.spx)
//
// # How Properties Are Derived
//
// Duration is the difference between the last granule position of the
// stream and the first page's granule position plus the codec's pre-skip,
// divided by the granule clock (48 kHz for Opus, the stream's sample rate
// otherwise). Bitrate is the size of the audio region over that duration.
//
// # Rewriting
//
// Save replaces the pages of the comment header and copies every audio
// page verbatim. Replacement pages take the stream's serial number and get
// fresh checksums. The new file is written to a temporary file in the same
// directory and renamed over the original.
//
// # Error Handling
//
// oggmeta distinguishes between fatal errors and warnings:
//
//   - Fatal errors prevent parsing entirely: a missing file, an unsupported
//     codec, or a stream whose structure is broken (CorruptedFileError)
//   - Warnings record non-fatal issues such as a bad page checksum or an
//     unreadable comment header
//
// Typed errors can be inspected with errors.As:
//
//	var corrupted *oggmeta.CorruptedFileError
//	if errors.As(err, &corrupted) {
//		log.Printf("broken at offset %d: %s", corrupted.Offset, corrupted.Reason)
//	}
//
// # Logging
//
// The library is silent by default. Pass WithLogger to receive debug
// records about page navigation and splicing.
package oggmeta
