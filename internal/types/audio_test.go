package types

import (
	"testing"
	"time"
)

func TestAudioInfo_String(t *testing.T) {
	tests := []struct {
		name  string
		audio AudioInfo
		want  string
	}{
		{
			name: "opus",
			audio: AudioInfo{
				Codec:      "Opus",
				SampleRate: 48000,
				Channels:   2,
				Bitrate:    96,
				VBR:        true,
				Duration:   3*time.Minute + 25*time.Second,
			},
			want: "Opus 48.0kHz stereo 96kbps VBR 3m25s",
		},
		{
			name: "no bitrate",
			audio: AudioInfo{
				Codec:      "Vorbis",
				SampleRate: 44100,
				Channels:   1,
			},
			want: "Vorbis 44.1kHz mono",
		},
		{
			name:  "codec only",
			audio: AudioInfo{Codec: "Speex"},
			want:  "Speex",
		},
		{
			name:  "empty",
			audio: AudioInfo{},
			want:  "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.audio.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestChannelDescription(t *testing.T) {
	tests := []struct {
		channels int
		want     string
	}{
		{0, ""},
		{1, "mono"},
		{2, "stereo"},
		{4, "quad"},
		{6, "5.1"},
		{8, "7.1"},
		{3, "3ch"},
	}

	for _, tc := range tests {
		if got := channelDescription(tc.channels); got != tc.want {
			t.Errorf("channelDescription(%d) = %q, want %q", tc.channels, got, tc.want)
		}
	}
}
