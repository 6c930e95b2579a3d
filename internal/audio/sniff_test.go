package audio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// wavHeader builds a minimal RIFF/WAVE file with the given fmt fields.
func wavHeader(t *testing.T, format uint16, channels uint16, sampleRate uint32, bitDepth uint16) []byte {
	t.Helper()

	var b []byte
	b = append(b, []byte("RIFF")...)
	b = binary.LittleEndian.AppendUint32(b, 36)
	b = append(b, []byte("WAVE")...)
	b = append(b, []byte("fmt ")...)
	b = binary.LittleEndian.AppendUint32(b, 16)
	b = binary.LittleEndian.AppendUint16(b, format)
	b = binary.LittleEndian.AppendUint16(b, channels)
	b = binary.LittleEndian.AppendUint32(b, sampleRate)
	b = binary.LittleEndian.AppendUint32(b, sampleRate*uint32(channels)*uint32(bitDepth)/8)
	b = binary.LittleEndian.AppendUint16(b, channels*bitDepth/8)
	b = binary.LittleEndian.AppendUint16(b, bitDepth)
	b = append(b, []byte("data")...)
	b = binary.LittleEndian.AppendUint32(b, 0)
	return b
}

func TestSniffDetectsCanonicalWAV(t *testing.T) {
	t.Parallel()

	f := Sniff(wavHeader(t, 1, 1, 16000, 16))
	require.Equal(t, "wav", f.Container)
	require.True(t, f.PCM)
	require.Equal(t, 16000, f.SampleRate)
	require.Equal(t, 1, f.Channels)
	require.Equal(t, 16, f.BitDepth)
	require.True(t, f.Canonical())
}

func TestSniffDetectsNonCanonicalWAV(t *testing.T) {
	t.Parallel()

	stereo := Sniff(wavHeader(t, 1, 2, 44100, 16))
	require.Equal(t, "wav", stereo.Container)
	require.False(t, stereo.Canonical())

	float32WAV := Sniff(wavHeader(t, 3, 1, 16000, 32))
	require.False(t, float32WAV.PCM)
	require.False(t, float32WAV.Canonical())
}

func TestSniffDetectsOtherContainers(t *testing.T) {
	t.Parallel()

	cases := map[string][]byte{
		"mp3":     append([]byte("ID3"), make([]byte, 16)...),
		"ogg":     append([]byte("OggS"), make([]byte, 16)...),
		"flac":    append([]byte("fLaC"), make([]byte, 16)...),
		"unknown": {0x00, 0x01, 0x02, 0x03, 0x04, 0x05},
	}
	for want, data := range cases {
		f := Sniff(data)
		require.Equal(t, want, f.Container)
		require.False(t, f.Canonical())
	}
}

func TestSniffDetectsBareMP3Frame(t *testing.T) {
	t.Parallel()

	f := Sniff([]byte{0xFF, 0xFB, 0x90, 0x00})
	require.Equal(t, "mp3", f.Container)
}

func TestExtensionFallsBackToWAV(t *testing.T) {
	t.Parallel()

	require.Equal(t, "mp3", Format{Container: "mp3"}.Extension())
	require.Equal(t, "wav", Format{Container: "unknown"}.Extension())
}
