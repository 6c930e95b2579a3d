package audio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNeededRespectsMode(t *testing.T) {
	t.Parallel()

	canonical := wavHeader(t, 1, 1, 16000, 16)
	mp3 := append([]byte("ID3"), make([]byte, 16)...)

	auto := NewNormalizer(ModeAuto, "", 1)
	require.False(t, auto.Needed(canonical))
	require.True(t, auto.Needed(mp3))

	always := NewNormalizer(ModeAlways, "", 1)
	require.True(t, always.Needed(canonical))

	never := NewNormalizer(ModeNever, "", 1)
	require.False(t, never.Needed(mp3))
}

func TestNewNormalizerDefaultsUnknownMode(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(Mode("bogus"), "", 1)
	require.False(t, n.Needed(wavHeader(t, 1, 1, 16000, 16)))
}

func TestNormalizeFailsWhenBinaryMissing(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(ModeAlways, "definitely-not-ffmpeg-xyz", 1)
	_, err := n.Normalize(context.Background(), []byte("junk"))
	require.Error(t, err)
}

func TestNormalizeHonorsCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := NewNormalizer(ModeAlways, "definitely-not-ffmpeg-xyz", 1)
	_, err := n.Normalize(ctx, []byte("junk"))
	require.Error(t, err)
}
