package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"golang.org/x/sync/semaphore"
)

// Mode controls when fetched audio is re-encoded before transcription.
type Mode string

const (
	ModeAuto   Mode = "auto"   // transcode only when the payload is not canonical
	ModeAlways Mode = "always" // transcode every payload
	ModeNever  Mode = "never"  // pass everything through untouched
)

// Normalizer re-encodes audio into canonical form (16 kHz mono 16-bit
// PCM WAV) with ffmpeg. Transcodes run under a semaphore so a burst of
// large payloads cannot starve the rest of the process.
type Normalizer struct {
	mode Mode
	bin  string
	sem  *semaphore.Weighted
}

func NewNormalizer(mode Mode, bin string, maxConcurrent int64) *Normalizer {
	if bin == "" {
		bin = "ffmpeg"
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	switch mode {
	case ModeAuto, ModeAlways, ModeNever:
	default:
		mode = ModeAuto
	}
	return &Normalizer{mode: mode, bin: bin, sem: semaphore.NewWeighted(maxConcurrent)}
}

// Needed reports whether the payload should be transcoded under the
// configured mode.
func (n *Normalizer) Needed(data []byte) bool {
	switch n.mode {
	case ModeNever:
		return false
	case ModeAlways:
		return true
	}
	return !Sniff(data).Canonical()
}

// Normalize pipes the payload through ffmpeg and returns canonical WAV
// bytes. The context bounds both the semaphore wait and the transcode.
func (n *Normalizer) Normalize(ctx context.Context, data []byte) ([]byte, error) {
	if err := n.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire transcode slot: %w", err)
	}
	defer n.sem.Release(1)

	args := []string{
		"-nostdin", "-hide_banner", "-loglevel", "error",
		"-i", "pipe:0",
		"-ac", strconv.Itoa(CanonicalChannels),
		"-ar", strconv.Itoa(CanonicalSampleRate),
		"-c:a", "pcm_s16le",
		"-f", "wav",
		"pipe:1",
	}
	cmd := exec.CommandContext(ctx, n.bin, args...)
	cmd.Stdin = bytes.NewReader(data)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("transcode audio: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("transcode audio: %w", err)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("transcode audio: ffmpeg produced no output")
	}
	return out.Bytes(), nil
}
