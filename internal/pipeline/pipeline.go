package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voxrelay/voxrelay/internal/audio"
	"github.com/voxrelay/voxrelay/internal/cache"
	"github.com/voxrelay/voxrelay/internal/fetch"
	"github.com/voxrelay/voxrelay/internal/stt"
)

// Fetcher retrieves a remote audio resource.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetch.Resource, error)
}

// Normalizer decides whether a payload needs transcoding and performs it.
type Normalizer interface {
	Needed(data []byte) bool
	Normalize(ctx context.Context, data []byte) ([]byte, error)
}

// PostProcessor rewrites a raw transcript. Enabled is false when no
// instruction template is configured.
type PostProcessor interface {
	Enabled() bool
	Process(ctx context.Context, transcript string) (string, error)
}

// Result is the terminal value of one pipeline run.
type Result struct {
	RawTranscript   string        `json:"raw_transcript"`
	CleanTranscript string        `json:"clean_transcript,omitempty"`
	Speakers        []stt.Speaker `json:"speakers,omitempty"`
	Cached          bool          `json:"-"`
}

// Config holds the per-stage sub-deadlines and the transcription hints
// threaded into every run. Each network-bound stage gets its own budget
// so one slow call fails fast instead of eating the whole request.
type Config struct {
	FetchTimeout       time.Duration
	NormalizeTimeout   time.Duration
	TranscribeTimeout  time.Duration
	PostProcessTimeout time.Duration

	Prompt   string
	Language string
	Diarize  bool
}

// Pipeline runs one request through fetch, conditional normalization,
// transcription and optional post-processing, strictly in that order.
// Requests share nothing but the (immutable) collaborators held here.
type Pipeline struct {
	fetcher    Fetcher
	normalizer Normalizer
	transcribe stt.Provider
	post       PostProcessor
	respCache  *cache.ResponseCache // nil disables caching
	cfg        Config
}

func New(f Fetcher, n Normalizer, t stt.Provider, p PostProcessor, c *cache.ResponseCache, cfg Config) *Pipeline {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.NormalizeTimeout <= 0 {
		cfg.NormalizeTimeout = 60 * time.Second
	}
	if cfg.TranscribeTimeout <= 0 {
		cfg.TranscribeTimeout = 5 * time.Minute
	}
	if cfg.PostProcessTimeout <= 0 {
		cfg.PostProcessTimeout = 2 * time.Minute
	}
	return &Pipeline{
		fetcher:    f,
		normalizer: n,
		transcribe: t,
		post:       p,
		respCache:  c,
		cfg:        cfg,
	}
}

// Run executes the pipeline for one audio reference. Every failure comes
// back as a *Error; the caller maps it to exactly one HTTP response.
func (p *Pipeline) Run(ctx context.Context, audioURL string) (*Result, error) {
	log := slog.With("run_id", uuid.New().String())

	if strings.TrimSpace(audioURL) == "" {
		return nil, &Error{Kind: KindValidation, Message: "audioUrl is required"}
	}

	// Fetch
	fctx, cancel := context.WithTimeout(ctx, p.cfg.FetchTimeout)
	res, err := p.fetcher.Fetch(fctx, audioURL)
	cancel()
	if err != nil {
		return nil, classifyFetchError(err)
	}
	log.Info("audio fetched", "bytes", res.Size, "content_type", res.ContentType)

	// Cache lookup. Keyed by content, not URL: signed URLs rotate.
	var key string
	if p.respCache != nil {
		key = cache.Key(res.Data)
		var cached Result
		ok, err := p.respCache.Get(ctx, key, &cached)
		if err != nil {
			log.Warn("cache lookup failed", "error", err)
		} else if ok {
			log.Info("cache hit", "key", key)
			cached.Cached = true
			return &cached, nil
		}
	}

	// Normalize, only when the payload needs it
	data := res.Data
	if p.normalizer != nil && p.normalizer.Needed(data) {
		nctx, cancel := context.WithTimeout(ctx, p.cfg.NormalizeTimeout)
		normalized, err := p.normalizer.Normalize(nctx, data)
		cancel()
		if err != nil {
			return nil, &Error{Kind: KindNormalization, Message: "failed to normalize audio", Err: err}
		}
		log.Info("audio normalized", "bytes_in", len(data), "bytes_out", len(normalized))
		data = normalized
	}

	// Transcribe
	tctx, cancel := context.WithTimeout(ctx, p.cfg.TranscribeTimeout)
	tr, err := p.transcribe.Transcribe(tctx, stt.Request{
		Audio:    bytes.NewReader(data),
		Filename: "audio." + audio.Sniff(data).Extension(),
		Prompt:   p.cfg.Prompt,
		Language: p.cfg.Language,
		Diarize:  p.cfg.Diarize,
	})
	cancel()
	if err != nil {
		return nil, &Error{Kind: KindTranscription, Message: "transcription failed", Err: err}
	}
	log.Info("audio transcribed", "chars", len(tr.Text), "speakers", len(tr.Speakers))

	out := &Result{
		RawTranscript: tr.Text,
		Speakers:      tr.Speakers,
	}

	// Post-process, when configured. A failure here degrades to partial
	// success: the transcription is already paid for and still useful.
	if p.post != nil && p.post.Enabled() {
		pctx, cancel := context.WithTimeout(ctx, p.cfg.PostProcessTimeout)
		clean, err := p.post.Process(pctx, tr.Text)
		cancel()
		if err != nil {
			log.Warn("post-processing failed, returning raw transcript", "error", err)
		} else {
			out.CleanTranscript = clean
		}
	}

	if p.respCache != nil {
		if err := p.respCache.Set(ctx, key, out); err != nil {
			log.Warn("cache store failed", "error", err)
		}
	}

	return out, nil
}

// classifyFetchError splits download failures into client-attributable
// ones (bad reference, rejected download, oversized payload) and
// upstream faults (network, timeout).
func classifyFetchError(err error) *Error {
	var statusErr *fetch.StatusError
	switch {
	case errors.Is(err, fetch.ErrInvalidURL):
		return &Error{Kind: KindValidation, Message: "audioUrl is not a valid http(s) URL", Err: err}
	case errors.As(err, &statusErr), errors.Is(err, fetch.ErrTooLarge):
		return &Error{Kind: KindFetch, Status: http.StatusBadRequest, Message: "Failed to download audio", Err: err}
	default:
		return &Error{Kind: KindFetch, Status: http.StatusBadGateway, Message: "Failed to download audio", Err: err}
	}
}
