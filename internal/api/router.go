package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/voxrelay/voxrelay/internal/api/handlers"
	"github.com/voxrelay/voxrelay/internal/api/middleware"
	"github.com/voxrelay/voxrelay/internal/audio"
	"github.com/voxrelay/voxrelay/internal/cache"
	"github.com/voxrelay/voxrelay/internal/config"
	"github.com/voxrelay/voxrelay/internal/fetch"
	"github.com/voxrelay/voxrelay/internal/llm"
	"github.com/voxrelay/voxrelay/internal/pipeline"
	"github.com/voxrelay/voxrelay/internal/postprocess"
	"github.com/voxrelay/voxrelay/internal/stt"
)

type Router struct {
	mux   *chi.Mux
	redis *redis.Client
	cfg   *config.Config
}

func NewRouter(rdb *redis.Client, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		redis: rdb,
		cfg:   cfg,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(10, 20)
	r.Use(rl.Limit)

	// Wrong verbs fail before body parsing, with the JSON error shape.
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusMethodNotAllowed, "only POST allowed")
	})

	// Health endpoints
	health := handlers.NewHealthHandler(rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Pipeline collaborators, built once and shared read-only
	fetcher := fetch.NewFetcher(rt.cfg.Fetch.Timeout, rt.cfg.Fetch.MaxBytes)
	normalizer := audio.NewNormalizer(
		audio.Mode(rt.cfg.Normalize.Mode),
		rt.cfg.Normalize.FFmpegBin,
		int64(rt.cfg.Normalize.MaxConcurrent),
	)
	gw := llm.NewGateway(rt.cfg.LLM)
	post := postprocess.NewService(gw, rt.cfg.PostProcess.Template, rt.cfg.PostProcess.Model)

	var respCache *cache.ResponseCache
	if rt.redis != nil && rt.cfg.Cache.Enabled {
		respCache = cache.NewResponseCache(rt.redis, rt.cfg.Cache.TTL)
	}

	pipe := pipeline.New(fetcher, normalizer, newSTTProvider(rt.cfg.STT), post, respCache, pipeline.Config{
		FetchTimeout:       rt.cfg.Fetch.Timeout,
		NormalizeTimeout:   rt.cfg.Normalize.Timeout,
		TranscribeTimeout:  rt.cfg.STT.Timeout,
		PostProcessTimeout: rt.cfg.PostProcess.Timeout,
		Prompt:             rt.cfg.STT.Prompt,
		Language:           rt.cfg.STT.Language,
		Diarize:            rt.cfg.STT.Diarize,
	})

	transcribeH := handlers.NewTranscribeHandler(pipe)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/transcribe", transcribeH.Transcribe)
	})

	return r
}

func newSTTProvider(cfg config.STTConfig) stt.Provider {
	switch cfg.Backend {
	case "local":
		return stt.NewLocal(stt.LocalConfig{BaseURL: cfg.BaseURL})
	case "whisper-http":
		return stt.NewWhisperHTTP(stt.WhisperHTTPConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	default:
		return stt.NewOpenAIProvider(stt.OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	}
}
