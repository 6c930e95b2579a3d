package stt

import "context"

// LocalConfig holds configuration for the local whisper.cpp backend.
type LocalConfig struct {
	BaseURL string // default: "http://localhost:8178"
}

// Local wraps WhisperHTTP pointing at a local whisper.cpp server.
// Start the server with: ./server -m models/ggml-base.en.bin --port 8178
type Local struct {
	*WhisperHTTP
}

// NewLocal creates a Local backed by a whisper.cpp HTTP server.
func NewLocal(cfg LocalConfig) *Local {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8178"
	}
	return &Local{
		WhisperHTTP: NewWhisperHTTP(WhisperHTTPConfig{
			BaseURL: baseURL,
			// No API key needed for local server
		}),
	}
}

func (l *Local) Name() string { return "local-whisper" }

func (l *Local) Transcribe(ctx context.Context, req Request) (*Result, error) {
	return l.WhisperHTTP.Transcribe(ctx, req)
}
