package stt

import (
	"context"
	"io"
)

// Request carries the audio payload for one transcription call. Audio
// may be an in-memory buffer or a stream; adapters must not care which.
// Filename labels the attachment and its extension tells the remote API
// which container to assume.
type Request struct {
	Audio    io.Reader
	Filename string
	Prompt   string `json:"prompt,omitempty"`
	Language string `json:"language,omitempty"`
	Diarize  bool   `json:"diarize,omitempty"`
}

// Speaker is one diarized segment, passed through from the capability
// verbatim. Absence of speaker data is not an error.
type Speaker struct {
	Speaker string  `json:"speaker"`
	Start   float64 `json:"start,omitempty"`
	End     float64 `json:"end,omitempty"`
	Text    string  `json:"text,omitempty"`
}

// Result holds the transcription outcome.
type Result struct {
	Text     string    `json:"text"`
	Language string    `json:"language,omitempty"`
	Duration float64   `json:"duration,omitempty"`
	Speakers []Speaker `json:"speakers,omitempty"`
}

// Provider is the interface for speech-to-text backends.
type Provider interface {
	Transcribe(ctx context.Context, req Request) (*Result, error)
	Name() string
}
