package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// WhisperHTTPConfig holds configuration for the raw multipart backend.
type WhisperHTTPConfig struct {
	APIKey  string
	BaseURL string // default: "https://api.openai.com/v1"
	Model   string // default: "whisper-1"
}

// WhisperHTTP posts audio to a Whisper-compatible /audio/transcriptions
// endpoint with a hand-built multipart upload. Used when the SDK is not
// an option: local whisper.cpp servers, and diarization-capable models
// whose speaker payloads the SDK does not expose.
type WhisperHTTP struct {
	cfg        WhisperHTTPConfig
	httpClient *http.Client
}

// NewWhisperHTTP creates a WhisperHTTP with sensible defaults applied.
func NewWhisperHTTP(cfg WhisperHTTPConfig) *WhisperHTTP {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "whisper-1"
	}
	return &WhisperHTTP{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 300 * time.Second,
		},
	}
}

func (w *WhisperHTTP) Name() string { return "whisper-http" }

// Transcribe uploads the audio as a named, typed attachment and decodes
// the recognized text. A response without a text field is a capability
// failure, not an empty transcription.
func (w *WhisperHTTP) Transcribe(ctx context.Context, req Request) (*Result, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	// Audio file part
	fw, err := mw.CreateFormFile("file", req.Filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err = io.Copy(fw, req.Audio); err != nil {
		return nil, fmt.Errorf("copy audio data: %w", err)
	}

	// Required fields
	_ = mw.WriteField("model", w.cfg.Model)
	_ = mw.WriteField("response_format", "verbose_json")
	_ = mw.WriteField("temperature", "0")

	// Optional fields
	if req.Language != "" {
		_ = mw.WriteField("language", req.Language)
	}
	if req.Prompt != "" {
		_ = mw.WriteField("prompt", req.Prompt)
	}
	if req.Diarize {
		// Diarization models reject requests without a chunking strategy.
		_ = mw.WriteField("chunking_strategy", "auto")
	}

	if err = mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", w.cfg.BaseURL+"/audio/transcriptions", &body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	if w.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+w.cfg.APIKey)
	}

	resp, err := w.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transcription failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	var apiResp struct {
		Text     *string   `json:"text"`
		Language string    `json:"language"`
		Duration float64   `json:"duration"`
		Speakers []Speaker `json:"speakers"`
	}
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if apiResp.Text == nil {
		return nil, fmt.Errorf("transcription response missing text field")
	}

	return &Result{
		Text:     *apiResp.Text,
		Language: apiResp.Language,
		Duration: apiResp.Duration,
		Speakers: apiResp.Speakers,
	}, nil
}
