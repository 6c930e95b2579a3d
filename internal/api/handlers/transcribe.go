package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/voxrelay/voxrelay/internal/pipeline"
	"github.com/voxrelay/voxrelay/internal/stt"
)

// Runner is the pipeline surface the handler needs.
type Runner interface {
	Run(ctx context.Context, audioURL string) (*pipeline.Result, error)
}

// TranscribeRequest is the inbound JSON body.
type TranscribeRequest struct {
	AudioURL string `json:"audioUrl"`
}

// TranscribeResponse is the outbound JSON body on success.
type TranscribeResponse struct {
	Success         bool          `json:"success"`
	RawTranscript   string        `json:"raw_transcript"`
	CleanTranscript string        `json:"clean_transcript,omitempty"`
	Speakers        []stt.Speaker `json:"speakers,omitempty"`
	Cached          bool          `json:"cached,omitempty"`
}

type TranscribeHandler struct {
	pipe Runner
}

func NewTranscribeHandler(pipe Runner) *TranscribeHandler {
	return &TranscribeHandler{pipe: pipe}
}

// Transcribe runs one audio reference through the pipeline and writes
// exactly one JSON response.
func (h *TranscribeHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	var req TranscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if strings.TrimSpace(req.AudioURL) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "audioUrl is required"})
		return
	}

	result, err := h.pipe.Run(r.Context(), req.AudioURL)
	if err != nil {
		var perr *pipeline.Error
		if errors.As(err, &perr) {
			// The wrapped cause stays in the logs; clients only ever see
			// the category message.
			slog.Error("pipeline failed", "kind", perr.Kind, "error", perr.Err)
			writeJSON(w, perr.HTTPStatus(), map[string]string{"error": perr.Message})
			return
		}
		slog.Error("pipeline failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, TranscribeResponse{
		Success:         true,
		RawTranscript:   result.RawTranscript,
		CleanTranscript: result.CleanTranscript,
		Speakers:        result.Speakers,
		Cached:          result.Cached,
	})
}
