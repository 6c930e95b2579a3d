package postprocess

import (
	"context"
	"fmt"
	"strings"

	"github.com/voxrelay/voxrelay/internal/llm"
)

// Service rewrites a raw transcript through the LLM gateway using a
// deployment-supplied system instruction template. What the rewrite does
// (cleanup, translation, diarization-by-text) lives entirely in the
// template, not here.
type Service struct {
	gw       llm.Gateway
	template string
	model    string
}

func NewService(gw llm.Gateway, template, model string) *Service {
	return &Service{gw: gw, template: template, model: model}
}

// Enabled reports whether a template is configured. When it is not, the
// pipeline skips this stage entirely.
func (s *Service) Enabled() bool { return strings.TrimSpace(s.template) != "" }

// Process returns the rewritten transcript. An answer with no content is
// a capability failure, not an empty rewrite.
func (s *Service) Process(ctx context.Context, transcript string) (string, error) {
	resp, err := s.gw.Chat(ctx, llm.ChatRequest{
		Model: s.model,
		Messages: []llm.Message{
			{Role: "system", Content: s.template},
			{Role: "user", Content: transcript},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("post-process transcript: %w", err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("post-process response missing content")
	}
	return resp.Content, nil
}
