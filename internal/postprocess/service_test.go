package postprocess

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voxrelay/voxrelay/internal/llm"
)

type stubGateway struct {
	lastReq llm.ChatRequest
	resp    *llm.ChatResponse
	err     error
}

func (s *stubGateway) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	s.lastReq = req
	return s.resp, s.err
}

func (s *stubGateway) Provider(string) (llm.Provider, error) { return nil, errors.New("unused") }

func TestProcessSendsTemplateAndTranscript(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{resp: &llm.ChatResponse{Content: "Cleaned up."}}
	svc := NewService(gw, "Fix punctuation.", "gpt-4o-mini")

	out, err := svc.Process(context.Background(), "raw transcript text")
	require.NoError(t, err)
	require.Equal(t, "Cleaned up.", out)

	require.Equal(t, "gpt-4o-mini", gw.lastReq.Model)
	require.Zero(t, gw.lastReq.Temperature)
	require.Len(t, gw.lastReq.Messages, 2)
	require.Equal(t, "system", gw.lastReq.Messages[0].Role)
	require.Equal(t, "Fix punctuation.", gw.lastReq.Messages[0].Content)
	require.Equal(t, "user", gw.lastReq.Messages[1].Role)
	require.Equal(t, "raw transcript text", gw.lastReq.Messages[1].Content)
}

func TestProcessFailsOnGatewayError(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{err: errors.New("quota exceeded")}
	svc := NewService(gw, "Fix punctuation.", "gpt-4o-mini")

	_, err := svc.Process(context.Background(), "text")
	require.Error(t, err)
}

func TestProcessRejectsEmptyContent(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{resp: &llm.ChatResponse{Content: "  \n"}}
	svc := NewService(gw, "Fix punctuation.", "gpt-4o-mini")

	_, err := svc.Process(context.Background(), "text")
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing content")
}

func TestEnabledReflectsTemplate(t *testing.T) {
	t.Parallel()

	require.True(t, NewService(&stubGateway{}, "do things", "m").Enabled())
	require.False(t, NewService(&stubGateway{}, "", "m").Enabled())
	require.False(t, NewService(&stubGateway{}, "   ", "m").Enabled())
}
