package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voxrelay/voxrelay/internal/config"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.STT.Backend = "openai"
	return NewRouter(nil, cfg).Setup()
}

func TestNonPOSTOnTranscribeIs405JSON(t *testing.T) {
	t.Parallel()

	h := testRouter(t)
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/v1/transcribe", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code, "method %s", method)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "only POST allowed", body["error"])
	}
}

func TestHealthzAlwaysOK(t *testing.T) {
	t.Parallel()

	h := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMissingAudioURLIs400BeforeAnyNetworkActivity(t *testing.T) {
	t.Parallel()

	h := testRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcribe", nil)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
