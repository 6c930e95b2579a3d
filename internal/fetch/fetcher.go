package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var (
	// ErrInvalidURL marks a reference that is not a well-formed http(s) URL.
	ErrInvalidURL = errors.New("invalid audio url")
	// ErrTooLarge marks a resource exceeding the configured size cap.
	ErrTooLarge = errors.New("audio exceeds size limit")
)

// StatusError reports a non-success status from the remote host.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("download failed (status %d)", e.Code)
}

// Resource is a fully retrieved remote audio payload. Reader exposes the
// same bytes as a stream for adapters that prefer one.
type Resource struct {
	Data        []byte
	ContentType string
	Size        int64
	FinalURL    string
}

func (r *Resource) Reader() io.Reader { return bytes.NewReader(r.Data) }

// Fetcher downloads remote binary resources with a size cap and timeout.
// Single attempt, no retry: the caller sits on a synchronous
// request-response boundary with its own deadline.
type Fetcher struct {
	httpClient *http.Client
	maxBytes   int64
}

func NewFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxBytes <= 0 {
		maxBytes = 25 << 20
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   maxBytes,
	}
}

// Fetch retrieves the full content behind rawURL, following redirects.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Resource, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create download request: %w", err)
	}
	// Some object stores answer plain GETs with a truncated 206 window;
	// asking for the complete range from offset zero forces full content.
	req.Header.Set("Range", "bytes=0-")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, &StatusError{Code: resp.StatusCode}
	}
	if resp.ContentLength > f.maxBytes {
		return nil, fmt.Errorf("%w: declared %d bytes, limit %d", ErrTooLarge, resp.ContentLength, f.maxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read audio body: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrTooLarge, f.maxBytes)
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Resource{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        int64(len(data)),
		FinalURL:    finalURL,
	}, nil
}
