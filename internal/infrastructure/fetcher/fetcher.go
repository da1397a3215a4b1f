package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	"NewsChecker/internal/domain"
	"NewsChecker/internal/ports"
)

const defaultMaxBodyBytes = 8 << 20

// HTTPFetcher downloads pages and decodes them to UTF-8.
type HTTPFetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
}

var _ ports.PageFetcher = (*HTTPFetcher)(nil)

// New wires an HTTP client; a nil client gets a 20 second timeout.
func New(client *http.Client, userAgent string, maxBodyBytes int64) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &HTTPFetcher{client: client, userAgent: userAgent, maxBodyBytes: maxBodyBytes}
}

// Fetch performs a GET and returns the decoded body. Transport failures and
// error statuses wrap domain.ErrFetch.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (ports.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ports.Page{}, fmt.Errorf("%w: build request %s: %v", domain.ErrFetch, pageURL, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return ports.Page{}, fmt.Errorf("%w: request %s: %v", domain.ErrFetch, pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return ports.Page{}, fmt.Errorf("%w: %s returned %s", domain.ErrFetch, pageURL, resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		return ports.Page{}, fmt.Errorf("%w: read %s: %v", domain.ErrFetch, pageURL, err)
	}
	if int64(len(raw)) > f.maxBodyBytes {
		return ports.Page{}, fmt.Errorf("%w: %s body exceeds %d bytes", domain.ErrFetch, pageURL, f.maxBodyBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	reader, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return ports.Page{}, fmt.Errorf("%w: decode %s: %v", domain.ErrFetch, pageURL, err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return ports.Page{}, fmt.Errorf("%w: decode %s: %v", domain.ErrFetch, pageURL, err)
	}

	return ports.Page{
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        string(body),
	}, nil
}
