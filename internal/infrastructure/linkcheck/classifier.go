package linkcheck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"NewsChecker/internal/domain"
	"NewsChecker/internal/ports"
)

const (
	// ReasonNetworkError classifies probes that failed before a response arrived.
	ReasonNetworkError = "network_error"

	defaultProbeTimeout = 10 * time.Second
	maxDrainBytes       = 64 << 10
)

// Options configures probing.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	HostDelay time.Duration
	UserAgent string
}

// Classifier resolves hrefs against the site base URL and probes them with GET.
type Classifier struct {
	client    *http.Client
	baseURL   string
	timeout   time.Duration
	userAgent string
	limiter   *hostLimiter
	inflight  singleflight.Group
	logger    *slog.Logger
}

var _ ports.LinkClassifier = (*Classifier)(nil)

type probeResult struct {
	broken bool
	reason string
}

// New wires an HTTP client; a nil client is created with the probe timeout.
func New(client *http.Client, opts Options, logger *slog.Logger) *Classifier {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultProbeTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &Classifier{
		client:    client,
		baseURL:   strings.TrimSuffix(opts.BaseURL, "/"),
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
		limiter:   newHostLimiter(opts.HostDelay),
		logger:    logger,
	}
}

// Classify returns the verdict for href. Network failures become
// Broken(network_error) and are never returned as errors.
func (c *Classifier) Classify(ctx context.Context, href string) ports.Verdict {
	if domain.IsNonNavigable(href) {
		return ports.Verdict{Href: href, URL: href}
	}

	target := domain.ResolveLink(href, c.baseURL)
	v, _, _ := c.inflight.Do(target, func() (interface{}, error) {
		return c.probe(ctx, target), nil
	})
	result := v.(probeResult)

	return ports.Verdict{
		Href:   href,
		URL:    target,
		Broken: result.broken,
		Reason: result.reason,
	}
}

func (c *Classifier) probe(ctx context.Context, target string) probeResult {
	parsed, err := url.Parse(target)
	if err != nil {
		return c.networkFailure(target, fmt.Errorf("parse url: %w", err))
	}
	if parsed.Host == "" {
		return c.networkFailure(target, fmt.Errorf("url has no host"))
	}

	if err := c.limiter.Wait(ctx, parsed.Host); err != nil {
		return c.networkFailure(target, fmt.Errorf("rate limit: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return c.networkFailure(target, fmt.Errorf("build request: %w", err))
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return c.networkFailure(target, err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
	_ = resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode <= 599 {
		return probeResult{broken: true, reason: fmt.Sprintf("http_%d", resp.StatusCode)}
	}
	return probeResult{}
}

func (c *Classifier) networkFailure(target string, cause error) probeResult {
	if c.logger != nil {
		err := fmt.Errorf("%w: %s: %v", domain.ErrClassificationNetwork, target, cause)
		c.logger.Debug("link probe failed", "url", target, "error", err)
	}
	return probeResult{broken: true, reason: ReasonNetworkError}
}
