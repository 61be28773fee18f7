package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/muratoffalex/urlregex/internal/logger"
)

const maxBodySize = 10 << 20

var (
	ErrRateLimited = errors.New("rate limit exceeded")
	ErrBadStatus   = errors.New("unexpected status")
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Page is a downloaded document. Body is the raw, undecoded payload.
type Page struct {
	URL         string
	ContentType string
	Body        []byte
}

func (p Page) IsHTML() bool {
	mediaType, _, err := mime.ParseMediaType(p.ContentType)
	if err != nil {
		return strings.Contains(strings.ToLower(p.ContentType), "html")
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// Fetcher downloads pages, pacing requests with a token bucket.
type Fetcher struct {
	client    HTTPClient
	limiter   *rate.Limiter
	userAgent string
	logger    logger.Logger
}

// NewFetcher builds a Fetcher allowing perSecond requests per second. A
// perSecond of zero disables pacing.
func NewFetcher(client HTTPClient, perSecond float64, userAgent string, l logger.Logger) *Fetcher {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &Fetcher{
		client:    client,
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: userAgent,
		logger:    logger.ForComponent(l, logger.ComponentNetwork),
	}
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Page, error) {
	l := f.logger.WithField("url", rawURL)

	if err := f.limiter.Wait(ctx); err != nil {
		return Page{}, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Page{}, fmt.Errorf("failed to create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Page{}, fmt.Errorf("connection reset by peer (EOF) - possible server issue with %s", rawURL)
		}
		return Page{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return Page{}, fmt.Errorf("%w (429) for %s", ErrRateLimited, rawURL)
	case resp.StatusCode >= http.StatusBadRequest:
		return Page{}, fmt.Errorf("%w %d for %s", ErrBadStatus, resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Page{}, fmt.Errorf("reading body failed: %w", err)
	}

	page := Page{
		URL:         rawURL,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}
	if resp.Request != nil && resp.Request.URL != nil {
		// after redirects
		page.URL = resp.Request.URL.String()
	}
	l.WithFields(logger.Fields{
		"status":       resp.StatusCode,
		"content_type": page.ContentType,
		"bytes":        len(body),
	}).Debug("Page fetched")
	return page, nil
}
