package parser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"SentimentExporter/internal/domain"
)

// DefaultUserAgent mimics a desktop browser; several upstreams reject bare clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// NewClient builds the shared upstream HTTP client.
func NewClient(timeout time.Duration, userAgent string) *resty.Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	client := resty.New()
	client.SetHeader("User-Agent", userAgent)
	client.SetTimeout(timeout)
	return client
}

// fetchBody performs a single GET and classifies transport and status failures.
// A client timeout is a transport failure like any other.
func fetchBody(ctx context.Context, client *resty.Client, source, url string) ([]byte, error) {
	res, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, &domain.SourceError{Kind: domain.SourceNetwork, Source: source, Err: fmt.Errorf("request %s: %w", url, err)}
	}

	if res.StatusCode() < 200 || res.StatusCode() > 299 {
		return nil, &domain.SourceError{Kind: domain.SourceHTTP, Source: source, Status: res.StatusCode(), Err: fmt.Errorf("%s returned %s", url, res.Status())}
	}

	return res.Body(), nil
}

func schemaError(source, format string, args ...interface{}) error {
	return &domain.SourceError{Kind: domain.SourceSchema, Source: source, Err: fmt.Errorf(format, args...)}
}
