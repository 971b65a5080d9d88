// Package fetch downloads price data files from remote URLs so the
// CLI can analyze series that are not on local disk.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"time"

	"github.com/go-resty/resty/v2"

	"stockpulse/internal/services"
)

const defaultTimeout = 30 * time.Second

// Client downloads remote CSV or workbook files
type Client struct {
	rest   *resty.Client
	logger *slog.Logger
}

// NewClient creates a fetch client with retries enabled
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	rest := resty.New().
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second)

	return &Client{
		rest:   rest,
		logger: logger.With(slog.String("component", "fetch")),
	}
}

// Fetch downloads one file and wraps it as an analysis input. The
// input name is the last path segment of the URL.
func (c *Client) Fetch(ctx context.Context, rawURL string) (services.FileInput, error) {
	name, err := nameFromURL(rawURL)
	if err != nil {
		return services.FileInput{}, err
	}

	resp, err := c.rest.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return services.FileInput{}, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	if resp.StatusCode() != 200 {
		return services.FileInput{}, fmt.Errorf("fetching %s: unexpected status %d", rawURL, resp.StatusCode())
	}

	c.logger.InfoContext(ctx, "file downloaded",
		slog.String("url", rawURL),
		slog.String("name", name),
		slog.Int("bytes", len(resp.Body())))

	return services.FileInput{
		Name:   name,
		Reader: bytes.NewReader(resp.Body()),
	}, nil
}

// FetchAll downloads every URL in order. The first failure aborts the
// remaining downloads.
func (c *Client) FetchAll(ctx context.Context, urls []string) ([]services.FileInput, error) {
	inputs := make([]services.FileInput, 0, len(urls))
	for _, u := range urls {
		in, err := c.Fetch(ctx, u)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// nameFromURL derives a file name from the URL path
func nameFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("url %q has no file name", rawURL)
	}
	return name, nil
}
