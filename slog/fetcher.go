// Package slog provides logging decorators for the imgcrawl service
// interfaces, built on log/slog.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/imgcrawl"
)

// Ensure LoggingFetcher implements imgcrawl.Fetcher.
var _ imgcrawl.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   imgcrawl.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next imgcrawl.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the request.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (resp *imgcrawl.Response, err error) {
	defer func(begin time.Time) {
		var size int
		var contentType string
		if resp != nil {
			size = len(resp.Body)
			contentType = resp.ContentType
		}
		f.logger.Debug("fetch",
			"url", url,
			"bytes", size,
			"content_type", contentType,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}
