package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/imgcrawl"
)

// Ensure LoggingImageStore implements imgcrawl.ImageStore.
var _ imgcrawl.ImageStore = (*LoggingImageStore)(nil)

// LoggingImageStore wraps an ImageStore with debug logging.
type LoggingImageStore struct {
	next   imgcrawl.ImageStore
	logger *slog.Logger
}

// NewLoggingImageStore creates a new LoggingImageStore.
func NewLoggingImageStore(next imgcrawl.ImageStore, logger *slog.Logger) *LoggingImageStore {
	return &LoggingImageStore{next: next, logger: logger}
}

// Save delegates to the wrapped store and logs the write.
func (s *LoggingImageStore) Save(ctx context.Context, imageURL string, body []byte) (name string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("image save",
			"url", imageURL,
			"file", name,
			"bytes", len(body),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(ctx, imageURL, body)
}
