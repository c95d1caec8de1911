package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/imgcrawl"
)

// Ensure LoggingReportWriter implements imgcrawl.ReportWriter.
var _ imgcrawl.ReportWriter = (*LoggingReportWriter)(nil)

// LoggingReportWriter wraps a ReportWriter with logging.
type LoggingReportWriter struct {
	next   imgcrawl.ReportWriter
	logger *slog.Logger
}

// NewLoggingReportWriter creates a new LoggingReportWriter.
func NewLoggingReportWriter(next imgcrawl.ReportWriter, logger *slog.Logger) *LoggingReportWriter {
	return &LoggingReportWriter{next: next, logger: logger}
}

// WriteReport delegates to the wrapped writer and logs the result.
func (w *LoggingReportWriter) WriteReport(ctx context.Context, path string, result *imgcrawl.CrawlResult) (err error) {
	defer func(begin time.Time) {
		var count int
		if result != nil {
			count = len(result.Images)
		}
		w.logger.Info("report written",
			"path", path,
			"images", count,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WriteReport(ctx, path, result)
}
