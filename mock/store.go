package mock

import (
	"context"

	"github.com/fwojciec/imgcrawl"
)

// Compile-time interface verification.
var (
	_ imgcrawl.ImageStore   = (*ImageStore)(nil)
	_ imgcrawl.ReportWriter = (*ReportWriter)(nil)
)

// ImageStore is a mock implementation of imgcrawl.ImageStore.
type ImageStore struct {
	SaveFn func(ctx context.Context, imageURL string, body []byte) (string, error)
}

func (s *ImageStore) Save(ctx context.Context, imageURL string, body []byte) (string, error) {
	return s.SaveFn(ctx, imageURL, body)
}

// ReportWriter is a mock implementation of imgcrawl.ReportWriter.
type ReportWriter struct {
	WriteReportFn func(ctx context.Context, path string, result *imgcrawl.CrawlResult) error
}

func (w *ReportWriter) WriteReport(ctx context.Context, path string, result *imgcrawl.CrawlResult) error {
	return w.WriteReportFn(ctx, path, result)
}
