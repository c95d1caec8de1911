package sqlite

import (
	"context"

	"github.com/fwojciec/imgcrawl"
)

// Ensure ReportWriter implements imgcrawl.ReportWriter.
var _ imgcrawl.ReportWriter = (*ReportWriter)(nil)

// ReportWriter records each written report in the catalog. It does not
// write the report file itself; pair it with fs.ReportWriter via
// imgcrawl.ReportWriters.
type ReportWriter struct {
	Catalog imgcrawl.CatalogService
}

// NewReportWriter creates a ReportWriter backed by db.
func NewReportWriter(db *DB) *ReportWriter {
	return &ReportWriter{Catalog: NewCatalogService(db)}
}

// WriteReport inserts result into the catalog, noting path as its report.
func (w *ReportWriter) WriteReport(ctx context.Context, path string, result *imgcrawl.CrawlResult) error {
	if _, err := w.Catalog.CreateCrawl(ctx, path, result); err != nil {
		if imgcrawl.ErrorCode(err) == imgcrawl.EINVALID {
			return err
		}
		return imgcrawl.WrapError(imgcrawl.EREPORT, err, "record crawl in catalog")
	}
	return nil
}
