package imgcrawl

import "context"

// ImageStore persists downloaded image bytes.
type ImageStore interface {
	// Save writes body under a file name derived from imageURL and returns
	// that name. I/O failures are returned as ESTORE errors.
	Save(ctx context.Context, imageURL string, body []byte) (string, error)
}

// ReportWriter persists the result of a crawl run.
type ReportWriter interface {
	// WriteReport serializes result to path. Failures are returned as
	// EREPORT errors.
	WriteReport(ctx context.Context, path string, result *CrawlResult) error
}

// ReportWriters writes the same report through several writers in order,
// stopping at the first failure.
type ReportWriters []ReportWriter

// WriteReport implements ReportWriter.
func (ws ReportWriters) WriteReport(ctx context.Context, path string, result *CrawlResult) error {
	for _, w := range ws {
		if err := w.WriteReport(ctx, path, result); err != nil {
			return err
		}
	}
	return nil
}
