package imgcrawl

import (
	"context"
	"time"
)

// Crawl is a crawl run recorded in the catalog.
type Crawl struct {
	ID         string
	StartURL   string
	MaxDepth   int
	ReportPath string
	Stats      CrawlStats
	CreatedAt  time.Time
}

// CrawlFilter represents a filter for FindCrawls.
type CrawlFilter struct {
	StartURL *string

	Limit  int
	Offset int
}

// CatalogService records finished crawl runs so they can be queried later.
// The catalog is write-only from the crawler's point of view; it is never
// used to resume a crawl.
type CatalogService interface {
	// CreateCrawl records result and its image records under a new ID.
	CreateCrawl(ctx context.Context, reportPath string, result *CrawlResult) (*Crawl, error)

	// FindCrawlByID returns ENOTFOUND if no such run exists.
	FindCrawlByID(ctx context.Context, id string) (*Crawl, error)

	// FindCrawls returns runs newest first.
	FindCrawls(ctx context.Context, filter CrawlFilter) ([]*Crawl, error)

	// FindImages returns the image records of a run in discovery order.
	FindImages(ctx context.Context, crawlID string) ([]ImageRecord, error)
}
