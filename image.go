package imgcrawl

// CrawlTask is one page waiting in the crawl queue.
type CrawlTask struct {
	URL   string
	Depth int
}

// ImageRecord is one observed image reference on a crawled page.
// Records are never merged: an image referenced twice yields two records.
type ImageRecord struct {
	URL   string `json:"url"`
	Page  string `json:"page"`
	Depth int    `json:"depth"`
}

// CrawlStats summarizes a crawl run.
type CrawlStats struct {
	Pages          int
	Failed         int
	Images         int
	Downloaded     int
	DownloadFailed int
}

// CrawlResult is the output of a crawl run.
type CrawlResult struct {
	// Images holds the records in discovery order: depth-major, then
	// document order within a page.
	Images []ImageRecord `json:"images"`

	StartURL string     `json:"-"`
	MaxDepth int        `json:"-"`
	Stats    CrawlStats `json:"-"`
}
