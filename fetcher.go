package imgcrawl

import "context"

// Response holds the outcome of a successful fetch.
type Response struct {
	// URL is the final URL after redirects.
	URL         string
	Body        []byte
	ContentType string
}

// Fetcher retrieves raw bytes from URLs. It is used both for HTML pages and
// for image downloads.
type Fetcher interface {
	// Fetch performs a single GET. Network failures, timeouts and non-2xx
	// statuses are returned as EFETCH errors. Fetch never retries.
	Fetch(ctx context.Context, url string) (*Response, error)
}
