package mock

import (
	"context"

	"github.com/fwojciec/imgcrawl"
)

var _ imgcrawl.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of imgcrawl.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*imgcrawl.Response, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*imgcrawl.Response, error) {
	return f.FetchFn(ctx, url)
}
