// Package crawl provides the breadth-first crawl engine.
// It coordinates fetching, HTML analysis, image downloads and depth
// accounting for a single crawl run.
package crawl

import (
	"context"
	"log/slog"
	"mime"
	"net/url"
	"strings"
	"sync"

	"github.com/fwojciec/imgcrawl"
	"github.com/fwojciec/imgcrawl/bloom"
	"golang.org/x/sync/errgroup"
)

// VisitedSet sizing for a crawl run. A false positive skips a page that was
// never fetched.
const (
	// visitedExpectedURLs is the expected number of pages for Bloom filter sizing.
	visitedExpectedURLs = 100000
	// visitedFalsePositiveRate is the Bloom filter false positive rate.
	visitedFalsePositiveRate = 0.0001
)

// Crawler crawls a site breadth-first and collects image references.
// A Crawler holds configuration only; every call to Crawl owns its own
// queue, VisitedSet and results.
type Crawler struct {
	Fetcher  imgcrawl.Fetcher
	Analyzer imgcrawl.Analyzer

	// Images receives downloaded image bytes. When nil, images are
	// recorded but not downloaded.
	Images imgcrawl.ImageStore

	// Logger receives per-page and per-image events. Nil discards them.
	Logger *slog.Logger

	// Scope limits which links are followed. The zero value follows all.
	Scope imgcrawl.Scope

	// MaxImagesPerPage caps the records taken from one page, keeping the
	// first ones in document order. Zero means no cap.
	MaxImagesPerPage int

	// Workers is the number of pages processed concurrently. Values below
	// 2 select the sequential engine. Both produce the same result order.
	Workers int

	// Progress, if set, receives events as pages are processed. With
	// Workers > 1 it is called from multiple goroutines.
	Progress ProgressFunc
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type   ProgressType
	URL    string
	Depth  int
	Images int
	Error  error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Crawl visits startURL and the pages reachable from it within maxDepth
// link hops, the start page being depth 1.
//
// Only setup problems are returned as errors (EINVALID). Pages that fail to
// fetch or parse and images that fail to download are logged and skipped.
// If ctx is canceled, Crawl stops and returns the partial result together
// with the context error.
func (c *Crawler) Crawl(ctx context.Context, startURL string, maxDepth int) (*imgcrawl.CrawlResult, error) {
	start, err := imgcrawl.ParseStartURL(startURL)
	if err != nil {
		return nil, err
	}
	if maxDepth < 1 {
		return nil, imgcrawl.Errorf(imgcrawl.EINVALID, "depth must be at least 1, got %d", maxDepth)
	}
	if err := c.Scope.Validate(); err != nil {
		return nil, err
	}
	if c.Fetcher == nil || c.Analyzer == nil {
		return nil, imgcrawl.Errorf(imgcrawl.EINVALID, "crawler requires a fetcher and an analyzer")
	}

	r := &run{
		crawler:   c,
		logger:    c.logger(),
		start:     start,
		maxDepth:  maxDepth,
		frontier:  NewFrontier(),
		visited:   bloom.NewVisitedSet(visitedExpectedURLs, visitedFalsePositiveRate),
		downloads: &claimSet{seen: make(map[string]struct{})},
	}
	r.frontier.Push(imgcrawl.CrawlTask{URL: startURL, Depth: 1})

	r.logger.Info("crawl started", "url", startURL, "max_depth", maxDepth, "workers", max(c.Workers, 1))

	if c.Workers > 1 {
		err = r.walkLevels(ctx, c.Workers)
	} else {
		err = r.walk(ctx)
	}

	result := &imgcrawl.CrawlResult{
		Images:   r.images,
		StartURL: startURL,
		MaxDepth: maxDepth,
		Stats:    r.stats,
	}

	r.logger.Info("crawl finished",
		"visited", r.visited.Len(),
		"pages", r.stats.Pages,
		"failed", r.stats.Failed,
		"images", r.stats.Images,
		"downloaded", r.stats.Downloaded,
		"download_failed", r.stats.DownloadFailed,
	)
	c.notify(ProgressEvent{Type: ProgressFinished})

	return result, err
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

func (c *Crawler) notify(event ProgressEvent) {
	if c.Progress != nil {
		c.Progress(event)
	}
}

// run holds the state of one Crawl call. The frontier, the VisitedSet, the
// image sequence and the stats are only touched by the coordinating
// goroutine; workers communicate through pageOutcome values.
type run struct {
	crawler  *Crawler
	logger   *slog.Logger
	start    *url.URL
	maxDepth int

	frontier  *Frontier
	visited   imgcrawl.VisitedSet
	downloads *claimSet

	images []imgcrawl.ImageRecord
	stats  imgcrawl.CrawlStats
}

// pageOutcome is what processing one page produced.
type pageOutcome struct {
	err            error
	images         []string
	links          []string
	downloaded     int
	downloadFailed int
}

// walk is the sequential engine: one task is fully processed before the
// next one is popped.
func (r *run) walk(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		task, ok := r.frontier.Pop()
		if !ok {
			return nil
		}
		if !r.markVisited(task) {
			continue
		}
		r.merge(task, r.process(ctx, task))
	}
}

// walkLevels drains the frontier one depth level at a time. Pages of a level
// are processed concurrently and merged back in queue order, so the result
// matches walk exactly.
func (r *run) walkLevels(ctx context.Context, workers int) error {
	for r.frontier.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Everything queued now was pushed while merging the previous
		// level, so it all shares one depth.
		var level []imgcrawl.CrawlTask
		for n := r.frontier.Len(); n > 0; n-- {
			task, _ := r.frontier.Pop()
			if r.markVisited(task) {
				level = append(level, task)
			}
		}

		outcomes := make([]pageOutcome, len(level))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i, task := range level {
			g.Go(func() error {
				outcomes[i] = r.process(gctx, task)
				return nil
			})
		}
		_ = g.Wait()

		for i, task := range level {
			r.merge(task, outcomes[i])
		}
	}
	return ctx.Err()
}

// markVisited records task as visited and reports whether it was new.
func (r *run) markVisited(task imgcrawl.CrawlTask) bool {
	key := imgcrawl.Normalize(task.URL)
	if r.visited.Contains(key) {
		return false
	}
	r.visited.Add(key)
	return true
}

// process fetches and analyzes one page and downloads its images.
// It must not touch coordinator-owned state.
func (r *run) process(ctx context.Context, task imgcrawl.CrawlTask) pageOutcome {
	var out pageOutcome
	logger := r.logger.With("url", task.URL, "depth", task.Depth)

	r.crawler.notify(ProgressEvent{Type: ProgressStarted, URL: task.URL, Depth: task.Depth})

	resp, err := r.crawler.Fetcher.Fetch(ctx, task.URL)
	if err != nil {
		logger.Warn("page skipped", "code", imgcrawl.ErrorCode(err), "err", err)
		out.err = err
		r.crawler.notify(ProgressEvent{Type: ProgressFailed, URL: task.URL, Depth: task.Depth, Error: err})
		return out
	}

	if !isHTML(resp.ContentType) {
		logger.Debug("page not analyzed", "content_type", resp.ContentType, "bytes", len(resp.Body))
		r.crawler.notify(ProgressEvent{Type: ProgressCompleted, URL: task.URL, Depth: task.Depth})
		return out
	}

	// Relative references resolve against where the page actually lives.
	base := task.URL
	if resp.URL != "" {
		base = resp.URL
	}
	analysis, err := r.crawler.Analyzer.Analyze(base, resp.Body)
	if err != nil {
		logger.Warn("page analysis failed", "code", imgcrawl.ErrorCode(err), "err", err)
	}
	if analysis == nil {
		analysis = &imgcrawl.Analysis{}
	}

	out.images = analysis.Images
	if limit := r.crawler.MaxImagesPerPage; limit > 0 && len(out.images) > limit {
		out.images = out.images[:limit]
	}
	for _, imageURL := range out.images {
		r.download(ctx, logger, imageURL, &out)
	}

	if task.Depth < r.maxDepth {
		for _, link := range analysis.Links {
			if r.crawler.Scope.Allows(r.start, link) {
				out.links = append(out.links, link)
			}
		}
	}

	logger.Info("page crawled", "images", len(out.images), "links", len(out.links))
	r.crawler.notify(ProgressEvent{Type: ProgressCompleted, URL: task.URL, Depth: task.Depth, Images: len(out.images)})
	return out
}

// download fetches and stores an image the first time its URL is seen in
// the run. Failures are logged; the image's record is kept regardless.
func (r *run) download(ctx context.Context, logger *slog.Logger, imageURL string, out *pageOutcome) {
	if r.crawler.Images == nil || !r.downloads.claim(imageURL) {
		return
	}

	resp, err := r.crawler.Fetcher.Fetch(ctx, imageURL)
	if err != nil {
		logger.Warn("image download failed", "image", imageURL, "code", imgcrawl.ErrorCode(err), "err", err)
		out.downloadFailed++
		return
	}

	name, err := r.crawler.Images.Save(ctx, imageURL, resp.Body)
	if err != nil {
		logger.Warn("image save failed", "image", imageURL, "code", imgcrawl.ErrorCode(err), "err", err)
		out.downloadFailed++
		return
	}

	logger.Debug("image saved", "image", imageURL, "file", name, "bytes", len(resp.Body))
	out.downloaded++
}

// merge folds a page outcome into the run state and enqueues its links.
func (r *run) merge(task imgcrawl.CrawlTask, out pageOutcome) {
	if out.err != nil {
		r.stats.Failed++
		return
	}

	r.stats.Pages++
	r.stats.Images += len(out.images)
	r.stats.Downloaded += out.downloaded
	r.stats.DownloadFailed += out.downloadFailed

	for _, imageURL := range out.images {
		r.images = append(r.images, imgcrawl.ImageRecord{
			URL:   imageURL,
			Page:  task.URL,
			Depth: task.Depth,
		})
	}

	for _, link := range out.links {
		if r.visited.Contains(imgcrawl.Normalize(link)) {
			continue
		}
		r.frontier.Push(imgcrawl.CrawlTask{URL: link, Depth: task.Depth + 1})
	}
}

// isHTML reports whether a response with contentType should be parsed for
// links and images. A missing content type is treated as HTML.
func isHTML(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// claimSet hands out each key once. It is safe for concurrent use.
type claimSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// claim reports whether key was unclaimed, claiming it.
func (s *claimSet) claim(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}
