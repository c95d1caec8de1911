package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fwojciec/imgcrawl"
	"github.com/fwojciec/imgcrawl/crawl"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	StartURL  string        `arg:"" name:"start_url" help:"Absolute http(s) URL to start crawling from"`
	Depth     int           `arg:"" name:"depth" help:"Maximum crawl depth; the start page is depth 1"`
	Output    string        `short:"o" default:"${output}" env:"IMGCRAWL_OUTPUT" help:"Directory for downloaded images and images.json"`
	Timeout   time.Duration `short:"t" default:"${timeout}" help:"Fetch timeout per request"`
	Workers   int           `short:"w" default:"1" help:"Pages fetched concurrently"`
	MaxImages int           `name:"max-images" default:"0" help:"Maximum images recorded per page (0 for no limit)"`
	Scope     string        `default:"any" enum:"any,host,domain" help:"Which links to follow: any, host or domain"`
	Clean     bool          `help:"Remove previous contents of the output directory first"`
	DB        string        `name:"db" help:"SQLite catalog to record the run in"`
	Verbose   bool          `short:"v" help:"Log every request and saved image"`
}

// Validate rejects arguments that would make the crawl fail before any page
// is fetched, so nothing is written to the output directory.
func (c *CLI) Validate() error {
	if _, err := imgcrawl.ParseStartURL(c.StartURL); err != nil {
		return err
	}
	if c.Depth < 1 {
		return imgcrawl.Errorf(imgcrawl.EINVALID, "depth must be at least 1, got %d", c.Depth)
	}
	if c.Workers < 0 {
		return imgcrawl.Errorf(imgcrawl.EINVALID, "workers must not be negative")
	}
	return nil
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Crawler    *crawl.Crawler
	Reports    imgcrawl.ReportWriter
	ReportPath string
}

// CrawlCmd runs one crawl and writes its report.
type CrawlCmd struct {
	StartURL string
	Depth    int
}

// Run crawls, writes the report and prints a summary. A canceled crawl
// still writes the report for the pages it finished.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	progress := &progressPrinter{w: deps.Stdout}
	deps.Crawler.Progress = progress.print

	result, crawlErr := deps.Crawler.Crawl(deps.Ctx, c.StartURL, c.Depth)
	if result == nil {
		return crawlErr
	}

	// The report is written even if the crawl was interrupted.
	if err := deps.Reports.WriteReport(context.WithoutCancel(deps.Ctx), deps.ReportPath, result); err != nil {
		return err
	}

	s := result.Stats
	fmt.Fprintf(deps.Stdout, "Crawled %d pages (%d failed), found %d images, downloaded %d (%d failed)\n",
		s.Pages, s.Failed, s.Images, s.Downloaded, s.DownloadFailed)
	fmt.Fprintf(deps.Stdout, "Report: %s\n", deps.ReportPath)

	return crawlErr
}

// progressPrinter writes one line per finished page. Events may arrive
// from several workers.
type progressPrinter struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *progressPrinter) print(e crawl.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch e.Type {
	case crawl.ProgressCompleted:
		fmt.Fprintf(p.w, "[%d] %s: %d images\n", e.Depth, e.URL, e.Images)
	case crawl.ProgressFailed:
		fmt.Fprintf(p.w, "[%d] %s: failed: %v\n", e.Depth, e.URL, e.Error)
	}
}
