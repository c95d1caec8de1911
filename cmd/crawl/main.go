package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/fwojciec/imgcrawl"
	"github.com/fwojciec/imgcrawl/crawl"
	"github.com/fwojciec/imgcrawl/fs"
	"github.com/fwojciec/imgcrawl/goquery"
	imghttp "github.com/fwojciec/imgcrawl/http"
	imgslog "github.com/fwojciec/imgcrawl/slog"
	"github.com/fwojciec/imgcrawl/sqlite"
	"github.com/google/uuid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	_ = m.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Catalog database, opened only when --db is set.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("crawl"),
		kong.Description("Crawl a website breadth-first and download every image it references"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{
			"output":  fs.DefaultOutputDir,
			"timeout": imghttp.DefaultFetchTimeout.String(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("usage: crawl <start_url> <depth>")
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	logger := newLogger(stderr, cli.Verbose).With("run", uuid.NewString())

	if cli.Clean {
		if err := fs.Reset(cli.Output); err != nil {
			return err
		}
	}

	store, err := fs.NewImageStore(cli.Output)
	if err != nil {
		return err
	}

	reports := imgcrawl.ReportWriters{fs.NewReportWriter()}
	if cli.DB != "" {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(ctx); err != nil {
			return fmt.Errorf("failed to open catalog at %q: %w", cli.DB, err)
		}
		reports = append(reports, sqlite.NewReportWriter(m.DB))
	}

	timeout := cli.Timeout
	if timeout <= 0 {
		timeout = imghttp.DefaultFetchTimeout
	}
	fetcher := imghttp.NewFetcher(imghttp.WithTimeout(timeout))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Crawler: &crawl.Crawler{
			Fetcher:          imgslog.NewLoggingFetcher(fetcher, logger),
			Analyzer:         goquery.NewAnalyzer(),
			Images:           imgslog.NewLoggingImageStore(store, logger),
			Logger:           logger,
			Scope:            imgcrawl.Scope(cli.Scope),
			MaxImagesPerPage: cli.MaxImages,
			Workers:          cli.Workers,
		},
		Reports:    imgslog.NewLoggingReportWriter(reports, logger),
		ReportPath: filepath.Join(store.Dir(), fs.ReportFileName),
	}

	cmd := &CrawlCmd{
		StartURL: cli.StartURL,
		Depth:    cli.Depth,
	}
	return cmd.Run(deps)
}

// newLogger returns a slog logger rendering through charmbracelet/log.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "crawl",
	})
	return slog.New(handler)
}
