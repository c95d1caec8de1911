package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fwojciec/imgcrawl"
)

// ReportFileName is the name of the report inside the output directory.
const ReportFileName = "images.json"

// Ensure ReportWriter implements imgcrawl.ReportWriter at compile time.
var _ imgcrawl.ReportWriter = (*ReportWriter)(nil)

// report is the on-disk schema: {"images": [{"url", "page", "depth"}, ...]}.
type report struct {
	Images []imgcrawl.ImageRecord `json:"images"`
}

// ReportWriter writes crawl results as indented JSON.
// The file is written to a temporary name and renamed into place, so an
// existing report is replaced atomically.
type ReportWriter struct{}

// NewReportWriter creates a new ReportWriter.
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// WriteReport serializes result to path, overwriting any existing file.
func (w *ReportWriter) WriteReport(ctx context.Context, path string, result *imgcrawl.CrawlResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := report{Images: []imgcrawl.ImageRecord{}}
	if result != nil && result.Images != nil {
		doc.Images = result.Images
	}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return imgcrawl.WrapError(imgcrawl.EREPORT, err, "encode report")
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return imgcrawl.WrapError(imgcrawl.EREPORT, err, "create report directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".images-*.json")
	if err != nil {
		return imgcrawl.WrapError(imgcrawl.EREPORT, err, "create temporary report in %s", dir)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return imgcrawl.WrapError(imgcrawl.EREPORT, err, "write report")
	}
	if err := tmp.Close(); err != nil {
		return imgcrawl.WrapError(imgcrawl.EREPORT, err, "close report")
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return imgcrawl.WrapError(imgcrawl.EREPORT, err, "chmod report")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return imgcrawl.WrapError(imgcrawl.EREPORT, err, "move report to %s", path)
	}
	return nil
}

// ReadReport parses a report written by ReportWriter.
func ReadReport(path string) (*imgcrawl.CrawlResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, imgcrawl.WrapError(imgcrawl.EREPORT, err, "read report %s", path)
	}

	var doc report
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, imgcrawl.WrapError(imgcrawl.EREPORT, err, "decode report %s", path)
	}
	return &imgcrawl.CrawlResult{Images: doc.Images}, nil
}
