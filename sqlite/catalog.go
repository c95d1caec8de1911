package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/imgcrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ imgcrawl.CatalogService = (*CatalogService)(nil)

// CatalogService implements imgcrawl.CatalogService using SQLite.
type CatalogService struct {
	db *DB
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(db *DB) *CatalogService {
	return &CatalogService{db: db}
}

// CreateCrawl records result and every image record in one transaction.
func (s *CatalogService) CreateCrawl(ctx context.Context, reportPath string, result *imgcrawl.CrawlResult) (*imgcrawl.Crawl, error) {
	if result == nil {
		return nil, imgcrawl.Errorf(imgcrawl.EINVALID, "crawl result required")
	}
	if result.StartURL == "" {
		return nil, imgcrawl.Errorf(imgcrawl.EINVALID, "crawl start URL required")
	}

	crawl := &imgcrawl.Crawl{
		ID:         uuid.New().String(),
		StartURL:   result.StartURL,
		MaxDepth:   result.MaxDepth,
		ReportPath: reportPath,
		Stats:      result.Stats,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO crawls (id, start_url, max_depth, report_path, pages, failed, images, downloaded, download_failed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, crawl.ID, crawl.StartURL, crawl.MaxDepth, crawl.ReportPath,
		crawl.Stats.Pages, crawl.Stats.Failed, crawl.Stats.Images, crawl.Stats.Downloaded, crawl.Stats.DownloadFailed,
		crawl.CreatedAt.Format(time.RFC3339)); err != nil {
		return nil, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO images (crawl_id, position, url, page, depth)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for i, img := range result.Images {
		if _, err := stmt.ExecContext(ctx, crawl.ID, i, img.URL, img.Page, img.Depth); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return crawl, nil
}

// FindCrawlByID retrieves a crawl run by ID.
func (s *CatalogService) FindCrawlByID(ctx context.Context, id string) (*imgcrawl.Crawl, error) {
	crawl, err := scanCrawl(s.db.QueryRowContext(ctx, `
		SELECT `+crawlColumns+`
		FROM crawls
		WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, imgcrawl.Errorf(imgcrawl.ENOTFOUND, "crawl not found")
	}
	if err != nil {
		return nil, err
	}
	return crawl, nil
}

// FindCrawls retrieves crawl runs matching the filter, newest first.
func (s *CatalogService) FindCrawls(ctx context.Context, filter imgcrawl.CrawlFilter) ([]*imgcrawl.Crawl, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + crawlColumns + " FROM crawls WHERE 1=1")

	if filter.StartURL != nil {
		query.WriteString(" AND start_url = ?")
		args = append(args, *filter.StartURL)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var crawls []*imgcrawl.Crawl
	for rows.Next() {
		crawl, err := scanCrawl(rows)
		if err != nil {
			return nil, err
		}
		crawls = append(crawls, crawl)
	}
	return crawls, rows.Err()
}

// FindImages retrieves the image records of a crawl run in discovery order.
func (s *CatalogService) FindImages(ctx context.Context, crawlID string) ([]imgcrawl.ImageRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, page, depth
		FROM images
		WHERE crawl_id = ?
		ORDER BY position
	`, crawlID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []imgcrawl.ImageRecord
	for rows.Next() {
		var img imgcrawl.ImageRecord
		if err := rows.Scan(&img.URL, &img.Page, &img.Depth); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

const crawlColumns = "id, start_url, max_depth, report_path, pages, failed, images, downloaded, download_failed, created_at"

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCrawl(row scanner) (*imgcrawl.Crawl, error) {
	var crawl imgcrawl.Crawl
	var createdAt string
	if err := row.Scan(&crawl.ID, &crawl.StartURL, &crawl.MaxDepth, &crawl.ReportPath,
		&crawl.Stats.Pages, &crawl.Stats.Failed, &crawl.Stats.Images, &crawl.Stats.Downloaded, &crawl.Stats.DownloadFailed,
		&createdAt); err != nil {
		return nil, err
	}

	var err error
	if crawl.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &crawl, nil
}
