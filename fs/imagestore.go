// Package fs provides file-based storage for downloaded images and the
// images.json report.
package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/imgcrawl"
)

// DefaultOutputDir is where images and the report are written by default.
const DefaultOutputDir = "images"

// maxNameLen caps derived file names, leaving room for a collision suffix.
const maxNameLen = 120

// Ensure ImageStore implements imgcrawl.ImageStore at compile time.
var _ imgcrawl.ImageStore = (*ImageStore)(nil)

// ImageStore writes image bytes into a single output directory.
//
// File names come from the last path segment of the image URL. The same URL
// always maps to the same file, so saving it again overwrites. A different
// URL whose name is already taken gets a counter suffix: logo.png,
// logo-1.png, logo-2.png. Names differing only in case count as taken.
// The report file name is reserved up front.
// ImageStore is safe for concurrent use.
type ImageStore struct {
	dir string

	mu    sync.Mutex
	byURL map[string]string
	taken map[string]bool
}

// NewImageStore creates an ImageStore rooted at dir, creating the directory
// if it does not exist.
func NewImageStore(dir string) (*ImageStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, imgcrawl.Errorf(imgcrawl.EINVALID, "output directory required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, imgcrawl.WrapError(imgcrawl.ESTORE, err, "create output directory %s", dir)
	}
	return &ImageStore{
		dir:   dir,
		byURL: make(map[string]string),
		taken: map[string]bool{ReportFileName: true},
	}, nil
}

// Dir returns the output directory.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Save writes body to the file reserved for imageURL and returns its name.
func (s *ImageStore) Save(ctx context.Context, imageURL string, body []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := s.reserve(imageURL)
	if err := os.WriteFile(filepath.Join(s.dir, name), body, 0644); err != nil {
		return "", imgcrawl.WrapError(imgcrawl.ESTORE, err, "write %s", name)
	}
	return name, nil
}

// reserve returns the file name for imageURL, allocating a free one on first use.
func (s *ImageStore) reserve(imageURL string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name, ok := s.byURL[imageURL]; ok {
		return name
	}

	// Names are compared case-insensitively so Logo.png and logo.png do not
	// share a file on case-insensitive filesystems.
	base := FileName(imageURL)
	name := base
	for i := 1; s.taken[strings.ToLower(name)]; i++ {
		name = withSuffix(base, i)
	}
	s.taken[strings.ToLower(name)] = true
	s.byURL[imageURL] = name
	return name
}

// FileName derives a filesystem-safe file name from the last path segment of
// imageURL, ignoring the query string. URLs without a usable segment get a
// name built from a hash of the URL.
// Example: https://example.com/img/cat%20photo.jpg?w=200 → cat_photo.jpg
func FileName(imageURL string) string {
	u, err := url.Parse(imageURL)
	if err != nil {
		return hashedName(imageURL)
	}

	segment := path.Base(u.Path)
	if segment == "/" || segment == "." {
		return hashedName(imageURL)
	}
	name := strings.TrimLeft(sanitize(segment), ".")
	if name == "" {
		return hashedName(imageURL)
	}
	if len(name) > maxNameLen {
		ext := path.Ext(name)
		if len(ext) > 16 {
			ext = ""
		}
		name = name[:maxNameLen-len(ext)] + ext
	}
	return name
}

func hashedName(imageURL string) string {
	return fmt.Sprintf("image-%016x", xxhash.Sum64String(imageURL))
}

// sanitize replaces every byte outside [A-Za-z0-9._-] with an underscore.
func sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '-', c == '_':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func withSuffix(name string, n int) string {
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s-%d%s", stem, n, ext)
}

// Reset removes dir and everything in it, then recreates it empty.
// It refuses to operate on the working directory or the filesystem root.
func Reset(dir string) error {
	clean := filepath.Clean(dir)
	if strings.TrimSpace(dir) == "" || clean == "." || clean == string(filepath.Separator) {
		return imgcrawl.Errorf(imgcrawl.EINVALID, "refusing to reset %q", dir)
	}
	if err := os.RemoveAll(clean); err != nil {
		return imgcrawl.WrapError(imgcrawl.ESTORE, err, "remove %s", clean)
	}
	if err := os.MkdirAll(clean, 0755); err != nil {
		return imgcrawl.WrapError(imgcrawl.ESTORE, err, "create %s", clean)
	}
	return nil
}
