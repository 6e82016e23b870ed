// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package article

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/plainwiki/internal/authz"
	"github.com/tomtom215/plainwiki/internal/cache"
	"github.com/tomtom215/plainwiki/internal/fsutil"
	"github.com/tomtom215/plainwiki/internal/logging"
	"github.com/tomtom215/plainwiki/internal/metrics"
)

const (
	// Extension is appended to every article file.
	Extension = ".md"
	// IndexName is the file served for directory URLs.
	IndexName = "index"
	// SpecialPrefix is reserved for built-in pages.
	SpecialPrefix = "special:"

	maxArticleSize = 4 << 20
	filePerm       = 0o644
	metaCacheSize  = 4096
)

var (
	ErrInvalidPath = errors.New("invalid article path")
	ErrNotFound    = errors.New("article not found")
	ErrExists      = errors.New("article already exists")
)

// Location ties an article URL to its file.
type Location struct {
	URL  string
	File string
}

// Store reads and writes articles under a root directory.
type Store struct {
	root string
	// mu serializes writers; readers rely on atomic renames.
	mu sync.Mutex
	// meta holds parsed front matter by file path for tree walks.
	meta *cache.LRU[string, metaEntry]
}

// metaEntry is valid while the file keeps the same size and mtime.
type metaEntry struct {
	modTime time.Time
	size    int64
	title   string
	perm    authz.ArticlePermission
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{
		root: filepath.Clean(dir),
		meta: cache.NewLRU[string, metaEntry](metaCacheSize),
	}
}

// Root returns the article directory.
func (s *Store) Root() string {
	return s.root
}

// ValidatePath checks a URL path and returns it relative to the root with
// the leading slash removed. Only plain names are accepted as components.
func ValidatePath(urlPath string) (string, error) {
	rel := strings.TrimLeft(urlPath, "/")
	if strings.HasPrefix(strings.ToLower(rel), SpecialPrefix) {
		return "", fmt.Errorf("%w: %q is reserved", ErrInvalidPath, urlPath)
	}
	if strings.ContainsAny(rel, "\\\x00") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, urlPath)
	}
	if rel == "" {
		return "", nil
	}
	trimmed := strings.TrimSuffix(rel, "/")
	for _, part := range strings.Split(trimmed, "/") {
		if part == "" || part == "." || part == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidPath, urlPath)
		}
	}
	return rel, nil
}

// Locate maps a URL path to the article file. A trailing slash or an
// existing directory selects its index article.
func (s *Store) Locate(urlPath string) (Location, error) {
	rel, err := ValidatePath(urlPath)
	if err != nil {
		return Location{}, err
	}
	if rel == "" || strings.HasSuffix(rel, "/") {
		rel += IndexName
	} else if fi, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(rel))); err == nil && fi.IsDir() {
		rel = path.Join(rel, IndexName)
	}
	return Location{
		URL:  "/" + rel,
		File: filepath.Join(s.root, filepath.FromSlash(rel)+Extension),
	}, nil
}

// Read loads the article at urlPath. A missing file returns ErrNotFound
// together with the location it would have.
func (s *Store) Read(urlPath string) (*Article, Location, error) {
	loc, err := s.Locate(urlPath)
	if err != nil {
		return nil, Location{}, err
	}
	a, err := readFile(loc.File)
	if err != nil {
		return nil, loc, err
	}
	return a, loc, nil
}

func readFile(file string) (*Article, error) {
	data, err := fsutil.ReadFileLimit(file, maxArticleSize)
	if errors.Is(err, fs.ErrNotExist) {
		metrics.RecordArticleRead(metrics.ReadNotFound)
		return nil, ErrNotFound
	}
	if err != nil {
		metrics.RecordArticleRead(metrics.ReadError)
		return nil, fmt.Errorf("read article: %w", err)
	}
	a, err := Parse(bytes.NewReader(data))
	if err != nil {
		metrics.RecordArticleRead(metrics.ReadError)
		return nil, err
	}
	if a.MetadataErr == nil {
		metrics.RecordArticleRead(metrics.ReadOK)
	} else {
		metrics.RecordArticleRead(metrics.ReadMetadataError)
		logging.Warn().
			Str("file", file).
			Err(a.MetadataErr).
			Msg("Article metadata unreadable; restricting access to authenticated users")
	}
	return a, nil
}

// metadata returns the title and permission of file, reading it only when
// the cached copy is stale.
func (s *Store) metadata(file string, info fs.FileInfo) (string, authz.ArticlePermission, error) {
	if m, ok := s.meta.Get(file); ok && m.size == info.Size() && m.modTime.Equal(info.ModTime()) {
		metrics.RecordMetadataCache(true)
		return m.title, m.perm, nil
	}
	metrics.RecordMetadataCache(false)
	a, err := readFile(file)
	if err != nil {
		return "", authz.ArticlePermission{}, err
	}
	s.meta.Add(file, metaEntry{
		modTime: info.ModTime(),
		size:    info.Size(),
		title:   a.Title,
		perm:    a.Permission,
	})
	return a.Title, a.Permission, nil
}

// Write stores a at urlPath. With create set an existing article is an
// error; without it a missing one is.
func (s *Store) Write(urlPath string, a *Article, create bool) (Location, error) {
	loc, err := s.Locate(urlPath)
	if err != nil {
		return Location{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, statErr := os.Stat(loc.File)
	switch {
	case create && statErr == nil:
		return loc, ErrExists
	case !create && errors.Is(statErr, fs.ErrNotExist):
		return loc, ErrNotFound
	}

	start := time.Now()
	err = fsutil.WriteFile(loc.File, filePerm, func(w io.Writer) error {
		return a.Encode(w)
	})
	metrics.RecordStorageWrite(metrics.StoreArticles, time.Since(start), err)
	s.meta.Remove(loc.File)
	if err != nil {
		return loc, fmt.Errorf("write article: %w", err)
	}
	return loc, nil
}
