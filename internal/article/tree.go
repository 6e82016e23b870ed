// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package article

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/plainwiki/internal/authz"
	"github.com/tomtom215/plainwiki/internal/metrics"
)

// FileNode is one article in the discovery tree.
type FileNode struct {
	URLPath string `json:"url_path"`
	Name    string `json:"name"`
}

// DirectoryNode is a directory in the discovery tree. Name is the title of
// its index article when that is visible, otherwise the directory name.
type DirectoryNode struct {
	URLPath     string           `json:"url_path"`
	Name        string           `json:"name"`
	Files       []FileNode       `json:"files"`
	Directories []*DirectoryNode `json:"directories"`
	HasIndex    bool             `json:"has_index"`
}

// VisibleFunc reports whether an article may appear in the tree.
type VisibleFunc func(perm authz.ArticlePermission) bool

// Tree walks the article directory and returns the articles visible
// through visible. Directories with nothing visible are left out.
func (s *Store) Tree(ctx context.Context, visible VisibleFunc) (*DirectoryNode, error) {
	start := time.Now()
	root, err := s.walk(ctx, "", "", visible)
	metrics.RecordTreeWalk(time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if root == nil {
		root = &DirectoryNode{URLPath: "/", Files: []FileNode{}, Directories: []*DirectoryNode{}}
	}
	return root, nil
}

func (s *Store) walk(ctx context.Context, rel, name string, visible VisibleFunc) (*DirectoryNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.root, filepath.FromSlash(rel))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) && rel == "" {
			return nil, nil
		}
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	node := &DirectoryNode{
		URLPath:     "/" + rel,
		Name:        name,
		Files:       []FileNode{},
		Directories: []*DirectoryNode{},
	}

	for _, e := range entries {
		entryName := e.Name()
		if strings.HasPrefix(entryName, ".") {
			continue
		}
		childRel := path.Join(rel, entryName)

		if e.IsDir() {
			child, err := s.walk(ctx, childRel, entryName, visible)
			if err != nil {
				return nil, err
			}
			if child != nil {
				node.Directories = append(node.Directories, child)
			}
			continue
		}

		if !e.Type().IsRegular() || !strings.HasSuffix(entryName, Extension) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		title, perm, err := s.metadata(filepath.Join(dir, entryName), info)
		if err != nil {
			// Unreadable files are left out rather than failing the listing.
			continue
		}
		if !visible(perm) {
			continue
		}

		stem := strings.TrimSuffix(entryName, Extension)
		if title == "" {
			title = stem
		}
		if stem == IndexName {
			node.HasIndex = true
			node.Name = title
			continue
		}
		node.Files = append(node.Files, FileNode{
			URLPath: "/" + strings.TrimSuffix(childRel, Extension),
			Name:    title,
		})
	}

	if rel != "" && !node.HasIndex && len(node.Files) == 0 && len(node.Directories) == 0 {
		return nil, nil
	}

	sort.Slice(node.Files, func(i, j int) bool { return node.Files[i].Name < node.Files[j].Name })
	sort.Slice(node.Directories, func(i, j int) bool { return node.Directories[i].Name < node.Directories[j].Name })
	return node, nil
}
