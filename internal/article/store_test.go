// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package article

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tomtom215/plainwiki/internal/authz"
)

func writeArticle(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"/", "", false},
		{"/home", "home", false},
		{"docs/setup", "docs/setup", false},
		{"/docs/", "docs/", false},
		{"/special:login", "", true},
		{"/Special:Admin", "", true},
		{"/../etc/passwd", "", true},
		{"/docs/../secret", "", true},
		{"/docs/./x", "", true},
		{"/docs//x", "", true},
		{"/a\\b", "", true},
		{"/a\x00b", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ValidatePath(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePath(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrInvalidPath) {
					t.Errorf("error %v does not wrap ErrInvalidPath", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ValidatePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLocate(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "guides"), 0o755); err != nil {
		t.Fatal(err)
	}
	s := NewStore(root)

	tests := []struct {
		in      string
		wantURL string
		wantRel string
	}{
		{"/", "/index", "index.md"},
		{"/home", "/home", "home.md"},
		{"/notes/", "/notes/index", "notes/index.md"},
		{"/guides", "/guides/index", "guides/index.md"},
		{"/guides/go", "/guides/go", "guides/go.md"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			loc, err := s.Locate(tt.in)
			if err != nil {
				t.Fatalf("Locate: %v", err)
			}
			if loc.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", loc.URL, tt.wantURL)
			}
			if want := filepath.Join(root, filepath.FromSlash(tt.wantRel)); loc.File != want {
				t.Errorf("File = %q, want %q", loc.File, want)
			}
		})
	}
}

func TestReadMissing(t *testing.T) {
	s := NewStore(t.TempDir())
	_, loc, err := s.Read("/nothing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Read error = %v, want ErrNotFound", err)
	}
	if loc.URL != "/nothing" {
		t.Errorf("URL = %q, want /nothing", loc.URL)
	}
}

func TestWriteCreateAndUpdate(t *testing.T) {
	s := NewStore(t.TempDir())
	a := &Article{
		Title:      "Plan",
		Permission: authz.ArticlePermission{View: authz.PublicLevel(), Edit: authz.UsersLevel("alice")},
		Markdown:   "first",
	}

	if _, err := s.Write("/plans/q1", a, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update of missing article = %v, want ErrNotFound", err)
	}
	if _, err := s.Write("/plans/q1", a, true); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Write("/plans/q1", a, true); !errors.Is(err, ErrExists) {
		t.Fatalf("second create = %v, want ErrExists", err)
	}

	a.Markdown = "second"
	if _, err := s.Write("/plans/q1", a, false); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _, err := s.Read("/plans/q1")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Markdown != "second" || got.Title != "Plan" {
		t.Errorf("got %q/%q", got.Title, got.Markdown)
	}
	if !got.Permission.Edit.Contains("alice") {
		t.Errorf("Edit = %s, want alice", got.Permission.Edit)
	}

	if _, err := s.Write("/special:admin", a, true); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("write to reserved path = %v, want ErrInvalidPath", err)
	}
}

func TestTreeFiltersByVisibility(t *testing.T) {
	root := t.TempDir()
	writeArticle(t, root, "index.md", "+++\ntitle = \"Home\"\nview_access = \"Public\"\n+++\n")
	writeArticle(t, root, "zeta.md", "+++\ntitle = \"Alpha page\"\nview_access = \"Public\"\n+++\n")
	writeArticle(t, root, "secret.md", "+++\ntitle = \"Secret\"\nview_access = [\"alice\"]\n+++\n")
	writeArticle(t, root, "broken.md", "no metadata\n")
	writeArticle(t, root, "docs/index.md", "+++\ntitle = \"Documentation\"\nview_access = \"Public\"\n+++\n")
	writeArticle(t, root, "docs/setup.md", "+++\nview_access = \"Public\"\n+++\n")
	writeArticle(t, root, "private/plan.md", "+++\ntitle = \"Plan\"\nview_access = [\"alice\"]\n+++\n")
	writeArticle(t, root, "docs/notes.txt", "ignored")

	s := NewStore(root)
	publicOnly := func(p authz.ArticlePermission) bool { return p.View.Kind == authz.Public }

	tree, err := s.Tree(context.Background(), publicOnly)
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if !tree.HasIndex || tree.Name != "Home" {
		t.Errorf("root = %q has_index=%v, want Home with index", tree.Name, tree.HasIndex)
	}
	if len(tree.Files) != 1 || tree.Files[0].Name != "Alpha page" || tree.Files[0].URLPath != "/zeta" {
		t.Errorf("root files = %+v, want only Alpha page", tree.Files)
	}
	if len(tree.Directories) != 1 {
		t.Fatalf("directories = %d, want 1 (private pruned)", len(tree.Directories))
	}
	docs := tree.Directories[0]
	if docs.Name != "Documentation" || docs.URLPath != "/docs" || !docs.HasIndex {
		t.Errorf("docs = %+v", docs)
	}
	if len(docs.Files) != 1 || docs.Files[0].Name != "setup" || docs.Files[0].URLPath != "/docs/setup" {
		t.Errorf("docs files = %+v, want setup named by file stem", docs.Files)
	}

	all, err := s.Tree(context.Background(), func(authz.ArticlePermission) bool { return true })
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if len(all.Directories) != 2 || len(all.Files) != 3 {
		t.Errorf("unfiltered tree has %d dirs and %d files, want 2 and 3", len(all.Directories), len(all.Files))
	}
}

func TestTreeMissingRoot(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "absent"))
	tree, err := s.Tree(context.Background(), func(authz.ArticlePermission) bool { return true })
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if tree.URLPath != "/" || len(tree.Files) != 0 {
		t.Errorf("tree = %+v, want empty root", tree)
	}
}

func TestTreeSeesWritesThroughMetadataCache(t *testing.T) {
	root := t.TempDir()
	writeArticle(t, root, "page.md", "+++\ntitle = \"Page\"\nview_access = \"Public\"\n+++\nbody\n")
	s := NewStore(root)
	publicOnly := func(p authz.ArticlePermission) bool { return p.View.Kind == authz.Public }

	tree, err := s.Tree(context.Background(), publicOnly)
	if err != nil || len(tree.Files) != 1 {
		t.Fatalf("Tree = %+v, %v; want one public file", tree, err)
	}
	if s.meta.Len() != 1 {
		t.Errorf("metadata cache holds %d entries, want 1", s.meta.Len())
	}

	a, _, err := s.Read("/page")
	if err != nil {
		t.Fatal(err)
	}
	a.Permission.View = authz.AuthenticatedLevel()
	if _, err := s.Write("/page", a, false); err != nil {
		t.Fatal(err)
	}

	tree, err = s.Tree(context.Background(), publicOnly)
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Files) != 0 {
		t.Errorf("restricted page still listed: %+v", tree.Files)
	}
}
