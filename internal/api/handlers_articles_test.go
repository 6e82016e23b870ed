// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/plainwiki/internal/article"
	"github.com/tomtom215/plainwiki/internal/auth"
	"github.com/tomtom215/plainwiki/internal/authz"
	"github.com/tomtom215/plainwiki/internal/models"
	"github.com/tomtom215/plainwiki/internal/validation"
)

func TestGetArticleSingleMode(t *testing.T) {
	s, plain := singleServer(t)
	s.writeArticle("public.md", "+++\ntitle = \"Public\"\nview_access = \"Public\"\nedit_access = \"Authenticated\"\n+++\nhello")
	s.writeArticle("private.md", "+++\ntitle = \"Private\"\n+++\nsecret")
	s.writeArticle("locked.md", "+++\nview_access = \"Disabled\"\nedit_access = \"Disabled\"\n+++\n")
	s.writeArticle("team.md", "+++\nview_access = [\"alice\"]\n+++\n")
	s.writeArticle("broken.md", "+++\nview_access = \"Public\"\nthis is not toml\n+++\n")
	tok := s.login("", plain)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
		code   string
	}{
		{"public anonymous", "/public", "", http.StatusOK, ""},
		{"private anonymous", "/private", "", http.StatusUnauthorized, CodeAuthRequired},
		{"private owner", "/private", tok, http.StatusOK, ""},
		{"disabled owner", "/locked", tok, http.StatusForbidden, CodeForbidden},
		{"disabled anonymous", "/locked", "", http.StatusForbidden, CodeForbidden},
		{"user list owner", "/team", tok, http.StatusOK, ""},
		{"broken metadata anonymous", "/broken", "", http.StatusUnauthorized, CodeAuthRequired},
		{"broken metadata owner", "/broken", tok, http.StatusOK, ""},
		{"missing anonymous", "/nowhere", "", http.StatusUnauthorized, CodeAuthRequired},
		{"missing owner", "/nowhere", tok, http.StatusNotFound, CodeNotFound},
		{"edit view anonymous", "/public?edit", "", http.StatusUnauthorized, CodeAuthRequired},
		{"edit view owner", "/public?edit", tok, http.StatusOK, ""},
		{"reserved path", "/special:nothing", tok, http.StatusBadRequest, CodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expect(t, s.do(http.MethodGet, tt.path, "", tt.token), tt.status, tt.code)
		})
	}
}

func TestGetArticleReportsCanEdit(t *testing.T) {
	s, plain := singleServer(t)
	s.writeArticle("public.md", "+++\ntitle = \"Public\"\nview_access = \"Public\"\nedit_access = \"Authenticated\"\n+++\nhello")

	read := func(token string) models.Article {
		env := expect(t, s.do(http.MethodGet, "/public", "", token), http.StatusOK, "")
		var a models.Article
		if err := json.Unmarshal(env.Data, &a); err != nil {
			t.Fatal(err)
		}
		return a
	}
	if a := read(""); a.CanEdit || a.Markdown != "hello" || a.ViewAccess != "Public" {
		t.Errorf("anonymous view = %+v", a)
	}
	if a := read(s.login("", plain)); !a.CanEdit {
		t.Errorf("owner view = %+v, want can_edit", a)
	}
}

func TestAnonymousModeArticles(t *testing.T) {
	t.Run("read only", func(t *testing.T) {
		s := newTestServer(t, auth.ModeAnonymous)
		s.writeArticle("open.md", "+++\nview_access = \"Public\"\nedit_access = \"Public\"\n+++\nx")
		s.writeArticle("closed.md", "+++\n+++\nx")

		expect(t, s.do(http.MethodGet, "/open", "", ""), http.StatusOK, "")
		// Logging in is impossible, so the denial is a plain 403.
		expect(t, s.do(http.MethodGet, "/closed", "", ""), http.StatusForbidden, CodeForbidden)
		expect(t, s.do(http.MethodPost, "/open", `{"markdown":"y"}`, ""), http.StatusForbidden, CodeForbidden)
		expect(t, s.do(http.MethodPost, "/special:create", `{"path":"/new","title":"New"}`, ""), http.StatusForbidden, CodeForbidden)
	})

	t.Run("anonymous editing", func(t *testing.T) {
		s := newTestServer(t, auth.ModeAnonymous, withFlags(func(f *authz.GlobalFlags) {
			f.AnonymousEditing = true
			f.PageCreation = authz.PublicLevel()
		}))
		s.writeArticle("open.md", "+++\nview_access = \"Public\"\nedit_access = \"Public\"\n+++\nx")

		expect(t, s.do(http.MethodPost, "/open", `{"markdown":"y"}`, ""), http.StatusOK, "")
		env := expect(t, s.do(http.MethodPost, "/special:create", `{"path":"/new","title":"New","markdown":"z"}`, ""), http.StatusCreated, "")
		if !strings.Contains(string(env.Data), `"view_access":"Public"`) {
			t.Errorf("created article = %s, want Public default in anonymous mode", env.Data)
		}
		expect(t, s.do(http.MethodGet, "/new", "", ""), http.StatusOK, "")
	})

	t.Run("creation limited to accounts", func(t *testing.T) {
		// Anonymous editing adds to page_creation_access; it does not replace it.
		s := newTestServer(t, auth.ModeAnonymous, withFlags(func(f *authz.GlobalFlags) { f.AnonymousEditing = true }))
		expect(t, s.do(http.MethodPost, "/special:create", `{"path":"/new","title":"New"}`, ""), http.StatusForbidden, CodeForbidden)
	})

	t.Run("creation disabled", func(t *testing.T) {
		s := newTestServer(t, auth.ModeAnonymous, withFlags(func(f *authz.GlobalFlags) {
			f.AnonymousEditing = true
			f.PageCreation = authz.DisabledLevel()
		}))
		expect(t, s.do(http.MethodPost, "/special:create", `{"path":"/new","title":"New"}`, ""), http.StatusForbidden, CodeForbidden)
	})
}

func TestCreateArticle(t *testing.T) {
	s := newTestServer(t, auth.ModeMulti, withFlags(func(f *authz.GlobalFlags) { f.PageCreation = authz.UsersLevel("alice") }))
	s.addAccount("alice", "alice-password")
	s.addAccount("bob", "bob-password")
	alice := s.login("alice", "alice-password")
	bob := s.login("bob", "bob-password")

	body := `{"path":"/notes/plan","title":"Plan","view_access":"alice, bob","edit_access":"alice","markdown":"# Plan"}`
	expect(t, s.do(http.MethodPost, "/special:create", body, ""), http.StatusUnauthorized, CodeAuthRequired)
	expect(t, s.do(http.MethodPost, "/special:create", body, bob), http.StatusForbidden, CodeForbidden)
	expect(t, s.do(http.MethodPost, "/special:create", body, alice), http.StatusCreated, "")
	expect(t, s.do(http.MethodPost, "/special:create", body, alice), http.StatusConflict, CodeConflict)

	expect(t, s.do(http.MethodPost, "/special:create",
		`{"path":"/special:evil","title":"x"}`, alice), http.StatusBadRequest, validation.ErrorCode)
	expect(t, s.do(http.MethodPost, "/special:create",
		`{"path":"/ok","title":"x","view_access":" , "}`, alice), http.StatusBadRequest, validation.ErrorCode)

	a, _, err := article.NewStore(s.articles).Read("/notes/plan")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if a.Permission.View.String() != "alice,bob" || a.Permission.Edit.String() != "alice" {
		t.Errorf("stored permission = %+v", a.Permission)
	}
	expect(t, s.do(http.MethodGet, "/notes/plan", "", bob), http.StatusOK, "")
}

func TestEditArticle(t *testing.T) {
	s := newTestServer(t, auth.ModeMulti)
	s.addAccount("alice", "alice-password")
	s.addAccount("bob", "bob-password")
	s.writeArticle("doc.md", "+++\ntitle = \"Doc\"\nview_access = \"Authenticated\"\nedit_access = [\"alice\"]\n+++\nv1")
	alice := s.login("alice", "alice-password")
	bob := s.login("bob", "bob-password")

	expect(t, s.do(http.MethodPost, "/doc", `{"markdown":"hacked"}`, ""), http.StatusUnauthorized, CodeAuthRequired)
	expect(t, s.do(http.MethodPost, "/doc", `{"markdown":"hacked"}`, bob), http.StatusForbidden, CodeForbidden)
	expect(t, s.do(http.MethodPost, "/missing", `{"markdown":"x"}`, alice), http.StatusNotFound, CodeNotFound)

	env := expect(t, s.do(http.MethodPost, "/doc", `{"markdown":"v2","edit_access":"alice, bob"}`, alice), http.StatusOK, "")
	var got models.Article
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Markdown != "v2" || got.Title != "Doc" {
		t.Errorf("edited = %+v, want v2 with title kept", got)
	}

	// bob was added to the edit list.
	expect(t, s.do(http.MethodPost, "/doc", `{"markdown":"v3"}`, bob), http.StatusOK, "")

	expect(t, s.do(http.MethodPost, "/doc", `{"markdown":"v4","view_access":"alice, ,bob"}`, alice),
		http.StatusBadRequest, validation.ErrorCode)
	a, _, err := article.NewStore(s.articles).Read("/doc")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if a.Markdown != "v3" || a.Permission.View.String() != "Authenticated" {
		t.Errorf("rejected edit was written: %+v", a)
	}
}

func TestApplyAccessLevels(t *testing.T) {
	base := authz.ArticlePermission{View: authz.AuthenticatedLevel(), Edit: authz.AuthenticatedLevel()}
	tests := []struct {
		name     string
		view     string
		edit     string
		wantView string
		wantEdit string
		wantErr  bool
	}{
		{name: "both empty", wantView: "Authenticated", wantEdit: "Authenticated"},
		{name: "view only", view: "Public", wantView: "Public", wantEdit: "Authenticated"},
		{name: "user lists", view: "bob, alice", edit: "alice", wantView: "alice,bob", wantEdit: "alice"},
		{name: "bad view", view: " , ", edit: "Public", wantView: "Authenticated", wantEdit: "Authenticated", wantErr: true},
		{name: "bad edit", view: "Public", edit: "alice,,bob", wantView: "Authenticated", wantEdit: "Authenticated", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perm := base
			err := applyAccessLevels(&perm, tt.view, tt.edit)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if perm.View.String() != tt.wantView || perm.Edit.String() != tt.wantEdit {
				t.Errorf("perm = %s/%s, want %s/%s", perm.View, perm.Edit, tt.wantView, tt.wantEdit)
			}
		})
	}
}

func TestTreeFiltersUnreadable(t *testing.T) {
	s := newTestServer(t, auth.ModeMulti)
	s.addAccount("alice", "alice-password")
	s.addAccount("bob", "bob-password")
	s.writeArticle("index.md", "+++\ntitle = \"Home\"\nview_access = \"Public\"\n+++\n")
	s.writeArticle("team/plan.md", "+++\ntitle = \"Plan\"\nview_access = [\"alice\"]\n+++\n")
	s.writeArticle("members.md", "+++\ntitle = \"Members\"\n+++\n")

	tree := func(token string) string {
		return string(expect(t, s.do(http.MethodGet, "/special:tree", "", token), http.StatusOK, "").Data)
	}

	anon := tree("")
	if strings.Contains(anon, "Members") || strings.Contains(anon, "Plan") || !strings.Contains(anon, `"has_index":true`) {
		t.Errorf("anonymous tree = %s", anon)
	}
	if got := tree(s.login("bob", "bob-password")); !strings.Contains(got, "Members") || strings.Contains(got, "Plan") {
		t.Errorf("bob's tree = %s", got)
	}
	if got := tree(s.login("alice", "alice-password")); !strings.Contains(got, "/team/plan") {
		t.Errorf("alice's tree = %s", got)
	}
}

func TestTreeDiscoveryDisabled(t *testing.T) {
	s, plain := singleServer(t, withFlags(func(f *authz.GlobalFlags) { f.Discovery = authz.AuthenticatedLevel() }))
	expect(t, s.do(http.MethodGet, "/special:tree", "", ""), http.StatusUnauthorized, CodeAuthRequired)
	expect(t, s.do(http.MethodGet, "/special:tree", "", s.login("", plain)), http.StatusOK, "")
}
