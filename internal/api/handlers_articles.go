// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/plainwiki/internal/article"
	"github.com/tomtom215/plainwiki/internal/auth"
	"github.com/tomtom215/plainwiki/internal/authz"
	"github.com/tomtom215/plainwiki/internal/logging"
	"github.com/tomtom215/plainwiki/internal/models"
	"github.com/tomtom215/plainwiki/internal/validation"
)

func articlePath(r *http.Request) string {
	return "/" + chi.URLParam(r, "*")
}

// applyAccessLevels parses the non-empty level strings and stores them in
// perm. perm is left untouched when either string is invalid.
func applyAccessLevels(perm *authz.ArticlePermission, view, edit string) error {
	next := *perm
	if view != "" {
		level, err := authz.ParseAccessLevelString(view)
		if err != nil {
			return fmt.Errorf("view_access: %w", err)
		}
		next.View = level
	}
	if edit != "" {
		level, err := authz.ParseAccessLevelString(edit)
		if err != nil {
			return fmt.Errorf("edit_access: %w", err)
		}
		next.Edit = level
	}
	*perm = next
	return nil
}

func (h *Handler) articleModel(p auth.Principal, loc article.Location, a *article.Article) models.Article {
	return models.Article{
		Path:       loc.URL,
		Title:      a.Title,
		ViewAccess: a.Permission.View.TOMLValue(),
		EditAccess: a.Permission.Edit.TOMLValue(),
		Markdown:   a.Markdown,
		CanEdit:    authz.Authorize(p, authz.Edit, &a.Permission, h.flags).Allowed,
	}
}

// GetArticle returns an article the caller may view. With ?edit the caller
// must also be allowed to edit it.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())

	a, loc, err := h.articles.Read(articlePath(r))
	if errors.Is(err, article.ErrNotFound) {
		// A missing article is guarded like an Authenticated one so that
		// anonymous visitors cannot discover which paths exist.
		if d := authz.Authorize(p, authz.View, nil, h.flags); !d.Allowed {
			respondDenied(w, r, d)
			return
		}
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if d := authz.Authorize(p, authz.View, &a.Permission, h.flags); !d.Allowed {
		respondDenied(w, r, d)
		return
	}
	if r.URL.Query().Has("edit") {
		if d := authz.Authorize(p, authz.Edit, &a.Permission, h.flags); !d.Allowed {
			respondDenied(w, r, d)
			return
		}
	}
	respondSuccess(w, r, http.StatusOK, h.articleModel(p, loc, a))
}

// EditArticle updates an existing article. Omitted fields keep their
// current value.
func (h *Handler) EditArticle(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())

	a, _, err := h.articles.Read(articlePath(r))
	if errors.Is(err, article.ErrNotFound) {
		if d := authz.Authorize(p, authz.Edit, nil, h.flags); !d.Allowed {
			respondDenied(w, r, d)
			return
		}
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if d := authz.Authorize(p, authz.Edit, &a.Permission, h.flags); !d.Allowed {
		respondDenied(w, r, d)
		return
	}

	var req editArticleRequest
	if !decodeRequest(w, r, maxArticleBody, &req) {
		return
	}
	if req.Title != "" {
		a.Title = req.Title
	}
	if req.Markdown != nil {
		a.Markdown = *req.Markdown
	}
	if err := applyAccessLevels(&a.Permission, req.ViewAccess, req.EditAccess); err != nil {
		respondError(w, r, http.StatusBadRequest, validation.ErrorCode, "Invalid access level", err)
		return
	}

	loc, err := h.articles.Write(articlePath(r), a, false)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().
		Str("path", loc.URL).
		Str("principal", p.String()).
		Msg("Article updated")
	respondSuccess(w, r, http.StatusOK, h.articleModel(p, loc, a))
}

// CreateArticle creates a new article. The route is gated on Create.
// Unset access levels default to Public in anonymous mode, where nobody
// can authenticate, and to Authenticated otherwise.
func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())

	var req createArticleRequest
	if !decodeRequest(w, r, maxArticleBody, &req) {
		return
	}

	def := authz.AuthenticatedLevel()
	if h.flags.Mode == auth.ModeAnonymous {
		def = authz.PublicLevel()
	}
	perm := authz.ArticlePermission{View: def, Edit: def}
	if err := applyAccessLevels(&perm, req.ViewAccess, req.EditAccess); err != nil {
		respondError(w, r, http.StatusBadRequest, validation.ErrorCode, "Invalid access level", err)
		return
	}

	a := &article.Article{Title: req.Title, Permission: perm, Markdown: req.Markdown}
	loc, err := h.articles.Write(req.Path, a, true)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().
		Str("path", loc.URL).
		Str("principal", p.String()).
		Msg("Article created")
	respondSuccess(w, r, http.StatusCreated, h.articleModel(p, loc, a))
}

// Tree lists the articles the caller may view. The route is gated on
// Discover.
func (h *Handler) Tree(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())
	tree, err := h.articles.Tree(r.Context(), func(perm authz.ArticlePermission) bool {
		return authz.Authorize(p, authz.View, &perm, h.flags).Allowed
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, tree)
}
