// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/plainwiki/internal/article"
	"github.com/tomtom215/plainwiki/internal/auth"
	"github.com/tomtom215/plainwiki/internal/authz"
	"github.com/tomtom215/plainwiki/internal/credentials"
	"github.com/tomtom215/plainwiki/internal/password"
	"github.com/tomtom215/plainwiki/internal/secret"
)

var testParams = password.Params{Time: 1, MemoryKiB: 64, Threads: 1, KeyLength: 32, SaltLength: 16}

type testServer struct {
	t        *testing.T
	handler  http.Handler
	store    *credentials.Store
	articles string
}

type serverOption func(flags *authz.GlobalFlags, mw *ChiMiddlewareConfig)

func withFlags(fn func(f *authz.GlobalFlags)) serverOption {
	return func(f *authz.GlobalFlags, _ *ChiMiddlewareConfig) { fn(f) }
}

func withLoginLimit(n int) serverOption {
	return func(_ *authz.GlobalFlags, mw *ChiMiddlewareConfig) {
		mw.RateLimitDisabled = false
		mw.LoginRateLimit = n
		mw.LoginRateWindow = time.Hour
	}
}

func newTestServer(t *testing.T, mode auth.Mode, opts ...serverOption) *testServer {
	t.Helper()
	dir := t.TempDir()

	key, _, err := secret.Initialize(bytes.Repeat([]byte{7}, secret.MinKeyLength))
	if err != nil {
		t.Fatal(err)
	}
	tokens, err := auth.NewTokenIssuer(key, mode, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	store := credentials.NewStore(filepath.Join(dir, "accounts.toml"))
	svc, err := auth.NewService(mode, store, password.Direct{P: testParams}, tokens)
	if err != nil {
		t.Fatal(err)
	}

	flags := authz.GlobalFlags{
		Mode:           mode,
		PageCreation:   authz.AuthenticatedLevel(),
		Administration: authz.AuthenticatedLevel(),
		Discovery:      authz.PublicLevel(),
	}
	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	for _, opt := range opts {
		opt(&flags, mwCfg)
	}

	articles := filepath.Join(dir, "articles")
	h, err := NewHandler(Dependencies{
		Service:        svc,
		Resolver:       auth.NewResolver(mode, tokens, store),
		Accounts:       store,
		Articles:       article.NewStore(articles),
		Flags:          flags,
		SessionTimeout: time.Hour,
	})
	if err != nil {
		t.Fatal(err)
	}

	return &testServer{
		t:        t,
		handler:  NewRouter(h, NewChiMiddleware(mwCfg)).SetupChi(),
		store:    store,
		articles: articles,
	}
}

func (s *testServer) addAccount(username, pw string) {
	s.t.Helper()
	hash, err := password.Hash(pw, testParams)
	if err != nil {
		s.t.Fatal(err)
	}
	if err := s.store.AddAccount(context.Background(), username, hash); err != nil {
		s.t.Fatal(err)
	}
}

func (s *testServer) writeArticle(rel, content string) {
	s.t.Helper()
	p := filepath.Join(s.articles, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		s.t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		s.t.Fatal(err)
	}
}

// do sends a request. A non-empty token is sent as a bearer header.
func (s *testServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// login returns the session token or fails the test.
func (s *testServer) login(username, pw string) string {
	s.t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": pw})
	rec := s.do(http.MethodPost, "/special:login", string(body), "")
	if rec.Code != http.StatusOK {
		s.t.Fatalf("login %q: status %d: %s", username, rec.Code, rec.Body.String())
	}
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Data.Token == "" {
		s.t.Fatalf("login response %s: %v", rec.Body.String(), err)
	}
	return resp.Data.Token
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return env
}

// expect checks the status and, for errors, the error code.
func expect(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) envelope {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d: %s", rec.Code, status, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if code != "" {
		if env.Error == nil || env.Error.Code != code {
			t.Fatalf("error = %+v, want code %s", env.Error, code)
		}
	}
	return env
}
