// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/tomtom215/plainwiki/internal/fsutil"
	"github.com/tomtom215/plainwiki/internal/password"
)

var testHasher = password.Direct{P: password.Params{Time: 1, MemoryKiB: 64, Threads: 1, KeyLength: 32, SaltLength: 16}}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "accounts.toml"))
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	set, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if set.SinglePassword != "" || len(set.Accounts) != 0 {
		t.Errorf("Load of missing file = %+v, want empty", set)
	}
}

func TestLoadOriginalFormat(t *testing.T) {
	s := newTestStore(t)
	content := `single_password = "$argon2id$v=19$m=19456,t=2,p=1$c2FsdHNhbHQ$aGFzaGhhc2hoYXNoaGFzaA"

[[accounts]]
username = "alice"
password = "hash-a"

[[accounts]]
username = "Alice"
password = "hash-b"
`
	if err := os.WriteFile(s.Path(), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	set, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(set.Accounts) != 2 {
		t.Fatalf("accounts = %d, want 2 (usernames are case-sensitive)", len(set.Accounts))
	}
	if set.Accounts[1].PasswordHash != "hash-b" {
		t.Errorf("Accounts[1] = %+v", set.Accounts[1])
	}
}

func TestLoadDuplicateUsernameIsFatal(t *testing.T) {
	s := newTestStore(t)
	content := "[[accounts]]\nusername = \"bob\"\npassword = \"x\"\n\n[[accounts]]\nusername = \"bob\"\npassword = \"y\"\n"
	if err := os.WriteFile(s.Path(), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(context.Background()); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("Load = %v, want ErrDuplicateUsername", err)
	}
	if err := s.Save(context.Background(), &Set{Accounts: []Account{{Username: "x"}, {Username: "x"}}}); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("Save = %v, want ErrDuplicateUsername", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	want := &Set{
		SinglePassword: "single-hash",
		Accounts:       []Account{{Username: "alice", PasswordHash: "a"}, {Username: "bob", PasswordHash: "b"}},
	}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, _ := os.ReadFile(s.Path())
	if !strings.Contains(string(raw), "[[accounts]]") || !strings.Contains(string(raw), "single_password") {
		t.Errorf("unexpected file layout:\n%s", raw)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.SinglePassword != want.SinglePassword || len(got.Accounts) != 2 || got.Accounts[1] != want.Accounts[1] {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestSaveConflictLeavesPreviousFile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.Save(ctx, &Set{SinglePassword: "old"}); err != nil {
		t.Fatal(err)
	}
	// A stale temp file from another writer blocks the save.
	if err := os.WriteFile(s.Path()+fsutil.TempSuffix, []byte("junk"), 0o600); err != nil {
		t.Fatal(err)
	}
	err := s.Save(ctx, &Set{SinglePassword: "new"})
	if !errors.Is(err, fsutil.ErrWriteInProgress) {
		t.Fatalf("Save = %v, want ErrWriteInProgress", err)
	}
	set, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if set.SinglePassword != "old" {
		t.Errorf("SinglePassword = %q, want old", set.SinglePassword)
	}
}

func TestAccountOperations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AddAccount(ctx, "alice", "h1"); err != nil {
		t.Fatalf("AddAccount: %v", err)
	}
	if err := s.AddAccount(ctx, "alice", "h2"); !errors.Is(err, ErrAccountExists) {
		t.Errorf("AddAccount duplicate = %v, want ErrAccountExists", err)
	}
	if err := s.AddAccount(ctx, "", "h"); !errors.Is(err, ErrInvalidUsername) {
		t.Errorf("AddAccount empty = %v, want ErrInvalidUsername", err)
	}
	if err := s.AddAccount(ctx, "a,b", "h"); !errors.Is(err, ErrInvalidUsername) {
		t.Errorf("AddAccount comma = %v, want ErrInvalidUsername", err)
	}
	if err := s.AddAccount(ctx, "alice ", "h"); !errors.Is(err, ErrInvalidUsername) {
		t.Errorf("AddAccount trailing space = %v, want ErrInvalidUsername", err)
	}
	if err := s.AddAccount(ctx, "bob", "h3"); err != nil {
		t.Fatal(err)
	}

	if err := s.SetAccountPassword(ctx, "alice", "h4"); err != nil {
		t.Fatalf("SetAccountPassword: %v", err)
	}
	if err := s.SetAccountPassword(ctx, "carol", "h"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("SetAccountPassword missing = %v, want ErrAccountNotFound", err)
	}
	acc, err := s.Lookup(ctx, "alice")
	if err != nil || acc.PasswordHash != "h4" {
		t.Errorf("Lookup = %+v, %v", acc, err)
	}

	names, err := s.Usernames(ctx)
	if err != nil || fmt.Sprint(names) != "[alice bob]" {
		t.Errorf("Usernames = %v, %v", names, err)
	}

	if err := s.RemoveAccount(ctx, "bob"); err != nil {
		t.Fatal(err)
	}
	if ok, err := s.HasAccount(ctx, "bob"); err != nil || ok {
		t.Errorf("HasAccount(bob) = %v, %v after removal", ok, err)
	}
	if ok, _ := s.HasAccount(ctx, "ALICE"); ok {
		t.Error("HasAccount is not case-sensitive")
	}
	if err := s.SetSinglePassword(ctx, "sp"); err != nil {
		t.Fatal(err)
	}
	set, _ := s.Load(ctx)
	if set.SinglePassword != "sp" || len(set.Accounts) != 1 {
		t.Errorf("set = %+v", set)
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"simple", "alice", false},
		{"inner space", "alice smith", false},
		{"unicode", "zoë", false},
		{"max length", strings.Repeat("a", 64), false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 65), true},
		{"comma", "a,b", true},
		{"control", "a\x01b", true},
		{"leading space", " alice", true},
		{"trailing space", "alice ", true},
		{"only spaces", "   ", true},
		{"non-breaking space", "alice\u00a0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUsername(%q) = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidUsername) {
				t.Errorf("error %v does not wrap ErrInvalidUsername", err)
			}
		})
	}
}

func TestConcurrentReadersSeeWholeFiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.AddAccount(ctx, "seed", "h"); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if err := s.AddAccount(ctx, fmt.Sprintf("user%d", i), "h"); err != nil {
				errs <- err
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if _, err := s.Load(ctx); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	names, _ := s.Usernames(ctx)
	if len(names) != 9 {
		t.Errorf("accounts = %d, want 9 (no lost updates)", len(names))
	}
}

func TestEnsureSinglePassword(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	plain, generated, err := s.EnsureSinglePassword(ctx, testHasher)
	if err != nil {
		t.Fatalf("EnsureSinglePassword: %v", err)
	}
	if !generated || len(plain) != GeneratedPasswordLength {
		t.Fatalf("generated = %v, len = %d", generated, len(plain))
	}

	set, _ := s.Load(ctx)
	if set.SinglePassword == plain {
		t.Fatal("plaintext was persisted")
	}
	if !password.Verify(plain, set.SinglePassword) {
		t.Fatal("persisted hash does not verify the returned plaintext")
	}

	again, generated, err := s.EnsureSinglePassword(ctx, testHasher)
	if err != nil || generated || again != "" {
		t.Errorf("second call = %q, %v, %v; want no generation", again, generated, err)
	}
}

func TestEnsureSinglePasswordReplacesInvalidHash(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.Save(ctx, &Set{SinglePassword: "hunter2", Accounts: []Account{{Username: "keep", PasswordHash: "h"}}}); err != nil {
		t.Fatal(err)
	}
	plain, generated, err := s.EnsureSinglePassword(ctx, testHasher)
	if err != nil || !generated {
		t.Fatalf("EnsureSinglePassword = %v, %v", generated, err)
	}
	set, _ := s.Load(ctx)
	if !password.Verify(plain, set.SinglePassword) {
		t.Error("new hash does not verify")
	}
	if len(set.Accounts) != 1 {
		t.Error("accounts were lost while replacing the single password")
	}
}

func TestGeneratePassword(t *testing.T) {
	a, err := GeneratePassword(24)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := GeneratePassword(24)
	if a == b {
		t.Error("generated passwords collide")
	}
	for _, r := range a {
		if !strings.ContainsRune(passwordAlphabet, r) {
			t.Errorf("unexpected character %q", r)
		}
	}
}
