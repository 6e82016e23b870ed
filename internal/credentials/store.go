// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

// Package credentials persists password hashes in a TOML accounts file.
//
// File format:
//
//	single_password = "$argon2id$v=19$..."
//
//	[[accounts]]
//	username = "alice"
//	password = "$argon2id$v=19$..."
//
// The file holds hashes only. Writes replace the whole file atomically
// (see internal/fsutil), so a crash mid-save leaves the previous contents.
// Usernames are case-sensitive and must be unique; a file with duplicates
// is rejected as a configuration error.
package credentials

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/tomtom215/plainwiki/internal/fsutil"
	"github.com/tomtom215/plainwiki/internal/metrics"
)

// maxFileSize bounds the accounts file read.
const maxFileSize = 1 << 20

const filePerm = 0o600

var (
	// ErrDuplicateUsername means the accounts file lists a username twice.
	ErrDuplicateUsername = errors.New("duplicate username in accounts file")

	// ErrAccountExists is returned when adding a username that is taken.
	ErrAccountExists = errors.New("account already exists")

	// ErrAccountNotFound is returned for operations on a missing account.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidUsername is returned for empty or unprintable usernames.
	ErrInvalidUsername = errors.New("invalid username")
)

// Account is a named user and its password hash.
type Account struct {
	Username     string `toml:"username"`
	PasswordHash string `toml:"password"`
}

// Set is the full contents of the accounts file.
type Set struct {
	SinglePassword string    `toml:"single_password,omitempty"`
	Accounts       []Account `toml:"accounts,omitempty"`
}

// find returns the index of username or -1.
func (s *Set) find(username string) int {
	for i := range s.Accounts {
		if s.Accounts[i].Username == username {
			return i
		}
	}
	return -1
}

// Store reads and writes one accounts file. It is safe for concurrent use;
// readers never observe a partially written file.
type Store struct {
	path string
	mu   sync.RWMutex
}

// NewStore returns a Store for path. The file need not exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the accounts file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the accounts file. A missing file is an empty Set.
func (s *Store) Load(ctx context.Context) (*Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

func (s *Store) load() (*Set, error) {
	data, err := fsutil.ReadFileLimit(s.path, maxFileSize)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Set{}, nil
		}
		return nil, fmt.Errorf("read accounts: %w", err)
	}

	set := &Set{}
	if err := toml.Unmarshal(data, set); err != nil {
		return nil, fmt.Errorf("parse accounts %s: %w", s.path, err)
	}
	if err := checkUnique(set); err != nil {
		return nil, err
	}
	return set, nil
}

func checkUnique(set *Set) error {
	seen := make(map[string]struct{}, len(set.Accounts))
	for _, a := range set.Accounts {
		if _, dup := seen[a.Username]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateUsername, a.Username)
		}
		seen[a.Username] = struct{}{}
	}
	return nil
}

// Save atomically replaces the accounts file with set.
func (s *Store) Save(ctx context.Context, set *Set) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(set)
}

func (s *Store) save(set *Set) error {
	if err := checkUnique(set); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("encode accounts: %w", err)
	}
	start := time.Now()
	err := fsutil.WriteFile(s.path, filePerm, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	})
	metrics.RecordStorageWrite(metrics.StoreAccounts, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	return nil
}

// update runs fn on the current Set under the write lock and saves the
// result when fn succeeds.
func (s *Store) update(ctx context.Context, fn func(set *Set) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(set); err != nil {
		return err
	}
	return s.save(set)
}

// Lookup returns the account for username.
func (s *Store) Lookup(ctx context.Context, username string) (Account, error) {
	set, err := s.Load(ctx)
	if err != nil {
		return Account{}, err
	}
	if i := set.find(username); i >= 0 {
		return set.Accounts[i], nil
	}
	return Account{}, ErrAccountNotFound
}

// HasAccount reports whether username exists.
func (s *Store) HasAccount(ctx context.Context, username string) (bool, error) {
	_, err := s.Lookup(ctx, username)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrAccountNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Usernames returns all account names in sorted order.
func (s *Store) Usernames(ctx context.Context) ([]string, error) {
	set, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(set.Accounts))
	for _, a := range set.Accounts {
		names = append(names, a.Username)
	}
	sort.Strings(names)
	return names, nil
}

// AddAccount creates an account with an already-hashed password.
func (s *Store) AddAccount(ctx context.Context, username, hash string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	return s.update(ctx, func(set *Set) error {
		if set.find(username) >= 0 {
			return fmt.Errorf("%w: %q", ErrAccountExists, username)
		}
		set.Accounts = append(set.Accounts, Account{Username: username, PasswordHash: hash})
		return nil
	})
}

// SetAccountPassword replaces the hash of an existing account.
func (s *Store) SetAccountPassword(ctx context.Context, username, hash string) error {
	return s.update(ctx, func(set *Set) error {
		i := set.find(username)
		if i < 0 {
			return fmt.Errorf("%w: %q", ErrAccountNotFound, username)
		}
		set.Accounts[i].PasswordHash = hash
		return nil
	})
}

// SetSinglePassword replaces the single-user password hash.
func (s *Store) SetSinglePassword(ctx context.Context, hash string) error {
	return s.update(ctx, func(set *Set) error {
		set.SinglePassword = hash
		return nil
	})
}

// RemoveAccount deletes an account.
func (s *Store) RemoveAccount(ctx context.Context, username string) error {
	return s.update(ctx, func(set *Set) error {
		i := set.find(username)
		if i < 0 {
			return fmt.Errorf("%w: %q", ErrAccountNotFound, username)
		}
		set.Accounts = append(set.Accounts[:i], set.Accounts[i+1:]...)
		return nil
	})
}

// ValidateUsername rejects names that cannot be stored or shown safely.
func ValidateUsername(username string) error {
	if username == "" || len(username) > 64 {
		return fmt.Errorf("%w: must be 1 to 64 bytes", ErrInvalidUsername)
	}
	if strings.TrimSpace(username) != username {
		return fmt.Errorf("%w: leading or trailing whitespace", ErrInvalidUsername)
	}
	for _, r := range username {
		if r < 0x20 || r == 0x7f || r == ',' {
			return fmt.Errorf("%w: contains a control character or comma", ErrInvalidUsername)
		}
	}
	return nil
}
