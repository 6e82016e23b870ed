// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/plainwiki/internal/credentials"
	"github.com/tomtom215/plainwiki/internal/logging"
	"github.com/tomtom215/plainwiki/internal/password"
)

// CredentialStore is the subset of credentials.Store the service needs.
type CredentialStore interface {
	Load(ctx context.Context) (*credentials.Set, error)
	Lookup(ctx context.Context, username string) (credentials.Account, error)
	AddAccount(ctx context.Context, username, hash string) error
	SetAccountPassword(ctx context.Context, username, hash string) error
	SetSinglePassword(ctx context.Context, hash string) error
}

// Credentials are what a login form submits. Username is ignored in
// single mode.
type Credentials struct {
	Username string
	Password string
}

// Service implements login and password management on top of the
// credential store, the hashing pool and the token issuer.
type Service struct {
	mode   Mode
	store  CredentialStore
	hasher password.Hasher
	tokens *TokenIssuer
	audit  *logging.SecurityLogger

	// dummyHash is verified in place of an unknown account so that both
	// failures cost the same.
	dummyHash string
}

// NewService creates a Service. The hasher decides the cost of new hashes.
func NewService(mode Mode, store CredentialStore, hasher password.Hasher, tokens *TokenIssuer) (*Service, error) {
	dummy, err := password.Hash("plainwiki-unknown-account", hasher.Params())
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &Service{
		mode:      mode,
		store:     store,
		hasher:    hasher,
		tokens:    tokens,
		audit:     logging.NewSecurityLogger(),
		dummyHash: dummy,
	}, nil
}

// Mode returns the authentication mode the service runs in.
func (s *Service) Mode() Mode {
	return s.mode
}

// Login checks creds and returns a session token and the authenticated
// principal. Every credential failure is ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, creds Credentials) (string, Principal, error) {
	var (
		p   Principal
		err error
	)
	switch s.mode {
	case ModeSingle:
		p, err = s.loginSingle(ctx, creds.Password)
	case ModeMulti:
		p, err = s.loginMulti(ctx, creds.Username, creds.Password)
	default:
		LoginAttempts.WithLabelValues(s.mode.String(), "failure").Inc()
		return "", Anonymous(), ErrLoginUnavailable
	}

	event := &logging.SecurityEvent{Event: "login", Username: creds.Username, Mode: s.mode.String()}
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrInvalidCredentials) {
			outcome = "failure"
			event.Reason = "invalid credentials"
		} else {
			event.Reason = "internal error"
		}
		LoginAttempts.WithLabelValues(s.mode.String(), outcome).Inc()
		s.audit.Log(ctx, event)
		return "", Anonymous(), err
	}

	token, err := s.tokens.Issue(p)
	if err != nil {
		LoginAttempts.WithLabelValues(s.mode.String(), "error").Inc()
		return "", Anonymous(), err
	}
	LoginAttempts.WithLabelValues(s.mode.String(), "success").Inc()
	event.Success = true
	s.audit.Log(ctx, event)
	return token, p, nil
}

func (s *Service) loginSingle(ctx context.Context, pw string) (Principal, error) {
	set, err := s.store.Load(ctx)
	if err != nil {
		return Anonymous(), err
	}
	hash := set.SinglePassword
	if !password.IsHash(hash) {
		// Fall through to a real computation so timing does not reveal
		// a missing password.
		hash = s.dummyHash
		if _, err := s.hasher.Verify(ctx, pw, hash); err != nil {
			return Anonymous(), err
		}
		return Anonymous(), ErrInvalidCredentials
	}
	ok, err := s.hasher.Verify(ctx, pw, hash)
	if err != nil {
		return Anonymous(), err
	}
	if !ok {
		return Anonymous(), ErrInvalidCredentials
	}
	s.maybeRehash(ctx, pw, hash, func(newHash string) error {
		return s.store.SetSinglePassword(ctx, newHash)
	})
	return SingleUser(), nil
}

func (s *Service) loginMulti(ctx context.Context, username, pw string) (Principal, error) {
	acc, err := s.store.Lookup(ctx, username)
	found := true
	if err != nil {
		if !errors.Is(err, credentials.ErrAccountNotFound) {
			return Anonymous(), err
		}
		found = false
		acc.PasswordHash = s.dummyHash
	}
	ok, err := s.hasher.Verify(ctx, pw, acc.PasswordHash)
	if err != nil {
		return Anonymous(), err
	}
	if !found || !ok {
		return Anonymous(), ErrInvalidCredentials
	}
	s.maybeRehash(ctx, pw, acc.PasswordHash, func(newHash string) error {
		return s.store.SetAccountPassword(ctx, username, newHash)
	})
	return NamedUser(username), nil
}

// maybeRehash upgrades a hash made with outdated parameters. Failures are
// logged and never fail the login.
func (s *Service) maybeRehash(ctx context.Context, pw, hash string, save func(string) error) {
	if !password.NeedsRehash(hash, s.hasher.Params()) {
		return
	}
	newHash, err := s.hasher.Hash(ctx, pw)
	if err == nil {
		err = save(newHash)
	}
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to upgrade password hash")
		return
	}
	logging.Ctx(ctx).Info().Msg("Upgraded password hash to current parameters")
}

// ChangePassword lets an authenticated principal replace its own password.
// Existing sessions stay valid until they expire.
func (s *Service) ChangePassword(ctx context.Context, p Principal, oldPassword, newPassword string) error {
	err := s.changePassword(ctx, p, oldPassword, newPassword)
	s.recordChange(ctx, "self", p.Username, err)
	return err
}

func (s *Service) changePassword(ctx context.Context, p Principal, oldPassword, newPassword string) error {
	var current string
	switch {
	case s.mode == ModeSingle && p.Kind == KindSingleUser:
		set, err := s.store.Load(ctx)
		if err != nil {
			return err
		}
		current = set.SinglePassword
	case s.mode == ModeMulti && p.Kind == KindNamedUser:
		acc, err := s.store.Lookup(ctx, p.Username)
		if err != nil {
			if errors.Is(err, credentials.ErrAccountNotFound) {
				return ErrInvalidCredentials
			}
			return err
		}
		current = acc.PasswordHash
	default:
		return ErrInvalidCredentials
	}

	if len(newPassword) < MinPasswordLength {
		return fmt.Errorf("%w: minimum is %d characters", ErrWeakPassword, MinPasswordLength)
	}
	ok, err := s.hasher.Verify(ctx, oldPassword, current)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}

	newHash, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return err
	}
	if p.Kind == KindSingleUser {
		return s.store.SetSinglePassword(ctx, newHash)
	}
	return s.store.SetAccountPassword(ctx, p.Username, newHash)
}

// AddAccount creates a named account. Callers must already have checked
// the Administer capability.
func (s *Service) AddAccount(ctx context.Context, username, newPassword string) error {
	err := s.addAccount(ctx, username, newPassword)
	s.recordChange(ctx, "account_added", username, err)
	return err
}

func (s *Service) addAccount(ctx context.Context, username, newPassword string) error {
	if s.mode != ModeMulti {
		return ErrModeMismatch
	}
	if err := credentials.ValidateUsername(username); err != nil {
		return err
	}
	if len(newPassword) < MinPasswordLength {
		return fmt.Errorf("%w: minimum is %d characters", ErrWeakPassword, MinPasswordLength)
	}
	hash, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return err
	}
	return s.store.AddAccount(ctx, username, hash)
}

// SetPassword resets a password without knowing the old one. An empty
// username targets the single-user password. Callers must already have
// checked the Administer capability.
func (s *Service) SetPassword(ctx context.Context, username, newPassword string) error {
	err := s.setPassword(ctx, username, newPassword)
	s.recordChange(ctx, "admin", username, err)
	return err
}

func (s *Service) setPassword(ctx context.Context, username, newPassword string) error {
	switch {
	case username == "" && s.mode != ModeSingle:
		return ErrModeMismatch
	case username != "" && s.mode != ModeMulti:
		return ErrModeMismatch
	}
	if len(newPassword) < MinPasswordLength {
		return fmt.Errorf("%w: minimum is %d characters", ErrWeakPassword, MinPasswordLength)
	}
	hash, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return err
	}
	if username == "" {
		return s.store.SetSinglePassword(ctx, hash)
	}
	return s.store.SetAccountPassword(ctx, username, hash)
}

func (s *Service) recordChange(ctx context.Context, kind, username string, err error) {
	outcome := "success"
	event := &logging.SecurityEvent{Event: "password_" + kind, Username: username, Mode: s.mode.String(), Success: true}
	if err != nil {
		outcome = "failure"
		event.Success = false
		event.Reason = err.Error()
	}
	PasswordChanges.WithLabelValues(kind, outcome).Inc()
	s.audit.Log(ctx, event)
}
