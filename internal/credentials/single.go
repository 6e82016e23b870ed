// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package credentials

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/tomtom215/plainwiki/internal/password"
)

// GeneratedPasswordLength is the length of generated single-user passwords.
const GeneratedPasswordLength = 24

const passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

var randReader io.Reader = rand.Reader

// EnsureSinglePassword makes sure single-user mode has a usable password.
// When the stored value is missing or not a valid hash, a random password is
// generated, hashed and saved, and its plaintext is returned with generated
// set. The plaintext is not kept anywhere; the caller must show it once.
func (s *Store) EnsureSinglePassword(ctx context.Context, hasher password.Hasher) (plaintext string, generated bool, err error) {
	set, err := s.Load(ctx)
	if err != nil {
		return "", false, err
	}
	if password.IsHash(set.SinglePassword) {
		return "", false, nil
	}

	plaintext, err = GeneratePassword(GeneratedPasswordLength)
	if err != nil {
		return "", false, err
	}
	hash, err := hasher.Hash(ctx, plaintext)
	if err != nil {
		return "", false, err
	}

	err = s.update(ctx, func(set *Set) error {
		set.SinglePassword = hash
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return plaintext, true, nil
}

// GeneratePassword returns n random characters from a URL-safe alphabet.
func GeneratePassword(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(randReader, buf); err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	// 64 symbols, so masking the low six bits is unbiased.
	for i := range buf {
		buf[i] = passwordAlphabet[buf[i]&63]
	}
	return string(buf), nil
}
