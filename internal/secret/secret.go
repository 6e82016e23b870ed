// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

// Package secret manages the site signing key.
//
// The key is chosen once at startup and never changes while the process
// runs. A configured key shorter than MinKeyLength (or one that does not
// decode) is replaced by a freshly generated key, and the operator is told
// how to persist it. The key is never written back to configuration.
//
// Key Usage:
//   - Sign / Verify: HMAC-SHA512 over arbitrary payloads
//   - Subkey: HKDF-SHA512 derived keys, one per purpose (session tokens use one)
package secret

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/tomtom215/plainwiki/internal/logging"
)

// MinKeyLength is the minimum accepted key length in bytes.
const MinKeyLength = 64

// ConfigKey and EnvVar name the setting an operator uses to persist a key.
const (
	ConfigKey = "security.secret_key"
	EnvVar    = "SECRET_KEY"
)

// ErrEntropy is returned when the system random source fails.
var ErrEntropy = errors.New("secure random source unavailable")

// randReader is swapped in tests to simulate entropy failure.
var randReader io.Reader = rand.Reader

// Key is an immutable signing key.
type Key struct {
	b []byte
}

// Initialize returns the key to use for this process. When configured is at
// least MinKeyLength bytes it is copied and used as is; otherwise a new key
// is generated and generated reports true.
func Initialize(configured []byte) (key *Key, generated bool, err error) {
	if len(configured) >= MinKeyLength {
		b := make([]byte, len(configured))
		copy(b, configured)
		return &Key{b: b}, false, nil
	}

	b := make([]byte, MinKeyLength)
	if _, err := io.ReadFull(randReader, b); err != nil {
		return nil, false, fmt.Errorf("generate secret key: %w: %v", ErrEntropy, err)
	}
	return &Key{b: b}, true, nil
}

// InitializeFromConfig decodes a standard base64 key from configuration and
// calls Initialize. A value that does not decode is treated as weak. When a
// key is generated a warning carrying the encoded key is logged so the
// operator can persist it.
func InitializeFromConfig(encoded string) (*Key, error) {
	raw, decodeErr := base64.StdEncoding.DecodeString(encoded)
	if decodeErr != nil {
		raw = nil
	}

	key, generated, err := Initialize(raw)
	if err != nil {
		return nil, err
	}
	if generated {
		event := logging.Warn().
			Str("config_key", ConfigKey).
			Str("env_var", EnvVar).
			Str("secret_key", key.Encoded()).
			Int("min_bytes", MinKeyLength)
		switch {
		case encoded == "":
			event = event.Str("reason", "not configured")
		case decodeErr != nil:
			event = event.Str("reason", "not valid base64")
		default:
			event = event.Str("reason", "too short").Int("configured_bytes", len(raw))
		}
		event.Msg("Generated an ephemeral secret key; sessions will not survive a restart until it is saved to the configuration")
	}
	return key, nil
}

// Encoded returns the key as standard base64, the format configuration expects.
func (k *Key) Encoded() string {
	return base64.StdEncoding.EncodeToString(k.b)
}

// Len returns the key length in bytes.
func (k *Key) Len() int {
	return len(k.b)
}

// Sign returns the HMAC-SHA512 of payload.
func (k *Key) Sign(payload []byte) []byte {
	mac := hmac.New(sha512.New, k.b)
	mac.Write(payload)
	return mac.Sum(nil)
}

// Verify reports whether signature is a valid signature of payload.
// The comparison is constant time.
func (k *Key) Verify(payload, signature []byte) bool {
	return hmac.Equal(k.Sign(payload), signature)
}

// Subkey returns a MinKeyLength-byte key derived from k and bound to
// purpose, so that different uses of the site key never share key material.
func (k *Key) Subkey(purpose string) (*Key, error) {
	out := make([]byte, MinKeyLength)
	r := hkdf.New(sha512.New, k.b, nil, []byte("plainwiki:"+purpose))
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", purpose, err)
	}
	return &Key{b: out}, nil
}
