// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

// Package password hashes and verifies passwords with argon2id.
//
// Hashes are stored in the PHC string format:
//
//	$argon2id$v=19$m=19456,t=2,p=1$<salt>$<digest>
//
// Salt and digest use standard base64 without padding. Every hash carries
// its own parameters, so raising the configured cost never invalidates
// existing hashes; NeedsRehash reports which ones should be upgraded.
//
// Hashing is deliberately expensive. Request handlers should go through a
// Pool rather than calling Hash and Verify directly.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	algorithm = "argon2id"

	maxMemoryKiB = 4 * 1024 * 1024 // 4 GiB
	maxTime      = 1 << 10
	minKeyLength = 16
	maxKeyLength = 1024
	minSalt      = 8
	maxSalt      = 1024
)

var (
	// ErrInvalidParams is returned by Params.Validate.
	ErrInvalidParams = errors.New("invalid argon2 parameters")

	// ErrMalformedHash is returned by Decode for strings that are not
	// argon2id PHC hashes within accepted bounds.
	ErrMalformedHash = errors.New("malformed password hash")
)

var b64 = base64.RawStdEncoding

// Params are argon2id cost parameters.
type Params struct {
	Time       uint32
	MemoryKiB  uint32
	Threads    uint8
	KeyLength  uint32
	SaltLength uint32
}

// DefaultParams returns the OWASP-recommended argon2id baseline.
func DefaultParams() Params {
	return Params{
		Time:       2,
		MemoryKiB:  19 * 1024,
		Threads:    1,
		KeyLength:  32,
		SaltLength: 16,
	}
}

// Validate rejects parameters that would produce weak or unusable hashes.
func (p Params) Validate() error {
	switch {
	case p.Time == 0 || p.Time > maxTime:
		return fmt.Errorf("%w: time must be between 1 and %d", ErrInvalidParams, maxTime)
	case p.MemoryKiB < 8*uint32(p.Threads) || p.MemoryKiB > maxMemoryKiB:
		return fmt.Errorf("%w: memory must be at least 8 KiB per thread and at most 4 GiB", ErrInvalidParams)
	case p.Threads == 0:
		return fmt.Errorf("%w: threads must be at least 1", ErrInvalidParams)
	case p.KeyLength < minKeyLength || p.KeyLength > maxKeyLength:
		return fmt.Errorf("%w: key length must be between %d and %d", ErrInvalidParams, minKeyLength, maxKeyLength)
	case p.SaltLength < minSalt || p.SaltLength > maxSalt:
		return fmt.Errorf("%w: salt length must be between %d and %d", ErrInvalidParams, minSalt, maxSalt)
	}
	return nil
}

// Decoded is a parsed PHC hash.
type Decoded struct {
	Params Params
	Salt   []byte
	Digest []byte
}

// Hash derives an argon2id hash of password with a fresh random salt.
func Hash(password string, p Params) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	digest := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Threads, p.KeyLength)
	return encode(p, salt, digest), nil
}

// Verify reports whether password matches encoded. Anything that does not
// parse as an argon2id hash is a mismatch; Verify never panics.
func Verify(password, encoded string) bool {
	d, err := Decode(encoded)
	if err != nil {
		return false
	}
	got := argon2.IDKey([]byte(password), d.Salt, d.Params.Time, d.Params.MemoryKiB, d.Params.Threads, uint32(len(d.Digest)))
	return subtle.ConstantTimeCompare(got, d.Digest) == 1
}

// IsHash reports whether s parses as a usable argon2id hash.
func IsHash(s string) bool {
	_, err := Decode(s)
	return err == nil
}

// NeedsRehash reports whether encoded was produced with parameters other
// than p. Unparsable input always needs a rehash.
func NeedsRehash(encoded string, p Params) bool {
	d, err := Decode(encoded)
	if err != nil {
		return true
	}
	return d.Params.Time != p.Time ||
		d.Params.MemoryKiB != p.MemoryKiB ||
		d.Params.Threads != p.Threads ||
		uint32(len(d.Digest)) != p.KeyLength ||
		uint32(len(d.Salt)) != p.SaltLength
}

// Decode parses a PHC argon2id string.
func Decode(encoded string) (*Decoded, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, digest
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != algorithm {
		return nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, fmt.Errorf("%w: unsupported version", ErrMalformedHash)
	}

	p, err := parseParams(parts[3])
	if err != nil {
		return nil, err
	}

	salt, err := b64.DecodeString(parts[4])
	if err != nil || len(salt) < minSalt || len(salt) > maxSalt {
		return nil, fmt.Errorf("%w: bad salt", ErrMalformedHash)
	}
	digest, err := b64.DecodeString(parts[5])
	if err != nil || len(digest) < minKeyLength || len(digest) > maxKeyLength {
		return nil, fmt.Errorf("%w: bad digest", ErrMalformedHash)
	}
	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(digest))

	return &Decoded{Params: p, Salt: salt, Digest: digest}, nil
}

// parseParams reads "m=<KiB>,t=<iterations>,p=<threads>" in any order.
func parseParams(s string) (Params, error) {
	var p Params
	seen := 0
	for _, kv := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return p, fmt.Errorf("%w: bad parameter %q", ErrMalformedHash, kv)
		}
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return p, fmt.Errorf("%w: bad parameter %q", ErrMalformedHash, kv)
		}
		switch k {
		case "m":
			if n == 0 || n > maxMemoryKiB {
				return p, fmt.Errorf("%w: memory out of range", ErrMalformedHash)
			}
			p.MemoryKiB = uint32(n)
		case "t":
			if n == 0 || n > maxTime {
				return p, fmt.Errorf("%w: time out of range", ErrMalformedHash)
			}
			p.Time = uint32(n)
		case "p":
			if n == 0 || n > 255 {
				return p, fmt.Errorf("%w: threads out of range", ErrMalformedHash)
			}
			p.Threads = uint8(n)
		default:
			return p, fmt.Errorf("%w: unknown parameter %q", ErrMalformedHash, k)
		}
		seen++
	}
	if seen != 3 || p.MemoryKiB == 0 || p.Time == 0 || p.Threads == 0 {
		return p, fmt.Errorf("%w: missing parameter", ErrMalformedHash)
	}
	return p, nil
}

func encode(p Params, salt, digest []byte) string {
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithm, argon2.Version, p.MemoryKiB, p.Time, p.Threads,
		b64.EncodeToString(salt), b64.EncodeToString(digest))
}
