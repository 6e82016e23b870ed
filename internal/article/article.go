// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

// Package article reads and writes wiki articles on disk.
//
// An article is a markdown file that starts with a TOML metadata block
// fenced by "+++" lines:
//
//	+++
//	title = "Home"
//	view_access = "Public"
//	edit_access = ["alice", "bob"]
//	+++
//	# Welcome
//
// The access fields accept "Public", "Authenticated", "Disabled", a list of
// usernames or the { Accounts = [...] } table. A missing or unreadable
// field, or a broken metadata block, yields Authenticated.
package article

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/tomtom215/plainwiki/internal/authz"
)

const separator = "+++"

// maxMetadataSize bounds the front matter block.
const maxMetadataSize = 64 << 10

var (
	errNoMetadataStart = errors.New("metadata start not found")
	errNoMetadataEnd   = errors.New("metadata end not found")
	errMetadataTooBig  = errors.New("metadata block too large")
)

// Article is a parsed article file.
type Article struct {
	Title      string
	Permission authz.ArticlePermission
	Markdown   string

	// MetadataErr is set when the metadata block or one of its access
	// fields could not be parsed. Permission then holds restrictive
	// fallbacks.
	MetadataErr error
}

// frontMatter mirrors the TOML block. Access fields stay untyped so that
// each can fall back on its own.
type frontMatter struct {
	Title      string `toml:"title"`
	ViewAccess any    `toml:"view_access"`
	EditAccess any    `toml:"edit_access"`
}

// Parse reads an article. It only fails on read errors; malformed metadata
// is reported through Article.MetadataErr.
func Parse(r io.Reader) (*Article, error) {
	br := bufio.NewReader(r)

	meta, err := readFrontMatter(br)
	if err != nil {
		if errors.Is(err, errNoMetadataStart) || errors.Is(err, errNoMetadataEnd) || errors.Is(err, errMetadataTooBig) {
			// Without a usable block the whole file is content.
			return restrictive(meta, err), nil
		}
		return nil, err
	}

	rest, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("read article body: %w", err)
	}

	var fm frontMatter
	if err := toml.Unmarshal(meta, &fm); err != nil {
		a := restrictive(nil, fmt.Errorf("parse metadata: %w", err))
		a.Markdown = string(rest)
		return a, nil
	}

	a := &Article{Title: fm.Title, Markdown: string(rest)}
	view, viewErr := accessField(fm.ViewAccess)
	edit, editErr := accessField(fm.EditAccess)
	if viewErr != nil {
		a.MetadataErr = fmt.Errorf("view_access: %w", viewErr)
	} else if editErr != nil {
		a.MetadataErr = fmt.Errorf("edit_access: %w", editErr)
	}
	a.Permission = authz.ArticlePermission{View: view, Edit: edit}
	return a, nil
}

// accessField parses one access field. An absent field is Authenticated
// without an error; an invalid one is Authenticated with the parse error.
func accessField(v any) (authz.AccessLevel, error) {
	if v == nil {
		return authz.AuthenticatedLevel(), nil
	}
	lvl, err := authz.ParseAccessLevel(v)
	if err != nil {
		return authz.AuthenticatedLevel(), err
	}
	return lvl, nil
}

// restrictive builds an article whose metadata could not be used; raw is
// whatever was consumed before the failure and becomes content.
func restrictive(raw []byte, cause error) *Article {
	return &Article{
		Permission: authz.ArticlePermission{
			View: authz.AuthenticatedLevel(),
			Edit: authz.AuthenticatedLevel(),
		},
		Markdown:    string(raw),
		MetadataErr: cause,
	}
}

// readFrontMatter consumes the fenced block and returns its TOML. On a
// format error it returns everything consumed so far.
func readFrontMatter(br *bufio.Reader) ([]byte, error) {
	var consumed bytes.Buffer

	first, err := br.ReadString('\n')
	consumed.WriteString(first)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if strings.TrimRight(first, "\r\n") != separator || !strings.HasSuffix(first, "\n") {
		rest, rerr := io.ReadAll(br)
		if rerr != nil {
			return nil, rerr
		}
		consumed.Write(rest)
		return consumed.Bytes(), errNoMetadataStart
	}

	var meta bytes.Buffer
	for {
		line, err := br.ReadString('\n')
		consumed.WriteString(line)
		if strings.TrimRight(line, "\r\n") == separator && strings.HasSuffix(line, "\n") {
			return meta.Bytes(), nil
		}
		meta.WriteString(line)
		if meta.Len() > maxMetadataSize {
			rest, rerr := io.ReadAll(br)
			if rerr != nil {
				return nil, rerr
			}
			consumed.Write(rest)
			return consumed.Bytes(), errMetadataTooBig
		}
		if err == io.EOF {
			return consumed.Bytes(), errNoMetadataEnd
		}
		if err != nil {
			return nil, err
		}
	}
}

// Encode writes a in the on-disk format.
func (a *Article) Encode(w io.Writer) error {
	fm := frontMatter{
		Title:      a.Title,
		ViewAccess: a.Permission.View.TOMLValue(),
		EditAccess: a.Permission.Edit.TOMLValue(),
	}
	meta, err := toml.Marshal(fm)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(separator + "\n")
	bw.Write(meta)
	bw.WriteString(separator + "\n")
	bw.WriteString(a.Markdown)
	return bw.Flush()
}
