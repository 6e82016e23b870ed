// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

/*
Package cache provides a thread-safe, bounded LRU map.

The article store uses it to keep parsed front matter keyed by file path,
so that listing the tree does not re-read every article on each request.
Entries carry no TTL: callers store a validator (modification time and
size) alongside the value and treat a mismatch as a miss.

# Usage

	c := cache.NewLRU[string, meta](1024)
	c.Add(path, m)
	if m, ok := c.Get(path); ok && m.modTime.Equal(info.ModTime()) {
	    // fresh
	}
	c.Remove(path)

Get, Add and Remove are O(1). Eviction drops the least recently used entry
once the capacity is exceeded.
*/
package cache
