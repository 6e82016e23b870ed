// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

package cache

import (
	"strconv"
	"sync"
	"testing"
)

func TestLRUBasicOperations(t *testing.T) {
	c := NewLRU[string, int](3)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("a", 10)

	if v, ok := c.Get("a"); !ok || v != 10 {
		t.Errorf("Get(a) = %d, %v; want 10, true", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) found a value")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
	if !c.Remove("b") || c.Remove("b") {
		t.Error("Remove should report presence exactly once")
	}

	hits, misses, size := c.Stats()
	if hits != 1 || misses != 1 || size != 1 {
		t.Errorf("Stats = %d, %d, %d; want 1, 1, 1", hits, misses, size)
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRU[string, int](3)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)
	c.Get("a") // b is now least recently used
	c.Add("d", 4)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c", "d"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s should be present", k)
		}
	}
}

func TestLRUClear(t *testing.T) {
	c := NewLRU[int, string](0)
	for i := 0; i < 10; i++ {
		c.Add(i, strconv.Itoa(i))
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
	c.Add(1, "one")
	if v, ok := c.Get(1); !ok || v != "one" {
		t.Error("cache unusable after Clear")
	}
}

func TestLRUConcurrentAccess(t *testing.T) {
	c := NewLRU[int, int](64)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				k := (g*500 + i) % 128
				c.Add(k, i)
				c.Get(k)
				if i%7 == 0 {
					c.Remove(k)
				}
			}
		}(g)
	}
	wg.Wait()
	if c.Len() > 64 {
		t.Errorf("Len = %d exceeds capacity", c.Len())
	}
}
