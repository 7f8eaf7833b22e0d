// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cache provides the small in-process caches used by the state layer.
package cache

import lru "github.com/hashicorp/golang-lru"

// LRU is a typed, size-bounded LRU cache built on golang-lru.
// It's safe for concurrent use.
type LRU[K comparable, V any] struct {
	c *lru.Cache
}

// NewLRU creates a LRU cache instance.
// maxSize should be > 0, or an error returned.
func NewLRU[K comparable, V any](maxSize int) (*LRU[K, V], error) {
	c, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{c}, nil
}

// Get looks up the value of key, and marks it as recently used.
func (l *LRU[K, V]) Get(key K) (V, bool) {
	if v, ok := l.c.Get(key); ok {
		return v.(V), true
	}
	var zero V
	return zero, false
}

// Add adds the value, evicting the least recently used entry if full.
func (l *LRU[K, V]) Add(key K, val V) {
	l.c.Add(key, val)
}

// Remove removes the key.
func (l *LRU[K, V]) Remove(key K) {
	l.c.Remove(key)
}

// Len returns the number of cached entries.
func (l *LRU[K, V]) Len() int {
	return l.c.Len()
}

// Loader loads the value of key on cache miss.
type Loader[K comparable, V any] func(key K) (V, error)

// GetOrLoad first try to get from cache, do load if missed.
// Values failed to load are not cached.
func (l *LRU[K, V]) GetOrLoad(key K, load Loader[K, V]) (V, error) {
	if v, ok := l.Get(key); ok {
		return v, nil
	}
	v, err := load(key)
	if err != nil {
		var zero V
		return zero, err
	}
	l.Add(key, v)
	return v, nil
}
