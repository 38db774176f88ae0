package cache

import (
	"container/list"
	"sync"
)

type entry[K comparable, V any] struct {
	key   K
	value V
}

// LRU is a fixed-capacity cache that evicts the least recently used key.
// It is safe for concurrent use.
type LRU[K comparable, V any] struct {
	capacity int
	lruList  *list.List
	items    map[K]*list.Element
	mu       sync.Mutex

	hits   uint64
	misses uint64
}

// NewLRU returns a cache holding at most capacity entries. A capacity <= 0
// disables caching: Add is a no-op and Get always misses.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	return &LRU[K, V]{
		capacity: capacity,
		lruList:  list.New(),
		items:    make(map[K]*list.Element),
	}
}

func (l *LRU[K, V]) Get(key K) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if elem, ok := l.items[key]; ok {
		l.hits++
		l.lruList.MoveToFront(elem)
		return elem.Value.(*entry[K, V]).value, true
	}
	l.misses++
	var zero V
	return zero, false
}

// Add inserts or refreshes key. It reports whether an older entry was evicted.
func (l *LRU[K, V]) Add(key K, value V) bool {
	if l.capacity <= 0 {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if elem, ok := l.items[key]; ok {
		elem.Value.(*entry[K, V]).value = value
		l.lruList.MoveToFront(elem)
		return false
	}

	l.items[key] = l.lruList.PushFront(&entry[K, V]{key: key, value: value})
	if l.lruList.Len() <= l.capacity {
		return false
	}

	back := l.lruList.Back()
	l.lruList.Remove(back)
	delete(l.items, back.Value.(*entry[K, V]).key)
	return true
}

func (l *LRU[K, V]) Remove(key K) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if elem, ok := l.items[key]; ok {
		l.lruList.Remove(elem)
		delete(l.items, key)
	}
}

// Purge drops every entry and resets the counters.
func (l *LRU[K, V]) Purge() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lruList.Init()
	l.items = make(map[K]*list.Element)
	l.hits, l.misses = 0, 0
}

func (l *LRU[K, V]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lruList.Len()
}

// Stats returns the hit and miss counts since creation or the last Purge.
func (l *LRU[K, V]) Stats() (hits, misses uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hits, l.misses
}
