package category

import "sort"

// Index maps canonical category keys to values. Raw labels are decoded once
// on the way in, so callers may look up with either the encoded or the
// decoded form.
type Index[T any] struct {
	entries map[string]T
}

// NewIndex creates an empty index.
func NewIndex[T any]() *Index[T] {
	return &Index[T]{entries: make(map[string]T)}
}

// Put stores v under the canonical key of raw and returns that key.
func (ix *Index[T]) Put(raw string, v T) string {
	k := Key(raw)
	ix.entries[k] = v
	return k
}

// Upsert merges v into the value stored under the canonical key of raw.
func (ix *Index[T]) Upsert(raw string, merge func(existing T, found bool) T) string {
	k := Key(raw)
	existing, found := ix.entries[k]
	ix.entries[k] = merge(existing, found)
	return k
}

// Get looks up raw by its canonical key.
func (ix *Index[T]) Get(raw string) (T, bool) {
	v, ok := ix.entries[Key(raw)]
	return v, ok
}

// Has reports whether raw has an entry.
func (ix *Index[T]) Has(raw string) bool {
	_, ok := ix.entries[Key(raw)]
	return ok
}

// Len returns the number of canonical keys.
func (ix *Index[T]) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}

// Keys returns canonical keys in sorted order.
func (ix *Index[T]) Keys() []string {
	if ix == nil {
		return nil
	}
	keys := make([]string, 0, len(ix.entries))
	for k := range ix.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Each calls fn for every entry in key order.
func (ix *Index[T]) Each(fn func(key string, v T)) {
	for _, k := range ix.Keys() {
		fn(k, ix.entries[k])
	}
}
