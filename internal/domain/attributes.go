package domain

import (
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// AttributeStore is a multimap of human-readable certificate attributes.
// Keys keep their values in insertion order.
type AttributeStore struct {
	values map[string][]string
}

// NewAttributeStore creates an empty store.
func NewAttributeStore() *AttributeStore {
	return &AttributeStore{values: make(map[string][]string)}
}

// Add appends value under key.
func (s *AttributeStore) Add(key, value string) {
	if s.values == nil {
		s.values = make(map[string][]string)
	}
	s.values[key] = append(s.values[key], value)
}

// AddUint stores a decimal integer.
func (s *AttributeStore) AddUint(key string, v uint64) {
	s.Add(key, strconv.FormatUint(v, 10))
}

// AddBool stores "true" or "false".
func (s *AttributeStore) AddBool(key string, v bool) {
	s.Add(key, strconv.FormatBool(v))
}

// AddBytes stores an upper-case hex string.
func (s *AttributeStore) AddBytes(key string, v []byte) {
	s.Add(key, strings.ToUpper(hex.EncodeToString(v)))
}

// AddAll appends every value under key.
func (s *AttributeStore) AddAll(key string, values []string) {
	for _, v := range values {
		s.Add(key, v)
	}
}

// Get returns all values stored under key.
func (s *AttributeStore) Get(key string) []string {
	return append([]string(nil), s.values[key]...)
}

// First returns the first value stored under key, or "".
func (s *AttributeStore) First(key string) string {
	if v := s.values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// Has reports whether key has at least one value.
func (s *AttributeStore) Has(key string) bool {
	return len(s.values[key]) > 0
}

// Keys returns all keys in sorted order.
func (s *AttributeStore) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of distinct keys.
func (s *AttributeStore) Len() int {
	return len(s.values)
}

// Clone returns an independent copy of the store.
func (s *AttributeStore) Clone() *AttributeStore {
	out := NewAttributeStore()
	for k, v := range s.values {
		out.values[k] = append([]string(nil), v...)
	}
	return out
}
