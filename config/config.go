// Package config implements the engine's configuration surface: an
// in-memory, dotted-key store that is mutable at runtime, with changes
// taking effect on the next request. Invalid enum values are reported as
// warnings and fall back to defaults rather than failing the read.
package config

import (
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store is a concurrency-safe dotted-key configuration store.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

// New constructs an empty Store.
func New() *Store {
	return &Store{values: make(map[string]string)}
}

// LoadYAML seeds the store from a flattened YAML document: nested maps
// become dotted keys ("agent.phase_scope"), scalar values are stored as
// their string form. Existing keys are overwritten.
func (s *Store) LoadYAML(data []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	flatten("", doc, s.values)
	return nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch vv := v.(type) {
		case map[string]any:
			flatten(key, vv, out)
		default:
			out[key] = toScalarString(vv)
		}
	}
}

func toScalarString(v any) string {
	switch vv := v.(type) {
	case string:
		return vv
	case bool:
		return strconv.FormatBool(vv)
	case int:
		return strconv.Itoa(vv)
	default:
		b, err := yaml.Marshal(vv)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Set assigns value to key, overwriting any prior value.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Get returns key's value and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// GetOr returns key's value, or def if key is unset.
func (s *Store) GetOr(key, def string) string {
	if v, ok := s.Get(key); ok {
		return v
	}
	return def
}

// GetIntOr returns key's value parsed as an int, or def if key is unset
// or not a valid integer.
func (s *Store) GetIntOr(key string, def int) int {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// GetBoolOr returns key's value parsed as a bool, or def if key is unset
// or not a valid boolean.
func (s *Store) GetBoolOr(key string, def bool) bool {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// EnumOr validates value against allowed; if value is empty or not a
// member of allowed, it returns def and ok=false so the caller can surface
// a warning, per the configuration surface's "invalid enums warn and fall
// back to defaults" contract.
func EnumOr(value string, allowed []string, def string) (result string, ok bool) {
	if value == "" {
		return def, false
	}
	for _, a := range allowed {
		if a == value {
			return value, true
		}
	}
	return def, false
}
