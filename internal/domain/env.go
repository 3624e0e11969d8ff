package domain

import (
	"sort"
	"strings"
)

// Environ is an explicit environment for subprocess invocations. The scan
// pipeline never mutates the ambient process environment; toolchain overrides
// are applied to a copy and handed to each command.
type Environ map[string]string

// NewEnviron builds an Environ from "key=value" pairs, typically os.Environ().
// Later duplicates win, matching how the OS resolves them.
func NewEnviron(pairs []string) Environ {
	env := make(Environ, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		env[key] = value
	}

	return env
}

// Get returns the value for key, empty when unset.
func (e Environ) Get(key string) string {
	return e[key]
}

// IsSet reports whether key is present, even with an empty value.
func (e Environ) IsSet(key string) bool {
	_, ok := e[key]
	return ok
}

// Set overrides key with value.
func (e Environ) Set(key, value string) {
	e[key] = value
}

// Prepend puts value in front of the existing entry for key, separated by sep.
// An unset or empty key becomes just value.
func (e Environ) Prepend(key, value, sep string) {
	current := e[key]
	if current == "" {
		e[key] = value
		return
	}

	e[key] = value + sep + current
}

// Slice renders the environment in the "key=value" form exec.Cmd expects,
// sorted by key for stable logs and tests.
func (e Environ) Slice() []string {
	keys := make([]string, 0, len(e))
	for key := range e {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+e[key])
	}

	return pairs
}
