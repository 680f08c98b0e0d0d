package ament

import (
	"fmt"
	"path"
	"sort"
)

// MemoryIndex is an in-memory Index keyed by package name.
// Paths are synthesized as <prefix>/share/<pkg> and <prefix>/lib/<pkg>/<exe>
// without touching the filesystem.
type MemoryIndex struct {
	prefixes    map[string]string
	executables map[string]map[string]bool
}

// NewMemoryIndex creates an empty index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		prefixes:    make(map[string]string),
		executables: make(map[string]map[string]bool),
	}
}

// Add registers pkg under prefix along with the executables it ships.
func (m *MemoryIndex) Add(prefix, pkg string, executables ...string) *MemoryIndex {
	m.prefixes[pkg] = prefix
	if m.executables[pkg] == nil {
		m.executables[pkg] = make(map[string]bool)
	}
	for _, exe := range executables {
		m.executables[pkg][exe] = true
	}
	return m
}

// Packages lists registered package names in lexical order.
func (m *MemoryIndex) Packages() []string {
	names := make([]string, 0, len(m.prefixes))
	for name := range m.prefixes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *MemoryIndex) Prefix(pkg string) (string, error) {
	prefix, ok := m.prefixes[pkg]
	if !ok {
		return "", &PackageNotFoundError{Name: pkg, Prefixes: []string{"memory"}}
	}
	return prefix, nil
}

func (m *MemoryIndex) ShareDirectory(pkg string) (string, error) {
	prefix, err := m.Prefix(pkg)
	if err != nil {
		return "", err
	}
	return path.Join(prefix, "share", pkg), nil
}

func (m *MemoryIndex) Executable(pkg, exe string) (string, error) {
	prefix, err := m.Prefix(pkg)
	if err != nil {
		return "", err
	}
	if !m.executables[pkg][exe] {
		return "", fmt.Errorf("%w: %s in package %q", ErrExecutableNotFound, exe, pkg)
	}
	return path.Join(prefix, "lib", pkg, exe), nil
}
