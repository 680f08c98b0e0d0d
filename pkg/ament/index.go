package ament

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrPackageNotFound is returned when a package is not registered in any prefix.
var ErrPackageNotFound = errors.New("package not found")

// ErrExecutableNotFound is returned when a package exists but does not ship the requested executable.
var ErrExecutableNotFound = errors.New("executable not found")

// PackageNotFoundError carries the name of the missing package.
// It matches ErrPackageNotFound via errors.Is.
type PackageNotFoundError struct {
	Name     string
	Prefixes []string
}

func (e *PackageNotFoundError) Error() string {
	if len(e.Prefixes) == 0 {
		return fmt.Sprintf("package %q not found: no prefixes configured", e.Name)
	}
	return fmt.Sprintf("package %q not found in %s", e.Name, strings.Join(e.Prefixes, string(os.PathListSeparator)))
}

func (e *PackageNotFoundError) Is(target error) bool {
	return target == ErrPackageNotFound
}

// Index resolves package names to installation paths.
type Index interface {
	// Prefix returns the install prefix that registers the package.
	Prefix(pkg string) (string, error)
	// ShareDirectory returns <prefix>/share/<pkg>.
	ShareDirectory(pkg string) (string, error)
	// Executable returns the absolute path of an executable shipped by the package.
	Executable(pkg, exe string) (string, error)
}

// resourceMarker is the relative path of the package marker inside a prefix.
const resourceMarker = "share/ament_index/resource_index/packages"

// PrefixIndex looks packages up in an ordered list of install prefixes.
// The first prefix that registers a package wins, as with AMENT_PREFIX_PATH.
type PrefixIndex struct {
	prefixes []string
}

// NewPrefixIndex creates an index over the given prefixes. Empty entries are skipped.
func NewPrefixIndex(prefixes ...string) *PrefixIndex {
	clean := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		clean = append(clean, filepath.Clean(p))
	}
	return &PrefixIndex{prefixes: clean}
}

// FromPathList parses a list in AMENT_PREFIX_PATH format.
func FromPathList(list string) *PrefixIndex {
	return NewPrefixIndex(filepath.SplitList(list)...)
}

// FromEnvironment builds an index from the AMENT_PREFIX_PATH variable.
func FromEnvironment() *PrefixIndex {
	return FromPathList(os.Getenv("AMENT_PREFIX_PATH"))
}

// Prefixes returns a copy of the configured prefixes in lookup order.
func (idx *PrefixIndex) Prefixes() []string {
	out := make([]string, len(idx.prefixes))
	copy(out, idx.prefixes)
	return out
}

func (idx *PrefixIndex) Prefix(pkg string) (string, error) {
	if pkg == "" {
		return "", &PackageNotFoundError{Name: pkg, Prefixes: idx.Prefixes()}
	}
	for _, prefix := range idx.prefixes {
		marker := filepath.Join(prefix, resourceMarker, pkg)
		if info, err := os.Stat(marker); err == nil && !info.IsDir() {
			return prefix, nil
		}
	}
	return "", &PackageNotFoundError{Name: pkg, Prefixes: idx.Prefixes()}
}

func (idx *PrefixIndex) ShareDirectory(pkg string) (string, error) {
	prefix, err := idx.Prefix(pkg)
	if err != nil {
		return "", err
	}
	return filepath.Join(prefix, "share", pkg), nil
}

func (idx *PrefixIndex) Executable(pkg, exe string) (string, error) {
	prefix, err := idx.Prefix(pkg)
	if err != nil {
		return "", err
	}
	path := filepath.Join(prefix, "lib", pkg, exe)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		return "", fmt.Errorf("%w: %s in package %q", ErrExecutableNotFound, exe, pkg)
	}
	return path, nil
}

// Register creates the marker file, share directory and lib directory for pkg
// under prefix. It is the layout the build tool produces on install and is
// mostly useful to seed workspaces in tests.
func Register(prefix, pkg string) error {
	dirs := []string{
		filepath.Join(prefix, resourceMarker),
		filepath.Join(prefix, "share", pkg),
		filepath.Join(prefix, "lib", pkg),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(filepath.Join(prefix, resourceMarker, pkg), nil, 0o644); err != nil {
		return fmt.Errorf("failed to write package marker: %w", err)
	}
	return nil
}
