package launch

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	nodeNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	namespaceToken  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// ValidateNodeName checks a node base name.
func ValidateNodeName(name string) error {
	if !nodeNamePattern.MatchString(name) {
		return fmt.Errorf("%w: node name %q", ErrInvalidName, name)
	}
	return nil
}

// ValidateNamespace checks a namespace. The empty namespace and "/" are valid.
func ValidateNamespace(ns string) error {
	if ns == "" || ns == "/" {
		return nil
	}
	trimmed := strings.TrimPrefix(ns, "/")
	for _, token := range strings.Split(trimmed, "/") {
		if !namespaceToken.MatchString(token) {
			return fmt.Errorf("%w: namespace %q", ErrInvalidName, ns)
		}
	}
	return nil
}

// NormalizeNamespace makes a namespace absolute. The empty namespace stays empty.
func NormalizeNamespace(ns string) string {
	if ns == "" || strings.HasPrefix(ns, "/") {
		return ns
	}
	return "/" + ns
}
