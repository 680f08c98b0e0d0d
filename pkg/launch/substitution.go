package launch

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Substitution is a deferred string value. It is declared when the
// description is built and performed when the description is resolved.
type Substitution interface {
	Perform(ctx *Context) (string, error)
	String() string
}

// Text is a literal value.
type Text string

func (t Text) Perform(*Context) (string, error) { return string(t), nil }
func (t Text) String() string                   { return string(t) }

// LaunchConfiguration reads a launch configuration by name.
type LaunchConfiguration struct {
	Name string
}

func (l LaunchConfiguration) Perform(ctx *Context) (string, error) {
	v, ok := ctx.Configuration(l.Name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownConfiguration, l.Name)
	}
	return v, nil
}

func (l LaunchConfiguration) String() string { return "$(var " + l.Name + ")" }

// FindPackageShare resolves to the share directory of a package.
type FindPackageShare struct {
	Package Substitution
}

func (f FindPackageShare) Perform(ctx *Context) (string, error) {
	if ctx.Index() == nil {
		return "", ErrNoIndex
	}
	pkg, err := f.Package.Perform(ctx)
	if err != nil {
		return "", err
	}
	return ctx.Index().ShareDirectory(pkg)
}

func (f FindPackageShare) String() string { return "$(find-pkg-share " + f.Package.String() + ")" }

// EnvironmentVariable reads an environment variable. A nil Default makes the variable required.
type EnvironmentVariable struct {
	Name    string
	Default Substitution
}

func (e EnvironmentVariable) Perform(ctx *Context) (string, error) {
	if v, ok := ctx.lookupEnv(e.Name); ok {
		return v, nil
	}
	if e.Default != nil {
		return e.Default.Perform(ctx)
	}
	return "", fmt.Errorf("%w: %s", ErrEnvironmentNotSet, e.Name)
}

func (e EnvironmentVariable) String() string {
	if e.Default != nil {
		return "$(env " + e.Name + " " + e.Default.String() + ")"
	}
	return "$(env " + e.Name + ")"
}

// ThisLaunchFileDir resolves to the directory of the launch source being resolved.
type ThisLaunchFileDir struct{}

func (ThisLaunchFileDir) Perform(ctx *Context) (string, error) {
	if ctx.Location() == "" {
		return "", ErrNoLaunchFile
	}
	return filepath.Dir(ctx.Location()), nil
}

func (ThisLaunchFileDir) String() string { return "$(dirname)" }

// Concat joins the performed parts with no separator.
type Concat []Substitution

func (c Concat) Perform(ctx *Context) (string, error) {
	var sb strings.Builder
	for _, part := range c {
		v, err := part.Perform(ctx)
		if err != nil {
			return "", err
		}
		sb.WriteString(v)
	}
	return sb.String(), nil
}

func (c Concat) String() string {
	var sb strings.Builder
	for _, part := range c {
		sb.WriteString(part.String())
	}
	return sb.String()
}

// PathJoin joins the performed parts with the OS path separator.
type PathJoin []Substitution

func (p PathJoin) Perform(ctx *Context) (string, error) {
	parts := make([]string, 0, len(p))
	for _, part := range p {
		v, err := part.Perform(ctx)
		if err != nil {
			return "", err
		}
		parts = append(parts, v)
	}
	return filepath.Join(parts...), nil
}

func (p PathJoin) String() string {
	parts := make([]string, 0, len(p))
	for _, part := range p {
		parts = append(parts, part.String())
	}
	return strings.Join(parts, "/")
}

// perform evaluates an optional substitution, returning fallback when it is nil.
func perform(ctx *Context, s Substitution, fallback string) (string, error) {
	if s == nil {
		return fallback, nil
	}
	return s.Perform(ctx)
}
