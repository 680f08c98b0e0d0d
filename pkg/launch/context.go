package launch

import (
	"os"
	"sort"

	"github.com/aretw0/planlaunch/pkg/ament"
)

// Context holds everything substitutions are evaluated against: launch
// configurations, the package index, the environment and the location of the
// launch source being resolved.
//
// A Context is not safe for concurrent use. Includes get a child Context so
// their configurations never leak back to the parent.
type Context struct {
	configurations map[string]string
	index          ament.Index
	lookupEnv      func(string) (string, bool)
	location       string
	stack          []string
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithConfigurations seeds launch configurations, typically the arguments given on the command line.
func WithConfigurations(values map[string]string) ContextOption {
	return func(c *Context) {
		for k, v := range values {
			c.configurations[k] = v
		}
	}
}

// WithEnvironment replaces the environment lookup (default: os.LookupEnv).
func WithEnvironment(lookup func(string) (string, bool)) ContextOption {
	return func(c *Context) {
		c.lookupEnv = lookup
	}
}

// WithLocation sets the location of the root launch source.
func WithLocation(location string) ContextOption {
	return func(c *Context) {
		c.location = location
	}
}

// NewContext creates a root Context. index may be nil when no package lookups are needed.
func NewContext(index ament.Index, opts ...ContextOption) *Context {
	c := &Context{
		configurations: make(map[string]string),
		index:          index,
		lookupEnv:      os.LookupEnv,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configuration returns the value of a launch configuration.
func (c *Context) Configuration(name string) (string, bool) {
	v, ok := c.configurations[name]
	return v, ok
}

// SetConfiguration sets a launch configuration in this scope.
func (c *Context) SetConfiguration(name, value string) {
	c.configurations[name] = value
}

// Configurations returns a sorted snapshot of the configuration names.
func (c *Context) Configurations() []string {
	names := make([]string, 0, len(c.configurations))
	for name := range c.configurations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Index returns the package index, which may be nil.
func (c *Context) Index() ament.Index {
	return c.index
}

// Location returns the location of the launch source currently being resolved.
func (c *Context) Location() string {
	return c.location
}

// Depth is the number of includes between the root and this scope.
func (c *Context) Depth() int {
	return len(c.stack)
}

func (c *Context) including(location string) bool {
	if location == c.location && location != "" {
		return true
	}
	for _, l := range c.stack {
		if l == location {
			return true
		}
	}
	return false
}

// child opens a new scope for an included source.
func (c *Context) child(location string) *Context {
	configs := make(map[string]string, len(c.configurations))
	for k, v := range c.configurations {
		configs[k] = v
	}
	stack := make([]string, len(c.stack), len(c.stack)+1)
	copy(stack, c.stack)
	return &Context{
		configurations: configs,
		index:          c.index,
		lookupEnv:      c.lookupEnv,
		location:       location,
		stack:          append(stack, c.location),
	}
}
