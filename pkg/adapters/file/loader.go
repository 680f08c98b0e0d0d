package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/planlaunch/pkg/launch"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedSource is returned for locations that are not YAML launch files
// or for entries the format does not define.
var ErrUnsupportedSource = errors.New("unsupported launch source")

// document is the top level of a YAML launch file.
type document struct {
	Launch []map[string]any `yaml:"launch"`
}

type argEntry struct {
	Name        string   `mapstructure:"name"`
	Default     any      `mapstructure:"default"`
	Description string   `mapstructure:"description"`
	Choices     []string `mapstructure:"choices"`
}

type letEntry struct {
	Name  string `mapstructure:"name"`
	Value any    `mapstructure:"value"`
}

type namedValue struct {
	Name  string `mapstructure:"name"`
	Value any    `mapstructure:"value"`
}

type includeEntry struct {
	File string       `mapstructure:"file"`
	Args []namedValue `mapstructure:"arg"`
}

type nodeEntry struct {
	Package    string       `mapstructure:"pkg"`
	Executable string       `mapstructure:"exec"`
	Name       string       `mapstructure:"name"`
	Namespace  string       `mapstructure:"namespace"`
	Output     string       `mapstructure:"output"`
	Params     []namedValue `mapstructure:"param"`
	Args       any          `mapstructure:"args"`
}

// Loader implements ports.SourceLoader for YAML launch files on disk.
type Loader struct{}

// NewLoader creates a YAML file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses the launch file at location.
func (l *Loader) Load(ctx context.Context, location string) (*launch.Description, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(location))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("%w: %s (expected .yaml or .yml)", ErrUnsupportedSource, location)
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to read launch file: %w", err)
	}
	desc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", location, err)
	}
	return desc, nil
}

// Parse decodes a YAML launch document.
func Parse(data []byte) (*launch.Description, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	desc := launch.NewDescription()
	for i, entry := range doc.Launch {
		if len(entry) != 1 {
			return nil, fmt.Errorf("entry %d: expected exactly one key, got %d", i, len(entry))
		}
		for kind, body := range entry {
			action, err := decodeEntry(kind, body)
			if err != nil {
				return nil, fmt.Errorf("entry %d (%s): %w", i, kind, err)
			}
			desc.Add(action)
		}
	}
	return desc, nil
}

func decodeEntry(kind string, body any) (launch.Action, error) {
	switch launch.ActionKind(kind) {
	case launch.KindDeclareArgument:
		var e argEntry
		if err := decode(body, &e); err != nil {
			return nil, err
		}
		decl := launch.DeclareArgument{Name: e.Name, Description: e.Description, Choices: e.Choices}
		if e.Default != nil {
			def, err := launch.ParseSubstitution(scalar(e.Default))
			if err != nil {
				return nil, err
			}
			decl.Default = def
		}
		return decl, nil

	case launch.KindSetConfiguration:
		var e letEntry
		if err := decode(body, &e); err != nil {
			return nil, err
		}
		value, err := launch.ParseSubstitution(scalar(e.Value))
		if err != nil {
			return nil, err
		}
		return launch.SetConfiguration{Name: e.Name, Value: value}, nil

	case launch.KindInclude:
		var e includeEntry
		if err := decode(body, &e); err != nil {
			return nil, err
		}
		source, err := launch.ParseSubstitution(e.File)
		if err != nil {
			return nil, err
		}
		inc := launch.IncludeDescription{Source: source}
		for _, a := range e.Args {
			value, err := launch.ParseSubstitution(scalar(a.Value))
			if err != nil {
				return nil, err
			}
			inc.Arguments = append(inc.Arguments, launch.Argument{Name: a.Name, Value: value})
		}
		return inc, nil

	case launch.KindNode:
		var e nodeEntry
		if err := decode(body, &e); err != nil {
			return nil, err
		}
		return buildNode(e)
	}

	return nil, fmt.Errorf("%w: entry kind %q", ErrUnsupportedSource, kind)
}

func buildNode(e nodeEntry) (launch.Action, error) {
	node := launch.Node{Output: launch.OutputMode(e.Output)}

	fields := []struct {
		raw      string
		target   *launch.Substitution
		optional bool
	}{
		{e.Package, &node.Package, false},
		{e.Executable, &node.Executable, false},
		{e.Name, &node.Name, true},
		{e.Namespace, &node.Namespace, true},
	}
	for _, f := range fields {
		if f.raw == "" && f.optional {
			continue
		}
		sub, err := launch.ParseSubstitution(f.raw)
		if err != nil {
			return nil, err
		}
		*f.target = sub
	}

	for _, p := range e.Params {
		value, err := launch.ParseSubstitution(scalar(p.Value))
		if err != nil {
			return nil, err
		}
		node.Parameters = append(node.Parameters, launch.Parameter{Name: p.Name, Value: value})
	}

	args, err := argList(e.Args)
	if err != nil {
		return nil, err
	}
	for _, a := range args {
		sub, err := launch.ParseSubstitution(a)
		if err != nil {
			return nil, err
		}
		node.Arguments = append(node.Arguments, sub)
	}
	return node, nil
}

func decode(body any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(body)
}

// scalar renders a YAML scalar the way it reads in the file.
func scalar(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func argList(v any) ([]string, error) {
	switch a := v.(type) {
	case nil:
		return nil, nil
	case string:
		return strings.Fields(a), nil
	case []any:
		out := make([]string, 0, len(a))
		for _, item := range a {
			out = append(out, scalar(item))
		}
		return out, nil
	}
	return nil, fmt.Errorf("args must be a string or a list, got %T", v)
}
