package launch

import (
	"context"
	"fmt"
	"slices"
)

// MaxIncludeDepth bounds the include chain.
const MaxIncludeDepth = 32

// Loader loads the description stored at a location.
type Loader interface {
	Load(ctx context.Context, location string) (*Description, error)
}

// Resolve performs every substitution in desc against lc and expands includes
// through loader. The returned plan lists processes in emission order, with
// included processes at the position of their include.
//
// lc is mutated: argument declarations and SetConfiguration actions set
// configurations in it. loader may be nil if desc contains no includes.
func Resolve(ctx context.Context, desc *Description, lc *Context, loader Loader) (*Plan, error) {
	plan := &Plan{}
	r := &resolver{loader: loader, plan: plan}
	if err := r.resolve(ctx, desc, lc); err != nil {
		return nil, err
	}
	return plan, nil
}

type resolver struct {
	loader Loader
	plan   *Plan
}

func (r *resolver) resolve(ctx context.Context, desc *Description, lc *Context) error {
	for i, action := range desc.Actions() {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		switch a := action.(type) {
		case DeclareArgument:
			err = r.declare(a, lc)
		case SetConfiguration:
			err = r.set(a, lc)
		case IncludeDescription:
			err = r.include(ctx, a, lc)
		case Node:
			err = r.node(a, lc)
		default:
			err = fmt.Errorf("unsupported action %T", action)
		}
		if err != nil {
			if lc.Location() != "" {
				return fmt.Errorf("%s: action %d (%s): %w", lc.Location(), i, action.Kind(), err)
			}
			return fmt.Errorf("action %d (%s): %w", i, action.Kind(), err)
		}
	}
	return nil
}

func (r *resolver) declare(a DeclareArgument, lc *Context) error {
	if a.Name == "" {
		return fmt.Errorf("%w: empty argument name", ErrInvalidName)
	}
	value, supplied := lc.Configuration(a.Name)
	defaulted := false
	if !supplied {
		if a.Default == nil {
			return fmt.Errorf("%w: %s", ErrArgumentRequired, a.Name)
		}
		v, err := a.Default.Perform(lc)
		if err != nil {
			return fmt.Errorf("default of %s: %w", a.Name, err)
		}
		value, defaulted = v, true
		lc.SetConfiguration(a.Name, value)
	}
	if len(a.Choices) > 0 && !slices.Contains(a.Choices, value) {
		return fmt.Errorf("%w: %s=%q, expected one of %v", ErrInvalidChoice, a.Name, value, a.Choices)
	}
	r.plan.Arguments = append(r.plan.Arguments, ArgumentValue{
		Name:        a.Name,
		Value:       value,
		Description: a.Description,
		Defaulted:   defaulted,
		Source:      lc.Location(),
	})
	return nil
}

func (r *resolver) set(a SetConfiguration, lc *Context) error {
	if a.Name == "" {
		return fmt.Errorf("%w: empty configuration name", ErrInvalidName)
	}
	v, err := perform(lc, a.Value, "")
	if err != nil {
		return err
	}
	lc.SetConfiguration(a.Name, v)
	return nil
}

func (r *resolver) include(ctx context.Context, a IncludeDescription, lc *Context) error {
	if a.Source == nil {
		return fmt.Errorf("include without source")
	}
	location, err := a.Source.Perform(lc)
	if err != nil {
		return fmt.Errorf("include source: %w", err)
	}

	forwarded := make([]NamedValue, 0, len(a.Arguments))
	for _, arg := range a.Arguments {
		v, err := perform(lc, arg.Value, "")
		if err != nil {
			return fmt.Errorf("include argument %s: %w", arg.Name, err)
		}
		forwarded = append(forwarded, NamedValue{Name: arg.Name, Value: v})
	}

	if lc.including(location) {
		return fmt.Errorf("%w: %s", ErrIncludeCycle, location)
	}
	if lc.Depth() >= MaxIncludeDepth {
		return fmt.Errorf("%w: depth %d exceeded at %s", ErrIncludeCycle, MaxIncludeDepth, location)
	}
	if r.loader == nil {
		return ErrNoLoader
	}

	included, err := r.loader.Load(ctx, location)
	if err != nil {
		return fmt.Errorf("load %s: %w", location, err)
	}

	r.plan.Includes = append(r.plan.Includes, IncludedSource{
		Location:  location,
		Parent:    lc.Location(),
		Depth:     lc.Depth() + 1,
		Arguments: forwarded,
	})

	child := lc.child(location)
	for _, f := range forwarded {
		child.SetConfiguration(f.Name, f.Value)
	}
	return r.resolve(ctx, included, child)
}

func (r *resolver) node(a Node, lc *Context) error {
	pkg, err := perform(lc, a.Package, "")
	if err != nil {
		return fmt.Errorf("package: %w", err)
	}
	exe, err := perform(lc, a.Executable, "")
	if err != nil {
		return fmt.Errorf("executable: %w", err)
	}
	if pkg == "" || exe == "" {
		return fmt.Errorf("node requires package and executable")
	}
	name, err := perform(lc, a.Name, exe)
	if err != nil {
		return fmt.Errorf("name: %w", err)
	}
	ns, err := perform(lc, a.Namespace, "")
	if err != nil {
		return fmt.Errorf("namespace: %w", err)
	}
	if err := ValidateNodeName(name); err != nil {
		return err
	}
	if err := ValidateNamespace(ns); err != nil {
		return err
	}

	output := a.Output
	if output == "" {
		output = OutputLog
	}
	if !output.Valid() {
		return fmt.Errorf("unknown output mode %q", output)
	}

	spec := ProcessSpec{
		Package:    pkg,
		Executable: exe,
		Name:       name,
		Namespace:  ns,
		Output:     output,
		Source:     lc.Location(),
	}
	for _, p := range a.Parameters {
		v, err := perform(lc, p.Value, "")
		if err != nil {
			return fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		spec.Parameters = append(spec.Parameters, NamedValue{Name: p.Name, Value: v})
	}
	for _, arg := range a.Arguments {
		v, err := perform(lc, arg, "")
		if err != nil {
			return fmt.Errorf("argument: %w", err)
		}
		spec.Arguments = append(spec.Arguments, v)
	}

	r.plan.Processes = append(r.plan.Processes, spec)
	return nil
}
