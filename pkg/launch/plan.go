package launch

// Plan is a fully resolved description: every substitution has been performed
// and every include has been expanded in place.
type Plan struct {
	Arguments []ArgumentValue  `json:"arguments" yaml:"arguments"`
	Includes  []IncludedSource `json:"includes,omitempty" yaml:"includes,omitempty"`
	Processes []ProcessSpec    `json:"processes" yaml:"processes"`
}

// ArgumentValue is a declared argument with the value it resolved to.
type ArgumentValue struct {
	Name        string `json:"name" yaml:"name"`
	Value       string `json:"value" yaml:"value"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Defaulted   bool   `json:"defaulted" yaml:"defaulted"`
	Source      string `json:"source,omitempty" yaml:"source,omitempty"`
}

// NamedValue is a resolved name/value pair.
type NamedValue struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// IncludedSource records an include and the arguments forwarded to it.
type IncludedSource struct {
	Location  string       `json:"location" yaml:"location"`
	Parent    string       `json:"parent,omitempty" yaml:"parent,omitempty"`
	Depth     int          `json:"depth" yaml:"depth"`
	Arguments []NamedValue `json:"arguments,omitempty" yaml:"arguments,omitempty"`
}

// Argument returns the value forwarded under name.
func (s IncludedSource) Argument(name string) (string, bool) {
	for _, a := range s.Arguments {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// ProcessSpec is a resolved node ready to be started.
type ProcessSpec struct {
	Package    string       `json:"package" yaml:"package"`
	Executable string       `json:"executable" yaml:"executable"`
	Name       string       `json:"name" yaml:"name"`
	Namespace  string       `json:"namespace" yaml:"namespace"`
	Output     OutputMode   `json:"output" yaml:"output"`
	Parameters []NamedValue `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Arguments  []string     `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	Source     string       `json:"source,omitempty" yaml:"source,omitempty"`
}

// FullyQualifiedName is the namespace-qualified node name, e.g. /robot1/move_agent_action_node.
func (p ProcessSpec) FullyQualifiedName() string {
	ns := NormalizeNamespace(p.Namespace)
	if ns == "" || ns == "/" {
		return "/" + p.Name
	}
	return ns + "/" + p.Name
}

// CommandArgs returns the argv (without the executable) used to start the node.
func (p ProcessSpec) CommandArgs() []string {
	args := make([]string, 0, len(p.Arguments)+5+2*len(p.Parameters))
	args = append(args, p.Arguments...)
	args = append(args, "--ros-args", "-r", "__node:="+p.Name)
	if ns := NormalizeNamespace(p.Namespace); ns != "" {
		args = append(args, "-r", "__ns:="+ns)
	}
	for _, param := range p.Parameters {
		args = append(args, "-p", param.Name+":="+param.Value)
	}
	return args
}

// Argument returns the resolved value of a top-level or included argument.
func (p *Plan) Argument(name string) (ArgumentValue, bool) {
	for _, a := range p.Arguments {
		if a.Name == name {
			return a, true
		}
	}
	return ArgumentValue{}, false
}
