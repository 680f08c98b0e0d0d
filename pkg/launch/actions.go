package launch

// ActionKind identifies the type of a launch action.
type ActionKind string

const (
	KindDeclareArgument  ActionKind = "arg"
	KindInclude          ActionKind = "include"
	KindNode             ActionKind = "node"
	KindSetConfiguration ActionKind = "let"
)

// Action is a declarative instruction consumed by the resolver.
type Action interface {
	Kind() ActionKind
}

// DeclareArgument exposes a launch argument to the caller.
// A nil Default makes the argument required.
type DeclareArgument struct {
	Name        string
	Default     Substitution
	Description string
	Choices     []string
}

func (DeclareArgument) Kind() ActionKind { return KindDeclareArgument }

// Argument is a named value forwarded to an included description.
type Argument struct {
	Name  string
	Value Substitution
}

// IncludeDescription imports another launch source, forwarding arguments to it.
type IncludeDescription struct {
	Source    Substitution
	Arguments []Argument
}

func (IncludeDescription) Kind() ActionKind { return KindInclude }

// OutputMode selects where a process writes its stdout and stderr.
type OutputMode string

const (
	OutputScreen OutputMode = "screen"
	OutputLog    OutputMode = "log"
	OutputBoth   OutputMode = "both"
)

// Valid reports whether m is a known output mode.
func (m OutputMode) Valid() bool {
	switch m {
	case OutputScreen, OutputLog, OutputBoth:
		return true
	}
	return false
}

// Parameter is a node parameter passed as -p name:=value.
type Parameter struct {
	Name  string
	Value Substitution
}

// Node starts an executable from a package as a named node.
// A nil Name defaults to the executable; a nil Namespace means the root namespace.
type Node struct {
	Package    Substitution
	Executable Substitution
	Name       Substitution
	Namespace  Substitution
	Output     OutputMode
	Parameters []Parameter
	Arguments  []Substitution
}

func (Node) Kind() ActionKind { return KindNode }

// SetConfiguration sets a launch configuration in the current scope.
type SetConfiguration struct {
	Name  string
	Value Substitution
}

func (SetConfiguration) Kind() ActionKind { return KindSetConfiguration }
