package launch

// Description is an ordered collection of launch actions.
// Emission order is the only ordering contract: the resolver walks actions in
// the order they were added.
type Description struct {
	actions []Action
}

// NewDescription creates a description holding the given actions.
func NewDescription(actions ...Action) *Description {
	d := &Description{}
	for _, a := range actions {
		d.Add(a)
	}
	return d
}

// Add appends an action.
func (d *Description) Add(a Action) {
	d.actions = append(d.actions, a)
}

// Actions returns a copy of the action list.
func (d *Description) Actions() []Action {
	out := make([]Action, len(d.actions))
	copy(out, d.actions)
	return out
}

// Len returns the number of actions.
func (d *Description) Len() int {
	return len(d.actions)
}

// Arguments returns the arguments this description declares directly.
// Arguments declared by included sources are only known after resolution.
func (d *Description) Arguments() []DeclareArgument {
	var args []DeclareArgument
	for _, a := range d.actions {
		if decl, ok := a.(DeclareArgument); ok {
			args = append(args, decl)
		}
	}
	return args
}
