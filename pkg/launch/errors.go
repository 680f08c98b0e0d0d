package launch

import "errors"

// ErrArgumentRequired is returned when a declared argument has no default and no value was supplied.
var ErrArgumentRequired = errors.New("launch argument required")

// ErrInvalidChoice is returned when an argument value is not one of its declared choices.
var ErrInvalidChoice = errors.New("launch argument value not in choices")

// ErrUnknownConfiguration is returned when a substitution reads a launch configuration that was never set.
var ErrUnknownConfiguration = errors.New("launch configuration not set")

// ErrEnvironmentNotSet is returned when an environment substitution has no value and no default.
var ErrEnvironmentNotSet = errors.New("environment variable not set")

// ErrNoLaunchFile is returned when a file-relative substitution is evaluated outside a launch file.
var ErrNoLaunchFile = errors.New("no current launch file")

// ErrNoIndex is returned when a package substitution is evaluated without a package index.
var ErrNoIndex = errors.New("no package index configured")

// ErrNoLoader is returned when an include is resolved without a source loader.
var ErrNoLoader = errors.New("no launch source loader configured")

// ErrIncludeCycle is returned when a launch source includes itself, directly or transitively,
// or when the include chain grows past the supported depth.
var ErrIncludeCycle = errors.New("launch include cycle")

// ErrInvalidName is returned when a node name or namespace breaks the naming rules.
var ErrInvalidName = errors.New("invalid name")

// ErrInvalidSubstitution is returned when a substitution expression cannot be parsed.
var ErrInvalidSubstitution = errors.New("invalid substitution")
