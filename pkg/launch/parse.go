package launch

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseSubstitution parses a launch expression such as
// "$(find-pkg-share temporal_planning)/pddl/domain.pddl" into a Substitution.
//
// Supported forms:
//
//	$(var NAME)
//	$(find-pkg-share PKG)
//	$(env NAME [DEFAULT])
//	$(dirname)
//
// Arguments may themselves contain expressions. Text outside $( ) is literal.
func ParseSubstitution(expr string) (Substitution, error) {
	parts, err := parseParts(expr)
	if err != nil {
		return nil, err
	}
	switch len(parts) {
	case 0:
		return Text(""), nil
	case 1:
		return parts[0], nil
	default:
		return Concat(parts), nil
	}
}

// MustParseSubstitution is like ParseSubstitution but panics on error.
// It is meant for expressions known at compile time.
func MustParseSubstitution(expr string) Substitution {
	s, err := ParseSubstitution(expr)
	if err != nil {
		panic(err)
	}
	return s
}

func parseParts(expr string) ([]Substitution, error) {
	var parts []Substitution
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			parts = append(parts, Text(literal.String()))
			literal.Reset()
		}
	}

	for i := 0; i < len(expr); {
		if !strings.HasPrefix(expr[i:], "$(") {
			literal.WriteByte(expr[i])
			i++
			continue
		}
		end, err := closingParen(expr, i)
		if err != nil {
			return nil, err
		}
		sub, err := parseCall(expr[i+2 : end])
		if err != nil {
			return nil, err
		}
		flush()
		parts = append(parts, sub)
		i = end + 1
	}
	flush()
	return parts, nil
}

// closingParen returns the index of the ')' closing the "$(" at start.
// Plain parentheses inside the expression must balance.
func closingParen(expr string, start int) (int, error) {
	depth := 0
	for k := start; k < len(expr); k++ {
		switch {
		case strings.HasPrefix(expr[k:], "$("):
			depth++
			k++
		case expr[k] == '(':
			depth++
		case expr[k] == ')':
			depth--
			if depth == 0 {
				return k, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: unterminated expression in %q", ErrInvalidSubstitution, expr)
}

// splitArgs splits on whitespace that is not nested inside another expression
// or a pair of parentheses.
func splitArgs(body string) []string {
	var args []string
	var current strings.Builder
	depth := 0
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case strings.HasPrefix(body[i:], "$("):
			depth++
			current.WriteString("$(")
			i++
			continue
		case c == '(':
			depth++
		case c == ')' && depth > 0:
			depth--
		case depth == 0 && unicode.IsSpace(rune(c)):
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
			continue
		}
		current.WriteByte(c)
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}

func parseCall(body string) (Substitution, error) {
	tokens := splitArgs(body)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidSubstitution)
	}
	kind, args := tokens[0], tokens[1:]

	switch kind {
	case "var":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: var takes 1 argument, got %d", ErrInvalidSubstitution, len(args))
		}
		name, err := literalArg(kind, args[0])
		if err != nil {
			return nil, err
		}
		return LaunchConfiguration{Name: name}, nil

	case "find-pkg-share":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: find-pkg-share takes 1 argument, got %d", ErrInvalidSubstitution, len(args))
		}
		pkg, err := ParseSubstitution(args[0])
		if err != nil {
			return nil, err
		}
		return FindPackageShare{Package: pkg}, nil

	case "env":
		if len(args) < 1 || len(args) > 2 {
			return nil, fmt.Errorf("%w: env takes 1 or 2 arguments, got %d", ErrInvalidSubstitution, len(args))
		}
		name, err := literalArg(kind, args[0])
		if err != nil {
			return nil, err
		}
		env := EnvironmentVariable{Name: name}
		if len(args) == 2 {
			def, err := ParseSubstitution(args[1])
			if err != nil {
				return nil, err
			}
			env.Default = def
		}
		return env, nil

	case "dirname":
		if len(args) != 0 {
			return nil, fmt.Errorf("%w: dirname takes no arguments", ErrInvalidSubstitution)
		}
		return ThisLaunchFileDir{}, nil
	}

	return nil, fmt.Errorf("%w: unknown substitution %q", ErrInvalidSubstitution, kind)
}

func literalArg(kind, arg string) (string, error) {
	if strings.Contains(arg, "$(") {
		return "", fmt.Errorf("%w: %s expects a literal name, got %q", ErrInvalidSubstitution, kind, arg)
	}
	return arg, nil
}
