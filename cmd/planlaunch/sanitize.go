package main

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxArgumentSize bounds a single launch argument value.
const maxArgumentSize = 4096

var (
	errArgumentTooLarge = errors.New("launch argument exceeds maximum allowed size")
	errInvalidUTF8      = errors.New("launch argument contains invalid UTF-8 sequences")
)

// sanitizeValue rejects oversized or malformed values and strips control
// characters. Values end up on node command lines and in run records.
func sanitizeValue(value string) (string, error) {
	if len(value) > maxArgumentSize {
		return "", fmt.Errorf("%w: size=%d limit=%d", errArgumentTooLarge, len(value), maxArgumentSize)
	}
	if !utf8.ValidString(value) {
		return "", errInvalidUTF8
	}

	if strings.IndexFunc(value, unicode.IsControl) < 0 {
		return value, nil
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value), nil
}
