package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeValue(t *testing.T) {
	got, err := sanitizeValue("robot1")
	require.NoError(t, err)
	assert.Equal(t, "robot1", got)

	got, err = sanitizeValue("robot\x1b[31m1\x00")
	require.NoError(t, err)
	assert.Equal(t, "robot[31m1", got)

	_, err = sanitizeValue(strings.Repeat("a", maxArgumentSize+1))
	assert.ErrorIs(t, err, errArgumentTooLarge)

	_, err = sanitizeValue("bad\xffutf8")
	assert.ErrorIs(t, err, errInvalidUTF8)
}

func TestParseLaunchArgs_Sanitizes(t *testing.T) {
	got, err := parseLaunchArgs([]string{"namespace:=robot\a1"})
	require.NoError(t, err)
	assert.Equal(t, "robot1", got["namespace"])

	_, err = parseLaunchArgs([]string{"namespace:=\xff"})
	assert.Error(t, err)
}
