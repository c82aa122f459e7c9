package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapAndCode(t *testing.T) {
	cause := fmt.Errorf("dial tcp: refused")
	err := Wrap(CodeAstronomyUnavailable, "astronomy request failed", cause)

	require.EqualError(t, err, "astronomy request failed: dial tcp: refused")
	require.ErrorIs(t, err, cause)
	require.True(t, IsCode(err, CodeAstronomyUnavailable))
	require.False(t, IsCode(err, CodeInvalidInput))

	outer := fmt.Errorf("submit: %w", err)
	require.Equal(t, CodeAstronomyUnavailable, CodeOf(outer))
	require.Equal(t, "", CodeOf(cause))
	require.Equal(t, "", CodeOf(nil))
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap(CodeInvalidInput, "location cannot be empty", nil)
	require.EqualError(t, err, "location cannot be empty")
}
