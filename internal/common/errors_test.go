package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppErrorUnwraps(t *testing.T) {
	err := NewAppError("PARSE_ERROR", "bad chunk", ErrUnparsable)
	require.Contains(t, err.Error(), "PARSE_ERROR")
	require.Contains(t, err.Error(), "bad chunk")
	require.True(t, errors.Is(err, ErrUnparsable))
}

func TestWrapError(t *testing.T) {
	require.NoError(t, WrapError(nil, "ignored"))

	err := WrapError(ErrRateLimited, "day 3")
	require.True(t, errors.Is(err, ErrRateLimited))
	require.Contains(t, err.Error(), "day 3")
}

func TestTerminalAndTransientClassification(t *testing.T) {
	require.True(t, IsTerminal(WrapError(ErrAuth, "401")))
	require.True(t, IsTerminal(WrapError(ErrQuotaExhausted, "quota")))
	require.False(t, IsTerminal(WrapError(ErrRateLimited, "429")))

	require.True(t, IsTransient(WrapError(ErrRateLimited, "429")))
	require.True(t, IsTransient(WrapError(ErrUnavailable, "503")))
	require.False(t, IsTransient(WrapError(ErrAuth, "401")))
	require.False(t, IsTransient(errors.New("unclassified")))
}
