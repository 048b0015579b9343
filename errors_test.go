package h2core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorCodeString(t *testing.T) {
	require.Equal(t, "PROTOCOL_ERROR", ProtocolError.String())
	require.Equal(t, "FLOW_CONTROL_ERROR", FlowControlError.String())
	require.Equal(t, "UNKNOWN_ERROR", ErrorCode(0xff).String())
}

func TestConnErrorAndStreamErrorImplementError(t *testing.T) {
	var err error = newConnError(ProtocolError, "bad stream %d", 7)
	require.EqualError(t, err, "bad stream 7")

	var serr error = newStreamError(CancelError, "cancelled")
	require.EqualError(t, serr, "cancelled")
}
