package h2core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAcceptStreamRejectsEvenID(t *testing.T) {
	cs := newConnState(ServerConf{})
	_, err := cs.acceptStream(2)
	require.Error(t, err)
	var ce *ConnError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, ProtocolError, ce.Code)
}

func TestAcceptStreamRejectsNonIncreasingID(t *testing.T) {
	cs := newConnState(ServerConf{})
	_, err := cs.acceptStream(5)
	require.NoError(t, err)

	_, err = cs.acceptStream(3)
	require.Error(t, err)
	var ce *ConnError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, ProtocolError, ce.Code)
}

func TestAcceptStreamRejectsRepeatedID(t *testing.T) {
	cs := newConnState(ServerConf{})
	_, err := cs.acceptStream(5)
	require.NoError(t, err)

	_, err = cs.acceptStream(5)
	require.Error(t, err)
	var ce *ConnError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, StreamClosedError, ce.Code)
}

func TestAcceptStreamRefusesOverMaxConcurrent(t *testing.T) {
	cs := newConnState(ServerConf{MaxStreams: 1})
	_, err := cs.acceptStream(1)
	require.NoError(t, err)

	_, err = cs.acceptStream(3)
	require.Error(t, err)
	var se *StreamError
	require.ErrorAs(t, err, &se)
	require.Equal(t, RefusedStreamError, se.Code)
}

func TestStreamStateTransitions(t *testing.T) {
	s := newStream(1)
	require.Equal(t, streamOpen, s.kind)

	require.False(t, s.onRemoteEndStream())
	require.Equal(t, streamHalfClosedRemote, s.kind)

	require.True(t, s.onLocalEndStream())
}
