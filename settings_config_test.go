package h2core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNegotiatedSettingsApplyKnownPairs(t *testing.T) {
	s := DefaultSettings(32)
	err := s.Apply([]SettingPair{
		{ID: SettingMaxConcurrentStreams, Value: 64},
		{ID: SettingEnablePush, Value: 0},
		{ID: SettingHeaderTableSize, Value: 8192},
	})
	require.NoError(t, err)
	require.Equal(t, uint32(64), s.MaxConcurrentStreams)
	require.False(t, s.EnablePush)
	require.Equal(t, uint32(8192), s.HeaderTableSize)
}

func TestNegotiatedSettingsApplyIgnoresUnknownID(t *testing.T) {
	s := DefaultSettings(32)
	before := s
	err := s.Apply([]SettingPair{{ID: 0x99, Value: 1}})
	require.NoError(t, err)
	require.Equal(t, before, s)
}

func TestNegotiatedSettingsApplyRejectsOversizedWindow(t *testing.T) {
	s := DefaultSettings(32)
	err := s.Apply([]SettingPair{{ID: SettingInitialWindowSize, Value: MaxWindowSize + 1}})
	require.Error(t, err)
	var ce *ConnError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, FlowControlError, ce.Code)
}

func TestNegotiatedSettingsApplyRejectsOutOfRangeFrameSize(t *testing.T) {
	s := DefaultSettings(32)
	err := s.Apply([]SettingPair{{ID: SettingMaxFrameSize, Value: 1}})
	require.Error(t, err)
	var ce *ConnError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, ProtocolError, ce.Code)
}
