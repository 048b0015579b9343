package h2core

// Default SETTINGS values and bounds from RFC 9113 section 6.5.2.
const (
	DefaultHeaderTableSize      uint32 = 4096
	DefaultMaxConcurrentStreams uint32 = 32 // ServerConf.MaxStreams default, see server.go
	DefaultInitialWindowSize    uint32 = 1<<16 - 1
	DefaultMaxFrameSize         uint32 = 1 << 14

	MaxWindowSize = 1<<31 - 1
	MaxFrameSize  = 1<<24 - 1
)

// NegotiatedSettings tracks one side's view of the connection's
// SETTINGS: the engine's own advertised values (self) and the peer's
// most recently applied SETTINGS frame (peer is mutated by the
// processor as SETTINGS frames arrive).
type NegotiatedSettings struct {
	HeaderTableSize      uint32
	EnablePush           bool
	MaxConcurrentStreams uint32
	InitialWindowSize    uint32
	MaxFrameSize         uint32
	MaxHeaderListSize    uint32
}

// DefaultSettings returns the engine's self-advertised SETTINGS,
// overriding MaxConcurrentStreams with conf.MaxStreams.
func DefaultSettings(maxStreams uint32) NegotiatedSettings {
	return NegotiatedSettings{
		HeaderTableSize:      DefaultHeaderTableSize,
		EnablePush:           false,
		MaxConcurrentStreams: maxStreams,
		InitialWindowSize:    DefaultInitialWindowSize,
		MaxFrameSize:         DefaultMaxFrameSize,
		MaxHeaderListSize:    0, // unlimited
	}
}

// Apply mutates s in place for each recognized pair in a SETTINGS
// frame, ignoring unknown identifiers per RFC 9113 section 6.5.2.
func (s *NegotiatedSettings) Apply(pairs []SettingPair) error {
	for _, p := range pairs {
		switch p.ID {
		case SettingHeaderTableSize:
			s.HeaderTableSize = p.Value
		case SettingEnablePush:
			s.EnablePush = p.Value != 0
		case SettingMaxConcurrentStreams:
			s.MaxConcurrentStreams = p.Value
		case SettingInitialWindowSize:
			if p.Value > MaxWindowSize {
				return newConnError(FlowControlError, "SETTINGS_INITIAL_WINDOW_SIZE %d exceeds maximum", p.Value)
			}
			s.InitialWindowSize = p.Value
		case SettingMaxFrameSize:
			if p.Value < DefaultMaxFrameSize || p.Value > MaxFrameSize {
				return newConnError(ProtocolError, "SETTINGS_MAX_FRAME_SIZE %d out of range", p.Value)
			}
			s.MaxFrameSize = p.Value
		case SettingMaxHeaderListSize:
			s.MaxHeaderListSize = p.Value
		}
	}
	return nil
}
