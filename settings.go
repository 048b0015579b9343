package h2core

import "github.com/h2-engine/core/h2utils"

const (
	SettingHeaderTableSize      uint16 = 0x1
	SettingEnablePush           uint16 = 0x2
	SettingMaxConcurrentStreams uint16 = 0x3
	SettingInitialWindowSize    uint16 = 0x4
	SettingMaxFrameSize         uint16 = 0x5
	SettingMaxHeaderListSize    uint16 = 0x6
)

const settingPairSize = 6 // 2-byte identifier + 4-byte value

// SettingPair is one (identifier, value) entry of a SETTINGS frame.
type SettingPair struct {
	ID    uint16
	Value uint32
}

var _ Body = (*SettingsFrame)(nil)

var settingsFramePool = newBodyPool(func() Body { return &SettingsFrame{} })

// SettingsFrame is the payload of a SETTINGS frame: either an ACK (no
// payload) or a sequence of setting pairs the sender wants to apply.
type SettingsFrame struct {
	ack   bool
	pairs []SettingPair
}

func (s *SettingsFrame) Type() FrameType { return FrameSettings }

func (s *SettingsFrame) Reset() {
	s.ack = false
	s.pairs = s.pairs[:0]
}

func (s *SettingsFrame) Ack() bool         { return s.ack }
func (s *SettingsFrame) SetAck(v bool)     { s.ack = v }
func (s *SettingsFrame) Pairs() []SettingPair { return s.pairs }
func (s *SettingsFrame) AddPair(id uint16, value uint32) {
	s.pairs = append(s.pairs, SettingPair{ID: id, Value: value})
}

func (s *SettingsFrame) Deserialize(frh *FrameHeader) error {
	if frh.Flags().Has(FlagAck) {
		if frh.Len() != 0 {
			return errSettingsAckWithPayload(frh.Len())
		}
		s.ack = true
		return nil
	}

	payload := frh.RawPayload()
	if len(payload)%settingPairSize != 0 {
		return errSettingsInvalidLength(len(payload))
	}

	for len(payload) > 0 {
		id := uint16(payload[0])<<8 | uint16(payload[1])
		value := h2utils.BytesToUint32(payload[2:6])
		s.pairs = append(s.pairs, SettingPair{ID: id, Value: value})
		payload = payload[settingPairSize:]
	}
	return nil
}

func (s *SettingsFrame) Serialize(frh *FrameHeader) {
	if s.ack {
		frh.SetFlags(frh.Flags().Add(FlagAck))
		frh.setPayload(nil)
		return
	}

	payload := make([]byte, 0, len(s.pairs)*settingPairSize)
	for _, p := range s.pairs {
		payload = append(payload, byte(p.ID>>8), byte(p.ID))
		payload = h2utils.AppendUint32Bytes(payload, p.Value)
	}
	frh.setPayload(payload)
}
