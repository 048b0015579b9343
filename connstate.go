package h2core

// ConnState is the processor goroutine's private view of the
// connection: negotiated SETTINGS on both sides, the live stream
// table, the last stream id accepted from the client, and whether
// either side has sent GOAWAY. It is never touched outside the
// processor goroutine.
type ConnState struct {
	Self NegotiatedSettings
	Peer NegotiatedSettings

	Streams      *StreamTable
	LastStreamID uint32

	GoAwaySent bool
	GoAwayRecv bool
}

func newConnState(conf ServerConf) *ConnState {
	return &ConnState{
		Self:    DefaultSettings(conf.maxStreams()),
		Peer:    DefaultSettings(DefaultMaxConcurrentStreams),
		Streams: newStreamTable(),
	}
}

// acceptStream validates and registers a newly-opened client stream,
// enforcing the odd-id and monotonically-increasing-id rules from
// RFC 9113 section 5.1.1 and the configured concurrency limit.
func (cs *ConnState) acceptStream(id uint32) (*Stream, error) {
	if id%2 == 0 {
		return nil, errClientSidShouldBeOdd(id)
	}
	if id == cs.LastStreamID {
		return nil, errStreamClosed(id)
	}
	if id < cs.LastStreamID {
		return nil, errClientSidShouldBeNumericallyIncreasing(id, cs.LastStreamID)
	}
	if uint32(cs.Streams.Len()) >= cs.Self.MaxConcurrentStreams {
		cs.LastStreamID = id
		return nil, errRefusedStream()
	}

	cs.LastStreamID = id
	s := newStream(id)
	cs.Streams.Insert(s)
	return s, nil
}
