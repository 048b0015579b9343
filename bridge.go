package h2core

import (
	"context"

	"golang.org/x/net/http2/hpack"
)

// eventKind tags the payload an application handler goroutine hands
// back to the processor over the event bridge.
type eventKind int8

const (
	eventResponseHeaders eventKind = iota
	eventBodyChunk
	eventBodyEnd
)

// h2Event is one outbound instruction a Responder sends to the
// processor: write response headers, write a body chunk, or end the
// stream. The processor turns each into the corresponding HEADERS/
// DATA frame and applies the matching stream-state transition.
type h2Event struct {
	stream uint32
	kind   eventKind

	status  int
	headers []hpack.HeaderField

	data []byte
}

// DefaultBridgeCapacity is the bound on the event bridge channel: the
// processor drains it only between frames, so it must be bounded to
// keep a slow/stuck connection from growing memory without limit, but
// large enough that a burst of concurrent handlers isn't serialized
// by it.
const DefaultBridgeCapacity = 32

// eventBridge is the bounded, many-producer/single-consumer channel
// application handler goroutines use to hand outbound frames back to
// the processor goroutine that owns the connection's write side.
type eventBridge struct {
	events chan h2Event
}

func newEventBridge(capacity int) *eventBridge {
	if capacity <= 0 {
		capacity = DefaultBridgeCapacity
	}
	return &eventBridge{events: make(chan h2Event, capacity)}
}

func (b *eventBridge) send(ctx context.Context, ev h2Event) error {
	select {
	case b.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
