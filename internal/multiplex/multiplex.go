// Package multiplex runs several framer.Machine state machines in
// parallel over a single byte stream, switching into single-machine mode
// once one of them accepts a sync byte the others reject, and
// resynchronizing whenever that machine stops short of a complete frame
// (spec.md §4.3).
package multiplex

import "github.com/gnss-tools/hazer-go/internal/framer"

// EventKind distinguishes what, if anything, happened on a Feed call.
type EventKind int

const (
	// EventNone means the byte was consumed with no frame completed and
	// no sync lost.
	EventNone EventKind = iota
	// EventFrameReady means a complete, validated frame is available in
	// Event.Frame, produced by the named protocol.
	EventFrameReady
	// EventLostSync means the resync threshold was reached: the
	// accumulated non-sync bytes were handed to the diagnostic sink and
	// discarded.
	EventLostSync
)

// Event is the result of feeding one byte to the multiplexer.
type Event struct {
	Kind     EventKind
	Protocol string
	Frame    []byte
}

// Sink receives bytes discarded when the resync threshold is reached.
type Sink func(discarded []byte)

// Multiplexer holds the candidate machines and the sync/frame state the
// spec describes: while scanning (no active machine), every incoming
// byte is offered to all machines in parallel; the protocols' sync bytes
// are disjoint, so at most one machine ever leaves its START state on a
// given byte, and the multiplexer switches into single-machine mode for
// that frame.
type Multiplexer struct {
	machines  []framer.Machine
	active    framer.Machine
	discard   []byte
	resync    int
	threshold int
	sink      Sink
}

// New constructs a Multiplexer over the given machines. threshold bounds
// the number of consecutive non-sync bytes tolerated while scanning
// before the accumulated bytes are reported to sink and dropped
// (spec.md §4.3's "resync threshold"); sink may be nil.
func New(threshold int, sink Sink, machines ...framer.Machine) *Multiplexer {
	return &Multiplexer{
		machines:  machines,
		threshold: threshold,
		sink:      sink,
	}
}

// Reset returns the multiplexer to its initial scanning state, resetting
// every candidate machine and discarding any in-flight frame or
// accumulated garbage.
func (m *Multiplexer) Reset() {
	for _, mm := range m.machines {
		mm.Reset()
	}
	m.active = nil
	m.discard = m.discard[:0]
	m.resync = 0
}

// Feed advances the multiplexer by one byte and reports what happened.
func (m *Multiplexer) Feed(b byte) Event {
	if m.active != nil {
		return m.feedActive(b)
	}
	return m.feedScanning(b)
}

func (m *Multiplexer) feedActive(b byte) Event {
	st := m.active.Step(b)
	switch st {
	case framer.END:
		protocol := m.active.Protocol()
		frame := append([]byte(nil), m.active.Buffer()[:m.active.Size()]...)
		m.active.Reset()
		m.active = nil
		m.resync = 0
		return Event{Kind: EventFrameReady, Protocol: protocol, Frame: frame}
	case framer.STOP:
		// Framing, integrity, and length errors are handled locally: the
		// bad frame is dropped and scanning resumes (spec.md §8).
		m.active.Reset()
		m.active = nil
		return Event{Kind: EventNone}
	default:
		return Event{Kind: EventNone}
	}
}

func (m *Multiplexer) feedScanning(b byte) Event {
	var matched framer.Machine
	for _, mm := range m.machines {
		if mm.Step(b) != framer.START {
			matched = mm
		}
	}
	if matched != nil {
		for _, mm := range m.machines {
			if mm != matched {
				mm.Reset()
			}
		}
		m.active = matched
		m.discard = m.discard[:0]
		m.resync = 0
		return Event{Kind: EventNone}
	}

	m.discard = append(m.discard, b)
	m.resync++
	if m.threshold > 0 && m.resync >= m.threshold {
		if m.sink != nil {
			m.sink(m.discard)
		}
		m.discard = m.discard[:0]
		m.resync = 0
		return Event{Kind: EventLostSync}
	}
	return Event{Kind: EventNone}
}
