// Package datagram implements the 32-bit big-endian sequence envelope
// that wraps every UDP payload: one of the four protocol frames,
// prefixed with a sequence number used to detect missing or out-of-order
// datagrams per peer (spec.md §4.7).
package datagram

import (
	"encoding/binary"

	"github.com/gnss-tools/hazer-go/internal/framer"
)

// HeaderSize is the envelope's fixed length: one 32-bit sequence number.
const HeaderSize = 4

// Decode splits a received datagram into its sequence number and inner
// payload. It only requires the buffer be at least HeaderSize bytes; the
// payload is not otherwise validated here.
func Decode(buf []byte) (sequence uint32, payload []byte, err error) {
	if len(buf) < HeaderSize {
		return 0, nil, framer.ErrLength
	}
	return binary.BigEndian.Uint32(buf[:HeaderSize]), buf[HeaderSize:], nil
}

// Encode stamps sequence into a new buffer ahead of payload, for sending.
func Encode(sequence uint32, payload []byte) []byte {
	buf := make([]byte, HeaderSize+len(payload))
	binary.BigEndian.PutUint32(buf[:HeaderSize], sequence)
	copy(buf[HeaderSize:], payload)
	return buf
}

// Tracker holds the expected next sequence number for one peer.
type Tracker struct {
	expected uint32
	started  bool
}

// Outcome classifies a received sequence number against a Tracker.
type Outcome int

const (
	// OutcomeAccepted means the sequence matched or exceeded expectation.
	OutcomeAccepted Outcome = iota
	// OutcomeOutOfOrder means the sequence was behind expectation and
	// must be rejected (spec.md §4.7).
	OutcomeOutOfOrder
)

// Observe advances the tracker with a received sequence number. missing
// counts how many sequence numbers were skipped (zero unless received is
// strictly ahead of expected). A tracker that has not yet seen any
// sequence accepts the first one unconditionally, establishing its
// baseline.
func (t *Tracker) Observe(received uint32) (outcome Outcome, missing uint32) {
	if !t.started {
		t.started = true
		t.expected = received + 1
		return OutcomeAccepted, 0
	}

	delta := int32(received - t.expected)
	switch {
	case delta == 0:
		t.expected = received + 1
		return OutcomeAccepted, 0
	case delta > 0:
		// received is ahead of expected: unsigned arithmetic keeps this
		// branch correct across a wrap from 2^32-1 back to 0, since delta
		// is computed mod 2^32 and only its sign (as a signed 32-bit
		// value) is examined — a backward jump whose magnitude exceeds
		// 2^31 reads as a small positive delta instead (spec.md §4.7).
		missing = uint32(delta)
		t.expected = received + 1
		return OutcomeAccepted, missing
	default:
		return OutcomeOutOfOrder, 0
	}
}

// Expected returns the next sequence number this tracker expects.
func (t *Tracker) Expected() uint32 { return t.expected }
