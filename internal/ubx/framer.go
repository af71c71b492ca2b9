package ubx

import "github.com/gnss-tools/hazer-go/internal/framer"

// UBX-specific states, continuing the shared STOP/START/END enumeration.
const (
	sync2 framer.State = iota + 3
	class
	id
	length1
	length2
	payload
	ckAState
	ckBState
)

// Sync1 and Sync2 are the two leading bytes of every UBX frame.
const (
	Sync1 byte = 0xB5
	Sync2 byte = 0x62
)

// MaxSize bounds a UBX frame to the 8-byte header, a 65535-byte payload,
// and the 2-byte checksum (spec.md §3).
const MaxSize = 8 + 65535 + 2

// State re-exports framer.State for callers that don't want to import
// internal/framer directly.
type State = framer.State

// Framer implements framer.Machine for u-blox UBX binary messages:
// 0xB5 0x62 sync, class, id, little-endian 16-bit length, payload, and a
// two-byte Fletcher-16 checksum.
type Framer struct {
	state  State
	buf    []byte
	ckA    byte
	ckB    byte
	length int
	remain int
	tot    int
	err    error
}

// New constructs a UBX framer ready to scan for a frame.
func New() *Framer {
	f := &Framer{}
	f.Reset()
	return f
}

func (f *Framer) Protocol() string { return "UBX" }
func (f *Framer) SyncByte() byte   { return Sync1 }
func (f *Framer) State() State     { return f.state }
func (f *Framer) Buffer() []byte   { return f.buf }
func (f *Framer) Size() int        { return f.tot }
func (f *Framer) Err() error       { return f.err }

// Reset clears context and returns to START.
func (f *Framer) Reset() {
	f.state = framer.START
	f.buf = f.buf[:0]
	f.ckA, f.ckB = 0, 0
	f.length, f.remain, f.tot = 0, 0, 0
	f.err = nil
}

func (f *Framer) fail(err error) State {
	f.err = err
	f.state = framer.STOP
	return f.state
}

// Step feeds one byte through the UBX state machine.
func (f *Framer) Step(b byte) State {
	if f.state != framer.START && len(f.buf) >= MaxSize {
		return f.fail(framer.ErrOverflow)
	}
	switch f.state {
	case framer.START:
		if b == Sync1 {
			f.buf = append(f.buf, b)
			f.state = sync2
		}
		// else SKIP

	case sync2:
		if b != Sync2 {
			return f.fail(framer.ErrFraming)
		}
		f.buf = append(f.buf, b)
		f.state = class

	case class:
		f.buf = append(f.buf, b)
		f.ckA, f.ckB = fletcherUpdate(f.ckA, f.ckB, b)
		f.state = id

	case id:
		f.buf = append(f.buf, b)
		f.ckA, f.ckB = fletcherUpdate(f.ckA, f.ckB, b)
		f.state = length1

	case length1:
		f.buf = append(f.buf, b)
		f.ckA, f.ckB = fletcherUpdate(f.ckA, f.ckB, b)
		f.length = int(b)
		f.state = length2

	case length2:
		f.buf = append(f.buf, b)
		f.ckA, f.ckB = fletcherUpdate(f.ckA, f.ckB, b)
		f.length |= int(b) << 8
		f.remain = f.length
		if f.remain == 0 {
			f.state = ckAState
		} else {
			f.state = payload
		}

	case payload:
		f.buf = append(f.buf, b)
		f.ckA, f.ckB = fletcherUpdate(f.ckA, f.ckB, b)
		f.remain--
		if f.remain == 0 {
			f.state = ckAState
		}

	case ckAState:
		if b != f.ckA {
			return f.fail(framer.ErrIntegrity)
		}
		f.buf = append(f.buf, b)
		f.state = ckBState

	case ckBState:
		if b != f.ckB {
			return f.fail(framer.ErrIntegrity)
		}
		f.buf = append(f.buf, b)
		f.tot = len(f.buf)
		f.buf = append(f.buf, 0) // advisory NUL terminator
		f.state = framer.END
	}
	return f.state
}
