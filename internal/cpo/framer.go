package cpo

import "github.com/gnss-tools/hazer-go/internal/framer"

// CPO-specific states, continuing the shared STOP/START/END enumeration.
const (
	idState framer.State = iota + 3
	sizeState
	sizeDLEState
	payloadState
	payloadDLEState
	csState
	csDLEState
	dleState
	etxState
)

// DLE and ETX are the CPO frame's sentinel bytes. DLE serves as the sync
// byte, the escape byte, and the first byte of the DLE ETX trailer.
const (
	DLE byte = 0x10
	ETX byte = 0x03
)

// MaxSize bounds a frame to the 3-byte header, a 255-byte payload, and the
// 3-byte trailer, after DLE de-escaping (spec.md §3).
const MaxSize = 3 + 255 + 3

// State re-exports framer.State.
type State = framer.State

// Framer implements framer.Machine for Garmin's CPO protocol: DLE sync,
// id, size, payload, checksum, DLE, ETX, with DLE-doubling escape applied
// to size, payload, and checksum bytes that happen to equal 0x10. The
// buffer receives the logical (de-escaped) bytes for size/payload/checksum
// but preserves the sync DLE, trailing DLE, and ETX exactly as they
// appeared on the wire (spec.md §4.2).
type Framer struct {
	state  State
	buf    []byte
	sum    byte
	size   int
	remain int
	tot    int
	err    error
}

// New constructs a CPO framer ready to scan for a frame.
func New() *Framer {
	f := &Framer{}
	f.Reset()
	return f
}

func (f *Framer) Protocol() string { return "CPO" }
func (f *Framer) SyncByte() byte   { return DLE }
func (f *Framer) State() State     { return f.state }
func (f *Framer) Buffer() []byte   { return f.buf }
func (f *Framer) Size() int        { return f.tot }
func (f *Framer) Err() error       { return f.err }

// Reset clears context and returns to START.
func (f *Framer) Reset() {
	f.state = framer.START
	f.buf = f.buf[:0]
	f.sum = 0
	f.size, f.remain, f.tot = 0, 0, 0
	f.err = nil
}

func (f *Framer) fail(err error) State {
	f.err = err
	f.state = framer.STOP
	return f.state
}

// Step feeds one byte through the CPO state machine.
func (f *Framer) Step(b byte) State {
	if f.state != framer.START && len(f.buf) >= MaxSize {
		return f.fail(framer.ErrOverflow)
	}
	switch f.state {
	case framer.START:
		if b == DLE {
			f.buf = append(f.buf, b) // sentinel: preserved as-is
			f.state = idState
		}
		// else SKIP

	case idState:
		f.buf = append(f.buf, b)
		f.sum = updateChecksum(f.sum, b)
		f.state = sizeState

	case sizeState:
		if b == DLE {
			f.state = sizeDLEState
			return f.state
		}
		f.buf = append(f.buf, b)
		f.sum = updateChecksum(f.sum, b)
		f.size = int(b)
		f.remain = f.size
		f.state = f.afterLength()

	case sizeDLEState:
		f.buf = append(f.buf, b)
		f.sum = updateChecksum(f.sum, b)
		f.size = int(b)
		f.remain = f.size
		f.state = f.afterLength()

	case payloadState:
		if b == DLE {
			f.state = payloadDLEState
			return f.state
		}
		f.buf = append(f.buf, b)
		f.sum = updateChecksum(f.sum, b)
		f.remain--
		if f.remain == 0 {
			f.state = csState
		}

	case payloadDLEState:
		f.buf = append(f.buf, b)
		f.sum = updateChecksum(f.sum, b)
		f.remain--
		if f.remain == 0 {
			f.state = csState
		} else {
			f.state = payloadState
		}

	case csState:
		if b == DLE {
			f.state = csDLEState
			return f.state
		}
		return f.checkChecksum(b)

	case csDLEState:
		return f.checkChecksum(b)

	case dleState:
		if b != DLE {
			return f.fail(framer.ErrFraming)
		}
		f.buf = append(f.buf, b) // sentinel: preserved as-is
		f.state = etxState

	case etxState:
		if b != ETX {
			return f.fail(framer.ErrFraming)
		}
		f.tot = len(f.buf) + 1 // +1 for the ETX about to be appended
		f.buf = append(f.buf, b)
		f.buf = append(f.buf, 0) // advisory NUL terminator
		f.state = framer.END
	}
	return f.state
}

// afterLength picks PAYLOAD or, for a zero-length record, CS as the next
// state once the size field is fully known.
func (f *Framer) afterLength() State {
	if f.remain == 0 {
		return csState
	}
	return payloadState
}

// checkChecksum verifies the (possibly de-escaped) checksum byte against
// the running additive sum and, on success, advances to the trailing DLE
// sentinel.
func (f *Framer) checkChecksum(b byte) State {
	if finalizeChecksum(f.sum) != b {
		return f.fail(framer.ErrIntegrity)
	}
	f.buf = append(f.buf, b)
	f.state = dleState
	return f.state
}
