package nmea

import "github.com/gnss-tools/hazer-go/internal/framer"

// NMEA-specific states, continuing the shared STOP/START/END enumeration.
const (
	payload framer.State = iota + 3
	msnState
	lsnState
	crState
	lfState
)

// Sync is the single byte that opens every NMEA sentence.
const Sync = '$'

// MaxSize bounds a sentence to 82 printable characters plus the CR LF
// terminator, per spec.md §3.
const MaxSize = 82 + 2

// Framer implements framer.Machine for NMEA 0183 sentences: `$`-prefixed,
// comma-delimited ASCII, terminated by `*CC\r\n` where CC is the uppercase
// hex XOR checksum of every byte between `$` and `*`.
type Framer struct {
	state State
	buf   []byte
	sum   byte
	tot   int
	err   error
}

// State is re-exported so callers can compare against nmea package
// constants without importing internal/framer directly.
type State = framer.State

// New constructs an NMEA framer ready to scan for a sentence.
func New() *Framer {
	f := &Framer{}
	f.Reset()
	return f
}

func (f *Framer) Protocol() string { return "NMEA-0183" }
func (f *Framer) SyncByte() byte   { return Sync }
func (f *Framer) State() State     { return f.state }
func (f *Framer) Buffer() []byte   { return f.buf }
func (f *Framer) Size() int        { return f.tot }
func (f *Framer) Err() error       { return f.err }

// Reset clears the sentence buffer and checksum accumulator and returns to
// START.
func (f *Framer) Reset() {
	f.state = framer.START
	f.buf = f.buf[:0]
	f.sum = 0
	f.tot = 0
	f.err = nil
}

// Step feeds one byte through the NMEA state machine.
func (f *Framer) Step(b byte) State {
	switch f.state {
	case framer.START:
		if b == Sync {
			f.buf = append(f.buf, b)
			f.state = payload
		}
		// else SKIP: stay in START scanning for sync.

	case payload:
		if len(f.buf) >= MaxSize {
			f.err = framer.ErrOverflow
			f.state = framer.STOP
			return f.state
		}
		switch b {
		case '*':
			f.buf = append(f.buf, b)
			f.state = msnState
		case '\r', '\n':
			// A bare CR/LF inside the payload with no checksum marker is
			// malformed; resync.
			f.err = framer.ErrFraming
			f.state = framer.STOP
		default:
			f.buf = append(f.buf, b)
			f.sum = updateChecksum(f.sum, b)
		}

	case msnState:
		if _, ok := parseHexNibble(b); !ok {
			f.err = framer.ErrFraming
			f.state = framer.STOP
			return f.state
		}
		f.buf = append(f.buf, b)
		f.state = lsnState

	case lsnState:
		if _, ok := parseHexNibble(b); !ok {
			f.err = framer.ErrFraming
			f.state = framer.STOP
			return f.state
		}
		f.buf = append(f.buf, b)
		f.state = crState

	case crState:
		if b != '\r' {
			f.err = framer.ErrFraming
			f.state = framer.STOP
			return f.state
		}
		f.buf = append(f.buf, b)
		f.state = lfState

	case lfState:
		if b != '\n' {
			f.err = framer.ErrFraming
			f.state = framer.STOP
			return f.state
		}
		f.buf = append(f.buf, b)
		// TERMINATE: compare checksum now that the full frame is in hand.
		star := len(f.buf) - 5 // points at '*': ...* M S \r \n
		msn, lsn := finalizeChecksum(f.sum)
		if f.buf[star] != '*' || f.buf[star+1] != msn || f.buf[star+2] != lsn {
			f.err = framer.ErrIntegrity
			f.state = framer.STOP
			return f.state
		}
		f.tot = len(f.buf)
		f.buf = append(f.buf, 0) // advisory NUL terminator
		f.state = framer.END
	}
	return f.state
}
