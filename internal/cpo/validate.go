package cpo

import "github.com/gnss-tools/hazer-go/internal/framer"

// Validate confirms that buf (a candidate, already-assembled, de-escaped
// CPO frame, NUL-terminated or not) has a consistent size field, a
// correct additive checksum, and the trailing DLE ETX sentinel. It
// returns the validated length on success.
func Validate(buf []byte) (int, error) {
	n := len(buf)
	if n > 0 && buf[n-1] == 0 {
		n--
	}
	frame := buf[:n]

	if n < 6 || frame[0] != DLE {
		return 0, framer.ErrFraming
	}
	if frame[n-2] != DLE || frame[n-1] != ETX {
		return 0, framer.ErrFraming
	}

	size := int(frame[2])
	want := 3 + size + 1 + 2 // DLE, id, size, payload, cs, DLE ETX
	if want != n {
		return 0, framer.ErrLength
	}

	var sum byte
	sum = updateChecksum(sum, frame[1]) // id
	sum = updateChecksum(sum, frame[2]) // size
	for _, b := range frame[3 : 3+size] {
		sum = updateChecksum(sum, b)
	}
	if finalizeChecksum(sum) != frame[3+size] {
		return 0, framer.ErrIntegrity
	}
	return n, nil
}

// ID returns the record ID byte of a validated frame.
func ID(frame []byte) byte { return frame[1] }

// Payload returns the logical payload bytes of a validated frame.
func Payload(frame []byte) []byte {
	size := int(frame[2])
	return frame[3 : 3+size]
}
