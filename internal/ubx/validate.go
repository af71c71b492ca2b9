package ubx

import "github.com/gnss-tools/hazer-go/internal/framer"

// Validate confirms that buf (a candidate, already-assembled UBX frame,
// NUL-terminated or not) has a consistent declared length and a correct
// Fletcher-16 checksum. It returns the validated length on success.
func Validate(buf []byte) (int, error) {
	n := len(buf)
	if n > 0 && buf[n-1] == 0 {
		n--
	}
	frame := buf[:n]

	if n < 8 || frame[0] != Sync1 || frame[1] != Sync2 {
		return 0, framer.ErrFraming
	}
	length := int(frame[4]) | int(frame[5])<<8
	want := 8 + length
	if want > n {
		return 0, framer.ErrLength
	}
	if want != n {
		return 0, framer.ErrLength
	}

	region, err := checksumRegion(frame)
	if err != nil {
		return 0, err
	}
	ckA, ckB := Fletcher16(region)
	if frame[n-2] != ckA || frame[n-1] != ckB {
		return 0, framer.ErrIntegrity
	}
	return n, nil
}

// Class returns the class byte of a validated UBX frame.
func Class(frame []byte) byte { return frame[2] }

// ID returns the message ID byte of a validated UBX frame.
func ID(frame []byte) byte { return frame[3] }

// Payload returns the payload slice of a validated UBX frame.
func Payload(frame []byte) []byte {
	length := int(frame[4]) | int(frame[5])<<8
	return frame[6 : 6+length]
}
