package nmea

import "github.com/gnss-tools/hazer-go/internal/framer"

// Validate confirms that buf (a candidate, already-assembled NMEA frame,
// NUL-terminated or not) has a well-formed trailer and a correct checksum.
// It returns the validated length (excluding any advisory trailing NUL) on
// success.
func Validate(buf []byte) (int, error) {
	// Trim an advisory NUL terminator, if present, before measuring.
	n := len(buf)
	if n > 0 && buf[n-1] == 0 {
		n--
	}
	frame := buf[:n]

	if n < 6 || frame[0] != Sync {
		return 0, framer.ErrFraming
	}
	if frame[n-2] != '\r' || frame[n-1] != '\n' {
		return 0, framer.ErrLength
	}

	star, wantMSN, wantLSN, err := ChecksumBuffer(frame[:n-2])
	if err != nil {
		return 0, err
	}
	if star+3 != n-2 {
		return 0, framer.ErrLength
	}
	gotMSN, gotLSN := frame[star+1], frame[star+2]
	if gotMSN != wantMSN || gotLSN != wantLSN {
		return 0, framer.ErrIntegrity
	}
	return n, nil
}
