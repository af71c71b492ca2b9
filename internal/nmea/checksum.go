package nmea

import "github.com/gnss-tools/hazer-go/internal/framer"

// hexNibble renders the low 4 bits of v as an uppercase ASCII hex digit.
func hexNibble(v byte) byte {
	v &= 0x0f
	if v < 10 {
		return '0' + v
	}
	return 'A' + (v - 10)
}

// parseHexNibble is the inverse of hexNibble; it fails (ok=false) on any
// byte that is not an uppercase or lowercase hex digit.
func parseHexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}

// updateChecksum folds one more byte into a running NMEA XOR checksum.
func updateChecksum(state byte, b byte) byte {
	return state ^ b
}

// finalizeChecksum renders a running checksum as its two hex nibbles,
// most-significant first.
func finalizeChecksum(state byte) (msn, lsn byte) {
	return hexNibble(state >> 4), hexNibble(state)
}

// parseChecksum recombines two ASCII hex nibbles into the byte they encode.
// It fails if either character is not a hex digit.
func parseChecksum(msn, lsn byte) (byte, bool) {
	hi, ok := parseHexNibble(msn)
	if !ok {
		return 0, false
	}
	lo, ok := parseHexNibble(lsn)
	if !ok {
		return 0, false
	}
	return hi<<4 | lo, true
}

// ChecksumBuffer scans a completed "$...*CC" frame (CR/LF optional at the
// tail) and returns the index of the '*' boundary together with the
// recomputed checksum. It is the one-shot counterpart to the incremental
// update/finalize pair used by the framer, for validators that already
// have the whole frame in hand.
func ChecksumBuffer(buf []byte) (star int, msn, lsn byte, err error) {
	if len(buf) < 1 || buf[0] != '$' {
		return 0, 0, 0, framer.ErrFraming
	}
	var sum byte
	for i := 1; i < len(buf); i++ {
		if buf[i] == '*' {
			msn, lsn = finalizeChecksum(sum)
			return i, msn, lsn, nil
		}
		sum = updateChecksum(sum, buf[i])
	}
	return 0, 0, 0, framer.ErrFraming
}
