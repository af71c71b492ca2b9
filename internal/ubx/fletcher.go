package ubx

import "github.com/gnss-tools/hazer-go/internal/framer"

// fletcherUpdate folds one more byte into the running Fletcher-16
// accumulator pair, per spec.md §4.1: ck_a += b; ck_b += ck_a.
func fletcherUpdate(ckA, ckB, b byte) (byte, byte) {
	ckA += b
	ckB += ckA
	return ckA, ckB
}

// Fletcher16 computes the UBX Fletcher-16 checksum over buf, which must
// already be sliced to exactly the checksummed region: class through the
// last payload byte (spec.md §4.1 — 4 + little-endian payload length,
// starting at class, i.e. excluding the two sync bytes and the checksum
// bytes themselves).
func Fletcher16(buf []byte) (ckA, ckB byte) {
	for _, b := range buf {
		ckA, ckB = fletcherUpdate(ckA, ckB, b)
	}
	return ckA, ckB
}

// checksumRegion returns the byte range [class .. last payload byte] of a
// complete UBX frame, given the frame starts at the 0xB5 sync byte.
func checksumRegion(frame []byte) ([]byte, error) {
	if len(frame) < 8 {
		return nil, framer.ErrLength
	}
	length := int(frame[4]) | int(frame[5])<<8
	end := 6 + length
	if end+2 > len(frame) {
		return nil, framer.ErrLength
	}
	return frame[2:end], nil
}
