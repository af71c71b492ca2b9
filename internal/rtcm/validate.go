package rtcm

import "github.com/gnss-tools/hazer-go/internal/framer"

// Validate confirms that buf (a candidate, already-assembled RTCM frame,
// NUL-terminated or not) has a consistent declared length and a correct
// CRC-24Q. It returns the validated length on success. A 6-byte frame (3
// header + 0 payload + 3 CRC) is valid: the shortest possible RTCM frame,
// used by rtktool as a keepalive (spec.md §8).
func Validate(buf []byte) (int, error) {
	n := len(buf)
	if n > 0 && buf[n-1] == 0 {
		n--
	}
	frame := buf[:n]

	if n < 6 || frame[0] != Sync {
		return 0, framer.ErrFraming
	}
	length := int(frame[1]&0x03)<<8 | int(frame[2])
	want := 3 + length + 3
	if want > n {
		return 0, framer.ErrLength
	}
	if want != n {
		return 0, framer.ErrLength
	}

	got := Decode24(frame[n-3], frame[n-2], frame[n-1])
	wantCRC := CRC24Q(frame[:n-3])
	if got != wantCRC {
		return 0, framer.ErrIntegrity
	}
	return n, nil
}

// IsKeepalive reports whether a validated RTCM frame is the shortest
// possible (6 bytes, zero-length payload) — the keepalive rtktool's router
// uses to distinguish a rover's NAT-keepalive traffic from a base's
// correction traffic (spec.md §4.8).
func IsKeepalive(frame []byte) bool { return len(frame) == 6 }

// MessageType extracts the 12-bit RTCM message type from a validated
// frame's payload (spec.md §4.5: "extracts only the message type").
func MessageType(frame []byte) int {
	if len(frame) < 5 {
		return -1
	}
	return int(frame[3])<<4 | int(frame[4])>>4
}
