package rtcm_test

import (
	"testing"

	"github.com/gnss-tools/hazer-go/internal/framer"
	"github.com/gnss-tools/hazer-go/internal/rtcm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFrame(msgType int, rest []byte) []byte {
	payload := append([]byte{byte(msgType >> 4), byte(msgType<<4) & 0xF0}, rest...)
	length := len(payload)
	header := []byte{rtcm.Sync, byte(length >> 8 & 0x03), byte(length)}
	body := append(header, payload...)
	crc := rtcm.CRC24Q(body)
	enc := rtcm.Encode24(crc)
	return append(body, enc[0], enc[1], enc[2])
}

func feed(t *testing.T, frame []byte) *rtcm.Framer {
	t.Helper()
	f := rtcm.New()
	var last framer.State
	for _, b := range frame {
		last = f.Step(b)
	}
	require.Equal(t, framer.END, last, "framer error: %v", f.Err())
	return f
}

func TestKeepaliveFrame(t *testing.T) {
	// rtktool's keepalive is the shortest possible RTCM frame: a
	// zero-length payload, header + CRC only (6 bytes total).
	keepalive := []byte{rtcm.Sync, 0x00, 0x00}
	crc := rtcm.CRC24Q(keepalive)
	enc := rtcm.Encode24(crc)
	keepalive = append(keepalive, enc[0], enc[1], enc[2])

	f := feed(t, keepalive)
	n, err := rtcm.Validate(f.Buffer()[:f.Size()])
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.True(t, rtcm.IsKeepalive(f.Buffer()[:n]))
}

func TestMessageTypeExtraction(t *testing.T) {
	frame := buildFrame(1005, []byte{0x00, 0x00, 0x00, 0x00, 0x00})
	f := feed(t, frame)

	n, err := rtcm.Validate(f.Buffer()[:f.Size()])
	require.NoError(t, err)
	assert.False(t, rtcm.IsKeepalive(f.Buffer()[:n]))
	assert.Equal(t, 1005, rtcm.MessageType(f.Buffer()[:n]))
}

func TestBadCRCRejected(t *testing.T) {
	frame := buildFrame(1005, []byte{0x00, 0x00})
	frame[len(frame)-1] ^= 0xFF

	f := rtcm.New()
	var last framer.State
	for _, b := range frame {
		last = f.Step(b)
	}
	assert.Equal(t, framer.STOP, last)
	assert.ErrorIs(t, f.Err(), framer.ErrIntegrity)
}

// TestKeepaliveReferenceVector uses the literal keepalive bytes from
// Hazer's unittest-rtcm.c (D3 00 00 47 EA 4B) rather than a
// locally-built frame, so a bug shared between buildFrame and Validate
// couldn't hide from this suite.
func TestKeepaliveReferenceVector(t *testing.T) {
	frame := []byte{0xD3, 0x00, 0x00, 0x47, 0xEA, 0x4B}

	f := feed(t, frame)
	n, err := rtcm.Validate(f.Buffer()[:f.Size()])
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.True(t, rtcm.IsKeepalive(f.Buffer()[:n]))
}

// TestRTCM1005ReferenceVector uses the RTCM 10403.3 p.265 worked example
// from unittest-rtcm.c: a real type-1005 station ARP message, to confirm
// CRC24Q/Validate/MessageType against bytes this module didn't generate
// itself.
func TestRTCM1005ReferenceVector(t *testing.T) {
	frame := []byte{
		0xD3, 0x00, 0x13, 0x3E, 0xD7, 0xD3, 0x02, 0x02, 0x98, 0x0E,
		0xDE, 0xEF, 0x34, 0xB4, 0xBD, 0x62, 0xAC, 0x09, 0x41, 0x98,
		0x6F, 0x33, 0x36, 0x0B, 0x98,
	}

	f := feed(t, frame)
	n, err := rtcm.Validate(f.Buffer()[:f.Size()])
	require.NoError(t, err)
	assert.False(t, rtcm.IsKeepalive(f.Buffer()[:n]))
	assert.Equal(t, 1005, rtcm.MessageType(f.Buffer()[:n]))

	arp, ok := rtcm.DecodeStationARP(f.Buffer()[:n])
	require.True(t, ok, "p.265 example is a well-formed station ARP message")
	assert.NotZero(t, arp.X)
}

func TestCRC24QSelfConsistent(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	crc := rtcm.CRC24Q(data)
	enc := rtcm.Encode24(crc)
	assert.Equal(t, crc, rtcm.Decode24(enc[0], enc[1], enc[2]))
}
