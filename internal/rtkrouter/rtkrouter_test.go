package rtkrouter_test

import (
	"net/netip"
	"testing"
	"time"

	"github.com/gnss-tools/hazer-go/internal/datagram"
	"github.com/gnss-tools/hazer-go/internal/framer"
	"github.com/gnss-tools/hazer-go/internal/rtcm"
	"github.com/gnss-tools/hazer-go/internal/rtkrouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keepaliveFrame() []byte {
	hdr := []byte{rtcm.Sync, 0x00, 0x00}
	crc := rtcm.CRC24Q(hdr)
	enc := rtcm.Encode24(crc)
	return append(hdr, enc[0], enc[1], enc[2])
}

func baseFrame(msgType int) []byte {
	payload := []byte{byte(msgType >> 4), byte(msgType<<4) & 0xF0, 0x00, 0x00, 0x00}
	length := len(payload)
	hdr := []byte{rtcm.Sync, byte(length >> 8 & 0x03), byte(length)}
	body := append(hdr, payload...)
	crc := rtcm.CRC24Q(body)
	enc := rtcm.Encode24(crc)
	return append(body, enc[0], enc[1], enc[2])
}

func addr(port int) netip.AddrPort {
	return netip.MustParseAddrPort("192.0.2.1:" + itoa(port))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func newTestRouter(sent *[][]byte) *rtkrouter.Router {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return rtkrouter.New(30*time.Second, func() time.Time { return now }, func(to netip.AddrPort, buf []byte) error {
		*sent = append(*sent, append([]byte(nil), buf...))
		return nil
	})
}

func TestRoverClassifiedByKeepaliveLength(t *testing.T) {
	var sent [][]byte
	r := newTestRouter(&sent)

	buf := datagram.Encode(0, keepaliveFrame())
	err := r.HandleDatagram(addr(6001), buf)
	require.NoError(t, err)

	clients := r.Clients()
	require.Len(t, clients, 1)
	assert.Equal(t, rtkrouter.RoleRover, clients[0].Role)
}

func TestBaseForwardedToAllRovers(t *testing.T) {
	var sent [][]byte
	r := newTestRouter(&sent)

	require.NoError(t, r.HandleDatagram(addr(6001), datagram.Encode(0, keepaliveFrame())))
	require.NoError(t, r.HandleDatagram(addr(6002), datagram.Encode(0, keepaliveFrame())))

	baseBuf := datagram.Encode(0, baseFrame(1005))
	require.NoError(t, r.HandleDatagram(addr(7001), baseBuf))

	assert.Len(t, sent, 2)
	for _, s := range sent {
		assert.Equal(t, baseBuf, s)
	}
}

func TestConflictingBaseRejected(t *testing.T) {
	var sent [][]byte
	r := newTestRouter(&sent)

	require.NoError(t, r.HandleDatagram(addr(7001), datagram.Encode(0, baseFrame(1005))))
	err := r.HandleDatagram(addr(7002), datagram.Encode(0, baseFrame(1077)))
	assert.ErrorIs(t, err, framer.ErrClassify)
}

func TestClassificationMismatchRejected(t *testing.T) {
	var sent [][]byte
	r := newTestRouter(&sent)

	require.NoError(t, r.HandleDatagram(addr(6001), datagram.Encode(0, keepaliveFrame())))
	err := r.HandleDatagram(addr(6001), datagram.Encode(1, baseFrame(1005)))
	assert.ErrorIs(t, err, framer.ErrClassify)
}

func TestOutOfOrderSequenceRejected(t *testing.T) {
	var sent [][]byte
	r := newTestRouter(&sent)

	require.NoError(t, r.HandleDatagram(addr(6001), datagram.Encode(5, keepaliveFrame())))
	err := r.HandleDatagram(addr(6001), datagram.Encode(4, keepaliveFrame()))
	assert.ErrorIs(t, err, framer.ErrSequence)
}

func TestSweepEvictsStaleBaseAndClearsSlot(t *testing.T) {
	var sent [][]byte
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := rtkrouter.New(10*time.Second, func() time.Time { return current }, func(to netip.AddrPort, buf []byte) error {
		*sent = append(*sent, buf)
		return nil
	})

	require.NoError(t, r.HandleDatagram(addr(7001), datagram.Encode(0, baseFrame(1005))))
	require.Len(t, r.Clients(), 1)

	current = current.Add(20 * time.Second)
	r.Sweep()
	assert.Empty(t, r.Clients())

	// a new base can now be accepted without a classification conflict
	err := r.HandleDatagram(addr(7002), datagram.Encode(0, baseFrame(1077)))
	assert.NoError(t, err)
}
