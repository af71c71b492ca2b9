package ubx_test

import (
	"testing"

	"github.com/gnss-tools/hazer-go/internal/framer"
	"github.com/gnss-tools/hazer-go/internal/ubx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildFrame assembles a complete UBX wire frame (sync, class, id, length,
// payload, checksum) for feeding through the framer one byte at a time.
func buildFrame(class, id byte, payload []byte) []byte {
	length := []byte{byte(len(payload)), byte(len(payload) >> 8)}
	region := append(append([]byte{class, id}, length...), payload...)
	ckA, ckB := ubx.Fletcher16(region)
	frame := append([]byte{ubx.Sync1, ubx.Sync2}, region...)
	return append(frame, ckA, ckB)
}

func feed(t *testing.T, frame []byte) *ubx.Framer {
	t.Helper()
	f := ubx.New()
	var last framer.State
	for _, b := range frame {
		last = f.Step(b)
	}
	require.Equal(t, framer.END, last, "framer error: %v", f.Err())
	return f
}

func TestZeroLengthPayload(t *testing.T) {
	frame := buildFrame(0x01, 0x07, nil)
	f := feed(t, frame)

	n, err := ubx.Validate(f.Buffer()[:f.Size()])
	require.NoError(t, err)
	assert.Equal(t, 0x01, int(ubx.Class(f.Buffer()[:n])))
	assert.Equal(t, 0x07, int(ubx.ID(f.Buffer()[:n])))
	assert.Empty(t, ubx.Payload(f.Buffer()[:n]))
}

func TestPayloadRoundTrip(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x02}
	frame := buildFrame(0x01, 0x07, payload)
	f := feed(t, frame)

	n, err := ubx.Validate(f.Buffer()[:f.Size()])
	require.NoError(t, err)
	assert.Equal(t, payload, ubx.Payload(f.Buffer()[:n]))
}

func TestBadChecksumRejected(t *testing.T) {
	frame := buildFrame(0x01, 0x07, []byte{0x01, 0x02})
	frame[len(frame)-1] ^= 0xFF

	f := ubx.New()
	var last framer.State
	for _, b := range frame {
		last = f.Step(b)
	}
	assert.Equal(t, framer.STOP, last)
	assert.ErrorIs(t, f.Err(), framer.ErrIntegrity)
}

func TestWrongSync2Resyncs(t *testing.T) {
	f := ubx.New()
	assert.NotContains(t, []framer.State{framer.STOP, framer.START, framer.END}, f.Step(ubx.Sync1))
	state := f.Step(0x00) // not Sync2
	assert.Equal(t, framer.STOP, state)
	assert.ErrorIs(t, f.Err(), framer.ErrFraming)
}
