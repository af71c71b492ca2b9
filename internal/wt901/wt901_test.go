package wt901_test

import (
	"testing"

	"github.com/gnss-tools/hazer-go/internal/wt901"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func le16(v int16) []byte {
	u := uint16(v)
	return []byte{byte(u), byte(u >> 8)}
}

func buildFrame(flag wt901.Flag, values [9]int16) []byte {
	buf := []byte{wt901.Sync, byte(flag)}
	for _, v := range values {
		buf = append(buf, le16(v)...)
	}
	return buf
}

func TestDecodeDataFrame(t *testing.T) {
	values := [9]int16{16384, 0, 0, 8192, 0, 0, 16384, -16384, 0}
	frame := buildFrame(wt901.FlagData, values)

	f, err := wt901.Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, wt901.FlagData, f.Flag)

	accel := f.Acceleration()
	assert.InDelta(t, 8.0, accel[0], 0.01)

	gyro := f.AngularVelocity()
	assert.InDelta(t, 500.0, gyro[0], 0.01)

	angles := f.Angles()
	assert.InDelta(t, 90.0, angles[0], 0.01)
	assert.InDelta(t, -90.0, angles[1], 0.01)
}

func TestDecodeRegisterFrame(t *testing.T) {
	values := [9]int16{0x0050, 2500, 0, 0, 0, 0, 0, 0, 0}
	frame := buildFrame(wt901.FlagRegister, values)

	f, err := wt901.Decode(frame)
	require.NoError(t, err)
	assert.EqualValues(t, 0x0050, f.RegisterAddress())
	assert.InDelta(t, 25.0, f.TemperatureCelsius(), 0.001)
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	_, err := wt901.Decode([]byte{wt901.Sync, byte(wt901.FlagData)})
	assert.Error(t, err)
}

func TestDecodeRejectsBadSync(t *testing.T) {
	frame := buildFrame(wt901.FlagData, [9]int16{})
	frame[0] = 0x00
	_, err := wt901.Decode(frame)
	assert.Error(t, err)
}

func TestDecodeRejectsUnknownFlag(t *testing.T) {
	frame := buildFrame(wt901.FlagData, [9]int16{})
	frame[1] = 0xFF
	_, err := wt901.Decode(frame)
	assert.Error(t, err)
}
