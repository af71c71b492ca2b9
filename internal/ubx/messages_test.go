package ubx_test

import (
	"encoding/binary"
	"testing"

	"github.com/gnss-tools/hazer-go/internal/framer"
	"github.com/gnss-tools/hazer-go/internal/ubx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func le16At(buf []byte, off int, v uint16) { binary.LittleEndian.PutUint16(buf[off:], v) }
func le32At(buf []byte, off int, v uint32) { binary.LittleEndian.PutUint32(buf[off:], v) }

func TestDecodeMonHW(t *testing.T) {
	payload := make([]byte, 60)
	le32At(payload, 0, uint32(JammingCriticalFlags))
	payload[45] = 0x7F

	m, err := ubx.DecodeMonHW(payload)
	require.NoError(t, err)
	assert.Equal(t, ubx.JammingCritical, m.Jamming)
	assert.Equal(t, uint8(0x7F), m.JammingIndicator)
}

// JammingCriticalFlags sets bits 2-3 of the flags word to 0b11 (critical).
const JammingCriticalFlags = 0x3 << 2

func TestDecodeMonHWRejectsShortPayload(t *testing.T) {
	_, err := ubx.DecodeMonHW(make([]byte, 10))
	assert.ErrorIs(t, err, framer.ErrLength)
}

func TestDecodeNavStatus(t *testing.T) {
	payload := make([]byte, 16)
	payload[4] = 3 // FixType
	payload[5] = 0x01
	payload[6] = 0x3 << 3 // spoofing bits -> SpoofingManyIndicators
	le32At(payload, 8, 1234)
	le32At(payload, 12, 5678)

	s, err := ubx.DecodeNavStatus(payload)
	require.NoError(t, err)
	assert.Equal(t, uint8(3), s.FixType)
	assert.Equal(t, uint32(1234), s.TTFFMs)
	assert.Equal(t, uint32(5678), s.MsssMs)
	assert.Equal(t, ubx.SpoofingManyIndicators, s.Spoofing)
}

func TestDecodeNavSVIN(t *testing.T) {
	payload := make([]byte, 40)
	le32At(payload, 28, 99)
	payload[36] = 1
	payload[37] = 1

	s, err := ubx.DecodeNavSVIN(payload)
	require.NoError(t, err)
	assert.Equal(t, uint32(99), s.Observations)
	assert.True(t, s.Active)
	assert.True(t, s.Valid)
}

func TestDecodeNavHPPOSLLH(t *testing.T) {
	payload := make([]byte, 36)
	le32At(payload, 8, uint32(int32(-1234567)))  // lon coarse
	le32At(payload, 12, uint32(int32(7654321)))  // lat coarse
	le32At(payload, 16, uint32(int32(100000)))   // height coarse
	le32At(payload, 20, uint32(int32(90000)))    // hMSL coarse
	payload[24] = 0x05                           // lon fine
	payload[25] = 0xFB                           // lat fine (-5, two's complement)
	payload[26] = 0x02                           // height fine
	payload[27] = 0x00                           // hMSL fine
	le32At(payload, 28, 123)                     // horizontal acc
	le32At(payload, 32, 456)                     // vertical acc

	n, err := ubx.DecodeNavHPPOSLLH(payload)
	require.NoError(t, err)
	assert.Equal(t, int64(-1234567)*100+5, n.LongitudeNanodegrees)
	assert.Equal(t, int64(7654321)*100+int64(-5), n.LatitudeNanodegrees)
	assert.Equal(t, int64(100000)*10+2, n.HeightDecimillimeters)
	assert.Equal(t, int64(90000)*10, n.HMSLDecimillimeters)
	assert.Equal(t, uint32(123), n.HorizontalAccuracyDecimillimeters)
	assert.Equal(t, uint32(456), n.VerticalAccuracyDecimillimeters)
}

func TestDecodeNavATT(t *testing.T) {
	payload := make([]byte, 32)
	le32At(payload, 8, uint32(int32(11111)))
	le32At(payload, 12, uint32(int32(-22222)))
	le32At(payload, 16, uint32(int32(33333)))
	le32At(payload, 20, 1)
	le32At(payload, 24, 2)
	le32At(payload, 28, 3)

	a, err := ubx.DecodeNavATT(payload)
	require.NoError(t, err)
	assert.Equal(t, int32(11111), a.RollE5)
	assert.Equal(t, int32(-22222), a.PitchE5)
	assert.Equal(t, int32(33333), a.HeadingE5)
	assert.Equal(t, uint32(1), a.AccRollE5)
	assert.Equal(t, uint32(2), a.AccPitchE5)
	assert.Equal(t, uint32(3), a.AccHeadingE5)
}

func TestDecodeNavODO(t *testing.T) {
	payload := make([]byte, 20)
	le32At(payload, 4, 100)
	le32At(payload, 8, 50000)
	le32At(payload, 12, 5)

	o, err := ubx.DecodeNavODO(payload)
	require.NoError(t, err)
	assert.Equal(t, uint32(100), o.DistanceMeters)
	assert.Equal(t, uint32(50000), o.TotalDistanceMeters)
	assert.Equal(t, uint32(5), o.DistanceStdMeters)
}

func TestDecodeNavPVT(t *testing.T) {
	payload := make([]byte, 92)
	payload[20] = 3 // FixType 3D
	payload[21] = 0x01
	payload[23] = 12 // NumSV
	le32At(payload, 24, uint32(int32(-1234567890)))
	le32At(payload, 28, uint32(int32(987654321)))
	le32At(payload, 32, uint32(int32(150000))) // height, millimeters
	le32At(payload, 36, uint32(int32(140000))) // hMSL, millimeters
	le32At(payload, 48, uint32(int32(10)))
	le32At(payload, 52, uint32(int32(20)))
	le32At(payload, 56, uint32(int32(-5)))
	le32At(payload, 60, uint32(int32(25)))
	le32At(payload, 64, uint32(int32(4500000)))
	le16At(payload, 76, 150)

	p, err := ubx.DecodeNavPVT(payload)
	require.NoError(t, err)
	assert.Equal(t, uint8(3), p.FixType)
	assert.Equal(t, uint8(12), p.NumSV)
	assert.Equal(t, int32(-1234567890), p.LongitudeE7)
	assert.Equal(t, int32(987654321), p.LatitudeE7)
	// HeightMillimeters/HMSLMillimeters are the wire field verbatim in
	// millimeters (UBX-NAV-PVT offsets 32/36) — no additional scaling.
	assert.Equal(t, int32(150000), p.HeightMillimeters)
	assert.Equal(t, int32(140000), p.HMSLMillimeters)
	assert.Equal(t, int32(10), p.VelNorthMmPerSec)
	assert.Equal(t, int32(20), p.VelEastMmPerSec)
	assert.Equal(t, int32(-5), p.VelDownMmPerSec)
	assert.Equal(t, int32(25), p.GSpeedMmPerSec)
	assert.Equal(t, int32(4500000), p.HeadMotionE5)
	assert.Equal(t, uint16(150), p.PDOPCenti)
}

func TestDecodeNavPVTRejectsShortPayload(t *testing.T) {
	_, err := ubx.DecodeNavPVT(make([]byte, 91))
	assert.ErrorIs(t, err, framer.ErrLength)
}

func TestDecodeRxmRTCM(t *testing.T) {
	payload := make([]byte, 8)
	payload[1] = 0x1 // used flag
	le16At(payload, 6, 1005)

	r, err := ubx.DecodeRxmRTCM(payload)
	require.NoError(t, err)
	assert.Equal(t, ubx.RTCMUsed, r.Status)
	assert.Equal(t, uint16(1005), r.MsgType)
}

func TestDecodeCfgValGet(t *testing.T) {
	payload := []byte{0x00, 0x00, byte(ubx.LayerRAM), 0x00}
	// One 1-byte-valued key (size nibble 0x1), value 0x42.
	key1 := uint32(0x10000000 | 0x0001)
	payload = binary.LittleEndian.AppendUint32(payload, key1)
	payload = append(payload, 0x42)
	// One 4-byte-valued key (size nibble 0x4), value 0xAABBCCDD.
	key2 := uint32(0x40000000 | 0x0002)
	payload = binary.LittleEndian.AppendUint32(payload, key2)
	payload = binary.LittleEndian.AppendUint32(payload, 0xAABBCCDD)

	layer, values, err := ubx.DecodeCfgValGet(payload)
	require.NoError(t, err)
	assert.Equal(t, ubx.LayerRAM, layer)
	require.Len(t, values, 2)
	assert.Equal(t, key1, values[0].Key)
	assert.Equal(t, []byte{0x42}, values[0].Value)
	assert.Equal(t, key2, values[1].Key)
	assert.Equal(t, []byte{0xDD, 0xCC, 0xBB, 0xAA}, values[1].Value)
}

func TestDecodeMonVer(t *testing.T) {
	payload := make([]byte, 40+30)
	copy(payload[0:30], "ROM BASE 1.00\x00")
	copy(payload[30:40], "000A0000\x00")
	copy(payload[40:70], "FWVER=HPG 1.13\x00")

	m, err := ubx.DecodeMonVer(payload)
	require.NoError(t, err)
	assert.Equal(t, "ROM BASE 1.00", m.SoftwareVersion)
	assert.Equal(t, "000A0000", m.HardwareVersion)
	require.Len(t, m.Extensions, 1)
	assert.Equal(t, "FWVER=HPG 1.13", m.Extensions[0])
}

func TestDecodeMonComms(t *testing.T) {
	payload := make([]byte, 8+40)
	payload[1] = 1 // nPorts
	const off = 8
	le16At(payload, off, 0x0103) // PortID
	le16At(payload, off+2, 5)    // TxPending
	le32At(payload, off+4, 1000) // TxBytes
	le16At(payload, off+8, 6)    // RxPending
	le32At(payload, off+12, 2000) // RxBytes
	le32At(payload, off+16, 1)    // overrun

	m, err := ubx.DecodeMonComms(payload)
	require.NoError(t, err)
	require.Len(t, m.Ports, 1)
	p := m.Ports[0]
	assert.Equal(t, uint16(0x0103), p.PortID)
	assert.Equal(t, uint16(5), p.TxPending)
	assert.Equal(t, uint32(1000), p.TxBytes)
	assert.Equal(t, uint16(6), p.RxPending)
	assert.Equal(t, uint32(2000), p.RxBytes)
	assert.True(t, p.OverrunErrors)
}

func TestDecodeAck(t *testing.T) {
	a, err := ubx.DecodeAck(ubx.IDAckAck, []byte{ubx.ClassNAV, ubx.IDNavPVT})
	require.NoError(t, err)
	assert.True(t, a.Accepted)
	assert.Equal(t, uint8(ubx.ClassNAV), a.Class)
	assert.Equal(t, uint8(ubx.IDNavPVT), a.ID)

	n, err := ubx.DecodeAck(ubx.IDAckNak, []byte{ubx.ClassNAV, ubx.IDNavPVT})
	require.NoError(t, err)
	assert.False(t, n.Accepted)
}

func TestDecodeAckRejectsShortPayload(t *testing.T) {
	_, err := ubx.DecodeAck(ubx.IDAckAck, []byte{0x01})
	assert.ErrorIs(t, err, framer.ErrLength)
}

// TestDecodeNavPVTEndToEnd feeds a full framed NAV-PVT message through
// the multiplexer-facing Validate/Class/ID/Payload surface, then decodes
// it, exercising the complete path cmd/gpstool's HandleUBX now drives.
func TestDecodeNavPVTEndToEnd(t *testing.T) {
	payload := make([]byte, 92)
	payload[20] = 3
	payload[23] = 8
	le32At(payload, 24, uint32(int32(-776543210)))
	le32At(payload, 28, uint32(int32(512345678)))
	le32At(payload, 32, uint32(int32(50000)))
	le32At(payload, 36, uint32(int32(48000)))

	frame := buildFrame(ubx.ClassNAV, ubx.IDNavPVT, payload)
	f := feed(t, frame)

	n, err := ubx.Validate(f.Buffer()[:f.Size()])
	require.NoError(t, err)
	require.Equal(t, byte(ubx.ClassNAV), ubx.Class(f.Buffer()[:n]))
	require.Equal(t, byte(ubx.IDNavPVT), ubx.ID(f.Buffer()[:n]))

	p, err := ubx.DecodeNavPVT(ubx.Payload(f.Buffer()[:n]))
	require.NoError(t, err)
	assert.Equal(t, uint8(8), p.NumSV)
	assert.Equal(t, int32(50000), p.HeightMillimeters)
}
