package ubx

import "github.com/gnss-tools/hazer-go/internal/framer"

// Message classes and IDs this package decodes (spec.md §4.5). Non-goal:
// the UBX catalog is not reformatted beyond these.
const (
	ClassNAV = 0x01
	ClassRXM = 0x02
	ClassACK = 0x05
	ClassCFG = 0x06
	ClassMON = 0x0A

	IDNavPVT        = 0x07
	IDNavStatus     = 0x03
	IDNavSVIN       = 0x3B
	IDNavHPPOSLLH   = 0x14
	IDNavATT        = 0x05
	IDNavODO        = 0x09
	IDRxmRTCM       = 0x32
	IDCfgValGet     = 0x8B
	IDMonHW         = 0x09
	IDMonVer        = 0x04
	IDMonComms      = 0x36
	IDAckAck        = 0x01
	IDAckNak        = 0x00
)

// JammingState is MON-HW's jamming indicator classification.
type JammingState int

const (
	JammingUnknown JammingState = iota
	JammingNone
	JammingWarning
	JammingCritical
)

// MonHW is NAV-independent receiver health: jamming/interference state.
type MonHW struct {
	Jamming          JammingState
	JammingIndicator uint8
	Flags            uint32
}

// DecodeMonHW decodes a MON-HW payload.
func DecodeMonHW(payload []byte) (MonHW, error) {
	if len(payload) < 60 {
		return MonHW{}, framer.ErrLength
	}
	var m MonHW
	m.Flags = u32(payload, 0)
	jamState := (m.Flags >> 2) & 0x3
	switch jamState {
	case 0:
		m.Jamming = JammingUnknown
	case 1:
		m.Jamming = JammingNone
	case 2:
		m.Jamming = JammingWarning
	case 3:
		m.Jamming = JammingCritical
	}
	m.JammingIndicator = u8(payload, 45)
	return m, nil
}

// SpoofingState is NAV-STATUS's spoofing-detection classification.
type SpoofingState int

const (
	SpoofingUnknown SpoofingState = iota
	SpoofingNone
	SpoofingOneIndicator
	SpoofingManyIndicators
)

// NavStatus is NAV-STATUS: fix type, time-to-first-fix, spoofing state.
type NavStatus struct {
	FixType  uint8
	Flags    uint8
	TTFFMs   uint32
	MsssMs   uint32
	Spoofing SpoofingState
}

// DecodeNavStatus decodes a NAV-STATUS payload.
func DecodeNavStatus(payload []byte) (NavStatus, error) {
	if len(payload) < 16 {
		return NavStatus{}, framer.ErrLength
	}
	var s NavStatus
	s.FixType = u8(payload, 4)
	s.Flags = u8(payload, 5)
	flags2 := u8(payload, 6)
	s.TTFFMs = u32(payload, 8)
	s.MsssMs = u32(payload, 12)
	switch (flags2 >> 3) & 0x3 {
	case 0:
		s.Spoofing = SpoofingUnknown
	case 1:
		s.Spoofing = SpoofingNone
	case 2:
		s.Spoofing = SpoofingOneIndicator
	case 3:
		s.Spoofing = SpoofingManyIndicators
	}
	return s, nil
}

// NavSVIN is NAV-SVIN: survey-in progress.
type NavSVIN struct {
	Active         bool
	Valid          bool
	Observations   uint32
	MeanAccuracy01mm uint32 // 0.1 mm units, per spec.md §4.5/§9
}

// DecodeNavSVIN decodes a NAV-SVIN payload.
func DecodeNavSVIN(payload []byte) (NavSVIN, error) {
	if len(payload) < 40 {
		return NavSVIN{}, framer.ErrLength
	}
	var s NavSVIN
	s.Observations = u32(payload, 28)
	s.MeanAccuracy01mm = u32(payload, 28+4+4)
	s.Active = payload[36] != 0
	s.Valid = payload[37] != 0
	return s, nil
}

// NavHPPOSLLH is NAV-HPPOSLLH: high-precision position.
type NavHPPOSLLH struct {
	LongitudeNanodegrees int64
	LatitudeNanodegrees  int64
	HeightDecimillimeters    int64 // ellipsoidal height
	HMSLDecimillimeters      int64 // height above mean sea level
	HorizontalAccuracyDecimillimeters uint32
	VerticalAccuracyDecimillimeters   uint32
}

// DecodeNavHPPOSLLH decodes a NAV-HPPOSLLH payload. Longitude/latitude
// combine a coarse int32 (1e-7 degrees) with a signed fine byte (1e-9
// degrees) into nanodegrees, per the u-blox interface description.
func DecodeNavHPPOSLLH(payload []byte) (NavHPPOSLLH, error) {
	if len(payload) < 36 {
		return NavHPPOSLLH{}, framer.ErrLength
	}
	var n NavHPPOSLLH
	lonCoarse := int64(i32(payload, 8))
	latCoarse := int64(i32(payload, 12))
	heightCoarse := int64(i32(payload, 16))
	hmslCoarse := int64(i32(payload, 20))
	lonFine := int64(i8(payload, 24))
	latFine := int64(i8(payload, 25))
	heightFine := int64(i8(payload, 26))
	hmslFine := int64(i8(payload, 27))

	n.LongitudeNanodegrees = lonCoarse*100 + lonFine
	n.LatitudeNanodegrees = latCoarse*100 + latFine
	n.HeightDecimillimeters = heightCoarse*10 + heightFine
	n.HMSLDecimillimeters = hmslCoarse*10 + hmslFine
	n.HorizontalAccuracyDecimillimeters = u32(payload, 28)
	n.VerticalAccuracyDecimillimeters = u32(payload, 32)
	return n, nil
}

// NavATT is NAV-ATT: roll/pitch/heading attitude.
type NavATT struct {
	RollE5    int32
	PitchE5   int32
	HeadingE5 int32
	AccRollE5    uint32
	AccPitchE5   uint32
	AccHeadingE5 uint32
}

// DecodeNavATT decodes a NAV-ATT payload (angles in 1e-5 degree units).
func DecodeNavATT(payload []byte) (NavATT, error) {
	if len(payload) < 32 {
		return NavATT{}, framer.ErrLength
	}
	var a NavATT
	a.RollE5 = i32(payload, 8)
	a.PitchE5 = i32(payload, 12)
	a.HeadingE5 = i32(payload, 16)
	a.AccRollE5 = u32(payload, 20)
	a.AccPitchE5 = u32(payload, 24)
	a.AccHeadingE5 = u32(payload, 28)
	return a, nil
}

// NavODO is NAV-ODO: odometer distance.
type NavODO struct {
	DistanceMeters      uint32
	TotalDistanceMeters uint32
	DistanceStdMeters   uint32
}

// DecodeNavODO decodes a NAV-ODO payload.
func DecodeNavODO(payload []byte) (NavODO, error) {
	if len(payload) < 20 {
		return NavODO{}, framer.ErrLength
	}
	var o NavODO
	o.DistanceMeters = u32(payload, 4)
	o.TotalDistanceMeters = u32(payload, 8)
	o.DistanceStdMeters = u32(payload, 12)
	return o, nil
}

// NavPVT is NAV-PVT: the combined position/velocity/time/fix solution.
type NavPVT struct {
	FixType           uint8
	Flags             uint8
	NumSV             uint8
	LongitudeE7       int32
	LatitudeE7        int32
	HeightMillimeters int32
	HMSLMillimeters   int32
	VelNorthMmPerSec  int32
	VelEastMmPerSec   int32
	VelDownMmPerSec   int32
	GSpeedMmPerSec    int32
	HeadMotionE5      int32
	PDOPCenti         uint16
}

// DecodeNavPVT decodes a NAV-PVT payload.
func DecodeNavPVT(payload []byte) (NavPVT, error) {
	if len(payload) < 92 {
		return NavPVT{}, framer.ErrLength
	}
	var p NavPVT
	p.FixType = u8(payload, 20)
	p.Flags = u8(payload, 21)
	p.NumSV = u8(payload, 23)
	p.LongitudeE7 = i32(payload, 24)
	p.LatitudeE7 = i32(payload, 28)
	p.HeightMillimeters = i32(payload, 32)
	p.HMSLMillimeters = i32(payload, 36)
	p.VelNorthMmPerSec = i32(payload, 48)
	p.VelEastMmPerSec = i32(payload, 52)
	p.VelDownMmPerSec = i32(payload, 56)
	p.GSpeedMmPerSec = i32(payload, 60)
	p.HeadMotionE5 = i32(payload, 64)
	p.PDOPCenti = u16(payload, 76)
	return p, nil
}

// RTCMStatus is RXM-RTCM's DGNSS correction acceptance status.
type RTCMStatus int

const (
	RTCMNotUsed RTCMStatus = iota
	RTCMUsed
)

// RxmRTCM is RXM-RTCM: acceptance status of a just-received RTCM
// correction.
type RxmRTCM struct {
	Status  RTCMStatus
	MsgType uint16
}

// DecodeRxmRTCM decodes an RXM-RTCM payload.
func DecodeRxmRTCM(payload []byte) (RxmRTCM, error) {
	if len(payload) < 8 {
		return RxmRTCM{}, framer.ErrLength
	}
	var r RxmRTCM
	flags := u8(payload, 1)
	if flags&0x1 != 0 {
		r.Status = RTCMUsed
	}
	r.MsgType = u16(payload, 6)
	return r, nil
}

// ConfigLayer is a CFG-VALGET storage layer.
type ConfigLayer int

const (
	LayerRAM ConfigLayer = iota
	LayerBBR
	LayerNVM
	LayerROM
)

// ConfigValue is one key/value pair enumerated from CFG-VALGET.
type ConfigValue struct {
	Key   uint32
	Value []byte // 1, 2, 4, or 8 bytes depending on the key's size field
}

// DecodeCfgValGet decodes a CFG-VALGET payload into its configuration
// layer and key/value pairs.
func DecodeCfgValGet(payload []byte) (ConfigLayer, []ConfigValue, error) {
	if len(payload) < 4 {
		return 0, nil, framer.ErrLength
	}
	layer := ConfigLayer(payload[2])
	var values []ConfigValue
	off := 4
	for off+4 <= len(payload) {
		key := u32(payload, off)
		size := valueSize(key)
		if off+4+size > len(payload) {
			break
		}
		values = append(values, ConfigValue{Key: key, Value: payload[off+4 : off+4+size]})
		off += 4 + size
	}
	return layer, values, nil
}

// valueSize decodes the storage-size nibble the u-blox key ID encodes.
func valueSize(key uint32) int {
	switch (key >> 28) & 0x7 {
	case 1:
		return 1
	case 2:
		return 1
	case 3:
		return 2
	case 4:
		return 4
	case 5:
		return 8
	default:
		return 4
	}
}

// MonVer is MON-VER: software/hardware identification strings.
type MonVer struct {
	SoftwareVersion string
	HardwareVersion string
	Extensions      []string
}

// DecodeMonVer decodes a MON-VER payload.
func DecodeMonVer(payload []byte) (MonVer, error) {
	if len(payload) < 40 {
		return MonVer{}, framer.ErrLength
	}
	var m MonVer
	m.SoftwareVersion = cString(payload[0:30])
	m.HardwareVersion = cString(payload[30:40])
	for off := 40; off+30 <= len(payload); off += 30 {
		m.Extensions = append(m.Extensions, cString(payload[off:off+30]))
	}
	return m, nil
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// PortStats is one MON-COMMS port's byte/message counters.
type PortStats struct {
	PortID     uint16
	TxPending  uint16
	TxBytes    uint32
	RxPending  uint16
	RxBytes    uint32
	OverrunErrors bool
	MsgCounts  [4]uint16
}

// MonComms is MON-COMMS: per-port traffic counters.
type MonComms struct {
	Ports []PortStats
}

// DecodeMonComms decodes a MON-COMMS payload.
func DecodeMonComms(payload []byte) (MonComms, error) {
	if len(payload) < 8 {
		return MonComms{}, framer.ErrLength
	}
	nPorts := int(payload[1])
	var m MonComms
	off := 8
	const portSize = 40
	for i := 0; i < nPorts && off+portSize <= len(payload); i++ {
		p := PortStats{
			PortID:    u16(payload, off),
			TxPending: u16(payload, off+2),
			TxBytes:   u32(payload, off+4),
			RxPending: u16(payload, off+8),
			RxBytes:   u32(payload, off+12),
		}
		overrun := u32(payload, off+16)
		p.OverrunErrors = overrun != 0
		for j := 0; j < 4; j++ {
			p.MsgCounts[j] = u16(payload, off+20+2*j)
		}
		m.Ports = append(m.Ports, p)
		off += portSize
	}
	return m, nil
}

// Ack is the outcome of ACK-ACK/ACK-NAK: the class+id of the acknowledged
// command, and whether it was accepted.
type Ack struct {
	Class    uint8
	ID       uint8
	Accepted bool
}

// DecodeAck decodes an ACK-ACK or ACK-NAK payload given the message ID
// that framed it (IDAckAck or IDAckNak).
func DecodeAck(msgID uint8, payload []byte) (Ack, error) {
	if len(payload) < 2 {
		return Ack{}, framer.ErrLength
	}
	return Ack{Class: payload[0], ID: payload[1], Accepted: msgID == IDAckAck}, nil
}
