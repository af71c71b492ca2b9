package rtcm

import "github.com/go-gnss/rtcm/rtcm3"

// Name returns a short human-readable name for an RTCM message type, for
// diagnostics and logging (never for protocol decisions — those only ever
// look at MessageType()). Grounded on the teacher's
// internal/parser/rtcm.go GetMessageDescription table, extended with the
// MSM/SSR ranges go-gnss/rtcm's rtcm3 package catalogs.
func Name(msgType int) string {
	switch {
	case msgType == 1005:
		return "Stationary RTK Reference Station ARP"
	case msgType == 1006:
		return "Stationary RTK Reference Station ARP with Antenna Height"
	case msgType == 1019:
		return "GPS Ephemeris"
	case msgType == 1020:
		return "GLONASS Ephemeris"
	case msgType >= 1071 && msgType <= 1077:
		return "GPS MSM"
	case msgType >= 1081 && msgType <= 1087:
		return "GLONASS MSM"
	case msgType >= 1091 && msgType <= 1097:
		return "Galileo MSM"
	case msgType >= 1101 && msgType <= 1107:
		return "SBAS MSM"
	case msgType >= 1111 && msgType <= 1117:
		return "QZSS MSM"
	case msgType >= 1121 && msgType <= 1127:
		return "BeiDou MSM"
	default:
		return "unknown RTCM message type"
	}
}

// StationARP is the subset of a type-1005 station-coordinates message that
// cmd/ntrip-client saves with its -output flag: the reference station's
// ECEF position.
type StationARP struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DecodeStationARP decodes a validated RTCM frame as a type-1005 station
// ARP message, delegating to go-gnss/rtcm's rtcm3 package (the same
// library the teacher's internal/rtk/processor.go uses for message
// deserialization). It returns ok=false for any other message type or any
// frame rtcm3 can't deserialize; callers should treat that as "no station
// label available", never as a framing or integrity failure — CRC-24Q
// already validated the frame before this is called.
func DecodeStationARP(frame []byte) (arp StationARP, ok bool) {
	if MessageType(frame) != 1005 {
		return StationARP{}, false
	}
	msg, err := rtcm3.DeserializeMessage(frame)
	if err != nil {
		return StationARP{}, false
	}
	m1005, ok := msg.(rtcm3.Message1005)
	if !ok {
		return StationARP{}, false
	}
	return StationARP{X: m1005.X, Y: m1005.Y, Z: m1005.Z}, true
}
