package nmea

import (
	"fmt"

	"github.com/gnss-tools/hazer-go/internal/coordinates"
	"github.com/gnss-tools/hazer-go/internal/domain"
	"github.com/gnss-tools/hazer-go/internal/framer"
	"github.com/gnss-tools/hazer-go/internal/system"
)

// PUBXTimeResult is the outcome of parsing a PUBX,04 time message. Refresh
// reports whether the caller should treat the message as refreshing a
// position's expiry: the source chooses not to when the time is
// synthesized without a valid fix (spec.md §9 Open Question).
type PUBXTimeResult struct {
	UTCNanoseconds int64
	DMYNanoseconds int64
	Refresh        bool
}

// ParsePUBX dispatches a proprietary $PUBX sentence by its id field (field
// 0 of the PUBX payload, not to be confused with the "PUBX" talker+type
// itself).
func ParsePUBX(s Sentence) (id string, err error) {
	if s.Talker+s.Type != "PUBX" {
		return "", fmt.Errorf("nmea: not a PUBX sentence: %w", framer.ErrContent)
	}
	if len(s.Fields) == 0 {
		return "", fmt.Errorf("nmea: PUBX: missing id field: %w", framer.ErrContent)
	}
	return s.Fields[0], nil
}

// ParsePUBX00 decodes PUBX,00 (position) into a Position: time, latitude,
// longitude, altitude, navigation status as Quality, and a satellite
// count. The DOP fields are not decoded and Safety is left unset.
// s.Fields[0] is the "00" id; data starts at s.Fields[1].
func ParsePUBX00(s Sentence) (domain.Position, error) {
	f := s.Fields
	if len(f) < 15 {
		return domain.Position{}, fmt.Errorf("nmea: PUBX00: %w: need 15 fields, got %d", framer.ErrContent, len(f))
	}
	var pos domain.Position
	pos.Label = "PUBX00"
	pos.System = system.GNSS

	pos.UTCNanoseconds = coordinates.UnsetNanoseconds
	if utc, err := ParseTimeOfDay(f[1]); err == nil {
		pos.UTCNanoseconds = utc
	}
	lat, digits, err := coordinates.ParseLatLon(f[2], byteAt(f[3]))
	if err == nil {
		pos.LatitudeNanominutes = lat
		pos.DigitsLatLon = digits
	}
	lon, _, err := coordinates.ParseLatLon(f[4], byteAt(f[5]))
	if err == nil {
		pos.LongitudeNanominutes = lon
	}
	pos.AltitudeMillimeters = int64(atofOr(f[6], 0) * 1000)

	switch f[7] {
	case "NF":
		pos.Quality = system.QualityNoFix
	case "DR":
		pos.Quality = system.QualityEstimated
	case "G2", "G3":
		pos.Quality = system.QualityAutonomous
	case "D2", "D3":
		pos.Quality = system.QualityDifferential
	case "RK":
		pos.Quality = system.QualityRTKFixed
	case "TT":
		pos.Quality = system.QualityManual
	default:
		pos.Quality = system.QualityNoFix
	}

	pos.SatellitesUsed = atoiOr(f[14], 0)
	return pos, nil
}

// SatelliteStatus flags the e/U/- tracking-status character PUBX,03
// reports per satellite.
type SatelliteStatus int

const (
	SatelliteNotUsed SatelliteStatus = iota
	SatelliteEphemeris
	SatelliteUsed
)

// PUBX03Satellite is one row of a PUBX,03 (satellite status) sentence.
type PUBX03Satellite struct {
	ID        int
	Status    SatelliteStatus
	Azimuth   int
	Elevation int
	SNR       int
}

// ParsePUBX03 decodes PUBX,03 into the per-satellite status rows.
func ParsePUBX03(s Sentence) ([]PUBX03Satellite, error) {
	f := s.Fields
	if len(f) < 2 {
		return nil, fmt.Errorf("nmea: PUBX03: %w", framer.ErrContent)
	}
	count := atoiOr(f[1], 0)
	var out []PUBX03Satellite
	const fieldsPerRow = 6
	base := 2
	for i := 0; i < count && base+fieldsPerRow-1 < len(f); i++ {
		row := PUBX03Satellite{
			ID:        atoiOr(f[base], 0),
			Azimuth:   atoiOr(f[base+2], 0),
			Elevation: atoiOr(f[base+3], 0),
			SNR:       atoiOr(f[base+4], 0),
		}
		switch f[base+1] {
		case "e":
			row.Status = SatelliteEphemeris
		case "U":
			row.Status = SatelliteUsed
		default:
			row.Status = SatelliteNotUsed
		}
		out = append(out, row)
		base += fieldsPerRow
	}
	return out, nil
}

// ParsePUBX04 decodes PUBX,04 (time) into a PUBXTimeResult. When usage is
// "N" (no valid fix) the device still reports a synthesized time, but a
// receiver of that time should not refresh a position's expiry on its
// account (spec.md §9 Open Question — preserved from the original
// verbatim).
func ParsePUBX04(s Sentence) (PUBXTimeResult, error) {
	f := s.Fields
	if len(f) < 3 {
		return PUBXTimeResult{}, fmt.Errorf("nmea: PUBX04: %w", framer.ErrContent)
	}
	var res PUBXTimeResult
	if utc, err := ParseTimeOfDay(f[1]); err == nil {
		res.UTCNanoseconds = utc
	}
	if dmy, err := ParseDate(f[2]); err == nil {
		res.DMYNanoseconds = dmy
	}

	res.Refresh = true
	if usage := lastNonEmpty(f); usage == "N" {
		res.Refresh = false
	}
	return res, nil
}

func lastNonEmpty(f []string) string {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] != "" {
			return f[i]
		}
	}
	return ""
}
