package nmea

import (
	"fmt"
	"strconv"

	"github.com/gnss-tools/hazer-go/internal/coordinates"
	"github.com/gnss-tools/hazer-go/internal/domain"
	"github.com/gnss-tools/hazer-go/internal/framer"
	"github.com/gnss-tools/hazer-go/internal/system"
)

// field returns fields[i] or "" if the sentence didn't supply that many
// fields (some optional trailing fields are routinely omitted).
func field(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func atofOr(s string, def float64) float64 {
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

// ParseGGA decodes a GGA (fix data) sentence into a Position.
func ParseGGA(s Sentence) (domain.Position, error) {
	f := s.Fields
	if len(f) < 14 {
		return domain.Position{}, fmt.Errorf("nmea: GGA: %w: need 14 fields, got %d", framer.ErrContent, len(f))
	}
	var pos domain.Position
	pos.System = system.TalkerToSystem(s.Talker)
	pos.Label = s.Name()

	utc, err := ParseTimeOfDay(field(f, 0))
	if err != nil {
		return domain.Position{}, fmt.Errorf("nmea: GGA: %w", framer.ErrContent)
	}
	pos.UTCNanoseconds = utc

	lat, digits, err := coordinates.ParseLatLon(field(f, 1), byteAt(field(f, 2)))
	if err != nil {
		return domain.Position{}, fmt.Errorf("nmea: GGA: %w", framer.ErrContent)
	}
	pos.LatitudeNanominutes = lat
	pos.DigitsLatLon = digits

	lon, _, err := coordinates.ParseLatLon(field(f, 3), byteAt(field(f, 4)))
	if err != nil {
		return domain.Position{}, fmt.Errorf("nmea: GGA: %w", framer.ErrContent)
	}
	pos.LongitudeNanominutes = lon

	pos.Quality = system.ParseQuality(atoiOr(field(f, 5), 0))
	pos.SatellitesUsed = atoiOr(field(f, 6), 0)
	pos.AltitudeMillimeters = int64(atofOr(field(f, 8), 0) * 1000)
	pos.SeparationMillimeters = int64(atofOr(field(f, 10), 0) * 1000)

	return pos, nil
}

func byteAt(s string) byte {
	if len(s) == 0 {
		return 0
	}
	return s[0]
}

// ParseRMC decodes an RMC (recommended minimum) sentence. A status of 'V'
// (void) with a mode in {A, D} is accepted with reduced confidence; a
// status of 'V' with any other mode fails (spec.md §4.5, scenario #2).
func ParseRMC(s Sentence) (domain.Position, error) {
	f := s.Fields
	if len(f) < 11 {
		return domain.Position{}, fmt.Errorf("nmea: RMC: %w: need 11 fields, got %d", framer.ErrContent, len(f))
	}
	status := byteAt(field(f, 1))
	modeField := system.Mode(byteAt(field(f, 11)))

	if status == 'V' {
		switch modeField {
		case system.ModeAutonomous, system.ModeDifferential:
			// accepted with reduced confidence
		default:
			return domain.Position{}, fmt.Errorf("nmea: RMC: void status with mode %q: %w", string(modeField), framer.ErrContent)
		}
	} else if status != 'A' {
		return domain.Position{}, fmt.Errorf("nmea: RMC: unrecognized status %q: %w", string(status), framer.ErrContent)
	}

	var pos domain.Position
	pos.System = system.TalkerToSystem(s.Talker)
	pos.Label = s.Name()

	utc, err := ParseTimeOfDay(field(f, 0))
	if err != nil {
		return domain.Position{}, fmt.Errorf("nmea: RMC: %w", framer.ErrContent)
	}
	pos.UTCNanoseconds = utc

	lat, digits, err := coordinates.ParseLatLon(field(f, 2), byteAt(field(f, 3)))
	if err != nil {
		return domain.Position{}, fmt.Errorf("nmea: RMC: %w", framer.ErrContent)
	}
	pos.LatitudeNanominutes = lat
	pos.DigitsLatLon = digits

	lon, _, err := coordinates.ParseLatLon(field(f, 4), byteAt(field(f, 5)))
	if err != nil {
		return domain.Position{}, fmt.Errorf("nmea: RMC: %w", framer.ErrContent)
	}
	pos.LongitudeNanominutes = lon

	sog := atofOr(field(f, 6), 0)
	pos.SpeedMicroknots = int64(sog * 1_000_000)
	cog := atofOr(field(f, 7), 0)
	pos.CourseNanodegrees = int64(cog * 1_000_000_000)

	if dmy, err := ParseDate(field(f, 8)); err == nil {
		pos.DMYNanoseconds = dmy
		pos.TOTNanoseconds = dmy + utc
	}

	pos.Safety = system.SafetyFromMode(modeField)
	if status == 'V' {
		pos.Quality = system.QualityEstimated
	} else {
		pos.Quality = system.QualityAutonomous
	}

	return pos, nil
}

// ParseGLL decodes a GLL (geographic position) sentence.
func ParseGLL(s Sentence) (domain.Position, error) {
	f := s.Fields
	if len(f) < 6 {
		return domain.Position{}, fmt.Errorf("nmea: GLL: %w: need 6 fields, got %d", framer.ErrContent, len(f))
	}
	var pos domain.Position
	pos.System = system.TalkerToSystem(s.Talker)
	pos.Label = s.Name()

	lat, digits, err := coordinates.ParseLatLon(field(f, 0), byteAt(field(f, 1)))
	if err != nil {
		return domain.Position{}, fmt.Errorf("nmea: GLL: %w", framer.ErrContent)
	}
	pos.LatitudeNanominutes = lat
	pos.DigitsLatLon = digits

	lon, _, err := coordinates.ParseLatLon(field(f, 2), byteAt(field(f, 3)))
	if err != nil {
		return domain.Position{}, fmt.Errorf("nmea: GLL: %w", framer.ErrContent)
	}
	pos.LongitudeNanominutes = lon

	pos.UTCNanoseconds = coordinates.UnsetNanoseconds
	if utc, err := ParseTimeOfDay(field(f, 4)); err == nil {
		pos.UTCNanoseconds = utc
	}

	modeField := system.Mode(byteAt(field(f, 6)))
	pos.Safety = system.SafetyFromMode(modeField)
	pos.Quality = system.QualityAutonomous

	return pos, nil
}

// ParseVTG decodes a VTG (course over ground and ground speed) sentence.
// A mode of 'N' (data not valid) fails without mutating any record
// (spec.md §4.5).
func ParseVTG(s Sentence) (domain.Position, error) {
	f := s.Fields
	if len(f) < 8 {
		return domain.Position{}, fmt.Errorf("nmea: VTG: %w: need 8 fields, got %d", framer.ErrContent, len(f))
	}
	modeField := system.Mode(byteAt(field(f, 8)))
	if modeField == system.ModeDataNotValid {
		return domain.Position{}, fmt.Errorf("nmea: VTG: data not valid: %w", framer.ErrContent)
	}

	var pos domain.Position
	pos.System = system.TalkerToSystem(s.Talker)
	pos.Label = s.Name()
	pos.CourseNanodegrees = int64(atofOr(field(f, 0), 0) * 1_000_000_000)
	pos.MagneticCourseNanodegrees = int64(atofOr(field(f, 2), 0) * 1_000_000_000)
	pos.SpeedMicroknots = int64(atofOr(field(f, 4), 0) * 1_000_000)
	pos.SpeedMillimetersPerHour = int64(atofOr(field(f, 6), 0) * 1_000_000)
	pos.Safety = system.SafetyFromMode(modeField)

	return pos, nil
}

// ParseZDA decodes a ZDA (time and date) sentence.
func ParseZDA(s Sentence) (domain.Position, error) {
	f := s.Fields
	if len(f) < 6 {
		return domain.Position{}, fmt.Errorf("nmea: ZDA: %w: need 6 fields, got %d", framer.ErrContent, len(f))
	}
	var pos domain.Position
	pos.System = system.TalkerToSystem(s.Talker)
	pos.Label = s.Name()

	utc, err := ParseTimeOfDay(field(f, 0))
	if err != nil {
		return domain.Position{}, fmt.Errorf("nmea: ZDA: %w", framer.ErrContent)
	}
	pos.UTCNanoseconds = utc

	dmy, err := ParseZDADate(field(f, 1), field(f, 2), field(f, 3))
	if err != nil {
		return domain.Position{}, fmt.Errorf("nmea: ZDA: %w", framer.ErrContent)
	}
	pos.DMYNanoseconds = dmy
	pos.TOTNanoseconds = dmy + utc

	tz, err := ParseZDATimezone(field(f, 4), field(f, 5))
	if err != nil {
		return domain.Position{}, fmt.Errorf("nmea: ZDA: %w", framer.ErrContent)
	}
	pos.TZNanoseconds = tz

	return pos, nil
}

// ParseGSA decodes a GSA (GNSS DOP and active satellites) sentence. An
// optional NMEA 4.10 system ID field, when present, disambiguates a
// GN-talker GSA.
func ParseGSA(s Sentence) (domain.Active, error) {
	f := s.Fields
	if len(f) < 17 {
		return domain.Active{}, fmt.Errorf("nmea: GSA: %w: need 17 fields, got %d", framer.ErrContent, len(f))
	}
	var act domain.Active
	act.System = system.TalkerToSystem(s.Talker)

	switch field(f, 1) {
	case "1":
		act.Mode = domain.ActiveNoFix
	case "2":
		act.Mode = domain.Active2D
	case "3":
		act.Mode = domain.Active3D
	default:
		act.Mode = domain.ActiveUnknown
	}

	for i := 2; i < 14; i++ {
		if v := field(f, i); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				act.SatelliteIDs = append(act.SatelliteIDs, id)
			}
		}
	}

	act.PDOPCenti = int(atofOr(field(f, 14), float64(domain.UndefinedDOP)/100) * 100)
	act.HDOPCenti = int(atofOr(field(f, 15), float64(domain.UndefinedDOP)/100) * 100)
	act.VDOPCenti = int(atofOr(field(f, 16), float64(domain.UndefinedDOP)/100) * 100)
	act.TDOPCenti = domain.UndefinedDOP

	// NMEA 4.10 appends a system ID as field 17.
	if sysID := field(f, 17); sysID != "" {
		if n, err := strconv.Atoi(sysID); err == nil {
			act.System = nmeaSystemID(n)
		}
	}

	return act, nil
}

// nmeaSystemID maps the NMEA 4.10 GSA/GBS numeric system ID to a
// Constellation tag.
func nmeaSystemID(n int) system.Constellation {
	switch n {
	case 1:
		return system.GPS
	case 2:
		return system.GLONASS
	case 3:
		return system.GALILEO
	case 4:
		return system.BEIDOU
	case 5:
		return system.QZSS
	default:
		return system.GNSS
	}
}

// GSVResult is the outcome of parsing one GSV fragment: the updated View
// and the fragment index just completed, so the caller can track
// `Pending` across a multi-sentence sequence (spec.md §4.5).
type GSVResult struct {
	View      domain.View
	Fragment  int
	Remaining int
}

// ParseGSV decodes one fragment of a GSV (satellites in view) sequence,
// merging it into the View accumulated so far.
func ParseGSV(s Sentence, acc domain.View) (GSVResult, error) {
	f := s.Fields
	if len(f) < 3 {
		return GSVResult{}, fmt.Errorf("nmea: GSV: %w: need at least 3 fields, got %d", framer.ErrContent, len(f))
	}
	total := atoiOr(field(f, 0), 1)
	fragment := atoiOr(field(f, 1), 1)
	visible := atoiOr(field(f, 2), 0)

	acc.System = system.TalkerToSystem(s.Talker)
	acc.Visible = visible

	const fieldsPerSatellite = 4
	base := 3
	for base+1 < len(f) {
		id := atoiOr(field(f, base), 0)
		if id == 0 {
			break
		}
		sig := domain.Signal{
			ID:        id,
			Elevation: atofOr(field(f, base+1), 0),
			Azimuth:   atofOr(field(f, base+2), 0),
			SNR:       atoiOr(field(f, base+3), 0),
		}
		sig.Untracked = field(f, base+1) == "" && field(f, base+2) == ""
		sig.Unused = field(f, base+3) == ""
		acc.Satellites = append(acc.Satellites, sig)
		acc.Channels++
		base += fieldsPerSatellite
	}

	// NMEA 4.10 appends a signal ID as the final field of the last
	// fragment.
	if last := field(f, len(f)-1); len(last) == 1 {
		if n, err := strconv.Atoi(last); err == nil {
			acc.Signal = n
		}
	}

	remaining := total - fragment
	acc.Pending = remaining

	return GSVResult{View: acc, Fragment: fragment, Remaining: remaining}, nil
}

// ParseGBS decodes a GBS (GNSS satellite fault detection) sentence.
func ParseGBS(s Sentence) (domain.Fault, error) {
	f := s.Fields
	if len(f) < 8 {
		return domain.Fault{}, fmt.Errorf("nmea: GBS: %w: need 8 fields, got %d", framer.ErrContent, len(f))
	}
	var flt domain.Fault
	flt.System = system.TalkerToSystem(s.Talker)

	if utc, err := ParseTimeOfDay(field(f, 0)); err == nil {
		flt.UTCNanoseconds = utc
	}
	flt.LatitudeErrorMeters = atofOr(field(f, 1), 0)
	flt.LongitudeErrorMeters = atofOr(field(f, 2), 0)
	flt.AltitudeErrorMeters = atofOr(field(f, 3), 0)
	flt.FailedSatelliteID = atoiOr(field(f, 4), 0)
	flt.Probability = atofOr(field(f, 5), 0)
	flt.EstimatedBias = atofOr(field(f, 6), 0)
	flt.StandardDeviation = atofOr(field(f, 7), 0)

	if sysID := field(f, 8); sysID != "" {
		if n, err := strconv.Atoi(sysID); err == nil {
			flt.System = nmeaSystemID(n)
		}
	}
	if sig := field(f, 9); sig != "" {
		if n, err := strconv.Atoi(sig); err == nil {
			flt.Signal = n
		}
	}

	return flt, nil
}

// ParseTXT decodes a TXT (text transmission) sentence into a plain
// diagnostic string; it never mutates domain state (spec.md §4.5).
func ParseTXT(s Sentence) string {
	f := s.Fields
	if len(f) < 4 {
		return ""
	}
	return f[3]
}
