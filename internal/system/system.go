// Package system maps NMEA talker prefixes and satellite ID ranges onto
// the constellation tag each signal belongs to (spec.md §3).
package system

// Constellation tags the GNSS (or augmentation) system a position, view,
// or satellite record belongs to.
type Constellation int

const (
	GNSS Constellation = iota // aggregate, multi-constellation solution
	GPS
	GLONASS
	GALILEO
	BEIDOU
	SBAS
	IMES
	QZSS
)

func (c Constellation) String() string {
	switch c {
	case GNSS:
		return "GNSS"
	case GPS:
		return "GPS"
	case GLONASS:
		return "GLONASS"
	case GALILEO:
		return "GALILEO"
	case BEIDOU:
		return "BEIDOU"
	case SBAS:
		return "SBAS"
	case IMES:
		return "IMES"
	case QZSS:
		return "QZSS"
	default:
		return "UNKNOWN"
	}
}

// talkerSystems maps the two-letter NMEA talker ID to the constellation it
// identifies. "GN" is the multi-constellation aggregate talker; a GSA
// carrying an explicit NMEA 4.10 system ID takes precedence over this
// table when disambiguating a GN-talker sentence.
var talkerSystems = map[string]Constellation{
	"GP": GPS,
	"GL": GLONASS,
	"GA": GALILEO,
	"GB": BEIDOU,
	"BD": BEIDOU,
	"GQ": QZSS,
	"GN": GNSS,
}

// TalkerToSystem returns the constellation a two-letter NMEA talker prefix
// identifies. Unknown talkers map to GNSS (the aggregate), matching the
// original's conservative default.
func TalkerToSystem(talker string) Constellation {
	if c, ok := talkerSystems[talker]; ok {
		return c
	}
	return GNSS
}

// idRanges bounds NMEA satellite ID numbers (as used in GSA/GSV) to the
// constellation they belong to.
type idRange struct {
	lo, hi int
	system Constellation
}

var idRanges = []idRange{
	{1, 32, GPS},
	{33, 64, SBAS},
	{65, 96, GLONASS},
	{120, 158, SBAS},
	{193, 197, QZSS},
	{196, 200, QZSS},
	{201, 235, BEIDOU},
	{301, 336, GALILEO},
	{401, 437, BEIDOU},
}

// SatelliteIDToSystem returns the constellation that owns a given NMEA
// satellite ID number. Ranges overlap slightly across revisions of the
// standard (QZSS in particular); the first match wins.
func SatelliteIDToSystem(id int) Constellation {
	for _, r := range idRanges {
		if id >= r.lo && id <= r.hi {
			return r.system
		}
	}
	return GNSS
}

// NMEA quality codes from a GGA sentence's fix-quality field.
type Quality int

const (
	QualityNoFix Quality = iota
	QualityAutonomous
	QualityDifferential
	QualityPPS
	QualityRTKFixed
	QualityRTKFloat
	QualityEstimated
	QualityManual
	QualitySimulator
)

// ParseQuality maps the GGA numeric quality field onto a Quality tag.
func ParseQuality(n int) Quality {
	switch n {
	case 0:
		return QualityNoFix
	case 1:
		return QualityAutonomous
	case 2:
		return QualityDifferential
	case 3:
		return QualityPPS
	case 4:
		return QualityRTKFixed
	case 5:
		return QualityRTKFloat
	case 6:
		return QualityEstimated
	case 7:
		return QualityManual
	case 8:
		return QualitySimulator
	default:
		return QualityNoFix
	}
}

// Safety classifies how much a consumer should trust a position, derived
// from RMC/GLL mode and GGA quality.
type Safety int

const (
	SafetyUnknown Safety = iota
	SafetySafe
	SafetyCaution
	SafetyUnsafe
	SafetyNotValid
)

// Mode is the NMEA RMC/GLL/VTG single-character positioning mode.
type Mode byte

const (
	ModeAutonomous     Mode = 'A'
	ModeDifferential   Mode = 'D'
	ModeEstimated      Mode = 'E'
	ModeManualInput    Mode = 'M'
	ModeSimulated      Mode = 'S'
	ModeDataNotValid   Mode = 'N'
	ModeNone           Mode = 0
)

// SafetyFromMode derives a Safety tag from an RMC/GLL mode indicator.
func SafetyFromMode(m Mode) Safety {
	switch m {
	case ModeAutonomous, ModeDifferential:
		return SafetySafe
	case ModeEstimated:
		return SafetyCaution
	case ModeManualInput, ModeSimulated:
		return SafetyUnsafe
	case ModeDataNotValid:
		return SafetyNotValid
	default:
		return SafetyUnknown
	}
}

// SafetyFromQuality derives a Safety tag from a GGA-style fix quality,
// for protocols (UBX, CPO) that report a quality/fix-type code rather
// than an RMC/GLL mode letter.
func SafetyFromQuality(q Quality) Safety {
	switch q {
	case QualityAutonomous, QualityDifferential, QualityPPS, QualityRTKFixed, QualityRTKFloat:
		return SafetySafe
	case QualityEstimated:
		return SafetyCaution
	case QualityManual, QualitySimulator:
		return SafetyUnsafe
	default:
		return SafetyUnknown
	}
}
