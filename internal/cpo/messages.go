package cpo

import (
	"math"

	"github.com/gnss-tools/hazer-go/internal/coordinates"
	"github.com/gnss-tools/hazer-go/internal/domain"
	"github.com/gnss-tools/hazer-go/internal/system"
)

// Record IDs this package decodes.
const (
	IDPVT = 0x33
	IDSDR = 0x72
)

// PVT record layout constants (spec.md §4.5): size in bytes, and the
// leading/trailing epoch-math corrections the Garmin source applies when
// converting GPS-week/time-of-week plus reported leap seconds into a
// POSIX timestamp.
const (
	PVTLength = 64

	// GarminEpochOffsetSeconds is 1989-12-31 00:00:00 UTC expressed as
	// seconds since the POSIX epoch.
	GarminEpochOffsetSeconds int64 = 631065600

	// GPSToGarminLeapSeconds is the count of leap seconds that had
	// already occurred between the GPS epoch (1980-01-06) and the
	// Garmin epoch; subtracted once so they are not double-counted
	// against the device's own reported leap-second field.
	GPSToGarminLeapSeconds int64 = 5

	// EmpiricalClockCorrectionSeconds is an undocumented −31 s offset
	// the original Garmin driver applies "based on comparisons with
	// NTP". Replicated verbatim per spec.md §8; do not change this
	// value without also changing the reference it was derived from.
	EmpiricalClockCorrectionSeconds int64 = -31

	secondsPerDay  = 86400
	secondsPerWeek = 7 * secondsPerDay

	nanosPerSecond = 1_000_000_000
	nanosPerDay    = secondsPerDay * nanosPerSecond
)

// FixType enumerates the CPO-PVT fix-type field.
type FixType int

const (
	FixUnusable FixType = iota
	FixInvalid
	Fix2D
	Fix3D
	Fix2DDifferential
	Fix3DDifferential
)

func (f FixType) quality() system.Quality {
	switch f {
	case Fix2D, Fix3D:
		return system.QualityAutonomous
	case Fix2DDifferential, Fix3DDifferential:
		return system.QualityDifferential
	default:
		return system.QualityNoFix
	}
}

// PVT is the decoded Garmin CPO-PVT record: combined position, velocity,
// and time, reported once per fix cycle (spec.md §4.5).
type PVT struct {
	Fix               FixType
	LatitudeRadians   float64
	LongitudeRadians  float64
	AltitudeMeters    float64
	EastVelocity      float64 // meters/second
	NorthVelocity     float64
	UpVelocity        float64
	TimeOfWeekSeconds float64
	LeapSeconds       int16
	DaysSinceEpoch    int32
}

// DecodePVT decodes a CPO-PVT (id 0x33, length 64) payload.
func DecodePVT(payload []byte) (PVT, error) {
	if len(payload) != PVTLength {
		return PVT{}, errLength
	}
	p := PVT{
		AltitudeMeters:    float64(f32(payload[0:4])),
		Fix:               FixType(i16(payload[16:18])),
		TimeOfWeekSeconds: f64(payload[18:26]),
		LatitudeRadians:   f64(payload[26:34]),
		LongitudeRadians:  f64(payload[34:42]),
		EastVelocity:      float64(f32(payload[42:46])),
		NorthVelocity:     float64(f32(payload[46:50])),
		UpVelocity:        float64(f32(payload[50:54])),
		LeapSeconds:       i16(payload[58:60]),
		DaysSinceEpoch:    i32(payload[60:64]),
	}
	return p, nil
}

// towDayNanos splits the GPS time-of-week into nanoseconds-of-day
// (the H:M:S remainder) and the whole-day nanoseconds that preceded it
// within the week, mirroring calico.c's tvalue/ivalue split.
func (p PVT) towDayNanos() (wholeDays, remainder int64) {
	towNanos := int64(p.TimeOfWeekSeconds * nanosPerSecond)
	remainder = towNanos % nanosPerDay
	wholeDays = towNanos - remainder
	return wholeDays, remainder
}

// DMYNanoseconds reproduces the Garmin driver's date-only epoch
// computation verbatim (spec.md §4.5, §8): the Garmin epoch offset from
// POSIX, minus the leap seconds already elapsed between the GPS and
// Garmin epochs, plus the most recent GPS week start implied by
// DaysSinceEpoch, plus the whole-day part of the time-of-week, plus the
// device's own reported leap-second count, plus the empirical −31 s
// correction. It carries no time-of-day component — that is
// UTCNanoseconds.
func (p PVT) DMYNanoseconds() int64 {
	weekStartSeconds := int64(p.DaysSinceEpoch) / 7 * secondsPerWeek
	wholeDayNanos, _ := p.towDayNanos()
	return (GarminEpochOffsetSeconds-GPSToGarminLeapSeconds)*nanosPerSecond +
		weekStartSeconds*nanosPerSecond +
		wholeDayNanos +
		int64(p.LeapSeconds)*nanosPerSecond +
		EmpiricalClockCorrectionSeconds*nanosPerSecond
}

// UTCNanoseconds is the nanoseconds-since-midnight-UTC remainder of the
// GPS time-of-week — the H:M:S part only, with none of DMYNanoseconds's
// leap-second or empirical corrections folded in (calico.c's
// gpp->utc_nanoseconds).
func (p PVT) UTCNanoseconds() int64 {
	_, remainder := p.towDayNanos()
	return remainder
}

// TOTNanoseconds is the combined absolute timestamp, DMYNanoseconds plus
// UTCNanoseconds (calico.c's gpp->tot_nanoseconds).
func (p PVT) TOTNanoseconds() int64 {
	return p.DMYNanoseconds() + p.UTCNanoseconds()
}

// ToPosVelTim lifts a decoded PVT record into Hazer's shared
// nanominute/millimeter/nanosecond domain representation.
func (p PVT) ToPosVelTim() domain.PosVelTim {
	latDeg := p.LatitudeRadians * 180 / math.Pi
	lonDeg := p.LongitudeRadians * 180 / math.Pi

	pos := domain.Position{
		System:               system.GPS,
		Label:                "CPO",
		UTCNanoseconds:       p.UTCNanoseconds(),
		DMYNanoseconds:       p.DMYNanoseconds(),
		TOTNanoseconds:       p.TOTNanoseconds(),
		LatitudeNanominutes:  int64(latDeg * float64(coordinates.NanominutesPerDegree)),
		LongitudeNanominutes: int64(lonDeg * float64(coordinates.NanominutesPerDegree)),
		AltitudeMillimeters:  int64(p.AltitudeMeters * 1000),
		Quality:              p.Fix.quality(),
		Safety:               system.SafetyFromQuality(p.Fix.quality()),
	}
	return domain.PosVelTim{
		Position:                          pos,
		VelocityNorthMillimetersPerSecond: p.NorthVelocity * 1000,
		VelocityEastMillimetersPerSecond:  p.EastVelocity * 1000,
		VelocityDownMillimetersPerSecond:  -p.UpVelocity * 1000,
	}
}

// SDR record layout constants (spec.md §4.5).
const (
	SDRLength       = 84
	sdrSatelliteLen = 7
	sdrSatelliteCount = 12
)

// SDR status bits, packed into the satellite record's status byte.
const (
	StatusEphemeris    = 1 << 0
	StatusCorrection   = 1 << 1 // differential correction available
	StatusSolution     = 1 << 2 // used in the position solution
	StatusAugmentation = 1 << 3 // SBAS/WAAS augmentation
)

// SDRSatellite is one slot of a CPO-SDR satellite-tracking record.
type SDRSatellite struct {
	SVID      uint8
	System    system.Constellation
	Elevation int8 // degrees
	Azimuth   int16
	SNR       uint8 // dB-Hz, typically reported as SNR*100 on the wire

	Ephemeris    bool
	Correction   bool
	Solution     bool
	Augmentation bool

	Phantom    bool // svid reported with no signal ever acquired
	Untracked  bool // svid known but channel not currently tracking it
}

// DecodeSDR decodes a CPO-SDR (id 0x72, length 84) payload: 12 fixed
// 7-byte satellite slots. Satellite IDs 1–32 are GPS; 33–64 map to SBAS
// (spec.md §4.5).
func DecodeSDR(payload []byte) ([]SDRSatellite, error) {
	if len(payload) != SDRLength {
		return nil, errLength
	}
	sats := make([]SDRSatellite, 0, sdrSatelliteCount)
	for i := 0; i < sdrSatelliteCount; i++ {
		rec := payload[i*sdrSatelliteLen : (i+1)*sdrSatelliteLen]
		svid := rec[0]
		status := rec[6]
		snrRaw := u16(rec[4:6])

		sys := system.GPS
		if svid >= 33 && svid <= 64 {
			sys = system.SBAS
		}

		sat := SDRSatellite{
			SVID:         svid,
			System:       sys,
			Elevation:    int8(rec[1]),
			Azimuth:      i16(rec[2:4]),
			SNR:          uint8(snrRaw / 100),
			Ephemeris:    status&StatusEphemeris != 0,
			Correction:   status&StatusCorrection != 0,
			Solution:     status&StatusSolution != 0,
			Augmentation: status&StatusAugmentation != 0,
		}
		sat.Phantom = svid == 0 && status == 0
		sat.Untracked = !sat.Ephemeris && !sat.Solution
		sats = append(sats, sat)
	}
	return sats, nil
}
