// Package domain holds the typed records the parsers (internal/nmea,
// internal/ubx, internal/rtcm, internal/cpo, internal/wt901) materialize:
// Position, View, Active, Fault, Solution, Base, Rover, Attitude, and
// PosVelTim (spec.md §3/§4.6). Every record carries an Expiry countdown;
// consumers must treat a record as absent once Expiry reaches zero.
package domain

import (
	"time"

	"github.com/gnss-tools/hazer-go/internal/system"
)

// Expiry is a countdown in whole ticks (normally seconds). A record whose
// Expiry is zero must be treated by consumers as stale/absent.
type Expiry int

// Tick decrements an expiry by the number of whole ticks elapsed, floored
// at zero (spec.md §8: after a tick where elapsed >= expiry, expiry == 0).
func (e Expiry) Tick(elapsed int) Expiry {
	if elapsed <= 0 {
		return e
	}
	if int(e) <= elapsed {
		return 0
	}
	return e - Expiry(elapsed)
}

// Refresh resets an expiry to the configured record lifetime.
func Refresh(lifetime int) Expiry { return Expiry(lifetime) }

// Position is a per-system fix: latitude/longitude/altitude/speed/course
// plus the bookkeeping fields GGA/RMC/GLL/VTG/ZDA/GBS contribute to.
type Position struct {
	System system.Constellation
	Label  string

	UTCNanoseconds int64 // nanoseconds since midnight UTC; coordinates.UnsetNanoseconds if unset
	DMYNanoseconds int64 // nanoseconds since POSIX epoch, date component only
	TOTNanoseconds int64 // combined UTC-of-day + D/M/Y
	OLDNanoseconds int64 // previous TOT, for rate calculations
	TZNanoseconds  int64 // ZDA timezone offset, may be non-integer hours

	LatitudeNanominutes  int64
	LongitudeNanominutes int64
	AltitudeMillimeters  int64 // MSL
	SeparationMillimeters int64 // geoidal separation

	SpeedMicroknots          int64
	SpeedMillimetersPerHour  int64
	CourseNanodegrees        int64
	MagneticCourseNanodegrees int64

	// Digits records how many fractional digits the source sentence
	// actually supplied for latitude/longitude/speed/course, so emitters
	// don't fabricate false precision (spec.md §9).
	DigitsLatLon int
	DigitsSpeed  int
	DigitsCourse int

	SatellitesUsed int
	Quality        system.Quality
	Safety         system.Safety

	Expiry Expiry
}

// Signal is one tracked satellite within a View.
type Signal struct {
	ID         int
	Elevation  float64 // degrees
	Azimuth    float64 // degrees
	SNR        int     // dBHz
	Phantom    bool
	Untracked  bool
	Unused     bool
}

// View holds the GSV-reported satellites-in-view for one system and
// signal, plus the fragment-reassembly bookkeeping GSV's multi-sentence
// delivery requires.
type View struct {
	System   system.Constellation
	Signal   int // NMEA 4.10 signal ID, 0 if not reported
	Channels int
	Visible  int
	Satellites []Signal
	Pending    int // fragments still expected before the view is complete
	Expiry     Expiry
}

// ActiveMode is the GSA fix-type field.
type ActiveMode int

const (
	ActiveUnknown ActiveMode = iota
	ActiveNoFix
	Active2D
	Active3D
)

// Active is the GSA-reported set of satellites used in the current
// solution, with dilution-of-precision figures in centi-units (9999 means
// undefined, per spec.md §3).
type Active struct {
	System     system.Constellation
	Mode       ActiveMode
	SatelliteIDs []int
	PDOPCenti  int
	HDOPCenti  int
	VDOPCenti  int
	TDOPCenti  int
	Expiry     Expiry
}

// UndefinedDOP is the GSA sentinel for "not reported".
const UndefinedDOP = 9999

// Fault is a GBS integrity-monitoring report.
type Fault struct {
	System            system.Constellation
	UTCNanoseconds    int64
	LatitudeErrorMeters  float64
	LongitudeErrorMeters float64
	AltitudeErrorMeters  float64
	FailedSatelliteID int
	Probability       float64
	EstimatedBias     float64
	StandardDeviation float64
	Signal            int // NMEA 4.10 signal ID, 0 if not reported
	Expiry            Expiry
}

// Solution mirrors the subset of a Position a higher layer needs when
// presenting a single combined fix (used by RTK/PVT-style callers).
type Solution struct {
	Position Position
	Active   Active
	Expiry   Expiry
}

// Base is an RTK reference station, as classified by the datagram router
// (spec.md §4.8) or decoded from an RTCM 1005/1006 station-coordinates
// message.
type Base struct {
	StationID   uint16
	ECEFX, ECEFY, ECEFZ float64 // meters
	Expiry      Expiry
}

// Rover is an RTK client known to be consuming corrections.
type Rover struct {
	Address  string
	Port     int
	Expiry   Expiry
}

// Attitude is a NAV-ATT/IMU-derived orientation record.
type Attitude struct {
	RollNanodegrees    int64
	PitchNanodegrees   int64
	HeadingNanodegrees int64
	AccuracyRollNanodegrees    int64
	AccuracyPitchNanodegrees   int64
	AccuracyHeadingNanodegrees int64
	Expiry Expiry
}

// PosVelTim is a combined position/velocity/time record, as produced by
// UBX NAV-PVT or decoded from a Garmin CPO-PVT record.
type PosVelTim struct {
	Position Position
	VelocityNorthMillimetersPerSecond float64
	VelocityEastMillimetersPerSecond  float64
	VelocityDownMillimetersPerSecond  float64
	Expiry Expiry
}

// Clock is the injected clock the reader task uses to timestamp records;
// passed in as a value (not time.Now() calls scattered through parsers) so
// tests can supply a fixed clock.
type Clock func() time.Time

// SystemClock is the production Clock: time.Now in UTC.
func SystemClock() time.Time { return time.Now().UTC() }
