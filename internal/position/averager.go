package position

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gnss-tools/hazer-go/internal/coordinates"
	"github.com/gnss-tools/hazer-go/internal/domain"
	"github.com/gnss-tools/hazer-go/internal/system"
)

// PositionSample is one GGA fix, kept in Hazer's own nanominute/
// millimeter domain representation (internal/domain.Position) rather
// than pre-converted decimal degrees, so the averager accumulates the
// same fixed-point units every other parser in the module produces.
type PositionSample struct {
	LatitudeNanominutes  int64
	LongitudeNanominutes int64
	AltitudeMillimeters  int64
	FixQuality           system.Quality
	Timestamp            time.Time
}

// SampleFromPosition lifts a decoded domain.Position into a
// PositionSample, the shape the averager accumulates.
func SampleFromPosition(pos domain.Position, at time.Time) PositionSample {
	return PositionSample{
		LatitudeNanominutes:  pos.LatitudeNanominutes,
		LongitudeNanominutes: pos.LongitudeNanominutes,
		AltitudeMillimeters:  pos.AltitudeMillimeters,
		FixQuality:           pos.Quality,
		Timestamp:            at,
	}
}

// PositionStats contains statistics about the averaged position
type PositionStats struct {
	SampleCount            int         `json:"sample_count"`
	Duration               float64     `json:"duration_seconds"`
	LatitudeStdDev         float64     `json:"latitude_std_dev"`
	LongitudeStdDev        float64     `json:"longitude_std_dev"`
	AltitudeStdDev         float64     `json:"altitude_std_dev"`
	StartTime              time.Time   `json:"start_time"`
	EndTime                time.Time   `json:"end_time"`
	FixQualityDistribution map[int]int `json:"fix_quality_distribution"`
}

// PositionAverager collects GGA-derived position samples and reduces
// them to a single averaged fix, e.g. for a static base station's
// surveyed-in position.
type PositionAverager struct {
	samples        []PositionSample
	mutex          sync.Mutex
	minFixQuality  system.Quality
	startTime      time.Time
	fixQualityDist map[int]int
}

// NewPositionAverager creates a new position averager, accepting only
// samples whose fix quality is at least minFixQuality.
func NewPositionAverager(minFixQuality int) *PositionAverager {
	return &PositionAverager{
		samples:        []PositionSample{},
		minFixQuality:  system.Quality(minFixQuality),
		startTime:      time.Now(),
		fixQualityDist: make(map[int]int),
	}
}

// AddSample adds a position sample to the averager. It always records
// the fix quality distribution, but only accumulates samples meeting
// the minimum fix quality into the running average.
func (a *PositionAverager) AddSample(sample PositionSample) bool {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.fixQualityDist[int(sample.FixQuality)]++

	if sample.FixQuality < a.minFixQuality {
		return false
	}

	a.samples = append(a.samples, sample)
	return true
}

// GetSampleCount returns the number of samples collected
func (a *PositionAverager) GetSampleCount() int {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return len(a.samples)
}

// GetAveragedPosition reduces the accumulated nanominute/millimeter
// samples to a mean position and its per-axis standard deviation, then
// converts the mean down to decimal degrees/meters for on-disk storage
// the same way ExtractFromGGA does.
func (a *PositionAverager) GetAveragedPosition() (*Position, *PositionStats, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if len(a.samples) == 0 {
		return nil, nil, fmt.Errorf("no samples collected")
	}

	var sumLatNanominutes, sumLonNanominutes, sumAltMillimeters float64
	var minTime, maxTime time.Time

	for i, sample := range a.samples {
		sumLatNanominutes += float64(sample.LatitudeNanominutes)
		sumLonNanominutes += float64(sample.LongitudeNanominutes)
		sumAltMillimeters += float64(sample.AltitudeMillimeters)

		if i == 0 || sample.Timestamp.Before(minTime) {
			minTime = sample.Timestamp
		}
		if i == 0 || sample.Timestamp.After(maxTime) {
			maxTime = sample.Timestamp
		}
	}

	n := float64(len(a.samples))
	avgLatNanominutes := sumLatNanominutes / n
	avgLonNanominutes := sumLonNanominutes / n
	avgAltMillimeters := sumAltMillimeters / n

	var sumSqDiffLat, sumSqDiffLon, sumSqDiffAlt float64
	for _, sample := range a.samples {
		sumSqDiffLat += math.Pow(float64(sample.LatitudeNanominutes)-avgLatNanominutes, 2)
		sumSqDiffLon += math.Pow(float64(sample.LongitudeNanominutes)-avgLonNanominutes, 2)
		sumSqDiffAlt += math.Pow(float64(sample.AltitudeMillimeters)-avgAltMillimeters, 2)
	}

	stdDevLatNanominutes := math.Sqrt(sumSqDiffLat / n)
	stdDevLonNanominutes := math.Sqrt(sumSqDiffLon / n)
	stdDevAltMillimeters := math.Sqrt(sumSqDiffAlt / n)

	nanominutesPerDegree := float64(coordinates.NanominutesPerDegree)

	pos := &Position{
		Latitude:    avgLatNanominutes / nanominutesPerDegree,
		Longitude:   avgLonNanominutes / nanominutesPerDegree,
		Altitude:    avgAltMillimeters / 1000.0,
		FixQuality:  int(a.minFixQuality),
		Satellites:  0,
		HDOP:        0,
		Timestamp:   time.Now().UTC(),
		Description: fmt.Sprintf("Averaged position from %d samples", len(a.samples)),
	}

	stats := &PositionStats{
		SampleCount:            len(a.samples),
		Duration:               maxTime.Sub(minTime).Seconds(),
		LatitudeStdDev:         stdDevLatNanominutes / nanominutesPerDegree,
		LongitudeStdDev:        stdDevLonNanominutes / nanominutesPerDegree,
		AltitudeStdDev:         stdDevAltMillimeters / 1000.0,
		StartTime:              minTime,
		EndTime:                maxTime,
		FixQualityDistribution: a.fixQualityDist,
	}

	return pos, stats, nil
}

// Reset clears all collected samples
func (a *PositionAverager) Reset() {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.samples = []PositionSample{}
	a.startTime = time.Now()
	a.fixQualityDist = make(map[int]int)
}

// GetFixQualityDistribution returns the distribution of fix qualities
func (a *PositionAverager) GetFixQualityDistribution() map[int]int {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	dist := make(map[int]int)
	for k, v := range a.fixQualityDist {
		dist[k] = v
	}

	return dist
}
