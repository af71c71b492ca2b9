package position

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gnss-tools/hazer-go/internal/coordinates"
	"github.com/gnss-tools/hazer-go/internal/nmea"
)

// Position represents a GNSS position
type Position struct {
	Latitude    float64        `json:"latitude"`
	Longitude   float64        `json:"longitude"`
	Altitude    float64        `json:"altitude"`
	FixQuality  int            `json:"fix_quality"`
	Satellites  int            `json:"satellites"`
	HDOP        float64        `json:"hdop"`
	Timestamp   time.Time      `json:"timestamp"`
	Description string         `json:"description"`
	Stats       *PositionStats `json:"stats,omitempty"`
}

// ExtractFromGGA builds a decimal-degree position snapshot from a
// tokenized GGA sentence, delegating the field parsing to
// internal/nmea.ParseGGA and converting its nanominute/millimeter
// fields down to float64 degrees and meters for on-disk storage.
func ExtractFromGGA(sentence nmea.Sentence) (*Position, error) {
	if sentence.Type != "GGA" {
		return nil, fmt.Errorf("not a GGA sentence")
	}

	pos, err := nmea.ParseGGA(sentence)
	if err != nil {
		return nil, fmt.Errorf("parsing GGA: %w", err)
	}

	var timestamp time.Time
	if pos.UTCNanoseconds != coordinates.UnsetNanoseconds {
		now := time.Now().UTC()
		timestamp = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).
			Add(time.Duration(pos.UTCNanoseconds))
	}

	return &Position{
		Latitude:    float64(pos.LatitudeNanominutes) / float64(coordinates.NanominutesPerDegree),
		Longitude:   float64(pos.LongitudeNanominutes) / float64(coordinates.NanominutesPerDegree),
		Altitude:    float64(pos.AltitudeMillimeters) / 1000.0,
		FixQuality:  int(pos.Quality),
		Satellites:  pos.SatellitesUsed,
		Timestamp:   timestamp,
		Description: GetFixQualityDescription(int(pos.Quality)),
	}, nil
}

// SaveToFile saves the position to a JSON file
func (p *Position) SaveToFile(filePath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %v", err)
	}

	// Marshal to JSON
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling to JSON: %v", err)
	}

	// Write to file
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing to file: %v", err)
	}

	return nil
}

// SavePositionWithStats saves a position with stats to a JSON file
func SavePositionWithStats(pos *Position, stats *PositionStats, filePath string) error {
	// Attach stats to position
	pos.Stats = stats

	// Save to file
	return pos.SaveToFile(filePath)
}

// LoadFromFile loads a position from a JSON file
func LoadFromFile(filePath string) (*Position, error) {
	// Read file
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %v", err)
	}

	// Unmarshal from JSON
	var position Position
	if err := json.Unmarshal(data, &position); err != nil {
		return nil, fmt.Errorf("error unmarshaling JSON: %v", err)
	}

	return &position, nil
}

// convertNMEACoordinate converts NMEA coordinate format (DDMM.MMMM) to decimal degrees
func convertNMEACoordinate(coord float64, isNegative bool) float64 {
	// Extract degrees and minutes
	degrees := float64(int(coord / 100))
	minutes := coord - degrees*100

	// Convert to decimal degrees
	decimal := degrees + minutes/60.0

	// Apply sign
	if isNegative {
		decimal = -decimal
	}

	return decimal
}

// getFixQualityDescription returns a description of the fix quality
func getFixQualityDescription(quality int) string {
	return GetFixQualityDescription(quality)
}

// GetFixQualityDescription returns a description of the fix quality (exported version)
func GetFixQualityDescription(quality int) string {
	switch quality {
	case 0:
		return "Invalid"
	case 1:
		return "GPS Fix"
	case 2:
		return "DGPS Fix"
	case 3:
		return "PPS Fix"
	case 4:
		return "RTK Fix"
	case 5:
		return "Float RTK"
	case 6:
		return "Estimated"
	case 7:
		return "Manual Input"
	case 8:
		return "Simulation"
	default:
		return fmt.Sprintf("Unknown (%d)", quality)
	}
}
