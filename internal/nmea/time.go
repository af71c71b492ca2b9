package nmea

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// ParseTimeOfDay converts an NMEA hhmmss.sss field into nanoseconds since
// midnight UTC.
func ParseTimeOfDay(field string) (int64, error) {
	if len(field) < 6 {
		return 0, fmt.Errorf("nmea: malformed time field %q", field)
	}
	hh, err := strconv.Atoi(field[0:2])
	if err != nil {
		return 0, fmt.Errorf("nmea: bad hour in %q: %w", field, err)
	}
	mm, err := strconv.Atoi(field[2:4])
	if err != nil {
		return 0, fmt.Errorf("nmea: bad minute in %q: %w", field, err)
	}
	ss, err := strconv.ParseFloat(field[4:], 64)
	if err != nil {
		return 0, fmt.Errorf("nmea: bad seconds in %q: %w", field, err)
	}
	total := int64(hh)*3600 + int64(mm)*60
	return total*1_000_000_000 + int64(math.Round(ss*1_000_000_000)), nil
}

// ParseDate converts an NMEA ddmmyy field into the POSIX-epoch nanosecond
// offset of midnight UTC on that date.
func ParseDate(field string) (int64, error) {
	if len(field) != 6 {
		return 0, fmt.Errorf("nmea: malformed date field %q", field)
	}
	dd, err := strconv.Atoi(field[0:2])
	if err != nil {
		return 0, fmt.Errorf("nmea: bad day in %q: %w", field, err)
	}
	mon, err := strconv.Atoi(field[2:4])
	if err != nil {
		return 0, fmt.Errorf("nmea: bad month in %q: %w", field, err)
	}
	yy, err := strconv.Atoi(field[4:6])
	if err != nil {
		return 0, fmt.Errorf("nmea: bad year in %q: %w", field, err)
	}
	year := 2000 + yy
	t := time.Date(year, time.Month(mon), dd, 0, 0, 0, 0, time.UTC)
	return t.UnixNano(), nil
}

// ParseZDADate converts ZDA's separate day/month/year fields into the
// POSIX-epoch nanosecond offset of midnight UTC on that date.
func ParseZDADate(day, month, year string) (int64, error) {
	dd, err := strconv.Atoi(day)
	if err != nil {
		return 0, fmt.Errorf("nmea: bad ZDA day %q: %w", day, err)
	}
	mm, err := strconv.Atoi(month)
	if err != nil {
		return 0, fmt.Errorf("nmea: bad ZDA month %q: %w", month, err)
	}
	yy, err := strconv.Atoi(year)
	if err != nil {
		return 0, fmt.Errorf("nmea: bad ZDA year %q: %w", year, err)
	}
	t := time.Date(yy, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
	return t.UnixNano(), nil
}

// ParseZDATimezone converts ZDA's local-zone-hours/local-zone-minutes
// fields into a signed nanosecond offset. The hours field carries the
// sign; minutes is always a non-negative magnitude (NMEA 0183 §ZDA), which
// is why Chatham Islands' -12:45 is encoded as hours=-12, minutes=45.
func ParseZDATimezone(hours, minutes string) (int64, error) {
	hh, err := strconv.Atoi(hours)
	if err != nil {
		return 0, fmt.Errorf("nmea: bad ZDA tz hours %q: %w", hours, err)
	}
	mm, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, fmt.Errorf("nmea: bad ZDA tz minutes %q: %w", minutes, err)
	}
	total := int64(hh) * 3600 * 1_000_000_000
	minuteOffset := int64(mm) * 60 * 1_000_000_000
	if hh < 0 {
		total -= minuteOffset
	} else {
		total += minuteOffset
	}
	return total, nil
}
