package strongmotion

import (
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// Event is the earthquake source a StreamCollection was recorded for
//.
type Event struct {
	ID          string
	OriginTime  time.Time
	Latitude    float64
	Longitude   float64
	DepthKM     float64
	Magnitude   float64
}

// ParseReferenceTime parses a "yyyy/ddd hh:mm:ss" reference timestamp,
// the format used by several strong-motion network catalogs for
// origin times, using the meeus/v3/julian day-of-year
// conversion to turn a Julian day-of-year into a calendar month/day.
func ParseReferenceTime(dateStr string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(dateStr), " ")
	if len(parts) != 2 {
		return time.Time{}, NewClassifiedError(ClassValidation, "ParseReferenceTime", ErrInvalidEnum)
	}
	datePart := strings.Split(parts[0], "/")
	if len(datePart) != 2 {
		return time.Time{}, NewClassifiedError(ClassValidation, "ParseReferenceTime", ErrInvalidEnum)
	}

	year, err := strconv.Atoi(datePart[0])
	if err != nil {
		return time.Time{}, NewClassifiedError(ClassValidation, "ParseReferenceTime", err)
	}
	doy, err := strconv.Atoi(datePart[1])
	if err != nil {
		return time.Time{}, NewClassifiedError(ClassValidation, "ParseReferenceTime", err)
	}

	month, day := julian.DayOfYearToCalendar(doy, julian.LeapYearGregorian(year))

	hms := strings.Split(parts[1], ":")
	if len(hms) != 3 {
		return time.Time{}, NewClassifiedError(ClassValidation, "ParseReferenceTime", ErrInvalidEnum)
	}
	vals := make([]int, 3)
	for i, v := range hms {
		vals[i], err = strconv.Atoi(v)
		if err != nil {
			return time.Time{}, NewClassifiedError(ClassValidation, "ParseReferenceTime", err)
		}
	}

	return time.Date(year, time.Month(month), day, vals[0], vals[1], vals[2], 0, time.UTC), nil
}
