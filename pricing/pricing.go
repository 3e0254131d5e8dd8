package pricing

import (
	"fmt"
	"strconv"
	"strings"

	"turfbook/models"
)

// Interval is a half-open [Start,End) time-of-day range in minutes since
// midnight. Pricing and collision checks are date-independent.
type Interval struct {
	Start int
	End   int
}

// ParseClock accepts "15:04" or "15:04:05" and returns minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as canonical HH:MM:SS. Stored
// this way, lexicographic order equals chronological order.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d:00", minutes/60, minutes%60)
}

// ParseInterval validates start < end and returns the parsed interval.
func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	if e <= s {
		return Interval{}, fmt.Errorf("end time %q must be after start time %q", end, start)
	}
	return Interval{Start: s, End: e}, nil
}

// Overlaps reports whether two half-open intervals intersect. Touching
// intervals (a.End == b.Start) do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

func overlapMinutes(a, b Interval) int {
	lo := a.Start
	if b.Start > lo {
		lo = b.Start
	}
	hi := a.End
	if b.End < hi {
		hi = b.End
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// Line is one rate band's contribution to a quote.
type Line struct {
	BandID string  `json:"band_id"`
	Label  string  `json:"label"`
	Hours  float64 `json:"hours"`
	Rate   float64 `json:"base_price"`
	Amount float64 `json:"amount"`
}

type Quote struct {
	Total     float64 `json:"total_amount"`
	Breakdown []Line  `json:"breakdown"`
}

// Price sums the overlap-weighted contribution of each active band over the
// interval. Bands that overlap each other both contribute for the shared
// sub-range; an interval no band covers prices at zero. Neither case is an
// error here. The caller decides whether a zero quote means misconfiguration.
func Price(bands []models.RateBand, iv Interval) Quote {
	q := Quote{Breakdown: []Line{}}
	for _, band := range bands {
		if !band.IsActive {
			continue
		}
		bandIv, err := parseBand(band)
		if err != nil {
			continue
		}
		mins := overlapMinutes(bandIv, iv)
		if mins == 0 {
			continue
		}
		hours := float64(mins) / 60
		line := Line{
			BandID: band.ID,
			Label:  band.Label,
			Hours:  hours,
			Rate:   band.BasePrice,
			Amount: hours * band.BasePrice,
		}
		q.Breakdown = append(q.Breakdown, line)
		q.Total += line.Amount
	}
	return q
}

func parseBand(band models.RateBand) (Interval, error) {
	s, err := ParseClock(band.StartTime)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(band.EndTime)
	if err != nil {
		return Interval{}, err
	}
	if e <= s {
		return Interval{}, fmt.Errorf("band %s has empty range", band.ID)
	}
	return Interval{Start: s, End: e}, nil
}
