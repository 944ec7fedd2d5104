package timebucket

import (
	"math"
	"strconv"
	"time"
)

// Row is a single fetched study session: when it started and how long it
// ran. DurationMinutes stays nil while the session is running; such rows
// never contribute to a bucket.
type Row struct {
	StartTime       time.Time `json:"start_time" db:"start_time"`
	DurationMinutes *int      `json:"duration_minutes" db:"duration_minutes"`
}

// DayBucket is one aggregated hours-per-calendar-day value for charts and
// the heatmap. Buckets are derived on every load, never persisted.
type DayBucket struct {
	Label string    `json:"label"`
	Date  time.Time `json:"date"`
	Hours float64   `json:"hours"`
}

var weekdayLabels = [7]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

// RoundHours converts minutes to fractional hours with fixed one-decimal
// rounding (half away from zero, which is half-up for non-negative input).
func RoundHours(minutes int) float64 {
	return math.Round(float64(minutes)/60*10) / 10
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// sumByDay assigns every completed session to exactly one calendar day.
// A session starting at midnight lands in the day that begins there, so
// adjacent buckets can never both count it.
func sumByDay(rows []Row, loc *time.Location) map[time.Time]int {
	minutes := make(map[time.Time]int)
	for _, r := range rows {
		if r.DurationMinutes == nil {
			continue
		}
		minutes[startOfDay(r.StartTime, loc)] += *r.DurationMinutes
	}
	return minutes
}

// WeekBuckets partitions rows into the trailing 7-day window ending on the
// day of now. It always returns exactly 7 buckets: labels come from the
// calendar, so days without any session still appear with zero hours.
func WeekBuckets(rows []Row, now time.Time, loc *time.Location) []DayBucket {
	minutes := sumByDay(rows, loc)
	start := startOfDay(now, loc).AddDate(0, 0, -6)

	buckets := make([]DayBucket, 0, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		buckets = append(buckets, DayBucket{
			Label: weekdayLabels[int(day.Weekday())],
			Date:  day,
			Hours: RoundHours(minutes[day]),
		})
	}
	return buckets
}

// MonthBuckets partitions rows into one bucket per day of the given month,
// labeled by day-of-month.
func MonthBuckets(rows []Row, year int, month time.Month, loc *time.Location) []DayBucket {
	minutes := sumByDay(rows, loc)
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	next := first.AddDate(0, 1, 0)

	var buckets []DayBucket
	for day := first; day.Before(next); day = day.AddDate(0, 0, 1) {
		buckets = append(buckets, DayBucket{
			Label: strconv.Itoa(day.Day()),
			Date:  day,
			Hours: RoundHours(minutes[day]),
		})
	}
	return buckets
}

// HeatTier maps an hours-per-day value onto the six calendar intensity
// tiers: 0, (0,1), [1,2), [2,4), [4,6), [6,∞).
func HeatTier(hours float64) int {
	switch {
	case hours <= 0:
		return 0
	case hours < 1:
		return 1
	case hours < 2:
		return 2
	case hours < 4:
		return 3
	case hours < 6:
		return 4
	default:
		return 5
	}
}
