package timebucket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func at(y int, m time.Month, d, hour, min int) time.Time {
	return time.Date(y, m, d, hour, min, 0, 0, time.UTC)
}

func TestWeekBuckets_AlwaysSevenDays(t *testing.T) {
	now := at(2026, time.March, 10, 15, 0)

	buckets := WeekBuckets(nil, now, time.UTC)
	require.Len(t, buckets, 7)

	// window ends on the day of now
	assert.Equal(t, at(2026, time.March, 4, 0, 0), buckets[0].Date)
	assert.Equal(t, at(2026, time.March, 10, 0, 0), buckets[6].Date)
	for _, b := range buckets {
		assert.Equal(t, 0.0, b.Hours)
	}
}

func TestWeekBuckets_SumConservation(t *testing.T) {
	now := at(2026, time.March, 10, 15, 0)
	rows := []Row{
		{StartTime: at(2026, time.March, 8, 9, 0), DurationMinutes: intp(30)},
		{StartTime: at(2026, time.March, 8, 20, 0), DurationMinutes: intp(90)},
		{StartTime: at(2026, time.March, 10, 7, 0), DurationMinutes: intp(60)},
	}

	buckets := WeekBuckets(rows, now, time.UTC)
	require.Len(t, buckets, 7)

	var total float64
	for _, b := range buckets {
		total += b.Hours
	}
	// 30 + 90 + 60 minutes, each day rounded to one decimal
	assert.InDelta(t, 3.0, total, 1e-9)

	// the two March 8 sessions merge into one bucket
	assert.Equal(t, 2.0, buckets[4].Hours)
	assert.Equal(t, 1.0, buckets[6].Hours)
}

func TestWeekBuckets_RunningSessionExcluded(t *testing.T) {
	now := at(2026, time.March, 10, 15, 0)
	rows := []Row{
		{StartTime: at(2026, time.March, 10, 14, 0), DurationMinutes: nil},
		{StartTime: at(2026, time.March, 10, 7, 0), DurationMinutes: intp(60)},
	}

	buckets := WeekBuckets(rows, now, time.UTC)
	assert.Equal(t, 1.0, buckets[6].Hours)
}

func TestWeekBuckets_MidnightCountsOnce(t *testing.T) {
	now := at(2026, time.March, 10, 15, 0)
	rows := []Row{
		// exactly midnight belongs to March 9, not March 8
		{StartTime: at(2026, time.March, 9, 0, 0), DurationMinutes: intp(120)},
	}

	buckets := WeekBuckets(rows, now, time.UTC)
	assert.Equal(t, 0.0, buckets[4].Hours)
	assert.Equal(t, 2.0, buckets[5].Hours)
	assert.Equal(t, 0.0, buckets[6].Hours)
}

func TestWeekBuckets_WeekdayLabels(t *testing.T) {
	// March 10 2026 is a Tuesday, so the window runs Wed..Tue.
	now := at(2026, time.March, 10, 15, 0)

	buckets := WeekBuckets(nil, now, time.UTC)
	labels := make([]string, 0, 7)
	for _, b := range buckets {
		labels = append(labels, b.Label)
	}
	assert.Equal(t, []string{"Qua", "Qui", "Sex", "Sáb", "Dom", "Seg", "Ter"}, labels)
}

func TestMonthBuckets_LengthMatchesMonth(t *testing.T) {
	assert.Len(t, MonthBuckets(nil, 2026, time.February, time.UTC), 28)
	assert.Len(t, MonthBuckets(nil, 2024, time.February, time.UTC), 29)
	assert.Len(t, MonthBuckets(nil, 2026, time.March, time.UTC), 31)
	assert.Len(t, MonthBuckets(nil, 2026, time.April, time.UTC), 30)
}

func TestMonthBuckets_DayLabelsAndPlacement(t *testing.T) {
	rows := []Row{
		{StartTime: at(2026, time.March, 5, 22, 30), DurationMinutes: intp(45)},
	}

	buckets := MonthBuckets(rows, 2026, time.March, time.UTC)
	require.Len(t, buckets, 31)

	assert.Equal(t, "1", buckets[0].Label)
	assert.Equal(t, "31", buckets[30].Label)
	assert.Equal(t, 0.8, buckets[4].Hours)
}

func TestRoundHours(t *testing.T) {
	assert.Equal(t, 0.5, RoundHours(30))
	assert.Equal(t, 2.0, RoundHours(120))
	// 100 min = 1.666..h rounds to 1.7
	assert.Equal(t, 1.7, RoundHours(100))
	// 33 min = 0.55h, half rounds up
	assert.Equal(t, 0.6, RoundHours(33))
	assert.Equal(t, 0.0, RoundHours(0))
}

func TestHeatTier(t *testing.T) {
	assert.Equal(t, 0, HeatTier(0))
	assert.Equal(t, 1, HeatTier(0.99))
	assert.Equal(t, 2, HeatTier(1.0))
	assert.Equal(t, 3, HeatTier(2.0))
	assert.Equal(t, 3, HeatTier(3.9))
	assert.Equal(t, 4, HeatTier(4.0))
	assert.Equal(t, 4, HeatTier(5.99))
	assert.Equal(t, 5, HeatTier(6.0))
	assert.Equal(t, 5, HeatTier(12))
}

func TestHeatTier_TwoSessionsSameDay(t *testing.T) {
	now := at(2026, time.March, 10, 15, 0)
	rows := []Row{
		{StartTime: at(2026, time.March, 10, 8, 0), DurationMinutes: intp(30)},
		{StartTime: at(2026, time.March, 10, 18, 0), DurationMinutes: intp(90)},
	}

	buckets := WeekBuckets(rows, now, time.UTC)
	assert.Equal(t, 2.0, buckets[6].Hours)
	assert.Equal(t, 3, HeatTier(buckets[6].Hours))
}
