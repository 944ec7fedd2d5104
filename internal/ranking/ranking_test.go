package ranking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func member(name string, hours float64, streak int) Member {
	return Member{
		UserID:     uuid.New(),
		Name:       name,
		TotalHours: hours,
		Streak:     streak,
	}
}

func TestBuild_DensePositionsWithTies(t *testing.T) {
	// A joined first with 10h, then B with 25h, then C also with 25h.
	// Ties keep join order and still occupy distinct positions.
	a := member("A", 10, 0)
	b := member("B", 25, 0)
	c := member("C", 25, 0)

	entries := Build([]Member{a, b, c}, MetricTotalHours)
	require.Len(t, entries, 3)

	assert.Equal(t, "B", entries[0].Name)
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, "C", entries[1].Name)
	assert.Equal(t, 2, entries[1].Position)
	assert.Equal(t, "A", entries[2].Name)
	assert.Equal(t, 3, entries[2].Position)
}

func TestBuild_EmptyMembers(t *testing.T) {
	entries := Build(nil, MetricTotalHours)
	require.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestBuild_StreakMetric(t *testing.T) {
	a := member("A", 100, 3)
	b := member("B", 1, 12)

	entries := Build([]Member{a, b}, MetricStreak)
	require.Len(t, entries, 2)

	assert.Equal(t, "B", entries[0].Name)
	assert.Equal(t, 12.0, entries[0].Value)
	assert.Equal(t, "A", entries[1].Name)
	assert.Equal(t, 3.0, entries[1].Value)
}

func TestBuild_MissingProfileRanksAtZeroWithFallbackName(t *testing.T) {
	ok := member("A", 5, 0)
	missing := Member{UserID: uuid.New(), Name: "stale", TotalHours: 99, ProfileMissing: true}

	entries := Build([]Member{missing, ok}, MetricTotalHours)
	require.Len(t, entries, 2)

	assert.Equal(t, "A", entries[0].Name)
	assert.Equal(t, FallbackName, entries[1].Name)
	assert.Equal(t, 0.0, entries[1].Value)
	assert.Equal(t, 2, entries[1].Position)
}

func TestBuild_EmptyNameGetsFallback(t *testing.T) {
	entries := Build([]Member{member("", 1, 0)}, MetricTotalHours)
	require.Len(t, entries, 1)
	assert.Equal(t, FallbackName, entries[0].Name)
}

func TestBuild_CustomMetricRanksEveryoneZero(t *testing.T) {
	a := member("A", 10, 5)
	b := member("B", 20, 1)

	entries := Build([]Member{a, b}, MetricCustom)
	require.Len(t, entries, 2)

	// join order preserved when all values tie
	assert.Equal(t, "A", entries[0].Name)
	assert.Equal(t, "B", entries[1].Name)
	assert.Equal(t, 0.0, entries[0].Value)
	assert.Equal(t, 0.0, entries[1].Value)
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, 2, entries[1].Position)
}

func TestNormalized(t *testing.T) {
	assert.Equal(t, 0.5, Normalized(10, 20))
	assert.Equal(t, 1.0, Normalized(20, 20))
	// zero top must not divide by zero
	assert.Equal(t, 0.0, Normalized(0, 0))
}

func TestMetricValid(t *testing.T) {
	assert.True(t, MetricTotalHours.Valid())
	assert.True(t, MetricStreak.Valid())
	assert.True(t, MetricCustom.Valid())
	assert.False(t, Metric("points").Valid())
	assert.False(t, Metric("").Valid())
}
