package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAdvance_FirstEverSession(t *testing.T) {
	assert.Equal(t, 1, Advance(nil, day(2026, time.March, 10), 0))
}

func TestAdvance_SameDayUnchanged(t *testing.T) {
	last := day(2026, time.March, 10)
	assert.Equal(t, 4, Advance(&last, day(2026, time.March, 10), 4))
}

func TestAdvance_NextDayIncrements(t *testing.T) {
	last := day(2026, time.March, 10)
	assert.Equal(t, 5, Advance(&last, day(2026, time.March, 11), 4))
}

func TestAdvance_GapResets(t *testing.T) {
	last := day(2026, time.March, 10)
	assert.Equal(t, 1, Advance(&last, day(2026, time.March, 12), 4))
	assert.Equal(t, 1, Advance(&last, day(2026, time.June, 1), 30))
}

func TestAdvance_IgnoresTimeOfDay(t *testing.T) {
	last := time.Date(2026, time.March, 10, 23, 59, 0, 0, time.UTC)
	now := time.Date(2026, time.March, 11, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 2, Advance(&last, now, 1))
}

func TestAdvance_CrossesMonthBoundary(t *testing.T) {
	last := day(2026, time.February, 28)
	assert.Equal(t, 8, Advance(&last, day(2026, time.March, 1), 7))
}

func TestLongest(t *testing.T) {
	assert.Equal(t, 10, Longest(10, 7))
	assert.Equal(t, 12, Longest(3, 12))
	assert.Equal(t, 5, Longest(5, 5))
}
