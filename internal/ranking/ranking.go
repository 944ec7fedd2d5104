package ranking

import (
	"sort"

	"github.com/google/uuid"
)

// FallbackName replaces the display name of members whose profile row could
// not be loaded. The member still ranks with a zero value instead of being
// dropped, so the ranking always has one entry per membership.
const FallbackName = "Usuário"

// Metric is the field a group competes on.
type Metric string

const (
	MetricTotalHours Metric = "total_hours"
	MetricStreak     Metric = "streak"
	MetricCustom     Metric = "custom"
)

func (m Metric) Valid() bool {
	switch m {
	case MetricTotalHours, MetricStreak, MetricCustom:
		return true
	}
	return false
}

// Member is one group membership row joined with whatever profile data
// loaded for it, in the order the memberships were created.
type Member struct {
	UserID         uuid.UUID
	Name           string
	AvatarURL      *string
	TotalHours     float64
	Streak         int
	ProfileMissing bool
}

type Entry struct {
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Value     float64   `json:"value"`
	Position  int       `json:"position"`
	Progress  float64   `json:"progress"`
}

// Build ranks a group's members by the configured metric. The sort is
// stable and descending, positions are a dense 1..N (tied values keep
// input order and still get distinct positions), and an empty member list
// yields an empty ranking rather than an error.
func Build(members []Member, metric Metric) []Entry {
	entries := make([]Entry, 0, len(members))
	for _, m := range members {
		name := m.Name
		if m.ProfileMissing || name == "" {
			name = FallbackName
		}
		entries = append(entries, Entry{
			UserID:    m.UserID,
			Name:      name,
			AvatarURL: m.AvatarURL,
			Value:     metricValue(m, metric),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})

	var top float64
	if len(entries) > 0 {
		top = entries[0].Value
	}
	for i := range entries {
		entries[i].Position = i + 1
		entries[i].Progress = Normalized(entries[i].Value, top)
	}
	return entries
}

func metricValue(m Member, metric Metric) float64 {
	if m.ProfileMissing {
		return 0
	}
	switch metric {
	case MetricTotalHours:
		return m.TotalHours
	case MetricStreak:
		return float64(m.Streak)
	default:
		// custom groups have no backing profile field; everyone ranks level
		// until one exists.
		return 0
	}
}

// Normalized returns value relative to the top score, for the relative
// progress bar. A zero top degenerates to dividing by 1 so the result is
// always defined.
func Normalized(value, top float64) float64 {
	if top == 0 {
		top = 1
	}
	return value / top
}
