package services

import (
	"context"
	"slices"
	"time"

	"github.com/dmitrijs2005/mindbalance/internal/client/models"
	"github.com/dmitrijs2005/mindbalance/internal/common"
)

// MoodCount is one bar of the mood chart.
type MoodCount struct {
	Mood  string
	Count int
}

// StressPoint is the average stress of one calendar day.
type StressPoint struct {
	Day     time.Time
	Average float64
	Entries int
}

// MoodTrend counts entries per mood in common.Moods order. Moods without
// entries are reported with zero.
func MoodTrend(entries []models.MoodEntry) []MoodCount {
	counts := make(map[string]int, len(common.Moods))
	for _, e := range entries {
		counts[e.Mood]++
	}
	out := make([]MoodCount, 0, len(common.Moods))
	for _, m := range common.Moods {
		out = append(out, MoodCount{Mood: m, Count: counts[m]})
	}
	return out
}

// StressTrend averages stress per day in loc, oldest day first.
func StressTrend(entries []models.MoodEntry, loc *time.Location) []StressPoint {
	if loc == nil {
		loc = time.Local
	}

	type acc struct{ sum, n int }
	days := make(map[time.Time]*acc)
	var order []time.Time

	for _, e := range entries {
		t := e.CreatedAt.In(loc)
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		a, ok := days[day]
		if !ok {
			a = &acc{}
			days[day] = a
			order = append(order, day)
		}
		a.sum += e.Stress
		a.n++
	}

	out := make([]StressPoint, 0, len(order))
	for _, d := range order {
		a := days[d]
		out = append(out, StressPoint{Day: d, Average: float64(a.sum) / float64(a.n), Entries: a.n})
	}
	slices.SortFunc(out, func(a, b StressPoint) int { return a.Day.Compare(b.Day) })
	return out
}

// InsightsService gates the charts by tier. The mood chart is free, the
// stress chart needs Pro.
type InsightsService struct {
	tier *TierService
}

func NewInsightsService(tier *TierService) *InsightsService {
	return &InsightsService{tier: tier}
}

func (s *InsightsService) MoodTrend(_ context.Context, entries []models.MoodEntry) []MoodCount {
	return MoodTrend(entries)
}

func (s *InsightsService) StressTrend(ctx context.Context, uid string, entries []models.MoodEntry, loc *time.Location) ([]StressPoint, error) {
	pro, err := s.tier.IsPro(ctx, uid)
	if err != nil {
		return nil, err
	}
	if !pro {
		return nil, ErrProRequired
	}
	return StressTrend(entries, loc), nil
}
