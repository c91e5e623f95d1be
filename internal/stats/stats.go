// Package stats derives completion, streak, trend and summary figures from
// snapshots of the activity log. Every function is total over its input and
// never touches storage.
package stats

import (
	"sort"
	"time"

	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/utils"
)

// TrendDirection is the result of comparing the two halves of a series.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

// Progress buckets. Each upper edge is inclusive.
const (
	Bucket0to25   = "0-25"
	Bucket26to50  = "26-50"
	Bucket51to75  = "51-75"
	Bucket76to90  = "76-90"
	Bucket91to100 = "91-100"
)

// Summary aggregates one value per day.
type Summary struct {
	Total      float64 `json:"total"`
	Average    float64 `json:"average"`
	Max        float64 `json:"max"`
	Min        float64 `json:"min"`
	DaysLogged int     `json:"days_logged"`
}

// CompletionPercentage scores value against goal on a 0-100 scale.
// A zero goal is met by any positive value.
func CompletionPercentage(value, goal float64) float64 {
	switch {
	case goal > 0:
		return min(100, value/goal*100)
	case goal == 0:
		if value > 0 {
			return 100
		}
		return 0
	default:
		return 0
	}
}

// DailyAverageCompletion is the unweighted mean completion of the records
// logged on date. Every record counts equally regardless of its goal.
func DailyAverageCompletion(records []models.Activity, date string) float64 {
	var sum float64
	n := 0
	for _, r := range records {
		if r.Date != date {
			continue
		}
		sum += CompletionPercentage(r.Value, r.Goal)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// ProgressCategory maps a percentage to its display bucket.
func ProgressCategory(p float64) string {
	switch {
	case p <= 25:
		return Bucket0to25
	case p <= 50:
		return Bucket26to50
	case p <= 75:
		return Bucket51to75
	case p <= 90:
		return Bucket76to90
	default:
		return Bucket91to100
	}
}

// Streak counts consecutive calendar days with activity, ending today or
// yesterday. Malformed dates are ignored. A day counts if anything was
// logged, whether or not the goal was met.
func Streak(dates []string, today time.Time) int {
	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		t, err := utils.ParseDate(d)
		if err != nil {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		days = append(days, t)
	}
	if len(days) == 0 {
		return 0
	}

	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	todayDay := utils.CalendarDay(today)
	yesterday := todayDay.AddDate(0, 0, -1)
	if !days[0].Equal(todayDay) && !days[0].Equal(yesterday) {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if !days[i].Equal(days[i-1].AddDate(0, 0, -1)) {
			break
		}
		streak++
	}
	return streak
}

// StreakFor computes the streak over records, restricted to trackerName
// unless it is empty.
func StreakFor(records []models.Activity, trackerName string, today time.Time) int {
	dates := make([]string, 0, len(records))
	for _, r := range records {
		if trackerName != "" && r.TrackerName != trackerName {
			continue
		}
		dates = append(dates, r.Date)
	}
	return Streak(dates, today)
}

// Trend compares the mean of the second half of values against the first.
// For odd lengths the second half holds the extra element.
func Trend(values []float64) TrendDirection {
	if len(values) < 2 {
		return TrendStable
	}

	mid := len(values) / 2
	first := mean(values[:mid])
	second := mean(values[mid:])

	switch {
	case second > first*constants.TrendImproveFactor:
		return TrendImproving
	case second < first*constants.TrendDeclineFactor:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// WeeklySummary aggregates a date to value mapping. Empty input gives a zero Summary.
func WeeklySummary(daily map[string]float64) Summary {
	if len(daily) == 0 {
		return Summary{}
	}

	s := Summary{DaysLogged: len(daily)}
	first := true
	for _, v := range daily {
		s.Total += v
		if first || v > s.Max {
			s.Max = v
		}
		if first || v < s.Min {
			s.Min = v
		}
		first = false
	}
	s.Average = s.Total / float64(s.DaysLogged)
	return s
}

// DailyTotals sums trackerName's values per date.
func DailyTotals(records []models.Activity, trackerName string) map[string]float64 {
	out := make(map[string]float64)
	for _, r := range records {
		if r.TrackerName != trackerName {
			continue
		}
		out[r.Date] += r.Value
	}
	return out
}

// SeriesFor orders a DailyTotals map by date for trend analysis.
func SeriesFor(daily map[string]float64) []float64 {
	dates := make([]string, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	values := make([]float64, len(dates))
	for i, d := range dates {
		values[i] = daily[d]
	}
	return values
}

// CompletionRate is the share of records marked completed, as a percentage.
func CompletionRate(records []models.Activity) float64 {
	if len(records) == 0 {
		return 0
	}
	done := 0
	for _, r := range records {
		if r.Completed {
			done++
		}
	}
	return float64(done) / float64(len(records)) * 100
}

// StreakMilestone returns the highest milestone reached by streak, or 0.
func StreakMilestone(streak int) int {
	reached := 0
	for _, m := range constants.StreakMilestones {
		if streak >= m {
			reached = m
		}
	}
	return reached
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
