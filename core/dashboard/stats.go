package dashboard

import (
	"math"
	"time"

	"github.com/trezcool/tafakari/core/reflection"
)

type SummaryStats struct {
	TotalReflections       int     `json:"total_reflections"`
	AvgSatisfaction        float64 `json:"avg_satisfaction"` // one decimal place
	NegativeSentimentCount int     `json:"negative_sentiment_count"`
	StudentsWithTodayCount int     `json:"students_with_today_count"`
	TotalStudents          int     `json:"total_students"`
}

// ComputeSummaryStats summarizes reflections as seen at now.
// "Today" is now's calendar day in now's location. TotalStudents is left to the caller.
func ComputeSummaryStats(reflections []reflection.Reflection, now time.Time) SummaryStats {
	stats := SummaryStats{TotalReflections: len(reflections)}
	if len(reflections) == 0 {
		return stats
	}

	var sum int
	today := make(map[string]struct{})
	for _, refl := range reflections {
		sum += refl.Satisfaction
		if refl.Sentiment == reflection.SentimentNegative {
			stats.NegativeSentimentCount++
		}
		if sameDay(refl.Date, now) {
			today[refl.StudentID] = struct{}{}
		}
	}
	stats.AvgSatisfaction = round1(float64(sum) / float64(len(reflections)))
	stats.StudentsWithTodayCount = len(today)
	return stats
}

// sameDay reports whether t falls on ref's calendar day, in ref's location.
func sameDay(t, ref time.Time) bool {
	if t.IsZero() {
		return false
	}
	y1, m1, d1 := t.In(ref.Location()).Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
