package dashboard

import (
	"time"

	"github.com/trezcool/tafakari/core/reflection"
	"github.com/trezcool/tafakari/core/user"
)

// DefaultNegativeWindow is how far back a negative reflection still requires action.
const DefaultNegativeWindow = 72 * time.Hour

type Reason string

const (
	ReasonPending        Reason = "pending"
	ReasonNegativeRecent Reason = "negative-recent"
)

type ActionItem struct {
	Student user.User `json:"student"`
	Reason  Reason    `json:"reason"`
}

// ComputeActionRequired lists the students needing attention, in students order and without duplicates:
// those with no reflection at all (pending) and those with a negative reflection dated after now-window
// (negative-recent, which wins over pending).
func ComputeActionRequired(students []user.User, reflections []reflection.Reflection, now time.Time, window time.Duration) []ActionItem {
	if window <= 0 {
		window = DefaultNegativeWindow
	}
	cutoff := now.Add(-window)

	counts := make(map[string]int, len(students))
	negativeRecent := make(map[string]bool)
	for _, refl := range reflections {
		counts[refl.StudentID]++
		if refl.Sentiment == reflection.SentimentNegative && !refl.Date.IsZero() && refl.Date.After(cutoff) {
			negativeRecent[refl.StudentID] = true
		}
	}

	items := make([]ActionItem, 0)
	seen := make(map[string]struct{}, len(students))
	for _, student := range students {
		if _, ok := seen[student.ID]; ok {
			continue
		}
		seen[student.ID] = struct{}{}

		switch {
		case negativeRecent[student.ID]:
			items = append(items, ActionItem{Student: student, Reason: ReasonNegativeRecent})
		case counts[student.ID] == 0:
			items = append(items, ActionItem{Student: student, Reason: ReasonPending})
		}
	}
	return items
}
