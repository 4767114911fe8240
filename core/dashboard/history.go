package dashboard

import (
	"sort"

	"github.com/trezcool/tafakari/core/reflection"
)

// ComputeStudentHistory returns the reflections of studentID, most recent first.
// Equal dates keep their snapshot order; unknown (zero) dates sort last.
func ComputeStudentHistory(studentID string, reflections []reflection.Reflection) []reflection.Reflection {
	history := make([]reflection.Reflection, 0)
	for _, refl := range reflections {
		if refl.StudentID == studentID {
			history = append(history, refl)
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		a, b := history[i].Date, history[j].Date
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})
	return history
}

// Latest returns the most recent reflection of studentID.
func Latest(studentID string, reflections []reflection.Reflection) (reflection.Reflection, bool) {
	history := ComputeStudentHistory(studentID, reflections)
	if len(history) == 0 {
		return reflection.Reflection{}, false
	}
	return history[0], true
}
