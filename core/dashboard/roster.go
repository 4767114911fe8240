package dashboard

import (
	"github.com/trezcool/tafakari/core/reflection"
	"github.com/trezcool/tafakari/core/user"
)

type RosterRow struct {
	Student         user.User              `json:"student"`
	ReflectionCount int                    `json:"reflection_count"`
	LastReflection  *reflection.Reflection `json:"last_reflection,omitempty"`
	LastSentiment   reflection.Sentiment   `json:"last_sentiment,omitempty"`
	Participation   int                    `json:"participation"` // percent, 10 per reflection, capped at 100
}

// ComputeRoster builds one row per student, in students order.
func ComputeRoster(students []user.User, reflections []reflection.Reflection) []RosterRow {
	rows := make([]RosterRow, 0, len(students))
	for _, student := range students {
		history := ComputeStudentHistory(student.ID, reflections)
		row := RosterRow{
			Student:         student,
			ReflectionCount: len(history),
			Participation:   len(history) * 10,
		}
		if row.Participation > 100 {
			row.Participation = 100
		}
		if len(history) > 0 {
			last := history[0]
			row.LastReflection = &last
			row.LastSentiment = last.Sentiment
		}
		rows = append(rows, row)
	}
	return rows
}
