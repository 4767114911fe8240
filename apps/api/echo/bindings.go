package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/tafakari/core"
)

var orderingParam = "ordering"

// Ordering binds `?ordering=-date,satisfaction`; a leading "-" sorts descending.
type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

type (
	SelectStudentRequest struct {
		StudentID string `json:"student_id" validate:"required,notblank"`
	}

	DraftRequest struct {
		Text string `json:"text"`
	}

	// PublishFeedbackRequest falls back to the selected student's latest reflection and the current draft.
	PublishFeedbackRequest struct {
		ReflectionID *string `json:"reflection_id"`
		Text         *string `json:"text"`
	}

	PublishFeedbackResponse struct {
		Published bool `json:"published"`
	}
)
