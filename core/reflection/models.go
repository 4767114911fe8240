package reflection

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tafakari/core"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

const (
	MinSatisfaction = 1
	MaxSatisfaction = 5
)

// Reflection is one student's submission for one day.
type Reflection struct {
	ID        string `json:"id" db:"id"`
	StudentID string `json:"student_id" db:"student_id"`
	// Date is the submission instant. The zero value marks an unknown or unparseable date.
	Date            time.Time `json:"date" db:"date"`
	Satisfaction    int       `json:"satisfaction" db:"satisfaction"`
	SelfEval        string    `json:"self_eval" db:"self_eval"`
	AchievementEval string    `json:"achievement_eval" db:"achievement_eval"`
	FuturePlans     string    `json:"future_plans" db:"future_plans"`
	TeacherFeedback *string   `json:"teacher_feedback,omitempty" db:"teacher_feedback"`
	// Sentiment is assigned upstream; empty when unknown.
	Sentiment Sentiment `json:"sentiment,omitempty" db:"sentiment"`
}

func (r Reflection) HasFeedback() bool { return r.TeacherFeedback != nil }

// ParseDate parses an ISO 8601 instant. Unparseable input yields the zero time.
func ParseDate(s string) time.Time {
	s = core.CleanString(s)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// NewReflection contains information needed to submit a daily reflection.
type NewReflection struct {
	StudentID       string    `json:"student_id" validate:"required,notblank"`
	Satisfaction    int       `json:"satisfaction" validate:"rating"`
	SelfEval        string    `json:"self_eval" validate:"required,notblank,max=2000"`
	AchievementEval string    `json:"achievement_eval" validate:"required,notblank,max=2000"`
	FuturePlans     string    `json:"future_plans" validate:"required,notblank,max=2000"`
	Sentiment       Sentiment `json:"sentiment" validate:"omitempty,sentiment"`
}

func (nr *NewReflection) Validate(validate *validator.Validate) error {
	nr.StudentID = core.CleanString(nr.StudentID)
	nr.SelfEval = core.CleanString(nr.SelfEval)
	nr.AchievementEval = core.CleanString(nr.AchievementEval)
	nr.FuturePlans = core.CleanString(nr.FuturePlans)
	nr.Sentiment = Sentiment(core.CleanString(string(nr.Sentiment), true /* lower */))
	return validate.Struct(nr)
}

// Update holds the patchable fields of a Reflection. Nil fields are left untouched.
type Update struct {
	TeacherFeedback *string
}

func (u Update) Apply(r *Reflection) {
	if u.TeacherFeedback != nil {
		fb := *u.TeacherFeedback
		r.TeacherFeedback = &fb
	}
}

type QueryFilter struct {
	StudentID string    `query:"student_id"`
	Since     time.Time `query:"-"` // reflections dated at or after Since; unknown dates are excluded
}
