package guidance

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/tafakari/core/reflection"
)

// NoDataMessage is returned instead of calling a Generator for students without reflections.
const NoDataMessage = "This student hasn't submitted any reflections yet. " +
	"Suggest reaching out via email to check if they need support with the platform."

var ErrUnavailable = errors.New("guidance unavailable")

// Generator produces free-text advice for a teacher about a student, from their latest reflection.
type Generator interface {
	Generate(ctx context.Context, studentName string, latest reflection.Reflection) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, studentName string, latest reflection.Reflection) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, studentName string, latest reflection.Reflection) (string, error) {
	return f(ctx, studentName, latest)
}

// TemplateGenerator answers with canned advice keyed on the reflection's sentiment.
type TemplateGenerator struct {
	// Delay simulates a slow collaborator.
	Delay time.Duration
}

var _ Generator = (*TemplateGenerator)(nil)

func NewTemplateGenerator(delay time.Duration) *TemplateGenerator {
	return &TemplateGenerator{Delay: delay}
}

func (g *TemplateGenerator) Generate(ctx context.Context, studentName string, latest reflection.Reflection) (string, error) {
	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", errors.Wrap(ctx.Err(), "generating guidance")
		case <-timer.C:
		}
	}

	switch latest.Sentiment {
	case reflection.SentimentNegative:
		return fmt.Sprintf(negativeTmpl, studentName), nil
	case reflection.SentimentPositive:
		return fmt.Sprintf(positiveTmpl, studentName, studentName), nil
	default:
		return fmt.Sprintf(neutralTmpl, studentName), nil
	}
}

const (
	negativeTmpl = `Based on %s's recent reflection, they seem to be struggling with group dynamics.

**Suggested Actions:**
1. Schedule a deeper 1:1 consultation to discuss specific incidents.
2. Encourage them to identify one small success from the day.
3. Monitor their next group activity and provide immediate positive reinforcement.

**Conversation Starter:** "I noticed you felt a bit down about the group work yesterday. Can you tell me more about what happened?"`

	positiveTmpl = `%s is doing well!

**Suggested Actions:**
1. Acknowledge %s's effort in class publicly or privately.
2. Challenge them to take on a leadership role in the next activity.

**Conversation Starter:** "Great job on the reflection! I'm proud of your progress."`

	neutralTmpl = `Here is a guidance plan for %s.

**Observation:**
The student is maintaining a steady pace.

**Recommendation:**
Check in to see if they need more challenges.`
)
