package guidancesvc

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/trezcool/tafakari/core/guidance"
	"github.com/trezcool/tafakari/core/reflection"
)

const systemInstruction = `You are an experienced teaching assistant helping a teacher follow up with a student.
From the student's latest daily reflection, write short, practical guidance for the teacher.
Answer in Markdown with a "**Suggested Actions:**" numbered list of at most three items,
followed by a "**Conversation Starter:**" line the teacher can say to the student.`

// contentGenerator is satisfied by *genai.Models.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator asks a Gemini model for guidance.
type GeminiGenerator struct {
	models contentGenerator
	model  string
}

var _ guidance.Generator = (*GeminiGenerator)(nil)

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating genai client")
	}
	return &GeminiGenerator{models: client.Models, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, studentName string, latest reflection.Reflection) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt(studentName, latest)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.4),
	})
	if err != nil {
		return "", errors.Wrap(err, "generating guidance")
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", guidance.ErrUnavailable
	}
	return text, nil
}

func prompt(studentName string, latest reflection.Reflection) string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "Student: %s\n", studentName)
	if !latest.Date.IsZero() {
		_, _ = fmt.Fprintf(&b, "Date: %s\n", latest.Date.Format("2006-01-02"))
	}
	_, _ = fmt.Fprintf(&b, "Satisfaction: %d/%d\n", latest.Satisfaction, reflection.MaxSatisfaction)
	if latest.Sentiment != "" {
		_, _ = fmt.Fprintf(&b, "Sentiment: %s\n", latest.Sentiment)
	}
	_, _ = fmt.Fprintf(&b, "How they felt about the day: %s\n", latest.SelfEval)
	_, _ = fmt.Fprintf(&b, "What they achieved: %s\n", latest.AchievementEval)
	_, _ = fmt.Fprintf(&b, "Plans for tomorrow: %s\n", latest.FuturePlans)
	return b.String()
}
