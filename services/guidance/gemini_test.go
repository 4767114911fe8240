package guidancesvc

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/trezcool/tafakari/core/guidance"
	"github.com/trezcool/tafakari/core/reflection"
)

type fakeModels struct {
	gotModel    string
	gotContents []*genai.Content
	gotConfig   *genai.GenerateContentConfig
	answer      string
	err         error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel, f.gotContents, f.gotConfig = model, contents, config
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(f.answer, genai.RoleModel)}},
	}, nil
}

var latest = reflection.Reflection{
	ID:              "r2",
	StudentID:       "s2",
	Date:            time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
	Satisfaction:    2,
	SelfEval:        "I got lost during the concurrency session.",
	AchievementEval: "Half of the exercise works.",
	FuturePlans:     "Ask for help.",
	Sentiment:       reflection.SentimentNegative,
}

func TestGeminiGenerator_Generate(t *testing.T) {
	tests := []struct {
		name    string
		models  *fakeModels
		want    string
		wantErr error
	}{
		{name: "answer is trimmed", models: &fakeModels{answer: "  **Suggested Actions:** talk to them  \n"}, want: "**Suggested Actions:** talk to them"},
		{name: "blank answer", models: &fakeModels{answer: "   "}, wantErr: guidance.ErrUnavailable},
		{name: "API failure", models: &fakeModels{err: errors.New("quota exceeded")}, wantErr: errors.New("generating guidance: quota exceeded")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := &GeminiGenerator{models: tc.models, model: "gemini-test"}
			got, err := gen.Generate(context.Background(), "Baraka Otieno", latest)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, tc.wantErr.Error(), err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, "gemini-test", tc.models.gotModel)
			require.NotNil(t, tc.models.gotConfig.SystemInstruction)
			require.Len(t, tc.models.gotContents, 1)
			assert.Contains(t, tc.models.gotContents[0].Parts[0].Text, "Student: Baraka Otieno")
		})
	}
}

func TestPrompt(t *testing.T) {
	got := prompt("Baraka Otieno", latest)
	assert.Contains(t, got, "Date: 2026-01-05\n")
	assert.Contains(t, got, "Satisfaction: 2/5\n")
	assert.Contains(t, got, "Sentiment: negative\n")
	assert.Contains(t, got, "Plans for tomorrow: Ask for help.\n")

	undated := latest
	undated.Date = time.Time{}
	undated.Sentiment = ""
	got = prompt("Baraka Otieno", undated)
	assert.NotContains(t, got, "Date:")
	assert.NotContains(t, got, "Sentiment:")
}

func TestNewGeminiGenerator_requiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), "", "")
	assert.Error(t, err)
}
