package guidance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tafakari/core/reflection"
)

func TestTemplateGenerator_Generate(t *testing.T) {
	tests := []struct {
		sentiment reflection.Sentiment
		want      string
	}{
		{sentiment: reflection.SentimentNegative, want: "struggling"},
		{sentiment: reflection.SentimentPositive, want: "Amani is doing well!"},
		{sentiment: reflection.SentimentNeutral, want: "steady pace"},
		{sentiment: "", want: "Here is a guidance plan for Amani."},
	}

	gen := NewTemplateGenerator(0)
	for _, tc := range tests {
		t.Run(string(tc.sentiment), func(t *testing.T) {
			got, err := gen.Generate(context.Background(), "Amani", reflection.Reflection{Sentiment: tc.sentiment})
			require.NoError(t, err)
			assert.Contains(t, got, tc.want)
		})
	}
}

func TestTemplateGenerator_cancelled(t *testing.T) {
	gen := NewTemplateGenerator(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Generate(ctx, "Amani", reflection.Reflection{})
	assert.ErrorIs(t, err, context.Canceled)
}
