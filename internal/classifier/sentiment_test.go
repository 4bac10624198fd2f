package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentimentAnalyzer_Score_Deterministic(t *testing.T) {
	analyzer := NewSentimentAnalyzer()

	first := analyzer.Score("Starfield is amazing!")
	for i := 0; i < 5; i++ {
		again := analyzer.Score("Starfield is amazing!")
		assert.Equal(t, first.Label, again.Label)
		assert.Equal(t, first.Score, again.Score)
	}
}

func TestSentimentAnalyzer_Score_Polarity(t *testing.T) {
	analyzer := NewSentimentAnalyzer()

	positive := analyzer.Score("Starfield is amazing! I love it, best game ever")
	assert.Equal(t, SentimentPositive, positive.Label)
	assert.Greater(t, positive.Score, 0.05)

	negative := analyzer.Score("this game is terrible, awful and boring, I hate it")
	assert.Equal(t, SentimentNegative, negative.Label)
	assert.Less(t, negative.Score, -0.05)
}

func TestSentimentAnalyzer_Score_Range(t *testing.T) {
	analyzer := NewSentimentAnalyzer()

	for _, text := range []string{
		"Starfield is amazing!",
		"this game is terrible",
		"the patch notes were published on tuesday",
		"",
	} {
		result := analyzer.Score(text)
		assert.GreaterOrEqual(t, result.Score, -1.0)
		assert.LessOrEqual(t, result.Score, 1.0)
	}
}

func TestLabelFor_Boundaries(t *testing.T) {
	tests := []struct {
		name     string
		compound float64
		want     string
	}{
		{"exactly positive threshold", 0.05, SentimentPositive},
		{"exactly negative threshold", -0.05, SentimentNegative},
		{"just below positive threshold", 0.049, SentimentNeutral},
		{"just above negative threshold", -0.049, SentimentNeutral},
		{"zero", 0, SentimentNeutral},
		{"strongly positive", 0.9, SentimentPositive},
		{"strongly negative", -0.9, SentimentNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LabelFor(tt.compound))
		})
	}
}
