package classifier

import (
	"github.com/grassmudhorses/vader-go/lexicon"
	"github.com/grassmudhorses/vader-go/sentitext"
)

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Label thresholds on the VADER compound score.
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// SentimentResult holds the sentiment label and the continuous
// compound score in [-1.0, 1.0].
type SentimentResult struct {
	Label string
	Score float64
}

// SentimentAnalyzer scores free-form text against the VADER lexicon.
// It keeps no per-call state and is safe for concurrent use.
type SentimentAnalyzer struct {
	lexicon lexicon.Lexicon
}

// NewSentimentAnalyzer creates an analyzer backed by the default
// VADER lexicon.
func NewSentimentAnalyzer() *SentimentAnalyzer {
	return &SentimentAnalyzer{lexicon: lexicon.DefaultLexicon}
}

// Score computes the compound polarity of the text and classifies it:
// score >= 0.05 is positive, score <= -0.05 is negative, anything
// strictly between is neutral.
func (a *SentimentAnalyzer) Score(text string) SentimentResult {
	parsed := sentitext.Parse(text, a.lexicon)
	compound := sentitext.PolarityScore(parsed).Compound
	return SentimentResult{
		Label: LabelFor(compound),
		Score: compound,
	}
}

// LabelFor maps a compound score to its coarse label.
func LabelFor(compound float64) string {
	switch {
	case compound >= positiveThreshold:
		return SentimentPositive
	case compound <= negativeThreshold:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
