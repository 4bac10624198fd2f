package dto

import "time"

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MentionResponse is one row of the time-range query consumed by the
// dashboard.
type MentionResponse struct {
	Timestamp       time.Time `json:"timestamp"`
	EntityMentioned string    `json:"entity_mentioned"`
	EntityType      string    `json:"entity_type"`
	SentimentLabel  string    `json:"sentiment_label"`
}

// SummaryResponse carries the dashboard KPI numbers for a window.
type SummaryResponse struct {
	TotalMentions    int64   `json:"total_mentions"`
	PositivePercent  float64 `json:"positive_percent"`
	TopEntity        string  `json:"top_entity"`
	OverallSentiment string  `json:"overall_sentiment"`
}

// HistoryPoint is the per-day mention count for one sentiment label.
type HistoryPoint struct {
	Date           string `json:"date"`
	SentimentLabel string `json:"sentiment_label"`
	Count          int64  `json:"count"`
}

// TopEntity is one row of the most-mentioned ranking.
type TopEntity struct {
	EntityMentioned string `json:"entity_mentioned"`
	Count           int64  `json:"count"`
}
