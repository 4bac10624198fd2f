package entity

import "time"

// GameMention represents a single classified comment mention of a
// tracked entity (game, console, platform or company).
type GameMention struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Timestamp       time.Time `gorm:"not null" json:"timestamp"`
	EntityMentioned string    `gorm:"size:100;not null" json:"entity_mentioned"`
	EntityType      string    `gorm:"size:50" json:"entity_type"`
	SentimentScore  float64   `json:"sentiment_score"`
	SentimentLabel  string    `gorm:"size:10" json:"sentiment_label"`
	ContextURL      string    `gorm:"size:255;uniqueIndex" json:"context_url"`
}

// TableName specifies the table name for the GameMention model.
func (GameMention) TableName() string {
	return "game_mentions"
}
