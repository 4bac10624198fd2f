package common

import "time"

const (
	// RedisKeyMentionSeen marks a context URL as already persisted.
	// Advisory only; the unique constraint on context_url is what
	// actually prevents duplicate rows.
	RedisKeyMentionSeen = "mention:seen:"

	// RedisKeyMentionSeenTTL bounds how long seen markers are kept.
	RedisKeyMentionSeenTTL = 24 * time.Hour

	// SourceRedditAPI and SourceRedditRSS select the comment source.
	SourceRedditAPI = "api"
	SourceRedditRSS = "rss"
)
