package source

import (
	"context"
	"errors"
	"time"
)

// Comment is one comment event from the source stream. Immutable once
// emitted; the ingestion loop owns it for a single processing cycle.
type Comment struct {
	ID        string
	Body      string
	Permalink string
	CreatedAt time.Time
}

// ContextURL derives the canonical absolute URL for the comment. It is
// the deduplication key for persisted mentions.
func (c Comment) ContextURL() string {
	return "https://www.reddit.com" + c.Permalink
}

// ErrStreamClosed is returned by Next after the stream has been shut
// down via context cancellation.
var ErrStreamClosed = errors.New("comment stream closed")

// Source is an ordered, at-least-once stream of comments.
//
// Open authenticates and positions the cursor past any backlog, so
// only comments arriving after the open are delivered. Next blocks
// until a comment is available, the context is cancelled, or the
// transport breaks; transport errors from Next are fatal to the
// caller's streaming state.
type Source interface {
	Name() string
	Open(ctx context.Context) error
	Next(ctx context.Context) (*Comment, error)
}
