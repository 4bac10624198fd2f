package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gaming-sentiment-tracker/internal/ingestor/config"
	"gaming-sentiment-tracker/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
)

const redditWWWBase = "https://www.reddit.com"

// RedditRSSSource streams subreddit comments from the public Atom feed.
// It needs no credentials, at the cost of a smaller listing window and
// HTML-encoded bodies.
type RedditRSSSource struct {
	cfg    config.Reddit
	parser *gofeed.Parser
	log    *logger.Logger

	seen     *cache.Cache
	openedAt time.Time
	buffer   []Comment
}

// NewRedditRSSSource creates a credential-free Reddit comment source.
func NewRedditRSSSource(cfg config.Reddit, log *logger.Logger) *RedditRSSSource {
	parser := gofeed.NewParser()
	parser.UserAgent = cfg.UserAgent
	return &RedditRSSSource{
		cfg:    cfg,
		parser: parser,
		log:    log,
		seen:   cache.New(seenTTL, 2*seenTTL),
	}
}

// Name implements Source.
func (r *RedditRSSSource) Name() string {
	return "reddit-rss"
}

// Open reads the feed once and marks everything in it as seen, so the
// stream starts past the existing backlog.
func (r *RedditRSSSource) Open(ctx context.Context) error {
	r.openedAt = time.Now()

	comments, err := r.fetchFeed(ctx)
	if err != nil {
		return fmt.Errorf("failed to read initial comment feed: %w", err)
	}
	for _, c := range comments {
		r.seen.SetDefault(c.ID, struct{}{})
	}

	r.log.Info("Reddit comment feed opened",
		logger.StringField("subreddit", r.cfg.Subreddit),
		logger.IntField("skipped_existing", len(comments)))
	return nil
}

// Next blocks until a new comment arrives, the context is cancelled,
// or the feed becomes unreadable.
func (r *RedditRSSSource) Next(ctx context.Context) (*Comment, error) {
	for {
		if len(r.buffer) > 0 {
			c := r.buffer[0]
			r.buffer = r.buffer[1:]
			return &c, nil
		}

		comments, err := r.fetchFeed(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ErrStreamClosed
			}
			return nil, err
		}

		var fresh []Comment
		// Feed entries are newest-first; reverse to arrival order.
		for i := len(comments) - 1; i >= 0; i-- {
			c := comments[i]
			if _, dup := r.seen.Get(c.ID); dup {
				continue
			}
			r.seen.SetDefault(c.ID, struct{}{})
			if c.CreatedAt.Before(r.openedAt) {
				continue
			}
			fresh = append(fresh, c)
		}
		if len(fresh) > 0 {
			r.buffer = fresh
			continue
		}

		select {
		case <-ctx.Done():
			return nil, ErrStreamClosed
		case <-time.After(r.cfg.PollInterval):
		}
	}
}

func (r *RedditRSSSource) fetchFeed(ctx context.Context) ([]Comment, error) {
	feedURL := fmt.Sprintf("%s/r/%s/comments/.rss", redditWWWBase, r.cfg.Subreddit)

	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	var comments []Comment
	for _, item := range feed.Items {
		created := time.Now().UTC()
		if item.UpdatedParsed != nil {
			created = item.UpdatedParsed.UTC()
		} else if item.PublishedParsed != nil {
			created = item.PublishedParsed.UTC()
		}

		comments = append(comments, Comment{
			ID:        strings.TrimPrefix(item.GUID, "t1_"),
			Body:      stripHTML(item.Content),
			Permalink: strings.TrimPrefix(item.Link, redditWWWBase),
			CreatedAt: created,
		})
	}
	return comments, nil
}

// stripHTML extracts the plain text of an HTML-encoded comment body.
func stripHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return strings.TrimSpace(doc.Text())
}
