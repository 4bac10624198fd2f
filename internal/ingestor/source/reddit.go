package source

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gaming-sentiment-tracker/internal/ingestor/config"
	"gaming-sentiment-tracker/pkg/logger"

	"github.com/go-resty/resty/v2"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	redditTokenURL = "https://www.reddit.com/api/v1/access_token"
	redditAPIBase  = "https://oauth.reddit.com"

	// Reddit allows 60 requests per minute for script apps.
	redditRequestsPerMinute = 60

	seenTTL = time.Hour
)

type redditAuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type redditListing struct {
	Data struct {
		Children []struct {
			Kind string        `json:"kind"`
			Data redditComment `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditComment struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Body      string  `json:"body"`
	Permalink string  `json:"permalink"`
	Created   float64 `json:"created_utc"`
}

// RedditSource streams subreddit comments through the Reddit OAuth API
// using client-credentials authentication. It polls the newest-first
// comment listing under a rate limiter and delivers unseen comments in
// arrival order.
type RedditSource struct {
	cfg    config.Reddit
	client *resty.Client
	log    *logger.Logger

	tokenURL string
	apiBase  string

	limiter *rate.Limiter
	seen    *cache.Cache

	accessToken string
	tokenExpiry time.Time
	openedAt    time.Time
	buffer      []Comment
}

// NewRedditSource creates a Reddit API comment source.
func NewRedditSource(cfg config.Reddit, log *logger.Logger) *RedditSource {
	return &RedditSource{
		cfg:      cfg,
		client:   resty.New().SetTimeout(30 * time.Second),
		log:      log,
		tokenURL: redditTokenURL,
		apiBase:  redditAPIBase,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/redditRequestsPerMinute), 1),
		seen:     cache.New(seenTTL, 2*seenTTL),
	}
}

// Name implements Source.
func (r *RedditSource) Name() string {
	return "reddit-api"
}

// Open authenticates and anchors the stream at the newest comment, so
// backlog present before the open is never delivered.
func (r *RedditSource) Open(ctx context.Context) error {
	if err := r.authenticate(ctx); err != nil {
		return fmt.Errorf("reddit authentication failed: %w", err)
	}

	r.openedAt = time.Now()

	// Mark the current listing as seen; only comments arriving after
	// this point are streamed.
	comments, err := r.fetchListing(ctx)
	if err != nil {
		return fmt.Errorf("failed to read initial comment listing: %w", err)
	}
	for _, c := range comments {
		r.seen.SetDefault(c.ID, struct{}{})
	}

	r.log.Info("Reddit comment stream opened",
		logger.StringField("subreddit", r.cfg.Subreddit),
		logger.IntField("skipped_existing", len(comments)))
	return nil
}

// Next blocks until a new comment arrives, the context is cancelled,
// or the transport breaks.
func (r *RedditSource) Next(ctx context.Context) (*Comment, error) {
	for {
		if len(r.buffer) > 0 {
			c := r.buffer[0]
			r.buffer = r.buffer[1:]
			return &c, nil
		}

		if err := r.limiter.Wait(ctx); err != nil {
			return nil, ErrStreamClosed
		}

		comments, err := r.fetchListing(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ErrStreamClosed
			}
			return nil, err
		}

		fresh := r.collectFresh(comments)
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

// collectFresh filters out already-delivered and pre-open comments and
// returns the remainder oldest-first.
func (r *RedditSource) collectFresh(comments []Comment) []Comment {
	var fresh []Comment
	// Listings are newest-first; walk backwards to preserve arrival order.
	for i := len(comments) - 1; i >= 0; i-- {
		c := comments[i]
		if _, dup := r.seen.Get(c.ID); dup {
			continue
		}
		if c.CreatedAt.Before(r.openedAt) {
			r.seen.SetDefault(c.ID, struct{}{})
			continue
		}
		r.seen.SetDefault(c.ID, struct{}{})
		fresh = append(fresh, c)
	}
	return fresh
}

func (r *RedditSource) authenticate(ctx context.Context) error {
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", r.cfg.UserAgent).
		SetBasicAuth(r.cfg.ClientID, r.cfg.ClientSecret).
		SetFormData(map[string]string{
			"grant_type": "client_credentials",
		}).
		Post(r.tokenURL)
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("reddit token endpoint returned status %d", resp.StatusCode())
	}

	var authResp redditAuthResponse
	if err := json.Unmarshal(resp.Body(), &authResp); err != nil {
		return err
	}
	if authResp.AccessToken == "" {
		return fmt.Errorf("reddit token endpoint returned no access token")
	}

	r.accessToken = authResp.AccessToken
	r.tokenExpiry = time.Now().Add(time.Duration(authResp.ExpiresIn) * time.Second)
	return nil
}

func (r *RedditSource) fetchListing(ctx context.Context) ([]Comment, error) {
	// Tokens expire hourly; refresh shortly before.
	if time.Until(r.tokenExpiry) < time.Minute {
		if err := r.authenticate(ctx); err != nil {
			return nil, fmt.Errorf("reddit token refresh failed: %w", err)
		}
	}

	listingURL := fmt.Sprintf("%s/r/%s/comments.json?limit=%d", r.apiBase, r.cfg.Subreddit, r.cfg.PageSize)

	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+r.accessToken).
		SetHeader("User-Agent", r.cfg.UserAgent).
		Get(listingURL)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("reddit API returned status %d", resp.StatusCode())
	}

	var listing redditListing
	if err := json.Unmarshal(resp.Body(), &listing); err != nil {
		return nil, err
	}

	var comments []Comment
	for _, child := range listing.Data.Children {
		if child.Kind != "t1" {
			continue
		}
		c := child.Data
		comments = append(comments, Comment{
			ID:        c.ID,
			Body:      c.Body,
			Permalink: c.Permalink,
			CreatedAt: time.Unix(int64(c.Created), 0).UTC(),
		})
	}
	return comments, nil
}
