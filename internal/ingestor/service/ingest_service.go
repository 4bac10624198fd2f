package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"gaming-sentiment-tracker/internal/classifier"
	"gaming-sentiment-tracker/internal/entity"
	"gaming-sentiment-tracker/internal/ingestor/config"
	"gaming-sentiment-tracker/internal/ingestor/repository"
	"gaming-sentiment-tracker/internal/ingestor/source"
	"gaming-sentiment-tracker/pkg/common"
	"gaming-sentiment-tracker/pkg/logger"
	redisPkg "gaming-sentiment-tracker/pkg/redis"
	"gaming-sentiment-tracker/pkg/telegram"
	"gaming-sentiment-tracker/pkg/utils"
)

// State is the ingestion loop lifecycle state.
type State int32

const (
	StateConnecting State = iota
	StateStreaming
	StateStopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// IngestService consumes the comment stream one event at a time:
// classify, score, persist. Per-event failures are isolated; transport
// failures get a bounded reconnect budget before the loop stops.
type IngestService struct {
	cfg      *config.Config
	source   source.Source
	taxonomy *classifier.Taxonomy
	analyzer *classifier.SentimentAnalyzer
	repo     repository.MentionRepository
	redis    *redisPkg.Client
	notifier telegram.Notifier
	logger   *logger.Logger

	state atomic.Int32
}

// NewIngestService creates the ingestion loop. The Redis client and
// Telegram notifier are optional and may be nil.
func NewIngestService(
	cfg *config.Config,
	src source.Source,
	taxonomy *classifier.Taxonomy,
	analyzer *classifier.SentimentAnalyzer,
	repo repository.MentionRepository,
	redisClient *redisPkg.Client,
	notifier telegram.Notifier,
	log *logger.Logger,
) *IngestService {
	return &IngestService{
		cfg:      cfg,
		source:   src,
		taxonomy: taxonomy,
		analyzer: analyzer,
		repo:     repo,
		redis:    redisClient,
		notifier: notifier,
		logger:   log,
	}
}

// State returns the current lifecycle state.
func (s *IngestService) State() State {
	return State(s.state.Load())
}

func (s *IngestService) setState(state State) {
	s.state.Store(int32(state))
	s.logger.Info("Ingestion state changed", logger.StringField("state", state.String()))
}

// Run drives the stream until the context is cancelled or the
// transport fails beyond the reconnect budget. The initial connection
// failure is fatal and returned to the caller.
func (s *IngestService) Run(ctx context.Context) error {
	s.setState(StateConnecting)
	if err := s.source.Open(ctx); err != nil {
		s.setState(StateStopped)
		return fmt.Errorf("failed to open comment source %s: %w", s.source.Name(), err)
	}
	s.setState(StateStreaming)

	for {
		if !utils.ShouldContinue(ctx, s.logger) {
			s.setState(StateStopped)
			return nil
		}

		comment, err := s.source.Next(ctx)
		if err != nil {
			if errors.Is(err, source.ErrStreamClosed) || ctx.Err() != nil {
				s.logger.Info("Comment stream closed, shutting down")
				s.setState(StateStopped)
				return nil
			}

			s.logger.Error("Comment stream transport failure", logger.ErrorField(err))
			if rerr := s.reconnect(ctx, err); rerr != nil {
				s.setState(StateStopped)
				if ctx.Err() != nil {
					return nil
				}
				s.alert(fmt.Sprintf("⚠️ *Ingestor stopped*: comment stream is down (%v)", rerr))
				return rerr
			}
			continue
		}

		// One bad comment must never terminate the stream.
		if perr := s.processComment(ctx, comment); perr != nil {
			s.logger.Error("Failed to process comment, skipping",
				logger.ErrorField(perr),
				logger.StringField("comment_id", comment.ID))
		}
	}
}

// processComment runs the full pipeline for one comment: entity match,
// sentiment score, idempotent insert.
func (s *IngestService) processComment(ctx context.Context, comment *source.Comment) error {
	match, ok := s.taxonomy.FindEntity(comment.Body)
	if !ok {
		return nil
	}

	sentiment := s.analyzer.Score(comment.Body)

	mention := &entity.GameMention{
		Timestamp:       comment.CreatedAt,
		EntityMentioned: match.Keyword,
		EntityType:      match.Category,
		SentimentScore:  sentiment.Score,
		SentimentLabel:  sentiment.Label,
		ContextURL:      comment.ContextURL(),
	}

	if s.recentlySeen(ctx, mention.ContextURL) {
		s.logger.Debug("Duplicate delivery short-circuited",
			logger.StringField("context_url", mention.ContextURL))
		return nil
	}

	inserted, err := s.repo.Insert(ctx, mention)
	if err != nil {
		return err
	}

	if inserted {
		s.logger.Info("Mention recorded",
			logger.StringField("entity", match.Keyword),
			logger.StringField("category", match.Category),
			logger.StringField("sentiment", sentiment.Label),
			logger.Float64Field("score", sentiment.Score))
	} else {
		s.logger.Debug("Duplicate mention absorbed",
			logger.StringField("context_url", mention.ContextURL))
	}

	s.markSeen(ctx, mention.ContextURL)
	return nil
}

// recentlySeen consults the optional Redis marker for the URL. Any
// Redis failure degrades to the database constraint.
func (s *IngestService) recentlySeen(ctx context.Context, contextURL string) bool {
	if s.redis == nil {
		return false
	}
	n, err := s.redis.Exists(ctx, common.RedisKeyMentionSeen+contextURL).Result()
	if err != nil {
		s.logger.Debug("Redis seen-check failed, deferring to database", logger.ErrorField(err))
		return false
	}
	return n > 0
}

// markSeen records the URL marker after the row is known to exist.
func (s *IngestService) markSeen(ctx context.Context, contextURL string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, common.RedisKeyMentionSeen+contextURL, 1, common.RedisKeyMentionSeenTTL).Err(); err != nil {
		s.logger.Debug("Redis seen-mark failed", logger.ErrorField(err))
	}
}

// reconnect retries the source with exponential backoff and full
// jitter, up to the configured attempt budget.
func (s *IngestService) reconnect(ctx context.Context, cause error) error {
	policy := s.cfg.Ingestor
	lastErr := cause

	for attempt := 1; attempt <= policy.ReconnectMaxAttempts; attempt++ {
		backoff := policy.ReconnectBaseBackoff << (attempt - 1)
		if backoff > policy.ReconnectMaxBackoff {
			backoff = policy.ReconnectMaxBackoff
		}
		wait := time.Duration(rand.Int63n(int64(backoff)) + 1)

		s.logger.Warn("Reconnecting to comment source",
			logger.IntField("attempt", attempt),
			logger.IntField("max_attempts", policy.ReconnectMaxAttempts),
			logger.Field("backoff", wait))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		if err := s.source.Open(ctx); err != nil {
			lastErr = err
			continue
		}

		s.logger.Info("Comment source reconnected", logger.IntField("attempt", attempt))
		return nil
	}

	return fmt.Errorf("reconnect budget exhausted after %d attempts: %w", policy.ReconnectMaxAttempts, lastErr)
}

func (s *IngestService) alert(text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendMessage(text); err != nil {
		s.logger.Error("Failed to send operator alert", logger.ErrorField(err))
	}
}
