package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"gaming-sentiment-tracker/internal/api/dto"
	"gaming-sentiment-tracker/internal/api/repository"
	"gaming-sentiment-tracker/internal/classifier"
	"gaming-sentiment-tracker/pkg/logger"

	"github.com/patrickmn/go-cache"
)

// AnalyticsService serves the dashboard read queries. Responses are
// cached for the dashboard poll interval, since the same windows are
// requested repeatedly.
type AnalyticsService interface {
	Mentions(ctx context.Context, start, end time.Time, entityFilter string) ([]dto.MentionResponse, error)
	Summary(ctx context.Context, start, end time.Time, entityFilter string) (*dto.SummaryResponse, error)
	History(ctx context.Context, start, end time.Time, entityFilter string) ([]dto.HistoryPoint, error)
	TopEntities(ctx context.Context, start, end time.Time, limit int) ([]dto.TopEntity, error)
	ExportCSV(ctx context.Context, start, end time.Time, entityFilter string) ([]byte, error)
}

type analyticsService struct {
	repo   repository.MentionQueryRepository
	cache  *cache.Cache
	logger *logger.Logger
}

// NewAnalyticsService creates a new analytics service with the given
// response cache TTL.
func NewAnalyticsService(repo repository.MentionQueryRepository, cacheTTL time.Duration, log *logger.Logger) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		cache:  cache.New(cacheTTL, 2*cacheTTL),
		logger: log,
	}
}

func cacheKey(kind string, start, end time.Time, extra string) string {
	return fmt.Sprintf("%s:%d:%d:%s", kind, start.Unix(), end.Unix(), extra)
}

// Mentions returns the raw row projection for the window.
func (s *analyticsService) Mentions(ctx context.Context, start, end time.Time, entityFilter string) ([]dto.MentionResponse, error) {
	key := cacheKey("mentions", start, end, entityFilter)
	if v, ok := s.cache.Get(key); ok {
		return v.([]dto.MentionResponse), nil
	}

	rows, err := s.repo.FindRange(ctx, start, end, entityFilter)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, rows)
	return rows, nil
}

// Summary computes the dashboard KPI numbers for the window.
func (s *analyticsService) Summary(ctx context.Context, start, end time.Time, entityFilter string) (*dto.SummaryResponse, error) {
	key := cacheKey("summary", start, end, entityFilter)
	if v, ok := s.cache.Get(key); ok {
		return v.(*dto.SummaryResponse), nil
	}

	counts, err := s.repo.CountByLabel(ctx, start, end, entityFilter)
	if err != nil {
		return nil, err
	}

	summary := &dto.SummaryResponse{
		TopEntity:        "n/a",
		OverallSentiment: "n/a",
	}
	for _, n := range counts {
		summary.TotalMentions += n
	}
	if summary.TotalMentions > 0 {
		summary.PositivePercent = 100 * float64(counts[classifier.SentimentPositive]) / float64(summary.TotalMentions)
		summary.OverallSentiment = dominantLabel(counts)
	}

	top, err := s.repo.TopEntities(ctx, start, end, 1)
	if err != nil {
		return nil, err
	}
	if len(top) > 0 {
		summary.TopEntity = top[0].EntityMentioned
	}

	s.cache.SetDefault(key, summary)
	return summary, nil
}

// History returns the per-day sentiment counts for the window.
func (s *analyticsService) History(ctx context.Context, start, end time.Time, entityFilter string) ([]dto.HistoryPoint, error) {
	key := cacheKey("history", start, end, entityFilter)
	if v, ok := s.cache.Get(key); ok {
		return v.([]dto.HistoryPoint), nil
	}

	points, err := s.repo.DailyCounts(ctx, start, end, entityFilter)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, points)
	return points, nil
}

// TopEntities returns the most-mentioned ranking for the window.
func (s *analyticsService) TopEntities(ctx context.Context, start, end time.Time, limit int) ([]dto.TopEntity, error) {
	key := cacheKey("top", start, end, strconv.Itoa(limit))
	if v, ok := s.cache.Get(key); ok {
		return v.([]dto.TopEntity), nil
	}

	rows, err := s.repo.TopEntities(ctx, start, end, limit)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, rows)
	return rows, nil
}

// ExportCSV renders the window rows as a CSV document.
func (s *analyticsService) ExportCSV(ctx context.Context, start, end time.Time, entityFilter string) ([]byte, error) {
	rows, err := s.Mentions(ctx, start, end, entityFilter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"timestamp", "entity_mentioned", "entity_type", "sentiment_label"}); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{
			row.Timestamp.Format(time.RFC3339),
			row.EntityMentioned,
			row.EntityType,
			row.SentimentLabel,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func dominantLabel(counts map[string]int64) string {
	labels := []string{classifier.SentimentPositive, classifier.SentimentNegative, classifier.SentimentNeutral}
	best := ""
	var bestCount int64 = -1
	for _, label := range labels {
		if counts[label] > bestCount {
			best = label
			bestCount = counts[label]
		}
	}
	return best
}
