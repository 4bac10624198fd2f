package repository

import (
	"context"
	"time"

	"gaming-sentiment-tracker/internal/api/dto"
	"gaming-sentiment-tracker/internal/entity"

	"gorm.io/gorm"
)

// MentionQueryRepository defines the read-side queries over persisted
// mentions. All window parameters are half-open: [start, end).
type MentionQueryRepository interface {
	FindRange(ctx context.Context, start, end time.Time, entityFilter string) ([]dto.MentionResponse, error)
	CountByLabel(ctx context.Context, start, end time.Time, entityFilter string) (map[string]int64, error)
	DailyCounts(ctx context.Context, start, end time.Time, entityFilter string) ([]dto.HistoryPoint, error)
	TopEntities(ctx context.Context, start, end time.Time, limit int) ([]dto.TopEntity, error)
}

type mentionQueryRepository struct {
	DB *gorm.DB
}

// NewMentionQueryRepository creates a new instance of MentionQueryRepository.
func NewMentionQueryRepository(db *gorm.DB) MentionQueryRepository {
	return &mentionQueryRepository{DB: db}
}

func (r *mentionQueryRepository) windowQuery(ctx context.Context, start, end time.Time, entityFilter string) *gorm.DB {
	q := r.DB.WithContext(ctx).
		Model(&entity.GameMention{}).
		Where("timestamp >= ? AND timestamp < ?", start, end)
	if entityFilter != "" {
		q = q.Where("entity_mentioned = ?", entityFilter)
	}
	return q
}

// FindRange returns the dashboard row projection for the window.
func (r *mentionQueryRepository) FindRange(ctx context.Context, start, end time.Time, entityFilter string) ([]dto.MentionResponse, error) {
	var rows []dto.MentionResponse
	err := r.windowQuery(ctx, start, end, entityFilter).
		Select("timestamp, entity_mentioned, entity_type, sentiment_label").
		Order("timestamp ASC").
		Scan(&rows).Error
	return rows, err
}

// CountByLabel returns per-label mention counts for the window.
func (r *mentionQueryRepository) CountByLabel(ctx context.Context, start, end time.Time, entityFilter string) (map[string]int64, error) {
	var rows []struct {
		SentimentLabel string
		Count          int64
	}
	err := r.windowQuery(ctx, start, end, entityFilter).
		Select("sentiment_label, COUNT(*) AS count").
		Group("sentiment_label").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.SentimentLabel] = row.Count
	}
	return counts, nil
}

// DailyCounts returns per-day, per-label mention counts for the window.
func (r *mentionQueryRepository) DailyCounts(ctx context.Context, start, end time.Time, entityFilter string) ([]dto.HistoryPoint, error) {
	var rows []dto.HistoryPoint
	err := r.windowQuery(ctx, start, end, entityFilter).
		Select("to_char(timestamp::date, 'YYYY-MM-DD') AS date, sentiment_label, COUNT(*) AS count").
		Group("timestamp::date, sentiment_label").
		Order("date ASC").
		Scan(&rows).Error
	return rows, err
}

// TopEntities returns the most mentioned entities in the window.
func (r *mentionQueryRepository) TopEntities(ctx context.Context, start, end time.Time, limit int) ([]dto.TopEntity, error) {
	var rows []dto.TopEntity
	err := r.windowQuery(ctx, start, end, "").
		Select("entity_mentioned, COUNT(*) AS count").
		Group("entity_mentioned").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
