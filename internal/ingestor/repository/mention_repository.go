package repository

import (
	"context"

	"gaming-sentiment-tracker/internal/entity"
	"gaming-sentiment-tracker/pkg/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MentionRepository defines the interface for persisting game mentions.
type MentionRepository interface {
	// Insert writes a single mention in its own transaction. A conflict
	// on context_url is absorbed silently; the return value reports
	// whether a row was actually inserted.
	Insert(ctx context.Context, mention *entity.GameMention) (bool, error)
	// CountSince returns the number of mentions recorded at or after
	// the given instant.
	CountSince(ctx context.Context, since int64) (int64, error)
	// TopEntitySince returns the most mentioned entity at or after the
	// given instant, or "" when there are no rows.
	TopEntitySince(ctx context.Context, since int64) (string, error)
}

type mentionRepository struct {
	DB     *gorm.DB
	logger *logger.Logger
}

// NewMentionRepository creates a new instance of MentionRepository.
func NewMentionRepository(db *gorm.DB, logger *logger.Logger) MentionRepository {
	return &mentionRepository{
		DB:     db,
		logger: logger,
	}
}

// Insert performs an idempotent single-row insert keyed on context_url.
func (r *mentionRepository) Insert(ctx context.Context, mention *entity.GameMention) (bool, error) {
	result := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "context_url"}},
			DoNothing: true,
		}).
		Create(mention)
	if result.Error != nil {
		r.logger.Error("Failed to insert game mention",
			logger.ErrorField(result.Error),
			logger.StringField("context_url", mention.ContextURL))
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// CountSince counts mentions with timestamp >= since (unix seconds).
func (r *mentionRepository) CountSince(ctx context.Context, since int64) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&entity.GameMention{}).
		Where("timestamp >= to_timestamp(?)", since).
		Count(&count).Error
	return count, err
}

// TopEntitySince returns the entity with the most mentions since the
// given unix timestamp.
func (r *mentionRepository) TopEntitySince(ctx context.Context, since int64) (string, error) {
	var result struct {
		EntityMentioned string
	}
	err := r.DB.WithContext(ctx).
		Model(&entity.GameMention{}).
		Select("entity_mentioned, COUNT(*) AS mention_count").
		Where("timestamp >= to_timestamp(?)", since).
		Group("entity_mentioned").
		Order("mention_count DESC").
		Limit(1).
		Scan(&result).Error
	if err != nil {
		return "", err
	}
	return result.EntityMentioned, nil
}
