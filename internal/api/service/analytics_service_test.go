package service

import (
	"context"
	"testing"
	"time"

	"gaming-sentiment-tracker/internal/api/dto"
	"gaming-sentiment-tracker/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMentionQueryRepository is a mock implementation of the read-side repository.
type MockMentionQueryRepository struct {
	mock.Mock
}

func (m *MockMentionQueryRepository) FindRange(ctx context.Context, start, end time.Time, entityFilter string) ([]dto.MentionResponse, error) {
	args := m.Called(ctx, start, end, entityFilter)
	return args.Get(0).([]dto.MentionResponse), args.Error(1)
}

func (m *MockMentionQueryRepository) CountByLabel(ctx context.Context, start, end time.Time, entityFilter string) (map[string]int64, error) {
	args := m.Called(ctx, start, end, entityFilter)
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockMentionQueryRepository) DailyCounts(ctx context.Context, start, end time.Time, entityFilter string) ([]dto.HistoryPoint, error) {
	args := m.Called(ctx, start, end, entityFilter)
	return args.Get(0).([]dto.HistoryPoint), args.Error(1)
}

func (m *MockMentionQueryRepository) TopEntities(ctx context.Context, start, end time.Time, limit int) ([]dto.TopEntity, error) {
	args := m.Called(ctx, start, end, limit)
	return args.Get(0).([]dto.TopEntity), args.Error(1)
}

func testWindow() (time.Time, time.Time) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return start, start.Add(72 * time.Hour)
}

func newTestAnalytics(t *testing.T, repo *MockMentionQueryRepository) AnalyticsService {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return NewAnalyticsService(repo, time.Minute, log)
}

func TestSummary_ComputesKPIs(t *testing.T) {
	start, end := testWindow()
	repo := &MockMentionQueryRepository{}
	repo.On("CountByLabel", mock.Anything, start, end, "").
		Return(map[string]int64{"positive": 6, "negative": 2, "neutral": 2}, nil).Once()
	repo.On("TopEntities", mock.Anything, start, end, 1).
		Return([]dto.TopEntity{{EntityMentioned: "Starfield", Count: 5}}, nil).Once()

	svc := newTestAnalytics(t, repo)
	summary, err := svc.Summary(context.Background(), start, end, "")

	require.NoError(t, err)
	assert.Equal(t, int64(10), summary.TotalMentions)
	assert.InDelta(t, 60.0, summary.PositivePercent, 0.001)
	assert.Equal(t, "Starfield", summary.TopEntity)
	assert.Equal(t, "positive", summary.OverallSentiment)
	repo.AssertExpectations(t)
}

func TestSummary_EmptyWindow(t *testing.T) {
	start, end := testWindow()
	repo := &MockMentionQueryRepository{}
	repo.On("CountByLabel", mock.Anything, start, end, "").
		Return(map[string]int64{}, nil).Once()
	repo.On("TopEntities", mock.Anything, start, end, 1).
		Return([]dto.TopEntity{}, nil).Once()

	svc := newTestAnalytics(t, repo)
	summary, err := svc.Summary(context.Background(), start, end, "")

	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.TotalMentions)
	assert.Equal(t, 0.0, summary.PositivePercent)
	assert.Equal(t, "n/a", summary.TopEntity)
	assert.Equal(t, "n/a", summary.OverallSentiment)
}

func TestSummary_CachesRepeatedWindows(t *testing.T) {
	start, end := testWindow()
	repo := &MockMentionQueryRepository{}
	repo.On("CountByLabel", mock.Anything, start, end, "").
		Return(map[string]int64{"neutral": 1}, nil).Once()
	repo.On("TopEntities", mock.Anything, start, end, 1).
		Return([]dto.TopEntity{{EntityMentioned: "PS5", Count: 1}}, nil).Once()

	svc := newTestAnalytics(t, repo)

	first, err := svc.Summary(context.Background(), start, end, "")
	require.NoError(t, err)
	second, err := svc.Summary(context.Background(), start, end, "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "CountByLabel", 1)
	repo.AssertNumberOfCalls(t, "TopEntities", 1)
}

func TestExportCSV(t *testing.T) {
	start, end := testWindow()
	rows := []dto.MentionResponse{
		{
			Timestamp:       time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
			EntityMentioned: "Starfield",
			EntityType:      "Game",
			SentimentLabel:  "positive",
		},
		{
			Timestamp:       time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC),
			EntityMentioned: "PS5",
			EntityType:      "Console",
			SentimentLabel:  "neutral",
		},
	}
	repo := &MockMentionQueryRepository{}
	repo.On("FindRange", mock.Anything, start, end, "").Return(rows, nil).Once()

	svc := newTestAnalytics(t, repo)
	data, err := svc.ExportCSV(context.Background(), start, end, "")

	require.NoError(t, err)
	csv := string(data)
	assert.Contains(t, csv, "timestamp,entity_mentioned,entity_type,sentiment_label")
	assert.Contains(t, csv, "2025-06-01T10:30:00Z,Starfield,Game,positive")
	assert.Contains(t, csv, "2025-06-02T11:00:00Z,PS5,Console,neutral")
}

func TestDominantLabel_TieBreaksByPolarityOrder(t *testing.T) {
	assert.Equal(t, "positive", dominantLabel(map[string]int64{"positive": 3, "negative": 3}))
	assert.Equal(t, "negative", dominantLabel(map[string]int64{"negative": 4, "neutral": 4}))
	assert.Equal(t, "neutral", dominantLabel(map[string]int64{"neutral": 5, "positive": 1}))
}
