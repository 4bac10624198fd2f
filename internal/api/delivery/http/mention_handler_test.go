package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gaming-sentiment-tracker/internal/api/dto"
	"gaming-sentiment-tracker/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAnalyticsService is a mock implementation of the analytics service.
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) Mentions(ctx context.Context, start, end time.Time, entityFilter string) ([]dto.MentionResponse, error) {
	args := m.Called(ctx, start, end, entityFilter)
	return args.Get(0).([]dto.MentionResponse), args.Error(1)
}

func (m *MockAnalyticsService) Summary(ctx context.Context, start, end time.Time, entityFilter string) (*dto.SummaryResponse, error) {
	args := m.Called(ctx, start, end, entityFilter)
	return args.Get(0).(*dto.SummaryResponse), args.Error(1)
}

func (m *MockAnalyticsService) History(ctx context.Context, start, end time.Time, entityFilter string) ([]dto.HistoryPoint, error) {
	args := m.Called(ctx, start, end, entityFilter)
	return args.Get(0).([]dto.HistoryPoint), args.Error(1)
}

func (m *MockAnalyticsService) TopEntities(ctx context.Context, start, end time.Time, limit int) ([]dto.TopEntity, error) {
	args := m.Called(ctx, start, end, limit)
	return args.Get(0).([]dto.TopEntity), args.Error(1)
}

func (m *MockAnalyticsService) ExportCSV(ctx context.Context, start, end time.Time, entityFilter string) ([]byte, error) {
	args := m.Called(ctx, start, end, entityFilter)
	return args.Get(0).([]byte), args.Error(1)
}

func newTestHandler(t *testing.T, svc *MockAnalyticsService) *MentionHandler {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return NewMentionHandler(svc, log)
}

func TestGetMentions_ExplicitWindow(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)

	svc := &MockAnalyticsService{}
	svc.On("Mentions", mock.Anything, start, end, "Starfield").
		Return([]dto.MentionResponse{{EntityMentioned: "Starfield", EntityType: "Game", SentimentLabel: "positive"}}, nil).Once()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet,
		"/?start=2025-06-01T00:00:00Z&end=2025-06-04T00:00:00Z&entity=Starfield", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := newTestHandler(t, svc)
	require.NoError(t, h.GetMentions(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"entity_mentioned":"Starfield"`)
	svc.AssertExpectations(t)
}

func TestGetMentions_InvalidWindow(t *testing.T) {
	svc := &MockAnalyticsService{}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?start=yesterday", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := newTestHandler(t, svc)
	require.NoError(t, h.GetMentions(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Mentions", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetTopEntities_InvalidLimit(t *testing.T) {
	svc := &MockAnalyticsService{}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?limit=-3", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := newTestHandler(t, svc)
	require.NoError(t, h.GetTopEntities(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportCSV_SetsAttachmentHeaders(t *testing.T) {
	svc := &MockAnalyticsService{}
	svc.On("ExportCSV", mock.Anything, mock.Anything, mock.Anything, "").
		Return([]byte("timestamp,entity_mentioned,entity_type,sentiment_label\n"), nil).Once()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := newTestHandler(t, svc)
	require.NoError(t, h.ExportCSV(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="mentions.csv"`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/csv")
}
