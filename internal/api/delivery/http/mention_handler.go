package http

import (
	"net/http"
	"strconv"
	"time"

	"gaming-sentiment-tracker/internal/api/service"
	"gaming-sentiment-tracker/pkg/logger"

	"github.com/labstack/echo/v4"
)

const defaultWindow = 3 * 24 * time.Hour

// MentionHandler handles HTTP requests for mention analytics.
type MentionHandler struct {
	analyticsService service.AnalyticsService
	logger           *logger.Logger
}

// NewMentionHandler creates a new MentionHandler.
func NewMentionHandler(analyticsService service.AnalyticsService, logger *logger.Logger) *MentionHandler {
	return &MentionHandler{analyticsService: analyticsService, logger: logger}
}

// RegisterRoutes registers the mention routes to the Echo group.
func (h *MentionHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetMentions)
	g.GET("/summary", h.GetSummary)
	g.GET("/history", h.GetHistory)
	g.GET("/top", h.GetTopEntities)
	g.GET("/export", h.ExportCSV)
}

// parseWindow reads the [start, end) query window, defaulting to the
// trailing three days.
func parseWindow(c echo.Context) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	start := now.Add(-defaultWindow)
	end := now

	if v := c.QueryParam("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = t
	}
	if v := c.QueryParam("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = t
	}
	return start, end, nil
}

// GetMentions godoc
// @Summary List mentions in a time window
// @Description Returns {timestamp, entity_mentioned, entity_type, sentiment_label} rows for [start, end)
// @Tags mentions
// @Produce json
// @Param start query string false "Window start (RFC3339)"
// @Param end query string false "Window end (RFC3339, exclusive)"
// @Param entity query string false "Filter by entity"
// @Success 200 {array} dto.MentionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /mentions [get]
func (h *MentionHandler) GetMentions(c echo.Context) error {
	start, end, err := parseWindow(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid time window"})
	}

	rows, err := h.analyticsService.Mentions(c.Request().Context(), start, end, c.QueryParam("entity"))
	if err != nil {
		h.logger.Error("Failed to query mentions", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to query mentions"})
	}
	return c.JSON(http.StatusOK, rows)
}

// GetSummary godoc
// @Summary KPI summary for a time window
// @Tags mentions
// @Produce json
// @Param start query string false "Window start (RFC3339)"
// @Param end query string false "Window end (RFC3339, exclusive)"
// @Param entity query string false "Filter by entity"
// @Success 200 {object} dto.SummaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /mentions/summary [get]
func (h *MentionHandler) GetSummary(c echo.Context) error {
	start, end, err := parseWindow(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid time window"})
	}

	summary, err := h.analyticsService.Summary(c.Request().Context(), start, end, c.QueryParam("entity"))
	if err != nil {
		h.logger.Error("Failed to build summary", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to build summary"})
	}
	return c.JSON(http.StatusOK, summary)
}

// GetHistory godoc
// @Summary Daily sentiment counts for a time window
// @Tags mentions
// @Produce json
// @Param start query string false "Window start (RFC3339)"
// @Param end query string false "Window end (RFC3339, exclusive)"
// @Param entity query string false "Filter by entity"
// @Success 200 {array} dto.HistoryPoint
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /mentions/history [get]
func (h *MentionHandler) GetHistory(c echo.Context) error {
	start, end, err := parseWindow(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid time window"})
	}

	points, err := h.analyticsService.History(c.Request().Context(), start, end, c.QueryParam("entity"))
	if err != nil {
		h.logger.Error("Failed to build history", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to build history"})
	}
	return c.JSON(http.StatusOK, points)
}

// GetTopEntities godoc
// @Summary Most mentioned entities for a time window
// @Tags mentions
// @Produce json
// @Param start query string false "Window start (RFC3339)"
// @Param end query string false "Window end (RFC3339, exclusive)"
// @Param limit query int false "Maximum entities to return (default 10)"
// @Success 200 {array} dto.TopEntity
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /mentions/top [get]
func (h *MentionHandler) GetTopEntities(c echo.Context) error {
	start, end, err := parseWindow(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid time window"})
	}

	limit := 10
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid limit"})
		}
		limit = n
	}

	rows, err := h.analyticsService.TopEntities(c.Request().Context(), start, end, limit)
	if err != nil {
		h.logger.Error("Failed to rank entities", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to rank entities"})
	}
	return c.JSON(http.StatusOK, rows)
}

// ExportCSV godoc
// @Summary Export window rows as CSV
// @Tags mentions
// @Produce text/csv
// @Param start query string false "Window start (RFC3339)"
// @Param end query string false "Window end (RFC3339, exclusive)"
// @Param entity query string false "Filter by entity"
// @Success 200 {string} string "CSV document"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /mentions/export [get]
func (h *MentionHandler) ExportCSV(c echo.Context) error {
	start, end, err := parseWindow(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid time window"})
	}

	data, err := h.analyticsService.ExportCSV(c.Request().Context(), start, end, c.QueryParam("entity"))
	if err != nil {
		h.logger.Error("Failed to export CSV", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to export CSV"})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="mentions.csv"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}
