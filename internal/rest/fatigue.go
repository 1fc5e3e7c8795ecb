package rest

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"adFatigue/domain"
	"adFatigue/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	FatigueHandler struct {
		validate       *validator.Validate
		fatigueService FatigueService
		timeout        time.Duration
	}

	FatigueService interface {
		FormatFatigue(ctx context.Context, accountID string, d domain.DeliveryMetrics) (domain.FormatFatigue, error)
		InstagramValue(ctx context.Context, accountID string, m domain.InstagramMetrics) (domain.InstagramValueScore, error)
		Blend(ctx context.Context, accountID string, req domain.BlendRequest) (domain.FatigueScore, error)
		FirstTimeRatio(ctx context.Context, accountID string, snapshots []domain.MetricSnapshot, nonFollowerRate *float64) (domain.FirstTimeRatioEstimate, error)
		Report(ctx context.Context, q domain.ReportQuery) (*domain.FatigueReport, error)
		History(ctx context.Context, adID string, limit int) ([]domain.FatigueReport, error)
	}

	FormatFatigueRequest struct {
		AccountID  string                `json:"account_id"`
		Frequency  float64               `json:"frequency" validate:"gte=0"`
		DaysActive int                   `json:"days_active" validate:"gte=0"`
		Format     domain.CreativeFormat `json:"format" validate:"required"`
	}

	InstagramValueRequest struct {
		AccountID string `json:"account_id"`
		domain.InstagramMetrics
	}

	BlendRequest struct {
		AccountID string `json:"account_id"`
		domain.BlendRequest
	}

	FirstTimeRatioRequest struct {
		AccountID               string                  `json:"account_id"`
		Snapshots               []domain.MetricSnapshot `json:"snapshots"`
		ReachedNonFollowersRate *float64                `json:"reached_non_followers_rate,omitempty" validate:"omitempty,gte=0,lte=1"`
	}

	HistoryQuery struct {
		Limit int `query:"limit" validate:"gte=0,lte=200"`
	}
)

func NewFatigueHandler(svc FatigueService, timeout time.Duration) *FatigueHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FatigueHandler{
		validate:       validator.New(),
		fatigueService: svc,
		timeout:        timeout,
	}
}

// POST /api/v1/fatigue/format
func (h *FatigueHandler) FormatFatigue(c echo.Context) error {
	var req FormatFatigueRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.fatigueService.FormatFatigue(ctx, req.AccountID, domain.DeliveryMetrics{
		Frequency:  req.Frequency,
		DaysActive: req.DaysActive,
		Format:     req.Format,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}

// POST /api/v1/fatigue/instagram-value
func (h *FatigueHandler) InstagramValue(c echo.Context) error {
	var req InstagramValueRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.fatigueService.InstagramValue(ctx, req.AccountID, req.InstagramMetrics)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}

// POST /api/v1/fatigue/blend
func (h *FatigueHandler) Blend(c echo.Context) error {
	var req BlendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.fatigueService.Blend(ctx, req.AccountID, req.BlendRequest)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}

// POST /api/v1/fatigue/first-time-ratio
func (h *FatigueHandler) FirstTimeRatio(c echo.Context) error {
	var req FirstTimeRatioRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.fatigueService.FirstTimeRatio(ctx, req.AccountID, req.Snapshots, req.ReachedNonFollowersRate)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(res))
}

// GET /api/v1/ads/:adId/fatigue?account_id=&from=2026-03-01&to=2026-03-14&non_follower_rate=0.4
func (h *FatigueHandler) Report(c echo.Context) error {
	q := domain.ReportQuery{
		AccountID: c.QueryParam("account_id"),
		AdID:      c.Param("adId"),
	}

	var err error
	if q.From, err = parseDate(c.QueryParam("from"), false); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid from: " + err.Error()})
	}
	if q.To, err = parseDate(c.QueryParam("to"), true); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid to: " + err.Error()})
	}

	if raw := c.QueryParam("non_follower_rate"); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil || rate < 0 || rate > 1 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "non_follower_rate must be within [0,1]"})
		}
		q.NonFollowerRate = &rate
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	report, err := h.fatigueService.Report(ctx, q)
	if err != nil {
		logger.Debug("fatigue report failed", "ad_id", q.AdID, err)
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(report))
}

// GET /api/v1/ads/:adId/fatigue/history?limit=20
func (h *FatigueHandler) History(c echo.Context) error {
	var q HistoryQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	reports, err := h.fatigueService.History(ctx, c.Param("adId"), q.Limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(reports))
}

// parseDate accepts 2006-01-02 or RFC3339. A bare end date covers the whole day.
func parseDate(raw string, endOfDay bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
