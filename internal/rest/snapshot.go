package rest

import (
	"context"
	"net/http"
	"time"

	"adFatigue/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type SnapshotService interface {
	Ingest(ctx context.Context, snapshots []domain.MetricSnapshot) (int, error)
	ListByAd(ctx context.Context, adID string, from, to time.Time) ([]domain.MetricSnapshot, error)
}

type SnapshotHandler struct {
	snapshotService SnapshotService
	validator       *validator.Validate
	timeout         time.Duration
}

func NewSnapshotHandler(snapshotService SnapshotService, timeout time.Duration) *SnapshotHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SnapshotHandler{
		snapshotService: snapshotService,
		validator:       validator.New(),
		timeout:         timeout,
	}
}

type IngestSnapshotsRequest struct {
	Snapshots []domain.MetricSnapshot `json:"snapshots" validate:"required,min=1,max=500"`
}

// POST /api/v1/snapshots
func (h *SnapshotHandler) Ingest(c echo.Context) error {
	var req IngestSnapshotsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	n, err := h.snapshotService.Ingest(ctx, req.Snapshots)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(map[string]int{"ingested": n}))
}

// GET /api/v1/ads/:adId/snapshots?from=2026-03-01&to=2026-03-14
func (h *SnapshotHandler) ListByAd(c echo.Context) error {
	from, err := parseDate(c.QueryParam("from"), false)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid from: " + err.Error()})
	}
	to, err := parseDate(c.QueryParam("to"), true)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid to: " + err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	snapshots, err := h.snapshotService.ListByAd(ctx, c.Param("adId"), from, to)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(snapshots))
}
