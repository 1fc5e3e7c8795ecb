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

type FatigueConfigService interface {
	GetConfigOverride(ctx context.Context, accountID string) (domain.FatigueConfig, error)
	UpsertConfigOverride(ctx context.Context, override domain.FatigueConfig) error
}

type FatigueAdminHandler struct {
	cfgService FatigueConfigService
	validate   *validator.Validate
	timeout    time.Duration
}

func NewFatigueAdminHandler(cfgService FatigueConfigService, timeout time.Duration) *FatigueAdminHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FatigueAdminHandler{
		cfgService: cfgService,
		validate:   validator.New(),
		timeout:    timeout,
	}
}

// GET /api/v1/admin/fatigue/config?account_id=acc_123
func (h *FatigueAdminHandler) GetConfig(c echo.Context) error {
	accountID := c.QueryParam("account_id")
	if accountID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "account_id is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cfg, err := h.cfgService.GetConfigOverride(ctx, accountID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(cfg))
}

// PUT /api/v1/admin/fatigue/config?account_id=acc_123
// body: FatigueConfig JSON, zero fields keep the defaults
func (h *FatigueAdminHandler) UpsertConfig(c echo.Context) error {
	var body domain.FatigueConfig
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid body: " + err.Error()})
	}
	if body.AccountID == "" {
		body.AccountID = c.QueryParam("account_id")
	}
	if err := h.validate.Struct(&body); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.cfgService.UpsertConfigOverride(ctx, body); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(body))
}
