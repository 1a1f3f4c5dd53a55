package rest

import (
	"context"
	"net/http"

	"myHairMatch/business/scoring"
	"myHairMatch/domain"

	"github.com/labstack/echo/v4"
)

type ScoringConfigRepository interface {
	GetConfig(ctx context.Context, slot string) (domain.ScoringConfigRow, bool, error)
	UpsertConfig(ctx context.Context, row domain.ScoringConfigRow) error
}

type ScoringAdminHandler struct {
	cfgRepo ScoringConfigRepository
}

func NewScoringAdminHandler(cfgRepo ScoringConfigRepository) *ScoringAdminHandler {
	return &ScoringAdminHandler{
		cfgRepo: cfgRepo,
	}
}

// GET /api/v1/admin/scoring/config?slot=default
func (h *ScoringAdminHandler) GetConfig(c echo.Context) error {
	ctx := c.Request().Context()
	slot := c.QueryParam("slot")
	if slot == "" {
		slot = scoring.DefaultSlot
	}

	cfg, ok, err := h.cfgRepo.GetConfig(ctx, slot)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "config not found",
		})
	}

	return c.JSON(http.StatusOK, cfg)
}

// PUT /api/v1/admin/scoring/config
// body: ScoringConfigRow JSON
func (h *ScoringAdminHandler) UpsertConfig(c echo.Context) error {
	ctx := c.Request().Context()

	var body domain.ScoringConfigRow
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid body: " + err.Error(),
		})
	}
	if body.Slot == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "slot is required",
		})
	}

	if err := scoring.WeightsFromRow(body).Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}

	if err := h.cfgRepo.UpsertConfig(ctx, body); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
	})
}
