package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"myHairMatch/business/compat"
	"myHairMatch/business/recommend"
	"myHairMatch/domain"
	"myHairMatch/pkg/logger"
	"myHairMatch/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	RecommendHandler struct {
		validate         *validator.Validate
		recommendService RecommendService
		timeout          time.Duration
	}

	RecommendService interface {
		Run(ctx context.Context, userID uint, opts recommend.RunOptions) (domain.RecommendationResult, error)
		Latest(ctx context.Context, userID uint) (domain.RecommendationResult, error)
		History(ctx context.Context, userID uint, limit int) ([]domain.RecommendationResult, error)
		ShareCode(ctx context.Context, userID uint, resultID string) (string, error)
		ResolveShareCode(ctx context.Context, code string) (domain.RecommendationResult, error)
		StartResync(tags []string) bool
		ResyncStatus() recommend.ResyncStatus
		CheckCompatibility(ctx context.Context, userID uint, productID string) (compat.Assessment, error)
	}

	GenerateRequest struct {
		TopK int      `json:"top_k" validate:"omitempty,gt=0,lte=50"`
		Tags []string `json:"tags"`
	}

	ResyncRequest struct {
		Tags []string `json:"tags"`
	}
)

func NewRecommendHandler(svc RecommendService) *RecommendHandler {
	return &RecommendHandler{
		validate:         validator.New(),
		recommendService: svc,
		// pipeline runs fan out to external services; give them room
		timeout: 60 * time.Second,
	}
}

func (h *RecommendHandler) Generate(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req GenerateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	metrics.RecommendRequests.Inc()
	start := time.Now()

	result, err := h.recommendService.Run(ctx, userID, recommend.RunOptions{
		TopK: req.TopK,
		Tags: req.Tags,
	})
	if err != nil {
		if errors.Is(err, recommend.ErrProfileRequired) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "hair profile required, submit the hair quiz first"})
		}
		logger.Error("Failed to generate recommendations", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	metrics.RecommendLatency.Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

func (h *RecommendHandler) Latest(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.recommendService.Latest(ctx, userID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to get latest recommendations", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

func (h *RecommendHandler) History(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	results, err := h.recommendService.History(ctx, userID, limit)
	if err != nil {
		logger.Error("Failed to get recommendation history", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(results))
}

// Share creates a shareable code for one of the caller's results.
func (h *RecommendHandler) Share(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	resultID := c.Param("id")
	if resultID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "result id is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	code, err := h.recommendService.ShareCode(ctx, userID, resultID)
	if err != nil {
		if errors.Is(err, recommend.ErrResultNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to create share code", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]string{"code": code}))
}

// Shared resolves a share code. No authentication; the code is the secret.
func (h *RecommendHandler) Shared(c echo.Context) error {
	code := c.Param("code")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.recommendService.ResolveShareCode(ctx, code)
	if err != nil {
		if strings.Contains(err.Error(), "invalid or expired") {
			return c.JSON(http.StatusUnauthorized, ResponseError{Message: err.Error()})
		}
		if errors.Is(err, recommend.ErrResultNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// Resync starts a background catalog refresh.
func (h *RecommendHandler) Resync(c echo.Context) error {
	var req ResyncRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if !h.recommendService.StartResync(req.Tags) {
		return c.JSON(http.StatusConflict, ResponseError{Message: "a resync is already running"})
	}

	return c.JSON(http.StatusAccepted, fres.Response.StatusOK(map[string]string{"status": "started"}))
}

func (h *RecommendHandler) ResyncStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.recommendService.ResyncStatus()))
}

// Compatibility runs the ingredient rule engine for one product against the
// caller's stored profile.
func (h *RecommendHandler) Compatibility(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	productID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	assessment, err := h.recommendService.CheckCompatibility(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, recommend.ErrProfileRequired) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "hair profile required, submit the hair quiz first"})
		}
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to check compatibility", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(assessment))
}
