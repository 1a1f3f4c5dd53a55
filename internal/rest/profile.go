package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"myHairMatch/domain"
	"myHairMatch/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	ProfileHandler struct {
		validate       *validator.Validate
		profileService ProfileService
		timeout        time.Duration
	}

	ProfileService interface {
		GetProfile(ctx context.Context, userID uint) (domain.HairProfile, error)
		SaveProfile(ctx context.Context, userID uint, profile domain.HairProfile) error
	}

	SaveProfileRequest struct {
		HairType       string   `json:"hair_type" validate:"required,oneof=straight wavy curly coily mixed"`
		Porosity       string   `json:"porosity" validate:"required,oneof=low medium high"`
		WaterType      string   `json:"water_type" validate:"omitempty,oneof=soft hard"`
		Concerns       []string `json:"concerns"`
		Allergens      []string `json:"allergens"`
		Budget         string   `json:"budget" validate:"omitempty,oneof=low medium high"`
		ScalpSensitive bool     `json:"scalp_sensitive"`

		Vegan         bool `json:"vegan"`
		CrueltyFree   bool `json:"cruelty_free"`
		Organic       bool `json:"organic"`
		FragranceFree bool `json:"fragrance_free"`
	}
)

func NewProfileHandler(profileService ProfileService) *ProfileHandler {
	return &ProfileHandler{
		validate:       validator.New(),
		profileService: profileService,
		timeout:        10 * time.Second,
	}
}

func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.profileService.GetProfile(ctx, userID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to get hair profile", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(profile))
}

func (h *ProfileHandler) SaveProfile(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req SaveProfileRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&req); err != nil {
		logger.Error("Failed to validate hair profile", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	profile := domain.HairProfile{
		HairType:       req.HairType,
		Porosity:       req.Porosity,
		WaterType:      req.WaterType,
		Concerns:       req.Concerns,
		Allergens:      req.Allergens,
		Budget:         req.Budget,
		ScalpSensitive: req.ScalpSensitive,
		Preferences: domain.HairPreferences{
			Vegan:         req.Vegan,
			CrueltyFree:   req.CrueltyFree,
			Organic:       req.Organic,
			FragranceFree: req.FragranceFree,
		},
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.profileService.SaveProfile(ctx, userID, profile); err != nil {
		logger.Error("Failed to save hair profile", err)
		if strings.Contains(err.Error(), "invalid") {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(profile))
}
