package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"myHairMatch/domain"
	"myHairMatch/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ProductService interface {
	GetAllProducts(ctx context.Context, query string, limit, offset int) ([]domain.CatalogRecord, error)
	GetProductByID(ctx context.Context, id string) (*domain.CatalogRecord, error)
	CreateProduct(ctx context.Context, record *domain.CatalogRecord) (*domain.CatalogRecord, error)
	DeleteProduct(ctx context.Context, id string) error
	UpsertIngredientFact(ctx context.Context, fact domain.IngredientScienceFact) error
}

type ProductHandler struct {
	productService ProductService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

type CreateProductRequest struct {
	UPC         string   `json:"upc"`
	Name        string   `json:"name" validate:"required"`
	Brand       string   `json:"brand" validate:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"gte=0"`
	Currency    string   `json:"currency"`
	Tags        []string `json:"tags"`
	Ingredients []string `json:"ingredients"`
	URL         string   `json:"url"`
}

type UpsertIngredientFactRequest struct {
	InciName     string   `json:"inci_name" validate:"required"`
	Functions    []string `json:"functions"`
	Tags         []string `json:"tags"`
	Restrictions string   `json:"restrictions"`
	SafetyNotes  string   `json:"safety_notes"`
}

func (h *ProductHandler) GetAllProducts(c echo.Context) error {
	query := c.QueryParam("q")
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.GetAllProducts(ctx, query, limit, offset)
	if err != nil {
		logger.Error("Failed to find all products", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully get all products",
		"products": products,
	})
}

func (h *ProductHandler) GetProductByID(c echo.Context) error {
	productID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.productService.GetProductByID(ctx, productID)
	if err != nil {
		if err.Error() == "product not found" || err.Error() == "invalid product id" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully find product by id",
		"product": product,
	})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req CreateProductRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate product request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	record := &domain.CatalogRecord{
		UPC:         req.UPC,
		Name:        req.Name,
		Brand:       req.Brand,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Tags:        req.Tags,
		Ingredients: req.Ingredients,
		URL:         req.URL,
	}

	created, err := h.productService.CreateProduct(ctx, record)
	if err != nil {
		logger.Error("Failed to create product", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "successfully created product",
		"product": created,
	})
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	productID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.productService.DeleteProduct(ctx, productID); err != nil {
		if err.Error() == "product not found or already deleted" || err.Error() == "invalid product id" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully deleted product",
	})
}

// UpsertIngredientFact stores curated ingredient science data, admin only.
func (h *ProductHandler) UpsertIngredientFact(c echo.Context) error {
	var req UpsertIngredientFactRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate ingredient fact request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	fact := domain.IngredientScienceFact{
		InciName:     req.InciName,
		Functions:    req.Functions,
		Tags:         req.Tags,
		Restrictions: req.Restrictions,
		SafetyNotes:  req.SafetyNotes,
	}

	if err := h.productService.UpsertIngredientFact(ctx, fact); err != nil {
		logger.Error("Failed to upsert ingredient fact", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully stored ingredient fact",
	})
}
