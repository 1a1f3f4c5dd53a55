package router

import (
	"myHairMatch/internal/middleware"
	"myHairMatch/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)

	users.PUT("/me", handler.UpdateUser, authRequired)
	users.GET("", handler.GetAllUsers, authRequired, adminOnly)
	users.GET("/:id", handler.GetUserByID, authRequired, middleware.SelfOrAdmin())
	users.DELETE("/:id", handler.DeleteUser, authRequired, adminOnly)
}

func SetupProfileRoutes(api *echo.Group, handler *rest.ProfileHandler, authRequired echo.MiddlewareFunc) {
	profile := api.Group("/profile", authRequired)

	profile.GET("", handler.GetProfile)
	profile.PUT("", handler.SaveProfile)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, recoHandler *rest.RecommendHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	products := api.Group("/products")

	products.GET("", handler.GetAllProducts, authRequired)
	products.GET("/:id", handler.GetProductByID, authRequired)
	products.GET("/:id/compatibility", recoHandler.Compatibility, authRequired)
	products.POST("", handler.CreateProduct, authRequired, adminOnly)
	products.DELETE("/:id", handler.DeleteProduct, authRequired, adminOnly)

	api.PUT("/ingredients/facts", handler.UpsertIngredientFact, authRequired, adminOnly)
}

func SetupRecommendRoutes(api *echo.Group, handler *rest.RecommendHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	reco := api.Group("/recommendations")

	// share codes are the secret; no auth on resolution
	reco.GET("/shared/:code", handler.Shared)

	reco.POST("", handler.Generate, authRequired)
	reco.GET("/latest", handler.Latest, authRequired)
	reco.GET("/history", handler.History, authRequired)
	reco.POST("/:id/share", handler.Share, authRequired)

	reco.POST("/resync", handler.Resync, authRequired, adminOnly)
	reco.GET("/resync/status", handler.ResyncStatus, authRequired, adminOnly)
}

func SetupScoringAdminRoutes(api *echo.Group, handler *rest.ScoringAdminHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin/scoring", authRequired, adminOnly)

	admin.GET("/config", handler.GetConfig)
	admin.PUT("/config", handler.UpsertConfig)
}
