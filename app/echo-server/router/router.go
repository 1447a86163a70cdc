package router

import (
	"sille/internal/middleware"
	"sille/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupSurveyRoutes(api *echo.Group, handler *rest.SurveyHandler) {
	survey := api.Group("/survey", middleware.AuthMiddleware())

	survey.PUT("", handler.Submit)
	survey.GET("", handler.Get)
}

func SetRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler) {
	reco := api.Group("/recommendations", middleware.AuthMiddleware())

	reco.GET("", handler.List)
}

func SetOccasionAdminRoutes(api *echo.Group, handler *rest.OccasionHandler) {
	admin := api.Group("/admin/occasions", middleware.AuthMiddleware(), middleware.AdminOnly())

	admin.POST("/reclassify", handler.ReclassifyAll)
	admin.GET("/preview/:perfume_id", handler.Preview)
}
