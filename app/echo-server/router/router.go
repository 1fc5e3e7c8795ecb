package router

import (
	"adFatigue/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupFatigueRoutes(api *echo.Group, handler *rest.FatigueHandler) {
	fatigue := api.Group("/fatigue")

	fatigue.POST("/format", handler.FormatFatigue)
	fatigue.POST("/instagram-value", handler.InstagramValue)
	fatigue.POST("/blend", handler.Blend)
	fatigue.POST("/first-time-ratio", handler.FirstTimeRatio)

	ads := api.Group("/ads/:adId")
	ads.GET("/fatigue", handler.Report)
	ads.GET("/fatigue/history", handler.History)
}

func SetupSnapshotRoutes(api *echo.Group, handler *rest.SnapshotHandler) {
	api.POST("/snapshots", handler.Ingest)
	api.GET("/ads/:adId/snapshots", handler.ListByAd)
}

func SetupFatigueAdminRoutes(api *echo.Group, handler *rest.FatigueAdminHandler) {
	admin := api.Group("/admin/fatigue")

	admin.GET("/config", handler.GetConfig)
	admin.PUT("/config", handler.UpsertConfig)
}

func SetupMetricsRoute(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
