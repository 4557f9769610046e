package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanosuguru/go-venue-booking/internal/api"
	"github.com/sanosuguru/go-venue-booking/internal/api/handler"
	"github.com/sanosuguru/go-venue-booking/internal/api/middleware"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/metrics"
)

// Deps はルーター構築に必要な依存関係
type Deps struct {
	VenueService    handler.VenueServiceInterface
	TimeslotService handler.TimeslotServiceInterface
	HealthChecks    []handler.HealthCheck
	Metrics         *metrics.Metrics
	// Gatherer が nil の場合は prometheus.DefaultGatherer を使う
	Gatherer      prometheus.Gatherer
	MetricsConfig *middleware.MetricsConfig
}

// New はルーティング済みのEchoインスタンスを作成する
func New(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler

	middleware.SetupMiddleware(e, deps.Metrics)

	healthHandler := handler.NewHealthHandler(deps.HealthChecks...)
	e.GET("/health", healthHandler.Check)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	metricsHandler := echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	e.GET("/metrics", metricsHandler, middleware.MetricsBasicAuth(deps.MetricsConfig))

	venueHandler := handler.NewVenueHandler(deps.VenueService)
	timeslotHandler := handler.NewTimeslotHandler(deps.TimeslotService)

	v1 := e.Group("/api/v1")

	venues := v1.Group("/venues")
	venues.POST("", venueHandler.Create)
	venues.GET("", venueHandler.List)
	venues.GET("/:id", venueHandler.GetByID)
	venues.PATCH("/:id", venueHandler.Update)
	venues.DELETE("/:id", venueHandler.Delete)
	venues.PUT("/:id/published", venueHandler.Publish)
	venues.PUT("/:id/unpublished", venueHandler.Unpublish)
	venues.GET("/:id/timeslots", timeslotHandler.ListByVenue)

	timeslots := v1.Group("/timeslots")
	timeslots.POST("", timeslotHandler.Create)
	timeslots.GET("", timeslotHandler.List)
	timeslots.GET("/:id", timeslotHandler.GetByID)
	timeslots.PATCH("/:id", timeslotHandler.Update)
	timeslots.DELETE("/:id", timeslotHandler.Delete)

	return e
}
