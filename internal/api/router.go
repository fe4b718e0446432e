package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/retailflow/plm-console/internal/api/handler"
	"github.com/retailflow/plm-console/internal/api/middleware"
	"github.com/retailflow/plm-console/internal/core/domain"
	"github.com/retailflow/plm-console/internal/core/ports"
	"github.com/retailflow/plm-console/internal/core/service"
)

// Deps are the components the console routes drive.
type Deps struct {
	Sessions  handler.SessionManager
	Products  ports.ProductService
	Board     *service.ProductBoard
	Form      *service.ProductForm
	Analytics *service.AnalyticsService
	Alerts    *service.Notifier
	Guard     *service.InFlight
	Tokens    *middleware.Tokens
	Checks    map[string]handler.Check
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.Metrics())
	e.Use(requestLogger(d.Log))

	// --- Handlers ---
	sessionHandler := handler.NewSessionHandler(d.Sessions, d.Tokens, d.Guard, d.Board, d.Form, d.Alerts, d.Log)
	productHandler := handler.NewProductHandler(d.Products, d.Board, d.Guard, d.Alerts, d.Log)
	formHandler := handler.NewFormHandler(d.Form, d.Alerts)
	analyticsHandler := handler.NewAnalyticsHandler(d.Analytics, d.Alerts)
	alertHandler := handler.NewAlertHandler(d.Alerts)
	healthHandler := handler.NewHealthHandler(d.Checks)

	auth := middleware.Auth(d.Tokens, d.Sessions)

	// --- Health probes and metrics (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Session ---
	e.POST("/session", sessionHandler.Login)
	e.GET("/session", sessionHandler.Get)
	e.POST("/session/refresh", sessionHandler.Refresh, auth)
	e.DELETE("/session", sessionHandler.Logout, auth)

	// --- Products ---
	products := e.Group("/products", auth)
	products.GET("", productHandler.List, middleware.RequireCapability(domain.CapViewProducts))
	products.POST("/:id/advance", productHandler.Advance, middleware.RequireCapability(domain.CapAdvanceStatus))

	form := products.Group("/form", middleware.RequireCapability(domain.CapCreateProduct))
	form.GET("", formHandler.Get)
	form.PUT("", formHandler.Update)
	form.DELETE("", formHandler.Reset)
	form.POST("/next", formHandler.Next)
	form.POST("/prev", formHandler.Prev)
	form.POST("/submit", formHandler.Submit)

	// --- Analytics and alerts ---
	e.GET("/analytics", analyticsHandler.Get, auth, middleware.RequireCapability(domain.CapViewAnalytics))
	e.GET("/alert", alertHandler.Get, auth)
	e.DELETE("/alert", alertHandler.Dismiss, auth)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
