package api

import (
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/echoprometheus"
	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/StaeyKay/blog-api/internal/api/handler"
	"github.com/StaeyKay/blog-api/internal/api/middleware"
	"github.com/StaeyKay/blog-api/internal/api/session"
	"github.com/StaeyKay/blog-api/internal/core/auth"
	"github.com/StaeyKay/blog-api/internal/core/ports"
)

// Deps carries everything the HTTP layer needs. SessionStore and Registerer
// are optional: without a store only bearer tokens authenticate, without a
// registerer no /metrics endpoint is mounted.
type Deps struct {
	Log zerolog.Logger

	Accounts      ports.AccountService
	Resets        ports.ResetService
	Articles      ports.ArticleService
	Authenticator middleware.Authenticator
	Roles         *auth.Registry

	SessionStore sessions.Store
	SessionName  string

	ConcealUnknownEmail bool
	ReadinessChecks     map[string]handler.Check

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
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
	e.Use(requestLogger(d.Log))
	if d.Registerer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "blog",
			Registerer: d.Registerer,
		}))
	}

	// --- Dependencies ---
	var sessionReader middleware.SessionReader
	var sessionWriter handler.SessionWriter
	if d.SessionStore != nil {
		e.Use(echosession.Middleware(d.SessionStore))
		mgr := session.NewManager(d.SessionName)
		sessionReader, sessionWriter = mgr, mgr
	}
	authenticate := middleware.Authenticate(d.Authenticator, sessionReader, d.Log)
	require := func(permission string) echo.MiddlewareFunc {
		return middleware.RequirePermission(d.Roles, permission, d.Log)
	}

	accountHandler := handler.NewAccountHandler(d.Accounts, sessionWriter, d.Log)
	resetHandler := handler.NewResetHandler(d.Resets, d.ConcealUnknownEmail, d.Log)
	articleHandler := handler.NewArticleHandler(d.Articles)

	v1 := e.Group("/api/v1")

	// --- Account routes ---
	users := v1.Group("/users/auth")
	users.POST("/register", accountHandler.Register)
	users.POST("/login", accountHandler.Login)
	users.POST("/logout", accountHandler.Logout)
	users.GET("/loggedInUser", accountHandler.LoggedInUser, authenticate)
	users.GET("/profile", accountHandler.Profile, authenticate)
	users.GET("", accountHandler.ListUsers, authenticate, require(auth.PermReadUsers))
	users.POST("", accountHandler.CreateUser, authenticate, require(auth.PermCreateUser))
	users.PATCH("/:id", accountHandler.UpdateUser, authenticate, require(auth.PermUpdateUser))

	// --- Password reset (no auth required) ---
	users.POST("/forgot-password", resetHandler.ForgotPassword)
	users.GET("/reset-token/:id", resetHandler.CheckResetToken)
	users.POST("/reset-password", resetHandler.ResetPassword)

	// --- Article routes ---
	articles := v1.Group("/users/articles", authenticate)
	articles.POST("", articleHandler.Add)
	articles.GET("", articleHandler.List)
	articles.PATCH("/:id", articleHandler.Update)
	articles.DELETE("/:id", articleHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.ReadinessChecks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	if d.Registerer != nil {
		gatherer := d.Gatherer
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return e
}

// requestLogger writes one zerolog entry per request.
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
			if v.Status >= 500 {
				evt = log.Error()
			}
			if v.Error != nil {
				evt = evt.Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
