// Package router assembles the echo server: the middleware chain and every
// route of the web client.
package router

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-booking-web/internal/config"
	"github.com/iliyamo/hotel-booking-web/internal/gateway"
	"github.com/iliyamo/hotel-booking-web/internal/handler"
	"github.com/iliyamo/hotel-booking-web/internal/lifecycle"
	"github.com/iliyamo/hotel-booking-web/internal/middleware"
	"github.com/iliyamo/hotel-booking-web/internal/session"
)

// Deps are the collaborators the server is built from.  Redis may be nil,
// which disables the response cache and the rate limiter.
type Deps struct {
	Store     *session.Store
	Gateway   *gateway.Client
	Bookings  *lifecycle.Service
	Logger    *slog.Logger
	Redis     *redis.Client
	Cookie    middleware.CookieConfig
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
}

// New builds the echo instance.  It also points the gateway's 401 hook at
// the session store so an expired credential tears the session down.
func New(d Deps) *echo.Echo {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	d.Gateway.SetUnauthorizedHook(func(ctx context.Context) {
		if sid := session.IDFrom(ctx); sid != "" {
			if err := d.Store.Clear(ctx, sid); err != nil {
				logger.Warn("clear session after 401 failed", "err", err)
			}
		}
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = handler.JSONSerializer{}
	e.HTTPErrorHandler = handler.ErrorHandler(d.Store, logger)

	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				logger.Warn("request", append(attrs, "err", v.Error)...)
				return nil
			}
			logger.Info("request", attrs...)
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(middleware.Session(d.Store, d.Cookie, logger))
	e.Use(middleware.Gate(d.Store, logger))
	e.Use(middleware.NewRedisCache(d.Cache, d.Redis, logger))

	limiter := middleware.NewLoginLimiter(d.RateLimit, d.Redis, logger)

	RegisterRoutes(e, d.Store)
	RegisterPublic(e, handler.NewPublicHandler(d.Gateway, logger))
	RegisterAuth(e, handler.NewAuthHandler(d.Store, d.Gateway, logger), limiter)
	RegisterMember(e, handler.NewMemberHandler(d.Store, d.Gateway, d.Bookings, logger))
	RegisterAdmin(e, handler.NewAdminHandler(d.Gateway, logger))
	return e
}

// RegisterRoutes registers the operational endpoints.
func RegisterRoutes(e *echo.Echo, store *session.Store) {
	e.GET("/healthz", handler.Health(store))
}

// RegisterPublic registers the catalog pages open to everyone.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	e.GET("/", p.Home)
	e.GET("/rooms", p.Rooms)
	e.POST("/rooms/available", p.Available)
	e.GET("/rooms/:id", p.Room)
}

// RegisterAuth registers sign-in, registration and sign-out.  The form
// submissions sit behind the rate limiter.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	e.GET("/login", a.LoginPage)
	e.POST("/login", a.Login, limiter)
	e.GET("/register", a.RegisterPage)
	e.POST("/register", a.Register, limiter)
	e.POST("/logout", a.Logout)
}
