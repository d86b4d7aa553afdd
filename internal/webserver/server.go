package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/talkincode/smartpos/internal/app"
	"go.uber.org/zap"
)

const (
	// Echo context keys populated by the context middleware.
	ContextKeyApp = "smartpos_app"
)

var server *WebServer

// WebServer wraps the echo instance serving the admin API.
type WebServer struct {
	root   *echo.Echo
	appCtx app.AppContext
}

// CustomValidator adapts go-playground validation to echo.
type CustomValidator struct {
	validate *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validate.Struct(i)
}

// Init builds the global web server instance.
func Init(appCtx app.AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &CustomValidator{validate: validator.New()}

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10,
	}))
	e.Use(ZapLoggerMiddleware())

	// Inject the application context so handlers reach services via
	// the echo context alone.
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextKeyApp, appCtx)
			return next(c)
		}
	})

	e.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(appCtx.Config().Web.Secret),
		Skipper: func(c echo.Context) bool {
			switch c.Path() {
			case "/api/v1/login", "/api/v1/health":
				return true
			}
			return false
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
		},
	}))

	e.GET("/api/v1/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	server = &WebServer{root: e, appCtx: appCtx}
	return server
}

// ZapLoggerMiddleware logs one line per request through the global zap
// logger.
func ZapLoggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			res := c.Response()
			zap.L().Info("http request",
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.Int("status", res.Status),
				zap.String("remote", c.RealIP()),
				zap.Duration("latency", time.Since(start)))
			return nil
		}
	}
}

// Instance returns the global web server, nil before Init.
func Instance() *WebServer {
	return server
}

func (ws *WebServer) Echo() *echo.Echo {
	return ws.root
}

// Start serves until the listener fails or Stop is called.
func (ws *WebServer) Start() error {
	cfg := ws.appCtx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.L().Info("admin api listening", zap.String("addr", addr))
	return ws.root.Start(addr)
}

// Stop drains in-flight requests before shutting down.
func (ws *WebServer) Stop(ctx context.Context) error {
	return ws.root.Shutdown(ctx)
}

// GenerateToken issues the session JWT for an authenticated operator.
func (ws *WebServer) GenerateToken(username, level string) (string, error) {
	claims := jwt.MapClaims{
		"usr": username,
		"lvl": level,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(ws.appCtx.Config().Web.Secret))
}

// Route helpers keep handler registration terse at the call sites.

func ApiGET(path string, h echo.HandlerFunc) {
	server.root.GET("/api/v1"+path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.root.POST("/api/v1"+path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.root.PUT("/api/v1"+path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.root.DELETE("/api/v1"+path, h)
}
