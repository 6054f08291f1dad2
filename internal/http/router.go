package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kakao-login/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas de login.
func NewRouter(
	logger *zap.Logger,
	authH *AuthHandler,
	jwtSvc *service.JWTService,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery())

	auth := r.Group("/auth")
	auth.GET("/kakao", authH.Redirect)
	auth.GET("/kakao/callback", authH.Callback)
	auth.GET("/me", SessionAuthMiddleware(jwtSvc, authH.cookie.Name), authH.Me)

	r.GET("/healthz", authH.Health)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
// No registra la query: el callback lleva el código de autorización.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
