package httpserver

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires handlers and middleware into a gin engine. Registration is
// open (it is how users are created); the list/update/delete routes require a
// valid access token.
func NewRouter(h *UserHandler, secret []byte, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(Recover(log), RequestLogger(log), cors.Default())

	r.GET("/healthz", Health)
	r.POST("/login", h.Login)
	r.POST("/users", h.Create)

	auth := r.Group("/users")
	auth.Use(AuthRequired(secret))
	{
		auth.GET("", h.List)
		auth.PUT("/:id", h.Update)
		auth.DELETE("/:id", h.Delete)
	}

	return r
}
