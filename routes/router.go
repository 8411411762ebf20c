package routes

import (
	"golang-medicalbackend/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewEngine returns a gin engine with the middleware both services share.
func NewEngine(allowedOrigins []string, logger zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(allowedOrigins))
	return router
}
