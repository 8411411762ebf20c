package routes

import (
	controller "golang-medicalbackend/controllers"

	"github.com/gin-gonic/gin"
)

// ProgressRoutes registers the progress endpoints; callers mount it under /api.
func ProgressRoutes(incomingRoutes *gin.RouterGroup, store controller.ProgressStore, health controller.HealthChecker) {
	incomingRoutes.GET("/status", controller.GetStatus(health))
	incomingRoutes.POST("/progreso", controller.CreateProgress(store))
	incomingRoutes.GET("/progreso/:id_usuario", controller.GetProgressByUser(store))
	incomingRoutes.GET("/progreso/entry/:id_progreso", controller.GetProgress(store))
	incomingRoutes.PUT("/progreso/:id_progreso", controller.UpdateProgress(store))
	incomingRoutes.DELETE("/progreso/:id_progreso", controller.DeleteProgress(store))
}
