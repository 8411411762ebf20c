package routes

import (
	controller "golang-medicalbackend/controllers"

	"github.com/gin-gonic/gin"
)

func HistoryRoutes(incomingRoutes *gin.RouterGroup, store controller.HistoryStore, health controller.HealthChecker) {
	incomingRoutes.GET("/status", controller.GetStatus(health))
	incomingRoutes.POST("/histories", controller.CreateHistory(store))
	incomingRoutes.GET("/histories/patient/:email", controller.GetHistoriesByPatient(store))
	incomingRoutes.DELETE("/histories/:history_id", controller.DeleteHistory(store))
}
