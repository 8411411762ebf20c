package controllers

import (
	"context"
	"net/http"
	"time"

	"golang-medicalbackend/apperrors"

	"github.com/gin-gonic/gin"
)

// HealthChecker runs a liveness command against the document store.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

const (
	DatabaseOK           = "OK"
	DatabaseDisconnected = "Disconnected"
)

// DatabaseStatus reports "OK", "Disconnected" or "Error: <message>".
func DatabaseStatus(ctx context.Context, db HealthChecker) string {
	err := db.Ping(ctx)
	switch {
	case err == nil:
		return DatabaseOK
	case apperrors.IsType(err, apperrors.ErrorTypeNotConnected):
		return DatabaseDisconnected
	default:
		return "Error: " + err.Error()
	}
}

func GetStatus(db HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		c.JSON(http.StatusOK, gin.H{
			"api_status": "OK",
			"database":   DatabaseStatus(ctx, db),
		})
	}
}
