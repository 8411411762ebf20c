package controllers

import (
	"context"
	"net/http"
	"time"

	"golang-medicalbackend/helpers"
	"golang-medicalbackend/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HistoryStore is the storage the history handlers need.
type HistoryStore interface {
	Create(ctx context.Context, in models.HistoryCreate) (bson.M, error)
	ListByPatient(ctx context.Context, email string) ([]bson.M, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

func CreateHistory(store HistoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var history models.HistoryCreate
		if err := c.ShouldBindJSON(&history); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if validationErr := validate.Struct(history); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		created, err := store.Create(ctx, history)
		if err != nil {
			respondError(c, err)
			return
		}

		out, err := helpers.HistoryHelper(created)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, out)
	}
}

// GetHistoriesByPatient lists a patient's histories, newest first. A stored
// record that cannot be serialized is logged and left out of the list.
func GetHistoriesByPatient(store HistoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		email := c.Param("email")
		if err := validate.Var(email, "required,email"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient email"})
			return
		}

		records, err := store.ListByPatient(ctx, email)
		if err != nil {
			respondError(c, err)
			return
		}

		histories := make([]*models.HistoryOut, 0, len(records))
		for _, record := range records {
			out, err := helpers.HistoryHelper(record)
			if err != nil {
				log.Warn().Err(err).Str("patient_email", email).Msg("skipping malformed history record")
				continue
			}
			histories = append(histories, out)
		}

		c.JSON(http.StatusOK, histories)
	}
}

func DeleteHistory(store HistoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		objID, err := primitive.ObjectIDFromHex(c.Param("history_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid history ID"})
			return
		}

		if err := store.Delete(ctx, objID); err != nil {
			respondError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}
