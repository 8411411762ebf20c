package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"golang-medicalbackend/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ProgressStore is the storage the progress handlers need.
type ProgressStore interface {
	Create(ctx context.Context, in models.ProgressCreate) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Progress, error)
	Get(ctx context.Context, id int64) (*models.Progress, error)
	Update(ctx context.Context, id int64, in models.ProgressUpdate) error
	Delete(ctx context.Context, id int64) error
}

const requiredProgressFields = "id_usuario and peso are required"

func CreateProgress(store ProgressStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var progress models.ProgressCreate
		if err := c.ShouldBindJSON(&progress); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if validationErr := validate.Struct(progress); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": progressValidationMessage(validationErr)})
			return
		}

		id, err := store.Create(ctx, progress)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"id_progreso": id})
	}
}

func GetProgressByUser(store ProgressStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		userID, ok := int64Param(c, "id_usuario")
		if !ok {
			return
		}

		entries, err := store.ListByUser(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, entries)
	}
}

func GetProgress(store ProgressStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		id, ok := int64Param(c, "id_progreso")
		if !ok {
			return
		}

		entry, err := store.Get(ctx, id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, entry)
	}
}

func UpdateProgress(store ProgressStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		id, ok := int64Param(c, "id_progreso")
		if !ok {
			return
		}

		var progress models.ProgressUpdate
		if err := c.ShouldBindJSON(&progress); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if validationErr := validate.Struct(progress); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		if err := store.Update(ctx, id, progress); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "progress updated"})
	}
}

func DeleteProgress(store ProgressStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		id, ok := int64Param(c, "id_progreso")
		if !ok {
			return
		}

		if err := store.Delete(ctx, id); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "progress deleted"})
	}
}

func int64Param(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}

func progressValidationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Field() == "IDUsuario" || fe.Field() == "Peso" {
				return requiredProgressFields
			}
		}
	}
	return err.Error()
}
