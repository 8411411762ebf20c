package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-medicalbackend/apperrors"
	"golang-medicalbackend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HistoriesCollection is the collection holding medical histories.
const HistoriesCollection = "histories"

// HistoryStore performs history operations through a Manager. Every call
// resolves the collection first, so a disconnected manager surfaces as a
// NotConnected error.
type HistoryStore struct {
	manager *Manager
	now     func() time.Time
}

func NewHistoryStore(manager *Manager) *HistoryStore {
	return &HistoryStore{manager: manager, now: time.Now}
}

// Create inserts the history stamped with the current UTC time and returns
// the stored document as read back from the collection.
func (s *HistoryStore) Create(ctx context.Context, in models.HistoryCreate) (bson.M, error) {
	if in.DoctorID == nil || in.Diagnosis == nil {
		return nil, apperrors.NewValidationError("doctor_id and diagnosis are required")
	}

	coll, err := s.manager.Collection(HistoriesCollection)
	if err != nil {
		return nil, err
	}

	result, err := coll.InsertOne(ctx, in.Document(s.now()))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to insert history", err)
	}

	var created bson.M
	err = coll.FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&created)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewInternalError("failed to retrieve the newly created history", err)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read back history", err)
	}
	return created, nil
}

// ListByPatient returns the patient's histories, newest first.
func (s *HistoryStore) ListByPatient(ctx context.Context, email string) ([]bson.M, error) {
	coll, err := s.manager.Collection(HistoriesCollection)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := coll.Find(ctx, bson.M{"patient_email": email}, opts)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query histories", err)
	}

	histories := []bson.M{}
	if err := cursor.All(ctx, &histories); err != nil {
		return nil, apperrors.NewInternalError("failed to decode histories", err)
	}
	return histories, nil
}

// Delete removes the history with the given id. A missing document is a
// NotFound error.
func (s *HistoryStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	coll, err := s.manager.Collection(HistoriesCollection)
	if err != nil {
		return err
	}

	result, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.NewInternalError("failed to delete history", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("history with ID %s not found", id.Hex()))
	}
	return nil
}
