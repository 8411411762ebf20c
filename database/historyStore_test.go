package database

import (
	"context"
	"testing"
	"time"

	"golang-medicalbackend/apperrors"
	"golang-medicalbackend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const historiesNS = "medical_db.histories"

// connectedManager wraps an existing client as if Connect had succeeded.
func connectedManager(client *mongo.Client) *Manager {
	m := NewManager(testMongoConfig)
	m.once.Do(func() {})
	m.client = client
	m.db = client.Database(testMongoConfig.Database)
	m.state = Connected
	return m
}

func strPtr(s string) *string { return &s }

func TestHistoryStore_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns the stored document", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		created := time.Date(2023, 10, 25, 10, 30, 0, 0, time.UTC)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateCursorResponse(0, historiesNS, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: id},
				{Key: "patient_email", Value: "juan.perez@email.com"},
				{Key: "doctor_id", Value: "Dr. Smith"},
				{Key: "diagnosis", Value: "Seasonal flu"},
				{Key: "treatment", Value: "Rest"},
				{Key: "notes", Value: nil},
				{Key: "created_at", Value: primitive.NewDateTimeFromTime(created)},
			}),
		)

		store := NewHistoryStore(connectedManager(mt.Client))
		store.now = func() time.Time { return created }

		doc, err := store.Create(context.Background(), models.HistoryCreate{
			PatientEmail: "juan.perez@email.com",
			DoctorID:     strPtr("Dr. Smith"),
			Diagnosis:    strPtr("Seasonal flu"),
			Treatment:    strPtr("Rest"),
		})

		require.NoError(t, err)
		assert.Equal(t, id, doc["_id"])
		assert.Equal(t, "Seasonal flu", doc["diagnosis"])
		assert.Equal(t, primitive.NewDateTimeFromTime(created), doc["created_at"])
	})

	mt.Run("insert failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		store := NewHistoryStore(connectedManager(mt.Client))
		doc, err := store.Create(context.Background(), models.HistoryCreate{PatientEmail: "a@b.com", DoctorID: strPtr("D1"), Diagnosis: strPtr("Flu")})

		assert.Nil(t, doc)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	})

	mt.Run("read back finds nothing", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateCursorResponse(0, historiesNS, mtest.FirstBatch),
		)

		store := NewHistoryStore(connectedManager(mt.Client))
		doc, err := store.Create(context.Background(), models.HistoryCreate{PatientEmail: "a@b.com", DoctorID: strPtr("D1"), Diagnosis: strPtr("Flu")})

		assert.Nil(t, doc)
		require.Error(t, err)
		assert.ErrorIs(t, err, mongo.ErrNoDocuments)
	})
}

func TestHistoryStore_ListByPatient(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns documents sorted newest first", func(mt *mtest.T) {
		newer := primitive.NewObjectID()
		older := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, historiesNS, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: newer}, {Key: "patient_email", Value: "a@b.com"}},
			bson.D{{Key: "_id", Value: older}, {Key: "patient_email", Value: "a@b.com"}},
		))

		store := NewHistoryStore(connectedManager(mt.Client))
		docs, err := store.ListByPatient(context.Background(), "a@b.com")

		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, newer, docs[0]["_id"])
		assert.Equal(t, older, docs[1]["_id"])

		started := mt.GetStartedEvent()
		require.NotNil(t, started)
		assert.Equal(t, "find", started.CommandName)
		sort := started.Command.Lookup("sort").Document()
		assert.Equal(t, int32(-1), sort.Lookup("created_at").Int32())
		filter := started.Command.Lookup("filter").Document()
		assert.Equal(t, "a@b.com", filter.Lookup("patient_email").StringValue())
	})

	mt.Run("no documents yields an empty slice", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, historiesNS, mtest.FirstBatch))

		store := NewHistoryStore(connectedManager(mt.Client))
		docs, err := store.ListByPatient(context.Background(), "nobody@b.com")

		require.NoError(t, err)
		assert.NotNil(t, docs)
		assert.Empty(t, docs)
	})
}

func TestHistoryStore_Delete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("deletes an existing history", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		store := NewHistoryStore(connectedManager(mt.Client))
		assert.NoError(t, store.Delete(context.Background(), primitive.NewObjectID()))
	})

	mt.Run("missing history is not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		store := NewHistoryStore(connectedManager(mt.Client))
		err := store.Delete(context.Background(), primitive.NewObjectID())
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})
}

func TestHistoryStore_NotConnected(t *testing.T) {
	store := NewHistoryStore(NewManager(testMongoConfig))
	ctx := context.Background()

	_, err := store.Create(ctx, models.HistoryCreate{PatientEmail: "a@b.com", DoctorID: strPtr("D1"), Diagnosis: strPtr("Flu")})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotConnected))

	_, err = store.ListByPatient(ctx, "a@b.com")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotConnected))

	err = store.Delete(ctx, primitive.NewObjectID())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotConnected))
}

func TestHistoryStore_CreateRequiresDoctorAndDiagnosis(t *testing.T) {
	store := NewHistoryStore(NewManager(testMongoConfig))

	_, err := store.Create(context.Background(), models.HistoryCreate{PatientEmail: "a@b.com", Diagnosis: strPtr("Flu")})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = store.Create(context.Background(), models.HistoryCreate{PatientEmail: "a@b.com", DoctorID: strPtr("D1")})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}
