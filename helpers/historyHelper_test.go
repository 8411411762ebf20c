package helpers

import (
	"encoding/json"
	"testing"
	"time"

	"golang-medicalbackend/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func mustObjectID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hex)
	require.NoError(t, err)
	return id
}

func TestHistoryHelper_FullRecord(t *testing.T) {
	created := time.Date(2023, 10, 25, 10, 30, 0, 0, time.UTC)
	doc := bson.M{
		"_id":           mustObjectID(t, "507f191e810c19729de860ea"),
		"patient_email": "a@b.com",
		"doctor_id":     "D1",
		"diagnosis":     "Flu",
		"treatment":     nil,
		"notes":         nil,
		"created_at":    primitive.NewDateTimeFromTime(created),
	}

	out, err := HistoryHelper(doc)
	require.NoError(t, err)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "507f191e810c19729de860ea",
		"patient_email": "a@b.com",
		"doctor_id": "D1",
		"diagnosis": "Flu",
		"treatment": null,
		"notes": null,
		"created_at": "2023-10-25T10:30:00+00:00"
	}`, string(raw))
}

func TestHistoryHelper_MissingCreatedAtIsNull(t *testing.T) {
	doc := bson.M{
		"_id":           mustObjectID(t, "507f191e810c19729de860ea"),
		"patient_email": "a@b.com",
		"doctor_id":     "D1",
		"diagnosis":     "Flu",
	}

	out, err := HistoryHelper(doc)
	require.NoError(t, err)
	assert.Nil(t, out.CreatedAt)
	assert.Nil(t, out.Treatment)
	assert.Nil(t, out.Notes)

	var decoded map[string]any
	raw, err := json.Marshal(out)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &decoded))

	value, present := decoded["created_at"]
	assert.True(t, present, "created_at key must be emitted")
	assert.Nil(t, value)
}

func TestHistoryHelper_MissingIdentifier(t *testing.T) {
	tests := []struct {
		name string
		doc  bson.M
	}{
		{"absent", bson.M{"patient_email": "a@b.com"}},
		{"null", bson.M{"_id": nil}},
		{"zero object id", bson.M{"_id": primitive.NilObjectID}},
		{"empty string", bson.M{"_id": ""}},
		{"wrong type", bson.M{"_id": 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := HistoryHelper(tt.doc)
			assert.Nil(t, out)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeMalformedRecord))
		})
	}
}

func TestHistoryHelper_StringIdentifierAndOptionalText(t *testing.T) {
	doc := bson.M{
		"_id":        "legacy-1",
		"treatment":  "Rest",
		"notes":      "Responds well",
		"created_at": time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600)),
	}

	out, err := HistoryHelper(doc)
	require.NoError(t, err)
	assert.Equal(t, "legacy-1", out.ID)
	require.NotNil(t, out.Treatment)
	assert.Equal(t, "Rest", *out.Treatment)
	require.NotNil(t, out.Notes)
	assert.Equal(t, "Responds well", *out.Notes)
	require.NotNil(t, out.CreatedAt)
	assert.Equal(t, "2024-01-02T02:04:05+00:00", *out.CreatedAt)
	assert.Nil(t, out.PatientEmail)
}

func TestHistoryHelper_IllTypedField(t *testing.T) {
	doc := bson.M{
		"_id":       mustObjectID(t, "507f191e810c19729de860ea"),
		"diagnosis": 12,
	}

	out, err := HistoryHelper(doc)
	assert.Nil(t, out)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeMalformedRecord))
}

func TestISOFormat(t *testing.T) {
	assert.Equal(t, "2023-10-25T10:30:00+00:00", ISOFormat(time.Date(2023, 10, 25, 10, 30, 0, 0, time.UTC)))
	assert.Equal(t, "2023-10-25T10:30:00.123000+00:00", ISOFormat(time.Date(2023, 10, 25, 10, 30, 0, 123000000, time.UTC)))
	// sub-microsecond precision is dropped
	assert.Equal(t, "2023-10-25T10:30:00+00:00", ISOFormat(time.Date(2023, 10, 25, 10, 30, 0, 999, time.UTC)))
}
