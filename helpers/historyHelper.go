package helpers

import (
	"fmt"
	"time"

	"golang-medicalbackend/apperrors"
	"golang-medicalbackend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	isoLayout      = "2006-01-02T15:04:05-07:00"
	isoLayoutMicro = "2006-01-02T15:04:05.000000-07:00"
)

// HistoryHelper converts a stored history document into its wire form.
// Missing or null fields come out as nil; only a missing or unusable _id is
// an error, in which case no output is produced.
func HistoryHelper(history bson.M) (*models.HistoryOut, error) {
	id, err := recordID(history["_id"])
	if err != nil {
		return nil, err
	}

	out := &models.HistoryOut{ID: id}

	fields := []struct {
		key string
		dst **string
	}{
		{"patient_email", &out.PatientEmail},
		{"doctor_id", &out.DoctorID},
		{"diagnosis", &out.Diagnosis},
		{"treatment", &out.Treatment},
		{"notes", &out.Notes},
	}
	for _, f := range fields {
		v, err := optionalString(history, f.key)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	createdAt, err := optionalTimestamp(history, "created_at")
	if err != nil {
		return nil, err
	}
	out.CreatedAt = createdAt

	return out, nil
}

// ISOFormat renders t in UTC with an explicit numeric offset. Fractional
// seconds are written with microsecond precision only when non-zero.
func ISOFormat(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/int(time.Microsecond) != 0 {
		return t.Format(isoLayoutMicro)
	}
	return t.Format(isoLayout)
}

func recordID(raw any) (string, error) {
	switch id := raw.(type) {
	case primitive.ObjectID:
		if id.IsZero() {
			return "", apperrors.NewMalformedRecordError("record has a zero _id")
		}
		return id.Hex(), nil
	case string:
		if id == "" {
			return "", apperrors.NewMalformedRecordError("record has an empty _id")
		}
		return id, nil
	case nil:
		return "", apperrors.NewMalformedRecordError("record has no _id")
	default:
		return "", apperrors.NewMalformedRecordError(fmt.Sprintf("record _id has unsupported type %T", raw))
	}
}

func optionalString(doc bson.M, key string) (*string, error) {
	switch v := doc[key].(type) {
	case nil:
		return nil, nil
	case string:
		return &v, nil
	default:
		return nil, apperrors.NewMalformedRecordError(fmt.Sprintf("field %s has unsupported type %T", key, v))
	}
}

func optionalTimestamp(doc bson.M, key string) (*string, error) {
	var t time.Time
	switch v := doc[key].(type) {
	case nil:
		return nil, nil
	case primitive.DateTime:
		t = v.Time()
	case time.Time:
		t = v
	case primitive.Timestamp:
		t = time.Unix(int64(v.T), 0)
	default:
		return nil, apperrors.NewMalformedRecordError(fmt.Sprintf("field %s has unsupported type %T", key, v))
	}
	s := ISOFormat(t)
	return &s, nil
}
