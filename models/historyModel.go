package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// History is a medical history document as stored in the histories collection.
type History struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	PatientEmail string             `bson:"patient_email"`
	DoctorID     string             `bson:"doctor_id"`
	Diagnosis    string             `bson:"diagnosis"`
	Treatment    *string            `bson:"treatment"`
	Notes        *string            `bson:"notes"`
	CreatedAt    time.Time          `bson:"created_at"`
}

// HistoryCreate is the create request. doctor_id and diagnosis must be
// present but may be empty.
type HistoryCreate struct {
	PatientEmail string  `json:"patient_email" validate:"required,email"`
	DoctorID     *string `json:"doctor_id" validate:"required"`
	Diagnosis    *string `json:"diagnosis" validate:"required"`
	Treatment    *string `json:"treatment"`
	Notes        *string `json:"notes"`
}

// Document builds the stored form of a validated request, stamped with
// createdAt in UTC.
func (h HistoryCreate) Document(createdAt time.Time) History {
	return History{
		PatientEmail: h.PatientEmail,
		DoctorID:     *h.DoctorID,
		Diagnosis:    *h.Diagnosis,
		Treatment:    h.Treatment,
		Notes:        h.Notes,
		CreatedAt:    createdAt.UTC(),
	}
}

// HistoryOut is the wire form of a stored history. Every field is always
// emitted; absent values encode as null.
type HistoryOut struct {
	ID           string  `json:"id"`
	PatientEmail *string `json:"patient_email"`
	DoctorID     *string `json:"doctor_id"`
	Diagnosis    *string `json:"diagnosis"`
	Treatment    *string `json:"treatment"`
	Notes        *string `json:"notes"`
	CreatedAt    *string `json:"created_at"`
}
