package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// Roster-affecting event types consumed by the projection sync worker
const (
	EventDepartmentChanged = "DEPARTMENT_CHANGED"
	EventDoctorChanged     = "DOCTOR_CHANGED"
	EventPatientRegistered = "PATIENT_REGISTERED"
	EventPatientChanged    = "PATIENT_CHANGED"
	EventAppointmentBooked = "APPOINTMENT_BOOKED"
)

type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	HospitalID   uuid.UUID       `db:"hospital_id" json:"hospital_id"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}
