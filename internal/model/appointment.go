package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled   AppointmentStatus = "scheduled"
	AppointmentStatusCompleted   AppointmentStatus = "completed"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
	AppointmentStatusMissed      AppointmentStatus = "missed"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
)

// appointmentTransitions is the single transition table for all
// call sites. Completed and cancelled are terminal.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusScheduled:   {AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusMissed},
	AppointmentStatusMissed:      {AppointmentStatusRescheduled, AppointmentStatusCancelled},
	AppointmentStatusRescheduled: {AppointmentStatusScheduled, AppointmentStatusCancelled},
	AppointmentStatusCompleted:   {},
	AppointmentStatusCancelled:   {},
}

func (s AppointmentStatus) Valid() bool {
	_, ok := appointmentTransitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are accepted
func (s AppointmentStatus) IsTerminal() bool {
	next, ok := appointmentTransitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether s -> to is a legal transition
func (s AppointmentStatus) CanTransitionTo(to AppointmentStatus) bool {
	for _, next := range appointmentTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Appointment links a patient and a doctor. The scheduled date and
// clock time are kept separate; rescheduling must supply both.
type Appointment struct {
	Base
	HospitalID    uuid.UUID         `json:"hospital_id" db:"hospital_id"`
	PatientID     uuid.UUID         `json:"patient_id" db:"patient_id"`
	DoctorID      uuid.UUID         `json:"doctor_id" db:"doctor_id"`
	DepartmentID  uuid.UUID         `json:"department_id" db:"department_id"`
	ScheduledDate time.Time         `json:"scheduled_date" db:"scheduled_date"`
	ScheduledTime string            `json:"scheduled_time" db:"scheduled_time"`
	Reason        string            `json:"reason" db:"reason"`
	Type          string            `json:"type" db:"type"`
	Status        AppointmentStatus `json:"status" db:"status"`
	Notes         string            `json:"notes,omitempty" db:"notes"`
	CancelReason  *string           `json:"cancel_reason,omitempty" db:"cancel_reason"`
}

type CreateAppointmentRequest struct {
	PatientID    uuid.UUID `json:"patient_id" binding:"required"`
	DoctorID     uuid.UUID `json:"doctor_id" binding:"required"`
	DepartmentID uuid.UUID `json:"department_id" binding:"required"`
	Date         string    `json:"date" binding:"required"`
	Time         string    `json:"time" binding:"required,timeslot"`
	Reason       string    `json:"reason"`
	Type         string    `json:"type" binding:"omitempty,oneof=regular followup emergency"`
	Notes        string    `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentStatusRequest struct {
	Status       AppointmentStatus `json:"status" binding:"required"`
	CancelReason *string           `json:"cancel_reason"`
}

// RescheduleAppointmentRequest must carry both fields; the service
// rejects a partial reschedule without touching the record.
type RescheduleAppointmentRequest struct {
	Date string `json:"date"`
	Time string `json:"time" binding:"omitempty,timeslot"`
}

type AppointmentFilters struct {
	HospitalID   uuid.UUID
	DoctorID     *uuid.UUID
	PatientID    *uuid.UUID
	DepartmentID *uuid.UUID
	Status       AppointmentStatus
	StartDate    time.Time
	EndDate      time.Time
}
