package model

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the intake lifecycle of a registration. It is
// independent of PatientStatus, which tracks ongoing care state.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "Pending"
	RequestStatusApproved RequestStatus = "Approved"
	RequestStatusRejected RequestStatus = "Rejected"
)

type PatientStatus string

const (
	PatientStatusActive   PatientStatus = "Active"
	PatientStatusInactive PatientStatus = "Inactive"
	PatientStatusBlocked  PatientStatus = "Blocked"
)

func ValidPatientStatus(s PatientStatus) bool {
	switch s {
	case PatientStatusActive, PatientStatusInactive, PatientStatusBlocked:
		return true
	}
	return false
}

// Patient is the intake record created through the verified
// registration flow. The hospital projection's patients map entry
// points back at it by ID.
type Patient struct {
	Base
	HospitalID     uuid.UUID     `json:"hospital_id" db:"hospital_id"`
	NationalID     string        `json:"national_id" db:"national_id"`
	Name           string        `json:"name" db:"name"`
	Email          string        `json:"email" db:"email"`
	Phone          string        `json:"phone" db:"phone"`
	DateOfBirth    *time.Time    `json:"date_of_birth" db:"date_of_birth"`
	Gender         string        `json:"gender" db:"gender"`
	Address        string        `json:"address" db:"address"`
	DepartmentID   *uuid.UUID    `json:"department_id" db:"department_id"`
	DoctorID       *uuid.UUID    `json:"doctor_id" db:"doctor_id"`
	RequestStatus  RequestStatus `json:"request_status" db:"request_status"`
	Status         PatientStatus `json:"status" db:"status"`
	MedicalHistory string        `json:"medical_history" db:"medical_history"`
}

// Summary builds the projection entry for the hospital patients map
func (p *Patient) Summary() PatientSummary {
	return PatientSummary{
		PatientID:    p.ID,
		NationalID:   p.NationalID,
		Name:         p.Name,
		Status:       string(p.Status),
		RegisteredAt: p.CreatedAt,
	}
}

// RegisterPatientRequest starts a registration: the national ID is
// looked up in the global user store and an OTP goes to the phone on
// record.
type RegisterPatientRequest struct {
	NationalID string `json:"national_id" binding:"required,len=12,numeric"`
}

// VerifyPatientRequest completes a staged registration
type VerifyPatientRequest struct {
	NationalID     string     `json:"national_id" binding:"required,len=12,numeric"`
	OTP            string     `json:"otp" binding:"required,len=6,numeric"`
	DepartmentID   *uuid.UUID `json:"department_id"`
	DoctorID       *uuid.UUID `json:"doctor_id"`
	Address        string     `json:"address"`
	Gender         string     `json:"gender"`
	MedicalHistory string     `json:"medical_history"`
}

type UpdatePatientRequest struct {
	Name           *string        `json:"name"`
	Email          *string        `json:"email" binding:"omitempty,email"`
	Phone          *string        `json:"phone"`
	DateOfBirth    *time.Time     `json:"date_of_birth"`
	Gender         *string        `json:"gender"`
	Address        *string        `json:"address"`
	DepartmentID   *uuid.UUID     `json:"department_id"`
	DoctorID       *uuid.UUID     `json:"doctor_id"`
	Status         *PatientStatus `json:"status" binding:"omitempty,oneof=Active Inactive Blocked"`
	MedicalHistory *string        `json:"medical_history"`
}

type PatientFilters struct {
	HospitalID   uuid.UUID
	DepartmentID *uuid.UUID
	DoctorID     *uuid.UUID
	Status       PatientStatus
	SearchTerm   string
}
