package model

import (
	"database/sql/driver"

	"github.com/google/uuid"
)

type DoctorStatus string

const (
	DoctorStatusActive   DoctorStatus = "active"
	DoctorStatusOnLeave  DoctorStatus = "on_leave"
	DoctorStatusResigned DoctorStatus = "resigned"
	DoctorStatusRetired  DoctorStatus = "retired"
)

func ValidDoctorStatus(s DoctorStatus) bool {
	switch s {
	case DoctorStatusActive, DoctorStatusOnLeave, DoctorStatusResigned, DoctorStatusRetired:
		return true
	}
	return false
}

// Doctor belongs to exactly one hospital and one department
type Doctor struct {
	Base
	UserID          uuid.UUID    `json:"user_id" db:"user_id"`
	HospitalID      uuid.UUID    `json:"hospital_id" db:"hospital_id"`
	DepartmentID    uuid.UUID    `json:"department_id" db:"department_id"`
	Name            string       `json:"name" db:"name"`
	Email           string       `json:"email" db:"email"`
	Phone           string       `json:"phone" db:"phone"`
	Specialization  string       `json:"specialization" db:"specialization"`
	ExperienceYears int          `json:"experience_years" db:"experience_years"`
	Qualifications  StringList   `json:"qualifications" db:"qualifications"`
	Availability    Availability `json:"availability" db:"availability"`
	Status          DoctorStatus `json:"status" db:"status"`
}

type Availability struct {
	Days  []string `json:"days"`
	Slots []string `json:"slots"`
}

type StringList []string

func (a Availability) Value() (driver.Value, error) { return marshalJSON(a) }
func (a *Availability) Scan(src interface{}) error  { return scanJSON(src, a) }

func (l StringList) Value() (driver.Value, error) { return marshalJSON(l) }
func (l *StringList) Scan(src interface{}) error  { return scanJSON(src, l) }

type CreateDoctorRequest struct {
	Name            string       `json:"name" binding:"required"`
	Email           string       `json:"email" binding:"required,email"`
	Phone           string       `json:"phone" binding:"required"`
	DepartmentID    uuid.UUID    `json:"department_id" binding:"required"`
	Specialization  string       `json:"specialization" binding:"required"`
	ExperienceYears int          `json:"experience_years"`
	Qualifications  []string     `json:"qualifications"`
	Availability    Availability `json:"availability"`
}

type UpdateDoctorRequest struct {
	Name            *string       `json:"name"`
	Email           *string       `json:"email" binding:"omitempty,email"`
	Phone           *string       `json:"phone"`
	DepartmentID    *uuid.UUID    `json:"department_id"`
	Specialization  *string       `json:"specialization"`
	ExperienceYears *int          `json:"experience_years"`
	Qualifications  *[]string     `json:"qualifications"`
	Availability    *Availability `json:"availability"`
	Status          *DoctorStatus `json:"status" binding:"omitempty,oneof=active on_leave resigned retired"`
}
