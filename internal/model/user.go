package model

import (
	"time"

	"github.com/google/uuid"
)

// Role constants
const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// User status constants
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusLocked   = "locked"
)

// User represents a system account. Admins and doctors sign in through
// their portals; patient users exist only as global identity records
// keyed by national ID, looked up during registration.
type User struct {
	Base
	Email            string     `json:"email" db:"email"`
	Name             string     `json:"name" db:"name"`
	Password         string     `json:"password,omitempty" db:"-"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	Phone            *string    `json:"phone" db:"phone"`
	NationalID       *string    `json:"national_id,omitempty" db:"national_id"`
	Role             string     `json:"role" db:"role"`
	Status           string     `json:"status" db:"status"`
	HospitalID       *uuid.UUID `json:"hospital_id,omitempty" db:"hospital_id"`
	LastLoginAt      *time.Time `json:"last_login_at" db:"last_login_at"`
	LoginAttempts    int        `json:"-" db:"login_attempts"`
	LastLoginAttempt time.Time  `json:"-" db:"last_login_attempt"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}
