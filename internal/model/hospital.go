package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// Hospital is the aggregate record. The departments/doctors/patients
// maps are read-optimized projections of the top-level tables, rebuilt
// by the roster sync; the tables remain the source of truth.
type Hospital struct {
	Base
	Name        string        `json:"name" db:"name"`
	Address     string        `json:"address" db:"address"`
	AdminIDs    UUIDList      `json:"admin_ids" db:"admin_ids"`
	Departments DepartmentMap `json:"departments" db:"departments"`
	Doctors     DoctorMap     `json:"doctors" db:"doctors"`
	Patients    PatientMap    `json:"patients" db:"patients"`
}

// DepartmentSummary is the projection entry for a department
type DepartmentSummary struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Head       string    `json:"head"`
	TotalStaff int       `json:"total_staff"`
}

// DoctorSummary is the projection entry for a doctor
type DoctorSummary struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	DepartmentID   uuid.UUID `json:"department_id"`
	Specialization string    `json:"specialization"`
	Status         string    `json:"status"`
}

// PatientSummary is the projection entry for a patient, keyed by
// national ID in the patients map
type PatientSummary struct {
	PatientID    uuid.UUID `json:"patient_id"`
	NationalID   string    `json:"national_id"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registered_at"`
}

type (
	DepartmentMap map[string]DepartmentSummary
	DoctorMap     map[string]DoctorSummary
	PatientMap    map[string]PatientSummary
	UUIDList      []uuid.UUID
)

func (m DepartmentMap) Value() (driver.Value, error) { return marshalJSON(m) }
func (m *DepartmentMap) Scan(src interface{}) error  { return scanJSON(src, m) }

func (m DoctorMap) Value() (driver.Value, error) { return marshalJSON(m) }
func (m *DoctorMap) Scan(src interface{}) error  { return scanJSON(src, m) }

func (m PatientMap) Value() (driver.Value, error) { return marshalJSON(m) }
func (m *PatientMap) Scan(src interface{}) error  { return scanJSON(src, m) }

func (l UUIDList) Value() (driver.Value, error) { return marshalJSON(l) }
func (l *UUIDList) Scan(src interface{}) error  { return scanJSON(src, l) }

type CreateHospitalRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// Roster is the dependent-dropdown payload: a hospital's departments,
// and its doctors optionally narrowed to one department.
type Roster struct {
	HospitalID  uuid.UUID           `json:"hospital_id"`
	Departments []DepartmentSummary `json:"departments"`
	Doctors     []DoctorSummary     `json:"doctors"`
}
