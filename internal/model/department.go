package model

import (
	"database/sql/driver"

	"github.com/google/uuid"
)

// Department belongs to exactly one hospital. Doctors and patients
// reference it by ID, never by name.
type Department struct {
	Base
	HospitalID       uuid.UUID         `json:"hospital_id" db:"hospital_id"`
	Name             string            `json:"name" db:"name"`
	Head             DepartmentHead    `json:"head" db:"head"`
	TotalDoctors     int               `json:"total_doctors" db:"total_doctors"`
	TotalNurses      int               `json:"total_nurses" db:"total_nurses"`
	SupportStaff     int               `json:"support_staff" db:"support_staff"`
	TotalStaff       int               `json:"total_staff" db:"total_staff"`
	KeyStaff         StaffList         `json:"key_staff" db:"key_staff"`
	Facilities       Facilities        `json:"facilities" db:"facilities"`
	OperationalHours OperationalHours  `json:"operational_hours" db:"operational_hours"`
	Metrics          DepartmentMetrics `json:"metrics" db:"metrics"`
}

type DepartmentHead struct {
	Name           string `json:"name"`
	Contact        string `json:"contact"`
	YearsOfService int    `json:"years_of_service"`
	Specialization string `json:"specialization"`
}

type StaffMember struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type Facilities struct {
	Equipment       []string `json:"equipment"`
	SpecialAreas    []string `json:"special_areas"`
	OngoingProjects []string `json:"ongoing_projects"`
}

type OperationalHours struct {
	Weekdays string `json:"weekdays"`
	Weekends string `json:"weekends"`
}

type DepartmentMetrics struct {
	SuccessRate   float64 `json:"success_rate"`
	TurnoverDays  float64 `json:"turnover_days"`
	FeedbackScore float64 `json:"feedback_score"`
}

type StaffList []StaffMember

func (h DepartmentHead) Value() (driver.Value, error) { return marshalJSON(h) }
func (h *DepartmentHead) Scan(src interface{}) error  { return scanJSON(src, h) }

func (l StaffList) Value() (driver.Value, error) { return marshalJSON(l) }
func (l *StaffList) Scan(src interface{}) error  { return scanJSON(src, l) }

func (f Facilities) Value() (driver.Value, error) { return marshalJSON(f) }
func (f *Facilities) Scan(src interface{}) error  { return scanJSON(src, f) }

func (o OperationalHours) Value() (driver.Value, error) { return marshalJSON(o) }
func (o *OperationalHours) Scan(src interface{}) error  { return scanJSON(src, o) }

func (m DepartmentMetrics) Value() (driver.Value, error) { return marshalJSON(m) }
func (m *DepartmentMetrics) Scan(src interface{}) error  { return scanJSON(src, m) }

type CreateDepartmentRequest struct {
	Name             string            `json:"name" binding:"required"`
	Head             DepartmentHead    `json:"head"`
	TotalDoctors     int               `json:"total_doctors"`
	TotalNurses      int               `json:"total_nurses"`
	SupportStaff     int               `json:"support_staff"`
	KeyStaff         []StaffMember     `json:"key_staff"`
	Facilities       Facilities        `json:"facilities"`
	OperationalHours OperationalHours  `json:"operational_hours"`
	Metrics          DepartmentMetrics `json:"metrics"`
}

type UpdateDepartmentRequest struct {
	Name             *string            `json:"name"`
	Head             *DepartmentHead    `json:"head"`
	TotalDoctors     *int               `json:"total_doctors"`
	TotalNurses      *int               `json:"total_nurses"`
	SupportStaff     *int               `json:"support_staff"`
	TotalStaff       *int               `json:"total_staff"`
	KeyStaff         *[]StaffMember     `json:"key_staff"`
	Facilities       *Facilities        `json:"facilities"`
	OperationalHours *OperationalHours  `json:"operational_hours"`
	Metrics          *DepartmentMetrics `json:"metrics"`
}
