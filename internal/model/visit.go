package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// Visit is the clinical record attached to exactly one appointment.
// Once finalized it is append-only: no update path exists.
type Visit struct {
	Base
	AppointmentID uuid.UUID        `json:"appointment_id" db:"appointment_id"`
	PatientID     uuid.UUID        `json:"patient_id" db:"patient_id"`
	DoctorID      uuid.UUID        `json:"doctor_id" db:"doctor_id"`
	Vitals        Vitals           `json:"vitals" db:"vitals"`
	LabResults    LabResults       `json:"lab_results" db:"lab_results"`
	Symptoms      StringList       `json:"symptoms" db:"symptoms"`
	Diagnosis     string           `json:"diagnosis" db:"diagnosis"`
	Notes         string           `json:"notes" db:"notes"`
	Allergies     Allergies        `json:"allergies" db:"allergies"`
	Prescriptions PrescriptionList `json:"prescriptions" db:"prescriptions"`
	TestReports   TestReportList   `json:"test_reports" db:"test_reports"`
	FinalizedAt   *time.Time       `json:"finalized_at" db:"finalized_at"`
}

// Vitals mirror the intake form's free-text readings
type Vitals struct {
	BloodPressure    string `json:"blood_pressure"`
	HeartRate        string `json:"heart_rate"`
	Temperature      string `json:"temperature"`
	OxygenSaturation string `json:"oxygen_saturation"`
	RespiratoryRate  string `json:"respiratory_rate"`
}

func (v Vitals) Empty() bool {
	return v == Vitals{}
}

type BloodSugar struct {
	Fasting  string `json:"fasting"`
	PostMeal string `json:"post_meal"`
	Random   string `json:"random"`
}

type Cholesterol struct {
	Total         string `json:"total"`
	HDL           string `json:"hdl"`
	LDL           string `json:"ldl"`
	Triglycerides string `json:"triglycerides"`
}

type LabResults struct {
	BloodSugar  BloodSugar  `json:"blood_sugar"`
	Cholesterol Cholesterol `json:"cholesterol"`
	OtherTests  []LabTest   `json:"other_tests,omitempty"`
}

type LabTest struct {
	Name   string `json:"name"`
	Result string `json:"result"`
}

type Allergies struct {
	Medications []string `json:"medications"`
	Foods       []string `json:"foods"`
	Other       string   `json:"other"`
}

type Prescription struct {
	Medication   string `json:"medication"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions"`
}

// TestReport attachments are metadata references, never inline blobs
type TestReport struct {
	Name        string       `json:"name"`
	Date        string       `json:"date"`
	Result      string       `json:"result"`
	NormalRange string       `json:"normal_range"`
	Notes       string       `json:"notes"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type Attachment struct {
	Name       string `json:"name"`
	StorageURL string `json:"storage_url"`
}

type (
	PrescriptionList []Prescription
	TestReportList   []TestReport
)

func (v Vitals) Value() (driver.Value, error) { return marshalJSON(v) }
func (v *Vitals) Scan(src interface{}) error  { return scanJSON(src, v) }

func (l LabResults) Value() (driver.Value, error) { return marshalJSON(l) }
func (l *LabResults) Scan(src interface{}) error  { return scanJSON(src, l) }

func (a Allergies) Value() (driver.Value, error) { return marshalJSON(a) }
func (a *Allergies) Scan(src interface{}) error  { return scanJSON(src, a) }

func (l PrescriptionList) Value() (driver.Value, error) { return marshalJSON(l) }
func (l *PrescriptionList) Scan(src interface{}) error  { return scanJSON(src, l) }

func (l TestReportList) Value() (driver.Value, error) { return marshalJSON(l) }
func (l *TestReportList) Scan(src interface{}) error  { return scanJSON(src, l) }

type RecordVisitRequest struct {
	Vitals        Vitals         `json:"vitals"`
	LabResults    LabResults     `json:"lab_results"`
	Symptoms      []string       `json:"symptoms"`
	Diagnosis     string         `json:"diagnosis" binding:"required"`
	Notes         string         `json:"notes"`
	Allergies     Allergies      `json:"allergies"`
	Prescriptions []Prescription `json:"prescriptions"`
	TestReports   []TestReport   `json:"test_reports"`
}
