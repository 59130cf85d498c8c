package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/medicore/hms-api/internal/model"
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		GetByNationalID(ctx context.Context, nationalID string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
	}

	HospitalRepository interface {
		Create(ctx context.Context, hospital *model.Hospital) error
		Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error)
		GetByName(ctx context.Context, name string) (*model.Hospital, error)
		Update(ctx context.Context, hospital *model.Hospital) error
		List(ctx context.Context) ([]*model.Hospital, error)
		// RebuildProjection recomputes the embedded department/doctor/
		// patient maps from the top-level tables and stores them on the
		// aggregate row.
		RebuildProjection(ctx context.Context, hospitalID uuid.UUID) (*model.Hospital, error)
	}

	DepartmentRepository interface {
		Create(ctx context.Context, department *model.Department) error
		Get(ctx context.Context, id uuid.UUID) (*model.Department, error)
		Update(ctx context.Context, department *model.Department) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, hospitalID uuid.UUID) ([]*model.Department, error)
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, hospitalID uuid.UUID) ([]*model.Doctor, error)
		ListByDepartment(ctx context.Context, hospitalID, departmentID uuid.UUID) ([]*model.Doctor, error)
	}

	PatientRepository interface {
		// Register inserts the intake record and the hospital
		// projection entry in one transaction.
		Register(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByNationalID(ctx context.Context, hospitalID uuid.UUID, nationalID string) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		HasConflict(ctx context.Context, doctorID uuid.UUID, date string, slot string, excludeID *uuid.UUID) (bool, error)
	}

	VisitRepository interface {
		// Finalize inserts the visit and completes its appointment in
		// one transaction.
		Finalize(ctx context.Context, visit *model.Visit) error
		Get(ctx context.Context, id uuid.UUID) (*model.Visit, error)
		GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*model.Visit, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Visit, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	}
)
