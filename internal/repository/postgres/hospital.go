package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medicore/hms-api/internal/model"
	"github.com/medicore/hms-api/internal/repository"
	apperrors "github.com/medicore/hms-api/pkg/errors"
)

type hospitalRepository struct {
	db *sqlx.DB
}

func NewHospitalRepository(db *sqlx.DB) repository.HospitalRepository {
	return &hospitalRepository{db: db}
}

const hospitalColumns = `id, name, address, admin_ids, departments, doctors, patients, created_at, updated_at`

func (r *hospitalRepository) Create(ctx context.Context, hospital *model.Hospital) error {
	query := `
		INSERT INTO hospitals (
			id, name, address, admin_ids, departments, doctors, patients,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if hospital.ID == uuid.Nil {
		hospital.ID = uuid.New()
	}
	if hospital.Departments == nil {
		hospital.Departments = model.DepartmentMap{}
	}
	if hospital.Doctors == nil {
		hospital.Doctors = model.DoctorMap{}
	}
	if hospital.Patients == nil {
		hospital.Patients = model.PatientMap{}
	}
	hospital.CreatedAt = time.Now()
	hospital.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		hospital.ID,
		hospital.Name,
		hospital.Address,
		hospital.AdminIDs,
		hospital.Departments,
		hospital.Doctors,
		hospital.Patients,
		hospital.CreatedAt,
		hospital.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create hospital: %w", err)
	}
	return nil
}

func (r *hospitalRepository) Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	query := fmt.Sprintf(`SELECT %s FROM hospitals WHERE id = $1 AND deleted_at IS NULL`, hospitalColumns)

	var hospital model.Hospital
	if err := r.db.GetContext(ctx, &hospital, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("hospital", err)
		}
		return nil, fmt.Errorf("failed to get hospital: %w", err)
	}
	return &hospital, nil
}

func (r *hospitalRepository) GetByName(ctx context.Context, name string) (*model.Hospital, error) {
	query := fmt.Sprintf(`SELECT %s FROM hospitals WHERE name = $1 AND deleted_at IS NULL`, hospitalColumns)

	var hospital model.Hospital
	if err := r.db.GetContext(ctx, &hospital, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("hospital", err)
		}
		return nil, fmt.Errorf("failed to get hospital by name: %w", err)
	}
	return &hospital, nil
}

func (r *hospitalRepository) Update(ctx context.Context, hospital *model.Hospital) error {
	query := `
		UPDATE hospitals
		SET name = $1, address = $2, admin_ids = $3, updated_at = $4
		WHERE id = $5 AND deleted_at IS NULL
	`
	hospital.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		hospital.Name,
		hospital.Address,
		hospital.AdminIDs,
		hospital.UpdatedAt,
		hospital.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update hospital: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("hospital", nil)
	}
	return nil
}

func (r *hospitalRepository) List(ctx context.Context) ([]*model.Hospital, error) {
	query := fmt.Sprintf(`SELECT %s FROM hospitals WHERE deleted_at IS NULL ORDER BY name ASC`, hospitalColumns)

	var hospitals []*model.Hospital
	if err := r.db.SelectContext(ctx, &hospitals, query); err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}
	return hospitals, nil
}

// RebuildProjection recomputes the embedded maps from the top-level
// tables. It locks the aggregate row so concurrent rebuilds serialize.
func (r *hospitalRepository) RebuildProjection(ctx context.Context, hospitalID uuid.UUID) (*model.Hospital, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var hospital model.Hospital
	query := fmt.Sprintf(`SELECT %s FROM hospitals WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, hospitalColumns)
	if err := tx.GetContext(ctx, &hospital, query, hospitalID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("hospital", err)
		}
		return nil, fmt.Errorf("failed to lock hospital: %w", err)
	}

	departments, err := projectDepartments(ctx, tx, hospitalID)
	if err != nil {
		return nil, err
	}
	doctors, err := projectDoctors(ctx, tx, hospitalID)
	if err != nil {
		return nil, err
	}
	patients, err := projectPatients(ctx, tx, hospitalID)
	if err != nil {
		return nil, err
	}

	hospital.Departments = departments
	hospital.Doctors = doctors
	hospital.Patients = patients
	hospital.UpdatedAt = time.Now()

	_, err = tx.ExecContext(ctx, `
		UPDATE hospitals
		SET departments = $1, doctors = $2, patients = $3, updated_at = $4
		WHERE id = $5
	`, hospital.Departments, hospital.Doctors, hospital.Patients, hospital.UpdatedAt, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("failed to store projection: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit projection: %w", err)
	}
	return &hospital, nil
}

func projectDepartments(ctx context.Context, tx *sqlx.Tx, hospitalID uuid.UUID) (model.DepartmentMap, error) {
	var departments []*model.Department
	err := tx.SelectContext(ctx, &departments, `
		SELECT id, hospital_id, name, head, total_doctors, total_nurses,
			   support_staff, total_staff, key_staff, facilities,
			   operational_hours, metrics, created_at, updated_at
		FROM departments
		WHERE hospital_id = $1 AND deleted_at IS NULL
	`, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("failed to project departments: %w", err)
	}

	projection := model.DepartmentMap{}
	for _, d := range departments {
		projection[d.ID.String()] = model.DepartmentSummary{
			ID:         d.ID,
			Name:       d.Name,
			Head:       d.Head.Name,
			TotalStaff: d.TotalStaff,
		}
	}
	return projection, nil
}

func projectDoctors(ctx context.Context, tx *sqlx.Tx, hospitalID uuid.UUID) (model.DoctorMap, error) {
	var doctors []*model.Doctor
	err := tx.SelectContext(ctx, &doctors, `
		SELECT id, user_id, hospital_id, department_id, name, email, phone,
			   specialization, experience_years, qualifications, availability,
			   status, created_at, updated_at
		FROM doctors
		WHERE hospital_id = $1 AND deleted_at IS NULL
	`, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("failed to project doctors: %w", err)
	}

	projection := model.DoctorMap{}
	for _, d := range doctors {
		projection[d.ID.String()] = model.DoctorSummary{
			ID:             d.ID,
			Name:           d.Name,
			DepartmentID:   d.DepartmentID,
			Specialization: d.Specialization,
			Status:         string(d.Status),
		}
	}
	return projection, nil
}

func projectPatients(ctx context.Context, tx *sqlx.Tx, hospitalID uuid.UUID) (model.PatientMap, error) {
	var patients []*model.Patient
	err := tx.SelectContext(ctx, &patients, `
		SELECT id, hospital_id, national_id, name, email, phone,
			   date_of_birth, gender, address, department_id, doctor_id,
			   request_status, status, medical_history, created_at, updated_at
		FROM patients
		WHERE hospital_id = $1 AND deleted_at IS NULL
	`, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("failed to project patients: %w", err)
	}

	projection := model.PatientMap{}
	for _, p := range patients {
		projection[p.NationalID] = p.Summary()
	}
	return projection, nil
}
