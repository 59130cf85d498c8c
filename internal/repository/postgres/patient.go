package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medicore/hms-api/internal/model"
	"github.com/medicore/hms-api/internal/repository"
	apperrors "github.com/medicore/hms-api/pkg/errors"
)

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

const patientColumns = `id, hospital_id, national_id, name, email, phone,
	   date_of_birth, gender, address, department_id, doctor_id,
	   request_status, status, medical_history, created_at, updated_at`

// Register persists the intake record and the hospital projection
// entry in one transaction.
func (r *patientRepository) Register(ctx context.Context, patient *model.Patient) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO patients (
			id, hospital_id, national_id, name, email, phone,
			date_of_birth, gender, address, department_id, doctor_id,
			request_status, status, medical_history, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`,
		patient.ID,
		patient.HospitalID,
		patient.NationalID,
		patient.Name,
		patient.Email,
		patient.Phone,
		patient.DateOfBirth,
		patient.Gender,
		patient.Address,
		patient.DepartmentID,
		patient.DoctorID,
		patient.RequestStatus,
		patient.Status,
		patient.MedicalHistory,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}

	if err := upsertPatientProjection(ctx, tx, patient); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit registration: %w", err)
	}
	return nil
}

func upsertPatientProjection(ctx context.Context, tx *sqlx.Tx, patient *model.Patient) error {
	summary, err := json.Marshal(patient.Summary())
	if err != nil {
		return fmt.Errorf("failed to marshal patient summary: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE hospitals
		SET patients = jsonb_set(patients, ARRAY[$1], $2::jsonb, true),
			updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
	`, patient.NationalID, summary, time.Now(), patient.HospitalID)
	if err != nil {
		return fmt.Errorf("failed to update hospital patients projection: %w", err)
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

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := fmt.Sprintf(`SELECT %s FROM patients WHERE id = $1 AND deleted_at IS NULL`, patientColumns)

	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByNationalID(ctx context.Context, hospitalID uuid.UUID, nationalID string) (*model.Patient, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM patients
		WHERE hospital_id = $1 AND national_id = $2 AND deleted_at IS NULL
	`, patientColumns)

	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, hospitalID, nationalID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient by national id: %w", err)
	}
	return &patient, nil
}

// Update rewrites the mutable fields and keeps the projection entry in
// step inside the same transaction.
func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	patient.UpdatedAt = time.Now()

	result, err := tx.ExecContext(ctx, `
		UPDATE patients
		SET name = $1, email = $2, phone = $3, date_of_birth = $4,
			gender = $5, address = $6, department_id = $7, doctor_id = $8,
			request_status = $9, status = $10, medical_history = $11,
			updated_at = $12
		WHERE id = $13 AND deleted_at IS NULL
	`,
		patient.Name,
		patient.Email,
		patient.Phone,
		patient.DateOfBirth,
		patient.Gender,
		patient.Address,
		patient.DepartmentID,
		patient.DoctorID,
		patient.RequestStatus,
		patient.Status,
		patient.MedicalHistory,
		patient.UpdatedAt,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("patient", nil)
	}

	if err := upsertPatientProjection(ctx, tx, patient); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit patient update: %w", err)
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM patients
		WHERE hospital_id = $1 AND deleted_at IS NULL
	`, patientColumns)
	args := []interface{}{filters.HospitalID}
	argCount := 2

	if filters.DepartmentID != nil {
		query += fmt.Sprintf(" AND department_id = $%d", argCount)
		args = append(args, *filters.DepartmentID)
		argCount++
	}

	if filters.DoctorID != nil {
		query += fmt.Sprintf(" AND doctor_id = $%d", argCount)
		args = append(args, *filters.DoctorID)
		argCount++
	}

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	if filters.SearchTerm != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR national_id LIKE $%d)", argCount, argCount)
		args = append(args, "%"+filters.SearchTerm+"%")
		argCount++
	}

	query += " ORDER BY created_at DESC"

	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}
