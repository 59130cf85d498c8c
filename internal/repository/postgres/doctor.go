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

type doctorRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

const doctorColumns = `id, user_id, hospital_id, department_id, name, email, phone,
	   specialization, experience_years, qualifications, availability,
	   status, created_at, updated_at`

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			id, user_id, hospital_id, department_id, name, email, phone,
			specialization, experience_years, qualifications, availability,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.UserID,
		doctor.HospitalID,
		doctor.DepartmentID,
		doctor.Name,
		doctor.Email,
		doctor.Phone,
		doctor.Specialization,
		doctor.ExperienceYears,
		doctor.Qualifications,
		doctor.Availability,
		doctor.Status,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := fmt.Sprintf(`SELECT %s FROM doctors WHERE id = $1 AND deleted_at IS NULL`, doctorColumns)

	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	query := fmt.Sprintf(`SELECT %s FROM doctors WHERE user_id = $1 AND deleted_at IS NULL`, doctorColumns)

	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor by user id: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors
		SET department_id = $1, name = $2, email = $3, phone = $4,
			specialization = $5, experience_years = $6, qualifications = $7,
			availability = $8, status = $9, updated_at = $10
		WHERE id = $11 AND deleted_at IS NULL
	`
	doctor.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		doctor.DepartmentID,
		doctor.Name,
		doctor.Email,
		doctor.Phone,
		doctor.Specialization,
		doctor.ExperienceYears,
		doctor.Qualifications,
		doctor.Availability,
		doctor.Status,
		doctor.UpdatedAt,
		doctor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("doctor", nil)
	}
	return nil
}

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE doctors
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("doctor", nil)
	}
	return nil
}

func (r *doctorRepository) List(ctx context.Context, hospitalID uuid.UUID) ([]*model.Doctor, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM doctors
		WHERE hospital_id = $1 AND deleted_at IS NULL
		ORDER BY name ASC
	`, doctorColumns)

	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query, hospitalID); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) ListByDepartment(ctx context.Context, hospitalID, departmentID uuid.UUID) ([]*model.Doctor, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM doctors
		WHERE hospital_id = $1 AND department_id = $2 AND deleted_at IS NULL
		ORDER BY name ASC
	`, doctorColumns)

	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query, hospitalID, departmentID); err != nil {
		return nil, fmt.Errorf("failed to list doctors by department: %w", err)
	}
	return doctors, nil
}
