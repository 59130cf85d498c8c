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

type departmentRepository struct {
	db *sqlx.DB
}

func NewDepartmentRepository(db *sqlx.DB) repository.DepartmentRepository {
	return &departmentRepository{db: db}
}

const departmentColumns = `id, hospital_id, name, head, total_doctors, total_nurses,
	   support_staff, total_staff, key_staff, facilities,
	   operational_hours, metrics, created_at, updated_at`

func (r *departmentRepository) Create(ctx context.Context, department *model.Department) error {
	query := `
		INSERT INTO departments (
			id, hospital_id, name, head, total_doctors, total_nurses,
			support_staff, total_staff, key_staff, facilities,
			operational_hours, metrics, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	if department.ID == uuid.Nil {
		department.ID = uuid.New()
	}
	department.CreatedAt = time.Now()
	department.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		department.ID,
		department.HospitalID,
		department.Name,
		department.Head,
		department.TotalDoctors,
		department.TotalNurses,
		department.SupportStaff,
		department.TotalStaff,
		department.KeyStaff,
		department.Facilities,
		department.OperationalHours,
		department.Metrics,
		department.CreatedAt,
		department.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}
	return nil
}

func (r *departmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	query := fmt.Sprintf(`SELECT %s FROM departments WHERE id = $1 AND deleted_at IS NULL`, departmentColumns)

	var department model.Department
	if err := r.db.GetContext(ctx, &department, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("department", err)
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return &department, nil
}

func (r *departmentRepository) Update(ctx context.Context, department *model.Department) error {
	query := `
		UPDATE departments
		SET name = $1, head = $2, total_doctors = $3, total_nurses = $4,
			support_staff = $5, total_staff = $6, key_staff = $7,
			facilities = $8, operational_hours = $9, metrics = $10,
			updated_at = $11
		WHERE id = $12 AND deleted_at IS NULL
	`
	department.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		department.Name,
		department.Head,
		department.TotalDoctors,
		department.TotalNurses,
		department.SupportStaff,
		department.TotalStaff,
		department.KeyStaff,
		department.Facilities,
		department.OperationalHours,
		department.Metrics,
		department.UpdatedAt,
		department.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update department: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("department", nil)
	}
	return nil
}

func (r *departmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE departments
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("department", nil)
	}
	return nil
}

func (r *departmentRepository) List(ctx context.Context, hospitalID uuid.UUID) ([]*model.Department, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM departments
		WHERE hospital_id = $1 AND deleted_at IS NULL
		ORDER BY name ASC
	`, departmentColumns)

	var departments []*model.Department
	if err := r.db.SelectContext(ctx, &departments, query, hospitalID); err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}
