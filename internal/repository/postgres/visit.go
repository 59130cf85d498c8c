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

type visitRepository struct {
	db *sqlx.DB
}

func NewVisitRepository(db *sqlx.DB) repository.VisitRepository {
	return &visitRepository{db: db}
}

const visitColumns = `id, appointment_id, patient_id, doctor_id, vitals,
	   lab_results, symptoms, diagnosis, notes, allergies,
	   prescriptions, test_reports, finalized_at, created_at, updated_at`

// Finalize stores the visit and completes its appointment in one
// transaction. Visits have no update path after this.
func (r *visitRepository) Finalize(ctx context.Context, visit *model.Visit) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if visit.ID == uuid.Nil {
		visit.ID = uuid.New()
	}
	now := time.Now()
	visit.CreatedAt = now
	visit.UpdatedAt = now
	visit.FinalizedAt = &now

	_, err = tx.ExecContext(ctx, `
		INSERT INTO visits (
			id, appointment_id, patient_id, doctor_id, vitals,
			lab_results, symptoms, diagnosis, notes, allergies,
			prescriptions, test_reports, finalized_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		visit.ID,
		visit.AppointmentID,
		visit.PatientID,
		visit.DoctorID,
		visit.Vitals,
		visit.LabResults,
		visit.Symptoms,
		visit.Diagnosis,
		visit.Notes,
		visit.Allergies,
		visit.Prescriptions,
		visit.TestReports,
		visit.FinalizedAt,
		visit.CreatedAt,
		visit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create visit: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
	`, model.AppointmentStatusCompleted, now, visit.AppointmentID)
	if err != nil {
		return fmt.Errorf("failed to complete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit visit: %w", err)
	}
	return nil
}

func (r *visitRepository) Get(ctx context.Context, id uuid.UUID) (*model.Visit, error) {
	query := fmt.Sprintf(`SELECT %s FROM visits WHERE id = $1 AND deleted_at IS NULL`, visitColumns)

	var visit model.Visit
	if err := r.db.GetContext(ctx, &visit, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("visit", err)
		}
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}
	return &visit, nil
}

func (r *visitRepository) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*model.Visit, error) {
	query := fmt.Sprintf(`SELECT %s FROM visits WHERE appointment_id = $1 AND deleted_at IS NULL`, visitColumns)

	var visit model.Visit
	if err := r.db.GetContext(ctx, &visit, query, appointmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("visit", err)
		}
		return nil, fmt.Errorf("failed to get visit by appointment: %w", err)
	}
	return &visit, nil
}

func (r *visitRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Visit, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM visits
		WHERE patient_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`, visitColumns)

	var visits []*model.Visit
	if err := r.db.SelectContext(ctx, &visits, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, nil
}
