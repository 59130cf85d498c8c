package visit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/hms-api/internal/model"
	"github.com/medicore/hms-api/internal/repository"
	apperrors "github.com/medicore/hms-api/pkg/errors"
)

type Service struct {
	repo     repository.VisitRepository
	apptRepo repository.AppointmentRepository
}

func NewService(repo repository.VisitRepository, apptRepo repository.AppointmentRepository) *Service {
	return &Service{repo: repo, apptRepo: apptRepo}
}

// RecordVisit finalizes a clinical record against an open appointment.
// The visit insert and the completed status land in one transaction;
// a visit cannot be recorded twice for the same appointment.
func (s *Service) RecordVisit(ctx context.Context, appointmentID, doctorID uuid.UUID, req *model.RecordVisitRequest) (*model.Visit, error) {
	if strings.TrimSpace(req.Diagnosis) == "" {
		return nil, apperrors.Validation("diagnosis is required", nil)
	}

	appointment, err := s.apptRepo.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.Status.IsTerminal() {
		return nil, apperrors.Conflict(fmt.Sprintf("appointment is already %s", appointment.Status), nil)
	}
	if !appointment.Status.CanTransitionTo(model.AppointmentStatusCompleted) {
		return nil, apperrors.Conflict(
			fmt.Sprintf("appointment in status %s cannot be completed", appointment.Status), nil)
	}
	if appointment.DoctorID != doctorID {
		return nil, apperrors.Forbidden("visit must be recorded by the attending doctor", nil)
	}

	if existing, err := s.repo.GetByAppointment(ctx, appointmentID); err == nil && existing != nil {
		return nil, apperrors.Conflict("appointment already has a recorded visit", nil)
	}

	now := time.Now().UTC()
	visit := &model.Visit{
		AppointmentID: appointmentID,
		PatientID:     appointment.PatientID,
		DoctorID:      appointment.DoctorID,
		Vitals:        req.Vitals,
		LabResults:    req.LabResults,
		Symptoms:      req.Symptoms,
		Diagnosis:     req.Diagnosis,
		Notes:         req.Notes,
		Allergies:     req.Allergies,
		Prescriptions: req.Prescriptions,
		TestReports:   req.TestReports,
		FinalizedAt:   &now,
	}

	if err := s.repo.Finalize(ctx, visit); err != nil {
		return nil, fmt.Errorf("failed to finalize visit: %w", err)
	}

	return visit, nil
}

func (s *Service) GetVisit(ctx context.Context, id uuid.UUID) (*model.Visit, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetVisitByAppointment(ctx context.Context, appointmentID uuid.UUID) (*model.Visit, error) {
	return s.repo.GetByAppointment(ctx, appointmentID)
}

// PatientHistory returns all finalized visits for one patient, newest
// first as the repository orders them.
func (s *Service) PatientHistory(ctx context.Context, patientID uuid.UUID) ([]*model.Visit, error) {
	return s.repo.ListByPatient(ctx, patientID)
}
