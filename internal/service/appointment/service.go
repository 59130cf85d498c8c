package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/hms-api/internal/email"
	"github.com/medicore/hms-api/internal/model"
	"github.com/medicore/hms-api/internal/repository"
	apperrors "github.com/medicore/hms-api/pkg/errors"
	"github.com/medicore/hms-api/pkg/logger"
)

const dateLayout = "2006-01-02"

type Service struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
	doctorRepo  repository.DoctorRepository
	deptRepo    repository.DepartmentRepository
	outboxRepo  repository.OutboxRepository
	emailSvc    email.Service
	logger      *logger.Logger
}

func NewService(repo repository.AppointmentRepository, patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository, deptRepo repository.DepartmentRepository,
	outboxRepo repository.OutboxRepository, emailSvc email.Service, logger *logger.Logger) *Service {
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		deptRepo:    deptRepo,
		outboxRepo:  outboxRepo,
		emailSvc:    emailSvc,
		logger:      logger,
	}
}

// CreateAppointment books a slot after checking the doctor, department
// and patient all exist in the same hospital and the slot is free.
func (s *Service) CreateAppointment(ctx context.Context, hospitalID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	patient, err := s.patientRepo.Get(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if patient.HospitalID != hospitalID {
		return nil, apperrors.NotFound("patient", nil)
	}
	if patient.Status == model.PatientStatusBlocked {
		return nil, apperrors.Forbidden("patient is blocked from booking", nil)
	}

	doctor, err := s.doctorRepo.Get(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor.HospitalID != hospitalID {
		return nil, apperrors.NotFound("doctor", nil)
	}
	if doctor.Status != model.DoctorStatusActive {
		return nil, apperrors.Validation("doctor is not accepting appointments", nil)
	}
	if doctor.DepartmentID != req.DepartmentID {
		return nil, apperrors.Validation("doctor does not belong to the requested department", nil)
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, apperrors.Validation("invalid appointment date, expected YYYY-MM-DD", err)
	}

	conflict, err := s.repo.HasConflict(ctx, req.DoctorID, req.Date, req.Time, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot availability: %w", err)
	}
	if conflict {
		return nil, apperrors.Conflict("doctor already has an appointment in this slot", nil)
	}

	apptType := req.Type
	if apptType == "" {
		apptType = "regular"
	}

	appointment := &model.Appointment{
		HospitalID:    hospitalID,
		PatientID:     req.PatientID,
		DoctorID:      req.DoctorID,
		DepartmentID:  req.DepartmentID,
		ScheduledDate: date,
		ScheduledTime: req.Time,
		Reason:        req.Reason,
		Type:          apptType,
		Status:        model.AppointmentStatusScheduled,
		Notes:         req.Notes,
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.emitBooked(ctx, appointment)
	s.notify(ctx, patient, doctor, appointment)

	return appointment, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

// UpdateStatus moves an appointment along the transition table. A
// terminal appointment yields a conflict, an unknown target status a
// validation error; neither mutates the record.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentStatusRequest) (*model.Appointment, error) {
	if !req.Status.Valid() {
		return nil, apperrors.Validation("unknown appointment status", nil)
	}

	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if appointment.Status.IsTerminal() {
		return nil, apperrors.Conflict(fmt.Sprintf("appointment is already %s", appointment.Status), nil)
	}
	if !appointment.Status.CanTransitionTo(req.Status) {
		return nil, apperrors.Conflict(
			fmt.Sprintf("cannot move appointment from %s to %s", appointment.Status, req.Status), nil)
	}

	appointment.Status = req.Status
	if req.Status == model.AppointmentStatusCancelled {
		appointment.CancelReason = req.CancelReason
	}

	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}

	s.notifyStatusChange(ctx, appointment)

	return appointment, nil
}

// Reschedule moves a missed or scheduled appointment to a new slot.
// Both the date and the clock time must be supplied together.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, req *model.RescheduleAppointmentRequest) (*model.Appointment, error) {
	if req.Date == "" || req.Time == "" {
		return nil, apperrors.Validation("reschedule requires both a date and a time", nil)
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, apperrors.Validation("invalid appointment date, expected YYYY-MM-DD", err)
	}

	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status.IsTerminal() {
		return nil, apperrors.Conflict(fmt.Sprintf("appointment is already %s", appointment.Status), nil)
	}

	conflict, err := s.repo.HasConflict(ctx, appointment.DoctorID, req.Date, req.Time, &appointment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot availability: %w", err)
	}
	if conflict {
		return nil, apperrors.Conflict("doctor already has an appointment in this slot", nil)
	}

	appointment.ScheduledDate = date
	appointment.ScheduledTime = req.Time
	if appointment.Status == model.AppointmentStatusMissed {
		appointment.Status = model.AppointmentStatusRescheduled
	}

	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to reschedule appointment: %w", err)
	}

	s.notifyStatusChange(ctx, appointment)

	return appointment, nil
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	if filters.Status != "" && !filters.Status.Valid() {
		return nil, apperrors.Validation("unknown appointment status filter", nil)
	}
	return s.repo.List(ctx, filters)
}

func (s *Service) emitBooked(ctx context.Context, appointment *model.Appointment) {
	payload, _ := json.Marshal(appointment)
	if err := s.outboxRepo.Create(ctx, &model.OutboxEvent{
		EventType:  model.EventAppointmentBooked,
		HospitalID: appointment.HospitalID,
		Payload:    payload,
	}); err != nil {
		s.logger.Error(err, "failed to enqueue appointment event", "appointment_id", appointment.ID.String())
	}
}

// Notification failures are logged, never surfaced to the caller
func (s *Service) notify(ctx context.Context, patient *model.Patient, doctor *model.Doctor, appointment *model.Appointment) {
	details := email.AppointmentDetails{
		PatientName: patient.Name,
		DoctorName:  doctor.Name,
		Date:        appointment.ScheduledDate.Format(dateLayout),
		Time:        appointment.ScheduledTime,
		Status:      string(appointment.Status),
	}
	if err := s.emailSvc.SendAppointmentConfirmation(ctx, patient.Email, details); err != nil {
		s.logger.Warn("failed to send appointment confirmation", "appointment_id", appointment.ID.String())
	}
}

func (s *Service) notifyStatusChange(ctx context.Context, appointment *model.Appointment) {
	patient, err := s.patientRepo.Get(ctx, appointment.PatientID)
	if err != nil {
		return
	}
	doctor, err := s.doctorRepo.Get(ctx, appointment.DoctorID)
	if err != nil {
		return
	}
	details := email.AppointmentDetails{
		PatientName: patient.Name,
		DoctorName:  doctor.Name,
		Date:        appointment.ScheduledDate.Format(dateLayout),
		Time:        appointment.ScheduledTime,
		Status:      string(appointment.Status),
	}
	if err := s.emailSvc.SendAppointmentStatusChange(ctx, patient.Email, details); err != nil {
		s.logger.Warn("failed to send status change notification", "appointment_id", appointment.ID.String())
	}
}
