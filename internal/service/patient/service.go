package patient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/medicore/hms-api/internal/model"
	"github.com/medicore/hms-api/internal/otp"
	"github.com/medicore/hms-api/internal/repository"
	apperrors "github.com/medicore/hms-api/pkg/errors"
)

// Staged registrations expire if the OTP is not confirmed in time
const (
	stagingTTL     = 10 * time.Minute
	stagingCleanup = 15 * time.Minute
)

type stagedRegistration struct {
	HospitalID uuid.UUID
	NationalID string
	Name       string
	Email      string
	Phone      string
}

type Service struct {
	repo       repository.PatientRepository
	userRepo   repository.UserRepository
	outboxRepo repository.OutboxRepository
	otpSender  otp.Sender
	staged     *gocache.Cache
}

func NewService(repo repository.PatientRepository, userRepo repository.UserRepository,
	outboxRepo repository.OutboxRepository, otpSender otp.Sender) *Service {
	return &Service{
		repo:       repo,
		userRepo:   userRepo,
		outboxRepo: outboxRepo,
		otpSender:  otpSender,
		staged:     gocache.New(stagingTTL, stagingCleanup),
	}
}

// InitiateRegistration looks the national ID up in the global user
// store, stages the registration, and sends an OTP to the phone on
// record. Unknown identifiers fail; no silent account creation.
func (s *Service) InitiateRegistration(ctx context.Context, hospitalID uuid.UUID, nationalID string) error {
	if existing, err := s.repo.GetByNationalID(ctx, hospitalID, nationalID); err == nil && existing != nil {
		return apperrors.Conflict("patient already registered at this hospital", nil)
	}

	user, err := s.userRepo.GetByNationalID(ctx, nationalID)
	if err != nil {
		return apperrors.NotFound("registered user", err)
	}
	if user.Phone == nil || *user.Phone == "" {
		return apperrors.Validation("user has no phone on record", nil)
	}

	if err := s.otpSender.Send(ctx, *user.Phone); err != nil {
		return err
	}

	s.staged.Set(stagingKey(hospitalID, nationalID), &stagedRegistration{
		HospitalID: hospitalID,
		NationalID: nationalID,
		Name:       user.Name,
		Email:      user.Email,
		Phone:      *user.Phone,
	}, gocache.DefaultExpiration)

	return nil
}

// CompleteRegistration verifies the OTP and persists the intake record
// together with the hospital projection entry in one transaction.
func (s *Service) CompleteRegistration(ctx context.Context, hospitalID uuid.UUID, req *model.VerifyPatientRequest) (*model.Patient, error) {
	key := stagingKey(hospitalID, req.NationalID)
	cached, ok := s.staged.Get(key)
	if !ok {
		return nil, apperrors.Validation("no pending registration for this identifier", nil)
	}
	staged := cached.(*stagedRegistration)

	if err := s.otpSender.Verify(ctx, staged.Phone, req.OTP); err != nil {
		return nil, err
	}

	patient := &model.Patient{
		HospitalID:     hospitalID,
		NationalID:     staged.NationalID,
		Name:           staged.Name,
		Email:          staged.Email,
		Phone:          staged.Phone,
		Gender:         req.Gender,
		Address:        req.Address,
		DepartmentID:   req.DepartmentID,
		DoctorID:       req.DoctorID,
		RequestStatus:  model.RequestStatusApproved,
		Status:         model.PatientStatusActive,
		MedicalHistory: req.MedicalHistory,
	}

	if err := s.repo.Register(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to register patient: %w", err)
	}

	s.staged.Delete(key)

	payload, _ := json.Marshal(patient)
	_ = s.outboxRepo.Create(ctx, &model.OutboxEvent{
		EventType:  model.EventPatientRegistered,
		HospitalID: hospitalID,
		Payload:    payload,
	})

	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		if !model.ValidPatientStatus(*req.Status) {
			return nil, apperrors.Validation("invalid patient status", nil)
		}
		patient.Status = *req.Status
	}

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.DateOfBirth != nil {
		patient.DateOfBirth = req.DateOfBirth
	}
	if req.Gender != nil {
		patient.Gender = *req.Gender
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.DepartmentID != nil {
		patient.DepartmentID = req.DepartmentID
	}
	if req.DoctorID != nil {
		patient.DoctorID = req.DoctorID
	}
	if req.MedicalHistory != nil {
		patient.MedicalHistory = *req.MedicalHistory
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}

	payload, _ := json.Marshal(patient)
	_ = s.outboxRepo.Create(ctx, &model.OutboxEvent{
		EventType:  model.EventPatientChanged,
		HospitalID: patient.HospitalID,
		Payload:    payload,
	})

	return patient, nil
}

func (s *Service) ListPatients(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	return s.repo.List(ctx, filters)
}

func stagingKey(hospitalID uuid.UUID, nationalID string) string {
	return hospitalID.String() + ":" + nationalID
}
