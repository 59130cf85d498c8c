package doctor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/medicore/hms-api/internal/model"
	"github.com/medicore/hms-api/internal/repository"
	"github.com/medicore/hms-api/internal/service/hospital"
	apperrors "github.com/medicore/hms-api/pkg/errors"
)

type Service struct {
	repo        repository.DoctorRepository
	deptRepo    repository.DepartmentRepository
	hospitalSvc *hospital.Service
	outboxRepo  repository.OutboxRepository
}

func NewService(repo repository.DoctorRepository, deptRepo repository.DepartmentRepository,
	hospitalSvc *hospital.Service, outboxRepo repository.OutboxRepository) *Service {
	return &Service{
		repo:        repo,
		deptRepo:    deptRepo,
		hospitalSvc: hospitalSvc,
		outboxRepo:  outboxRepo,
	}
}

func (s *Service) CreateDoctor(ctx context.Context, doctor *model.Doctor) error {
	dept, err := s.deptRepo.Get(ctx, doctor.DepartmentID)
	if err != nil {
		return err
	}
	if dept.HospitalID != doctor.HospitalID {
		return apperrors.Validation("department belongs to a different hospital", nil)
	}

	if doctor.Status == "" {
		doctor.Status = model.DoctorStatusActive
	}
	if !model.ValidDoctorStatus(doctor.Status) {
		return apperrors.Validation("invalid doctor status", nil)
	}

	if err := s.repo.Create(ctx, doctor); err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}

	s.syncProjection(ctx, doctor)
	return nil
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetDoctorByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *Service) UpdateDoctor(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DepartmentID != nil && *req.DepartmentID != doctor.DepartmentID {
		dept, err := s.deptRepo.Get(ctx, *req.DepartmentID)
		if err != nil {
			return nil, err
		}
		if dept.HospitalID != doctor.HospitalID {
			return nil, apperrors.Validation("department belongs to a different hospital", nil)
		}
		doctor.DepartmentID = *req.DepartmentID
	}

	if req.Status != nil {
		if !model.ValidDoctorStatus(*req.Status) {
			return nil, apperrors.Validation("invalid doctor status", nil)
		}
		doctor.Status = *req.Status
	}

	if req.Name != nil {
		doctor.Name = *req.Name
	}
	if req.Email != nil {
		doctor.Email = *req.Email
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}
	if req.Specialization != nil {
		doctor.Specialization = *req.Specialization
	}
	if req.ExperienceYears != nil {
		doctor.ExperienceYears = *req.ExperienceYears
	}
	if req.Qualifications != nil {
		doctor.Qualifications = *req.Qualifications
	}
	if req.Availability != nil {
		doctor.Availability = *req.Availability
	}

	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to update doctor: %w", err)
	}

	s.syncProjection(ctx, doctor)
	return doctor, nil
}

func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}

	s.syncProjection(ctx, doctor)
	return nil
}

func (s *Service) ListDoctors(ctx context.Context, hospitalID uuid.UUID, departmentID *uuid.UUID) ([]*model.Doctor, error) {
	if departmentID != nil {
		return s.repo.ListByDepartment(ctx, hospitalID, *departmentID)
	}
	return s.repo.List(ctx, hospitalID)
}

func (s *Service) syncProjection(ctx context.Context, doctor *model.Doctor) {
	payload, _ := json.Marshal(doctor)
	_ = s.outboxRepo.Create(ctx, &model.OutboxEvent{
		EventType:  model.EventDoctorChanged,
		HospitalID: doctor.HospitalID,
		Payload:    payload,
	})

	_, _ = s.hospitalSvc.RebuildProjection(ctx, doctor.HospitalID)
}
