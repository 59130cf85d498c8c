package department

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/medicore/hms-api/internal/model"
	"github.com/medicore/hms-api/internal/repository"
	"github.com/medicore/hms-api/internal/service/hospital"
)

type Service struct {
	repo        repository.DepartmentRepository
	hospitalSvc *hospital.Service
	outboxRepo  repository.OutboxRepository
}

func NewService(repo repository.DepartmentRepository, hospitalSvc *hospital.Service,
	outboxRepo repository.OutboxRepository) *Service {
	return &Service{
		repo:        repo,
		hospitalSvc: hospitalSvc,
		outboxRepo:  outboxRepo,
	}
}

func (s *Service) CreateDepartment(ctx context.Context, department *model.Department) error {
	if department.TotalStaff == 0 {
		department.TotalStaff = department.TotalDoctors + department.TotalNurses + department.SupportStaff
	}

	if err := s.repo.Create(ctx, department); err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}

	s.syncProjection(ctx, department)
	return nil
}

func (s *Service) GetDepartment(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateDepartment(ctx context.Context, id uuid.UUID, req *model.UpdateDepartmentRequest) (*model.Department, error) {
	department, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(department, req)

	if err := s.repo.Update(ctx, department); err != nil {
		return nil, fmt.Errorf("failed to update department: %w", err)
	}

	s.syncProjection(ctx, department)
	return department, nil
}

func (s *Service) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	department, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}

	s.syncProjection(ctx, department)
	return nil
}

func (s *Service) ListDepartments(ctx context.Context, hospitalID uuid.UUID) ([]*model.Department, error) {
	return s.repo.List(ctx, hospitalID)
}

// syncProjection rebuilds the hospital aggregate right away for
// read-your-writes, and leaves an outbox event for downstream
// consumers. A failed rebuild is recovered by the worker replaying the
// event.
func (s *Service) syncProjection(ctx context.Context, department *model.Department) {
	payload, _ := json.Marshal(department)
	_ = s.outboxRepo.Create(ctx, &model.OutboxEvent{
		EventType:  model.EventDepartmentChanged,
		HospitalID: department.HospitalID,
		Payload:    payload,
	})

	_, _ = s.hospitalSvc.RebuildProjection(ctx, department.HospitalID)
}

func applyUpdate(department *model.Department, req *model.UpdateDepartmentRequest) {
	if req.Name != nil {
		department.Name = *req.Name
	}
	if req.Head != nil {
		department.Head = *req.Head
	}
	if req.TotalDoctors != nil {
		department.TotalDoctors = *req.TotalDoctors
	}
	if req.TotalNurses != nil {
		department.TotalNurses = *req.TotalNurses
	}
	if req.SupportStaff != nil {
		department.SupportStaff = *req.SupportStaff
	}
	if req.TotalStaff != nil {
		department.TotalStaff = *req.TotalStaff
	}
	if req.KeyStaff != nil {
		department.KeyStaff = *req.KeyStaff
	}
	if req.Facilities != nil {
		department.Facilities = *req.Facilities
	}
	if req.OperationalHours != nil {
		department.OperationalHours = *req.OperationalHours
	}
	if req.Metrics != nil {
		department.Metrics = *req.Metrics
	}
}
