package hospital

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/medicore/hms-api/internal/model"
	"github.com/medicore/hms-api/internal/repository"
	apperrors "github.com/medicore/hms-api/pkg/errors"
)

const (
	rosterCacheTTL     = 5 * time.Minute
	rosterCacheCleanup = 10 * time.Minute
)

type Service struct {
	repo   repository.HospitalRepository
	roster *gocache.Cache
}

func NewService(repo repository.HospitalRepository) *Service {
	return &Service{
		repo:   repo,
		roster: gocache.New(rosterCacheTTL, rosterCacheCleanup),
	}
}

func (s *Service) CreateHospital(ctx context.Context, hospital *model.Hospital) error {
	if hospital.Name == "" {
		return apperrors.Validation("hospital name is required", nil)
	}
	if err := s.repo.Create(ctx, hospital); err != nil {
		return fmt.Errorf("failed to create hospital: %w", err)
	}
	return nil
}

func (s *Service) GetHospital(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetHospitalByName(ctx context.Context, name string) (*model.Hospital, error) {
	return s.repo.GetByName(ctx, name)
}

func (s *Service) ListHospitals(ctx context.Context) ([]*model.Hospital, error) {
	return s.repo.List(ctx)
}

// GetRoster serves the dependent-dropdown reads: the hospital's
// departments plus its doctors, narrowed to one department when
// departmentID is set. Results come from the aggregate projection and
// are cached; a missing hospital surfaces as not-found with empty
// lists left to the caller.
func (s *Service) GetRoster(ctx context.Context, hospitalID uuid.UUID, departmentID *uuid.UUID) (*model.Roster, error) {
	hospital, err := s.cachedHospital(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	roster := &model.Roster{
		HospitalID:  hospital.ID,
		Departments: make([]model.DepartmentSummary, 0, len(hospital.Departments)),
		Doctors:     make([]model.DoctorSummary, 0, len(hospital.Doctors)),
	}

	for _, dept := range hospital.Departments {
		roster.Departments = append(roster.Departments, dept)
	}

	for _, doc := range hospital.Doctors {
		if departmentID != nil && doc.DepartmentID != *departmentID {
			continue
		}
		roster.Doctors = append(roster.Doctors, doc)
	}

	return roster, nil
}

// RebuildProjection recomputes the aggregate's embedded maps and drops
// the cached copy.
func (s *Service) RebuildProjection(ctx context.Context, hospitalID uuid.UUID) (*model.Hospital, error) {
	hospital, err := s.repo.RebuildProjection(ctx, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild projection: %w", err)
	}
	s.roster.Delete(hospitalID.String())
	return hospital, nil
}

func (s *Service) cachedHospital(ctx context.Context, hospitalID uuid.UUID) (*model.Hospital, error) {
	if cached, ok := s.roster.Get(hospitalID.String()); ok {
		return cached.(*model.Hospital), nil
	}

	hospital, err := s.repo.Get(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	s.roster.Set(hospitalID.String(), hospital, gocache.DefaultExpiration)
	return hospital, nil
}
