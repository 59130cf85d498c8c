package hospital

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/hms-api/internal/model"
	apperrors "github.com/medicore/hms-api/pkg/errors"
)

type fakeHospitalRepo struct {
	hospitals map[uuid.UUID]*model.Hospital
	rebuilds  int
}

func newFakeHospitalRepo() *fakeHospitalRepo {
	return &fakeHospitalRepo{hospitals: make(map[uuid.UUID]*model.Hospital)}
}

func (r *fakeHospitalRepo) Create(_ context.Context, hospital *model.Hospital) error {
	if hospital.ID == uuid.Nil {
		hospital.ID = uuid.New()
	}
	r.hospitals[hospital.ID] = hospital
	return nil
}

func (r *fakeHospitalRepo) Get(_ context.Context, id uuid.UUID) (*model.Hospital, error) {
	hospital, ok := r.hospitals[id]
	if !ok {
		return nil, apperrors.NotFound("hospital", nil)
	}
	return hospital, nil
}

func (r *fakeHospitalRepo) GetByName(_ context.Context, name string) (*model.Hospital, error) {
	for _, hospital := range r.hospitals {
		if hospital.Name == name {
			return hospital, nil
		}
	}
	return nil, apperrors.NotFound("hospital", nil)
}

func (r *fakeHospitalRepo) Update(_ context.Context, hospital *model.Hospital) error {
	r.hospitals[hospital.ID] = hospital
	return nil
}

func (r *fakeHospitalRepo) List(_ context.Context) ([]*model.Hospital, error) {
	var out []*model.Hospital
	for _, hospital := range r.hospitals {
		out = append(out, hospital)
	}
	return out, nil
}

func (r *fakeHospitalRepo) RebuildProjection(_ context.Context, id uuid.UUID) (*model.Hospital, error) {
	hospital, ok := r.hospitals[id]
	if !ok {
		return nil, apperrors.NotFound("hospital", nil)
	}
	r.rebuilds++
	return hospital, nil
}

func seedHospital(t *testing.T, repo *fakeHospitalRepo) (*model.Hospital, uuid.UUID, uuid.UUID) {
	t.Helper()
	cardiologyID := uuid.New()
	neurologyID := uuid.New()
	cardiologist := uuid.New()
	neurologist := uuid.New()

	hospital := &model.Hospital{
		Name: "City General",
		Departments: model.DepartmentMap{
			cardiologyID.String(): {ID: cardiologyID, Name: "Cardiology", TotalStaff: 12},
			neurologyID.String():  {ID: neurologyID, Name: "Neurology", TotalStaff: 8},
		},
		Doctors: model.DoctorMap{
			cardiologist.String(): {ID: cardiologist, Name: "Dr. Iyer", DepartmentID: cardiologyID, Status: "active"},
			neurologist.String():  {ID: neurologist, Name: "Dr. Menon", DepartmentID: neurologyID, Status: "active"},
		},
	}
	require.NoError(t, repo.Create(context.Background(), hospital))
	return hospital, cardiologyID, neurologyID
}

func TestGetRosterReturnsAllDoctors(t *testing.T) {
	repo := newFakeHospitalRepo()
	hospital, _, _ := seedHospital(t, repo)
	svc := NewService(repo)

	roster, err := svc.GetRoster(context.Background(), hospital.ID, nil)
	require.NoError(t, err)
	assert.Len(t, roster.Departments, 2)
	assert.Len(t, roster.Doctors, 2)
}

func TestGetRosterFiltersByDepartment(t *testing.T) {
	repo := newFakeHospitalRepo()
	hospital, cardiologyID, _ := seedHospital(t, repo)
	svc := NewService(repo)

	roster, err := svc.GetRoster(context.Background(), hospital.ID, &cardiologyID)
	require.NoError(t, err)
	require.Len(t, roster.Doctors, 1)
	assert.Equal(t, "Dr. Iyer", roster.Doctors[0].Name)
	assert.Equal(t, cardiologyID, roster.Doctors[0].DepartmentID)
}

func TestGetRosterUnknownHospital(t *testing.T) {
	svc := NewService(newFakeHospitalRepo())

	_, err := svc.GetRoster(context.Background(), uuid.New(), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestRebuildProjectionDropsCache(t *testing.T) {
	repo := newFakeHospitalRepo()
	hospital, _, neurologyID := seedHospital(t, repo)
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.GetRoster(ctx, hospital.ID, nil)
	require.NoError(t, err)

	// Mutate the stored aggregate, then rebuild; the next read must
	// see the change instead of the cached copy.
	updated := repo.hospitals[hospital.ID].Departments[neurologyID.String()]
	updated.TotalStaff = 15
	repo.hospitals[hospital.ID].Departments[neurologyID.String()] = updated

	_, err = svc.RebuildProjection(ctx, hospital.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.rebuilds)

	roster, err := svc.GetRoster(ctx, hospital.ID, nil)
	require.NoError(t, err)
	for _, dept := range roster.Departments {
		if dept.ID == neurologyID {
			assert.Equal(t, 15, dept.TotalStaff)
		}
	}
}

func TestCreateHospitalRequiresName(t *testing.T) {
	svc := NewService(newFakeHospitalRepo())

	err := svc.CreateHospital(context.Background(), &model.Hospital{})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}
