package department

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/hms-api/internal/model"
	"github.com/medicore/hms-api/internal/service/hospital"
	apperrors "github.com/medicore/hms-api/pkg/errors"
)

type fakeDeptRepo struct {
	departments map[uuid.UUID]*model.Department
}

func newFakeDeptRepo() *fakeDeptRepo {
	return &fakeDeptRepo{departments: make(map[uuid.UUID]*model.Department)}
}

func (r *fakeDeptRepo) Create(_ context.Context, department *model.Department) error {
	if department.ID == uuid.Nil {
		department.ID = uuid.New()
	}
	r.departments[department.ID] = department
	return nil
}

func (r *fakeDeptRepo) Get(_ context.Context, id uuid.UUID) (*model.Department, error) {
	department, ok := r.departments[id]
	if !ok {
		return nil, apperrors.NotFound("department", nil)
	}
	copied := *department
	return &copied, nil
}

func (r *fakeDeptRepo) Update(_ context.Context, department *model.Department) error {
	r.departments[department.ID] = department
	return nil
}

func (r *fakeDeptRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.departments, id)
	return nil
}

func (r *fakeDeptRepo) List(_ context.Context, hospitalID uuid.UUID) ([]*model.Department, error) {
	var out []*model.Department
	for _, department := range r.departments {
		if department.HospitalID == hospitalID {
			out = append(out, department)
		}
	}
	return out, nil
}

// fakeHospitalRepo rebuilds the department projection from the
// department store, mirroring what the SQL rebuild does.
type fakeHospitalRepo struct {
	hospital *model.Hospital
	deptRepo *fakeDeptRepo
}

func (r *fakeHospitalRepo) Create(_ context.Context, h *model.Hospital) error { return nil }

func (r *fakeHospitalRepo) Get(_ context.Context, id uuid.UUID) (*model.Hospital, error) {
	if r.hospital == nil || r.hospital.ID != id {
		return nil, apperrors.NotFound("hospital", nil)
	}
	return r.hospital, nil
}

func (r *fakeHospitalRepo) GetByName(_ context.Context, _ string) (*model.Hospital, error) {
	return nil, apperrors.NotFound("hospital", nil)
}

func (r *fakeHospitalRepo) Update(_ context.Context, h *model.Hospital) error { return nil }

func (r *fakeHospitalRepo) List(_ context.Context) ([]*model.Hospital, error) { return nil, nil }

func (r *fakeHospitalRepo) RebuildProjection(_ context.Context, id uuid.UUID) (*model.Hospital, error) {
	if r.hospital == nil || r.hospital.ID != id {
		return nil, apperrors.NotFound("hospital", nil)
	}
	rebuilt := make(model.DepartmentMap)
	for _, department := range r.deptRepo.departments {
		if department.HospitalID != id {
			continue
		}
		rebuilt[department.ID.String()] = model.DepartmentSummary{
			ID:         department.ID,
			Name:       department.Name,
			Head:       department.Head.Name,
			TotalStaff: department.TotalStaff,
		}
	}
	r.hospital.Departments = rebuilt
	return r.hospital, nil
}

type fakeOutboxRepo struct{ events []*model.OutboxEvent }

func (r *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	r.events = append(r.events, event)
	return nil
}

func (r *fakeOutboxRepo) GetPending(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (r *fakeOutboxRepo) MarkProcessed(_ context.Context, _ uuid.UUID) error        { return nil }
func (r *fakeOutboxRepo) MarkFailed(_ context.Context, _ uuid.UUID, _ string) error { return nil }

func setup(t *testing.T) (*Service, *hospital.Service, *fakeOutboxRepo, uuid.UUID) {
	t.Helper()
	deptRepo := newFakeDeptRepo()
	hospitalID := uuid.New()
	hospitalRepo := &fakeHospitalRepo{
		hospital: &model.Hospital{
			Base:        model.Base{ID: hospitalID},
			Name:        "City General",
			Departments: model.DepartmentMap{},
		},
		deptRepo: deptRepo,
	}
	outbox := &fakeOutboxRepo{}
	hospitalSvc := hospital.NewService(hospitalRepo)
	return NewService(deptRepo, hospitalSvc, outbox), hospitalSvc, outbox, hospitalID
}

func TestCreateDepartmentDefaultsTotalStaff(t *testing.T) {
	svc, _, outbox, hospitalID := setup(t)

	department := &model.Department{
		HospitalID:   hospitalID,
		Name:         "Cardiology",
		TotalDoctors: 4,
		TotalNurses:  5,
		SupportStaff: 3,
	}
	require.NoError(t, svc.CreateDepartment(context.Background(), department))
	assert.Equal(t, 12, department.TotalStaff)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, model.EventDepartmentChanged, outbox.events[0].EventType)
}

func TestUpdateDepartmentReflectsInRoster(t *testing.T) {
	svc, hospitalSvc, _, hospitalID := setup(t)
	ctx := context.Background()

	department := &model.Department{
		HospitalID: hospitalID,
		Name:       "Neurology",
		TotalStaff: 10,
	}
	require.NoError(t, svc.CreateDepartment(ctx, department))

	newTotal := 15
	_, err := svc.UpdateDepartment(ctx, department.ID, &model.UpdateDepartmentRequest{
		TotalStaff: &newTotal,
	})
	require.NoError(t, err)

	// The synchronous projection rebuild makes the change visible to
	// the next roster read.
	roster, err := hospitalSvc.GetRoster(ctx, hospitalID, nil)
	require.NoError(t, err)
	require.Len(t, roster.Departments, 1)
	assert.Equal(t, 15, roster.Departments[0].TotalStaff)
}

func TestUpdateDepartmentPartialMerge(t *testing.T) {
	svc, _, _, hospitalID := setup(t)
	ctx := context.Background()

	department := &model.Department{
		HospitalID: hospitalID,
		Name:       "Orthopedics",
		Head:       model.DepartmentHead{Name: "Dr. Kulkarni"},
		TotalStaff: 8,
	}
	require.NoError(t, svc.CreateDepartment(ctx, department))

	name := "Orthopedics & Trauma"
	updated, err := svc.UpdateDepartment(ctx, department.ID, &model.UpdateDepartmentRequest{
		Name: &name,
	})
	require.NoError(t, err)
	assert.Equal(t, "Orthopedics & Trauma", updated.Name)
	assert.Equal(t, "Dr. Kulkarni", updated.Head.Name)
	assert.Equal(t, 8, updated.TotalStaff)
}

func TestDeleteDepartmentRemovesFromRoster(t *testing.T) {
	svc, hospitalSvc, _, hospitalID := setup(t)
	ctx := context.Background()

	department := &model.Department{HospitalID: hospitalID, Name: "Dermatology"}
	require.NoError(t, svc.CreateDepartment(ctx, department))
	require.NoError(t, svc.DeleteDepartment(ctx, department.ID))

	roster, err := hospitalSvc.GetRoster(ctx, hospitalID, nil)
	require.NoError(t, err)
	assert.Empty(t, roster.Departments)
}
