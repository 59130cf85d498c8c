package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/hms-api/internal/email"
	"github.com/medicore/hms-api/internal/model"
	apperrors "github.com/medicore/hms-api/pkg/errors"
	"github.com/medicore/hms-api/pkg/logger"
)

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, appointment *model.Appointment) error {
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	r.appointments[appointment.ID] = appointment
	return nil
}

func (r *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, ok := r.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	copied := *appointment
	return &copied, nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, appointment *model.Appointment) error {
	r.appointments[appointment.ID] = appointment
	return nil
}

func (r *fakeAppointmentRepo) List(_ context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, appointment := range r.appointments {
		if appointment.HospitalID != filters.HospitalID {
			continue
		}
		if filters.Status != "" && appointment.Status != filters.Status {
			continue
		}
		if filters.DoctorID != nil && appointment.DoctorID != *filters.DoctorID {
			continue
		}
		out = append(out, appointment)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) HasConflict(_ context.Context, doctorID uuid.UUID, date, slot string, excludeID *uuid.UUID) (bool, error) {
	for _, appointment := range r.appointments {
		if excludeID != nil && appointment.ID == *excludeID {
			continue
		}
		if appointment.Status == model.AppointmentStatusCancelled ||
			appointment.Status == model.AppointmentStatusCompleted {
			continue
		}
		if appointment.DoctorID == doctorID &&
			appointment.ScheduledDate.Format("2006-01-02") == date &&
			appointment.ScheduledTime == slot {
			return true, nil
		}
	}
	return false, nil
}

type fakePatientRepo struct{ patients map[uuid.UUID]*model.Patient }

func (r *fakePatientRepo) Register(_ context.Context, p *model.Patient) error { return nil }

func (r *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, ok := r.patients[id]
	if !ok {
		return nil, apperrors.NotFound("patient", nil)
	}
	return patient, nil
}

func (r *fakePatientRepo) GetByNationalID(_ context.Context, _ uuid.UUID, _ string) (*model.Patient, error) {
	return nil, apperrors.NotFound("patient", nil)
}

func (r *fakePatientRepo) Update(_ context.Context, p *model.Patient) error { return nil }

func (r *fakePatientRepo) List(_ context.Context, _ *model.PatientFilters) ([]*model.Patient, error) {
	return nil, nil
}

type fakeDoctorRepo struct{ doctors map[uuid.UUID]*model.Doctor }

func (r *fakeDoctorRepo) Create(_ context.Context, d *model.Doctor) error { return nil }

func (r *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	doctor, ok := r.doctors[id]
	if !ok {
		return nil, apperrors.NotFound("doctor", nil)
	}
	return doctor, nil
}

func (r *fakeDoctorRepo) GetByUserID(_ context.Context, _ uuid.UUID) (*model.Doctor, error) {
	return nil, apperrors.NotFound("doctor", nil)
}

func (r *fakeDoctorRepo) Update(_ context.Context, d *model.Doctor) error   { return nil }
func (r *fakeDoctorRepo) Delete(_ context.Context, id uuid.UUID) error      { return nil }
func (r *fakeDoctorRepo) List(_ context.Context, _ uuid.UUID) ([]*model.Doctor, error) {
	return nil, nil
}

func (r *fakeDoctorRepo) ListByDepartment(_ context.Context, _, _ uuid.UUID) ([]*model.Doctor, error) {
	return nil, nil
}

type fakeDeptRepo struct{}

func (r *fakeDeptRepo) Create(_ context.Context, d *model.Department) error { return nil }
func (r *fakeDeptRepo) Get(_ context.Context, id uuid.UUID) (*model.Department, error) {
	return nil, apperrors.NotFound("department", nil)
}
func (r *fakeDeptRepo) Update(_ context.Context, d *model.Department) error { return nil }
func (r *fakeDeptRepo) Delete(_ context.Context, id uuid.UUID) error        { return nil }
func (r *fakeDeptRepo) List(_ context.Context, _ uuid.UUID) ([]*model.Department, error) {
	return nil, nil
}

type fakeOutboxRepo struct{ events []*model.OutboxEvent }

func (r *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	r.events = append(r.events, event)
	return nil
}

func (r *fakeOutboxRepo) GetPending(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (r *fakeOutboxRepo) MarkProcessed(_ context.Context, _ uuid.UUID) error     { return nil }
func (r *fakeOutboxRepo) MarkFailed(_ context.Context, _ uuid.UUID, _ string) error { return nil }

type fixture struct {
	svc        *Service
	repo       *fakeAppointmentRepo
	outbox     *fakeOutboxRepo
	hospitalID uuid.UUID
	patientID  uuid.UUID
	doctorID   uuid.UUID
	deptID     uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	hospitalID := uuid.New()
	deptID := uuid.New()
	patientID := uuid.New()
	doctorID := uuid.New()

	patientRepo := &fakePatientRepo{patients: map[uuid.UUID]*model.Patient{
		patientID: {
			Base:       model.Base{ID: patientID},
			HospitalID: hospitalID,
			Name:       "Asha Rao",
			Email:      "asha@example.test",
			Status:     model.PatientStatusActive,
		},
	}}
	doctorRepo := &fakeDoctorRepo{doctors: map[uuid.UUID]*model.Doctor{
		doctorID: {
			Base:         model.Base{ID: doctorID},
			HospitalID:   hospitalID,
			DepartmentID: deptID,
			Name:         "Dr. Iyer",
			Status:       model.DoctorStatusActive,
		},
	}}
	repo := newFakeAppointmentRepo()
	outbox := &fakeOutboxRepo{}
	svc := NewService(repo, patientRepo, doctorRepo, &fakeDeptRepo{}, outbox,
		email.Noop(), logger.NewLogger(nil))

	return &fixture{
		svc:        svc,
		repo:       repo,
		outbox:     outbox,
		hospitalID: hospitalID,
		patientID:  patientID,
		doctorID:   doctorID,
		deptID:     deptID,
	}
}

func (f *fixture) book(t *testing.T) *model.Appointment {
	t.Helper()
	appointment, err := f.svc.CreateAppointment(context.Background(), f.hospitalID, &model.CreateAppointmentRequest{
		PatientID:    f.patientID,
		DoctorID:     f.doctorID,
		DepartmentID: f.deptID,
		Date:         "2026-09-15",
		Time:         "10:30",
		Reason:       "follow up",
	})
	require.NoError(t, err)
	return appointment
}

func TestCreateAppointment(t *testing.T) {
	f := newFixture(t)

	appointment := f.book(t)
	assert.Equal(t, model.AppointmentStatusScheduled, appointment.Status)
	assert.Equal(t, "regular", appointment.Type)
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), appointment.ScheduledDate)

	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, model.EventAppointmentBooked, f.outbox.events[0].EventType)
}

func TestCreateAppointmentSlotConflict(t *testing.T) {
	f := newFixture(t)
	f.book(t)

	_, err := f.svc.CreateAppointment(context.Background(), f.hospitalID, &model.CreateAppointmentRequest{
		PatientID:    f.patientID,
		DoctorID:     f.doctorID,
		DepartmentID: f.deptID,
		Date:         "2026-09-15",
		Time:         "10:30",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
}

func TestStatusTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appointment := f.book(t)

	updated, err := f.svc.UpdateStatus(ctx, appointment.ID, &model.UpdateAppointmentStatusRequest{
		Status: model.AppointmentStatusMissed,
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusMissed, updated.Status)

	reason := "patient unavailable"
	updated, err = f.svc.UpdateStatus(ctx, appointment.ID, &model.UpdateAppointmentStatusRequest{
		Status:       model.AppointmentStatusCancelled,
		CancelReason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, updated.Status)
	require.NotNil(t, updated.CancelReason)
	assert.Equal(t, reason, *updated.CancelReason)
}

func TestTerminalStatusIsFinal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appointment := f.book(t)

	_, err := f.svc.UpdateStatus(ctx, appointment.ID, &model.UpdateAppointmentStatusRequest{
		Status: model.AppointmentStatusCompleted,
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, appointment.ID, &model.UpdateAppointmentStatusRequest{
		Status: model.AppointmentStatusCancelled,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))

	stored, err := f.svc.GetAppointment(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, stored.Status)
}

func TestIllegalTransitionRejected(t *testing.T) {
	f := newFixture(t)
	appointment := f.book(t)

	// scheduled -> rescheduled is not a legal hop; only a missed
	// appointment moves to rescheduled.
	_, err := f.svc.UpdateStatus(context.Background(), appointment.ID, &model.UpdateAppointmentStatusRequest{
		Status: model.AppointmentStatusRescheduled,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
}

func TestUnknownStatusRejected(t *testing.T) {
	f := newFixture(t)
	appointment := f.book(t)

	_, err := f.svc.UpdateStatus(context.Background(), appointment.ID, &model.UpdateAppointmentStatusRequest{
		Status: "no-show",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestRescheduleRequiresBothFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appointment := f.book(t)

	_, err := f.svc.Reschedule(ctx, appointment.ID, &model.RescheduleAppointmentRequest{Date: "2026-09-20"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = f.svc.Reschedule(ctx, appointment.ID, &model.RescheduleAppointmentRequest{Time: "11:00"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	// Partial input must leave the slot untouched
	stored, err := f.svc.GetAppointment(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, "10:30", stored.ScheduledTime)
	assert.Equal(t, appointment.ScheduledDate, stored.ScheduledDate)
}

func TestRescheduleMissedAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appointment := f.book(t)

	_, err := f.svc.UpdateStatus(ctx, appointment.ID, &model.UpdateAppointmentStatusRequest{
		Status: model.AppointmentStatusMissed,
	})
	require.NoError(t, err)

	updated, err := f.svc.Reschedule(ctx, appointment.ID, &model.RescheduleAppointmentRequest{
		Date: "2026-09-22",
		Time: "14:00",
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusRescheduled, updated.Status)
	assert.Equal(t, "14:00", updated.ScheduledTime)
}

func TestListFiltersByStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.book(t)
	second, err := f.svc.CreateAppointment(ctx, f.hospitalID, &model.CreateAppointmentRequest{
		PatientID:    f.patientID,
		DoctorID:     f.doctorID,
		DepartmentID: f.deptID,
		Date:         "2026-09-16",
		Time:         "09:00",
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, second.ID, &model.UpdateAppointmentStatusRequest{
		Status: model.AppointmentStatusCompleted,
	})
	require.NoError(t, err)

	scheduled, err := f.svc.ListAppointments(ctx, &model.AppointmentFilters{
		HospitalID: f.hospitalID,
		Status:     model.AppointmentStatusScheduled,
	})
	require.NoError(t, err)
	require.Len(t, scheduled, 1)
	assert.Equal(t, first.ID, scheduled[0].ID)
}
