package visit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/hms-api/internal/model"
	apperrors "github.com/medicore/hms-api/pkg/errors"
)

type fakeVisitRepo struct {
	visits        map[uuid.UUID]*model.Visit
	byAppointment map[uuid.UUID]*model.Visit
	apptRepo      *fakeAppointmentRepo
}

func newFakeVisitRepo(apptRepo *fakeAppointmentRepo) *fakeVisitRepo {
	return &fakeVisitRepo{
		visits:        make(map[uuid.UUID]*model.Visit),
		byAppointment: make(map[uuid.UUID]*model.Visit),
		apptRepo:      apptRepo,
	}
}

func (r *fakeVisitRepo) Finalize(_ context.Context, visit *model.Visit) error {
	if visit.ID == uuid.Nil {
		visit.ID = uuid.New()
	}
	r.visits[visit.ID] = visit
	r.byAppointment[visit.AppointmentID] = visit
	if appointment, ok := r.apptRepo.appointments[visit.AppointmentID]; ok {
		appointment.Status = model.AppointmentStatusCompleted
	}
	return nil
}

func (r *fakeVisitRepo) Get(_ context.Context, id uuid.UUID) (*model.Visit, error) {
	visit, ok := r.visits[id]
	if !ok {
		return nil, apperrors.NotFound("visit", nil)
	}
	return visit, nil
}

func (r *fakeVisitRepo) GetByAppointment(_ context.Context, appointmentID uuid.UUID) (*model.Visit, error) {
	visit, ok := r.byAppointment[appointmentID]
	if !ok {
		return nil, apperrors.NotFound("visit", nil)
	}
	return visit, nil
}

func (r *fakeVisitRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*model.Visit, error) {
	var out []*model.Visit
	for _, visit := range r.visits {
		if visit.PatientID == patientID {
			out = append(out, visit)
		}
	}
	return out, nil
}

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *model.Appointment) error { return nil }

func (r *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, ok := r.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	copied := *appointment
	return &copied, nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, a *model.Appointment) error { return nil }

func (r *fakeAppointmentRepo) List(_ context.Context, _ *model.AppointmentFilters) ([]*model.Appointment, error) {
	return nil, nil
}

func (r *fakeAppointmentRepo) HasConflict(_ context.Context, _ uuid.UUID, _, _ string, _ *uuid.UUID) (bool, error) {
	return false, nil
}

func setup(t *testing.T) (*Service, uuid.UUID, uuid.UUID, uuid.UUID) {
	t.Helper()
	appointmentID := uuid.New()
	patientID := uuid.New()
	doctorID := uuid.New()
	apptRepo := &fakeAppointmentRepo{appointments: map[uuid.UUID]*model.Appointment{
		appointmentID: {
			Base:      model.Base{ID: appointmentID},
			PatientID: patientID,
			DoctorID:  doctorID,
			Status:    model.AppointmentStatusScheduled,
		},
	}}
	return NewService(newFakeVisitRepo(apptRepo), apptRepo), appointmentID, patientID, doctorID
}

func TestRecordVisit(t *testing.T) {
	svc, appointmentID, patientID, doctorID := setup(t)
	ctx := context.Background()

	visit, err := svc.RecordVisit(ctx, appointmentID, doctorID, &model.RecordVisitRequest{
		Vitals:    model.Vitals{BloodPressure: "120/80", HeartRate: "72"},
		Symptoms:  []string{"fever", "cough"},
		Diagnosis: "viral infection",
		Prescriptions: []model.Prescription{
			{Medication: "paracetamol", Dosage: "500mg", Frequency: "8h", Duration: "3d"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, patientID, visit.PatientID)
	assert.NotNil(t, visit.FinalizedAt)

	history, err := svc.PatientHistory(ctx, patientID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "viral infection", history[0].Diagnosis)
}

func TestRecordVisitRequiresDiagnosis(t *testing.T) {
	svc, appointmentID, _, doctorID := setup(t)

	_, err := svc.RecordVisit(context.Background(), appointmentID, doctorID, &model.RecordVisitRequest{
		Diagnosis: "   ",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestRecordVisitWrongDoctor(t *testing.T) {
	svc, appointmentID, _, _ := setup(t)

	_, err := svc.RecordVisit(context.Background(), appointmentID, uuid.New(), &model.RecordVisitRequest{
		Diagnosis: "viral infection",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
}

func TestRecordVisitTwiceRejected(t *testing.T) {
	svc, appointmentID, _, doctorID := setup(t)
	ctx := context.Background()

	_, err := svc.RecordVisit(ctx, appointmentID, doctorID, &model.RecordVisitRequest{
		Diagnosis: "viral infection",
	})
	require.NoError(t, err)

	// The appointment completed with the first visit; recording again
	// is a conflict either way.
	_, err = svc.RecordVisit(ctx, appointmentID, doctorID, &model.RecordVisitRequest{
		Diagnosis: "second opinion",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
}

func TestRecordVisitUnknownAppointment(t *testing.T) {
	svc, _, _, doctorID := setup(t)

	_, err := svc.RecordVisit(context.Background(), uuid.New(), doctorID, &model.RecordVisitRequest{
		Diagnosis: "viral infection",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}
