package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to AppointmentStatus
		allowed  bool
	}{
		{AppointmentStatusScheduled, AppointmentStatusCompleted, true},
		{AppointmentStatusScheduled, AppointmentStatusCancelled, true},
		{AppointmentStatusScheduled, AppointmentStatusMissed, true},
		{AppointmentStatusScheduled, AppointmentStatusRescheduled, false},
		{AppointmentStatusMissed, AppointmentStatusRescheduled, true},
		{AppointmentStatusMissed, AppointmentStatusCompleted, false},
		{AppointmentStatusRescheduled, AppointmentStatusScheduled, true},
		{AppointmentStatusCompleted, AppointmentStatusScheduled, false},
		{AppointmentStatusCompleted, AppointmentStatusCancelled, false},
		{AppointmentStatusCancelled, AppointmentStatusScheduled, false},
		{AppointmentStatusCancelled, AppointmentStatusCompleted, false},
	}

	for _, tc := range cases {
		assert.Equalf(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestAppointmentStatusTerminal(t *testing.T) {
	assert.True(t, AppointmentStatusCompleted.IsTerminal())
	assert.True(t, AppointmentStatusCancelled.IsTerminal())
	assert.False(t, AppointmentStatusScheduled.IsTerminal())
	assert.False(t, AppointmentStatusMissed.IsTerminal())
	assert.False(t, AppointmentStatusRescheduled.IsTerminal())
}

func TestAppointmentStatusValid(t *testing.T) {
	assert.True(t, AppointmentStatusScheduled.Valid())
	assert.False(t, AppointmentStatus("upcoming").Valid())
	assert.False(t, AppointmentStatus("no-show").Valid())
}
