package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	slotErr := &pq.Error{Code: "23505", Constraint: "idx_appointments_doctor_slot"}

	assert.True(t, isUniqueViolation(slotErr, "idx_appointments_doctor_slot"))
	assert.True(t, isUniqueViolation(slotErr, ""))

	// wrapped errors still match
	wrapped := fmt.Errorf("failed to create appointment: %w", slotErr)
	assert.True(t, isUniqueViolation(wrapped, "idx_appointments_doctor_slot"))

	// other constraints and other error classes do not
	assert.False(t, isUniqueViolation(slotErr, "patients_hospital_id_national_id_key"))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}, ""))
	assert.False(t, isUniqueViolation(errors.New("connection reset"), ""))
}
