package email

import (
	"context"
)

type Service interface {
	SendWelcome(ctx context.Context, to string, name string) error
	SendAppointmentConfirmation(ctx context.Context, to string, details AppointmentDetails) error
	SendAppointmentStatusChange(ctx context.Context, to string, details AppointmentDetails) error
}

type AppointmentDetails struct {
	PatientName string
	DoctorName  string
	Date        string
	Time        string
	Status      string
}
