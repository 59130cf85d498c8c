package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	apperrors "github.com/medicore/hms-api/pkg/errors"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type gomailService struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewService(cfg SMTPConfig) Service {
	return &gomailService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *gomailService) SendWelcome(ctx context.Context, to string, name string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour account has been created.", name)
	return s.send(ctx, to, "Welcome", body)
}

func (s *gomailService) SendAppointmentConfirmation(ctx context.Context, to string, details AppointmentDetails) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour appointment with %s is confirmed for %s at %s.",
		details.PatientName, details.DoctorName, details.Date, details.Time,
	)
	return s.send(ctx, to, "Appointment confirmed", body)
}

func (s *gomailService) SendAppointmentStatusChange(ctx context.Context, to string, details AppointmentDetails) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour appointment with %s on %s at %s is now %s.",
		details.PatientName, details.DoctorName, details.Date, details.Time, details.Status,
	)
	return s.send(ctx, to, "Appointment update", body)
}

func (s *gomailService) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return apperrors.RemoteCall("mail relay", err)
	}
	return nil
}

// Noop returns a mail service that drops everything, for environments
// without an SMTP relay.
func Noop() Service {
	return noopService{}
}

type noopService struct{}

func (noopService) SendWelcome(context.Context, string, string) error { return nil }
func (noopService) SendAppointmentConfirmation(context.Context, string, AppointmentDetails) error {
	return nil
}
func (noopService) SendAppointmentStatusChange(context.Context, string, AppointmentDetails) error {
	return nil
}
