package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/medicore/hospital-api/internal/config"
)

// Service sends transactional mail. All sends are best effort from the
// caller's point of view; failures are logged, never propagated to the
// request path.
type Service interface {
	SendWelcome(to, name string) error
	SendAppointmentBooked(to, patientName, doctorName, date, timeSlot string) error
	SendAppointmentStatusChanged(to, patientName, doctorName, status string) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *smtpService) SendWelcome(to, name string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour account has been created.\n", name)
	return s.send(to, "Welcome", body)
}

func (s *smtpService) SendAppointmentBooked(to, patientName, doctorName, date, timeSlot string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour appointment with %s on %s at %s has been requested and is pending confirmation.\n",
		patientName, doctorName, date, timeSlot,
	)
	return s.send(to, "Appointment booked", body)
}

func (s *smtpService) SendAppointmentStatusChanged(to, patientName, doctorName, status string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour appointment with %s is now %s.\n",
		patientName, doctorName, status,
	)
	return s.send(to, "Appointment update", body)
}
