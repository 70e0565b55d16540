package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicore/hospital-api/internal/email"
	"github.com/medicore/hospital-api/internal/model"
	"github.com/medicore/hospital-api/internal/repository"
	"github.com/medicore/hospital-api/internal/service/notification"
	apperrors "github.com/medicore/hospital-api/pkg/errors"
	"github.com/medicore/hospital-api/pkg/metrics"
)

type Service struct {
	repo     repository.AppointmentRepository
	userRepo repository.UserRepository
	notifSvc *notification.Service
	emailSvc email.Service
	logger   *zerolog.Logger
	metrics  *metrics.Metrics
}

func NewService(repo repository.AppointmentRepository, userRepo repository.UserRepository,
	notifSvc *notification.Service, emailSvc email.Service,
	logger *zerolog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:     repo,
		userRepo: userRepo,
		notifSvc: notifSvc,
		emailSvc: emailSvc,
		logger:   logger,
		metrics:  m,
	}
}

// Book creates a pending appointment for the patient. The slot check is not a
// separate read: the store's partial unique index rejects a second
// non-cancelled appointment for the same (doctor, date, time), so two
// concurrent bookings cannot both succeed.
func (s *Service) Book(ctx context.Context, patientID uuid.UUID, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	patient, err := s.userRepo.Get(ctx, patientID)
	if err != nil {
		return nil, apperrors.NotFound("patient", err)
	}

	doctor, err := s.userRepo.Get(ctx, req.DoctorID)
	if err != nil {
		return nil, apperrors.NotFound("doctor", err)
	}
	if doctor.Role != model.RoleDoctor || doctor.Doctor == nil {
		return nil, apperrors.Validation("selected user is not a doctor", nil)
	}

	apt := &model.Appointment{
		PatientID:       patientID,
		DoctorID:        doctor.ID,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		Status:          model.AppointmentStatusPending,
		Reason:          req.Reason,
		Symptoms:        req.Symptoms,
		// snapshots: later profile edits must not rewrite history
		PatientName:     patient.Name,
		DoctorName:      doctor.Name,
		Specialization:  doctor.Doctor.Specialization,
		ConsultationFee: doctor.Doctor.ConsultationFee,
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			if s.metrics != nil {
				s.metrics.BookingConflicts.Inc()
			}
			return nil, apperrors.Conflict("this time slot is already booked", err)
		}
		return nil, apperrors.Internal(err)
	}

	if s.metrics != nil {
		s.metrics.AppointmentsBooked.Inc()
	}

	s.notifSvc.Notify(ctx, doctor.ID, "appointment.created",
		fmt.Sprintf("New appointment request from %s", patient.Name), apt)
	s.sendBookingEmail(patient, apt)

	return apt, nil
}

// ListForPatient returns the patient's appointments, newest first, with the
// counterpart joined at read time.
func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentDetail, error) {
	return s.repo.List(ctx, &model.AppointmentFilters{PatientID: patientID})
}

func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AppointmentDetail, error) {
	return s.repo.List(ctx, &model.AppointmentFilters{DoctorID: doctorID})
}

func (s *Service) ListAll(ctx context.Context) ([]*model.AppointmentDetail, error) {
	return s.repo.List(ctx, nil)
}

// UpdateStatus transitions an appointment. Only the assigned doctor or an
// admin may do so; a doctor acting on another doctor's appointment gets
// NotFound rather than Forbidden so existence is not leaked.
func (s *Service) UpdateStatus(ctx context.Context, id, actorID uuid.UUID, actorRole model.Role, rawStatus string, notes string) (*model.Appointment, error) {
	newStatus, ok := model.NormalizeStatus(rawStatus)
	if !ok {
		return nil, apperrors.Validation(fmt.Sprintf("unknown status %q", rawStatus), nil)
	}

	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}

	switch actorRole {
	case model.RoleAdmin:
	case model.RoleDoctor:
		if apt.DoctorID != actorID {
			return nil, apperrors.NotFound("appointment", nil)
		}
	default:
		return nil, apperrors.Forbidden("only doctors and admins may update appointment status", nil)
	}

	if apt.Status == newStatus {
		// Re-applying the current status is a no-op success.
		return apt, nil
	}
	if !apt.Status.CanTransitionTo(newStatus) {
		return nil, apperrors.Validation(
			fmt.Sprintf("cannot transition appointment from %s to %s", apt.Status, newStatus), nil)
	}

	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}
	if err := s.repo.UpdateStatus(ctx, id, newStatus, notesPtr); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, apperrors.Internal(err)
	}

	if s.metrics != nil {
		s.metrics.StatusTransitions.WithLabelValues(string(apt.Status), string(newStatus)).Inc()
	}

	prev := apt.Status
	apt.Status = newStatus
	if notes != "" {
		apt.Notes = notes
	}

	s.notifSvc.Notify(ctx, apt.PatientID, "appointment.status_changed",
		fmt.Sprintf("Your appointment with %s is now %s", apt.DoctorName, newStatus), apt)
	s.sendStatusEmail(ctx, apt, prev)

	return apt, nil
}

// Cancel sets the owning patient's appointment to cancelled. Cancelling an
// already-cancelled appointment is an idempotent success; a completed
// appointment cannot be cancelled.
func (s *Service) Cancel(ctx context.Context, id, patientID uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	if apt.PatientID != patientID {
		return nil, apperrors.NotFound("appointment", nil)
	}

	if apt.Status == model.AppointmentStatusCancelled {
		return apt, nil
	}
	if apt.Status == model.AppointmentStatusCompleted {
		return nil, apperrors.Validation("cannot cancel a completed appointment", nil)
	}

	if err := s.repo.UpdateStatus(ctx, id, model.AppointmentStatusCancelled, nil); err != nil {
		return nil, apperrors.Internal(err)
	}

	if s.metrics != nil {
		s.metrics.StatusTransitions.WithLabelValues(string(apt.Status), string(model.AppointmentStatusCancelled)).Inc()
	}

	apt.Status = model.AppointmentStatusCancelled

	s.notifSvc.Notify(ctx, apt.DoctorID, "appointment.cancelled",
		fmt.Sprintf("%s cancelled their appointment on %s at %s",
			apt.PatientName, apt.AppointmentDate.Format("2006-01-02"), apt.AppointmentTime), apt)

	return apt, nil
}

func (s *Service) sendBookingEmail(patient *model.User, apt *model.Appointment) {
	if s.emailSvc == nil {
		return
	}
	err := s.emailSvc.SendAppointmentBooked(
		patient.Email, patient.Name, apt.DoctorName,
		apt.AppointmentDate.Format("2006-01-02"), apt.AppointmentTime,
	)
	if err != nil {
		s.logger.Warn().Err(err).Str("appointment_id", apt.ID.String()).Msg("failed to send booking email")
	}
}

func (s *Service) sendStatusEmail(ctx context.Context, apt *model.Appointment, prev model.AppointmentStatus) {
	if s.emailSvc == nil {
		return
	}
	patient, err := s.userRepo.Get(ctx, apt.PatientID)
	if err != nil {
		s.logger.Warn().Err(err).Str("patient_id", apt.PatientID.String()).Msg("failed to resolve patient for status email")
		return
	}
	err = s.emailSvc.SendAppointmentStatusChanged(patient.Email, patient.Name, apt.DoctorName, string(apt.Status))
	if err != nil {
		s.logger.Warn().Err(err).
			Str("appointment_id", apt.ID.String()).
			Str("from", string(prev)).
			Str("to", string(apt.Status)).
			Msg("failed to send status email")
	}
}
