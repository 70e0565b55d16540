package medical

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicore/hospital-api/internal/model"
	"github.com/medicore/hospital-api/internal/repository"
	"github.com/medicore/hospital-api/internal/service/notification"
	apperrors "github.com/medicore/hospital-api/pkg/errors"
)

const (
	listLimit = 50

	// Two reports created in the same instant can race for the same
	// sequential report id; the loser re-derives the next one.
	reportIDRetries = 3
)

// Service covers the doctor-authored medical records: reports and
// prescriptions. Both are write-once-by-doctor, read-by-owner documents.
type Service struct {
	reportRepo repository.ReportRepository
	rxRepo     repository.PrescriptionRepository
	userRepo   repository.UserRepository
	aptRepo    repository.AppointmentRepository
	notifSvc   *notification.Service
	logger     *zerolog.Logger
}

func NewService(reportRepo repository.ReportRepository, rxRepo repository.PrescriptionRepository,
	userRepo repository.UserRepository, aptRepo repository.AppointmentRepository,
	notifSvc *notification.Service, logger *zerolog.Logger) *Service {
	return &Service{
		reportRepo: reportRepo,
		rxRepo:     rxRepo,
		userRepo:   userRepo,
		aptRepo:    aptRepo,
		notifSvc:   notifSvc,
		logger:     logger,
	}
}

// CreateReport files a draft report for the patient. Only the authoring doctor
// is accepted as actor; the patient must exist and hold the patient role.
func (s *Service) CreateReport(ctx context.Context, doctorID uuid.UUID, req *model.CreateReportRequest) (*model.Report, error) {
	if !req.Type.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown report type %q", req.Type), nil)
	}

	patient, err := s.userRepo.Get(ctx, req.PatientID)
	if err != nil {
		return nil, apperrors.NotFound("patient", err)
	}
	if patient.Role != model.RolePatient {
		return nil, apperrors.Validation("reports can only be filed for patients", nil)
	}

	if req.AppointmentID != nil {
		apt, err := s.aptRepo.Get(ctx, *req.AppointmentID)
		if err != nil {
			return nil, apperrors.NotFound("appointment", err)
		}
		if apt.DoctorID != doctorID || apt.PatientID != req.PatientID {
			return nil, apperrors.NotFound("appointment", nil)
		}
	}

	report := &model.Report{
		PatientID:     req.PatientID,
		DoctorID:      doctorID,
		AppointmentID: req.AppointmentID,
		Type:          req.Type,
		Title:         req.Title,
		Diagnosis:     req.Diagnosis,
		Status:        model.ReportStatusDraft,
		Vitals:        req.Vitals,
		TestResults:   req.TestResults,
	}

	var createErr error
	for attempt := 0; attempt < reportIDRetries; attempt++ {
		createErr = s.reportRepo.Create(ctx, report)
		if createErr == nil {
			return report, nil
		}
		if !errors.Is(createErr, repository.ErrDuplicate) {
			return nil, apperrors.Internal(createErr)
		}
	}
	return nil, apperrors.Conflict("report id allocation contention, please retry", createErr)
}

// UpdateReport applies a partial update. Only the authoring doctor may edit,
// and a reviewed report is immutable. Moving to final notifies the patient.
func (s *Service) UpdateReport(ctx context.Context, id, doctorID uuid.UUID, req *model.UpdateReportRequest) (*model.Report, error) {
	report, err := s.reportRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("report", err)
	}
	if report.DoctorID != doctorID {
		return nil, apperrors.NotFound("report", nil)
	}
	if report.Status == model.ReportStatusReviewed {
		return nil, apperrors.Validation("a reviewed report can no longer be edited", nil)
	}

	finalized := false
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, apperrors.Validation(fmt.Sprintf("unknown report status %q", *req.Status), nil)
		}
		if *req.Status == model.ReportStatusDraft && report.Status != model.ReportStatusDraft {
			return nil, apperrors.Validation("a finalized report cannot go back to draft", nil)
		}
		finalized = report.Status == model.ReportStatusDraft && *req.Status != model.ReportStatusDraft
		report.Status = *req.Status
	}
	if req.Title != nil {
		report.Title = *req.Title
	}
	if req.Diagnosis != nil {
		report.Diagnosis = *req.Diagnosis
	}
	if req.Vitals != nil {
		report.Vitals = req.Vitals
	}
	if req.TestResults != nil {
		report.TestResults = req.TestResults
	}

	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, apperrors.Internal(err)
	}

	if finalized {
		s.notifSvc.Notify(ctx, report.PatientID, "report.finalized",
			fmt.Sprintf("Your report %s is ready", report.ReportID), report)
	}

	return report, nil
}

func (s *Service) ListReportsForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Report, error) {
	return s.reportRepo.ListForPatient(ctx, patientID, listLimit)
}

func (s *Service) ListReportsForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Report, error) {
	return s.reportRepo.ListForDoctor(ctx, doctorID, listLimit)
}

// CreatePrescription writes a prescription against one of the doctor's own
// appointments with the named patient.
func (s *Service) CreatePrescription(ctx context.Context, doctorID uuid.UUID, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	apt, err := s.aptRepo.Get(ctx, req.AppointmentID)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	if apt.DoctorID != doctorID {
		return nil, apperrors.NotFound("appointment", nil)
	}
	if apt.PatientID != req.PatientID {
		return nil, apperrors.Validation("appointment does not belong to this patient", nil)
	}

	rx := &model.Prescription{
		PatientID:     req.PatientID,
		DoctorID:      doctorID,
		AppointmentID: req.AppointmentID,
		Medicines:     req.Medicines,
		Notes:         req.Notes,
	}

	if err := s.rxRepo.Create(ctx, rx); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.notifSvc.Notify(ctx, rx.PatientID, "prescription.created",
		fmt.Sprintf("%s issued you a new prescription", apt.DoctorName), rx)

	return rx, nil
}

func (s *Service) ListPrescriptionsForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error) {
	return s.rxRepo.ListForPatient(ctx, patientID)
}

func (s *Service) ListPrescriptionsForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Prescription, error) {
	return s.rxRepo.ListForDoctor(ctx, doctorID)
}
