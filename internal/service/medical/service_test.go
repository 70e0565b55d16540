package medical

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/hospital-api/internal/model"
	"github.com/medicore/hospital-api/internal/repository"
	"github.com/medicore/hospital-api/internal/repository/memory"
	"github.com/medicore/hospital-api/internal/service/notification"
	apperrors "github.com/medicore/hospital-api/pkg/errors"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	log := zerolog.Nop()
	notifSvc := notification.NewService(nil, &log, nil)
	svc := NewService(store.Reports(), store.Prescriptions(), store.Users(),
		store.Appointments(), notifSvc, &log)
	return svc, store
}

func seedPair(t *testing.T, store *memory.Store) (doctor, patient *model.User) {
	t.Helper()
	ctx := context.Background()

	doctor = &model.User{
		Email: "bob@example.com", Name: "Dr. Bob",
		Role: model.RoleDoctor, Status: model.UserStatusActive,
		Doctor: &model.DoctorProfile{Specialization: "Cardiology"},
	}
	require.NoError(t, store.Users().Create(ctx, doctor))

	patient = &model.User{
		Email: "alice@example.com", Name: "Alice",
		Role: model.RolePatient, Status: model.UserStatusActive,
		Patient: &model.PatientProfile{Age: 30, Gender: "female"},
	}
	require.NoError(t, store.Users().Create(ctx, patient))
	return doctor, patient
}

func seedAppointment(t *testing.T, store *memory.Store, doctor, patient *model.User) *model.Appointment {
	t.Helper()
	apt := &model.Appointment{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		AppointmentDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		AppointmentTime: "10:00",
		Status:          model.AppointmentStatusCompleted,
		DoctorName:      doctor.Name,
		PatientName:     patient.Name,
	}
	require.NoError(t, store.Appointments().Create(context.Background(), apt))
	return apt
}

func TestCreateReportAssignsReportID(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	doctor, patient := seedPair(t, store)

	first, err := svc.CreateReport(ctx, doctor.ID, &model.CreateReportRequest{
		PatientID: patient.ID,
		Type:      model.ReportTypeLab,
		Title:     "Blood panel",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusDraft, first.Status)

	second, err := svc.CreateReport(ctx, doctor.ID, &model.CreateReportRequest{
		PatientID: patient.ID,
		Type:      model.ReportTypeLab,
		Title:     "Follow-up panel",
	})
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("RPT-%d-001", year), first.ReportID)
	assert.Equal(t, fmt.Sprintf("RPT-%d-002", year), second.ReportID)
}

func TestCreateReportRejectsUnknownType(t *testing.T) {
	svc, store := newTestService(t)
	doctor, patient := seedPair(t, store)

	_, err := svc.CreateReport(context.Background(), doctor.ID, &model.CreateReportRequest{
		PatientID: patient.ID,
		Type:      model.ReportType("astrology"),
		Title:     "Horoscope",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestCreateReportRejectsNonPatientTarget(t *testing.T) {
	svc, store := newTestService(t)
	doctor, _ := seedPair(t, store)

	_, err := svc.CreateReport(context.Background(), doctor.ID, &model.CreateReportRequest{
		PatientID: doctor.ID,
		Type:      model.ReportTypeLab,
		Title:     "Blood panel",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestCreateReportForeignAppointment(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	doctor, patient := seedPair(t, store)
	apt := seedAppointment(t, store, doctor, patient)

	other := &model.User{
		Email: "eve@example.com", Name: "Dr. Eve",
		Role: model.RoleDoctor, Status: model.UserStatusActive,
		Doctor: &model.DoctorProfile{Specialization: "Neurology"},
	}
	require.NoError(t, store.Users().Create(ctx, other))

	_, err := svc.CreateReport(ctx, other.ID, &model.CreateReportRequest{
		PatientID:     patient.ID,
		AppointmentID: &apt.ID,
		Type:          model.ReportTypeLab,
		Title:         "Blood panel",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestUpdateReportOnlyAuthor(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	doctor, patient := seedPair(t, store)

	report, err := svc.CreateReport(ctx, doctor.ID, &model.CreateReportRequest{
		PatientID: patient.ID,
		Type:      model.ReportTypeLab,
		Title:     "Blood panel",
	})
	require.NoError(t, err)

	_, err = svc.UpdateReport(ctx, report.ID, uuid.New(), &model.UpdateReportRequest{})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestReportLifecycle(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	doctor, patient := seedPair(t, store)

	report, err := svc.CreateReport(ctx, doctor.ID, &model.CreateReportRequest{
		PatientID: patient.ID,
		Type:      model.ReportTypeLab,
		Title:     "Blood panel",
	})
	require.NoError(t, err)

	final := model.ReportStatusFinal
	diagnosis := "all clear"
	report, err = svc.UpdateReport(ctx, report.ID, doctor.ID, &model.UpdateReportRequest{
		Status:    &final,
		Diagnosis: &diagnosis,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusFinal, report.Status)
	assert.Equal(t, "all clear", report.Diagnosis)

	// A finalized report cannot go back to draft.
	draft := model.ReportStatusDraft
	_, err = svc.UpdateReport(ctx, report.ID, doctor.ID, &model.UpdateReportRequest{Status: &draft})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	reviewed := model.ReportStatusReviewed
	report, err = svc.UpdateReport(ctx, report.ID, doctor.ID, &model.UpdateReportRequest{Status: &reviewed})
	require.NoError(t, err)

	// Reviewed reports are immutable.
	title := "Edited"
	_, err = svc.UpdateReport(ctx, report.ID, doctor.ID, &model.UpdateReportRequest{Title: &title})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestCreatePrescriptionRequiresOwnAppointment(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	doctor, patient := seedPair(t, store)
	apt := seedAppointment(t, store, doctor, patient)

	rx, err := svc.CreatePrescription(ctx, doctor.ID, &model.CreatePrescriptionRequest{
		PatientID:     patient.ID,
		AppointmentID: apt.ID,
		Medicines: []model.Medicine{
			{Name: "Aspirin", Dosage: "100mg", Frequency: "daily", Duration: "14 days"},
		},
	})
	require.NoError(t, err)
	require.Len(t, rx.Medicines, 1)
	assert.Equal(t, "Aspirin", rx.Medicines[0].Name)

	// Another doctor cannot prescribe against this appointment.
	other := &model.User{
		Email: "eve@example.com", Name: "Dr. Eve",
		Role: model.RoleDoctor, Status: model.UserStatusActive,
		Doctor: &model.DoctorProfile{Specialization: "Neurology"},
	}
	require.NoError(t, store.Users().Create(ctx, other))

	_, err = svc.CreatePrescription(ctx, other.ID, &model.CreatePrescriptionRequest{
		PatientID:     patient.ID,
		AppointmentID: apt.ID,
		Medicines:     []model.Medicine{{Name: "Aspirin"}},
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestCreatePrescriptionPatientMismatch(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	doctor, patient := seedPair(t, store)
	apt := seedAppointment(t, store, doctor, patient)

	_, err := svc.CreatePrescription(ctx, doctor.ID, &model.CreatePrescriptionRequest{
		PatientID:     uuid.New(),
		AppointmentID: apt.ID,
		Medicines:     []model.Medicine{{Name: "Aspirin"}},
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestListScoping(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	doctor, patient := seedPair(t, store)

	_, err := svc.CreateReport(ctx, doctor.ID, &model.CreateReportRequest{
		PatientID: patient.ID,
		Type:      model.ReportTypeLab,
		Title:     "Blood panel",
	})
	require.NoError(t, err)

	forPatient, err := svc.ListReportsForPatient(ctx, patient.ID)
	require.NoError(t, err)
	assert.Len(t, forPatient, 1)

	forOther, err := svc.ListReportsForPatient(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, forOther)
}

// contendedReportRepo loses the report id race a fixed number of times before
// delegating to the real store.
type contendedReportRepo struct {
	repository.ReportRepository
	collisions int
}

func (r *contendedReportRepo) Create(ctx context.Context, report *model.Report) error {
	if r.collisions > 0 {
		r.collisions--
		return fmt.Errorf("failed to create report: %w", repository.ErrDuplicate)
	}
	return r.ReportRepository.Create(ctx, report)
}

func newContendedService(t *testing.T, collisions int) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	log := zerolog.Nop()
	notifSvc := notification.NewService(nil, &log, nil)
	repo := &contendedReportRepo{ReportRepository: store.Reports(), collisions: collisions}
	svc := NewService(repo, store.Prescriptions(), store.Users(),
		store.Appointments(), notifSvc, &log)
	return svc, store
}

func TestCreateReportRetriesIDCollision(t *testing.T) {
	svc, store := newContendedService(t, reportIDRetries-1)
	doctor, patient := seedPair(t, store)

	report, err := svc.CreateReport(context.Background(), doctor.ID, &model.CreateReportRequest{
		PatientID: patient.ID,
		Type:      model.ReportTypeLab,
		Title:     "Blood panel",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, report.ReportID)
}

func TestCreateReportIDContentionExhausted(t *testing.T) {
	svc, store := newContendedService(t, reportIDRetries)
	doctor, patient := seedPair(t, store)

	_, err := svc.CreateReport(context.Background(), doctor.ID, &model.CreateReportRequest{
		PatientID: patient.ID,
		Type:      model.ReportTypeLab,
		Title:     "Blood panel",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}
