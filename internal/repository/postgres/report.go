package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/hospital-api/internal/model"
	"github.com/medicore/hospital-api/internal/repository"
)

const reportColumns = `
	id, report_id, patient_id, doctor_id, appointment_id,
	type, title, diagnosis, status, vitals, test_results,
	created_at, updated_at
`

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	// report_id is derived inside the insert from this year's sequence, so
	// the identifier is assigned exactly once and never re-issued.
	query := `
		INSERT INTO reports (
			id, report_id, patient_id, doctor_id, appointment_id,
			type, title, diagnosis, status, vitals, test_results,
			created_at, updated_at
		)
		SELECT $1,
			   'RPT-' || $2::text || '-' || LPAD((COUNT(*) + 1)::text, 3, '0'),
			   $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		FROM reports
		WHERE report_id LIKE 'RPT-' || $2::text || '-%'
		RETURNING report_id
	`
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.CreatedAt = time.Now()
	report.UpdatedAt = time.Now()
	if report.Status == "" {
		report.Status = model.ReportStatusDraft
	}

	year := report.CreatedAt.Year()
	err := r.db.GetContext(ctx, &report.ReportID, query,
		report.ID, year, report.PatientID, report.DoctorID, report.AppointmentID,
		report.Type, report.Title, report.Diagnosis, report.Status,
		report.Vitals, report.TestResults,
		report.CreatedAt, report.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", mapError(err))
	}
	return nil
}

func (r *reportRepository) Get(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	var report model.Report
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		return nil, fmt.Errorf("failed to get report: %w", mapError(err))
	}
	return &report, nil
}

func (r *reportRepository) Update(ctx context.Context, report *model.Report) error {
	query := `
		UPDATE reports
		SET title = $1, diagnosis = $2, status = $3, vitals = $4,
			test_results = $5, updated_at = $6
		WHERE id = $7
	`
	report.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		report.Title, report.Diagnosis, report.Status,
		report.Vitals, report.TestResults, report.UpdatedAt, report.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *reportRepository) ListForPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]*model.Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM reports
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`
	args := []interface{}{patientID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	reports := []*model.Report{}
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patient reports: %w", err)
	}
	return reports, nil
}

func (r *reportRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID, limit int) ([]*model.Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM reports
		WHERE doctor_id = $1
		ORDER BY created_at DESC
	`
	args := []interface{}{doctorID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	reports := []*model.Report{}
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list doctor reports: %w", err)
	}
	return reports, nil
}

func (r *reportRepository) CountForPatient(ctx context.Context, patientID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM reports WHERE patient_id = $1`, patientID)
	if err != nil {
		return 0, fmt.Errorf("failed to count patient reports: %w", err)
	}
	return count, nil
}
