package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/hospital-api/internal/model"
	"github.com/medicore/hospital-api/internal/repository"
)

type reportRepo struct {
	s *Store
}

func (r *reportRepo) Create(_ context.Context, report *model.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	year := time.Now().Year()
	r.s.reportSeq[year]++
	report.ReportID = fmt.Sprintf("RPT-%d-%03d", year, r.s.reportSeq[year])

	stamp(&report.Base)
	cp := *report
	r.s.reports[report.ID] = &cp
	return nil
}

func (r *reportRepo) Get(_ context.Context, id uuid.UUID) (*model.Report, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	report, ok := r.s.reports[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *report
	return &cp, nil
}

func (r *reportRepo) Update(_ context.Context, report *model.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reports[report.ID]; !ok {
		return repository.ErrNotFound
	}
	report.UpdatedAt = time.Now()
	cp := *report
	r.s.reports[report.ID] = &cp
	return nil
}

func (r *reportRepo) list(match func(*model.Report) bool, limit int) []*model.Report {
	reports := []*model.Report{}
	for _, report := range r.s.reports {
		if match(report) {
			cp := *report
			reports = append(reports, &cp)
		}
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	return reports
}

func (r *reportRepo) ListForPatient(_ context.Context, patientID uuid.UUID, limit int) ([]*model.Report, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.list(func(rep *model.Report) bool { return rep.PatientID == patientID }, limit), nil
}

func (r *reportRepo) ListForDoctor(_ context.Context, doctorID uuid.UUID, limit int) ([]*model.Report, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.list(func(rep *model.Report) bool { return rep.DoctorID == doctorID }, limit), nil
}

func (r *reportRepo) CountForPatient(_ context.Context, patientID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, report := range r.s.reports {
		if report.PatientID == patientID {
			count++
		}
	}
	return count, nil
}
