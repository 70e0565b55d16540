package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/medicore/hospital-api/internal/model"
	"github.com/medicore/hospital-api/internal/repository"
)

type prescriptionRepo struct {
	s *Store
}

func (r *prescriptionRepo) Create(_ context.Context, p *model.Prescription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stamp(&p.Base)
	cp := *p
	r.s.prescriptions[p.ID] = &cp
	return nil
}

func (r *prescriptionRepo) Get(_ context.Context, id uuid.UUID) (*model.Prescription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.prescriptions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *prescriptionRepo) list(match func(*model.Prescription) bool) []*model.Prescription {
	prescriptions := []*model.Prescription{}
	for _, p := range r.s.prescriptions {
		if match(p) {
			cp := *p
			prescriptions = append(prescriptions, &cp)
		}
	}
	sort.Slice(prescriptions, func(i, j int) bool {
		return prescriptions[i].CreatedAt.After(prescriptions[j].CreatedAt)
	})
	return prescriptions
}

func (r *prescriptionRepo) ListForPatient(_ context.Context, patientID uuid.UUID) ([]*model.Prescription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.list(func(p *model.Prescription) bool { return p.PatientID == patientID }), nil
}

func (r *prescriptionRepo) ListForDoctor(_ context.Context, doctorID uuid.UUID) ([]*model.Prescription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.list(func(p *model.Prescription) bool { return p.DoctorID == doctorID }), nil
}
