package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/hospital-api/internal/model"
	"github.com/medicore/hospital-api/internal/repository"
)

type appointmentRepo struct {
	s *Store
}

func sameSlot(a *model.Appointment, doctorID uuid.UUID, date time.Time, slot string) bool {
	y1, m1, d1 := a.AppointmentDate.Date()
	y2, m2, d2 := date.Date()
	return a.DoctorID == doctorID && y1 == y2 && m1 == m2 && d1 == d2 && a.AppointmentTime == slot
}

func (r *appointmentRepo) Create(_ context.Context, apt *model.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.appointments {
		if existing.Status != model.AppointmentStatusCancelled &&
			sameSlot(existing, apt.DoctorID, apt.AppointmentDate, apt.AppointmentTime) {
			return repository.ErrDuplicate
		}
	}
	stamp(&apt.Base)
	r.s.appointments[apt.ID] = copyAppointment(apt)
	return nil
}

func (r *appointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	apt, ok := r.s.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyAppointment(apt), nil
}

func (r *appointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus, notes *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	apt, ok := r.s.appointments[id]
	if !ok {
		return repository.ErrNotFound
	}
	apt.Status = status
	if notes != nil {
		apt.Notes = *notes
	}
	apt.UpdatedAt = time.Now()
	return nil
}

func (r *appointmentRepo) detail(apt *model.Appointment) *model.AppointmentDetail {
	d := &model.AppointmentDetail{Appointment: *copyAppointment(apt)}
	if patient, ok := r.s.users[apt.PatientID]; ok {
		email := patient.Email
		d.PatientEmail = &email
	}
	if doctor, ok := r.s.users[apt.DoctorID]; ok {
		email := doctor.Email
		d.DoctorEmail = &email
	}
	return d
}

func sortNewestFirst(details []*model.AppointmentDetail) {
	sort.Slice(details, func(i, j int) bool {
		if !details[i].AppointmentDate.Equal(details[j].AppointmentDate) {
			return details[i].AppointmentDate.After(details[j].AppointmentDate)
		}
		return details[i].AppointmentTime > details[j].AppointmentTime
	})
}

func sortOldestFirst(details []*model.AppointmentDetail) {
	sort.Slice(details, func(i, j int) bool {
		if !details[i].AppointmentDate.Equal(details[j].AppointmentDate) {
			return details[i].AppointmentDate.Before(details[j].AppointmentDate)
		}
		return details[i].AppointmentTime < details[j].AppointmentTime
	})
}

func matches(apt *model.Appointment, filters *model.AppointmentFilters) bool {
	if filters == nil {
		return true
	}
	if filters.PatientID != uuid.Nil && apt.PatientID != filters.PatientID {
		return false
	}
	if filters.DoctorID != uuid.Nil && apt.DoctorID != filters.DoctorID {
		return false
	}
	if filters.Status != "" && apt.Status != filters.Status {
		return false
	}
	return true
}

func (r *appointmentRepo) List(_ context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	details := []*model.AppointmentDetail{}
	for _, apt := range r.s.appointments {
		if matches(apt, filters) {
			details = append(details, r.detail(apt))
		}
	}
	sortNewestFirst(details)
	if filters != nil && filters.Limit > 0 && len(details) > filters.Limit {
		details = details[:filters.Limit]
	}
	return details, nil
}

func (r *appointmentRepo) ListUpcomingForPatient(_ context.Context, patientID uuid.UUID, from time.Time, limit int) ([]*model.AppointmentDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	details := []*model.AppointmentDetail{}
	for _, apt := range r.s.appointments {
		if apt.PatientID != patientID || apt.AppointmentDate.Before(from) {
			continue
		}
		if apt.Status != model.AppointmentStatusPending && apt.Status != model.AppointmentStatusConfirmed {
			continue
		}
		details = append(details, r.detail(apt))
	}
	sortOldestFirst(details)
	if limit > 0 && len(details) > limit {
		details = details[:limit]
	}
	return details, nil
}

func (r *appointmentRepo) ListForDoctorBetween(_ context.Context, doctorID uuid.UUID, start, end time.Time) ([]*model.AppointmentDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	details := []*model.AppointmentDetail{}
	for _, apt := range r.s.appointments {
		if apt.DoctorID != doctorID {
			continue
		}
		if apt.AppointmentDate.Before(start) || !apt.AppointmentDate.Before(end) {
			continue
		}
		details = append(details, r.detail(apt))
	}
	sortOldestFirst(details)
	return details, nil
}

func (r *appointmentRepo) ListPendingForDoctor(_ context.Context, doctorID uuid.UUID, limit int) ([]*model.AppointmentDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	details := []*model.AppointmentDetail{}
	for _, apt := range r.s.appointments {
		if apt.DoctorID == doctorID && apt.Status == model.AppointmentStatusPending {
			details = append(details, r.detail(apt))
		}
	}
	// Newest request first, same as the created_at DESC ordering in SQL.
	sort.Slice(details, func(i, j int) bool {
		return details[i].CreatedAt.After(details[j].CreatedAt)
	})
	if limit > 0 && len(details) > limit {
		details = details[:limit]
	}
	return details, nil
}

func (r *appointmentRepo) ListDistinctPatients(_ context.Context, doctorID uuid.UUID) ([]*model.PatientSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[uuid.UUID]bool)
	summaries := []*model.PatientSummary{}
	for _, apt := range r.s.appointments {
		if apt.DoctorID != doctorID || apt.Status != model.AppointmentStatusCompleted || seen[apt.PatientID] {
			continue
		}
		seen[apt.PatientID] = true

		summary := &model.PatientSummary{ID: apt.PatientID, Name: apt.PatientName}
		if u, ok := r.s.users[apt.PatientID]; ok {
			summary.Name = u.Name
			summary.Email = u.Email
			if u.Patient != nil {
				age := u.Patient.Age
				gender := u.Patient.Gender
				summary.Age = &age
				summary.Gender = &gender
			}
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, nil
}

func (r *appointmentRepo) Count(_ context.Context, filters *model.AppointmentFilters) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, apt := range r.s.appointments {
		if matches(apt, filters) {
			count++
		}
	}
	return count, nil
}

func (r *appointmentRepo) CountBetween(_ context.Context, doctorID *uuid.UUID, start, end time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, apt := range r.s.appointments {
		if doctorID != nil && apt.DoctorID != *doctorID {
			continue
		}
		if apt.AppointmentDate.Before(start) || !apt.AppointmentDate.Before(end) {
			continue
		}
		count++
	}
	return count, nil
}

func (r *appointmentRepo) CountCompletedBetween(_ context.Context, doctorID uuid.UUID, start, end time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, apt := range r.s.appointments {
		if apt.DoctorID != doctorID || apt.Status != model.AppointmentStatusCompleted {
			continue
		}
		if apt.AppointmentDate.Before(start) || !apt.AppointmentDate.Before(end) {
			continue
		}
		count++
	}
	return count, nil
}

func (r *appointmentRepo) MonthlyCounts(_ context.Context, since time.Time) ([]*model.MonthlyAppointmentCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	buckets := make(map[[2]int]int)
	for _, apt := range r.s.appointments {
		if apt.AppointmentDate.Before(since) {
			continue
		}
		key := [2]int{apt.AppointmentDate.Year(), int(apt.AppointmentDate.Month())}
		buckets[key]++
	}

	counts := []*model.MonthlyAppointmentCount{}
	for key, n := range buckets {
		counts = append(counts, &model.MonthlyAppointmentCount{Year: key[0], Month: key[1], Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Year != counts[j].Year {
			return counts[i].Year < counts[j].Year
		}
		return counts[i].Month < counts[j].Month
	})
	return counts, nil
}
