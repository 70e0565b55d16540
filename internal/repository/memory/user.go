package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/medicore/hospital-api/internal/model"
	"github.com/medicore/hospital-api/internal/repository"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	stamp(&user.Base)
	r.s.users[user.ID] = copyUser(user)
	return nil
}

func (r *userRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) Update(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	stamp(&user.Base)
	r.s.users[user.ID] = copyUser(user)
	return nil
}

func (r *userRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *userRepo) List(_ context.Context, filters *model.UserFilters) ([]*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := []*model.User{}
	for _, u := range r.s.users {
		if filters != nil {
			if filters.Role != "" && u.Role != filters.Role {
				continue
			}
			if filters.Status != "" && u.Status != filters.Status {
				continue
			}
		}
		users = append(users, copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (r *userRepo) CountByRole(_ context.Context, role model.Role, status string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, u := range r.s.users {
		if u.Role == role && (status == "" || u.Status == status) {
			count++
		}
	}
	return count, nil
}

func (r *userRepo) ListDoctorsByDepartment(_ context.Context) (map[string][]*model.DoctorListing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make(map[string][]*model.DoctorListing)
	for _, u := range r.s.users {
		if u.Role != model.RoleDoctor || u.Status != model.UserStatusActive || u.Doctor == nil {
			continue
		}
		if u.Doctor.DepartmentID == nil {
			continue
		}
		dept, ok := r.s.departments[*u.Doctor.DepartmentID]
		if !ok {
			continue
		}
		result[dept.Name] = append(result[dept.Name], &model.DoctorListing{
			ID:              u.ID,
			Name:            u.Name,
			Specialization:  u.Doctor.Specialization,
			ExperienceYears: u.Doctor.ExperienceYears,
			ConsultationFee: u.Doctor.ConsultationFee,
		})
	}
	for _, listings := range result {
		sort.Slice(listings, func(i, j int) bool { return listings[i].Name < listings[j].Name })
	}
	return result, nil
}

func (r *userRepo) CountDoctorsPerDepartment(_ context.Context) ([]*model.DepartmentDoctorCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[uuid.UUID]int)
	for _, u := range r.s.users {
		if u.Role != model.RoleDoctor || u.Status != model.UserStatusActive || u.Doctor == nil {
			continue
		}
		if u.Doctor.DepartmentID != nil {
			counts[*u.Doctor.DepartmentID]++
		}
	}

	result := []*model.DepartmentDoctorCount{}
	for _, d := range r.s.departments {
		if d.Status != model.DepartmentStatusActive {
			continue
		}
		result = append(result, &model.DepartmentDoctorCount{
			Department: d.Name,
			Doctors:    counts[d.ID],
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Department < result[j].Department })
	return result, nil
}
