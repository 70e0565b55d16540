package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/hospital-api/internal/model"
	"github.com/medicore/hospital-api/internal/repository"
)

type departmentRepo struct {
	s *Store
}

func (r *departmentRepo) Create(_ context.Context, d *model.Department) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.departments {
		if existing.Name == d.Name {
			return repository.ErrDuplicate
		}
	}
	stamp(&d.Base)
	cp := *d
	r.s.departments[d.ID] = &cp
	return nil
}

func (r *departmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.departments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *departmentRepo) Update(_ context.Context, d *model.Department) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.departments[d.ID]; !ok {
		return repository.ErrNotFound
	}
	for _, existing := range r.s.departments {
		if existing.ID != d.ID && existing.Name == d.Name {
			return repository.ErrDuplicate
		}
	}
	d.UpdatedAt = time.Now()
	cp := *d
	r.s.departments[d.ID] = &cp
	return nil
}

func (r *departmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.departments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.departments, id)
	return nil
}

func (r *departmentRepo) List(_ context.Context, status string) ([]*model.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	departments := []*model.Department{}
	for _, d := range r.s.departments {
		if status != "" && d.Status != status {
			continue
		}
		cp := *d
		departments = append(departments, &cp)
	}
	sort.Slice(departments, func(i, j int) bool { return departments[i].Name < departments[j].Name })
	return departments, nil
}

func (r *departmentRepo) ListWithHeadDoctor(ctx context.Context, status string) ([]*model.DepartmentOverview, error) {
	departments, err := r.List(ctx, status)
	if err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	overviews := []*model.DepartmentOverview{}
	for _, d := range departments {
		o := &model.DepartmentOverview{Department: *d}
		if d.HeadDoctorID != nil {
			if u, ok := r.s.users[*d.HeadDoctorID]; ok {
				name := u.Name
				o.HeadDoctorName = &name
			}
		}
		overviews = append(overviews, o)
	}
	return overviews, nil
}

func (r *departmentRepo) Count(_ context.Context, status string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, d := range r.s.departments {
		if status == "" || d.Status == status {
			count++
		}
	}
	return count, nil
}

type roomRepo struct {
	s *Store
}

func (r *roomRepo) Create(_ context.Context, room *model.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.rooms {
		if existing.RoomNumber == room.RoomNumber {
			return repository.ErrDuplicate
		}
	}
	stamp(&room.Base)
	cp := *room
	r.s.rooms[room.ID] = &cp
	return nil
}

func (r *roomRepo) Get(_ context.Context, id uuid.UUID) (*model.Room, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	room, ok := r.s.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *room
	return &cp, nil
}

func (r *roomRepo) Update(_ context.Context, room *model.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.rooms[room.ID]; !ok {
		return repository.ErrNotFound
	}
	room.UpdatedAt = time.Now()
	cp := *room
	r.s.rooms[room.ID] = &cp
	return nil
}

func (r *roomRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.rooms[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.rooms, id)
	return nil
}

func (r *roomRepo) List(_ context.Context) ([]*model.Room, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rooms := []*model.Room{}
	for _, room := range r.s.rooms {
		cp := *room
		rooms = append(rooms, &cp)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].RoomNumber < rooms[j].RoomNumber })
	return rooms, nil
}

func (r *roomRepo) AdjustOccupancy(_ context.Context, id uuid.UUID, delta int) (*model.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	room, ok := r.s.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	next := room.Occupancy + delta
	if next < 0 || next > room.Capacity {
		return nil, repository.ErrConflict
	}
	room.Occupancy = next
	room.UpdatedAt = time.Now()
	cp := *room
	return &cp, nil
}

func (r *roomRepo) Counts(_ context.Context) (int, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	total, occupied := 0, 0
	for _, room := range r.s.rooms {
		total++
		if room.Occupancy > 0 {
			occupied++
		}
	}
	return total, occupied, nil
}

func (r *roomRepo) StatsByType(_ context.Context) ([]*model.RoomTypeStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	byType := make(map[string]*model.RoomTypeStats)
	for _, room := range r.s.rooms {
		stats, ok := byType[room.Type]
		if !ok {
			stats = &model.RoomTypeStats{Type: room.Type}
			byType[room.Type] = stats
		}
		if room.Occupancy > 0 {
			stats.Occupied++
		} else {
			stats.Available++
		}
	}

	result := []*model.RoomTypeStats{}
	for _, stats := range byType {
		result = append(result, stats)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Type < result[j].Type })
	return result, nil
}

func (r *roomRepo) TotalCapacity(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	total := 0
	for _, room := range r.s.rooms {
		total += room.Capacity
	}
	return total, nil
}

type serviceRepo struct {
	s *Store
}

func (r *serviceRepo) Create(_ context.Context, svc *model.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.services {
		if existing.Name == svc.Name {
			return repository.ErrDuplicate
		}
	}
	stamp(&svc.Base)
	cp := *svc
	r.s.services[svc.ID] = &cp
	return nil
}

func (r *serviceRepo) Get(_ context.Context, id uuid.UUID) (*model.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	svc, ok := r.s.services[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *svc
	return &cp, nil
}

func (r *serviceRepo) Update(_ context.Context, svc *model.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.services[svc.ID]; !ok {
		return repository.ErrNotFound
	}
	svc.UpdatedAt = time.Now()
	cp := *svc
	r.s.services[svc.ID] = &cp
	return nil
}

func (r *serviceRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.services[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.services, id)
	return nil
}

func (r *serviceRepo) List(_ context.Context, onlyActiveAvailable bool) ([]*model.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	services := []*model.Service{}
	for _, svc := range r.s.services {
		if onlyActiveAvailable && (svc.Status != model.ServiceStatusActive || !svc.Available) {
			continue
		}
		cp := *svc
		services = append(services, &cp)
	}
	sort.Slice(services, func(i, j int) bool { return services[i].Name < services[j].Name })
	return services, nil
}

func (r *serviceRepo) Count(_ context.Context, status string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, svc := range r.s.services {
		if status == "" || svc.Status == status {
			count++
		}
	}
	return count, nil
}
