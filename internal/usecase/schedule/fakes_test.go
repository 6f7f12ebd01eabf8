package schedule

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BruksfildServices01/home-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/home-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/home-scheduler/internal/models"
	"github.com/BruksfildServices01/home-scheduler/internal/notify"
)

// ======================================================
// Repository em memória
// ======================================================

type memRepo struct {
	mu sync.Mutex

	schedules map[uint]models.Schedule
	users     map[uint]models.User
	addresses map[uint]models.Address
	services  map[uint]models.Service
	nextID    uint

	createErr error
	casCalls  int
}

func newMemRepo() *memRepo {
	return &memRepo{
		schedules: map[uint]models.Schedule{},
		users:     map[uint]models.User{},
		addresses: map[uint]models.Address{},
		services:  map[uint]models.Service{},
		nextID:    100,
	}
}

func (r *memRepo) addUser(u models.User) *memRepo {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.Notification == "" {
		u.Notification = models.NotificationEnabled
	}
	r.users[u.ID] = u
	return r
}

func (r *memRepo) addSchedule(s models.Schedule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schedules[s.ID] = s
}

func (r *memRepo) status(id uint) domain.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.Status(r.schedules[id].Status)
}

func (r *memRepo) snapshot(id uint) models.Schedule {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.schedules[id]
}

func (r *memRepo) GetSchedule(ctx context.Context, id uint) (*models.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schedules[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (r *memRepo) ListSchedules(ctx context.Context, f domain.ListFilter) ([]models.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := map[domain.Status]bool{}
	for _, st := range f.Statuses {
		wanted[st] = true
	}

	var out []models.Schedule
	for _, s := range r.schedules {
		if f.UserID != nil && s.UserID != *f.UserID {
			continue
		}
		if f.ProviderID != nil && (s.ProviderID == nil || *s.ProviderID != *f.ProviderID) {
			continue
		}
		if len(wanted) > 0 && !wanted[domain.Status(s.Status)] {
			continue
		}
		if f.DateFrom != nil && s.Date.Before(*f.DateFrom) {
			continue
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			if f.OrderDesc {
				return a.Date.After(b.Date)
			}
			return a.Date.Before(b.Date)
		}
		if f.OrderDesc {
			return a.Time > b.Time
		}
		return a.Time < b.Time
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *memRepo) CountSchedules(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.schedules)), nil
}

func (r *memRepo) TopServices(ctx context.Context, limit int) ([]domain.ServiceUsage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := map[uint]int64{}
	for _, s := range r.schedules {
		counts[s.ServiceID]++
	}

	var out []domain.ServiceUsage
	for id, n := range counts {
		out = append(out, domain.ServiceUsage{ServiceID: id, Name: r.services[id].Name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ServiceID < out[j].ServiceID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memRepo) CreateSchedule(ctx context.Context, s *models.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	s.ID = r.nextID
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	r.schedules[s.ID] = *s
	return nil
}

func (r *memRepo) UpdateScheduleFields(ctx context.Context, id uint, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.schedules[id]
	if !ok {
		return domain.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "title":
			s.Title = v.(string)
		case "description":
			d := v.(string)
			s.Description = &d
		case "date":
			s.Date = v.(time.Time)
		case "time":
			s.Time = v.(string)
		case "service_id":
			s.ServiceID = v.(uint)
		case "address_id":
			s.AddressID = v.(uint)
		case "status":
			s.Status = v.(string)
		}
	}
	r.schedules[id] = s
	return nil
}

func (r *memRepo) CompareAndSetStatus(ctx context.Context, upd domain.StatusUpdate) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.casCalls++

	s, ok := r.schedules[upd.ScheduleID]
	if !ok {
		return false, nil
	}

	match := false
	for _, from := range upd.From {
		if domain.Status(s.Status) == from {
			match = true
			break
		}
	}
	if !match {
		return false, nil
	}

	s.Status = string(upd.To)
	if upd.ProviderID != nil {
		p := *upd.ProviderID
		s.ProviderID = &p
	}
	r.schedules[s.ID] = s
	return true, nil
}

func (r *memRepo) DeleteSchedule(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schedules[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.schedules, id)
	return nil
}

func (r *memRepo) GetUser(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *memRepo) GetAddress(ctx context.Context, id uint) (*models.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.addresses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (r *memRepo) GetService(ctx context.Context, id uint) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

var _ domain.Repository = (*memRepo)(nil)

// ======================================================
// Notifier / Auditor / Cache
// ======================================================

type skipped struct {
	msg    notify.Message
	reason string
}

type recordingNotifier struct {
	mu       sync.Mutex
	enqueued []notify.Message
	skipped  []skipped
}

func (n *recordingNotifier) Enqueue(msg notify.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enqueued = append(n.enqueued, msg)
}

func (n *recordingNotifier) Skip(msg notify.Message, reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.skipped = append(n.skipped, skipped{msg: msg, reason: reason})
}

func (n *recordingNotifier) sent() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Message(nil), n.enqueued...)
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enqueued = nil
	n.skipped = nil
}

type recordingAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (a *recordingAuditor) Dispatch(ev audit.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}
