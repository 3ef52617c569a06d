package repositories

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"tiyende/internal/domain"
	"tiyende/internal/domain/models"
)

// MemoryStore keeps every entity in process memory. Ids come from per-entity counters that only move forward,
// so a deleted id is never handed out again. Each call is atomic under mu.
type MemoryStore struct {
	mu  sync.RWMutex
	now func() time.Time

	users      map[int64]models.User
	vendors    map[int64]models.Vendor
	routes     map[int64]models.Route
	tickets    map[int64]models.Ticket
	settings   map[int64]models.Setting
	activities []models.Activity

	userSeq, vendorSeq, routeSeq, ticketSeq, settingSeq, activitySeq int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:      time.Now,
		users:    map[int64]models.User{},
		vendors:  map[int64]models.Vendor{},
		routes:   map[int64]models.Route{},
		tickets:  map[int64]models.Ticket{},
		settings: map[int64]models.Setting{},
	}
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
func (s *MemoryStore) Close() error               { return nil }

// sortedValues returns map values ordered by id, i.e. insertion order.
func sortedValues[T any](m map[int64]T, keep func(T) bool) []T {
	ids := slices.Sorted(maps.Keys(m))
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		v := m[id]
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// ----- users -----

func (s *MemoryStore) GetUser(_ context.Context, id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, domain.NotFoundError{Resource: "User"}
	}
	return u, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, domain.NotFoundError{Resource: "User"}
}

func (s *MemoryStore) ListUsers(context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.users, nil), nil
}

func (s *MemoryStore) usernameTaken(username string, exceptID int64) bool {
	for id, u := range s.users {
		if id != exceptID && u.Username == username {
			return true
		}
	}
	return false
}

func (s *MemoryStore) CreateUser(_ context.Context, u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usernameTaken(u.Username, 0) {
		return models.User{}, errUsernameTaken
	}
	s.userSeq++
	u.ID = s.userSeq
	u.LastLogin = nil
	u.Token = nil
	s.users[u.ID] = u
	return u, nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, id int64, patch models.UserPatch) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, domain.NotFoundError{Resource: "User"}
	}
	if patch.Username.Set && s.usernameTaken(patch.Username.Value, id) {
		return models.User{}, errUsernameTaken
	}
	patch.ApplyTo(&u)
	s.users[id] = u
	return u, nil
}

func (s *MemoryStore) SetUserToken(_ context.Context, id int64, token *string, loginAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.NotFoundError{Resource: "User"}
	}
	if token != nil {
		t := *token
		u.Token = &t
	} else {
		u.Token = nil
	}
	if loginAt != nil {
		at := *loginAt
		u.LastLogin = &at
	}
	s.users[id] = u
	return nil
}

func (s *MemoryStore) DeleteUser(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	delete(s.users, id)
	return true, nil
}

// ----- vendors -----

func (s *MemoryStore) GetVendor(_ context.Context, id int64) (models.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vendors[id]
	if !ok {
		return models.Vendor{}, domain.NotFoundError{Resource: "Vendor"}
	}
	return v, nil
}

func (s *MemoryStore) ListVendors(context.Context) ([]models.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.vendors, nil), nil
}

func (s *MemoryStore) CreateVendor(_ context.Context, v models.Vendor) (models.Vendor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vendorSeq++
	v.ID = s.vendorSeq
	if v.CreatedAt.IsZero() {
		v.CreatedAt = s.now()
	}
	s.vendors[v.ID] = v
	return v, nil
}

func (s *MemoryStore) UpdateVendor(_ context.Context, id int64, patch models.VendorPatch) (models.Vendor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vendors[id]
	if !ok {
		return models.Vendor{}, domain.NotFoundError{Resource: "Vendor"}
	}
	patch.ApplyTo(&v)
	s.vendors[id] = v
	return v, nil
}

func (s *MemoryStore) DeleteVendor(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vendors[id]; !ok {
		return false, nil
	}
	delete(s.vendors, id)
	return true, nil
}

// ----- routes -----

func cloneRoute(r models.Route) models.Route {
	r.DaysOfWeek = slices.Clone(r.DaysOfWeek)
	return r
}

func (s *MemoryStore) GetRoute(_ context.Context, id int64) (models.Route, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.routes[id]
	if !ok {
		return models.Route{}, domain.NotFoundError{Resource: "Route"}
	}
	return cloneRoute(r), nil
}

func (s *MemoryStore) ListRoutes(context.Context) ([]models.Route, error) {
	return s.listRoutes(nil)
}

func (s *MemoryStore) ListRoutesByVendor(_ context.Context, vendorID int64) ([]models.Route, error) {
	return s.listRoutes(func(r models.Route) bool { return r.VendorID == vendorID })
}

func (s *MemoryStore) listRoutes(keep func(models.Route) bool) ([]models.Route, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := sortedValues(s.routes, keep)
	for i := range out {
		out[i] = cloneRoute(out[i])
	}
	return out, nil
}

func (s *MemoryStore) CreateRoute(_ context.Context, r models.Route) (models.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routeSeq++
	r = cloneRoute(r)
	r.ID = s.routeSeq
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	s.routes[r.ID] = r
	return cloneRoute(r), nil
}

func (s *MemoryStore) UpdateRoute(_ context.Context, id int64, patch models.RoutePatch) (models.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.routes[id]
	if !ok {
		return models.Route{}, domain.NotFoundError{Resource: "Route"}
	}
	patch.ApplyTo(&r)
	r = cloneRoute(r)
	s.routes[id] = r
	return cloneRoute(r), nil
}

func (s *MemoryStore) DeleteRoute(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.routes[id]; !ok {
		return false, nil
	}
	delete(s.routes, id)
	return true, nil
}

// ----- tickets -----

func (s *MemoryStore) GetTicket(_ context.Context, id int64) (models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tickets[id]
	if !ok {
		return models.Ticket{}, domain.NotFoundError{Resource: "Ticket"}
	}
	return t, nil
}

func (s *MemoryStore) GetTicketByReference(_ context.Context, reference string) (models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tickets {
		if t.BookingReference == reference {
			return t, nil
		}
	}
	return models.Ticket{}, domain.NotFoundError{Resource: "Ticket"}
}

func (s *MemoryStore) ListTickets(context.Context) ([]models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.tickets, nil), nil
}

func (s *MemoryStore) ListTicketsByRoute(_ context.Context, routeID int64) ([]models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.tickets, func(t models.Ticket) bool { return t.RouteID == routeID }), nil
}

func (s *MemoryStore) ListTicketsByVendor(_ context.Context, vendorID int64) ([]models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.tickets, func(t models.Ticket) bool { return t.VendorID == vendorID }), nil
}

func (s *MemoryStore) CreateTicket(_ context.Context, t models.Ticket) (models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.tickets {
		if existing.BookingReference == t.BookingReference {
			return models.Ticket{}, errReferenceTaken
		}
	}
	s.ticketSeq++
	t.ID = s.ticketSeq
	if t.BookingDate.IsZero() {
		t.BookingDate = s.now()
	}
	s.tickets[t.ID] = t
	return t, nil
}

func (s *MemoryStore) UpdateTicket(_ context.Context, id int64, patch models.TicketPatch) (models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return models.Ticket{}, domain.NotFoundError{Resource: "Ticket"}
	}
	patch.ApplyTo(&t)
	s.tickets[id] = t
	return t, nil
}

// ----- settings -----

func (s *MemoryStore) GetSetting(_ context.Context, name string) (models.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.settings {
		if st.Name == name {
			return st, nil
		}
	}
	return models.Setting{}, domain.NotFoundError{Resource: "Setting"}
}

func (s *MemoryStore) ListSettings(context.Context) ([]models.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.settings, nil), nil
}

func (s *MemoryStore) UpsertSetting(_ context.Context, name, value string) (models.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, st := range s.settings {
		if st.Name == name {
			st.Value = value
			st.UpdatedAt = s.now()
			s.settings[id] = st
			return st, nil
		}
	}
	s.settingSeq++
	st := models.Setting{ID: s.settingSeq, Name: name, Value: value, UpdatedAt: s.now()}
	s.settings[st.ID] = st
	return st, nil
}

// ----- activities -----

func cloneActivity(a models.Activity) models.Activity {
	if a.Details != nil {
		a.Details = maps.Clone(a.Details)
	}
	if a.UserID != nil {
		id := *a.UserID
		a.UserID = &id
	}
	return a
}

func (s *MemoryStore) CreateActivity(_ context.Context, a models.Activity) (models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activitySeq++
	a = cloneActivity(a)
	a.ID = s.activitySeq
	if a.Timestamp.IsZero() {
		a.Timestamp = s.now()
	}
	if a.Details == nil {
		a.Details = models.Details{}
	}
	s.activities = append(s.activities, a)
	return cloneActivity(a), nil
}

func (s *MemoryStore) ListActivities(_ context.Context, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = domain.DefaultActivityLimit
	}
	s.mu.RLock()
	sorted := make([]models.Activity, len(s.activities))
	copy(sorted, s.activities)
	s.mu.RUnlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].ID > sorted[j].ID
		}
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	for i := range sorted {
		sorted[i] = cloneActivity(sorted[i])
	}
	return sorted, nil
}
