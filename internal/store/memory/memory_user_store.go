package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/RezaEskandarii/recordgrid/internal/query"
	"github.com/RezaEskandarii/recordgrid/internal/state"
	"github.com/RezaEskandarii/recordgrid/internal/store"
	"github.com/RezaEskandarii/recordgrid/types"
	"github.com/google/uuid"
)

type memoryUserStore struct {
	mu    sync.RWMutex
	users map[string]types.User
	now   func() time.Time
}

// NewMemoryUserStore keeps users in process memory. It is meant for
// development and tests.
func NewMemoryUserStore() store.UserStore {
	return &memoryUserStore{users: map[string]types.User{}, now: time.Now}
}

func (s *memoryUserStore) List(_ context.Context, req query.ListRequest) (*types.PageResult[types.User], error) {
	s.mu.RLock()
	matched := make([]types.User, 0, len(s.users))
	for _, u := range s.users {
		if matches(u, req) {
			matched = append(matched, u)
		}
	}
	s.mu.RUnlock()

	field := store.SortField(req.SortBy)
	desc := req.SortDir == query.Desc
	sort.SliceStable(matched, func(i, j int) bool {
		c := compare(matched[i], matched[j], field)
		if c == 0 {
			c = strings.Compare(matched[i].ID, matched[j].ID)
		}
		if desc {
			return c > 0
		}
		return c < 0
	})

	size := req.Size
	if size <= 0 {
		size = 10
	}
	// pages past the end, or large enough to overflow, are empty
	start := len(matched)
	if req.Page >= 0 && req.Page <= len(matched)/size {
		start = req.Page * size
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}

	items := make([]types.User, end-start)
	copy(items, matched[start:end])
	return &types.PageResult[types.User]{
		Items:      items,
		TotalCount: len(matched),
		PageIndex:  req.Page,
		PageSize:   size,
	}, nil
}

func (s *memoryUserStore) Get(_ context.Context, id string) (*types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *memoryUserStore) Create(_ context.Context, in types.CreateUser) (*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, in.Username) || strings.EqualFold(u.Email, in.Email) {
			return nil, store.ErrConflict
		}
	}

	u := types.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		Telephone:    in.Telephone,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Active:       in.Active,
		TypeUser:     types.UserTypes{store.NormalizeType(in.TypeUser)},
		DateCreation: types.NewTimestamp(s.now().UTC()),
	}
	s.users[u.ID] = u
	return &u, nil
}

func (s *memoryUserStore) Update(_ context.Context, id string, patch map[string]any) (*types.User, error) {
	assignments, err := store.NormalizePatch(patch)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	for _, a := range assignments {
		switch a.Field {
		case "username":
			u.Username = a.Value.(string)
		case "email":
			u.Email = a.Value.(string)
		case "firstName":
			u.FirstName = a.Value.(string)
		case "lastName":
			u.LastName = a.Value.(string)
		case "telephone":
			u.Telephone = a.Value.(string)
		case "active":
			u.Active = a.Value.(bool)
		case "typeUser":
			u.TypeUser = types.UserTypes{a.Value.(string)}
		}
	}
	for otherID, other := range s.users {
		if otherID != id && (strings.EqualFold(other.Username, u.Username) || strings.EqualFold(other.Email, u.Email)) {
			return nil, store.ErrConflict
		}
	}
	s.users[id] = u
	return &u, nil
}

func (s *memoryUserStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *memoryUserStore) Stats(_ context.Context, now time.Time) (types.UserStats, error) {
	day, week, month := store.StatsWindows(now)
	stats := types.UserStats{Breakdown: map[string]int{
		string(state.TypeAdmin):    0,
		string(state.TypeManager):  0,
		string(state.TypeCustomer): 0,
	}}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		stats.Total++
		if u.Active {
			stats.Active++
		}
		created := u.DateCreation.AsTime()
		if !created.Before(day) {
			stats.Today++
		}
		if !created.Before(week) {
			stats.ThisWeek++
		}
		if !created.Before(month) {
			stats.ThisMonth++
		}
		stats.Breakdown[u.TypeUser.First()]++
	}
	stats.Inactive = stats.Total - stats.Active
	stats.ActivePercentage = store.Percentage(stats.Active, stats.Total)
	return stats, nil
}

func matches(u types.User, req query.ListRequest) bool {
	if active, ok := store.StatusFilter(req.Status); ok && u.Active != active {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(req.Search))
	if term == "" {
		return true
	}
	for _, v := range []string{u.Username, u.Email, u.FirstName, u.LastName, u.Telephone} {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

func compare(a, b types.User, field string) int {
	switch field {
	case "username":
		return strings.Compare(strings.ToLower(a.Username), strings.ToLower(b.Username))
	case "email":
		return strings.Compare(strings.ToLower(a.Email), strings.ToLower(b.Email))
	case "firstName":
		return strings.Compare(strings.ToLower(a.FirstName), strings.ToLower(b.FirstName))
	case "lastName":
		return strings.Compare(strings.ToLower(a.LastName), strings.ToLower(b.LastName))
	case "telephone":
		return strings.Compare(a.Telephone, b.Telephone)
	case "typeUser":
		return strings.Compare(a.TypeUser.First(), b.TypeUser.First())
	case "active":
		switch {
		case a.Active == b.Active:
			return 0
		case a.Active:
			return 1
		}
		return -1
	}
	return a.DateCreation.AsTime().Compare(b.DateCreation.AsTime())
}
