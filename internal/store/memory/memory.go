// Package memory provides an in-memory store.Store used by tests and
// by the memory backend for running without a database file.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type Store struct {
	mu       sync.RWMutex
	users    map[string]core.User
	incomes  map[string]core.Income
	expenses map[string]core.Expense
}

var _ store.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		users:    make(map[string]core.User),
		incomes:  make(map[string]core.Income),
		expenses: make(map[string]core.Expense),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) CreateUser(_ context.Context, u core.User) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := core.NormalizeEmail(u.Email)
	for _, existing := range s.users {
		if existing.Email == email {
			return core.User{}, store.ErrEmailTaken
		}
	}

	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.Email = email
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = core.NormalizeEmail(email)
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return core.User{}, store.ErrNotFound
}

func (s *Store) GetUserByID(_ context.Context, id string) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return core.User{}, store.ErrNotFound
	}
	return u, nil
}

func (s *Store) CreateIncome(_ context.Context, in core.Income) (core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	in.ID = uuid.NewString()
	in.CreatedAt = now
	in.UpdatedAt = now
	s.incomes[in.ID] = in
	return in, nil
}

func (s *Store) GetIncome(_ context.Context, owner, id string) (core.Income, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	in, ok := s.incomes[id]
	if !ok || in.Owner != owner {
		return core.Income{}, store.ErrNotFound
	}
	return in, nil
}

func (s *Store) ListIncomes(_ context.Context, owner string, limit int) ([]core.Income, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []core.Income
	for _, in := range s.incomes {
		if in.Owner == owner {
			items = append(items, in)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.After(items[j].Date)
		}
		return strings.Compare(items[i].ID, items[j].ID) < 0
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) ListIncomesBetween(_ context.Context, owner string, from, to time.Time) ([]core.Income, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []core.Income
	for _, in := range s.incomes {
		if in.Owner != owner {
			continue
		}
		if in.Date.Before(from) || in.Date.After(to) {
			continue
		}
		items = append(items, in)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Date.Before(items[j].Date)
	})
	return items, nil
}

func (s *Store) UpdateIncome(_ context.Context, in core.Income) (core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.incomes[in.ID]
	if !ok || existing.Owner != in.Owner {
		return core.Income{}, store.ErrNotFound
	}
	in.CreatedAt = existing.CreatedAt
	in.UpdatedAt = time.Now().UTC()
	s.incomes[in.ID] = in
	return in, nil
}

func (s *Store) DeleteIncome(_ context.Context, owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, ok := s.incomes[id]
	if !ok || in.Owner != owner {
		return store.ErrNotFound
	}
	delete(s.incomes, id)
	return nil
}

func (s *Store) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	e.ID = uuid.NewString()
	e.CreatedAt = now
	e.UpdatedAt = now
	s.expenses[e.ID] = e
	return e, nil
}

func (s *Store) GetExpense(_ context.Context, owner, id string) (core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.expenses[id]
	if !ok || e.Owner != owner {
		return core.Expense{}, store.ErrNotFound
	}
	return e, nil
}

func (s *Store) ListExpenses(_ context.Context, owner string, limit int) ([]core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []core.Expense
	for _, e := range s.expenses {
		if e.Owner == owner {
			items = append(items, e)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.After(items[j].Date)
		}
		return strings.Compare(items[i].ID, items[j].ID) < 0
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) ListExpensesBetween(_ context.Context, owner string, from, to time.Time) ([]core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []core.Expense
	for _, e := range s.expenses {
		if e.Owner != owner {
			continue
		}
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		items = append(items, e)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Date.Before(items[j].Date)
	})
	return items, nil
}

func (s *Store) UpdateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.expenses[e.ID]
	if !ok || existing.Owner != e.Owner {
		return core.Expense{}, store.ErrNotFound
	}
	e.CreatedAt = existing.CreatedAt
	e.UpdatedAt = time.Now().UTC()
	s.expenses[e.ID] = e
	return e, nil
}

func (s *Store) DeleteExpense(_ context.Context, owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.expenses[id]
	if !ok || e.Owner != owner {
		return store.ErrNotFound
	}
	delete(s.expenses, id)
	return nil
}
