package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, core.User{Email: "a@example.com", Name: "A", PasswordHash: "h"}); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	_, err := s.CreateUser(ctx, core.User{Email: "A@Example.COM", Name: "B", PasswordHash: "h"})
	if !errors.Is(err, store.ErrEmailTaken) {
		t.Errorf("CreateUser() error = %v, want ErrEmailTaken", err)
	}
}

func TestGetUserByEmailIsCaseInsensitive(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	created, err := s.CreateUser(ctx, core.User{Email: "Who@Example.com", Name: "W", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	got, err := s.GetUserByEmail(ctx, "who@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetUserByEmail() ID = %q, want %q", got.ID, created.ID)
	}
}

func TestIncomeOwnerIsolation(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	in, err := s.CreateIncome(ctx, core.Income{
		Owner:     "alice",
		Source:    "Salary",
		Amount:    decimal.NewFromInt(1000),
		Currency:  core.USD,
		Frequency: core.Monthly,
		Date:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateIncome() error = %v", err)
	}

	if _, err := s.GetIncome(ctx, "bob", in.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetIncome() as other owner error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteIncome(ctx, "bob", in.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("DeleteIncome() as other owner error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetIncome(ctx, "alice", in.ID); err != nil {
		t.Errorf("GetIncome() as owner error = %v", err)
	}
}

func TestListIncomesNewestFirstWithLimit(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		if _, err := s.CreateIncome(ctx, core.Income{
			Owner:     "alice",
			Source:    "Salary",
			Amount:    decimal.NewFromInt(10),
			Currency:  core.USD,
			Frequency: core.Monthly,
			Date:      d,
		}); err != nil {
			t.Fatalf("CreateIncome() error = %v", err)
		}
	}

	items, err := s.ListIncomes(ctx, "alice", 2)
	if err != nil {
		t.Fatalf("ListIncomes() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("ListIncomes() returned %d items, want 2", len(items))
	}
	if !items[0].Date.After(items[1].Date) {
		t.Errorf("ListIncomes() not newest first: %v before %v", items[0].Date, items[1].Date)
	}
}

func TestListExpensesBetweenInclusive(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	dates := []time.Time{
		from,
		to,
		time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		if _, err := s.CreateExpense(ctx, core.Expense{
			Owner:    "alice",
			Category: "Groceries",
			Amount:   decimal.NewFromInt(5),
			Currency: core.USD,
			Date:     d,
		}); err != nil {
			t.Fatalf("CreateExpense() error = %v", err)
		}
	}

	items, err := s.ListExpensesBetween(ctx, "alice", from, to)
	if err != nil {
		t.Fatalf("ListExpensesBetween() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("ListExpensesBetween() returned %d items, want 2", len(items))
	}
	if !items[0].Date.Equal(from) || !items[1].Date.Equal(to) {
		t.Errorf("ListExpensesBetween() not ordered oldest first: %v, %v", items[0].Date, items[1].Date)
	}
}

func TestUpdateIncomePreservesCreatedAt(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	in, err := s.CreateIncome(ctx, core.Income{
		Owner:     "alice",
		Source:    "Salary",
		Amount:    decimal.NewFromInt(1000),
		Currency:  core.USD,
		Frequency: core.Monthly,
		Date:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateIncome() error = %v", err)
	}

	in.Source = "Consulting"
	updated, err := s.UpdateIncome(ctx, in)
	if err != nil {
		t.Fatalf("UpdateIncome() error = %v", err)
	}
	if updated.Source != "Consulting" {
		t.Errorf("UpdateIncome() Source = %q, want %q", updated.Source, "Consulting")
	}
	if !updated.CreatedAt.Equal(in.CreatedAt) {
		t.Errorf("UpdateIncome() changed CreatedAt: %v != %v", updated.CreatedAt, in.CreatedAt)
	}
}
