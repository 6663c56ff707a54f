// Package store defines the persistence ports for users and financial
// records. Implementations live in the sqlite and memory subpackages;
// everything above this layer depends only on these interfaces.
package store

import (
	"context"
	"errors"
	"time"

	"fintrack/internal/core"
)

var (
	// ErrNotFound is returned when a record does not exist or is not
	// owned by the requesting user.
	ErrNotFound = errors.New("record not found")

	// ErrEmailTaken is returned when signing up with an email that is
	// already registered.
	ErrEmailTaken = errors.New("email already registered")
)

type (
	UserStore interface {
		// CreateUser persists a new user, assigning ID and timestamps.
		CreateUser(ctx context.Context, u core.User) (core.User, error)
		GetUserByEmail(ctx context.Context, email string) (core.User, error)
		GetUserByID(ctx context.Context, id string) (core.User, error)
	}

	IncomeStore interface {
		// CreateIncome persists a new income, assigning ID and timestamps.
		CreateIncome(ctx context.Context, in core.Income) (core.Income, error)
		GetIncome(ctx context.Context, owner, id string) (core.Income, error)
		// ListIncomes returns the owner's incomes newest first, capped at limit.
		ListIncomes(ctx context.Context, owner string, limit int) ([]core.Income, error)
		// ListIncomesBetween returns the owner's incomes dated within
		// [from, to] inclusive, oldest first.
		ListIncomesBetween(ctx context.Context, owner string, from, to time.Time) ([]core.Income, error)
		// UpdateIncome replaces all user-editable fields of an existing record.
		UpdateIncome(ctx context.Context, in core.Income) (core.Income, error)
		DeleteIncome(ctx context.Context, owner, id string) error
	}

	ExpenseStore interface {
		CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
		GetExpense(ctx context.Context, owner, id string) (core.Expense, error)
		ListExpenses(ctx context.Context, owner string, limit int) ([]core.Expense, error)
		ListExpensesBetween(ctx context.Context, owner string, from, to time.Time) ([]core.Expense, error)
		UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
		DeleteExpense(ctx context.Context, owner, id string) error
	}

	// Store is the combined persistence surface the service wires up.
	Store interface {
		UserStore
		IncomeStore
		ExpenseStore
		Close() error
	}
)
