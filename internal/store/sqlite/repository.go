// Package sqlite implements the store ports on an embedded SQLite
// database. The repository is an explicitly constructed, lifecycle-scoped
// object: callers open it, pass it where needed, and close it on
// shutdown. No package-level connection state.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// Dates are stored as fixed-width RFC 3339 UTC strings so range
// comparisons in SQL stay lexicographic.
const dateFormat = time.RFC3339

type Repository struct {
	db *sql.DB
}

var _ store.Store = (*Repository)(nil)

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.Email = core.NormalizeEmail(u.Email)
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash,
		now.Format(dateFormat), now.Format(dateFormat))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.User{}, store.ErrEmailTaken
		}
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, created_at, updated_at
		 FROM users WHERE email = ?`, core.NormalizeEmail(email)))
}

func (r *Repository) GetUserByID(ctx context.Context, id string) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, created_at, updated_at
		 FROM users WHERE id = ?`, id))
}

func (r *Repository) scanUser(row *sql.Row) (core.User, error) {
	var u core.User
	var createdAt, updatedAt string
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, store.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	if u.CreatedAt, err = time.Parse(dateFormat, createdAt); err != nil {
		return core.User{}, fmt.Errorf("parse user created_at: %w", err)
	}
	if u.UpdatedAt, err = time.Parse(dateFormat, updatedAt); err != nil {
		return core.User{}, fmt.Errorf("parse user updated_at: %w", err)
	}
	return u, nil
}

func (r *Repository) CreateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	now := time.Now().UTC()
	in.ID = uuid.NewString()
	in.CreatedAt = now
	in.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO incomes (id, owner, source, amount, currency, frequency, date, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Owner, in.Source, in.Amount.String(), string(in.Currency), string(in.Frequency),
		in.Date.UTC().Format(dateFormat), in.Description,
		now.Format(dateFormat), now.Format(dateFormat))
	if err != nil {
		return core.Income{}, fmt.Errorf("insert income: %w", err)
	}
	return in, nil
}

func (r *Repository) GetIncome(ctx context.Context, owner, id string) (core.Income, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner, source, amount, currency, frequency, date, description, created_at, updated_at
		 FROM incomes WHERE owner = ? AND id = ?`, owner, id)
	if err != nil {
		return core.Income{}, fmt.Errorf("get income: %w", err)
	}
	defer rows.Close()

	items, err := scanIncomes(rows)
	if err != nil {
		return core.Income{}, err
	}
	if len(items) == 0 {
		return core.Income{}, store.ErrNotFound
	}
	return items[0], nil
}

func (r *Repository) ListIncomes(ctx context.Context, owner string, limit int) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner, source, amount, currency, frequency, date, description, created_at, updated_at
		 FROM incomes WHERE owner = ? ORDER BY date DESC LIMIT ?`, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()
	return scanIncomes(rows)
}

func (r *Repository) ListIncomesBetween(ctx context.Context, owner string, from, to time.Time) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner, source, amount, currency, frequency, date, description, created_at, updated_at
		 FROM incomes WHERE owner = ? AND date >= ? AND date <= ? ORDER BY date ASC`,
		owner, from.UTC().Format(dateFormat), to.UTC().Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("list incomes between: %w", err)
	}
	defer rows.Close()
	return scanIncomes(rows)
}

func (r *Repository) UpdateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE incomes SET source = ?, amount = ?, currency = ?, frequency = ?, date = ?, description = ?, updated_at = ?
		 WHERE owner = ? AND id = ?`,
		in.Source, in.Amount.String(), string(in.Currency), string(in.Frequency),
		in.Date.UTC().Format(dateFormat), in.Description, now.Format(dateFormat),
		in.Owner, in.ID)
	if err != nil {
		return core.Income{}, fmt.Errorf("update income: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.Income{}, store.ErrNotFound
	}
	return r.GetIncome(ctx, in.Owner, in.ID)
}

func (r *Repository) DeleteIncome(ctx context.Context, owner, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM incomes WHERE owner = ? AND id = ?`, owner, id)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	now := time.Now().UTC()
	e.ID = uuid.NewString()
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, owner, category, amount, currency, date, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Owner, e.Category, e.Amount.String(), string(e.Currency),
		e.Date.UTC().Format(dateFormat), e.Notes,
		now.Format(dateFormat), now.Format(dateFormat))
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	return e, nil
}

func (r *Repository) GetExpense(ctx context.Context, owner, id string) (core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner, category, amount, currency, date, notes, created_at, updated_at
		 FROM expenses WHERE owner = ? AND id = ?`, owner, id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	defer rows.Close()

	items, err := scanExpenses(rows)
	if err != nil {
		return core.Expense{}, err
	}
	if len(items) == 0 {
		return core.Expense{}, store.ErrNotFound
	}
	return items[0], nil
}

func (r *Repository) ListExpenses(ctx context.Context, owner string, limit int) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner, category, amount, currency, date, notes, created_at, updated_at
		 FROM expenses WHERE owner = ? ORDER BY date DESC LIMIT ?`, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()
	return scanExpenses(rows)
}

func (r *Repository) ListExpensesBetween(ctx context.Context, owner string, from, to time.Time) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner, category, amount, currency, date, notes, created_at, updated_at
		 FROM expenses WHERE owner = ? AND date >= ? AND date <= ? ORDER BY date ASC`,
		owner, from.UTC().Format(dateFormat), to.UTC().Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("list expenses between: %w", err)
	}
	defer rows.Close()
	return scanExpenses(rows)
}

func (r *Repository) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET category = ?, amount = ?, currency = ?, date = ?, notes = ?, updated_at = ?
		 WHERE owner = ? AND id = ?`,
		e.Category, e.Amount.String(), string(e.Currency),
		e.Date.UTC().Format(dateFormat), e.Notes, now.Format(dateFormat),
		e.Owner, e.ID)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.Expense{}, store.ErrNotFound
	}
	return r.GetExpense(ctx, e.Owner, e.ID)
}

func (r *Repository) DeleteExpense(ctx context.Context, owner, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE owner = ? AND id = ?`, owner, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanIncomes(rows *sql.Rows) ([]core.Income, error) {
	var items []core.Income
	for rows.Next() {
		var in core.Income
		var amount, currency, frequency, date, createdAt, updatedAt string
		if err := rows.Scan(&in.ID, &in.Owner, &in.Source, &amount, &currency, &frequency,
			&date, &in.Description, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		var err error
		if in.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse income amount %q: %w", amount, err)
		}
		in.Currency = core.Currency(currency)
		in.Frequency = core.Frequency(frequency)
		if in.Date, err = time.Parse(dateFormat, date); err != nil {
			return nil, fmt.Errorf("parse income date %q: %w", date, err)
		}
		if in.CreatedAt, err = time.Parse(dateFormat, createdAt); err != nil {
			return nil, fmt.Errorf("parse income created_at: %w", err)
		}
		if in.UpdatedAt, err = time.Parse(dateFormat, updatedAt); err != nil {
			return nil, fmt.Errorf("parse income updated_at: %w", err)
		}
		items = append(items, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incomes: %w", err)
	}
	return items, nil
}

func scanExpenses(rows *sql.Rows) ([]core.Expense, error) {
	var items []core.Expense
	for rows.Next() {
		var e core.Expense
		var amount, currency, date, createdAt, updatedAt string
		if err := rows.Scan(&e.ID, &e.Owner, &e.Category, &amount, &currency,
			&date, &e.Notes, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		var err error
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse expense amount %q: %w", amount, err)
		}
		e.Currency = core.Currency(currency)
		if e.Date, err = time.Parse(dateFormat, date); err != nil {
			return nil, fmt.Errorf("parse expense date %q: %w", date, err)
		}
		if e.CreatedAt, err = time.Parse(dateFormat, createdAt); err != nil {
			return nil, fmt.Errorf("parse expense created_at: %w", err)
		}
		if e.UpdatedAt, err = time.Parse(dateFormat, updatedAt); err != nil {
			return nil, fmt.Errorf("parse expense updated_at: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return items, nil
}
