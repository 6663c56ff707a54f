package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/log"
	"fintrack/internal/store"
	"fintrack/internal/store/memory"
)

type fakePublisher struct {
	published []*events.RecordEvent
	err       error
	closed    bool
}

func (f *fakePublisher) PublishRecordEvent(_ context.Context, event *events.RecordEvent) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, event)
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func newTestService(publisher EventPublisher) *RecordService {
	logger := log.New(log.Config{Level: slog.LevelError})
	return NewRecordService(memory.NewStore(), publisher, logger)
}

func validIncome() core.Income {
	return core.Income{
		Owner:     "alice",
		Source:    "Salary",
		Amount:    decimal.NewFromInt(3000),
		Currency:  core.USD,
		Frequency: core.Monthly,
		Date:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func validExpense() core.Expense {
	return core.Expense{
		Owner:    "alice",
		Category: "Groceries",
		Amount:   decimal.NewFromFloat(75.50),
		Currency: core.USD,
		Date:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateIncomePublishesEvent(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestService(pub)
	ctx := context.Background()

	created, err := svc.CreateIncome(ctx, validIncome())
	if err != nil {
		t.Fatalf("CreateIncome() error = %v", err)
	}
	if created.ID == "" {
		t.Error("CreateIncome() did not assign an ID")
	}

	if len(pub.published) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.published))
	}
	event := pub.published[0]
	if event.Kind != events.KindIncome || event.Action != events.ActionCreated {
		t.Errorf("event = %s/%s, want income/created", event.Kind, event.Action)
	}
	if event.ID != created.ID {
		t.Errorf("event ID = %q, want %q", event.ID, created.ID)
	}
}

func TestCreateIncomeDefaultsCurrency(t *testing.T) {
	svc := newTestService(nil)

	in := validIncome()
	in.Currency = ""
	created, err := svc.CreateIncome(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateIncome() error = %v", err)
	}
	if created.Currency != core.DefaultCurrency {
		t.Errorf("Currency = %q, want %q", created.Currency, core.DefaultCurrency)
	}
}

func TestCreateIncomeRejectsInvalid(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestService(pub)

	in := validIncome()
	in.Amount = decimal.NewFromInt(-1)
	if _, err := svc.CreateIncome(context.Background(), in); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("CreateIncome() error = %v, want ErrInvalidAmount", err)
	}
	if len(pub.published) != 0 {
		t.Errorf("published %d events for invalid record, want 0", len(pub.published))
	}
}

func TestCreateExpenseSucceedsWhenPublishFails(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := newTestService(pub)

	created, err := svc.CreateExpense(context.Background(), validExpense())
	if err != nil {
		t.Fatalf("CreateExpense() error = %v, want nil despite publish failure", err)
	}

	got, err := svc.GetExpense(context.Background(), "alice", created.ID)
	if err != nil {
		t.Fatalf("GetExpense() error = %v", err)
	}
	if !got.Amount.Equal(decimal.NewFromFloat(75.50)) {
		t.Errorf("Amount = %s, want 75.5", got.Amount)
	}
}

func TestUpdateIncomeNotFound(t *testing.T) {
	svc := newTestService(nil)

	in := validIncome()
	in.ID = "missing"
	if _, err := svc.UpdateIncome(context.Background(), in); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateIncome() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteExpensePublishesEvent(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestService(pub)
	ctx := context.Background()

	created, err := svc.CreateExpense(ctx, validExpense())
	if err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}
	if err := svc.DeleteExpense(ctx, "alice", created.ID); err != nil {
		t.Fatalf("DeleteExpense() error = %v", err)
	}

	if len(pub.published) != 2 {
		t.Fatalf("published %d events, want 2", len(pub.published))
	}
	last := pub.published[1]
	if last.Kind != events.KindExpense || last.Action != events.ActionDeleted {
		t.Errorf("event = %s/%s, want expense/deleted", last.Kind, last.Action)
	}
}

func TestCloseReleasesPublisher(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestService(pub)

	if err := svc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !pub.closed {
		t.Error("Close() did not close the publisher")
	}
}
