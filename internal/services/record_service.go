// Package services orchestrates record mutations across the store and
// the event broker. Writes go to the store first; the matching event is
// published best-effort afterwards, so a broker outage never fails the
// request that triggered it.
package services

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

// EventPublisher is the slice of the events client the service needs.
// A nil publisher disables event publishing entirely.
type EventPublisher interface {
	PublishRecordEvent(ctx context.Context, event *events.RecordEvent) error
	Close() error
}

type RecordService struct {
	store     store.Store
	publisher EventPublisher
	logger    *log.Logger
}

func NewRecordService(s store.Store, publisher EventPublisher, logger *log.Logger) *RecordService {
	return &RecordService{
		store:     s,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentEvents),
	}
}

func (s *RecordService) CreateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	if in.Currency == "" {
		in.Currency = core.DefaultCurrency
	}
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}

	created, err := s.store.CreateIncome(ctx, in)
	if err != nil {
		return core.Income{}, fmt.Errorf("create income: %w", err)
	}

	s.publish(ctx, events.NewRecordEvent(events.KindIncome, created.ID, created.Owner, events.ActionCreated))
	return created, nil
}

func (s *RecordService) GetIncome(ctx context.Context, owner, id string) (core.Income, error) {
	return s.store.GetIncome(ctx, owner, id)
}

func (s *RecordService) ListIncomes(ctx context.Context, owner string, limit int) ([]core.Income, error) {
	return s.store.ListIncomes(ctx, owner, limit)
}

func (s *RecordService) UpdateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	if in.Currency == "" {
		in.Currency = core.DefaultCurrency
	}
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}

	updated, err := s.store.UpdateIncome(ctx, in)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return core.Income{}, err
		}
		return core.Income{}, fmt.Errorf("update income: %w", err)
	}

	s.publish(ctx, events.NewRecordEvent(events.KindIncome, updated.ID, updated.Owner, events.ActionUpdated))
	return updated, nil
}

func (s *RecordService) DeleteIncome(ctx context.Context, owner, id string) error {
	if err := s.store.DeleteIncome(ctx, owner, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete income: %w", err)
	}

	s.publish(ctx, events.NewRecordEvent(events.KindIncome, id, owner, events.ActionDeleted))
	return nil
}

func (s *RecordService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.Currency == "" {
		e.Currency = core.DefaultCurrency
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	created, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	s.publish(ctx, events.NewRecordEvent(events.KindExpense, created.ID, created.Owner, events.ActionCreated))
	return created, nil
}

func (s *RecordService) GetExpense(ctx context.Context, owner, id string) (core.Expense, error) {
	return s.store.GetExpense(ctx, owner, id)
}

func (s *RecordService) ListExpenses(ctx context.Context, owner string, limit int) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx, owner, limit)
}

func (s *RecordService) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.Currency == "" {
		e.Currency = core.DefaultCurrency
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	updated, err := s.store.UpdateExpense(ctx, e)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return core.Expense{}, err
		}
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}

	s.publish(ctx, events.NewRecordEvent(events.KindExpense, updated.ID, updated.Owner, events.ActionUpdated))
	return updated, nil
}

func (s *RecordService) DeleteExpense(ctx context.Context, owner, id string) error {
	if err := s.store.DeleteExpense(ctx, owner, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete expense: %w", err)
	}

	s.publish(ctx, events.NewRecordEvent(events.KindExpense, id, owner, events.ActionDeleted))
	return nil
}

func (s *RecordService) publish(ctx context.Context, event *events.RecordEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRecordEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish record event",
			"kind", event.Kind,
			log.FieldRecordID, event.ID,
			"action", event.Action,
			"error", err)
	}
}

// Close releases the store and the event publisher.
func (s *RecordService) Close() error {
	var errs []error
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: %w", err))
		}
	}
	return errors.Join(errs...)
}
