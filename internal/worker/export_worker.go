// Package worker drives the background export pipeline: record-change
// events mark owners dirty, and a ticker flushes each dirty owner's
// recomputed monthly summary to the spreadsheet.
package worker

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"fintrack/internal/events"
	"fintrack/internal/export"
	"fintrack/internal/log"
	"fintrack/internal/stats"
	"fintrack/internal/store"
)

type ExportWorker struct {
	store  store.Store
	writer export.SummaryWriter
	logger *log.Logger

	mu    sync.Mutex
	dirty map[string]struct{}
}

func NewExportWorker(s store.Store, writer export.SummaryWriter, logger *log.Logger) *ExportWorker {
	return &ExportWorker{
		store:  s,
		writer: writer,
		logger: logger.WithComponent(log.ComponentWorker),
		dirty:  make(map[string]struct{}),
	}
}

// HandleEvent marks the event's owner for the next export flush. It
// never fails: a mark is just a set insert, and dropping one only
// delays that owner until their next change.
func (w *ExportWorker) HandleEvent(event *events.RecordEvent) error {
	if event.Owner == "" {
		w.logger.Warn("skipping event without owner",
			"kind", event.Kind,
			log.FieldRecordID, event.ID)
		return nil
	}

	w.mu.Lock()
	w.dirty[event.Owner] = struct{}{}
	w.mu.Unlock()

	w.logger.Debug("marked owner for export",
		log.FieldOwnerID, event.Owner,
		"kind", event.Kind,
		"action", event.Action)
	return nil
}

// ExportPending recomputes and appends the summary for every owner
// marked since the last flush. Owners whose export fails are re-marked
// so the next tick retries them.
func (w *ExportWorker) ExportPending(ctx context.Context) error {
	w.mu.Lock()
	owners := make([]string, 0, len(w.dirty))
	for owner := range w.dirty {
		owners = append(owners, owner)
	}
	w.dirty = make(map[string]struct{})
	w.mu.Unlock()

	if len(owners) == 0 {
		return nil
	}
	sort.Strings(owners)

	var failed int
	for _, owner := range owners {
		if err := w.exportOwner(ctx, owner); err != nil {
			w.logger.ErrorContext(ctx, "export failed",
				log.FieldOwnerID, owner,
				"error", err)
			w.mu.Lock()
			w.dirty[owner] = struct{}{}
			w.mu.Unlock()
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("export failed for %d of %d owners", failed, len(owners))
	}
	return nil
}

func (w *ExportWorker) exportOwner(ctx context.Context, owner string) error {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(stats.WindowMonths - 1), 0)

	incomes, err := w.store.ListIncomesBetween(ctx, owner, from, now)
	if err != nil {
		return fmt.Errorf("list incomes: %w", err)
	}
	expenses, err := w.store.ListExpensesBetween(ctx, owner, from, now)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}

	incomeSummary := stats.AggregateIncomes(incomes, now)
	expenseSummary := stats.AggregateExpenses(expenses, now)

	if err := w.writer.AppendSummary(ctx, owner, incomeSummary, expenseSummary); err != nil {
		return fmt.Errorf("append summary: %w", err)
	}

	w.logger.InfoContext(ctx, "exported owner summary", log.FieldOwnerID, owner)
	return nil
}

// Run flushes pending exports on the given interval until ctx is done.
func (w *ExportWorker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Info("export worker started", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("export worker stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := w.ExportPending(ctx); err != nil {
				w.logger.ErrorContext(ctx, "export tick failed", "error", err)
			}
		}
	}
}
