// Package syncer drains the offline completion queue against the server and
// refreshes the local status cache from server truth afterwards. Records are
// replayed strictly in enqueue order with their original event times, so the
// server sees the same history the user produced.
package syncer

import (
	"context"
	"errors"
	"sync"

	"github.com/ritualapp/ritual-cli/internal/api"
	"github.com/ritualapp/ritual-cli/internal/constants"
	"github.com/ritualapp/ritual-cli/internal/logger"
	"github.com/ritualapp/ritual-cli/internal/models"
	"github.com/ritualapp/ritual-cli/internal/storage"
)

// ErrSyncInProgress is returned when a reconciliation pass is already
// running. Callers treat it as "someone else is on it", not a failure.
var ErrSyncInProgress = errors.New("a sync is already in progress")

// Reconciler replays queued completions to the server, one pass at a time.
type Reconciler struct {
	store      storage.Provider
	api        api.Client
	maxRetries int

	// running enforces single-flight: a second Run while one is active
	// bounces with ErrSyncInProgress instead of interleaving writes.
	running sync.Mutex
}

// New builds a Reconciler. maxRetries <= 0 selects the default budget.
func New(store storage.Provider, client api.Client, maxRetries int) *Reconciler {
	if maxRetries <= 0 {
		maxRetries = constants.DefaultMaxSyncRetries
	}
	return &Reconciler{store: store, api: client, maxRetries: maxRetries}
}

// Run drains the pending queue in enqueue order. Each record is replayed
// with its original occurred-at time; a duplicate answer from the server
// counts as success. A transient failure stops the pass so later records
// never overtake earlier ones; a permanent rejection parks the record as
// failed and the drain moves on. After a clean drain the habit cache is
// replaced with server truth.
func (r *Reconciler) Run(ctx context.Context) (models.SyncSummary, error) {
	if !r.running.TryLock() {
		return models.SyncSummary{}, ErrSyncInProgress
	}
	defer r.running.Unlock()

	var summary models.SyncSummary
	pending, err := r.store.ListPendingCompletions()
	if err != nil {
		return summary, err
	}

	for _, qc := range pending {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		done, err := r.push(ctx, qc, &summary)
		if err != nil {
			return summary, err
		}
		if !done {
			// Transient failure at the head of the stream; stop here and
			// let a later pass pick up from the same record.
			return summary, nil
		}
	}

	if err := r.refreshCache(ctx); err != nil {
		logger.Warn("cache refresh after sync failed", "error", err)
	}
	return summary, nil
}

// push replays one record. It reports done=false when the record stays
// pending for a later pass; a returned error aborts the whole run.
func (r *Reconciler) push(ctx context.Context, qc models.QueuedCompletion, summary *models.SyncSummary) (bool, error) {
	if err := r.store.UpdateCompletionStatus(qc.ID, models.CompletionSyncing); err != nil {
		return false, err
	}

	receipt, err := r.api.RecordCompletion(ctx, qc.HabitID, qc.OccurredAt, qc.Meta)
	switch {
	case err == nil:
		if err := r.store.RemoveCompletion(qc.ID); err != nil {
			return false, err
		}
		status := models.HabitStatus{
			HabitID:      qc.HabitID,
			CompletionID: receipt.CompletionID,
			Streak:       receipt.Streak,
			UpdatedAt:    qc.OccurredAt,
		}
		if err := r.store.SaveHabitStatus(status); err != nil {
			return false, err
		}
		summary.Synced++
		return true, nil

	case errors.Is(err, api.ErrAlreadyRecorded):
		// The server already holds this completion, most likely from an
		// earlier replay that died before the local remove. Same outcome.
		if err := r.store.RemoveCompletion(qc.ID); err != nil {
			return false, err
		}
		summary.Synced++
		return true, nil

	case errors.Is(err, api.ErrUnauthorized):
		// No record in the queue will fare better; put this one back and
		// surface the auth problem.
		if rbErr := r.store.UpdateCompletionStatus(qc.ID, models.CompletionPending); rbErr != nil {
			return false, errors.Join(err, rbErr)
		}
		return false, err

	case api.IsRetryable(err):
		logger.Debug("transient sync failure", "id", qc.ID, "habit", qc.HabitID, "error", err)
		if err := r.store.IncrementCompletionRetry(qc.ID); err != nil {
			return false, err
		}
		if qc.RetryCount+1 >= r.maxRetries {
			if err := r.store.UpdateCompletionStatus(qc.ID, models.CompletionFailed); err != nil {
				return false, err
			}
			summary.Failed++
			return true, nil
		}
		if err := r.store.UpdateCompletionStatus(qc.ID, models.CompletionPending); err != nil {
			return false, err
		}
		return false, nil

	default:
		// The server rejected the record outright; retrying the same bytes
		// cannot help. Park it for the user to inspect.
		logger.Warn("completion rejected by server", "id", qc.ID, "habit", qc.HabitID, "error", err)
		if err := r.store.UpdateCompletionStatus(qc.ID, models.CompletionFailed); err != nil {
			return false, err
		}
		summary.Failed++
		return true, nil
	}
}

// refreshCache pulls the server's habit list and makes it the local truth.
// Habit definitions are upserted; the status cache is replaced wholesale,
// which is safe only once the pending queue is empty.
func (r *Reconciler) refreshCache(ctx context.Context) error {
	habits, err := r.api.ListHabits(ctx)
	if err != nil {
		return err
	}

	statuses := make([]models.HabitStatus, 0, len(habits))
	for _, hw := range habits {
		statuses = append(statuses, hw.Status)
		_, err := r.store.GetHabit(hw.Habit.ID)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			if err := r.store.AddHabit(hw.Habit); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := r.store.UpdateHabit(hw.Habit); err != nil {
				return err
			}
		}
	}
	return r.store.ReplaceHabitStatuses(statuses)
}

// RetryFailed moves a failed record back into the pending stream with a
// fresh retry budget.
func (r *Reconciler) RetryFailed(id string) error {
	qc, err := r.store.GetQueuedCompletion(id)
	if err != nil {
		return err
	}
	if qc.Status != models.CompletionFailed {
		return errors.New("completion is not in the failed state")
	}
	return r.store.RequeueCompletion(id)
}

// DiscardFailed drops a failed record and removes its optimistic projection
// from the status cache when nothing else backs it.
func (r *Reconciler) DiscardFailed(id string) error {
	qc, err := r.store.GetQueuedCompletion(id)
	if err != nil {
		return err
	}
	if qc.Status != models.CompletionFailed {
		return errors.New("completion is not in the failed state")
	}
	if err := r.store.RemoveCompletion(id); err != nil {
		return err
	}

	// If the cached status shows this day completed but no confirmed server
	// completion and no remaining queued record back it, the projection came
	// from the record we just dropped.
	st, err := r.store.GetHabitStatus(qc.HabitID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if st.CompletionID == "" && st.CompletedOn(qc.Day) {
		queued, err := r.store.HasCompletionToday(qc.HabitID, qc.Day)
		if err != nil {
			return err
		}
		if !queued {
			return r.store.DeleteHabitStatus(qc.HabitID)
		}
	}
	return nil
}
