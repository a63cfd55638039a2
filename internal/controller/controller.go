// Package controller implements the optimistic completion flow: debounce,
// local-first apply, server confirmation or offline queueing, and the short
// undo window. The local status cache is updated before any network call so
// the UI never waits on the server.
package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ritualapp/ritual-cli/internal/api"
	"github.com/ritualapp/ritual-cli/internal/connectivity"
	"github.com/ritualapp/ritual-cli/internal/constants"
	"github.com/ritualapp/ritual-cli/internal/models"
	"github.com/ritualapp/ritual-cli/internal/storage"
	"github.com/ritualapp/ritual-cli/internal/streak"
	"github.com/ritualapp/ritual-cli/internal/utils"
	"github.com/ritualapp/ritual-cli/internal/validation"
)

// Policy holds the timing knobs of the completion flow.
type Policy struct {
	// Debounce absorbs repeated completion calls for the same habit.
	Debounce time.Duration
	// UndoWindow is how long a fresh completion stays revertible in-process.
	UndoWindow time.Duration
}

// DefaultPolicy returns the stock timings.
func DefaultPolicy() Policy {
	return Policy{
		Debounce:   constants.DefaultDebounce,
		UndoWindow: constants.DefaultUndoWindow,
	}
}

// PolicyFromSettings builds a Policy from stored settings, falling back to
// defaults for unset values.
func PolicyFromSettings(s models.Settings) Policy {
	p := DefaultPolicy()
	if s.DebounceMs > 0 {
		p.Debounce = time.Duration(s.DebounceMs) * time.Millisecond
	}
	if s.UndoSeconds > 0 {
		p.UndoWindow = time.Duration(s.UndoSeconds) * time.Second
	}
	return p
}

// undoState is the revert material for one in-window completion.
type undoState struct {
	timer Timer
	// preImage is the status row as it was before the completion, nil when
	// the habit had no status row at all.
	preImage *models.HabitStatus
	// completionID is set when the server confirmed the completion.
	completionID string
	// queuedID is set when the completion went to the offline queue.
	queuedID string
}

// Controller coordinates completion writes between the local cache, the
// offline queue and the server.
type Controller struct {
	store   storage.Provider
	api     api.Client
	monitor *connectivity.Monitor
	clock   Clock
	policy  Policy
	loc     *time.Location

	// mu spans the full completion flow, server call included: one
	// completion mutates the status cache at a time, so a rollback never
	// races a concurrent apply.
	mu           sync.Mutex
	lastAccepted map[string]time.Time
	undoable     map[string]*undoState
}

// New builds a Controller. A nil clock selects the system clock.
func New(store storage.Provider, client api.Client, monitor *connectivity.Monitor, policy Policy, loc *time.Location, clock Clock) *Controller {
	if clock == nil {
		clock = SystemClock()
	}
	return &Controller{
		store:        store,
		api:          client,
		monitor:      monitor,
		clock:        clock,
		policy:       policy,
		loc:          loc,
		lastAccepted: make(map[string]time.Time),
		undoable:     make(map[string]*undoState),
	}
}

// Complete records a completion for the habit. The result distinguishes the
// quiet outcomes (debounced, already completed) from real failures; only the
// latter come back with a non-nil error.
func (c *Controller) Complete(ctx context.Context, habitID string, meta models.CompletionMeta) (models.CompletionResult, error) {
	if err := validation.ValidateQualityRating(meta.QualityRating); err != nil {
		return models.CompletionResult{}, err
	}
	if err := validation.ValidateDurationMinutes(meta.DurationMinutes); err != nil {
		return models.CompletionResult{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now().In(c.loc)
	day := utils.DayOf(now, c.loc)

	// Debounce window: repeated calls inside it are duplicate taps, not new
	// intents. Only accepted calls arm the window, so a steady stream of
	// rejected calls cannot starve a real one.
	if last, ok := c.lastAccepted[habitID]; ok && now.Sub(last) < c.policy.Debounce {
		return models.CompletionResult{Debounced: true}, nil
	}

	status, err := c.store.GetHabitStatus(habitID)
	found := err == nil
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return models.CompletionResult{}, err
	}
	if found && status.CompletedOn(day) {
		return models.CompletionResult{AlreadyCompleted: true}, nil
	}
	queued, err := c.store.HasCompletionToday(habitID, day)
	if err != nil {
		return models.CompletionResult{}, err
	}
	if queued {
		return models.CompletionResult{AlreadyCompleted: true}, nil
	}

	c.lastAccepted[habitID] = now

	var preImage *models.HabitStatus
	var record models.StreakRecord
	if found {
		pre := status
		preImage = &pre
		record = status.Streak
	}
	update := streak.ComputeUpdate(record, now, c.loc)

	// Optimistic apply: the cache reflects the completion before the server
	// has seen it.
	projected := models.HabitStatus{
		HabitID:   habitID,
		Streak:    update.Record,
		UpdatedAt: now,
	}
	if err := c.store.SaveHabitStatus(projected); err != nil {
		return models.CompletionResult{}, err
	}

	if c.monitor.Online() {
		return c.confirmOnline(ctx, habitID, now, meta, preImage, update)
	}
	return c.enqueueOffline(habitID, now, day, meta, preImage, update)
}

// confirmOnline pushes the completion to the server and replaces the
// optimistic projection with the receipt. On failure the pre-image is
// restored so the cache never shows a completion the server refused.
func (c *Controller) confirmOnline(ctx context.Context, habitID string, now time.Time, meta models.CompletionMeta, preImage *models.HabitStatus, update models.StreakUpdate) (models.CompletionResult, error) {
	receipt, err := c.api.RecordCompletion(ctx, habitID, now, meta)
	if errors.Is(err, api.ErrAlreadyRecorded) {
		// The server already holds today's completion; the optimistic state
		// is the truth and there is nothing new to undo.
		return models.CompletionResult{Success: true, Streak: &update}, nil
	}
	if err != nil {
		if rbErr := c.restore(habitID, preImage); rbErr != nil {
			return models.CompletionResult{}, errors.Join(err, rbErr)
		}
		return models.CompletionResult{Retryable: api.IsRetryable(err)}, err
	}

	confirmed := models.HabitStatus{
		HabitID:      habitID,
		CompletionID: receipt.CompletionID,
		Streak:       receipt.Streak,
		UpdatedAt:    now,
	}
	if err := c.store.SaveHabitStatus(confirmed); err != nil {
		return models.CompletionResult{}, err
	}
	c.armUndo(habitID, &undoState{preImage: preImage, completionID: receipt.CompletionID})
	return models.CompletionResult{
		Success:      true,
		CompletionID: receipt.CompletionID,
		Streak:       &update,
	}, nil
}

// enqueueOffline records the completion in the durable queue for a later
// reconciliation pass. The caller sees the same success it would online.
func (c *Controller) enqueueOffline(habitID string, now time.Time, day string, meta models.CompletionMeta, preImage *models.HabitStatus, update models.StreakUpdate) (models.CompletionResult, error) {
	qc := models.QueuedCompletion{
		ID:         uuid.New().String(),
		HabitID:    habitID,
		OccurredAt: now,
		Day:        day,
		Meta:       meta,
		Status:     models.CompletionPending,
		QueuedAt:   now,
	}
	if err := c.store.EnqueueCompletion(qc); err != nil {
		if rbErr := c.restore(habitID, preImage); rbErr != nil {
			return models.CompletionResult{}, errors.Join(err, rbErr)
		}
		return models.CompletionResult{}, err
	}
	c.armUndo(habitID, &undoState{preImage: preImage, queuedID: qc.ID})
	return models.CompletionResult{
		Success: true,
		Queued:  true,
		Streak:  &update,
	}, nil
}

// armUndo opens the undo window for a habit. A stale window for the same
// habit is replaced, its timer stopped.
func (c *Controller) armUndo(habitID string, st *undoState) {
	if prev, ok := c.undoable[habitID]; ok && prev.timer != nil {
		prev.timer.Stop()
	}
	c.undoable[habitID] = st
	st.timer = c.clock.AfterFunc(c.policy.UndoWindow, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		// Expire only our own window; Undo or a newer completion may have
		// replaced it while the timer was in flight.
		if cur, ok := c.undoable[habitID]; ok && cur == st {
			delete(c.undoable, habitID)
		}
	})
}

// Undo reverts a completion while its undo window is open. It reports false
// with no error when there is nothing to undo, either because the window
// expired or because no completion was recorded.
func (c *Controller) Undo(ctx context.Context, habitID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.undoable[habitID]
	if !ok {
		return false, nil
	}
	delete(c.undoable, habitID)
	if st.timer != nil {
		st.timer.Stop()
	}

	// Capture the current row so a failed inverse can roll the revert back.
	var revert *models.HabitStatus
	if cur, err := c.store.GetHabitStatus(habitID); err == nil {
		tmp := cur
		revert = &tmp
	} else if !errors.Is(err, storage.ErrNotFound) {
		return false, err
	}

	if err := c.restore(habitID, st.preImage); err != nil {
		return false, err
	}

	var err error
	if st.queuedID != "" {
		err = c.store.RemoveCompletion(st.queuedID)
	} else {
		err = c.api.UndoCompletion(ctx, habitID)
	}
	if err != nil {
		if rbErr := c.restore(habitID, revert); rbErr != nil {
			return false, errors.Join(err, rbErr)
		}
		// The completion stands; reopen the window so the user can retry.
		c.armUndo(habitID, st)
		return false, err
	}
	delete(c.lastAccepted, habitID)
	return true, nil
}

// CanUndo reports whether the habit has an open undo window.
func (c *Controller) CanUndo(habitID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.undoable[habitID]
	return ok
}

// IsCompletedToday reports whether the habit counts as done for today:
// either the server (via the cached status) says so, or the offline queue
// holds a same-day record awaiting sync.
func (c *Controller) IsCompletedToday(habitID string) (bool, error) {
	day := utils.DayOf(c.clock.Now().In(c.loc), c.loc)
	status, err := c.store.GetHabitStatus(habitID)
	if err == nil && status.CompletedOn(day) {
		return true, nil
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return false, err
	}
	return c.store.HasCompletionToday(habitID, day)
}

// restore writes the pre-image back, or deletes the row when there was none.
func (c *Controller) restore(habitID string, pre *models.HabitStatus) error {
	if pre == nil {
		err := c.store.DeleteHabitStatus(habitID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}
	return c.store.SaveHabitStatus(*pre)
}
