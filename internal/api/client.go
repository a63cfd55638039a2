// Package api is the client edge to the authoritative ritual server. The
// server runs the same streak transition the client projects optimistically,
// so a receipt's streak record should always match the local projection.
package api

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/ritualapp/ritual-cli/internal/models"
)

var (
	// ErrAlreadyRecorded means the server already holds a completion for
	// this habit and day. It is the terminal dedup outcome, not a failure:
	// callers treat it as success.
	ErrAlreadyRecorded = errors.New("completion already recorded for this day")
	// ErrUnauthorized means the stored API token was rejected.
	ErrUnauthorized = errors.New("server rejected the API token")
)

// CompletionReceipt is the server's answer to a completion write.
type CompletionReceipt struct {
	CompletionID string              `json:"completion_id"`
	Streak       models.StreakRecord `json:"streak"`
}

// Client is what the sync engine needs from the server. The HTTP
// implementation below is the real one; tests substitute fakes.
type Client interface {
	// RecordCompletion writes one completion, idempotent per habit and day.
	// occurredAt is the logical event time of the user action, which may be
	// well before the call when the record was queued offline.
	RecordCompletion(ctx context.Context, habitID string, occurredAt time.Time, meta models.CompletionMeta) (CompletionReceipt, error)
	// UndoCompletion removes today's completion for the habit.
	UndoCompletion(ctx context.Context, habitID string) error
	ListHabits(ctx context.Context) ([]models.HabitWithStatus, error)
	// Ping is a cheap reachability check used by the connectivity monitor.
	Ping(ctx context.Context) error
}

// StatusError is a non-2xx server response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return "server returned status " + strconv.Itoa(e.Code)
	}
	return e.Message
}

// IsRetryable classifies an error from a Client call. Network failures,
// timeouts and server-side errors are worth retrying on a later
// reconciliation pass; client-side rejections are not.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, ErrAlreadyRecorded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500 || se.Code == 429
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	// Unwrapped transport errors (connection refused, DNS failures) arrive
	// as url.Error values which satisfy net.Error above; anything else is
	// treated as permanent.
	return false
}
