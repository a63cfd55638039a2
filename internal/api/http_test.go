package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ritualapp/ritual-cli/internal/models"
)

func TestRecordCompletion(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody recordCompletionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"completion_id": "srv-7",
			"streak": map[string]interface{}{
				"current_streak":      7,
				"longest_streak":      7,
				"last_completed_date": "2026-04-11",
			},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "tok123")
	occurred := time.Date(2026, 4, 11, 10, 0, 0, 0, time.UTC)
	receipt, err := c.RecordCompletion(context.Background(), "h1", occurred, models.CompletionMeta{})
	if err != nil {
		t.Fatalf("RecordCompletion failed: %v", err)
	}

	if gotPath != "/v1/habits/h1/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotBody.OccurredAt != "2026-04-11T10:00:00Z" {
		t.Errorf("occurred_at = %q", gotBody.OccurredAt)
	}
	if receipt.CompletionID != "srv-7" || receipt.Streak.CurrentStreak != 7 {
		t.Errorf("receipt = %+v", receipt)
	}
}

func TestRecordCompletionAlreadyRecorded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{
			"code": "ALREADY_RECORDED", "message": "completion already recorded",
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	_, err := c.RecordCompletion(context.Background(), "h1", time.Now(), models.CompletionMeta{})
	if !errors.Is(err, ErrAlreadyRecorded) {
		t.Errorf("expected ErrAlreadyRecorded, got %v", err)
	}
	if IsRetryable(err) {
		t.Error("ErrAlreadyRecorded must not be retryable")
	}
}

func TestServerErrors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantRetryable bool
	}{
		{name: "internal error is retryable", status: 500, wantRetryable: true},
		{name: "rate limit is retryable", status: 429, wantRetryable: true},
		{name: "bad request is not retryable", status: 400, wantRetryable: false},
		{name: "not found is not retryable", status: 404, wantRetryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewHTTPClient(srv.URL, "")
			_, err := c.RecordCompletion(context.Background(), "h1", time.Now(), models.CompletionMeta{})
			if err == nil {
				t.Fatal("expected an error")
			}
			var se *StatusError
			if !errors.As(err, &se) || se.Code != tt.status {
				t.Errorf("expected StatusError with code %d, got %v", tt.status, err)
			}
			if IsRetryable(err) != tt.wantRetryable {
				t.Errorf("IsRetryable = %v, want %v", IsRetryable(err), tt.wantRetryable)
			}
		})
	}
}

func TestUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "stale")
	err := c.Ping(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if IsRetryable(err) {
		t.Error("unauthorized must not be retried")
	}
}

func TestNetworkErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewHTTPClient(srv.URL, "")
	err := c.Ping(context.Background())
	if err == nil {
		t.Fatal("expected a connection error")
	}
	if !IsRetryable(err) {
		t.Errorf("connection error should be retryable: %v", err)
	}
}

func TestUndoCompletion(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	if err := c.UndoCompletion(context.Background(), "h1"); err != nil {
		t.Fatalf("UndoCompletion failed: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/v1/habits/h1/completions/today" {
		t.Errorf("got %s %s", gotMethod, gotPath)
	}
}

