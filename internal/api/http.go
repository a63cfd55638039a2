package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ritualapp/ritual-cli/internal/constants"
	"github.com/ritualapp/ritual-cli/internal/models"
)

// HTTPClient talks to the ritual server's v1 REST API.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: constants.DefaultRequestTimeout},
	}
}

type recordCompletionRequest struct {
	OccurredAt      string `json:"occurred_at"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	Notes           string `json:"notes,omitempty"`
	QualityRating   int    `json:"quality_rating,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *HTTPClient) RecordCompletion(ctx context.Context, habitID string, occurredAt time.Time, meta models.CompletionMeta) (CompletionReceipt, error) {
	body := recordCompletionRequest{
		OccurredAt:      occurredAt.Format(time.RFC3339),
		DurationMinutes: meta.DurationMinutes,
		Notes:           meta.Notes,
		QualityRating:   meta.QualityRating,
	}

	var receipt CompletionReceipt
	err := c.do(ctx, http.MethodPost, "/v1/habits/"+habitID+"/completions", body, &receipt)
	if err != nil {
		return CompletionReceipt{}, err
	}
	return receipt, nil
}

func (c *HTTPClient) UndoCompletion(ctx context.Context, habitID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/habits/"+habitID+"/completions/today", nil, nil)
}

type listHabitsResponse struct {
	Habits []models.HabitWithStatus `json:"habits"`
}

func (c *HTTPClient) ListHabits(ctx context.Context) ([]models.HabitWithStatus, error) {
	var resp listHabitsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/habits", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Habits, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/v1/health", nil, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	var apiErr errorResponse
	// Ignore a malformed error body; the status code alone still classifies.
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr)

	switch {
	case resp.StatusCode == http.StatusConflict || apiErr.Code == "ALREADY_RECORDED":
		return ErrAlreadyRecorded
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return &StatusError{Code: resp.StatusCode, Message: apiErr.Message}
	}
}
