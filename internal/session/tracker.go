package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sagliktur.org/internal/obs"
)

// Tracker mirrors session starts and ends to an external collaborator.
// Calls are best-effort: failures are logged by the caller, never blocking a
// local state transition.
type Tracker interface {
	Begin(ctx context.Context, principalID string) error
	End(ctx context.Context, principalID string) error
}

// LogTracker records session boundaries in the structured log. It is the
// default collaborator when no remote endpoint is configured.
type LogTracker struct{}

func (LogTracker) Begin(_ context.Context, principalID string) error {
	obs.LogEvent(map[string]any{"level": "info", "msg": "session started", "user_id": principalID})
	return nil
}

func (LogTracker) End(_ context.Context, principalID string) error {
	obs.LogEvent(map[string]any{"level": "info", "msg": "session ended", "user_id": principalID})
	return nil
}

// HTTPTracker posts session boundaries to a remote tracking service.
type HTTPTracker struct {
	baseURL string
	client  *http.Client
}

// NewHTTPTracker builds a tracker against baseURL with a short timeout so a
// slow collaborator cannot hold up callers waiting on the goroutine.
func NewHTTPTracker(baseURL string) *HTTPTracker {
	return &HTTPTracker{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (t *HTTPTracker) Begin(ctx context.Context, principalID string) error {
	return t.post(ctx, "/v1/sessions/begin", principalID)
}

func (t *HTTPTracker) End(ctx context.Context, principalID string) error {
	return t.post(ctx, "/v1/sessions/end", principalID)
}

func (t *HTTPTracker) post(ctx context.Context, path, principalID string) error {
	payload, err := json.Marshal(map[string]string{"principal_id": principalID})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("session tracker: unexpected status %d", resp.StatusCode)
	}
	return nil
}
