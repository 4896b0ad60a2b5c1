package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/ingest/txtlog"
	"github.com/claude/liftlog/internal/models"
)

// Client drives the text log import flow of a remote LiftLog server.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
	backoff    time.Duration
}

// NewClient creates a new HTTP client for the LiftLog server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		backoff: time.Second,
	}
}

// Stage uploads a log and returns the server's plan. Retries up to 3 times
// with exponential backoff on transport errors and 5xx answers.
func (c *Client) Stage(ctx context.Context, name string, content []byte, date *time.Time) (*txtlog.Plan, error) {
	q := url.Values{"name": {name}}
	setDate(q, date)

	var plan txtlog.Plan
	if err := c.do(ctx, http.MethodPost, "/api/v1/import/txt/", q, "text/plain", content, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ConfirmAlias binds a parsed name to a catalogue exercise.
func (c *Client) ConfirmAlias(ctx context.Context, importID, name string, exerciseID int64) (*txtlog.Plan, error) {
	body, err := json.Marshal(map[string]any{"name": name, "exercise_id": exerciseID})
	if err != nil {
		return nil, fmt.Errorf("marshaling alias: %w", err)
	}
	var plan txtlog.Plan
	if err := c.do(ctx, http.MethodPost, "/api/v1/import/txt/"+url.PathEscape(importID)+"/aliases", nil, "application/json", body, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// AddExercise creates a catalogue exercise for a parsed name.
func (c *Client) AddExercise(ctx context.Context, importID, name string, e models.Exercise) (*txtlog.Plan, error) {
	body, err := json.Marshal(map[string]string{
		"name": name, "exercise_name": e.Name, "category": e.Category, "body_part": e.BodyPart,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling exercise: %w", err)
	}
	var plan txtlog.Plan
	if err := c.do(ctx, http.MethodPost, "/api/v1/import/txt/"+url.PathEscape(importID)+"/exercises", nil, "application/json", body, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Commit writes the staged session on the server.
func (c *Client) Commit(ctx context.Context, importID string, date *time.Time) (*ingest.Result, error) {
	q := url.Values{}
	setDate(q, date)
	var res ingest.Result
	if err := c.do(ctx, http.MethodPost, "/api/v1/import/txt/"+url.PathEscape(importID)+"/commit", q, "", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func setDate(q url.Values, date *time.Time) {
	if date != nil {
		q.Set("date", date.Format(models.DateLayout))
	}
}

// do sends one request and decodes a 200 answer into out. Only Stage is
// safe to repeat, so only POSTs to the stage endpoint are retried.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, contentType string, body []byte, out any) error {
	u := c.serverURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	attempts := 1
	if strings.HasSuffix(path, "/import/txt/") {
		attempts = 3
	}

	var lastErr error
	for attempt := range attempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff << uint(attempt-1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		req.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		data, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			if err := json.Unmarshal(data, out); err != nil {
				return fmt.Errorf("decoding %s: %w", path, err)
			}
			return nil
		}
		lastErr = fmt.Errorf("%s failed (status %d): %s", path, resp.StatusCode, apiError(data))
		if resp.StatusCode < 500 {
			return lastErr
		}
	}

	return fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// apiError extracts the "error" field of a JSON error body.
func apiError(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}
