// Package satchel provides a read-only client for the Satchel One school
// platform API. It fetches the signed-in student's timetable and homework
// on behalf of the widget, forwarding the caller's own credentials rather
// than holding any of its own.
package satchel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

// DefaultBaseURL is the production Satchel One API endpoint.
const DefaultBaseURL = "https://api.satchelone.com/api"

// acceptHeader pins the upstream API revision the wire types were written
// against.
const acceptHeader = "application/smhw.v2021.5+json"

// maxErrorBody caps how much of an upstream error body is kept for
// diagnostics.
const maxErrorBody = 512

// Config holds the upstream client configuration.
type Config struct {
	// BaseURL is the API root, without a trailing slash.
	BaseURL string
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration
	// MaxInflight caps concurrent upstream requests across all widget calls.
	MaxInflight int64
}

// DefaultConfig returns the default upstream client configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		Timeout:     15 * time.Second,
		MaxInflight: 8,
	}
}

// Credentials identifies the student a request acts for. All three values
// arrive on the inbound widget request and are forwarded as-is.
type Credentials struct {
	// Bearer is the raw Authorization value; NormalizeBearer is applied
	// before it goes on the wire.
	Bearer string
	// UserID is the Satchel student id.
	UserID string
	// SchoolID is the Satchel school id.
	SchoolID string
}

// Client talks to the Satchel One API.
type Client struct {
	config     *Config
	httpClient *http.Client
	inflight   *semaphore.Weighted
}

// NewClient creates a new Satchel One client.
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxInflight <= 0 {
		config.MaxInflight = DefaultConfig().MaxInflight
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		inflight: semaphore.NewWeighted(config.MaxInflight),
	}
}

// StatusError is returned when the upstream API answers with a non-200
// status, carrying the status code and a truncated body for diagnostics.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// FetchTimetable retrieves the student's timetable. The API returns the
// current week first; callers pick today's day out of it.
func (c *Client) FetchTimetable(ctx context.Context, creds Credentials) (*Timetable, error) {
	endpoint := fmt.Sprintf("%s/timetable/school/%s/student/%s",
		c.config.BaseURL,
		url.PathEscape(creds.SchoolID),
		url.PathEscape(creds.UserID))

	timetable := &Timetable{}
	if err := c.getJSON(ctx, endpoint, creds, timetable); err != nil {
		return nil, err
	}
	return timetable, nil
}

// FetchHomework retrieves the student's personal calendar tasks, which is
// where Satchel surfaces homework due dates.
func (c *Client) FetchHomework(ctx context.Context, creds Credentials) (*TaskList, error) {
	endpoint := c.config.BaseURL + "/personal_calendar_tasks"

	tasks := &TaskList{}
	if err := c.getJSON(ctx, endpoint, creds, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// getJSON performs an authenticated GET and decodes the JSON response into
// out. The inflight semaphore bounds concurrent upstream requests so a
// burst of widget polls cannot pile onto the API.
func (c *Client) getJSON(ctx context.Context, endpoint string, creds Credentials, out any) error {
	if err := c.inflight.Acquire(ctx, 1); err != nil {
		return errors.Wrap(err, "failed to acquire upstream slot")
	}
	defer c.inflight.Release(1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Authorization", NormalizeBearer(creds.Bearer))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}
