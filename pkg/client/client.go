// Package client is a typed Go client for the activity API plus the
// view-model objects the reference web UI builds on top of it: login with
// guest polling, the per-document activity form, and the admin activity
// list with its Gantt timeline.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
)

// APIError is the error payload the server returns on non-2xx responses.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Type       string `json:"type"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// IsValidationCodeRequired reports whether the login failed because a
// second-factor code must be supplied.
func IsValidationCodeRequired(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Type == "ValidationCodeRequired"
}

// Client talks to the activity API. The session cookie is held in the
// client's jar, so one Client is one authenticated browser.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for the given base URL.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Jar: jar},
	}, nil
}

// AppInfo is the global app configuration blob.
type AppInfo struct {
	CurrentVersion string `json:"current_version"`
	GuestLogin     bool   `json:"guest_login"`
}

// GetApp fetches the app configuration.
func (c *Client) GetApp(ctx context.Context) (*AppInfo, error) {
	var info AppInfo
	if err := c.do(ctx, http.MethodGet, "/app", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Login authenticates this client's session.
func (c *Client) Login(ctx context.Context, username, password, code string) error {
	body := map[string]string{
		"username": username,
		"password": password,
	}
	if code != "" {
		body["code"] = code
	}
	return c.do(ctx, http.MethodPost, "/user/login", body, nil)
}

// GuestPollResponse is one answer of the guest-login poll.
type GuestPollResponse struct {
	Status   int    `json:"status"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// PollGuestLogin polls the guest-login status for the given token.
func (c *Client) PollGuestLogin(ctx context.Context, token string) (*GuestPollResponse, error) {
	var resp GuestPollResponse
	err := c.do(ctx, http.MethodPost, "/user/login_request", map[string]string{"token": token}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// PasswordLost asks the server to send a password recovery mail.
func (c *Client) PasswordLost(ctx context.Context, username string) error {
	return c.do(ctx, http.MethodPost, "/user/password_lost", map[string]string{"username": username}, nil)
}

// Activity is one activity record as it appears on the wire. Timestamps
// are epoch milliseconds; zero means unset.
type Activity struct {
	ID                     string `json:"id"`
	UserID                 string `json:"user_id"`
	Username               string `json:"username"`
	ActivityType           string `json:"activity_type"`
	Progress               int    `json:"progress"`
	EntityID               string `json:"entity_id"`
	EntityName             string `json:"entity_name"`
	CreateTimestamp        int64  `json:"create_timestamp"`
	PlannedDateTimestamp   int64  `json:"planned_date_timestamp"`
	CompletedDateTimestamp int64  `json:"completed_date_timestamp"`
}

// ActivityList is a page of activities plus the unpaginated total.
type ActivityList struct {
	Activities []Activity `json:"activities"`
	Total      int64      `json:"total"`
}

// ListParams are the query parameters of the admin activity list.
type ListParams struct {
	Offset       int
	Limit        int
	SortColumn   int
	Asc          bool
	UserID       string
	ActivityType string
}

// ListActivities fetches a page of all activities (admin only).
func (c *Client) ListActivities(ctx context.Context, params ListParams) (*ActivityList, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(params.Offset))
	q.Set("limit", strconv.Itoa(params.Limit))
	q.Set("sort_column", strconv.Itoa(params.SortColumn))
	q.Set("asc", strconv.FormatBool(params.Asc))
	if params.UserID != "" {
		q.Set("user_id", params.UserID)
	}
	if params.ActivityType != "" {
		q.Set("activity_type", params.ActivityType)
	}

	var list ActivityList
	if err := c.do(ctx, http.MethodGet, "/useractivity?"+q.Encode(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ListUserActivities fetches the calling user's activities, optionally
// scoped to one document.
func (c *Client) ListUserActivities(ctx context.Context, entityID string, limit int) (*ActivityList, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if entityID != "" {
		q.Set("entity_id", entityID)
	}

	var list ActivityList
	if err := c.do(ctx, http.MethodGet, "/useractivity/user?"+q.Encode(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ActivityUpsert is the create-or-update payload.
type ActivityUpsert struct {
	ID                   string `json:"id,omitempty"`
	ActivityType         string `json:"activity_type,omitempty"`
	EntityID             string `json:"entity_id,omitempty"`
	EntityName           string `json:"entity_name,omitempty"`
	Progress             int    `json:"progress"`
	PlannedDateTimestamp *int64 `json:"planned_date_timestamp,omitempty"`
}

// UpsertActivity creates or updates an activity and returns its ID.
func (c *Client) UpsertActivity(ctx context.Context, upsert ActivityUpsert) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPut, "/useractivity", upsert, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// DeleteActivity deletes an activity by ID.
func (c *Client) DeleteActivity(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/useractivity/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
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
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
