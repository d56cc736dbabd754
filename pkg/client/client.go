// Package client is the data-access layer for UI front ends. Each method
// issues one HTTP request against the student API and translates the
// snake_case wire rows into their camelCase view shape.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/noah-isme/studreg-api/internal/models"
	"github.com/noah-isme/studreg-api/pkg/response"
)

// Client talks to the student registration API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New constructs a Client for the given API base URL, e.g.
// "http://localhost:3000/api/student". A nil httpClient falls back to a
// default client.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// StatusError reports a non-2xx API response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api responded %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api responded %d", e.StatusCode)
}

// List fetches every registered student in ascending id order.
func (c *Client) List(ctx context.Context) ([]models.StudentView, error) {
	var rows []models.Student
	if err := c.do(ctx, http.MethodGet, c.baseURL, nil, http.StatusOK, &rows); err != nil {
		return nil, err
	}

	views := make([]models.StudentView, 0, len(rows))
	for _, row := range rows {
		views = append(views, row.View())
	}
	return views, nil
}

// Create registers a new student and returns the stored record with its
// server-assigned id and registration date.
func (c *Client) Create(ctx context.Context, input models.StudentInput) (*models.StudentView, error) {
	var row models.Student
	if err := c.do(ctx, http.MethodPost, c.baseURL, input, http.StatusCreated, &row); err != nil {
		return nil, err
	}
	view := row.View()
	return &view, nil
}

// Update submits new values for the mutable fields of an existing student.
// The id travels in the path, never in the body.
func (c *Client) Update(ctx context.Context, id int64, input models.StudentInput) (*models.StudentView, error) {
	var row models.Student
	url := fmt.Sprintf("%s/%d", c.baseURL, id)
	if err := c.do(ctx, http.MethodPut, url, input, http.StatusOK, &row); err != nil {
		return nil, err
	}
	view := row.View()
	return &view, nil
}

// Delete removes a student permanently.
func (c *Client) Delete(ctx context.Context, id int64) error {
	url := fmt.Sprintf("%s/%d", c.baseURL, id)
	return c.do(ctx, http.MethodDelete, url, nil, http.StatusNoContent, nil)
}

// do runs one request/response round trip. Any transport failure, non-2xx
// status, or undecodable body yields an error; dest is only populated on the
// expected success status.
func (c *Client) do(ctx context.Context, method, url string, body interface{}, wantStatus int, dest interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer res.Body.Close()

	if res.StatusCode != wantStatus {
		return &StatusError{StatusCode: res.StatusCode, Message: decodeErrorMessage(res)}
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeErrorMessage(res *http.Response) string {
	var body response.ErrorBody
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil || body.Error == nil {
		return ""
	}
	return body.Error.Message
}
