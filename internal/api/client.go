package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/y3rawat/mindstore/internal/content"
)

// Error is a failed API call. Status 0 means the request never got a
// response (transport failure).
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return "api: " + e.Message
	}
	return fmt.Sprintf("api: http %d: %s", e.Status, e.Message)
}

// IsConflict reports whether err is the 409 "already saved" outcome,
// which callers treat as a success-equivalent.
func IsConflict(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict
}

// ContentPage is one page of the user's library.
type ContentPage struct {
	Success bool           `json:"success"`
	Items   []content.Item `json:"items"`
	Total   int            `json:"total"`
}

// SaveResult is the outcome of saving a URL. AlreadySaved marks the
// conflict path.
type SaveResult struct {
	Success      bool   `json:"success"`
	Platform     string `json:"platform"`
	ContentHash  string `json:"contentHash"`
	AlreadySaved bool   `json:"-"`
}

type deleteResponse struct {
	Success bool `json:"success"`
}

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Client talks to the collaborator content API.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchContent loads one page of the user's saved content.
func (c *Client) FetchContent(ctx context.Context, userID string, limit, offset int) (ContentPage, error) {
	endpoint := c.baseURL + "/urls?userId=" + userID +
		"&limit=" + strconv.Itoa(limit) + "&offset=" + strconv.Itoa(offset)
	var page ContentPage
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return ContentPage{}, err
	}
	return page, nil
}

// SaveURL saves a new URL for the user. A 409 conflict comes back as a
// successful SaveResult with AlreadySaved set.
func (c *Client) SaveURL(ctx context.Context, rawURL, userID string) (SaveResult, error) {
	body := map[string]string{"url": rawURL, "userId": userID}
	var result SaveResult
	err := c.do(ctx, http.MethodPost, c.baseURL+"/urls", body, &result)
	if err != nil {
		if IsConflict(err) {
			return SaveResult{Success: true, AlreadySaved: true}, nil
		}
		return SaveResult{}, err
	}
	return result, nil
}

// DeleteContent removes one saved item by content hash.
func (c *Client) DeleteContent(ctx context.Context, contentHash, userID string) error {
	body := map[string]string{"userId": userID}
	var resp deleteResponse
	return c.do(ctx, http.MethodDelete, c.baseURL+"/urls/"+contentHash, body, &resp)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		blob, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: err.Error()}
		}
		reader = bytes.NewReader(blob)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	req.Header.Set("content-type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope errorEnvelope
		_ = json.Unmarshal(data, &envelope)
		message := envelope.Error
		if message == "" {
			message = envelope.Message
		}
		if message == "" {
			message = "request failed"
		}
		return &Error{Status: resp.StatusCode, Message: message}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &Error{Status: resp.StatusCode, Message: "bad response body: " + err.Error()}
		}
	}
	return nil
}
