package main

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

	"github.com/wricardo/hexgolf/game/engine"
	"github.com/wricardo/hexgolf/game/service"
)

// Client talks to the Hex Golf REST API for a single session
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// APIError is a non-2xx reply from the server
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &errResp) != nil || errResp.Error == "" {
			errResp.Error = strings.TrimSpace(string(data))
		}
		return &APIError{Status: resp.StatusCode, Message: errResp.Error}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse %s response: %w", path, err)
		}
	}
	return nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

// CreateSession starts a session on course and makes it the client's session
func (c *Client) CreateSession(ctx context.Context, course string) (*service.SessionInfo, error) {
	body := map[string]string{}
	if course != "" {
		body["course_id"] = course
	}

	var info service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", body, &info); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	c.sessionID = info.ID
	return &info, nil
}

// UseSession points the client at an existing session
func (c *Client) UseSession(id string) { c.sessionID = id }

func (c *Client) SessionID() string { return c.sessionID }

func (c *Client) GetState(ctx context.Context) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(ctx, http.MethodGet, c.sessionPath("/state"), nil, &state); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &state, nil
}

// SelectClub selects the club at index; a nil index deselects
func (c *Client) SelectClub(ctx context.Context, index *int) (*service.SelectionResult, error) {
	var result service.SelectionResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/club"), map[string]*int{"index": index}, &result); err != nil {
		return nil, fmt.Errorf("select club: %w", err)
	}
	return &result, nil
}

func (c *Client) ToggleModifier(ctx context.Context, index int) (*service.SelectionResult, error) {
	var result service.SelectionResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/modifier"), map[string]int{"index": index}, &result); err != nil {
		return nil, fmt.Errorf("toggle modifier: %w", err)
	}
	return &result, nil
}

// Shoot commits the current selection toward target
func (c *Client) Shoot(ctx context.Context, target engine.Hex) (*service.ShotResult, error) {
	var result service.ShotResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/shot"), service.ShotRequest{Target: &target}, &result); err != nil {
		return nil, fmt.Errorf("shoot: %w", err)
	}
	return &result, nil
}

type resetResponse struct {
	Message string            `json:"message"`
	State   *engine.GameState `json:"state"`
}

func (c *Client) Reset(ctx context.Context) (*engine.GameState, error) {
	var resp resetResponse
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/reset"), nil, &resp); err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	return resp.State, nil
}

// Leaderboard returns the best finished rounds on course
func (c *Client) Leaderboard(ctx context.Context, course string, limit int) ([]service.RoundResult, error) {
	params := url.Values{"course": {course}, "limit": {fmt.Sprint(limit)}}
	var resp struct {
		Rounds []service.RoundResult `json:"rounds"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/leaderboard?"+params.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return resp.Rounds, nil
}
