package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/vistula/vistulabot/internal/errors"
	"github.com/vistula/vistulabot/internal/models"
)

// Ask sends one question to POST /ask and returns the backend's answer.
// Every failure is a *errors.BackendUnavailableError.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	if c.IsClosed() {
		return "", apierrors.ErrClientClosed
	}

	endpoint := c.endpoint(models.PathAsk)

	payload, err := json.Marshal(models.AskRequest{Question: question})
	if err != nil {
		return "", fmt.Errorf("failed to encode question: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	status, body, err := c.do(req, endpoint)
	if err != nil {
		return "", err
	}

	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError(endpoint, status, "response is not valid JSON")
	}

	answer := gjson.GetBytes(body, models.AnswerPath)
	if !answer.Exists() {
		return "", apierrors.NewParseError(endpoint, status, "response has no answer field")
	}
	if answer.Type != gjson.String {
		return "", apierrors.NewParseError(endpoint, status, fmt.Sprintf("answer is %s, not a string", answer.Type))
	}

	return answer.String(), nil
}

// Ping calls GET / and returns the backend's status message
func (c *Client) Ping(ctx context.Context) (string, error) {
	if c.IsClosed() {
		return "", apierrors.ErrClientClosed
	}

	endpoint := c.endpoint(models.PathHealth)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	_, body, err := c.do(req, endpoint)
	if err != nil {
		return "", err
	}

	if msg := gjson.GetBytes(body, models.HealthPath); msg.Exists() {
		return msg.String(), nil
	}
	return strings.TrimSpace(string(body)), nil
}

// do executes the request and returns the status and body of a 2xx response
func (c *Client) do(req *http.Request, endpoint string) (int, []byte, error) {
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("endpoint", endpoint).Msg("request failed")
		return 0, nil, apierrors.NewNetworkError(endpoint, err)
	}
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	var body []byte
	if resp.Body != nil {
		body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return resp.StatusCode, nil, apierrors.NewNetworkError(endpoint, fmt.Errorf("failed to read response: %w", err))
		}
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("backend responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, nil, apierrors.NewStatusError(endpoint, resp.StatusCode, string(body))
	}

	return resp.StatusCode, body, nil
}
