// Package backend implements the HTTP client side of the goal-creation
// wizard protocol. The generation backend owns all session state; this
// client just moves envelopes back and forth and decodes them into the
// stage snapshot the controller consumes.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/alexanderramin/strive/internal/domain"
	"github.com/alexanderramin/strive/internal/wizard"
	"github.com/google/uuid"
)

// TokenSource supplies the bearer token sent with every request. It is a
// separate port so credential storage can live behind it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// HTTPClient implements wizard.Client against the generation backend's
// /create endpoints.
type HTTPClient struct {
	cfg      Config
	tokens   TokenSource
	http     *http.Client
	observer Observer
}

var _ wizard.Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the wizard protocol.
func NewHTTPClient(cfg Config, tokens TokenSource, observer Observer) *HTTPClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &HTTPClient{
		cfg:    cfg,
		tokens: tokens,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// apiEnvelope is the JSON body every /create endpoint returns: the stage
// tag plus the status-tagged payload for that stage. RetObj is absent on
// the completion sentinel.
type apiEnvelope struct {
	PhaseTag string          `json:"phase_tag"`
	RetObj   json.RawMessage `json:"ret_obj"`
}

type queryRequest struct {
	UserInput string `json:"user_input"`
}

type confirmRequest struct {
	ConfirmObj json.RawMessage `json:"confirm_obj"`
}

// Load returns the current session snapshot, creating a fresh define-goal
// session server-side if none exists.
func (c *HTTPClient) Load(ctx context.Context) (wizard.Snapshot, error) {
	return c.callSnapshot(ctx, "/create/load", nil)
}

// Query advances the conversation by one user turn.
func (c *HTTPClient) Query(ctx context.Context, userInput string) (wizard.Snapshot, error) {
	body, err := json.Marshal(queryRequest{UserInput: userInput})
	if err != nil {
		return wizard.Snapshot{}, fmt.Errorf("encoding query request: %w", err)
	}
	return c.callSnapshot(ctx, "/create/query", body)
}

// Confirm posts a stage payload back as accepted, with its status
// discriminator injected the way the backend expects.
func (c *HTTPClient) Confirm(ctx context.Context, payload domain.StageResponse) (wizard.Snapshot, error) {
	encoded, err := domain.EncodeStageResponse(payload)
	if err != nil {
		return wizard.Snapshot{}, err
	}
	body, err := json.Marshal(confirmRequest{ConfirmObj: encoded})
	if err != nil {
		return wizard.Snapshot{}, fmt.Errorf("encoding confirm request: %w", err)
	}
	return c.callSnapshot(ctx, "/create/confirm", body)
}

// Reset discards all server-side session state.
func (c *HTTPClient) Reset(ctx context.Context) error {
	_, err := c.call(ctx, "/create/reset", nil)
	return err
}

func (c *HTTPClient) callSnapshot(ctx context.Context, endpoint string, body []byte) (wizard.Snapshot, error) {
	raw, err := c.call(ctx, endpoint, body)
	if err != nil {
		return wizard.Snapshot{}, err
	}
	return decodeSnapshot(raw)
}

// call performs one protocol POST with retries and returns the raw
// response body. Retries follow the global timeout: the context deadline
// spans all attempts, and context errors are never retried.
func (c *HTTPClient) call(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	start := time.Now()
	requestID := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries

	for i := 0; i < attempts; i++ {
		raw, err := c.doRequest(ctx, endpoint, requestID, body)
		if err == nil {
			c.observer.OnCallComplete(CallEvent{
				Endpoint:  endpoint,
				RequestID: requestID,
				LatencyMs: time.Since(start).Milliseconds(),
				Success:   true,
			})
			return raw, nil
		}
		lastErr = err

		if ctx.Err() != nil || errors.Is(err, ErrUnauthorized) {
			break
		}
	}

	err := classify(ctx, lastErr)
	c.observer.OnCallComplete(CallEvent{
		Endpoint:  endpoint,
		RequestID: requestID,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   false,
		ErrorCode: errorCode(err),
	})
	return nil, err
}

func (c *HTTPClient) doRequest(ctx context.Context, endpoint, requestID string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		// No usable credentials; retrying won't produce any.
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("backend returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// decodeSnapshot unwraps the {phase_tag, ret_obj} envelope. The completion
// sentinel carries no payload; every other stage must.
func decodeSnapshot(raw []byte) (wizard.Snapshot, error) {
	var env apiEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return wizard.Snapshot{}, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	stage, err := domain.ParseStage(env.PhaseTag)
	if err != nil {
		return wizard.Snapshot{}, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	snap := wizard.Snapshot{Stage: stage}
	if stage == domain.StageCompleted {
		return snap, nil
	}

	if len(env.RetObj) == 0 {
		return wizard.Snapshot{}, fmt.Errorf("%w: stage %s without payload", ErrBadResponse, stage)
	}
	resp, err := domain.DecodeStageResponse(env.RetObj)
	if err != nil {
		return wizard.Snapshot{}, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	snap.Response = resp
	return snap, nil
}

func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ErrTimeout
	}
	if errors.Is(err, ErrUnauthorized) {
		return ErrUnauthorized
	}
	if isConnectionError(err) {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrBadResponse):
		return "BAD_RESPONSE"
	default:
		return "UNKNOWN"
	}
}
