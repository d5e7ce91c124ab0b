package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

const nextMovePath = "/api/next-move"

var ErrUnexpectedStatus = errors.New("unexpected oracle response status")

// HTTPClient asks a remote move service for the next move.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (that *HTTPClient) NextMove(ctx context.Context, req Request) (int, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal oracle request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, that.baseURL+nextMovePath, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build oracle request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := that.client.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("failed to call oracle: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var payload Response
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("failed to decode oracle response: %w", err)
	}

	if payload.NextStep == nil {
		return 0, fmt.Errorf("%w: response has no next step", apperror.ErrOracleContractViolation)
	}

	return *payload.NextStep, nil
}
