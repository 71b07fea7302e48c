package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sehyunahn/seum-backend/pkg/logger"
)

// Client is an FCM push client over the HTTP API.
// Constructed once at process start; Available must be checked before use.
// A client built from an empty server key never errors at construction -
// provider unavailability is a recoverable condition, not a startup failure.
type Client struct {
	config     Config
	httpClient *http.Client
	available  bool
}

// NewClient creates an FCM client with the given configuration.
// Availability depends only on credentials; the endpoint always has a default.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultSendEndpoint
	}
	available := config.Validate() == nil
	if !available {
		logger.Warn("FCM client initialized without server key; push delivery disabled", nil)
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
		available:  available,
	}
}

// Available reports whether the client can attempt delivery
func (c *Client) Available() bool {
	return c != nil && c.available
}

// SendToToken sends one push message to a single registration token
func (c *Client) SendToToken(ctx context.Context, token string, notification Notification, data map[string]string) error {
	if !c.Available() {
		return ErrNotConfigured
	}
	if !IsValidPushToken(token) {
		return ErrInvalidToken
	}

	msg := Message{
		To:           token,
		Notification: &notification,
		Data:         data,
		Priority:     "high",
	}
	return c.send(ctx, msg)
}

// SendToTokens sends the same notification to many tokens, one request per
// token so that a per-recipient badge number can be carried. Individual send
// failures are isolated; the batch never fails as a whole.
func (c *Client) SendToTokens(ctx context.Context, tokens []string, badges []int, notification Notification, data map[string]string) *BatchResult {
	result := &BatchResult{}
	if !c.Available() {
		result.Failure = len(tokens)
		return result
	}

	for i, token := range tokens {
		n := notification
		if i < len(badges) {
			n.Badge = badges[i]
		}

		msg := Message{
			To:           token,
			Notification: &n,
			Data:         data,
			Priority:     "high",
		}

		if err := c.send(ctx, msg); err != nil {
			result.Failure++
			if err == ErrNotRegistered {
				result.InvalidTokens = append(result.InvalidTokens, token)
			}
			logger.Warn("Push send failed", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}
		result.Success++
	}
	return result
}

// SendToTopic sends one push message to a topic subscription
func (c *Client) SendToTopic(ctx context.Context, topic string, notification Notification, data map[string]string) error {
	if !c.Available() {
		return ErrNotConfigured
	}

	msg := Message{
		To:           "/topics/" + topic,
		Notification: &notification,
		Data:         data,
		Priority:     "high",
	}
	return c.send(ctx, msg)
}

func (c *Client) send(ctx context.Context, msg Message) error {
	reqBody, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "key="+c.config.ServerKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d, body: %s", ErrSendFailed, resp.StatusCode, string(body))
	}

	var sendResp sendResponse
	if err := json.Unmarshal(body, &sendResp); err != nil {
		return fmt.Errorf("failed to unmarshal send response: %w", err)
	}

	if sendResp.Failure > 0 {
		for _, r := range sendResp.Results {
			// NotRegistered/InvalidRegistration: 토큰이 영구적으로 무효함.
			// 호출자가 저장된 토큰을 지울 수 있도록 구분해서 돌려준다.
			if r.Error == "NotRegistered" || r.Error == "InvalidRegistration" {
				return ErrNotRegistered
			}
		}
		return fmt.Errorf("%w: %s", ErrSendFailed, string(body))
	}

	return nil
}
