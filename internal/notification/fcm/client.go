// Package fcm is a minimal client for the FCM HTTP v1 API, authenticated
// with a service-account credential via OAuth2.
package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2/google"
)

const (
	sendURL        = "https://fcm.googleapis.com/v1/projects/%s/messages:send"
	messagingScope = "https://www.googleapis.com/auth/firebase.messaging"
)

// Message is the FCM v1 message envelope.
type Message struct {
	Token        string            `json:"token,omitempty"`
	Notification *Notification     `json:"notification,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
	Android      *AndroidConfig    `json:"android,omitempty"`
	Apns         *ApnsConfig       `json:"apns,omitempty"`
}

// Notification is the cross-platform alert block.
type Notification struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
}

// AndroidConfig holds Android delivery options.
type AndroidConfig struct {
	Priority     string               `json:"priority,omitempty"`
	CollapseKey  string               `json:"collapse_key,omitempty"`
	Notification *AndroidNotification `json:"notification,omitempty"`
}

// AndroidNotification holds Android notification options.
type AndroidNotification struct {
	ChannelID string `json:"channel_id,omitempty"`
	Priority  string `json:"notification_priority,omitempty"`
}

// ApnsConfig carries APNs headers for iOS delivery through FCM.
type ApnsConfig struct {
	Headers map[string]string `json:"headers,omitempty"`
}

// Config holds FCM configuration. CredentialsJSON is either the
// service-account JSON itself or a path to a file containing it.
type Config struct {
	ProjectID       string
	CredentialsJSON string
	Timeout         time.Duration
}

// loadCredentials resolves the credential value: inline JSON is used as-is,
// anything else is treated as a file path and read eagerly so a bad path
// fails at construction rather than on the first send.
func loadCredentials(value string) ([]byte, error) {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "{") {
		return []byte(trimmed), nil
	}
	data, err := os.ReadFile(trimmed)
	if err != nil {
		return nil, fmt.Errorf("fcm: read credentials file: %w", err)
	}
	return data, nil
}

// Client sends messages through a single FCM project.
type Client struct {
	httpClient  *http.Client
	projectID   string
	credentials []byte

	// Access token caching
	tokenMu     sync.RWMutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a new FCM client.
func NewClient(config Config) (*Client, error) {
	if config.ProjectID == "" {
		return nil, fmt.Errorf("fcm: project id is required")
	}
	if config.CredentialsJSON == "" {
		return nil, fmt.Errorf("fcm: service account credentials are required")
	}
	credentials, err := loadCredentials(config.CredentialsJSON)
	if err != nil {
		return nil, err
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		projectID:   config.ProjectID,
		credentials: credentials,
	}, nil
}

// Send delivers an alert message to a device token. The collapse key maps to
// android collapse_key and the apns-collapse-id header; callers pass a value
// unique per message so the OS never merges distinct reminders.
func (c *Client) Send(ctx context.Context, token, title, body string, data map[string]string, collapseKey string) error {
	message := Message{
		Token: token,
		Notification: &Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &AndroidConfig{
			Priority:    "high",
			CollapseKey: collapseKey,
			Notification: &AndroidNotification{
				ChannelID: "reminders",
				Priority:  "PRIORITY_HIGH",
			},
		},
		Apns: &ApnsConfig{
			Headers: map[string]string{
				"apns-priority":    "10",
				"apns-collapse-id": collapseKey,
			},
		},
	}

	return c.sendMessage(ctx, message)
}

func (c *Client) sendMessage(ctx context.Context, message Message) error {
	payload := map[string]interface{}{
		"message": message,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := fmt.Sprintf(sendURL, c.projectID)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payloadBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	token, err := c.getAccessToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to get access token: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("FCM error: %s - %s", resp.Status, string(body))
	}

	return nil
}

func (c *Client) getAccessToken(ctx context.Context) (string, error) {
	c.tokenMu.RLock()
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		token := c.accessToken
		c.tokenMu.RUnlock()
		return token, nil
	}
	c.tokenMu.RUnlock()

	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	// Double-check after acquiring write lock
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	creds, err := google.CredentialsFromJSON(ctx, c.credentials, messagingScope)
	if err != nil {
		return "", fmt.Errorf("failed to parse credentials: %w", err)
	}

	token, err := creds.TokenSource.Token()
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	c.accessToken = token.AccessToken
	c.tokenExpiry = token.Expiry.Add(-1 * time.Minute) // Refresh 1 minute before expiry

	return c.accessToken, nil
}
