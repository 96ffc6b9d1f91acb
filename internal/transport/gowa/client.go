// Package gowa is the HTTP client and webhook surface for a gowa-style
// WhatsApp gateway (aldinokemal/go-whatsapp-web-multidevice API shape).
package gowa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storebot_backend/internal/transport"
	"storebot_backend/platform/config"
	"storebot_backend/platform/logger"

	"golang.org/x/time/rate"
)

// Client talks to the gateway's REST API. A nil Client is a no-op sender so
// the bot can run without a gateway in tests and dry runs.
type Client struct {
	baseURL  string
	apiKey   string
	deviceID string
	http     *http.Client
	limiter  *rate.Limiter
	log      *logger.Logger
}

type sendRequest struct {
	Phone    string   `json:"phone"`
	Message  string   `json:"message"`
	Mentions []string `json:"mentions,omitempty"`
}

type participantsResponse struct {
	Results struct {
		Participants []struct {
			JID string `json:"jid"`
		} `json:"participants"`
	} `json:"results"`
}

// NewClient builds a gateway client from config. Returns nil when no gateway
// URL is configured.
func NewClient(cfg config.GatewayConfig, log *logger.Logger) *Client {
	if cfg.GetGatewayURL() == "" {
		return nil
	}

	perSecond := cfg.GetSendRatePerSecond()
	if perSecond <= 0 {
		perSecond = 1
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.GetGatewayURL(), "/"),
		apiKey:   cfg.GetGatewayKey(),
		deviceID: cfg.GetGatewayDeviceID(),
		http:     &http.Client{Timeout: 10 * time.Second},
		limiter:  rate.NewLimiter(rate.Limit(perSecond), 1),
		log:      log,
	}
}

// SendText delivers one text message to a chat, waiting on the send throttle
// first.
func (c *Client) SendText(ctx context.Context, chatID, text string, mentions []string) error {
	if c == nil {
		return nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	payload := sendRequest{
		Phone:    chatID,
		Message:  text,
		Mentions: mentions,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal send payload: %w", err)
	}

	if err := c.post(ctx, "/send/message", body); err != nil {
		return err
	}

	c.log.Debug("message sent via gateway", "chat", chatID)
	return nil
}

// GroupParticipants returns the member JIDs of a group chat.
func (c *Client) GroupParticipants(ctx context.Context, chatID string) ([]string, error) {
	if c == nil {
		return nil, fmt.Errorf("gateway not configured")
	}

	endpoint := fmt.Sprintf("%s/group/participants?group_id=%s", c.baseURL, url.QueryEscape(chatID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed participantsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode participants: %w", err)
	}

	jids := make([]string, 0, len(parsed.Results.Participants))
	for _, p := range parsed.Results.Participants {
		jids = append(jids, p.JID)
	}
	return jids, nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", formatAuthHeader(c.apiKey))
	}
	if c.deviceID != "" {
		req.Header.Set("X-Device-Id", c.deviceID)
	}
}

func formatAuthHeader(apiKey string) string {
	if strings.HasPrefix(strings.ToLower(apiKey), "basic ") {
		return apiKey
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(apiKey))
	return "Basic " + encoded
}

var _ transport.Sender = (*Client)(nil)
