// Package whatsapp integrates the Meta WhatsApp Cloud API: webhook envelope
// parsing on the way in and best-effort text delivery on the way out.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Envelope mirrors the Cloud API webhook payload, down to the text messages
// the bot cares about.
type Envelope struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []Message `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// Message is one inbound message inside an envelope.
type Message struct {
	From string `json:"from"`
	Type string `json:"type"`
	Text struct {
		Body string `json:"body"`
	} `json:"text"`
}

// ParseMessage extracts the sender and text of the first message in a webhook
// body. ok is false for malformed or message-less payloads (status updates,
// delivery receipts); those must be ignored without touching any state.
func ParseMessage(body []byte) (from, text string, ok bool) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", "", false
	}
	if len(env.Entry) == 0 || len(env.Entry[0].Changes) == 0 {
		return "", "", false
	}
	msgs := env.Entry[0].Changes[0].Value.Messages
	if len(msgs) == 0 || msgs[0].From == "" {
		return "", "", false
	}
	return msgs[0].From, msgs[0].Text.Body, true
}

// VerifyHandshake answers the Cloud API webhook subscription challenge.
// Returns the challenge to echo back and whether the token matched.
func VerifyHandshake(mode, token, challenge, verifyToken string) (string, bool) {
	if mode == "subscribe" && token != "" && token == verifyToken {
		return challenge, true
	}
	return "", false
}

const (
	graphBaseURL   = "https://graph.facebook.com/v20.0"
	sendTimeout    = 12 * time.Second
	sendRatePerSec = 10
)

// Client sends text messages through the Cloud API. Delivery is best-effort:
// every failure is logged and swallowed, never surfaced into conversation
// state. An unconfigured client (missing token or phone number id) is a no-op.
type Client struct {
	token         string
	phoneNumberID string
	baseURL       string
	httpClient    *http.Client
	limiter       *rate.Limiter
}

// NewClient creates a Cloud API client.
func NewClient(token, phoneNumberID string) *Client {
	return &Client{
		token:         token,
		phoneNumberID: phoneNumberID,
		baseURL:       graphBaseURL,
		httpClient:    &http.Client{Timeout: sendTimeout},
		limiter:       rate.NewLimiter(rate.Limit(sendRatePerSec), sendRatePerSec),
	}
}

type sendTextRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

// SendText delivers a text reply to a customer.
func (c *Client) SendText(ctx context.Context, to, body string) {
	if c.token == "" || c.phoneNumberID == "" {
		return
	}
	if err := c.limiter.Wait(ctx); err != nil {
		slog.Warn("outbound send aborted", "to", to, "error", err)
		return
	}

	payload, err := json.Marshal(sendTextRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: body},
	})
	if err != nil {
		slog.Error("failed to marshal outbound message", "to", to, "error", err)
		return
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		slog.Error("failed to build outbound request", "to", to, "error", err)
		return
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("failed to deliver outbound message", "to", to, "error", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("outbound delivery rejected", "to", to, "status", resp.StatusCode)
	}
}
