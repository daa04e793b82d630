package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultGraphURL = "https://graph.facebook.com/v18.0"

type OutboundConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	Timeout       time.Duration
}

// GraphOutbound sends messages through the WhatsApp Cloud API.
type GraphOutbound struct {
	baseURL       string
	token         string
	phoneNumberID string
	client        *http.Client
	log           *zap.Logger
}

func NewGraphOutbound(cfg OutboundConfig, log *zap.Logger) *GraphOutbound {
	o := &GraphOutbound{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		token:         strings.TrimSpace(cfg.AccessToken),
		phoneNumberID: strings.TrimSpace(cfg.PhoneNumberID),
		client:        &http.Client{Timeout: cfg.Timeout},
		log:           log.Named("graph"),
	}
	if o.baseURL == "" {
		o.baseURL = DefaultGraphURL
	}
	if cfg.Timeout <= 0 {
		o.client.Timeout = 10 * time.Second
	}
	if !o.Configured() {
		o.log.Warn("credentials not set, running in demo mode")
	}
	return o
}

func (o *GraphOutbound) Configured() bool {
	return o.token != "" && o.phoneNumberID != ""
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// SendText posts a text message; failures are logged and reported as false.
func (o *GraphOutbound) SendText(ctx context.Context, to string, text string) bool {
	to = strings.TrimPrefix(strings.TrimSpace(to), "+")
	if !o.Configured() {
		o.log.Info("demo mode, message not sent", zap.String("to", to), zap.String("text", short(text)))
		return false
	}

	var resp sendResponse
	err := o.post(ctx, map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              "text",
		"text":              map[string]any{"body": text},
	}, &resp)
	if err != nil {
		o.log.Warn("send failed", zap.String("to", to), zap.Error(err))
		return false
	}

	var id string
	if len(resp.Messages) > 0 {
		id = resp.Messages[0].ID
	}
	o.log.Info("message accepted", zap.String("to", to), zap.String("wamid", id))
	return true
}

// MarkRead is best effort.
func (o *GraphOutbound) MarkRead(ctx context.Context, messageID string) {
	if !o.Configured() || messageID == "" {
		return
	}
	err := o.post(ctx, map[string]any{
		"messaging_product": "whatsapp",
		"status":            "read",
		"message_id":        messageID,
	}, nil)
	if err != nil {
		o.log.Debug("mark read failed", zap.String("message_id", messageID), zap.Error(err))
	}
}

func (o *GraphOutbound) post(ctx context.Context, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		o.baseURL+"/"+o.phoneNumberID+"/messages",
		bytes.NewReader(b),
	)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.token)

	resp, err := o.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("graph api error: %s body=%s", resp.Status, respBody)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("graph api: decode response: %w", err)
		}
	}
	return nil
}

func short(s string) string {
	if r := []rune(s); len(r) > 100 {
		return string(r[:100]) + "..."
	}
	return s
}
