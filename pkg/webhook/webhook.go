package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	svix "github.com/standard-webhooks/standard-webhooks/libraries/go"

	"github.com/Notifuse/campaign-builder/pkg/tracing"
)

//go:generate mockgen -destination=../mocks/mock_notifier.go -package=pkgmocks github.com/Notifuse/campaign-builder/pkg/webhook Notifier

const EventRevisionSaved = "campaign.revision_saved"

// Event is the JSON body posted to the endpoint
type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Notifier delivers events to an external endpoint
type Notifier interface {
	Notify(ctx context.Context, eventType string, data interface{}) error
}

// Sender posts events signed with the Standard Webhooks scheme
// (webhook-id, webhook-timestamp, webhook-signature headers).
type Sender struct {
	url    string
	signer *svix.Webhook
	client *http.Client
	now    func() time.Time
	newID  func() string
}

// NewSender builds a Sender. secret is a "whsec_" prefixed base64 key.
func NewSender(url, secret string, timeout time.Duration) (*Sender, error) {
	signer, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook secret: %w", err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Sender{
		url:    url,
		signer: signer,
		client: &http.Client{
			Timeout:   timeout,
			Transport: tracing.HTTPClientTransport(http.DefaultTransport),
		},
		now:   time.Now,
		newID: func() string { return "msg_" + uuid.NewString() },
	}, nil
}

func (s *Sender) Notify(ctx context.Context, eventType string, data interface{}) error {
	now := s.now().UTC()
	payload, err := json.Marshal(Event{Type: eventType, Timestamp: now, Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	msgID := s.newID()
	signature, err := s.signer.Sign(msgID, now, payload)
	if err != nil {
		return fmt.Errorf("failed to sign webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Webhook-Id", msgID)
	req.Header.Set("Webhook-Timestamp", fmt.Sprintf("%d", now.Unix()))
	req.Header.Set("Webhook-Signature", signature)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook endpoint responded with status %d", resp.StatusCode)
	}
	return nil
}

// Verify checks a received payload against its signature headers
func Verify(secret string, payload []byte, headers http.Header) error {
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return fmt.Errorf("invalid webhook secret: %w", err)
	}
	if err := wh.Verify(payload, headers); err != nil {
		return fmt.Errorf("signature validation failed: %w", err)
	}
	return nil
}

// NoopNotifier is used when no endpoint is configured
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, string, interface{}) error { return nil }
