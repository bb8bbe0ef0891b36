package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Sender delivers an out-of-band text message to a phone number. Delivery is
// best-effort: a returned error is reported to the caller but never gates a
// committed transaction.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// WhatsAppConfig holds configuration for the WhatsApp gateway client
type WhatsAppConfig struct {
	APIURL  string
	Token   string
	Timeout time.Duration
}

// WhatsAppSender sends messages through an HTTP WhatsApp gateway
// (fonnte-style API: POST {target, message} with a token header).
type WhatsAppSender struct {
	apiURL string
	token  string
	client *http.Client
}

// NewWhatsAppSender creates a new WhatsApp gateway client
func NewWhatsAppSender(cfg WhatsAppConfig) *WhatsAppSender {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WhatsAppSender{
		apiURL: cfg.APIURL,
		token:  cfg.Token,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *WhatsAppSender) Send(ctx context.Context, phone, message string) error {
	if s.token == "" {
		return fmt.Errorf("whatsapp gateway token not configured")
	}

	payload := map[string]string{
		"target":  phone,
		"message": message,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	return nil
}

// NullSender discards all messages. Used when no gateway is configured.
type NullSender struct{}

// NewNullSender creates a sender that silently drops messages
func NewNullSender() *NullSender {
	return &NullSender{}
}

func (*NullSender) Send(ctx context.Context, phone, message string) error {
	return nil
}

// FormatReceiptMessage formats the post-commit customer notification
func FormatReceiptMessage(storeName, documentNumber string, netAmount string, items []string) string {
	message := storeName + "\n\n"
	message += fmt.Sprintf("Bill No: %s\n", documentNumber)
	message += fmt.Sprintf("Total: %s\n\n", netAmount)
	message += "Items:\n"

	for i, item := range items {
		message += fmt.Sprintf("%d. %s\n", i+1, item)
	}

	message += fmt.Sprintf("\nTime: %s", time.Now().Format("02/01/2006 15:04:05"))

	return message
}

// FormatOtpMessage formats the approver-side discount OTP message
func FormatOtpMessage(storeName, code string) string {
	return fmt.Sprintf("%s\n\nDiscount approval code: %s\nThis code expires shortly and can be used once.", storeName, code)
}
