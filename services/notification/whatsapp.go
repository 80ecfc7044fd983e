package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/utils"

	"go.uber.org/zap"
)

const defaultGraphBaseURL = "https://graph.facebook.com/v17.0"

// WhatsAppSender sends text messages through the WhatsApp Cloud API.
type WhatsAppSender struct {
	BaseURL       string
	PhoneNumberID string
	AccessToken   string
	HTTP          *http.Client
}

// NewWhatsAppSender returns a MessageSender for the given business number.
func NewWhatsAppSender(phoneNumberID, accessToken string) *WhatsAppSender {
	return &WhatsAppSender{
		BaseURL:       defaultGraphBaseURL,
		PhoneNumberID: phoneNumberID,
		AccessToken:   accessToken,
		HTTP:          &http.Client{Timeout: 15 * time.Second},
	}
}

type outboundMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             outboundText `json:"text"`
}

type outboundText struct {
	Body string `json:"body"`
}

// Send posts a text message to the recipient. Failures are returned, never
// retried here.
func (s *WhatsAppSender) Send(ctx context.Context, phoneNumber, text string) error {
	payload := outboundMessage{
		MessagingProduct: "whatsapp",
		To:               phoneNumber,
		Type:             "text",
		Text:             outboundText{Body: text},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.BaseURL, s.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp send returned status %d: %s", resp.StatusCode, detail)
	}

	utils.GetLogger().Debug("WhatsApp message sent",
		zap.String("to", phoneNumber), zap.Int("chars", len(text)))
	return nil
}
