package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAgent struct {
	reply string
	seen  []string
}

func (a *stubAgent) HandleMessage(_ context.Context, phoneNumber, text string) (string, error) {
	a.seen = append(a.seen, phoneNumber+"|"+text)
	return a.reply, nil
}

func (a *stubAgent) ProduceUpdate(_ context.Context, _, topic string) (string, error) {
	return "update: " + topic, nil
}

type stubSender struct {
	sent []string
}

func (s *stubSender) Send(_ context.Context, phoneNumber, text string) error {
	s.sent = append(s.sent, phoneNumber+"|"+text)
	return nil
}

func newWebhookRouter(agent *stubAgent, sender *stubSender) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewWebhookHandler(agent, sender)
	r := gin.New()
	r.GET("/webhook", h.VerifyHandler)
	r.POST("/webhook", h.ReceiveHandler)
	return r
}

func TestVerifyHandler(t *testing.T) {
	config.AppConfig.WhatsAppVerifyToken = "secret"
	r := newWebhookRouter(&stubAgent{}, &stubSender{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=42", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=42", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

const inboundBody = `{
  "entry": [{
    "changes": [{
      "value": {
        "messages": [{"from": "+15551234", "text": {"body": "price of AAPL?"}}]
      }
    }]
  }]
}`

func TestReceiveHandlerDispatchesToAgent(t *testing.T) {
	config.AppConfig.AllowedNumbers = ""
	agent := &stubAgent{reply: "AAPL is at 231.50 USD"}
	sender := &stubSender{}
	r := newWebhookRouter(agent, sender)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(inboundBody))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, agent.seen, 1)
	assert.Equal(t, "15551234|price of AAPL?", agent.seen[0])
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "15551234|AAPL is at 231.50 USD", sender.sent[0])
}

func TestReceiveHandlerBlocksUnlistedNumbers(t *testing.T) {
	config.AppConfig.AllowedNumbers = "19998887777"
	defer func() { config.AppConfig.AllowedNumbers = "" }()

	agent := &stubAgent{reply: "should not be sent"}
	sender := &stubSender{}
	r := newWebhookRouter(agent, sender)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(inboundBody))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, agent.seen)
	assert.Empty(t, sender.sent)
}

func TestReceiveHandlerIgnoresNonMessageEvents(t *testing.T) {
	config.AppConfig.AllowedNumbers = ""
	agent := &stubAgent{}
	sender := &stubSender{}
	r := newWebhookRouter(agent, sender)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"entry":[]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, agent.seen)
}
