package handlers

import (
	"net/http"
	"strconv"

	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/config"
	ai "github.com/abhijeetnazar/finance-agent-whatsapp-bot/services/intelligence"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/services/notification"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/services/scheduler"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler terminates the WhatsApp Cloud API webhook: Meta's GET
// verification handshake and inbound message delivery.
type WebhookHandler struct {
	Agent  ai.AgentService
	Sender notification.MessageSender
}

func NewWebhookHandler(agent ai.AgentService, sender notification.MessageSender) *WebhookHandler {
	return &WebhookHandler{Agent: agent, Sender: sender}
}

// webhookPayload mirrors the slice of Meta's webhook body we care about.
type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					From string `json:"from"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// VerifyHandler answers Meta's subscription challenge.
func (h *WebhookHandler) VerifyHandler(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "" || token == "" {
		c.String(http.StatusBadRequest, "Invalid request")
		return
	}
	if mode != "subscribe" || token != config.AppConfig.WhatsAppVerifyToken {
		c.JSON(http.StatusForbidden, gin.H{"error": "Verification failed"})
		return
	}
	// Meta expects the raw challenge back, as a number when it is one.
	if n, err := strconv.Atoi(challenge); err == nil {
		c.JSON(http.StatusOK, n)
		return
	}
	c.String(http.StatusOK, challenge)
}

// ReceiveHandler processes an inbound message: allow-list check, agent turn,
// reply. Errors are acknowledged with 200 so Meta does not retry forever.
func (h *WebhookHandler) ReceiveHandler(c *gin.Context) {
	logger := getLogger(c)

	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.Warn("Malformed webhook body", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	from, text, ok := extractMessage(payload)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	clean := scheduler.NormalizePhone(from)
	allowed := config.AllowedNumberSet()
	if len(allowed) > 0 {
		if _, found := allowed[clean]; !found {
			logger.Warn("Unauthorized webhook sender", zap.String("from", from))
			c.JSON(http.StatusOK, gin.H{"status": "unauthorized"})
			return
		}
	}

	reply, err := h.Agent.HandleMessage(c.Request.Context(), clean, text)
	if err != nil {
		logger.Error("Agent failed to handle message", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": err.Error()})
		return
	}
	if reply != "" {
		if err := h.Sender.Send(c.Request.Context(), clean, reply); err != nil {
			logger.Error("Failed to send reply", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// extractMessage digs the first text message out of the webhook body.
func extractMessage(p webhookPayload) (from, text string, ok bool) {
	if len(p.Entry) == 0 || len(p.Entry[0].Changes) == 0 {
		return "", "", false
	}
	msgs := p.Entry[0].Changes[0].Value.Messages
	if len(msgs) == 0 || msgs[0].Text.Body == "" {
		return "", "", false
	}
	return msgs[0].From, msgs[0].Text.Body, true
}
