package handlers

import (
	"net/http"
	"strings"

	"resortagent/services/extractor"
	"resortagent/services/notification"
	"resortagent/services/pipeline"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler receives inbound WhatsApp messages from Twilio and replies
// through the notification service.
type WebhookHandler struct {
	Pipeline  pipeline.RequestPipeline
	Extractor extractor.Extractor
	Notifier  notification.NotificationService
	Logger    *zap.Logger
}

func NewWebhookHandler(pl pipeline.RequestPipeline, ex extractor.Extractor, notifier notification.NotificationService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{Pipeline: pl, Extractor: ex, Notifier: notifier, Logger: logger}
}

// WhatsAppWebhook handles Twilio's form-encoded webhook. The guest gets a
// quick "processing" note, then the pipeline's reply. Twilio itself only
// needs an empty TwiML document back.
func (h *WebhookHandler) WhatsAppWebhook(c *gin.Context) {
	incoming := strings.TrimSpace(c.PostForm("Body"))
	sender := c.PostForm("From")

	h.Logger.Info("Inbound WhatsApp message", zap.String("from", sender))

	ctx := c.Request.Context()
	if err := h.Notifier.SendWhatsApp(ctx, sender, "Processing your booking request, please wait..."); err != nil {
		h.Logger.Error("Failed to send processing ack", zap.Error(err))
	}

	reply := h.Pipeline.Process(ctx, incoming)

	if err := h.Notifier.SendWhatsApp(ctx, sender, reply); err != nil {
		h.Logger.Error("Failed to send reply", zap.Error(err))
	}

	c.Data(http.StatusOK, "text/xml", []byte("<Response></Response>"))
}

// TestExtract runs a canned message through the extractor only — no booking
// is submitted. Useful as a deployment smoke check for the Gemini key.
func (h *WebhookHandler) TestExtract(c *gin.Context) {
	const sample = "Book a Deluxe Room for John Silva, john@gmail.com, " +
		"check-in March 10 2026, check-out March 15 2026, 2 adults"

	extracted, err := h.Extractor.Extract(c.Request.Context(), sample)
	if err != nil {
		h.Logger.Error("Test extraction failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "extracted": extracted})
}
