package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"resortagent/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPipeline struct {
	reply    string
	messages []string
}

func (s *stubPipeline) Process(_ context.Context, message string) string {
	s.messages = append(s.messages, message)
	return s.reply
}

type stubExtractor struct {
	req models.BookingRequest
	err error
}

func (s *stubExtractor) Extract(_ context.Context, _ string) (models.BookingRequest, error) {
	return s.req, s.err
}

type recordingNotifier struct {
	sent [][2]string // to, body
	err  error
}

func (n *recordingNotifier) SendWhatsApp(_ context.Context, to, body string) error {
	n.sent = append(n.sent, [2]string{to, body})
	return n.err
}

func newTestRouter(wh *WebhookHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhook/whatsapp", wh.WhatsAppWebhook)
	r.GET("/test-extract", wh.TestExtract)
	return r
}

func TestWhatsAppWebhook(t *testing.T) {
	pl := &stubPipeline{reply: "Booking Confirmed!"}
	notifier := &recordingNotifier{}
	wh := NewWebhookHandler(pl, &stubExtractor{}, notifier, zap.NewNop())
	router := newTestRouter(wh)

	form := url.Values{}
	form.Set("Body", "  Book a Deluxe Room for John Silva  ")
	form.Set("From", "whatsapp:+15551234567")

	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/xml")
	assert.Equal(t, "<Response></Response>", w.Body.String())

	// Message text reaches the pipeline trimmed.
	require.Len(t, pl.messages, 1)
	assert.Equal(t, "Book a Deluxe Room for John Silva", pl.messages[0])

	// Exactly two outbound messages: the processing ack, then the reply.
	require.Len(t, notifier.sent, 2)
	assert.Equal(t, "whatsapp:+15551234567", notifier.sent[0][0])
	assert.Contains(t, notifier.sent[0][1], "Processing your booking request")
	assert.Equal(t, "Booking Confirmed!", notifier.sent[1][1])
}

func TestWhatsAppWebhookAckFailureDoesNotAbort(t *testing.T) {
	pl := &stubPipeline{reply: "reply"}
	notifier := &recordingNotifier{err: errors.New("twilio down")}
	wh := NewWebhookHandler(pl, &stubExtractor{}, notifier, zap.NewNop())
	router := newTestRouter(wh)

	form := url.Values{}
	form.Set("Body", "hello")
	form.Set("From", "whatsapp:+15550000000")

	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, pl.messages, 1)
	assert.Len(t, notifier.sent, 2)
}

func TestTestExtract(t *testing.T) {
	ex := &stubExtractor{req: models.BookingRequest{GuestName: "John Silva", Adults: 2}}
	wh := NewWebhookHandler(&stubPipeline{}, ex, &recordingNotifier{}, zap.NewNop())
	router := newTestRouter(wh)

	req := httptest.NewRequest(http.MethodGet, "/test-extract", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"success"`)
	assert.Contains(t, w.Body.String(), "John Silva")
}

func TestTestExtractFailure(t *testing.T) {
	ex := &stubExtractor{err: errors.New("gemini unreachable")}
	wh := NewWebhookHandler(&stubPipeline{}, ex, &recordingNotifier{}, zap.NewNop())
	router := newTestRouter(wh)

	req := httptest.NewRequest(http.MethodGet, "/test-extract", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"error"`)
}
