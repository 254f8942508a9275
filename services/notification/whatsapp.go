package notification

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// NotificationService sends outbound messages to guests.
type NotificationService interface {
	SendWhatsApp(ctx context.Context, to, body string) error
}

// TwilioNotifier is the production implementation, posting to the Twilio
// Messages REST endpoint with form-encoded fields and basic auth.
type TwilioNotifier struct {
	HTTP       *http.Client
	AccountSID string
	AuthToken  string
	From       string
	Logger     *zap.Logger
}

func NewTwilioNotifier(accountSID, authToken, from string, logger *zap.Logger) *TwilioNotifier {
	return &TwilioNotifier{
		HTTP:       &http.Client{Timeout: 30 * time.Second},
		AccountSID: accountSID,
		AuthToken:  authToken,
		From:       from,
		Logger:     logger,
	}
}

func (n *TwilioNotifier) SendWhatsApp(ctx context.Context, to, body string) error {
	from := n.From
	if !strings.HasPrefix(from, "whatsapp:") {
		from = "whatsapp:" + from
	}

	form := url.Values{}
	form.Set("From", from)
	form.Set("To", to)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", n.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build Twilio request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(n.AccountSID, n.AuthToken)

	resp, err := n.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("Twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Twilio rejected message [%d]: %s", resp.StatusCode, string(respBody))
	}

	n.Logger.Info("WhatsApp sent", zap.String("to", to))
	return nil
}
