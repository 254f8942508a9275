// File: services/mailbox/poller.go
package mailbox

import (
	"context"
	"fmt"
	"io"
	"strings"

	"resortagent/services/pipeline"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
	"go.uber.org/zap"
)

// Poller reads unread booking emails over IMAP and feeds them through the
// request pipeline. Replies are not emailed back; the booking outcome lives
// in the reservation system and the operational log, matching the WhatsApp
// channel being the conversational surface.
type Poller struct {
	Addr     string // host:port, TLS
	Username string
	Password string
	Mailbox  string
	Pipeline pipeline.RequestPipeline
	Seen     *SeenStore
	Logger   *zap.Logger
}

func NewPoller(addr, username, password string, pl pipeline.RequestPipeline, seen *SeenStore, logger *zap.Logger) *Poller {
	return &Poller{
		Addr:     addr,
		Username: username,
		Password: password,
		Mailbox:  "INBOX",
		Pipeline: pl,
		Seen:     seen,
		Logger:   logger,
	}
}

// CheckNewMail connects, finds unseen messages with "booking" in the
// subject, processes each one and marks it seen. Per-message failures are
// logged and skipped; they do not abort the rest of the batch.
func (p *Poller) CheckNewMail(ctx context.Context) error {
	if p.Username == "" || p.Password == "" {
		return fmt.Errorf("mailbox credentials are not configured")
	}

	c, err := client.DialTLS(p.Addr, nil)
	if err != nil {
		return fmt.Errorf("IMAP dial failed: %w", err)
	}
	defer c.Logout()

	if err := c.Login(p.Username, p.Password); err != nil {
		return fmt.Errorf("IMAP login failed: %w", err)
	}
	if _, err := c.Select(p.Mailbox, false); err != nil {
		return fmt.Errorf("IMAP select %s failed: %w", p.Mailbox, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	criteria.Header.Add("Subject", "booking")
	ids, err := c.Search(criteria)
	if err != nil {
		return fmt.Errorf("IMAP search failed: %w", err)
	}

	p.Logger.Info("Mailbox poll", zap.Int("unreadBookingEmails", len(ids)))
	if len(ids) == 0 {
		return nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	// Peek so a fetch alone does not flip the Seen flag; it is set
	// explicitly after the pipeline has run.
	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, section.FetchItem()}

	messages := make(chan *imap.Message, len(ids))
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	for msg := range messages {
		p.processMessage(ctx, c, msg, section)
	}
	if err := <-done; err != nil {
		return fmt.Errorf("IMAP fetch failed: %w", err)
	}
	return nil
}

func (p *Poller) processMessage(ctx context.Context, c *client.Client, msg *imap.Message, section *imap.BodySectionName) {
	logger := p.Logger
	subject, sender, messageID := envelopeFields(msg)
	logger = logger.With(zap.String("from", sender), zap.String("subject", subject))

	alreadySeen, err := p.Seen.MarkProcessed(ctx, messageID)
	if err != nil {
		logger.Warn("Dedup store unavailable, continuing without it", zap.Error(err))
	} else if alreadySeen {
		logger.Info("Email already processed, skipping", zap.String("messageId", messageID))
		p.markSeen(c, msg.SeqNum, logger)
		return
	}

	body, err := plainTextBody(msg.GetBody(section))
	if err != nil {
		logger.Error("Failed to read email body", zap.Error(err))
		return
	}

	logger.Info("Processing booking email")
	text := fmt.Sprintf("From: %s\nSubject: %s\n\n%s", sender, subject, body)
	reply := p.Pipeline.Process(ctx, text)
	logger.Info("Booking email processed", zap.String("reply", firstLine(reply)))

	p.markSeen(c, msg.SeqNum, logger)
}

func (p *Poller) markSeen(c *client.Client, seqNum uint32, logger *zap.Logger) {
	seqset := new(imap.SeqSet)
	seqset.AddNum(seqNum)
	item := imap.FormatFlagsOp(imap.AddFlags, true)
	if err := c.Store(seqset, item, []interface{}{imap.SeenFlag}, nil); err != nil {
		logger.Warn("Failed to mark email as seen", zap.Error(err))
	}
}

func envelopeFields(msg *imap.Message) (subject, sender, messageID string) {
	if msg.Envelope == nil {
		return "", "", ""
	}
	subject = msg.Envelope.Subject
	messageID = msg.Envelope.MessageId
	if len(msg.Envelope.From) > 0 {
		sender = msg.Envelope.From[0].Address()
	}
	return subject, sender, messageID
}

// plainTextBody walks the MIME parts and returns the first text/plain body.
func plainTextBody(r io.Reader) (string, error) {
	if r == nil {
		return "", fmt.Errorf("message has no body section")
	}
	mr, err := mail.CreateReader(r)
	if err != nil {
		return "", err
	}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if h, ok := part.Header.(*mail.InlineHeader); ok {
			contentType, _, _ := h.ContentType()
			if contentType == "text/plain" {
				b, err := io.ReadAll(part.Body)
				if err != nil {
					return "", err
				}
				return strings.TrimSpace(string(b)), nil
			}
		}
	}
	return "", fmt.Errorf("no text/plain part found")
}

func firstLine(s string) string {
	if i := strings.Index(s, "\n"); i >= 0 {
		return s[:i]
	}
	return s
}
