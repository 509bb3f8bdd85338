package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// Message is a single outbound email.
type Message struct {
	ToName   string
	ToEmail  string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer delivers transactional email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type sendgridMailer struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
	logger     zerolog.Logger
}

// NewSendgridMailer builds a Mailer backed by the SendGrid v3 API.
func NewSendgridMailer(key, appName, fromEmail string, logger zerolog.Logger) Mailer {
	return &sendgridMailer{
		key:        key,
		from:       sgmail.NewEmail(appName, fromEmail),
		subjPrefix: "[" + appName + "] ",
		logger:     logger.With().Str("component", "sendgrid_mailer").Logger(),
	}
}

func (m *sendgridMailer) Send(ctx context.Context, msg Message) error {
	p := sgmail.NewPersonalization()
	p.Subject = m.subjPrefix + msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToEmail))

	mail := sgmail.NewV3Mail()
	mail.SetFrom(m.from)
	mail.AddPersonalizations(p)

	textBody := msg.TextBody
	if textBody == "" {
		textBody = msg.Subject
	}
	mail.AddContent(sgmail.NewContent("text/plain", textBody))
	if msg.HTMLBody != "" {
		mail.AddContent(sgmail.NewContent("text/html", msg.HTMLBody))
	}

	req := sendgrid.GetRequest(m.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(mail)

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		m.logger.Error().Int("status", res.StatusCode).Str("body", res.Body).Msg("sendgrid delivery rejected")
		return fmt.Errorf("sendgrid delivery failed with status %d", res.StatusCode)
	}

	m.logger.Debug().Str("to", msg.ToEmail).Str("subject", msg.Subject).Msg("email delivered")
	return nil
}

type logMailer struct {
	logger zerolog.Logger
}

// NewLogMailer returns a Mailer that only logs messages. Used when no
// SendGrid key is configured.
func NewLogMailer(logger zerolog.Logger) Mailer {
	return &logMailer{logger: logger.With().Str("component", "log_mailer").Logger()}
}

func (m *logMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info().
		Str("to", msg.ToEmail).
		Str("subject", msg.Subject).
		Str("body", msg.TextBody).
		Msg("email delivery skipped, logging only")
	return nil
}
