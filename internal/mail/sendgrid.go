package mail

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

// SendgridMailer delivers mail through the SendGrid v3 API.
type SendgridMailer struct {
	key    string
	from   *sgmail.Email
	logger zerolog.Logger
}

var _ Mailer = (*SendgridMailer)(nil)

// NewSendgridMailer constructs a SendGrid-backed mailer.
func NewSendgridMailer(apiKey, fromName, fromAddress string, logger zerolog.Logger) *SendgridMailer {
	return &SendgridMailer{
		key:    apiKey,
		from:   sgmail.NewEmail(fromName, fromAddress),
		logger: logger.With().Str("component", "sendgrid_mailer").Logger(),
	}
}

// Send delivers one message. Non-2xx API responses are returned as
// errors so callers can apply their retry policy.
func (m *SendgridMailer) Send(ctx context.Context, msg Message) error {
	personalization := sgmail.NewPersonalization()
	personalization.Subject = msg.Subject
	personalization.AddTos(sgmail.NewEmail(msg.ToName, msg.To))

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(m.from)
	v3.AddPersonalizations(personalization)
	v3.AddContent(sgmail.NewContent("text/plain", msg.TextBody))
	if msg.HTMLBody != "" {
		v3.AddContent(sgmail.NewContent("text/html", msg.HTMLBody))
	}

	req := sendgrid.GetRequest(m.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(v3)

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sending email: status %d: %s", res.StatusCode, res.Body)
	}

	m.logger.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("email delivered")
	return nil
}
