package mail

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// ConsoleMailer logs messages instead of delivering them and keeps a
// copy of everything it "sent". Used in development and tests.
type ConsoleMailer struct {
	logger zerolog.Logger

	mu   sync.Mutex
	sent []Message
}

var _ Mailer = (*ConsoleMailer)(nil)

// NewConsoleMailer constructs a console mailer.
func NewConsoleMailer(logger zerolog.Logger) *ConsoleMailer {
	return &ConsoleMailer{logger: logger.With().Str("component", "console_mailer").Logger()}
}

// Send records the message and writes it to the log.
func (m *ConsoleMailer) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()

	m.logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.TextBody).
		Msg("email (console)")

	return nil
}

// Sent returns a snapshot of every message sent so far.
func (m *ConsoleMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}
