package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/unimanage/unimanage-api/internal/mail"
	"github.com/unimanage/unimanage-api/internal/observability"
)

// WelcomeEmailSubject is the NATS subject welcome-email jobs travel on.
const WelcomeEmailSubject = "unimanage.jobs.welcome_email"

// WelcomeEmailJob asks for a welcome email after signup.
type WelcomeEmailJob struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// WelcomeEmailDispatcher delivers welcome emails with bounded retry.
// Exhausted failures are logged and dropped; signup never observes
// delivery errors.
type WelcomeEmailDispatcher struct {
	mailer mail.Mailer
	policy RetryPolicy
	logger zerolog.Logger
	sleep  func(context.Context, time.Duration) error
}

// NewWelcomeEmailDispatcher constructs a dispatcher.
func NewWelcomeEmailDispatcher(mailer mail.Mailer, policy RetryPolicy, logger zerolog.Logger) *WelcomeEmailDispatcher {
	return &WelcomeEmailDispatcher{
		mailer: mailer,
		policy: policy,
		logger: logger.With().Str("component", "welcome_email_dispatcher").Logger(),
	}
}

// Dispatch sends one welcome email, retrying per the policy.
func (d *WelcomeEmailDispatcher) Dispatch(ctx context.Context, job WelcomeEmailJob) {
	msg := mail.Message{
		To:       job.Email,
		ToName:   job.Username,
		Subject:  "Welcome to Our Uni Management Site!",
		TextBody: fmt.Sprintf("Hello %s,\n\nThank you for registering with us. We're excited to have you on board!\n\nBest Regards,\nYour Team", job.Username),
		HTMLBody: fmt.Sprintf("<p>Hello %s,</p><p>Thank you for registering with us. We're excited to have you on board!</p><p>Best Regards,</p><p>Your Team</p>", job.Username),
	}

	err := d.policy.Run(ctx, d.sleep, func(ctx context.Context) error {
		return d.mailer.Send(ctx, msg)
	})
	if err != nil {
		observability.EmailsFailedTotal().WithLabelValues("welcome").Inc()
		d.logger.Error().Err(err).Str("email", job.Email).Msg("welcome email dropped after retries")
		return
	}

	observability.EmailsSentTotal().WithLabelValues("welcome").Inc()
}

// WelcomeEmailQueue publishes welcome-email jobs to NATS and consumes
// them in-process. Without a NATS connection jobs are dispatched on a
// goroutine directly, so local development works broker-less.
type WelcomeEmailQueue struct {
	nats       *nats.Conn
	dispatcher *WelcomeEmailDispatcher
	logger     zerolog.Logger
}

// NewWelcomeEmailQueue constructs the queue. natsConn may be nil.
func NewWelcomeEmailQueue(natsConn *nats.Conn, dispatcher *WelcomeEmailDispatcher, logger zerolog.Logger) *WelcomeEmailQueue {
	return &WelcomeEmailQueue{
		nats:       natsConn,
		dispatcher: dispatcher,
		logger:     logger.With().Str("component", "welcome_email_queue").Logger(),
	}
}

// Enqueue hands a job to the broker, or to a local goroutine when no
// broker is configured.
func (q *WelcomeEmailQueue) Enqueue(ctx context.Context, job WelcomeEmailJob) error {
	if q.nats == nil {
		go q.dispatcher.Dispatch(context.WithoutCancel(ctx), job)
		return nil
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encoding welcome email job: %w", err)
	}

	if err := q.nats.Publish(WelcomeEmailSubject, payload); err != nil {
		return fmt.Errorf("publishing welcome email job: %w", err)
	}

	return nil
}

// StartWorker subscribes to the job subject and dispatches each job on
// its own goroutine. Returns immediately when no broker is configured.
func (q *WelcomeEmailQueue) StartWorker(ctx context.Context) error {
	if q.nats == nil {
		return nil
	}

	sub, err := q.nats.Subscribe(WelcomeEmailSubject, func(msg *nats.Msg) {
		var job WelcomeEmailJob
		if err := json.Unmarshal(msg.Data, &job); err != nil {
			q.logger.Error().Err(err).Msg("dropping malformed welcome email job")
			return
		}
		go q.dispatcher.Dispatch(ctx, job)
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", WelcomeEmailSubject, err)
	}

	go func() {
		<-ctx.Done()
		_ = sub.Unsubscribe()
	}()

	return nil
}
