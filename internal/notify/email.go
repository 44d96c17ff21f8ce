// Package notify sends user notifications. Delivery is simulated: the
// notifier waits for a fixed delay, as a slow mail gateway would, then logs.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"user-service/internal/worker"
)

// DefaultDelay is the simulated latency of one email send.
const DefaultDelay = 3 * time.Second

// TaskWelcomeEmail names the welcome-email task in logs and metrics.
const TaskWelcomeEmail = "welcome_email"

var errNoRecipient = errors.New("recipient name is empty")

// EmailNotifier simulates sending emails.
type EmailNotifier struct {
	delay  time.Duration
	logger *slog.Logger
}

// NewEmailNotifier creates an EmailNotifier that takes delay per send.
func NewEmailNotifier(delay time.Duration, logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{delay: delay, logger: logger}
}

// SendWelcome sends the sign-up greeting to name.
func (n *EmailNotifier) SendWelcome(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("send welcome email: %w", errNoRecipient)
	}

	timer := time.NewTimer(n.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return fmt.Errorf("send welcome email to %q: %w", name, ctx.Err())
	}

	n.logger.Info("Welcome email sent", "recipient", name)
	return nil
}

// Scheduler is the part of worker.Runner the notifier needs.
type Scheduler interface {
	Submit(name string, fn worker.Task) (string, error)
}

// WelcomeScheduler defers welcome emails to a Scheduler.
type WelcomeScheduler struct {
	scheduler Scheduler
	notifier  *EmailNotifier
	logger    *slog.Logger
}

// NewWelcomeScheduler creates a WelcomeScheduler.
func NewWelcomeScheduler(scheduler Scheduler, notifier *EmailNotifier, logger *slog.Logger) *WelcomeScheduler {
	return &WelcomeScheduler{scheduler: scheduler, notifier: notifier, logger: logger}
}

// ScheduleWelcome queues a welcome email for name. A scheduling failure is
// logged only: the caller has already answered the client.
func (s *WelcomeScheduler) ScheduleWelcome(name string) {
	taskID, err := s.scheduler.Submit(TaskWelcomeEmail, func(ctx context.Context) error {
		return s.notifier.SendWelcome(ctx, name)
	})
	if err != nil {
		s.logger.Error("Failed to schedule welcome email", "recipient", name, "error", err)
		return
	}
	s.logger.Debug("Welcome email scheduled", "recipient", name, "task_id", taskID)
}
