package community

import "context"

// Notifier is the external collaborator that delivers email. The auth
// pipeline never implements delivery itself; it only decides whether a
// delivery failure matters. Welcome, event, and newsletter messages are
// best effort; a failed password reset delivery is an error because the
// reset link is the whole point of the call.
type Notifier interface {
	NotifyWelcome(ctx context.Context, email, firstName string) error
	NotifyPasswordReset(ctx context.Context, email, firstName, token string) error
	NotifyEventRegistration(ctx context.Context, email, firstName, eventTitle string, startDate string) error
	NotifyNewsletterSubscription(ctx context.Context, email string) error
}

// LogNotifier writes notifications to the logger instead of delivering
// them. It is the default wired in development and in tests.
type LogNotifier struct {
	logger Logger
}

// NewLogNotifier returns a Notifier backed by the given logger.
func NewLogNotifier(logger Logger) *LogNotifier {
	if logger == nil {
		logger = defLogger{}
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyWelcome(ctx context.Context, email, firstName string) error {
	n.logger.Info("notify welcome", "email", email, "first_name", firstName)
	return nil
}

func (n *LogNotifier) NotifyPasswordReset(ctx context.Context, email, firstName, token string) error {
	n.logger.Info("notify password reset", "email", email, "token", token)
	return nil
}

func (n *LogNotifier) NotifyEventRegistration(ctx context.Context, email, firstName, eventTitle string, startDate string) error {
	n.logger.Info("notify event registration", "email", email, "event", eventTitle, "start", startDate)
	return nil
}

func (n *LogNotifier) NotifyNewsletterSubscription(ctx context.Context, email string) error {
	n.logger.Info("notify newsletter subscription", "email", email)
	return nil
}

var _ Notifier = (*LogNotifier)(nil)

type noopNotifier struct{}

func (noopNotifier) NotifyWelcome(context.Context, string, string) error            { return nil }
func (noopNotifier) NotifyPasswordReset(context.Context, string, string, string) error { return nil }
func (noopNotifier) NotifyEventRegistration(context.Context, string, string, string, string) error {
	return nil
}
func (noopNotifier) NotifyNewsletterSubscription(context.Context, string) error { return nil }

func normalizeNotifier(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}
