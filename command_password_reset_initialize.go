package community

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// PasswordResetRequestedMessage is the generic acknowledgement the API
// returns whether or not the email is known.
const PasswordResetRequestedMessage = "If an account exists for that email, a reset link will be sent"

type InitializePasswordResetMessage struct {
	Email      string `json:"email"`
	OnResponse func(resp *InitializePasswordResetResponse)
}

func (p InitializePasswordResetMessage) Type() string { return "user.password_reset" }

type InitializePasswordResetResponse struct {
	// Token is empty when no account matched; the HTTP layer never
	// exposes the difference.
	Token   string
	Message string
}

// InitializePasswordResetHandler issues a short-lived reset token for
// known accounts. Unknown emails get the same outward response, so the
// endpoint does not reveal which emails are registered.
type InitializePasswordResetHandler struct {
	repo     RepositoryManager
	tokens   TokenService
	notifier Notifier
	sink     ActivitySink
}

func NewInitializePasswordResetHandler(repo RepositoryManager, tokens TokenService) *InitializePasswordResetHandler {
	return &InitializePasswordResetHandler{
		repo:     repo,
		tokens:   tokens,
		notifier: noopNotifier{},
		sink:     noopActivitySink{},
	}
}

func (h *InitializePasswordResetHandler) WithNotifier(n Notifier) *InitializePasswordResetHandler {
	h.notifier = normalizeNotifier(n)
	return h
}

func (h *InitializePasswordResetHandler) WithActivitySink(sink ActivitySink) *InitializePasswordResetHandler {
	h.sink = normalizeActivitySink(sink)
	return h
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InitializePasswordResetHandler) execute(ctx context.Context, event InitializePasswordResetMessage) error {
	resp := &InitializePasswordResetResponse{
		Message: PasswordResetRequestedMessage,
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.repo.Users().GetByEmail(ctx, NormalizeEmail(event.Email))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			// same acknowledgement as the happy path
			if event.OnResponse != nil {
				event.OnResponse(resp)
			}
			return nil
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password reset")
	}

	token, err := h.tokens.Generate(user.Identity(), PurposePasswordReset)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue password reset token")
	}

	// unlike the welcome email, a reset email that never arrives makes
	// the whole operation useless, so delivery failure is an error
	if err := h.notifier.NotifyPasswordReset(ctx, user.Email, user.FirstName, token); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to deliver password reset notification")
	}

	h.recordActivity(ctx, user)

	resp.Token = token
	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}

func (h *InitializePasswordResetHandler) recordActivity(ctx context.Context, user *User) {
	sink := normalizeActivitySink(h.sink)
	_ = sink.Record(ctx, ActivityEvent{
		EventType:  ActivityEventPasswordResetRequested,
		Actor:      ActorRef{ID: user.ID.String(), Type: "user"},
		UserID:     user.ID.String(),
		OccurredAt: time.Now(),
	})
}
