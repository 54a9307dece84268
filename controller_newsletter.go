package community

import (
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// ErrSubscriptionNotFound is returned when unsubscribing an unknown email.
var ErrSubscriptionNotFound = goerrors.New("email not found in newsletter subscriptions", goerrors.CategoryNotFound).
	WithTextCode("SUBSCRIPTION_NOT_FOUND").
	WithCode(goerrors.CodeNotFound)

// NewsletterController serves newsletter opt-ins.
type NewsletterController struct {
	repo       RepositoryManager
	notifier   Notifier
	contextKey string
	logger     Logger
}

func NewNewsletterController(repo RepositoryManager, cfg Config) *NewsletterController {
	return &NewsletterController{
		repo:       repo,
		notifier:   noopNotifier{},
		contextKey: cfg.GetContextKey(),
		logger:     defLogger{},
	}
}

func (n *NewsletterController) WithLogger(l Logger) *NewsletterController {
	if l != nil {
		n.logger = l
	}
	return n
}

func (n *NewsletterController) WithNotifier(notifier Notifier) *NewsletterController {
	n.notifier = normalizeNotifier(notifier)
	return n
}

// SubscribePayload is the subscribe/unsubscribe body.
type SubscribePayload struct {
	Email string `json:"email"`
}

// Validate will validate the payload
func (r SubscribePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// Subscribe opts an email in. Subscribing twice is a no-op and an
// inactive subscription is reactivated rather than duplicated.
func (n *NewsletterController) Subscribe(c router.Context) error {
	payload := new(SubscribePayload)
	if err := c.Bind(payload); err != nil {
		return RespondError(c, ErrInvalidPayload)
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, NewValidationError(err))
	}

	email := NormalizeEmail(payload.Email)

	existing, err := n.repo.Newsletter().GetByEmail(c.Context(), email)
	if err != nil && !repository.IsRecordNotFound(err) {
		n.logger.Error("newsletter lookup failed", "error", err)
		return RespondError(c, err)
	}

	if existing != nil {
		if existing.IsActive {
			return RespondMessage(c, http.StatusOK, "Already subscribed to newsletter")
		}

		if err := n.repo.Newsletter().SetActive(c.Context(), email, true); err != nil {
			return RespondError(c, err)
		}

		n.notifySubscription(c, email)
		return RespondMessage(c, http.StatusOK, "Newsletter subscription reactivated")
	}

	sub := &NewsletterSubscription{
		ID:       uuid.New(),
		Email:    email,
		IsActive: true,
	}

	if _, err := n.repo.Newsletter().Create(c.Context(), sub); err != nil {
		if IsUniqueViolation(err) {
			return RespondMessage(c, http.StatusOK, "Already subscribed to newsletter")
		}
		n.logger.Error("newsletter subscribe failed", "error", err)
		return RespondError(c, err)
	}

	n.notifySubscription(c, email)
	return RespondMessage(c, http.StatusCreated, "Successfully subscribed to newsletter")
}

// Unsubscribe flips the flag; unknown emails get a 404.
func (n *NewsletterController) Unsubscribe(c router.Context) error {
	payload := new(SubscribePayload)
	if err := c.Bind(payload); err != nil {
		return RespondError(c, ErrInvalidPayload)
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, NewValidationError(err))
	}

	if err := n.repo.Newsletter().SetActive(c.Context(), payload.Email, false); err != nil {
		if repository.IsRecordNotFound(err) {
			return RespondError(c, ErrSubscriptionNotFound)
		}
		return RespondError(c, err)
	}

	return RespondMessage(c, http.StatusOK, "Successfully unsubscribed from newsletter")
}

// Subscriptions lists opt-ins for admins.
func (n *NewsletterController) Subscriptions(c router.Context) error {
	pager := NewPager(c.QueryInt("page", 1), c.QueryInt("limit", 50), 50)

	active := true
	if v, err := strconv.ParseBool(c.Query("is_active", "true")); err == nil {
		active = v
	}

	subs, total, err := n.repo.Newsletter().ListFiltered(c.Context(), active, pager)
	if err != nil {
		n.logger.Error("newsletter subscriptions list failed", "error", err)
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusOK, map[string]any{
		"subscriptions": subs,
		"pagination":    pager.Paginate(total),
	}, "")
}

// Stats summarizes the subscriber base for admins.
func (n *NewsletterController) Stats(c router.Context) error {
	stats, err := n.repo.Newsletter().Stats(c.Context())
	if err != nil {
		n.logger.Error("newsletter stats failed", "error", err)
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusOK, map[string]any{"stats": stats}, "")
}

// LinkAccount attaches the caller's account to their subscription,
// creating one when none exists.
func (n *NewsletterController) LinkAccount(c router.Context) error {
	authed, ok := UserFromRouterContext(c, n.contextKey)
	if !ok {
		return RespondError(c, ErrUnauthenticated)
	}

	userID, err := uuid.Parse(authed.ID)
	if err != nil {
		return RespondError(c, ErrUnauthenticated)
	}

	email := NormalizeEmail(authed.Email)

	existing, err := n.repo.Newsletter().GetByEmail(c.Context(), email)
	if err != nil && !repository.IsRecordNotFound(err) {
		return RespondError(c, err)
	}

	if existing == nil {
		sub := &NewsletterSubscription{
			ID:       uuid.New(),
			Email:    email,
			UserID:   &userID,
			IsActive: true,
		}
		if _, err := n.repo.Newsletter().Create(c.Context(), sub); err != nil {
			return RespondError(c, err)
		}
	} else if existing.UserID == nil {
		if err := n.repo.Newsletter().LinkUser(c.Context(), email, userID); err != nil {
			return RespondError(c, err)
		}
	}

	return RespondMessage(c, http.StatusOK, "Newsletter subscription linked to account")
}

func (n *NewsletterController) notifySubscription(c router.Context, email string) {
	if err := n.notifier.NotifyNewsletterSubscription(c.Context(), email); err != nil {
		n.logger.Error("newsletter notification failed", "error", err, "email", email)
	}
}
