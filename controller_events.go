package community

import (
	"context"
	"net/http"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrEventNotFound is returned for lookups of unknown events.
var ErrEventNotFound = goerrors.New("event not found", goerrors.CategoryNotFound).
	WithTextCode("EVENT_NOT_FOUND").
	WithCode(goerrors.CodeNotFound)

// ErrEventNotOpen is returned when registering for an unpublished event.
var ErrEventNotOpen = goerrors.New("event is not available for registration", goerrors.CategoryBadInput).
	WithTextCode("EVENT_NOT_OPEN").
	WithCode(goerrors.CodeBadRequest)

// ErrEventFull is returned when an event hit its attendee cap.
var ErrEventFull = goerrors.New("event is full", goerrors.CategoryBadInput).
	WithTextCode("EVENT_FULL").
	WithCode(goerrors.CodeBadRequest)

// EventsController serves events and registrations.
type EventsController struct {
	repo       RepositoryManager
	notifier   Notifier
	contextKey string
	logger     Logger
}

func NewEventsController(repo RepositoryManager, cfg Config) *EventsController {
	return &EventsController{
		repo:       repo,
		notifier:   noopNotifier{},
		contextKey: cfg.GetContextKey(),
		logger:     defLogger{},
	}
}

func (e *EventsController) WithLogger(l Logger) *EventsController {
	if l != nil {
		e.logger = l
	}
	return e
}

func (e *EventsController) WithNotifier(n Notifier) *EventsController {
	e.notifier = normalizeNotifier(n)
	return e
}

func (e *EventsController) List(c router.Context) error {
	pager := NewPager(c.QueryInt("page", 1), c.QueryInt("limit", 10), 10)

	filter := EventFilter{
		Status: EventStatus(c.Query("status", string(EventStatusPublished))),
	}
	if v, err := strconv.ParseBool(c.Query("upcoming", "false")); err == nil {
		filter.Upcoming = v
	}

	events, total, err := e.repo.Events().ListFiltered(c.Context(), filter, pager)
	if err != nil {
		e.logger.Error("events list failed", "error", err)
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusOK, map[string]any{
		"events":     events,
		"pagination": pager.Paginate(total),
	}, "")
}

func (e *EventsController) Get(c router.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return RespondError(c, ErrEventNotFound)
	}

	event, err := e.repo.Events().GetWithRegistrations(c.Context(), id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return RespondError(c, ErrEventNotFound)
		}
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusOK, map[string]any{"event": event}, "")
}

// EventPayload carries event fields for create and update.
type EventPayload struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Content      string     `json:"content"`
	ImageURL     string     `json:"image_url"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Location     string     `json:"location"`
	IsVirtual    bool       `json:"is_virtual"`
	MeetingURL   string     `json:"meeting_url"`
	MaxAttendees int        `json:"max_attendees"`
	IsPaid       bool       `json:"is_paid"`
	Price        float64    `json:"price"`
	Status       string     `json:"status"`
}

// Validate will validate the payload
func (r EventPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&r.Description, validation.Required, validation.Length(1, 5000)),
		validation.Field(&r.ImageURL, is.URL),
		validation.Field(&r.StartDate, validation.Required),
		validation.Field(&r.MeetingURL, is.URL),
		validation.Field(&r.MaxAttendees, validation.Min(0)),
		validation.Field(&r.Price, validation.Min(0.0)),
		validation.Field(&r.Status, validation.In(
			string(EventStatusDraft),
			string(EventStatusPublished),
			string(EventStatusCancelled),
		)),
	)
}

func (r EventPayload) apply(event *Event) {
	event.Title = r.Title
	event.Description = r.Description
	event.Content = r.Content
	event.ImageURL = r.ImageURL
	event.StartDate = r.StartDate
	event.EndDate = r.EndDate
	event.Location = r.Location
	event.IsVirtual = r.IsVirtual
	event.MeetingURL = r.MeetingURL
	event.MaxAttendees = r.MaxAttendees
	event.IsPaid = r.IsPaid
	event.Price = r.Price
	if r.Status != "" {
		event.Status = EventStatus(r.Status)
	}
}

func (e *EventsController) Create(c router.Context) error {
	authed, ok := UserFromRouterContext(c, e.contextKey)
	if !ok {
		return RespondError(c, ErrUnauthenticated)
	}

	payload := new(EventPayload)
	if err := c.Bind(payload); err != nil {
		return RespondError(c, ErrInvalidPayload)
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, NewValidationError(err))
	}

	event := &Event{
		ID:     uuid.New(),
		Status: EventStatusDraft,
	}
	payload.apply(event)

	if creator, err := uuid.Parse(authed.ID); err == nil {
		event.CreatedByID = creator
	}

	created, err := e.repo.Events().Create(c.Context(), event)
	if err != nil {
		e.logger.Error("event create failed", "error", err)
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusCreated, map[string]any{"event": created}, "Event created successfully")
}

func (e *EventsController) Update(c router.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return RespondError(c, ErrEventNotFound)
	}

	payload := new(EventPayload)
	if err := c.Bind(payload); err != nil {
		return RespondError(c, ErrInvalidPayload)
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, NewValidationError(err))
	}

	event, err := e.repo.Events().GetByID(c.Context(), id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return RespondError(c, ErrEventNotFound)
		}
		return RespondError(c, err)
	}

	payload.apply(event)

	updated, err := e.repo.Events().Update(c.Context(), event)
	if err != nil {
		e.logger.Error("event update failed", "error", err, "event_id", id.String())
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusOK, map[string]any{"event": updated}, "Event updated successfully")
}

func (e *EventsController) Delete(c router.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return RespondError(c, ErrEventNotFound)
	}

	event, err := e.repo.Events().GetByID(c.Context(), id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return RespondError(c, ErrEventNotFound)
		}
		return RespondError(c, err)
	}

	if err := e.repo.Events().Delete(c.Context(), event); err != nil {
		e.logger.Error("event delete failed", "error", err, "event_id", id.String())
		return RespondError(c, err)
	}

	return RespondMessage(c, http.StatusOK, "Event deleted successfully")
}

// Register signs the caller up for a published event, enforcing the
// capacity and duplicate checks inside one transaction.
func (e *EventsController) Register(c router.Context) error {
	authed, ok := UserFromRouterContext(c, e.contextKey)
	if !ok {
		return RespondError(c, ErrUnauthenticated)
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return RespondError(c, ErrEventNotFound)
	}

	userID, err := uuid.Parse(authed.ID)
	if err != nil {
		return RespondError(c, ErrUnauthenticated)
	}

	event, err := e.repo.Events().GetByID(c.Context(), eventID.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return RespondError(c, ErrEventNotFound)
		}
		return RespondError(c, err)
	}

	if event.Status != EventStatusPublished {
		return RespondError(c, ErrEventNotOpen)
	}

	reg := &EventRegistration{
		EventID: eventID,
		UserID:  userID,
	}

	err = e.repo.RunInTx(c.Context(), nil, func(ctx context.Context, tx bun.Tx) error {
		count, err := e.repo.Events().CountRegistrationsTx(ctx, tx, eventID)
		if err != nil {
			return err
		}

		if !event.HasCapacity(count) {
			return ErrEventFull
		}

		if _, err := e.repo.Events().CreateRegistrationTx(ctx, tx, reg); err != nil {
			if IsUniqueViolation(err) {
				return ErrAlreadyExists
			}
			return err
		}

		return nil
	})
	if err != nil {
		return RespondError(c, err)
	}

	// confirmation email is best effort
	if err := e.notifier.NotifyEventRegistration(
		c.Context(), authed.Email, "", event.Title, event.StartDate.Format("2006-01-02"),
	); err != nil {
		e.logger.Error("event registration notification failed", "error", err)
	}

	return RespondData(c, http.StatusCreated, map[string]any{"registration": reg}, "Successfully registered for event")
}

func (e *EventsController) Unregister(c router.Context) error {
	authed, ok := UserFromRouterContext(c, e.contextKey)
	if !ok {
		return RespondError(c, ErrUnauthenticated)
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return RespondError(c, ErrEventNotFound)
	}

	userID, err := uuid.Parse(authed.ID)
	if err != nil {
		return RespondError(c, ErrUnauthenticated)
	}

	if err := e.repo.Events().DeleteRegistration(c.Context(), eventID, userID); err != nil {
		if repository.IsRecordNotFound(err) {
			return RespondError(c, goerrors.New("registration not found", goerrors.CategoryNotFound).
				WithCode(goerrors.CodeNotFound))
		}
		return RespondError(c, err)
	}

	return RespondMessage(c, http.StatusOK, "Successfully unregistered from event")
}
