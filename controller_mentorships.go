package community

import (
	"context"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrMentorshipNotFound is returned for lookups of unknown mentorships.
var ErrMentorshipNotFound = goerrors.New("mentorship not found", goerrors.CategoryNotFound).
	WithTextCode("MENTORSHIP_NOT_FOUND").
	WithCode(goerrors.CodeNotFound)

// ErrMentorshipInactive is returned when requesting an inactive offering.
var ErrMentorshipInactive = goerrors.New("this mentorship is not active", goerrors.CategoryBadInput).
	WithTextCode("MENTORSHIP_INACTIVE").
	WithCode(goerrors.CodeBadRequest)

// ErrMentorshipSelfRequest rejects a mentor requesting their own offering.
var ErrMentorshipSelfRequest = goerrors.New("cannot request mentorship from yourself", goerrors.CategoryBadInput).
	WithTextCode("MENTORSHIP_SELF_REQUEST").
	WithCode(goerrors.CodeBadRequest)

// ErrMentorshipFull is returned when the mentor has no mentee slots left.
var ErrMentorshipFull = goerrors.New("this mentor has reached maximum mentees", goerrors.CategoryBadInput).
	WithTextCode("MENTORSHIP_FULL").
	WithCode(goerrors.CodeBadRequest)

// ErrNotMentoringAvailable rejects offer creation when the profile does
// not advertise mentoring availability.
var ErrNotMentoringAvailable = goerrors.New("update your profile to indicate availability for mentoring", goerrors.CategoryBadInput).
	WithTextCode("MENTORING_NOT_AVAILABLE").
	WithCode(goerrors.CodeBadRequest)

// MentorshipsController serves mentorship offerings and requests.
type MentorshipsController struct {
	repo       RepositoryManager
	contextKey string
	logger     Logger
}

func NewMentorshipsController(repo RepositoryManager, cfg Config) *MentorshipsController {
	return &MentorshipsController{
		repo:       repo,
		contextKey: cfg.GetContextKey(),
		logger:     defLogger{},
	}
}

func (m *MentorshipsController) WithLogger(l Logger) *MentorshipsController {
	if l != nil {
		m.logger = l
	}
	return m
}

func (m *MentorshipsController) List(c router.Context) error {
	pager := NewPager(c.QueryInt("page", 1), c.QueryInt("limit", 12), 12)

	filter := MentorshipFilter{
		Expertise: c.Query("expertise", ""),
	}

	mentorships, total, err := m.repo.Mentorships().ListFiltered(c.Context(), filter, pager)
	if err != nil {
		m.logger.Error("mentorships list failed", "error", err)
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusOK, map[string]any{
		"mentorships": mentorships,
		"pagination":  pager.Paginate(total),
	}, "")
}

func (m *MentorshipsController) Get(c router.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return RespondError(c, ErrMentorshipNotFound)
	}

	mentorship, err := m.repo.Mentorships().GetWithMentor(c.Context(), id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return RespondError(c, ErrMentorshipNotFound)
		}
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusOK, map[string]any{"mentorship": mentorship}, "")
}

// MentorshipPayload carries offering fields for create and update.
type MentorshipPayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Expertise   []string `json:"expertise"`
	MaxMentees  int      `json:"max_mentees"`
	IsActive    *bool    `json:"is_active"`
}

// Validate will validate the payload
func (r MentorshipPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&r.Description, validation.Required, validation.Length(10, 5000)),
		validation.Field(&r.Expertise, validation.Required, validation.Length(1, 20)),
		validation.Field(&r.MaxMentees, validation.Min(0), validation.Max(20)),
	)
}

// Create registers the caller's own mentorship offering. The profile
// must advertise mentoring availability first.
func (m *MentorshipsController) Create(c router.Context) error {
	authed, ok := UserFromRouterContext(c, m.contextKey)
	if !ok {
		return RespondError(c, ErrUnauthenticated)
	}

	payload := new(MentorshipPayload)
	if err := c.Bind(payload); err != nil {
		return RespondError(c, ErrInvalidPayload)
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, NewValidationError(err))
	}

	user, err := m.repo.Users().GetByUserID(c.Context(), authed.ID)
	if err != nil {
		return RespondError(c, ErrIdentityNotFound)
	}

	if !user.AvailableForMentoring {
		return RespondError(c, ErrNotMentoringAvailable)
	}

	mentorship := &Mentorship{
		ID:          uuid.New(),
		MentorID:    user.ID,
		Title:       payload.Title,
		Description: payload.Description,
		Expertise:   payload.Expertise,
		MaxMentees:  5,
		IsActive:    true,
	}
	if payload.MaxMentees > 0 {
		mentorship.MaxMentees = payload.MaxMentees
	}
	if payload.IsActive != nil {
		mentorship.IsActive = *payload.IsActive
	}

	created, err := m.repo.Mentorships().Create(c.Context(), mentorship)
	if err != nil {
		m.logger.Error("mentorship create failed", "error", err)
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusCreated, map[string]any{"mentorship": created}, "Mentorship offer created successfully")
}

// RequestPayload is the mentee's request body.
type RequestPayload struct {
	Message string `json:"message"`
}

// Validate will validate the payload
func (r RequestPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Message, validation.Required, validation.Length(20, 2000)),
	)
}

// Request files a pending mentorship request for the caller.
func (m *MentorshipsController) Request(c router.Context) error {
	authed, ok := UserFromRouterContext(c, m.contextKey)
	if !ok {
		return RespondError(c, ErrUnauthenticated)
	}

	mentorshipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return RespondError(c, ErrMentorshipNotFound)
	}

	menteeID, err := uuid.Parse(authed.ID)
	if err != nil {
		return RespondError(c, ErrUnauthenticated)
	}

	payload := new(RequestPayload)
	if err := c.Bind(payload); err != nil {
		return RespondError(c, ErrInvalidPayload)
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, NewValidationError(err))
	}

	mentorship, err := m.repo.Mentorships().GetByID(c.Context(), mentorshipID.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return RespondError(c, ErrMentorshipNotFound)
		}
		return RespondError(c, err)
	}

	if !mentorship.IsActive {
		return RespondError(c, ErrMentorshipInactive)
	}

	if mentorship.MentorID == menteeID {
		return RespondError(c, ErrMentorshipSelfRequest)
	}

	req := &MentorshipRequest{
		MentorshipID: mentorshipID,
		MenteeID:     menteeID,
		Message:      payload.Message,
		Status:       RequestStatusPending,
	}

	err = m.repo.RunInTx(c.Context(), nil, func(ctx context.Context, tx bun.Tx) error {
		accepted, err := m.repo.Mentorships().CountAccepted(ctx, mentorshipID)
		if err != nil {
			return err
		}

		if accepted >= mentorship.MaxMentees {
			return ErrMentorshipFull
		}

		if _, err := m.repo.Mentorships().CreateRequestTx(ctx, tx, req); err != nil {
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

	return RespondData(c, http.StatusCreated, map[string]any{"request": req}, "Mentorship request sent successfully")
}

// UpdateRequestPayload carries the mentor's decision.
type UpdateRequestPayload struct {
	Status string `json:"status"`
}

// Validate will validate the payload
func (r UpdateRequestPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In(
			string(RequestStatusAccepted),
			string(RequestStatusDeclined),
		)),
	)
}

// UpdateRequest lets the owning mentor accept or decline a pending
// request. Resolved requests are terminal.
func (m *MentorshipsController) UpdateRequest(c router.Context) error {
	authed, ok := UserFromRouterContext(c, m.contextKey)
	if !ok {
		return RespondError(c, ErrUnauthenticated)
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return RespondError(c, ErrMentorshipNotFound)
	}

	payload := new(UpdateRequestPayload)
	if err := c.Bind(payload); err != nil {
		return RespondError(c, ErrInvalidPayload)
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, NewValidationError(err))
	}

	req, err := m.repo.Mentorships().GetRequest(c.Context(), requestID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return RespondError(c, ErrMentorshipNotFound)
		}
		return RespondError(c, err)
	}

	if req.Mentorship == nil || req.Mentorship.MentorID.String() != authed.ID {
		return RespondError(c, ErrForbidden)
	}

	target := RequestStatus(payload.Status)

	if target == RequestStatusAccepted {
		accepted, err := m.repo.Mentorships().CountAccepted(c.Context(), req.MentorshipID)
		if err != nil {
			return RespondError(c, err)
		}
		if accepted >= req.Mentorship.MaxMentees {
			return RespondError(c, ErrMentorshipFull)
		}
	}

	if err := TransitionRequest(req, target); err != nil {
		return RespondError(c, err)
	}

	updated, err := m.repo.Mentorships().UpdateRequestStatus(c.Context(), req)
	if err != nil {
		m.logger.Error("mentorship request update failed", "error", err, "request_id", requestID.String())
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusOK, map[string]any{"request": updated}, "Mentorship request "+payload.Status)
}

// Update lets the owning mentor edit their offering.
func (m *MentorshipsController) Update(c router.Context) error {
	authed, ok := UserFromRouterContext(c, m.contextKey)
	if !ok {
		return RespondError(c, ErrUnauthenticated)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return RespondError(c, ErrMentorshipNotFound)
	}

	payload := new(MentorshipPayload)
	if err := c.Bind(payload); err != nil {
		return RespondError(c, ErrInvalidPayload)
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, NewValidationError(err))
	}

	mentorship, err := m.repo.Mentorships().GetByID(c.Context(), id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return RespondError(c, ErrMentorshipNotFound)
		}
		return RespondError(c, err)
	}

	if mentorship.MentorID.String() != authed.ID {
		return RespondError(c, ErrForbidden)
	}

	mentorship.Title = payload.Title
	mentorship.Description = payload.Description
	mentorship.Expertise = payload.Expertise
	if payload.MaxMentees > 0 {
		mentorship.MaxMentees = payload.MaxMentees
	}
	if payload.IsActive != nil {
		mentorship.IsActive = *payload.IsActive
	}

	updated, err := m.repo.Mentorships().Update(c.Context(), mentorship)
	if err != nil {
		m.logger.Error("mentorship update failed", "error", err, "mentorship_id", id.String())
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusOK, map[string]any{"mentorship": updated}, "Mentorship updated successfully")
}

// Delete removes an offering; the owner or an admin may do it.
func (m *MentorshipsController) Delete(c router.Context) error {
	authed, ok := UserFromRouterContext(c, m.contextKey)
	if !ok {
		return RespondError(c, ErrUnauthenticated)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return RespondError(c, ErrMentorshipNotFound)
	}

	mentorship, err := m.repo.Mentorships().GetByID(c.Context(), id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return RespondError(c, ErrMentorshipNotFound)
		}
		return RespondError(c, err)
	}

	if mentorship.MentorID.String() != authed.ID && authed.Role != RoleAdmin {
		return RespondError(c, ErrForbidden)
	}

	if err := m.repo.Mentorships().Delete(c.Context(), mentorship); err != nil {
		m.logger.Error("mentorship delete failed", "error", err, "mentorship_id", id.String())
		return RespondError(c, err)
	}

	return RespondMessage(c, http.StatusOK, "Mentorship deleted successfully")
}
