package community

import (
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// UsersController serves the public alumni directory and profile
// updates for the authenticated user.
type UsersController struct {
	repo       RepositoryManager
	contextKey string
	logger     Logger
}

func NewUsersController(repo RepositoryManager, cfg Config) *UsersController {
	return &UsersController{
		repo:       repo,
		contextKey: cfg.GetContextKey(),
		logger:     defLogger{},
	}
}

func (u *UsersController) WithLogger(l Logger) *UsersController {
	if l != nil {
		u.logger = l
	}
	return u
}

func (u *UsersController) List(c router.Context) error {
	pager := NewPager(c.QueryInt("page", 1), c.QueryInt("limit", 12), 12)

	filter := UserFilter{
		Search:         c.Query("search", ""),
		Industry:       c.Query("industry", ""),
		GraduationYear: c.QueryInt("graduation_year", 0),
		Expertise:      c.Query("expertise", ""),
	}

	if v := c.Query("available_for_mentoring", ""); v != "" {
		mentoring, err := strconv.ParseBool(v)
		if err == nil {
			filter.AvailableForMentoring = &mentoring
		}
	}

	users, total, err := u.repo.Users().Directory(c.Context(), filter, pager)
	if err != nil {
		u.logger.Error("users list failed", "error", err)
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusOK, map[string]any{
		"users":      users,
		"pagination": pager.Paginate(total),
	}, "")
}

func (u *UsersController) Get(c router.Context) error {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return RespondError(c, ErrIdentityNotFound)
	}

	user, err := u.repo.Users().GetByID(c.Context(), id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return RespondError(c, ErrIdentityNotFound)
		}
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusOK, map[string]any{"user": user}, "")
}

// UpdateProfilePayload carries the mutable profile fields.
type UpdateProfilePayload struct {
	FirstName             string   `json:"first_name"`
	LastName              string   `json:"last_name"`
	Bio                   string   `json:"bio"`
	GraduationYear        int      `json:"graduation_year"`
	Degree                string   `json:"degree"`
	Industry              string   `json:"industry"`
	Location              string   `json:"location"`
	CurrentCompany        string   `json:"current_company"`
	CurrentRole           string   `json:"current_role"`
	LinkedinURL           string   `json:"linkedin_url"`
	ProfileImageURL       string   `json:"profile_image_url"`
	Expertise             []string `json:"expertise"`
	YearsOfExperience     int      `json:"years_of_experience"`
	AvailableForMentoring bool     `json:"available_for_mentoring"`
	InterestedInStartups  bool     `json:"interested_in_startups"`
}

// Validate will validate the payload
func (r UpdateProfilePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Bio, validation.Length(0, 2000)),
		validation.Field(&r.GraduationYear, validation.Min(1900), validation.Max(2100)),
		validation.Field(&r.LinkedinURL, is.URL),
		validation.Field(&r.ProfileImageURL, is.URL),
		validation.Field(&r.YearsOfExperience, validation.Min(0), validation.Max(80)),
	)
}

// UpdateMe updates the caller's own profile. Email, role, and password
// are not reachable through this endpoint.
func (u *UsersController) UpdateMe(c router.Context) error {
	authed, ok := UserFromRouterContext(c, u.contextKey)
	if !ok {
		return RespondError(c, ErrUnauthenticated)
	}

	payload := new(UpdateProfilePayload)
	if err := c.Bind(payload); err != nil {
		u.logger.Error("profile update: failed to parse payload", "error", err)
		return RespondError(c, ErrInvalidPayload)
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, NewValidationError(err))
	}

	user, err := u.repo.Users().GetByUserID(c.Context(), authed.ID)
	if err != nil {
		return RespondError(c, ErrIdentityNotFound)
	}

	user.FirstName = payload.FirstName
	user.LastName = payload.LastName
	user.Bio = payload.Bio
	user.GraduationYear = payload.GraduationYear
	user.Degree = payload.Degree
	user.Industry = payload.Industry
	user.Location = payload.Location
	user.CurrentCompany = payload.CurrentCompany
	user.CurrentRole = payload.CurrentRole
	user.LinkedinURL = payload.LinkedinURL
	user.ProfileImageURL = payload.ProfileImageURL
	user.Expertise = payload.Expertise
	user.YearsOfExperience = payload.YearsOfExperience
	user.AvailableForMentoring = payload.AvailableForMentoring
	user.InterestedInStartups = payload.InterestedInStartups

	updated, err := u.repo.Users().Update(c.Context(), user)
	if err != nil {
		u.logger.Error("profile update failed", "error", err, "user_id", user.ID.String())
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusOK, map[string]any{"user": updated}, "Profile updated successfully")
}

// MyEvents lists the caller's event registrations, newest first, with
// the event attached to each row.
func (u *UsersController) MyEvents(c router.Context) error {
	authed, ok := UserFromRouterContext(c, u.contextKey)
	if !ok {
		return RespondError(c, ErrUnauthenticated)
	}

	userID, err := uuid.Parse(authed.ID)
	if err != nil {
		return RespondError(c, ErrUnauthenticated)
	}

	registrations, err := u.repo.Events().ListRegistrationsForUser(c.Context(), userID)
	if err != nil {
		u.logger.Error("my events lookup failed", "error", err, "user_id", authed.ID)
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusOK, map[string]any{"registrations": registrations}, "")
}

// MyMentorships returns both sides of the caller's mentoring activity:
// offerings where they mentor and requests where they are the mentee.
func (u *UsersController) MyMentorships(c router.Context) error {
	authed, ok := UserFromRouterContext(c, u.contextKey)
	if !ok {
		return RespondError(c, ErrUnauthenticated)
	}

	userID, err := uuid.Parse(authed.ID)
	if err != nil {
		return RespondError(c, ErrUnauthenticated)
	}

	mentorships, err := u.repo.Mentorships().ListByMentor(c.Context(), userID)
	if err != nil {
		u.logger.Error("my mentorships lookup failed", "error", err, "user_id", authed.ID)
		return RespondError(c, err)
	}

	requests, err := u.repo.Mentorships().ListRequestsByMentee(c.Context(), userID)
	if err != nil {
		u.logger.Error("my mentorship requests lookup failed", "error", err, "user_id", authed.ID)
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusOK, map[string]any{
		"mentorships": mentorships,
		"requests":    requests,
	}, "")
}
