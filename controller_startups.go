package community

import (
	"context"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrStartupNotFound is returned for lookups of unknown startups.
var ErrStartupNotFound = goerrors.New("startup not found", goerrors.CategoryNotFound).
	WithTextCode("STARTUP_NOT_FOUND").
	WithCode(goerrors.CodeNotFound)

// ErrStartupClosed is returned when applying to a non-active startup.
var ErrStartupClosed = goerrors.New("this startup is not accepting applications", goerrors.CategoryBadInput).
	WithTextCode("STARTUP_CLOSED").
	WithCode(goerrors.CodeBadRequest)

// StartupsController serves the startup portfolio and applications.
type StartupsController struct {
	repo       RepositoryManager
	contextKey string
	logger     Logger
}

func NewStartupsController(repo RepositoryManager, cfg Config) *StartupsController {
	return &StartupsController{
		repo:       repo,
		contextKey: cfg.GetContextKey(),
		logger:     defLogger{},
	}
}

func (s *StartupsController) WithLogger(l Logger) *StartupsController {
	if l != nil {
		s.logger = l
	}
	return s
}

func (s *StartupsController) List(c router.Context) error {
	pager := NewPager(c.QueryInt("page", 1), c.QueryInt("limit", 12), 12)

	filter := StartupFilter{
		Status:   StartupStatus(c.Query("status", string(StartupStatusActive))),
		Industry: c.Query("industry", ""),
		Stage:    StartupStage(c.Query("stage", "")),
	}

	startups, total, err := s.repo.Startups().ListFiltered(c.Context(), filter, pager)
	if err != nil {
		s.logger.Error("startups list failed", "error", err)
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusOK, map[string]any{
		"startups":   startups,
		"pagination": pager.Paginate(total),
	}, "")
}

func (s *StartupsController) Get(c router.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return RespondError(c, ErrStartupNotFound)
	}

	startup, err := s.repo.Startups().GetWithApplications(c.Context(), id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return RespondError(c, ErrStartupNotFound)
		}
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusOK, map[string]any{"startup": startup}, "")
}

// StartupPayload carries startup fields for create and update.
type StartupPayload struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Website      string   `json:"website"`
	LogoURL      string   `json:"logo_url"`
	Industry     string   `json:"industry"`
	Stage        string   `json:"stage"`
	FoundedYear  int      `json:"founded_year"`
	Location     string   `json:"location"`
	TeamSize     string   `json:"team_size"`
	Technologies []string `json:"technologies"`
	Status       string   `json:"status"`
}

// Validate will validate the payload
func (r StartupPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 300)),
		validation.Field(&r.Description, validation.Required, validation.Length(1, 5000)),
		validation.Field(&r.Website, is.URL),
		validation.Field(&r.LogoURL, is.URL),
		validation.Field(&r.Industry, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Stage, validation.Required, validation.In(
			string(StageIdea),
			string(StagePreSeed),
			string(StageSeed),
			string(StageSeriesA),
			string(StageSeriesB),
			string(StageGrowth),
		)),
		validation.Field(&r.FoundedYear, validation.Min(1900), validation.Max(2100)),
		validation.Field(&r.Status, validation.In(
			string(StartupStatusActive),
			string(StartupStatusInactive),
			string(StartupStatusGraduated),
		)),
	)
}

func (r StartupPayload) apply(startup *Startup) {
	startup.Name = r.Name
	startup.Description = r.Description
	startup.Website = r.Website
	startup.LogoURL = r.LogoURL
	startup.Industry = r.Industry
	startup.Stage = StartupStage(r.Stage)
	startup.FoundedYear = r.FoundedYear
	startup.Location = r.Location
	startup.TeamSize = r.TeamSize
	startup.Technologies = r.Technologies
	if r.Status != "" {
		startup.Status = StartupStatus(r.Status)
	}
}

func (s *StartupsController) Create(c router.Context) error {
	payload := new(StartupPayload)
	if err := c.Bind(payload); err != nil {
		return RespondError(c, ErrInvalidPayload)
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, NewValidationError(err))
	}

	startup := &Startup{
		ID:     uuid.New(),
		Status: StartupStatusActive,
	}
	payload.apply(startup)

	created, err := s.repo.Startups().Create(c.Context(), startup)
	if err != nil {
		s.logger.Error("startup create failed", "error", err)
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusCreated, map[string]any{"startup": created}, "Startup created successfully")
}

func (s *StartupsController) Update(c router.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return RespondError(c, ErrStartupNotFound)
	}

	payload := new(StartupPayload)
	if err := c.Bind(payload); err != nil {
		return RespondError(c, ErrInvalidPayload)
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, NewValidationError(err))
	}

	startup, err := s.repo.Startups().GetByID(c.Context(), id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return RespondError(c, ErrStartupNotFound)
		}
		return RespondError(c, err)
	}

	payload.apply(startup)

	updated, err := s.repo.Startups().Update(c.Context(), startup)
	if err != nil {
		s.logger.Error("startup update failed", "error", err, "startup_id", id.String())
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusOK, map[string]any{"startup": updated}, "Startup updated successfully")
}

func (s *StartupsController) Delete(c router.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return RespondError(c, ErrStartupNotFound)
	}

	startup, err := s.repo.Startups().GetByID(c.Context(), id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return RespondError(c, ErrStartupNotFound)
		}
		return RespondError(c, err)
	}

	if err := s.repo.Startups().Delete(c.Context(), startup); err != nil {
		s.logger.Error("startup delete failed", "error", err, "startup_id", id.String())
		return RespondError(c, err)
	}

	return RespondMessage(c, http.StatusOK, "Startup deleted successfully")
}

// ApplyPayload is the member's application body.
type ApplyPayload struct {
	Message string `json:"message"`
}

// Validate will validate the payload
func (r ApplyPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Message, validation.Required, validation.Length(10, 2000)),
	)
}

// Apply files the caller's application to an active startup.
func (s *StartupsController) Apply(c router.Context) error {
	authed, ok := UserFromRouterContext(c, s.contextKey)
	if !ok {
		return RespondError(c, ErrUnauthenticated)
	}

	startupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return RespondError(c, ErrStartupNotFound)
	}

	userID, err := uuid.Parse(authed.ID)
	if err != nil {
		return RespondError(c, ErrUnauthenticated)
	}

	payload := new(ApplyPayload)
	if err := c.Bind(payload); err != nil {
		return RespondError(c, ErrInvalidPayload)
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, NewValidationError(err))
	}

	startup, err := s.repo.Startups().GetByID(c.Context(), startupID.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return RespondError(c, ErrStartupNotFound)
		}
		return RespondError(c, err)
	}

	if startup.Status != StartupStatusActive {
		return RespondError(c, ErrStartupClosed)
	}

	app := &StartupApplication{
		StartupID: startupID,
		UserID:    userID,
		Message:   payload.Message,
		Status:    ApplicationStatusPending,
	}

	err = s.repo.RunInTx(c.Context(), nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := s.repo.Startups().CreateApplicationTx(ctx, tx, app); err != nil {
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

	return RespondData(c, http.StatusCreated, map[string]any{"application": app}, "Application submitted successfully")
}

// MyApplications lists the caller's own applications.
func (s *StartupsController) MyApplications(c router.Context) error {
	authed, ok := UserFromRouterContext(c, s.contextKey)
	if !ok {
		return RespondError(c, ErrUnauthenticated)
	}

	userID, err := uuid.Parse(authed.ID)
	if err != nil {
		return RespondError(c, ErrUnauthenticated)
	}

	apps, err := s.repo.Startups().ListApplicationsByUser(c.Context(), userID)
	if err != nil {
		s.logger.Error("applications list failed", "error", err)
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusOK, map[string]any{"applications": apps}, "")
}

// UpdateApplicationPayload carries the admin's decision.
type UpdateApplicationPayload struct {
	Status string `json:"status"`
}

// Validate will validate the payload
func (r UpdateApplicationPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In(
			string(ApplicationStatusApproved),
			string(ApplicationStatusRejected),
		)),
	)
}

// UpdateApplication lets an admin resolve a pending application.
func (s *StartupsController) UpdateApplication(c router.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return RespondError(c, ErrStartupNotFound)
	}

	payload := new(UpdateApplicationPayload)
	if err := c.Bind(payload); err != nil {
		return RespondError(c, ErrInvalidPayload)
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, NewValidationError(err))
	}

	app, err := s.repo.Startups().GetApplication(c.Context(), id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return RespondError(c, ErrStartupNotFound)
		}
		return RespondError(c, err)
	}

	if err := TransitionApplication(app, ApplicationStatus(payload.Status)); err != nil {
		return RespondError(c, err)
	}

	updated, err := s.repo.Startups().UpdateApplicationStatus(c.Context(), app)
	if err != nil {
		s.logger.Error("application update failed", "error", err, "application_id", id.String())
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusOK, map[string]any{"application": updated}, "Application status updated successfully")
}
