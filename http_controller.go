package community

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-router"
)

// AuthController serves the authentication endpoints as JSON.
type AuthController struct {
	repo       RepositoryManager
	auther     *Auther
	register   *RegisterUserHandler
	resetInit  *InitializePasswordResetHandler
	resetFin   *FinalizePasswordResetHandler
	contextKey string
	logger     Logger
}

func NewAuthController(repo RepositoryManager, auther *Auther, cfg Config) *AuthController {
	tokens := auther.TokenService()

	return &AuthController{
		repo:       repo,
		auther:     auther,
		register:   NewRegisterUserHandler(repo, tokens),
		resetInit:  NewInitializePasswordResetHandler(repo, tokens),
		resetFin:   NewFinalizePasswordResetHandler(repo, tokens),
		contextKey: cfg.GetContextKey(),
		logger:     defLogger{},
	}
}

func (a *AuthController) WithLogger(l Logger) *AuthController {
	if l != nil {
		a.logger = l
	}
	return a
}

func (a *AuthController) WithNotifier(n Notifier) *AuthController {
	a.register.WithNotifier(n)
	a.resetInit.WithNotifier(n)
	return a
}

// RegisterPayload is the signup request body.
type RegisterPayload struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	GraduationYear int    `json:"graduation_year"`
	Degree         string `json:"degree"`
}

// Validate will validate the payload
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.GraduationYear, validation.Min(1900), validation.Max(2100)),
		validation.Field(&r.Degree, validation.Length(0, 200)),
	)
}

func (a *AuthController) Register(c router.Context) error {
	payload := new(RegisterPayload)
	if err := c.Bind(payload); err != nil {
		a.logger.Error("register: failed to parse payload", "error", err)
		return RespondError(c, ErrInvalidPayload)
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, NewValidationError(err))
	}

	var resp *RegisterUserResponse
	msg := RegisterUserMessage{
		FirstName:      payload.FirstName,
		LastName:       payload.LastName,
		Email:          payload.Email,
		Password:       payload.Password,
		GraduationYear: payload.GraduationYear,
		Degree:         payload.Degree,
		UseHashid:      true,
		OnResponse: func(r *RegisterUserResponse) {
			resp = r
		},
	}

	if err := a.register.Execute(c.Context(), msg); err != nil {
		a.logger.Error("register: command failed", "error", err, "email", NormalizeEmail(payload.Email))
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusCreated, map[string]any{
		"user":  resp.User.PublicView(),
		"token": resp.Token,
	}, "Registration successful")
}

// LoginPayload is the login request body.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will validate the payload
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) Login(c router.Context) error {
	payload := new(LoginPayload)
	if err := c.Bind(payload); err != nil {
		a.logger.Error("login: failed to parse payload", "error", err)
		return RespondError(c, ErrInvalidPayload)
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, NewValidationError(err))
	}

	token, err := a.auther.Login(c.Context(), payload.Email, payload.Password)
	if err != nil {
		return RespondError(c, err)
	}

	user, err := a.repo.Users().GetByEmail(c.Context(), payload.Email)
	if err != nil {
		a.logger.Error("login: user lookup after login failed", "error", err)
		return RespondError(c, err)
	}

	return RespondData(c, http.StatusOK, map[string]any{
		"user":  user.PublicView(),
		"token": token,
	}, "Login successful")
}

// Me returns the profile behind the bearer token.
func (a *AuthController) Me(c router.Context) error {
	authed, ok := UserFromRouterContext(c, a.contextKey)
	if !ok {
		return RespondError(c, ErrUnauthenticated)
	}

	user, err := a.repo.Users().GetByUserID(c.Context(), authed.ID)
	if err != nil {
		return RespondError(c, ErrTokenInvalid)
	}

	return RespondData(c, http.StatusOK, map[string]any{"user": user}, "")
}

// ForgotPasswordPayload is the reset request body.
type ForgotPasswordPayload struct {
	Email string `json:"email"`
}

// Validate will validate the payload
func (r ForgotPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (a *AuthController) ForgotPassword(c router.Context) error {
	payload := new(ForgotPasswordPayload)
	if err := c.Bind(payload); err != nil {
		a.logger.Error("forgot password: failed to parse payload", "error", err)
		return RespondError(c, ErrInvalidPayload)
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, NewValidationError(err))
	}

	msg := InitializePasswordResetMessage{
		Email: payload.Email,
	}

	if err := a.resetInit.Execute(c.Context(), msg); err != nil {
		a.logger.Error("forgot password: command failed", "error", err)
		return RespondError(c, err)
	}

	// the acknowledgement is identical whether or not the email exists
	return RespondMessage(c, http.StatusOK, PasswordResetRequestedMessage)
}

// ResetPasswordPayload is the reset finalization body.
type ResetPasswordPayload struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Validate will validate the payload
func (r ResetPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

func (a *AuthController) ResetPassword(c router.Context) error {
	payload := new(ResetPasswordPayload)
	if err := c.Bind(payload); err != nil {
		a.logger.Error("reset password: failed to parse payload", "error", err)
		return RespondError(c, ErrInvalidPayload)
	}

	if err := payload.Validate(); err != nil {
		return RespondError(c, NewValidationError(err))
	}

	msg := FinalizePasswordResetMessage{
		Token:    payload.Token,
		Password: payload.Password,
	}

	if err := a.resetFin.Execute(c.Context(), msg); err != nil {
		a.logger.Error("reset password: command failed", "error", err)
		return RespondError(c, err)
	}

	return RespondMessage(c, http.StatusOK, "Password updated")
}

// Logout is advisory: tokens are stateless and remain valid until they
// expire, the client just discards its copy.
func (a *AuthController) Logout(c router.Context) error {
	return RespondMessage(c, http.StatusOK, "Logged out")
}
