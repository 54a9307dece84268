package community

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the credential record plus the flattened alumni profile the
// directory exposes. The password hash never leaves this package.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID           uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role         UserRole  `bun:"user_role,notnull" json:"role,omitempty"`
	FirstName    string    `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName     string    `bun:"last_name,notnull" json:"last_name,omitempty"`
	Email        string    `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash string    `bun:"password_hash" json:"-"`

	Bio                   string   `bun:"bio" json:"bio,omitempty"`
	GraduationYear        int      `bun:"graduation_year,nullzero" json:"graduation_year,omitempty"`
	Degree                string   `bun:"degree" json:"degree,omitempty"`
	Industry              string   `bun:"industry" json:"industry,omitempty"`
	Location              string   `bun:"location" json:"location,omitempty"`
	CurrentCompany        string   `bun:"current_company" json:"current_company,omitempty"`
	CurrentRole           string   `bun:"current_role" json:"current_role,omitempty"`
	LinkedinURL           string   `bun:"linkedin_url" json:"linkedin_url,omitempty"`
	ProfileImageURL       string   `bun:"profile_image_url" json:"profile_image_url,omitempty"`
	Expertise             []string `bun:"expertise,type:jsonb" json:"expertise,omitempty"`
	YearsOfExperience     int      `bun:"years_of_experience,nullzero" json:"years_of_experience,omitempty"`
	AvailableForMentoring bool     `bun:"available_for_mentoring" json:"available_for_mentoring"`
	InterestedInStartups  bool     `bun:"interested_in_startups" json:"interested_in_startups"`

	EmailVerified  bool       `bun:"is_email_verified" json:"is_email_verified,omitempty"`
	LoginAttempts  int        `bun:"login_attempts" json:"-"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at" json:"-"`
	LoggedInAt     *time.Time `bun:"loggedin_at" json:"-"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// Identity projects the user into the auth pipeline's view of it.
func (u *User) Identity() Identity {
	return authIdentity{
		id:    u.ID.String(),
		email: u.Email,
		role:  u.Role,
	}
}

// PublicView strips credential and tracking fields for API responses.
// The struct already hides them via json tags; this exists for callers
// that need an explicit projection (e.g. the register/login envelope).
type PublicUser struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Role           UserRole  `json:"role"`
	GraduationYear int       `json:"graduation_year,omitempty"`
	Degree         string    `json:"degree,omitempty"`
}

// PublicView returns the projection used in auth responses.
func (u *User) PublicView() PublicUser {
	return PublicUser{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Role:           u.Role,
		GraduationYear: u.GraduationYear,
		Degree:         u.Degree,
	}
}

// NormalizeEmail case-folds and trims an email so that lookups and the
// unique constraint agree on a single canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.Role == "" {
		record.Role = RoleMember
	}

	record.Email = NormalizeEmail(record.Email)

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
