package community

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// EventStatus controls visibility: only published events are listed and
// accept registrations.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
)

func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusCancelled:
		return true
	}
	return false
}

// Event is a community event, virtual or in person.
type Event struct {
	bun.BaseModel `bun:"table:events,alias:evt"`

	ID           uuid.UUID   `bun:"id,pk,nullzero,type:uuid" json:"id"`
	Title        string      `bun:"title,notnull" json:"title"`
	Description  string      `bun:"description,notnull" json:"description"`
	Content      string      `bun:"content" json:"content,omitempty"`
	ImageURL     string      `bun:"image_url" json:"image_url,omitempty"`
	StartDate    time.Time   `bun:"start_date,notnull" json:"start_date"`
	EndDate      *time.Time  `bun:"end_date" json:"end_date,omitempty"`
	Location     string      `bun:"location" json:"location,omitempty"`
	IsVirtual    bool        `bun:"is_virtual" json:"is_virtual"`
	MeetingURL   string      `bun:"meeting_url" json:"meeting_url,omitempty"`
	MaxAttendees int         `bun:"max_attendees,nullzero" json:"max_attendees,omitempty"`
	IsPaid       bool        `bun:"is_paid" json:"is_paid"`
	Price        float64     `bun:"price,nullzero" json:"price,omitempty"`
	Status       EventStatus `bun:"status,notnull,default:'draft'" json:"status"`
	CreatedByID  uuid.UUID   `bun:"created_by_id,nullzero,type:uuid" json:"created_by_id,omitempty"`

	CreatedBy     *User                `bun:"rel:belongs-to,join:created_by_id=id" json:"created_by,omitempty"`
	Registrations []*EventRegistration `bun:"rel:has-many,join:id=event_id" json:"registrations,omitempty"`

	RegistrationCount int `bun:"registration_count,scanonly" json:"registration_count"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// HasCapacity reports whether the event can take one more attendee.
// Zero MaxAttendees means unlimited.
func (e *Event) HasCapacity(registered int) bool {
	if e.MaxAttendees <= 0 {
		return true
	}
	return registered < e.MaxAttendees
}

// EventRegistration records one user's attendance for an event. The
// (event_id, user_id) pair is unique, so re-registering conflicts at
// the database even when two requests race.
type EventRegistration struct {
	bun.BaseModel `bun:"table:event_registrations,alias:evr"`

	ID      uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id"`
	EventID uuid.UUID `bun:"event_id,notnull,type:uuid,unique:evr_event_user" json:"event_id"`
	UserID  uuid.UUID `bun:"user_id,notnull,type:uuid,unique:evr_event_user" json:"user_id"`

	Event *Event `bun:"rel:belongs-to,join:event_id=id" json:"event,omitempty"`
	User  *User  `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Mentorship is a mentor's standing offer to take mentees.
type Mentorship struct {
	bun.BaseModel `bun:"table:mentorships,alias:mnt"`

	ID          uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id"`
	MentorID    uuid.UUID `bun:"mentor_id,notnull,type:uuid" json:"mentor_id"`
	Title       string    `bun:"title,notnull" json:"title"`
	Description string    `bun:"description,notnull" json:"description"`
	Expertise   []string  `bun:"expertise,type:jsonb" json:"expertise"`
	MaxMentees  int       `bun:"max_mentees,notnull,default:5" json:"max_mentees"`
	IsActive    bool      `bun:"is_active,notnull,default:true" json:"is_active"`

	Mentor   *User                `bun:"rel:belongs-to,join:mentor_id=id" json:"mentor,omitempty"`
	Requests []*MentorshipRequest `bun:"rel:has-many,join:id=mentorship_id" json:"requests,omitempty"`

	AcceptedCount int `bun:"accepted_count,scanonly" json:"accepted_count"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// RequestStatus is the lifecycle of a mentorship request.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusDeclined RequestStatus = "declined"
)

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusDeclined:
		return true
	}
	return false
}

// MentorshipRequest is a mentee asking to join a mentorship. The
// (mentorship_id, mentee_id) pair is unique.
type MentorshipRequest struct {
	bun.BaseModel `bun:"table:mentorship_requests,alias:mrq"`

	ID           uuid.UUID     `bun:"id,pk,nullzero,type:uuid" json:"id"`
	MentorshipID uuid.UUID     `bun:"mentorship_id,notnull,type:uuid,unique:mrq_mentorship_mentee" json:"mentorship_id"`
	MenteeID     uuid.UUID     `bun:"mentee_id,notnull,type:uuid,unique:mrq_mentorship_mentee" json:"mentee_id"`
	Message      string        `bun:"message,notnull" json:"message"`
	Status       RequestStatus `bun:"status,notnull,default:'pending'" json:"status"`

	Mentorship *Mentorship `bun:"rel:belongs-to,join:mentorship_id=id" json:"mentorship,omitempty"`
	Mentee     *User       `bun:"rel:belongs-to,join:mentee_id=id" json:"mentee,omitempty"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// StartupStage and StartupStatus mirror the program's funnel.
type StartupStage string

const (
	StageIdea    StartupStage = "idea"
	StagePreSeed StartupStage = "pre_seed"
	StageSeed    StartupStage = "seed"
	StageSeriesA StartupStage = "series_a"
	StageSeriesB StartupStage = "series_b"
	StageGrowth  StartupStage = "growth"
)

func (s StartupStage) IsValid() bool {
	switch s {
	case StageIdea, StagePreSeed, StageSeed, StageSeriesA, StageSeriesB, StageGrowth:
		return true
	}
	return false
}

type StartupStatus string

const (
	StartupStatusActive    StartupStatus = "active"
	StartupStatusInactive  StartupStatus = "inactive"
	StartupStatusGraduated StartupStatus = "graduated"
)

func (s StartupStatus) IsValid() bool {
	switch s {
	case StartupStatusActive, StartupStatusInactive, StartupStatusGraduated:
		return true
	}
	return false
}

// Startup is a venture in the community's portfolio.
type Startup struct {
	bun.BaseModel `bun:"table:startups,alias:stp"`

	ID           uuid.UUID     `bun:"id,pk,nullzero,type:uuid" json:"id"`
	Name         string        `bun:"name,notnull" json:"name"`
	Description  string        `bun:"description,notnull" json:"description"`
	Website      string        `bun:"website" json:"website,omitempty"`
	LogoURL      string        `bun:"logo_url" json:"logo_url,omitempty"`
	Industry     string        `bun:"industry,notnull" json:"industry"`
	Stage        StartupStage  `bun:"stage,notnull" json:"stage"`
	FoundedYear  int           `bun:"founded_year,nullzero" json:"founded_year,omitempty"`
	Location     string        `bun:"location" json:"location,omitempty"`
	TeamSize     string        `bun:"team_size" json:"team_size,omitempty"`
	Technologies []string      `bun:"technologies,type:jsonb" json:"technologies,omitempty"`
	Status       StartupStatus `bun:"status,notnull,default:'active'" json:"status"`

	Applications []*StartupApplication `bun:"rel:has-many,join:id=startup_id" json:"applications,omitempty"`

	ApplicationCount int `bun:"application_count,scanonly" json:"application_count"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// ApplicationStatus is the lifecycle of a startup application.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

// StartupApplication is a member asking to join a startup. The
// (startup_id, user_id) pair is unique.
type StartupApplication struct {
	bun.BaseModel `bun:"table:startup_applications,alias:sta"`

	ID        uuid.UUID         `bun:"id,pk,nullzero,type:uuid" json:"id"`
	StartupID uuid.UUID         `bun:"startup_id,notnull,type:uuid,unique:sta_startup_user" json:"startup_id"`
	UserID    uuid.UUID         `bun:"user_id,notnull,type:uuid,unique:sta_startup_user" json:"user_id"`
	Message   string            `bun:"message,notnull" json:"message"`
	Status    ApplicationStatus `bun:"status,notnull,default:'pending'" json:"status"`

	Startup *Startup `bun:"rel:belongs-to,join:startup_id=id" json:"startup,omitempty"`
	User    *User    `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Partner is an organization affiliated with the community.
type Partner struct {
	bun.BaseModel `bun:"table:partners,alias:prt"`

	ID          uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description string    `bun:"description,notnull" json:"description"`
	Website     string    `bun:"website" json:"website,omitempty"`
	LogoURL     string    `bun:"logo_url" json:"logo_url,omitempty"`
	IsActive    bool      `bun:"is_active,notnull,default:true" json:"is_active"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// NewsletterSubscription tracks one email's opt-in state. Subscribing
// twice is a no-op; unsubscribing flips the flag instead of deleting so
// a later subscribe reactivates the row.
type NewsletterSubscription struct {
	bun.BaseModel `bun:"table:newsletter_subscriptions,alias:nws"`

	ID       uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id"`
	Email    string     `bun:"email,notnull,unique" json:"email"`
	UserID   *uuid.UUID `bun:"user_id,type:uuid" json:"user_id,omitempty"`
	IsActive bool       `bun:"is_active,notnull,default:true" json:"is_active"`

	User *User `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// NewsletterStats is the admin dashboard summary.
type NewsletterStats struct {
	ActiveSubscriptions int `json:"active_subscriptions"`
	TotalSubscriptions  int `json:"total_subscriptions"`
	UserSubscriptions   int `json:"user_subscriptions"`
	GuestSubscriptions  int `json:"guest_subscriptions"`
	UnsubscribedCount   int `json:"unsubscribed_count"`
}
