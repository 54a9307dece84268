package community_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	community "github.com/alumnihub/go-community"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase passthrough", "user@example.com", "user@example.com"},
		{"uppercase folded", "User@Example.COM", "user@example.com"},
		{"surrounding whitespace trimmed", "  user@example.com\t", "user@example.com"},
		{"mixed case and whitespace", " ALUM@School.EDU ", "alum@school.edu"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, community.NormalizeEmail(tt.input))
		})
	}
}

func TestUserIdentity(t *testing.T) {
	user := &community.User{
		ID:    uuid.New(),
		Email: "member@example.com",
		Role:  community.RoleAdmin,
	}

	identity := user.Identity()
	assert.Equal(t, user.ID.String(), identity.ID())
	assert.Equal(t, "member@example.com", identity.Email())
	assert.Equal(t, community.RoleAdmin, identity.Role())
}

func TestUserPublicView(t *testing.T) {
	user := &community.User{
		ID:             uuid.New(),
		Email:          "grad@example.com",
		PasswordHash:   "$2a$10$secret",
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Role:           community.RoleMember,
		GraduationYear: 2019,
		Degree:         "Mathematics",
		LoginAttempts:  3,
	}

	view := user.PublicView()
	assert.Equal(t, user.ID, view.ID)
	assert.Equal(t, "grad@example.com", view.Email)
	assert.Equal(t, "Ada", view.FirstName)
	assert.Equal(t, "Lovelace", view.LastName)
	assert.Equal(t, community.RoleMember, view.Role)
	assert.Equal(t, 2019, view.GraduationYear)
	assert.Equal(t, "Mathematics", view.Degree)
}

func TestEventHasCapacity(t *testing.T) {
	tests := []struct {
		name         string
		maxAttendees int
		registered   int
		expected     bool
	}{
		{"zero max means unlimited", 0, 10000, true},
		{"negative max means unlimited", -1, 5, true},
		{"below capacity", 50, 49, true},
		{"at capacity", 50, 50, false},
		{"over capacity", 50, 51, false},
		{"empty event with capacity", 10, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := &community.Event{MaxAttendees: tt.maxAttendees}
			assert.Equal(t, tt.expected, ev.HasCapacity(tt.registered))
		})
	}
}

func TestRoleValidation(t *testing.T) {
	assert.True(t, community.RoleMember.IsValid())
	assert.True(t, community.RoleAdmin.IsValid())
	assert.False(t, community.UserRole("owner").IsValid())
	assert.False(t, community.UserRole("").IsValid())
}

func TestRoleIsAtLeast(t *testing.T) {
	tests := []struct {
		name     string
		role     community.UserRole
		min      community.UserRole
		expected bool
	}{
		{"member meets member", community.RoleMember, community.RoleMember, true},
		{"member below admin", community.RoleMember, community.RoleAdmin, false},
		{"admin meets member", community.RoleAdmin, community.RoleMember, true},
		{"admin meets admin", community.RoleAdmin, community.RoleAdmin, true},
		{"unknown role fails", community.UserRole("ghost"), community.RoleMember, false},
		{"unknown minimum fails", community.RoleAdmin, community.UserRole("ghost"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.role.IsAtLeast(tt.min))
		})
	}
}

func TestParseRole(t *testing.T) {
	role, ok := community.ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, community.RoleAdmin, role)

	_, ok = community.ParseRole("superuser")
	assert.False(t, ok)
}

func TestStatusValidation(t *testing.T) {
	assert.True(t, community.EventStatusDraft.IsValid())
	assert.True(t, community.EventStatusPublished.IsValid())
	assert.True(t, community.EventStatusCancelled.IsValid())
	assert.False(t, community.EventStatus("archived").IsValid())

	assert.True(t, community.RequestStatusPending.IsValid())
	assert.True(t, community.RequestStatusAccepted.IsValid())
	assert.True(t, community.RequestStatusDeclined.IsValid())
	assert.False(t, community.RequestStatus("expired").IsValid())

	assert.True(t, community.StageIdea.IsValid())
	assert.True(t, community.StageGrowth.IsValid())
	assert.False(t, community.StartupStage("unicorn").IsValid())

	assert.True(t, community.StartupStatusActive.IsValid())
	assert.True(t, community.StartupStatusGraduated.IsValid())
	assert.False(t, community.StartupStatus("paused").IsValid())
}
