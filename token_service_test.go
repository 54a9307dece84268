package community_test

import (
	"testing"
	"time"

	community "github.com/alumnihub/go-community"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSigningKey = []byte("test-signing-key")

func newTestTokenService() community.TokenService {
	return community.NewTokenService(
		testSigningKey,
		24*7,
		1,
		"community-api",
		jwt.ClaimStrings{"community-clients"},
		nil,
	)
}

func TestTokenServiceGenerate(t *testing.T) {
	ts := newTestTokenService()
	identity := testIdentity{id: "user-123", email: "user@example.com", role: community.RoleMember}

	t.Run("session token round trips", func(t *testing.T) {
		token, err := ts.Generate(identity, community.PurposeSession)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := ts.Validate(token)
		require.NoError(t, err)

		assert.Equal(t, "user-123", claims.Subject())
		assert.Equal(t, "user-123", claims.UserID())
		assert.Equal(t, community.RoleMember, claims.Role())
		assert.Equal(t, community.PurposeSession, claims.Purpose())
	})

	t.Run("reset token carries its purpose", func(t *testing.T) {
		token, err := ts.Generate(identity, community.PurposePasswordReset)
		require.NoError(t, err)

		claims, err := ts.Validate(token)
		require.NoError(t, err)

		assert.Equal(t, community.PurposePasswordReset, claims.Purpose())
	})

	t.Run("reset token expires sooner than session token", func(t *testing.T) {
		session, err := ts.Generate(identity, community.PurposeSession)
		require.NoError(t, err)
		reset, err := ts.Generate(identity, community.PurposePasswordReset)
		require.NoError(t, err)

		sessionClaims, err := ts.Validate(session)
		require.NoError(t, err)
		resetClaims, err := ts.Validate(reset)
		require.NoError(t, err)

		assert.True(t, resetClaims.Expires().Before(sessionClaims.Expires()))

		// reset TTL is 1h, allow some slack around the exact boundary
		remaining := time.Until(resetClaims.Expires())
		assert.Greater(t, remaining, 55*time.Minute)
		assert.LessOrEqual(t, remaining, time.Hour)
	})

	t.Run("admin role survives the round trip", func(t *testing.T) {
		admin := testIdentity{id: "admin-1", email: "admin@example.com", role: community.RoleAdmin}

		token, err := ts.Generate(admin, community.PurposeSession)
		require.NoError(t, err)

		claims, err := ts.Validate(token)
		require.NoError(t, err)

		assert.Equal(t, community.RoleAdmin, claims.Role())
		assert.True(t, claims.HasRole(community.RoleAdmin))
		assert.True(t, claims.IsAtLeast(community.RoleMember))
	})
}

func TestTokenServiceValidate(t *testing.T) {
	ts := newTestTokenService()
	identity := testIdentity{id: "user-123", email: "user@example.com", role: community.RoleMember}

	t.Run("garbage token", func(t *testing.T) {
		claims, err := ts.Validate("not-a-token")
		assert.Nil(t, claims)
		assert.Equal(t, community.ErrTokenInvalid, err)
	})

	t.Run("empty token", func(t *testing.T) {
		claims, err := ts.Validate("")
		assert.Nil(t, claims)
		assert.Equal(t, community.ErrTokenInvalid, err)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := community.NewTokenService([]byte("other-key"), 24, 1, "community-api", jwt.ClaimStrings{"community-clients"}, nil)

		token, err := other.Generate(identity, community.PurposeSession)
		require.NoError(t, err)

		claims, err := ts.Validate(token)
		assert.Nil(t, claims)
		assert.Equal(t, community.ErrTokenInvalid, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := community.NewTokenService(testSigningKey, 24, 1, "someone-else", jwt.ClaimStrings{"community-clients"}, nil)

		token, err := other.Generate(identity, community.PurposeSession)
		require.NoError(t, err)

		claims, err := ts.Validate(token)
		assert.Nil(t, claims)
		assert.Equal(t, community.ErrTokenInvalid, err)
	})

	t.Run("wrong audience", func(t *testing.T) {
		other := community.NewTokenService(testSigningKey, 24, 1, "community-api", jwt.ClaimStrings{"another-app"}, nil)

		token, err := other.Generate(identity, community.PurposeSession)
		require.NoError(t, err)

		claims, err := ts.Validate(token)
		assert.Nil(t, claims)
		assert.Equal(t, community.ErrTokenInvalid, err)
	})

	t.Run("expired token", func(t *testing.T) {
		now := time.Now()
		claims := &community.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "community-api",
				Subject:   identity.ID(),
				Audience:  jwt.ClaimStrings{"community-clients"},
				IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(now.Add(-1 * time.Hour)),
			},
			UID:          identity.ID(),
			UserRole:     community.RoleMember,
			TokenPurpose: community.PurposeSession,
		}

		token, err := ts.SignClaims(claims)
		require.NoError(t, err)

		got, err := ts.Validate(token)
		assert.Nil(t, got)
		assert.Equal(t, community.ErrTokenInvalid, err)
	})

	t.Run("unsigned algorithm is rejected", func(t *testing.T) {
		unsignedToken := jwt.NewWithClaims(jwt.SigningMethodNone, &community.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:   "community-api",
				Subject:  identity.ID(),
				Audience: jwt.ClaimStrings{"community-clients"},
			},
		})
		raw, err := unsignedToken.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		claims, err := ts.Validate(raw)
		assert.Nil(t, claims)
		assert.Equal(t, community.ErrTokenInvalid, err)
	})
}

func TestSignClaims(t *testing.T) {
	ts := newTestTokenService()

	t.Run("nil claims", func(t *testing.T) {
		token, err := ts.SignClaims(nil)
		assert.Error(t, err)
		assert.Empty(t, token)
	})

	t.Run("token id is preserved", func(t *testing.T) {
		claims := &community.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "fixed-token-id",
				Issuer:    "community-api",
				Subject:   "user-123",
				Audience:  jwt.ClaimStrings{"community-clients"},
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}

		token, err := ts.SignClaims(claims)
		require.NoError(t, err)

		got, err := ts.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "user-123", got.Subject())
	})
}

func TestJWTClaimsDefaults(t *testing.T) {
	t.Run("missing purpose defaults to session", func(t *testing.T) {
		claims := &community.JWTClaims{}
		assert.Equal(t, community.PurposeSession, claims.Purpose())
	})

	t.Run("uid falls back to subject", func(t *testing.T) {
		claims := &community.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "subject-id"},
		}
		assert.Equal(t, "subject-id", claims.UserID())
	})

	t.Run("zero times for missing registered claims", func(t *testing.T) {
		claims := &community.JWTClaims{}
		assert.True(t, claims.Expires().IsZero())
		assert.True(t, claims.IssuedAt().IsZero())
	})
}
