package community

import (
	"context"
	"strings"
	"time"
)

// Auther turns bearer credentials into authenticated users. It is
// read-only: every failure halts the pipeline without side effects
// beyond an activity event.
type Auther struct {
	provider     IdentityProvider
	signingKey   []byte
	issuer       string
	audience     []string
	logger       Logger
	tokenService TokenService
	activitySink ActivitySink
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetResetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		provider:     provider,
		signingKey:   []byte(opts.GetSigningKey()),
		audience:     opts.GetAudience(),
		issuer:       opts.GetIssuer(),
		logger:       defLogger{},
		tokenService: tokenService,
		activitySink: noopActivitySink{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

// WithTokenService overrides the token service, mainly for tests that
// need a fixed clock or a different TTL.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the credentials and issues a session token.
func (s *Auther) Login(ctx context.Context, identifier, password string) (string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, ActorRef{Type: "unknown"}, "", map[string]any{
			"identifier": identifier,
		})
		return "", err
	}

	token, err := s.tokenService.Generate(identity, PurposeSession)
	if err != nil {
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, s.actorFromIdentity(identity), identity.ID(), map[string]any{
			"identifier": identifier,
			"error":      err.Error(),
		})
		return "", err
	}

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, s.actorFromIdentity(identity), identity.ID(), map[string]any{
		"identifier": identifier,
	})

	return token, nil
}

// Authenticate resolves a raw Authorization header into an
// AuthenticatedUser: bearer extraction, token validation, purpose
// check, and identity lookup, in that order. Any failure fails closed.
func (s *Auther) Authenticate(ctx context.Context, authorization string) (*AuthenticatedUser, error) {
	raw, err := BearerToken(authorization)
	if err != nil {
		return nil, err
	}

	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		return nil, err
	}

	if claims.Purpose() != PurposeSession {
		s.logger.Warn("Authenticate rejected non-session token", "purpose", claims.Purpose())
		return nil, ErrTokenInvalid
	}

	// a token whose subject no longer resolves is indistinguishable
	// from a bad token to the caller
	identity, err := s.provider.FindIdentityByID(ctx, claims.UserID())
	if err != nil {
		s.logger.Debug("Authenticate identity lookup failed", "subject", claims.UserID(), "error", err)
		return nil, ErrTokenInvalid
	}

	return &AuthenticatedUser{
		ID:    identity.ID(),
		Email: identity.Email(),
		Role:  identity.Role(),
	}, nil
}

// VerifyToken resolves a bare token the way /auth/me does: any
// verification or lookup failure collapses into ErrTokenInvalid.
func (s *Auther) VerifyToken(ctx context.Context, token string) (*AuthenticatedUser, error) {
	claims, err := s.tokenService.Validate(token)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	if claims.Purpose() != PurposeSession {
		return nil, ErrTokenInvalid
	}

	identity, err := s.provider.FindIdentityByID(ctx, claims.UserID())
	if err != nil {
		return nil, ErrTokenInvalid
	}

	return &AuthenticatedUser{
		ID:    identity.ID(),
		Email: identity.Email(),
		Role:  identity.Role(),
	}, nil
}

// BearerToken extracts the credential from an Authorization header
// value. Absent header or a non-Bearer scheme fails with ErrTokenMissing.
func BearerToken(authorization string) (string, error) {
	if authorization == "" {
		return "", ErrTokenMissing
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(authorization, prefix) {
		return "", ErrTokenMissing
	}

	token := strings.TrimSpace(authorization[len(prefix):])
	if token == "" {
		return "", ErrTokenMissing
	}

	return token, nil
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, actor ActorRef, userID string, metadata map[string]any) {
	sink := normalizeActivitySink(s.activitySink)
	event := ActivityEvent{
		EventType: eventType,
		Actor:     actor,
		UserID:    userID,
		Metadata:  metadata,
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error", "error", err)
	}
}

func (s *Auther) actorFromIdentity(identity Identity) ActorRef {
	if identity == nil {
		return ActorRef{Type: "unknown"}
	}

	return ActorRef{
		ID:   identity.ID(),
		Type: "user",
	}
}
