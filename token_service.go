package community

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenService issues and validates the signed tokens used by the auth
// pipeline. Tokens are stateless; expiry is the only lifecycle bound.
type TokenService interface {
	Generate(identity Identity, purpose TokenPurpose) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
	Validate(token string) (AuthClaims, error)
}

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey        []byte
	sessionExpiration int
	resetExpiration   int
	issuer            string
	audience          jwt.ClaimStrings
	logger            Logger
}

// NewTokenService creates a new TokenService instance. Expirations are
// given in hours; zero values fall back to 7 days for session tokens
// and 1 hour for password reset tokens.
func NewTokenService(signingKey []byte, sessionExpiration, resetExpiration int, issuer string, audience jwt.ClaimStrings, logger Logger) TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	if sessionExpiration <= 0 {
		sessionExpiration = 24 * 7
	}
	if resetExpiration <= 0 {
		resetExpiration = 1
	}
	return &TokenServiceImpl{
		signingKey:        signingKey,
		sessionExpiration: sessionExpiration,
		resetExpiration:   resetExpiration,
		issuer:            issuer,
		audience:          audience,
		logger:            logger,
	}
}

// Generate creates a signed JWT for the given identity and purpose
func (ts *TokenServiceImpl) Generate(identity Identity, purpose TokenPurpose) (string, error) {
	now := time.Now()

	ttl := time.Duration(ts.sessionExpiration) * time.Hour
	if purpose == PurposePasswordReset {
		ttl = time.Duration(ts.resetExpiration) * time.Hour
	}

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   identity.ID(),
			Audience:  ts.audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UID:          identity.ID(),
		UserRole:     identity.Role(),
		TokenPurpose: purpose,
	}

	ensureTokenID(&claims.RegisteredClaims)

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and validates a token string, returning structured
// claims. Every verification failure, bad signature, malformed payload,
// or expiry, surfaces as the same ErrTokenInvalid so callers cannot
// build an oracle out of the response.
func (ts *TokenServiceImpl) Validate(tokenString string) (AuthClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, ErrTokenInvalid
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		ts.logger.Debug("TokenService validate failed", "error", err)
		return nil, ErrTokenInvalid
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("TokenService validate could not decode or validate claims")
	return nil, ErrTokenInvalid
}
