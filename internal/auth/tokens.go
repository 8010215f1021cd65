package auth

import (
	"encoding/json"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"

	domainerrors "github.com/coloredin/coloredin-server/internal/errors"
)

const (
	tokenIssuer   = "coloredin-server"
	tokenAudience = "coloredin-client"
)

// TokenService handles PASETO token generation and verification.
type TokenService struct {
	symmetricKey        paseto.V4SymmetricKey
	accessTokenDuration time.Duration
	now                 func() time.Time
}

// NewTokenService creates a token service from a 32-byte key.
func NewTokenService(key []byte, accessDuration time.Duration) (*TokenService, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d bytes, got %d", keyLength, len(key))
	}

	symmetricKey, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	return &TokenService{
		symmetricKey:        symmetricKey,
		accessTokenDuration: accessDuration,
		now:                 time.Now,
	}, nil
}

// GenerateAccessToken creates a v4.local access token for userID and returns
// it with its expiry.
func (s *TokenService) GenerateAccessToken(userID string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, domainerrors.Validation("user id is required")
	}

	now := s.now()
	expires := now.Add(s.accessTokenDuration)

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetSubject(userID)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(expires)
	token.SetJti(uuid.NewString())

	//nolint:errcheck // Token.Set only errors on values that cannot be marshaled
	_ = token.Set("user_id", userID)

	return token.V4Encrypt(s.symmetricKey, nil), expires, nil
}

// VerifyAccessToken decrypts and validates a token. Expired tokens yield a
// TOKEN_EXPIRED error so clients know to re-authenticate; anything else that
// fails is UNAUTHORIZED.
func (s *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	// Expiry is checked below so it can be reported separately.
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid token").WithCause(err)
	}

	var claims AccessClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, domainerrors.Unauthorized("invalid token claims").WithCause(err)
	}

	now := s.now()
	if claims.Expired(now) {
		return nil, domainerrors.TokenExpired("token expired")
	}
	if now.Before(claims.NotBefore) {
		return nil, domainerrors.Unauthorized("token not yet valid")
	}
	if claims.UserID == "" {
		return nil, domainerrors.Unauthorized("token has no user")
	}

	return &claims, nil
}

// AccessTokenDuration returns the configured access token lifetime.
func (s *TokenService) AccessTokenDuration() time.Duration {
	return s.accessTokenDuration
}
