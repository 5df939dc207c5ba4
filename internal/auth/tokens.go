package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/Atig-Hamza/RecoleCheck/internal/session"
)

const sessionClaim = "sid"

// Claims are the verified contents of a session token.
type Claims struct {
	UserID    string
	SessionID string
	ExpiresAt time.Time
}

// TokenManager issues and verifies HS256 session tokens.
type TokenManager struct {
	secret []byte
	issuer string
}

// NewTokenManager creates a TokenManager signing with secret.
func NewTokenManager(secret, issuer string) *TokenManager {
	return &TokenManager{secret: []byte(secret), issuer: issuer}
}

// Issue signs a token for s that expires with the session.
func (m *TokenManager) Issue(s session.Session) (string, error) {
	token, err := jwt.NewBuilder().
		JwtID(uuid.NewString()).
		Issuer(m.issuer).
		Subject(s.UserID).
		IssuedAt(s.CreatedAt).
		Expiration(s.ExpiresAt).
		Claim(sessionClaim, s.ID).
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return string(signed), nil
}

// Parse verifies the signature, issuer and expiry of a token.
// Every failure wraps ErrInvalidToken.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), m.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	var sessionID string
	if err := token.Get(sessionClaim, &sessionID); err != nil || sessionID == "" {
		return nil, fmt.Errorf("%w: missing session claim", ErrInvalidToken)
	}

	expiresAt, _ := token.Expiration()
	return &Claims{UserID: subject, SessionID: sessionID, ExpiresAt: expiresAt}, nil
}
