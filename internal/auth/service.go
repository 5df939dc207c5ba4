// Package auth is the identity provider: email and password accounts,
// session tokens, and the sign-up flow that also creates the user's profile.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Atig-Hamza/RecoleCheck/internal/docstore"
	"github.com/Atig-Hamza/RecoleCheck/internal/logger"
	"github.com/Atig-Hamza/RecoleCheck/internal/models"
	"github.com/Atig-Hamza/RecoleCheck/internal/repository"
	"github.com/Atig-Hamza/RecoleCheck/internal/session"
	"github.com/Atig-Hamza/RecoleCheck/internal/validation"
)

// Identity provider errors.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailInUse         = errors.New("email already in use")
	ErrAuthFailed         = errors.New("authentication failed")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrWeakPassword       = errors.New("password is too short")
	ErrInvalidEmail       = errors.New("must be a valid email address")
)

// CollectionIdentities holds one credential document per email address.
const CollectionIdentities = "identities"

// Credential document fields.
const (
	fieldUserID       = "userId"
	fieldEmail        = "email"
	fieldPasswordHash = "passwordHash"
	fieldCreatedAt    = "createdAt"
)

// Identity is a signed-in account.
type Identity struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
}

// Result is returned by a successful sign-up or sign-in.
type Result struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	SessionID string    `json:"-"`
	Identity  Identity  `json:"user"`
}

// SignUpInput is the registration form.
type SignUpInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Options tunes the identity provider.
type Options struct {
	MinPassword int
	TokenTTL    time.Duration
	// HashCost is the bcrypt cost; zero means bcrypt.DefaultCost.
	HashCost int
}

// Service signs users up, in and out.
type Service struct {
	store    docstore.Store
	profiles repository.ProfileRepository
	sessions *session.Registry
	tokens   *TokenManager
	validate *validator.Validate
	opts     Options
	log      *logger.Logger
}

// NewService creates the identity provider. Credentials are kept in store
// under CollectionIdentities, separate from the farm records.
func NewService(
	store docstore.Store,
	profiles repository.ProfileRepository,
	sessions *session.Registry,
	tokens *TokenManager,
	opts Options,
	log *logger.Logger,
) *Service {
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	return &Service{
		store:    store,
		profiles: profiles,
		sessions: sessions,
		tokens:   tokens,
		validate: validator.New(),
		opts:     opts,
		log:      log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func identityPath(email string) docstore.Path {
	return docstore.Doc(CollectionIdentities, email)
}

func (s *Service) checkEmail(email string) error {
	if strings.Contains(email, "/") || s.validate.Var(email, "required,email") != nil {
		return validation.NewValidationError("email", ErrInvalidEmail)
	}
	return nil
}

// SignUp creates an account and its profile, then signs it in.
// Returns ErrEmailInUse if the address already has an account.
func (s *Service) SignUp(ctx context.Context, input SignUpInput) (*Result, error) {
	email := normalizeEmail(input.Email)
	if err := s.checkEmail(email); err != nil {
		return nil, err
	}
	if len(input.Password) < s.opts.MinPassword {
		return nil, validation.NewValidationError("password", ErrWeakPassword)
	}
	firstName, err := validation.RequireText("firstName", input.FirstName)
	if err != nil {
		return nil, err
	}
	lastName, err := validation.RequireText("lastName", input.LastName)
	if err != nil {
		return nil, err
	}

	path := identityPath(email)
	if _, err := s.store.Get(ctx, path); err == nil {
		s.log.Warn("Sign-up with registered email", map[string]interface{}{
			"email": email,
		})
		return nil, ErrEmailInUse
	} else if !errors.Is(err, docstore.ErrNotFound) {
		s.log.Error("Failed to look up identity", err, map[string]interface{}{
			"email": email,
		})
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.opts.HashCost)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", ErrAuthFailed, err)
	}

	// The lookup above only spares a hash for known addresses; Create decides.
	userID := uuid.NewString()
	err = s.store.Create(ctx, path, docstore.Data{
		fieldUserID:       userID,
		fieldEmail:        email,
		fieldPasswordHash: string(hash),
		fieldCreatedAt:    time.Now().UnixMilli(),
	})
	if errors.Is(err, docstore.ErrAlreadyExists) {
		s.log.Warn("Concurrent sign-up lost the identity write", map[string]interface{}{
			"email": email,
		})
		return nil, ErrEmailInUse
	}
	if err != nil {
		s.log.Error("Failed to store identity", err, map[string]interface{}{
			"email": email,
		})
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}

	err = s.profiles.Set(ctx, userID, models.ProfileFields{
		LastName:  lastName,
		FirstName: firstName,
		Email:     email,
	})
	if err != nil {
		s.log.Error("Failed to create profile at sign-up", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.log.Info("Account created", map[string]interface{}{
		"user_id": userID,
	})
	return s.open(Identity{UserID: userID, Email: email})
}

// SignIn checks the password and opens a session.
// Unknown addresses and wrong passwords both return ErrInvalidCredentials.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Result, error) {
	email = normalizeEmail(email)
	if err := s.checkEmail(email); err != nil {
		return nil, ErrInvalidCredentials
	}

	doc, err := s.store.Get(ctx, identityPath(email))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.log.Error("Failed to look up identity", err, map[string]interface{}{
			"email": email,
		})
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}

	userID, _ := doc.Data[fieldUserID].(string)
	hash, _ := doc.Data[fieldPasswordHash].(string)
	if userID == "" || hash == "" {
		return nil, fmt.Errorf("%w: malformed identity %s", ErrAuthFailed, email)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		s.log.Warn("Sign-in with wrong password", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrInvalidCredentials
	}

	return s.open(Identity{UserID: userID, Email: email})
}

func (s *Service) open(identity Identity) (*Result, error) {
	sess := s.sessions.Open(identity.UserID, identity.Email, s.opts.TokenTTL)

	token, err := s.tokens.Issue(sess)
	if err != nil {
		s.sessions.Close(sess.ID)
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}

	return &Result{
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
		SessionID: sess.ID,
		Identity:  identity,
	}, nil
}

// SignOut ends a session. Signing out twice is not an error.
func (s *Service) SignOut(ctx context.Context, sessionID string) error {
	if _, ok := s.sessions.Close(sessionID); !ok {
		s.log.Debug("Sign-out of unknown session", map[string]interface{}{
			"session_id": sessionID,
		})
	}
	return nil
}

// Current returns the identity behind an active session.
func (s *Service) Current(sessionID string) (*Identity, bool) {
	sess, ok := s.sessions.Lookup(sessionID)
	if !ok {
		return nil, false
	}
	return &Identity{UserID: sess.UserID, Email: sess.Email}, true
}

// Authenticate verifies a bearer token and returns its live session.
// Tokens of signed-out or expired sessions are rejected with ErrInvalidToken.
func (s *Service) Authenticate(token string) (session.Session, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return session.Session{}, err
	}

	sess, ok := s.sessions.Lookup(claims.SessionID)
	if !ok || sess.UserID != claims.UserID {
		return session.Session{}, fmt.Errorf("%w: session is not active", ErrInvalidToken)
	}
	return sess, nil
}
