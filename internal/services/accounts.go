package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/anonto42/socialgraph/backend/internal/apperrors"
	"github.com/anonto42/socialgraph/backend/internal/auth"
	"github.com/anonto42/socialgraph/backend/internal/models"
	"github.com/anonto42/socialgraph/backend/internal/repositories"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs principal tokens.
type TokenIssuer interface {
	Issue(userID uint) (string, error)
}

// Session is an account together with a freshly issued token.
type Session struct {
	User  *models.User
	Token string
}

// Accounts registers users and exchanges credentials for tokens.
type Accounts struct {
	users    repositories.UserRepository
	tokens   TokenIssuer
	verifier auth.IdentityVerifier
	cost     int
	now      func() time.Time
}

// NewAccounts wires the account service. verifier may be nil, in which case
// FirebaseLogin always fails with apperrors.ErrUnauthenticated.
func NewAccounts(users repositories.UserRepository, tokens TokenIssuer, verifier auth.IdentityVerifier) *Accounts {
	return &Accounts{
		users:    users,
		tokens:   tokens,
		verifier: verifier,
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
}

func (s *Accounts) Register(ctx context.Context, username, email, password string) (*Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     strings.TrimSpace(username),
		Email:        normalizeEmail(email),
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrAccountTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.session(user)
}

func (s *Accounts) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	// Firebase-only accounts have no password hash and cannot sign in here.
	if user.PasswordHash == "" {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.session(user)
}

// FirebaseLogin verifies a Firebase ID token and signs in the linked
// account. An account with the same email is linked on first use; otherwise
// a new account is created.
func (s *Accounts) FirebaseLogin(ctx context.Context, idToken string) (*Session, error) {
	if s.verifier == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	identity, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByFirebaseUID(ctx, identity.UID)
	switch {
	case err == nil:
		return s.session(user)
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("load user by firebase uid: %w", err)
	}

	if identity.Email == "" {
		return nil, apperrors.New(apperrors.KindValidation, "Firebase account has no email")
	}

	user, err = s.users.GetUserByEmail(ctx, normalizeEmail(identity.Email))
	switch {
	case err == nil:
		if err := s.users.LinkFirebaseUID(ctx, user.ID, identity.UID); err != nil {
			return nil, fmt.Errorf("link firebase uid: %w", err)
		}
		uid := identity.UID
		user.FirebaseUID = &uid
		return s.session(user)
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("load user by email: %w", err)
	}

	user, err = s.createFirebaseUser(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.session(user)
}

func (s *Accounts) createFirebaseUser(ctx context.Context, identity *auth.Identity) (*models.User, error) {
	base := usernameBase(identity)
	uid := identity.UID

	// A generated username can collide with an existing one; retry with a
	// random suffix a few times before giving up.
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		username := base
		if attempt > 0 {
			username = truncate(base, 41) + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		}
		user := &models.User{
			Username:        username,
			Email:           normalizeEmail(identity.Email),
			FirebaseUID:     &uid,
			ProfileImageURL: identity.Picture,
			CreatedAt:       s.now().UTC(),
		}
		err = s.users.CreateUser(ctx, user)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("create user: %w", err)
		}
	}
	return nil, apperrors.ErrAccountTaken
}

func (s *Accounts) session(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{User: user, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// usernameBase derives an alphanumeric username from the display name or
// the local part of the email.
func usernameBase(identity *auth.Identity) string {
	source := identity.Name
	if source == "" {
		source, _, _ = strings.Cut(identity.Email, "@")
	}

	var b strings.Builder
	for _, r := range source {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	name := truncate(b.String(), 50)
	for len(name) < 3 {
		name += "0"
	}
	return name
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
