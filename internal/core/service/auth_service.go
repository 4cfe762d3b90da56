package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/warbler/warbler/internal/core/domain"
	"github.com/warbler/warbler/internal/core/ports"
)

// Signup builds an unsaved user whose password is the hash of password.
// Required fields are not validated here: an empty username, email or
// password is left empty so that the store rejects the user when it is
// committed. The only error returned is a hashing failure.
func Signup(hasher ports.PasswordHasher, username, email, password, imageURL string) (*domain.User, error) {
	user := &domain.User{
		Username: username,
		Email:    email,
		ImageURL: imageURL,
	}
	if password != "" {
		hash, err := hasher.Hash(password)
		if err != nil {
			return nil, fmt.Errorf("signup: %w", err)
		}
		user.Password = hash
	}
	user.ApplyDefaults()
	return user, nil
}

// AuthService implements signup, credential checks and token issuance.
type AuthService struct {
	store     ports.Store
	hasher    ports.PasswordHasher
	denylist  ports.TokenDenylist
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

// NewAuthService wires an AuthService. denylist may be nil, in which case
// Logout is a no-op.
func NewAuthService(
	store ports.Store,
	hasher ports.PasswordHasher,
	denylist ports.TokenDenylist,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		store:     store,
		hasher:    hasher,
		denylist:  denylist,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Signup hashes the password and commits the new user in one transaction.
// Constraint failures come back as *domain.IntegrityError.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	user, err := Signup(s.hasher, in.Username, in.Email, in.Password, in.ImageURL)
	if err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(ctx context.Context, tx ports.Store) error {
		return tx.Users().Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user signed up")
	return user, nil
}

// Authenticate looks the user up by exact username and verifies the password.
// An unknown username and a wrong password both return (nil, nil) so callers
// cannot tell them apart; an error means the store itself failed.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.store.Users().FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !s.hasher.Verify(password, user.Password) {
		return nil, nil
	}
	return user, nil
}

// Login authenticates and returns a signed access token. Unknown users and
// wrong passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	s.log.Debug().Int64("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}

// Logout revokes tokenID until expiresAt.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.denylist == nil || tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, tokenID, ttl); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatInt(user.ID, 10),
		"username": user.Username,
		"jti":      uuid.NewString(),
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
