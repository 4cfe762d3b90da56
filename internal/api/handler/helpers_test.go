package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/warbler/warbler/internal/api/middleware"
	"github.com/warbler/warbler/internal/core/domain"
	"github.com/warbler/warbler/internal/core/ports"
)

// newContext builds an echo context with the validator registered.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// authenticate mimics the Auth middleware.
func authenticate(c echo.Context, id int64, username string) {
	c.Set(middleware.ContextUserID, id)
	c.Set(middleware.ContextUsername, username)
	c.Set(middleware.ContextTokenID, "jti-1")
	c.Set(middleware.ContextTokenExpiry, time.Now().Add(time.Hour))
}

func withParam(c echo.Context, name, value string) {
	c.SetParamNames(name)
	c.SetParamValues(value)
}

func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError(%d), got %v", code, err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d (%v)", code, he.Code, he.Message)
	}
}

// --- service stubs ---

type stubAuthService struct {
	signupFn func(ctx context.Context, in ports.SignupInput) (*domain.User, error)
	loginFn  func(ctx context.Context, username, password string) (string, *domain.User, error)
	logoutFn func(ctx context.Context, tokenID string, expiresAt time.Time) error
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	return nil, nil
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return s.logoutFn(ctx, tokenID, expiresAt)
}

type stubUserService struct {
	ports.UserService
	profileFn   func(ctx context.Context, username string) (*domain.User, error)
	searchFn    func(ctx context.Context, q string) ([]*domain.User, error)
	updateFn    func(ctx context.Context, userID int64, in ports.UpdateProfileInput) (*domain.User, error)
	deleteFn    func(ctx context.Context, userID int64) error
	followFn    func(ctx context.Context, followerID int64, username string) error
	unfollowFn  func(ctx context.Context, followerID int64, username string) error
	followersFn func(ctx context.Context, username string) ([]*domain.User, error)
}

func (s *stubUserService) Profile(ctx context.Context, username string) (*domain.User, error) {
	return s.profileFn(ctx, username)
}

func (s *stubUserService) Search(ctx context.Context, q string) ([]*domain.User, error) {
	return s.searchFn(ctx, q)
}

func (s *stubUserService) Update(ctx context.Context, userID int64, in ports.UpdateProfileInput) (*domain.User, error) {
	return s.updateFn(ctx, userID, in)
}

func (s *stubUserService) Delete(ctx context.Context, userID int64) error {
	return s.deleteFn(ctx, userID)
}

func (s *stubUserService) Follow(ctx context.Context, followerID int64, username string) error {
	return s.followFn(ctx, followerID, username)
}

func (s *stubUserService) Unfollow(ctx context.Context, followerID int64, username string) error {
	return s.unfollowFn(ctx, followerID, username)
}

func (s *stubUserService) Followers(ctx context.Context, username string) ([]*domain.User, error) {
	return s.followersFn(ctx, username)
}

type stubMessageService struct {
	postFn     func(ctx context.Context, userID int64, text string) (*domain.Message, error)
	getFn      func(ctx context.Context, id int64) (*domain.Message, error)
	listFn     func(ctx context.Context, username string) ([]*domain.Message, error)
	deleteFn   func(ctx context.Context, userID, messageID int64) error
	timelineFn func(ctx context.Context, userID int64, limit int) ([]*domain.Message, error)
}

func (s *stubMessageService) Post(ctx context.Context, userID int64, text string) (*domain.Message, error) {
	return s.postFn(ctx, userID, text)
}

func (s *stubMessageService) Get(ctx context.Context, id int64) (*domain.Message, error) {
	return s.getFn(ctx, id)
}

func (s *stubMessageService) ListByUser(ctx context.Context, username string) ([]*domain.Message, error) {
	return s.listFn(ctx, username)
}

func (s *stubMessageService) Delete(ctx context.Context, userID, messageID int64) error {
	return s.deleteFn(ctx, userID, messageID)
}

func (s *stubMessageService) Timeline(ctx context.Context, userID int64, limit int) ([]*domain.Message, error) {
	return s.timelineFn(ctx, userID, limit)
}

func mustNotCall(t *testing.T) {
	t.Helper()
	t.Fatalf("service should not be called")
}

