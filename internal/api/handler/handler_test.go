package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/StaeyKay/blog-api/internal/api/middleware"
	"github.com/StaeyKay/blog-api/internal/core/domain"
	"github.com/StaeyKay/blog-api/internal/core/ports"
)

// newContext builds an echo context for a JSON request. When user is set it
// is installed the way the Authenticate middleware does.
func newContext(method, target, body string, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(middleware.ContextKeyUser, user)
	}
	return c, rec
}

type stubAccountService struct {
	signupFn     func(ctx context.Context, in ports.SignupInput) (*domain.User, error)
	loginFn      func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error)
	profileFn    func(ctx context.Context, id string) (*domain.User, error)
	listFn       func(ctx context.Context) ([]*domain.User, error)
	createUserFn func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	updateUserFn func(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error)
}

func (s *stubAccountService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAccountService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAccountService) Profile(ctx context.Context, id string) (*domain.User, error) {
	return s.profileFn(ctx, id)
}

func (s *stubAccountService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubAccountService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createUserFn(ctx, in)
}

func (s *stubAccountService) UpdateUser(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error) {
	return s.updateUserFn(ctx, id, update)
}

type stubSessions struct {
	userID  string
	cleared bool
	err     error
}

func (s *stubSessions) SetUser(_ echo.Context, userID string) error {
	if s.err != nil {
		return s.err
	}
	s.userID = userID
	return nil
}

func (s *stubSessions) Clear(echo.Context) error {
	s.cleared = true
	s.userID = ""
	return s.err
}

type stubResetService struct {
	requestFn func(ctx context.Context, email string) (*ports.ResetRequestResult, error)
	checkFn   func(ctx context.Context, id string) error
	resetFn   func(ctx context.Context, id, password string) error
}

func (s *stubResetService) RequestReset(ctx context.Context, email string) (*ports.ResetRequestResult, error) {
	return s.requestFn(ctx, email)
}

func (s *stubResetService) CheckResetToken(ctx context.Context, id string) error {
	return s.checkFn(ctx, id)
}

func (s *stubResetService) ResetPassword(ctx context.Context, id, password string) error {
	return s.resetFn(ctx, id, password)
}

type stubArticleService struct {
	addFn    func(ctx context.Context, userID string, in ports.ArticleInput) (*domain.Article, error)
	listFn   func(ctx context.Context, userID string) ([]*domain.Article, error)
	updateFn func(ctx context.Context, userID, id string, in ports.ArticleInput) (*domain.Article, error)
	deleteFn func(ctx context.Context, userID, id string) error
}

func (s *stubArticleService) Add(ctx context.Context, userID string, in ports.ArticleInput) (*domain.Article, error) {
	return s.addFn(ctx, userID, in)
}

func (s *stubArticleService) ListMine(ctx context.Context, userID string) ([]*domain.Article, error) {
	return s.listFn(ctx, userID)
}

func (s *stubArticleService) Update(ctx context.Context, userID, id string, in ports.ArticleInput) (*domain.Article, error) {
	return s.updateFn(ctx, userID, id, in)
}

func (s *stubArticleService) Delete(ctx context.Context, userID, id string) error {
	return s.deleteFn(ctx, userID, id)
}
