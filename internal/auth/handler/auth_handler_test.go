package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umar-essayed/Courses-backend/config"
	"github.com/umar-essayed/Courses-backend/internal/auth/domain"
	"github.com/umar-essayed/Courses-backend/internal/auth/dto"
	"github.com/umar-essayed/Courses-backend/internal/auth/handler"
	"github.com/umar-essayed/Courses-backend/internal/auth/service"
	autherror "github.com/umar-essayed/Courses-backend/internal/errors"
	"github.com/umar-essayed/Courses-backend/internal/mocks"
	"github.com/umar-essayed/Courses-backend/pkg/constant"
)

type handlerMocks struct {
	users    *mocks.MockUserRepository
	tokens   *mocks.MockRefreshTokenRepository
	issuer   *mocks.MockTokenGenerator
	hasher   *mocks.MockPasswordHasher
	throttle *mocks.MockLoginThrottle
	cache    *mocks.MockIdentityCache
}

func newTestApp(t *testing.T) (*fiber.App, handlerMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := handlerMocks{
		users:    mocks.NewMockUserRepository(ctrl),
		tokens:   mocks.NewMockRefreshTokenRepository(ctrl),
		issuer:   mocks.NewMockTokenGenerator(ctrl),
		hasher:   mocks.NewMockPasswordHasher(ctrl),
		throttle: mocks.NewMockLoginThrottle(ctrl),
		cache:    mocks.NewMockIdentityCache(ctrl),
	}

	cfg := &config.Config{
		LoginMaxAttempts:       5,
		IdentityCacheTTLSec:    60,
		MaxActiveRefreshTokens: 5,
	}

	userService := service.NewUserService(m.users, m.tokens, m.issuer, m.hasher, m.throttle, m.cache, cfg)
	authHandler := handler.NewAuthHandler(userService)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	return app, m
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app, m := newTestApp(t)

		m.users.EXPECT().GetByEmail(gomock.Any(), "alice@x.com").Return(nil, nil)
		m.hasher.EXPECT().Hash(gomock.Any()).Return("hashed", nil)
		m.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		m.issuer.EXPECT().Generate(gomock.Any(), "alice@x.com", constant.RoleStudent).
			Return("access", "refresh", time.Now().Add(time.Hour), nil)
		m.tokens.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil)
		m.tokens.EXPECT().GetActiveCountByUserID(gomock.Any(), gomock.Any()).Return(1, nil)

		resp := doJSON(t, app, "POST", "/api/v1/register", dto.RegisterInput{
			Name:     "Alice",
			Email:    "alice@x.com",
			Password: "Str0ngPass1",
		})
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	})

	t.Run("bad request", func(t *testing.T) {
		app, _ := newTestApp(t)

		req := httptest.NewRequest("POST", "/api/v1/register", bytes.NewReader([]byte("")))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("weak password", func(t *testing.T) {
		app, _ := newTestApp(t)

		resp := doJSON(t, app, "POST", "/api/v1/register", dto.RegisterInput{
			Name:     "Alice",
			Email:    "alice@x.com",
			Password: "short",
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("elevated role in the request body is rejected", func(t *testing.T) {
		// No store expectations: the request never reaches the repositories.
		app, _ := newTestApp(t)

		resp := doJSON(t, app, "POST", "/api/v1/register", dto.RegisterInput{
			Name:     "Mallory",
			Email:    "mallory@x.com",
			Password: "Str0ngPass1",
			Role:     constant.RoleAdmin,
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("duplicate email", func(t *testing.T) {
		app, m := newTestApp(t)

		m.users.EXPECT().GetByEmail(gomock.Any(), "alice@x.com").
			Return(&domain.User{ID: "existing"}, nil)

		resp := doJSON(t, app, "POST", "/api/v1/register", dto.RegisterInput{
			Name:     "Alice",
			Email:    "alice@x.com",
			Password: "Str0ngPass1",
		})
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app, m := newTestApp(t)

		user := &domain.User{ID: "user-123", Email: "alice@x.com", PasswordHash: "hash", Role: constant.RoleStudent}

		m.throttle.EXPECT().IsLockedOut(gomock.Any(), "alice@x.com").Return(false, nil)
		m.users.EXPECT().GetByEmail(gomock.Any(), "alice@x.com").Return(user, nil)
		m.hasher.EXPECT().Verify("Str0ngPass1", "hash").Return(true)
		m.throttle.EXPECT().Reset(gomock.Any(), "alice@x.com").Return(nil)
		m.issuer.EXPECT().Generate("user-123", "alice@x.com", constant.RoleStudent).
			Return("access", "refresh", time.Now().Add(time.Hour), nil)
		m.tokens.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil)
		m.tokens.EXPECT().GetActiveCountByUserID(gomock.Any(), "user-123").Return(1, nil)

		resp := doJSON(t, app, "POST", "/api/v1/login", dto.LoginInput{
			Email:    "alice@x.com",
			Password: "Str0ngPass1",
		})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		app, m := newTestApp(t)

		m.throttle.EXPECT().IsLockedOut(gomock.Any(), "alice@x.com").Return(false, nil)
		m.users.EXPECT().GetByEmail(gomock.Any(), "alice@x.com").Return(nil, nil)
		m.hasher.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(false)
		m.throttle.EXPECT().RecordFailure(gomock.Any(), "alice@x.com").Return(nil)

		resp := doJSON(t, app, "POST", "/api/v1/login", dto.LoginInput{
			Email:    "alice@x.com",
			Password: "wrong",
		})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("locked out", func(t *testing.T) {
		app, m := newTestApp(t)

		m.throttle.EXPECT().IsLockedOut(gomock.Any(), "alice@x.com").Return(true, nil)

		resp := doJSON(t, app, "POST", "/api/v1/login", dto.LoginInput{
			Email:    "alice@x.com",
			Password: "Str0ngPass1",
		})
		assert.Equal(t, fiber.StatusLocked, resp.StatusCode)
	})

	t.Run("blocked account", func(t *testing.T) {
		app, m := newTestApp(t)

		user := &domain.User{ID: "user-123", Email: "alice@x.com", PasswordHash: "hash", Blocked: true}

		m.throttle.EXPECT().IsLockedOut(gomock.Any(), "alice@x.com").Return(false, nil)
		m.users.EXPECT().GetByEmail(gomock.Any(), "alice@x.com").Return(user, nil)
		m.hasher.EXPECT().Verify("Str0ngPass1", "hash").Return(true)

		resp := doJSON(t, app, "POST", "/api/v1/login", dto.LoginInput{
			Email:    "alice@x.com",
			Password: "Str0ngPass1",
		})
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}

func TestRefreshEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app, m := newTestApp(t)

		claims := &service.JWTCustomClaims{
			UserID: "user-123",
			Email:  "alice@x.com",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}

		m.issuer.EXPECT().VerifyRefreshToken("old-refresh").Return(claims, nil)
		m.cache.EXPECT().Get(gomock.Any(), "user-123").
			Return(&domain.IdentitySummary{ID: "user-123", Role: constant.RoleStudent}, nil)
		m.issuer.EXPECT().Generate("user-123", "alice@x.com", constant.RoleStudent).
			Return("new-access", "new-refresh", time.Now().Add(time.Hour), nil)
		m.tokens.EXPECT().Rotate(gomock.Any(), "old-refresh", gomock.Any()).Return(nil)
		m.tokens.EXPECT().GetActiveCountByUserID(gomock.Any(), "user-123").Return(1, nil)

		resp := doJSON(t, app, "POST", "/api/v1/refresh", dto.RefreshInput{RefreshToken: "old-refresh"})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("replayed token", func(t *testing.T) {
		app, m := newTestApp(t)

		claims := &service.JWTCustomClaims{UserID: "user-123", Email: "alice@x.com"}

		m.issuer.EXPECT().VerifyRefreshToken("used-once").Return(claims, nil)
		m.cache.EXPECT().Get(gomock.Any(), "user-123").
			Return(&domain.IdentitySummary{ID: "user-123", Role: constant.RoleStudent}, nil)
		m.issuer.EXPECT().Generate("user-123", "alice@x.com", constant.RoleStudent).
			Return("new-access", "new-refresh", time.Now().Add(time.Hour), nil)
		m.tokens.EXPECT().Rotate(gomock.Any(), "used-once", gomock.Any()).Return(autherror.ErrTokenInvalid)

		resp := doJSON(t, app, "POST", "/api/v1/refresh", dto.RefreshInput{RefreshToken: "used-once"})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogoutEndpoint(t *testing.T) {
	app, m := newTestApp(t)

	m.tokens.EXPECT().Revoke(gomock.Any(), "some-refresh").Return(nil)

	resp := doJSON(t, app, "DELETE", "/api/v1/session", dto.LogoutInput{RefreshToken: "some-refresh"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMeEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app, m := newTestApp(t)

		claims := &service.JWTCustomClaims{UserID: "user-123"}
		m.issuer.EXPECT().VerifyAccessToken("valid-token").Return(claims, nil)
		m.cache.EXPECT().Get(gomock.Any(), "user-123").
			Return(&domain.IdentitySummary{ID: "user-123", Role: constant.RoleStudent}, nil)

		req := httptest.NewRequest("GET", "/api/v1/me", nil)
		req.Header.Set("Authorization", "Bearer valid-token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing token", func(t *testing.T) {
		app, m := newTestApp(t)

		m.issuer.EXPECT().VerifyAccessToken("").Return(nil, autherror.ErrTokenInvalid)

		req := httptest.NewRequest("GET", "/api/v1/me", nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
