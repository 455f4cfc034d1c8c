// handler/auth_handler_test.go
package handler

import (
	"database/sql"
	"encoding/json"
	"go-auth-api/config"
	"go-auth-api/model"
	"go-auth-api/service"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type authTestEnv struct {
	userRepo *mockUserRepo
	roleRepo *mockRoleRepo
	tokens   *service.TokenService
	handler  *AuthHandler
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()

	tokens, err := service.NewTokenService(config.JWTConfig{
		SecretKey:        "test-secret",
		AccessTokenTTL:   "15m",
		RefreshTokenDays: 30,
	})
	assert.NoError(t, err)

	userRepo := new(mockUserRepo)
	roleRepo := new(mockRoleRepo)
	authService := service.NewAuthService(userRepo, roleRepo, tokens)
	userService := service.NewUserService(userRepo, stubCache{})

	return &authTestEnv{
		userRepo: userRepo,
		roleRepo: roleRepo,
		tokens:   tokens,
		handler:  NewAuthHandler(authService, userService),
	}
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestAuthHandler_Signup(t *testing.T) {
	t.Run("success returns tenant user and token pair", func(t *testing.T) {
		env := newAuthTestEnv(t)
		h := ErrorHandlingMiddleware(env.handler.Signup)

		env.userRepo.On("GetUserByEmail", "a@x.com").Return(nil, sql.ErrNoRows).Once()
		env.roleRepo.On("GetRoleByName", model.RoleTenant).Return(&model.Role{ID: 1, Name: model.RoleTenant}, nil).Once()
		env.userRepo.On("CreateUser", mock.AnythingOfType("*model.User")).Run(func(args mock.Arguments) {
			args.Get(0).(*model.User).ID = 1
		}).Return(nil).Once()
		env.userRepo.On("UpdateRefreshToken", 1, mock.AnythingOfType("string")).Return(nil).Once()

		rr := postJSON(t, h, "/auth/signup", `{"name":"A","email":"a@x.com","password":"Passw0rd!"}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp model.AuthResponse
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, model.RoleTenant, resp.User.Role)
		assert.Equal(t, "a@x.com", resp.User.Email)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		env.userRepo.AssertExpectations(t)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		env := newAuthTestEnv(t)
		h := ErrorHandlingMiddleware(env.handler.Signup)

		env.userRepo.On("GetUserByEmail", "a@x.com").Return(&model.User{ID: 1}, nil).Once()

		rr := postJSON(t, h, "/auth/signup", `{"name":"A","email":"a@x.com","password":"Passw0rd!"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"Email already registered"}`, rr.Body.String())
		env.userRepo.AssertNotCalled(t, "CreateUser")
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		env := newAuthTestEnv(t)
		h := ErrorHandlingMiddleware(env.handler.Signup)

		rr := postJSON(t, h, "/auth/signup", `{"email":"a@x.com"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		env.userRepo.AssertNotCalled(t, "GetUserByEmail")
	})

	t.Run("missing tenant role is a server error", func(t *testing.T) {
		env := newAuthTestEnv(t)
		h := ErrorHandlingMiddleware(env.handler.Signup)

		env.userRepo.On("GetUserByEmail", "a@x.com").Return(nil, sql.ErrNoRows).Once()
		env.roleRepo.On("GetRoleByName", model.RoleTenant).Return(nil, sql.ErrNoRows).Once()

		rr := postJSON(t, h, "/auth/signup", `{"name":"A","email":"a@x.com","password":"Passw0rd!"}`)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"error":"Tenant role not found"}`, rr.Body.String())
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("wrong password", func(t *testing.T) {
		env := newAuthTestEnv(t)
		h := ErrorHandlingMiddleware(env.handler.Login)

		hash, err := bcrypt.GenerateFromPassword([]byte("rightPassword"), bcrypt.MinCost)
		assert.NoError(t, err)
		env.userRepo.On("GetUserByEmail", "a@x.com").Return(&model.User{ID: 1, Password: string(hash)}, nil).Once()

		rr := postJSON(t, h, "/auth/login", `{"email":"a@x.com","password":"wrongPassword"}`)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"error":"Invalid credentials"}`, rr.Body.String())
	})

	t.Run("unknown email gives the same response", func(t *testing.T) {
		env := newAuthTestEnv(t)
		h := ErrorHandlingMiddleware(env.handler.Login)

		env.userRepo.On("GetUserByEmail", "ghost@x.com").Return(nil, sql.ErrNoRows).Once()

		rr := postJSON(t, h, "/auth/login", `{"email":"ghost@x.com","password":"whatever1"}`)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"error":"Invalid credentials"}`, rr.Body.String())
	})

	t.Run("success", func(t *testing.T) {
		env := newAuthTestEnv(t)
		h := ErrorHandlingMiddleware(env.handler.Login)

		hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.MinCost)
		assert.NoError(t, err)
		user := &model.User{
			ID: 2, Name: "A", Email: "a@x.com", Password: string(hash),
			Role: model.Role{ID: 1, Name: model.RoleTenant},
		}
		env.userRepo.On("GetUserByEmail", "a@x.com").Return(user, nil).Once()
		env.userRepo.On("UpdateRefreshToken", 2, mock.AnythingOfType("string")).Return(nil).Once()

		rr := postJSON(t, h, "/auth/login", `{"email":"a@x.com","password":"Passw0rd!"}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp model.AuthResponse
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.User.ID)
		assert.NotEmpty(t, resp.RefreshToken)
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	t.Run("missing token in body", func(t *testing.T) {
		env := newAuthTestEnv(t)
		h := ErrorHandlingMiddleware(env.handler.Refresh)

		rr := postJSON(t, h, "/auth/refresh", `{}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		env := newAuthTestEnv(t)
		h := ErrorHandlingMiddleware(env.handler.Refresh)

		rr := postJSON(t, h, "/auth/refresh", `{"refreshToken":"garbage"}`)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"error":"Invalid refresh token"}`, rr.Body.String())
	})

	t.Run("rotation returns a fresh pair", func(t *testing.T) {
		env := newAuthTestEnv(t)
		h := ErrorHandlingMiddleware(env.handler.Refresh)

		current, err := env.tokens.IssueRefreshToken(5)
		assert.NoError(t, err)
		user := &model.User{ID: 5, RefreshToken: sql.NullString{String: current, Valid: true}}
		env.userRepo.On("GetUserByID", 5).Return(user, nil).Once()
		env.userRepo.On("RotateRefreshToken", 5, current, mock.AnythingOfType("string")).Return(nil).Once()

		rr := postJSON(t, h, "/auth/refresh", `{"refreshToken":"`+current+`"}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		var pair model.TokenPair
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pair))
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.NotEqual(t, current, pair.RefreshToken)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("clears the stored token", func(t *testing.T) {
		env := newAuthTestEnv(t)
		h := ErrorHandlingMiddleware(env.handler.Logout)

		env.userRepo.On("ClearRefreshToken", 5).Return(nil).Once()

		rr := postJSON(t, h, "/auth/logout", `{"userId":5}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
		env.userRepo.AssertExpectations(t)
	})

	t.Run("missing user id", func(t *testing.T) {
		env := newAuthTestEnv(t)
		h := ErrorHandlingMiddleware(env.handler.Logout)

		rr := postJSON(t, h, "/auth/logout", `{}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		env.userRepo.AssertNotCalled(t, "ClearRefreshToken")
	})
}
