package service

import (
	"database/sql"
	"errors"
	"go-auth-api/logger"
	"go-auth-api/model"
	"go-auth-api/repository"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
	ErrRoleNotProvisioned = errors.New("tenant role not provisioned")
)

// AuthService orchestrates signup, login, token refresh and logout on top of
// the user/role repositories and the token service.
type AuthService struct {
	userRepo repository.IUserRepository
	roleRepo repository.IRoleRepository
	tokens   *TokenService
}

func NewAuthService(userRepo repository.IUserRepository, roleRepo repository.IRoleRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		tokens:   tokens,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Signup registers a new user. Every signup gets the TENANT role; elevated
// roles only exist through provisioning.
func (s *AuthService) Signup(name, email, password string) (*model.AuthResponse, error) {
	if _, err := s.userRepo.GetUserByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	role, err := s.roleRepo.GetRoleByName(model.RoleTenant)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRoleNotProvisioned
		}
		return nil, err
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: hash,
		RoleID:   role.ID,
		Role:     *role,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("New user registered")
	return s.startSession(user)
}

// Login authenticates by email and password. An unknown email and a wrong
// password fail identically, so callers cannot probe which emails exist.
func (s *AuthService) Login(email, password string) (*model.AuthResponse, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	logger.Log.WithField("user_id", user.ID).Info("User logged in")
	return s.startSession(user)
}

// startSession issues a fresh token pair and stores the refresh token as the
// user's single valid session token.
func (s *AuthService) startSession(user *model.User) (*model.AuthResponse, error) {
	accessToken, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateRefreshToken(user.ID, refreshToken); err != nil {
		return nil, err
	}

	return &model.AuthResponse{
		User:         user.Public(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a valid refresh token for a new pair. The presented
// token must exactly match the stored one, and the swap is a conditional
// update, so a rotated-out token can never be replayed and concurrent
// refreshes with the same token cannot both win.
func (s *AuthService) Refresh(refreshToken string) (*model.TokenPair, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	if claims.Type != model.TokenTypeRefresh {
		return nil, ErrInvalidRefresh
	}

	user, err := s.userRepo.GetUserByID(claims.UserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}
	if !user.RefreshToken.Valid || user.RefreshToken.String != refreshToken {
		logger.Log.WithField("user_id", user.ID).Warn("Refresh attempted with a superseded token")
		return nil, ErrInvalidRefresh
	}

	newAccess, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.RotateRefreshToken(user.ID, refreshToken, newRefresh); err != nil {
		if err == sql.ErrNoRows {
			// Lost the race against a concurrent rotation or logout.
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	return &model.TokenPair{AccessToken: newAccess, RefreshToken: newRefresh}, nil
}

// Logout clears the stored refresh token. Logging out twice is fine.
func (s *AuthService) Logout(userID int) error {
	return s.userRepo.ClearRefreshToken(userID)
}
