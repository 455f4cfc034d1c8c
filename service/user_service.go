// file: service/user_service.go

package service

import (
	"context"
	"encoding/json"
	"go-auth-api/model"
	"go-auth-api/repository"
	"time"
)

const userListCacheKey = "users:all"

// UserService handles user listing and lookup, with a cache-aside layer over
// the listing used by the admin endpoint.
type UserService struct {
	userRepo repository.IUserRepository
	cache    ICacheClient
}

func NewUserService(userRepo repository.IUserRepository, cache ICacheClient) *UserService {
	return &UserService{
		userRepo: userRepo,
		cache:    cache,
	}
}

// GetUserWithRole loads a user and its role by id. Used by the auth
// middleware; always hits the store so a deleted user is rejected promptly.
func (s *UserService) GetUserWithRole(id int) (*model.User, error) {
	return s.userRepo.GetUserByID(id)
}

// ListUsers returns every user, utilizing a cache-aside strategy.
func (s *UserService) ListUsers() ([]model.PublicUser, error) {
	ctx := context.Background()

	// 1. Try the cache first.
	if cached, err := s.cache.Get(ctx, userListCacheKey).Result(); err == nil {
		var users []model.PublicUser
		if err := json.Unmarshal([]byte(cached), &users); err == nil {
			return users, nil
		}
	}

	// 2. Cache miss. Fetch from the database.
	rows, err := s.userRepo.GetAllUsers()
	if err != nil {
		return nil, err
	}
	users := make([]model.PublicUser, 0, len(rows))
	for _, u := range rows {
		users = append(users, u.Public())
	}

	// 3. Store the result for future requests.
	if data, err := json.Marshal(users); err == nil {
		s.cache.Set(ctx, userListCacheKey, data, 10*time.Minute)
	}

	return users, nil
}

// InvalidateUserList drops the cached listing. Called after signup creates a
// new row.
func (s *UserService) InvalidateUserList() {
	s.cache.Del(context.Background(), userListCacheKey)
}
