package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"notekeeper/model"
	"notekeeper/services"

	"github.com/google/uuid"
	"github.com/mileusna/useragent"
)

type UserStore interface {
	Insert(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	RecordLogin(ctx context.Context, userID string, at time.Time, device string) error
}

type UserService struct {
	UsersRepo UserStore
}

func NewUserService(repo UserStore) *UserService {
	return &UserService{UsersRepo: repo}
}

// Register creates a new account. The username must be unused; the unique
// index backs this up against concurrent registrations.
func (svc *UserService) Register(ctx context.Context, username, password string) (*model.User, error) {
	if _, err := svc.UsersRepo.FindByUsername(ctx, username); err == nil {
		return nil, model.ErrUsernameTaken
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := services.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		UserID:    uuid.New().String(),
		Username:  username,
		Password:  hashed,
		CreatedAt: time.Now(),
	}

	if err := svc.UsersRepo.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks the credentials and returns the matching user.
// An unknown username surfaces as ErrUserNotFound; a wrong password as
// ErrInvalidCredentials, so the handler can report them differently.
func (svc *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := svc.UsersRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	ok, err := services.VerifyPassword(user.Password, password)
	if err != nil || !ok {
		return nil, model.ErrInvalidCredentials
	}
	return user, nil
}

// RecordLogin stamps the login time and a readable device description
// parsed from the User-Agent header.
func (svc *UserService) RecordLogin(ctx context.Context, userID, userAgent string) error {
	ua := useragent.Parse(userAgent)
	device := ua.Name
	if ua.OS != "" {
		device = fmt.Sprintf("%s on %s", ua.Name, ua.OS)
	}
	return svc.UsersRepo.RecordLogin(ctx, userID, time.Now(), device)
}
