package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rewear/rewear/internal/auth"
	"github.com/rewear/rewear/internal/metrics"
	"github.com/rewear/rewear/internal/model"
	"github.com/rewear/rewear/internal/repository"
)

// AccountService registers users and checks their credentials.
type AccountService struct {
	users   UserStore
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewAccountService creates a new AccountService.
func NewAccountService(users UserStore, logger *slog.Logger, recorder metrics.Recorder) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountService{users: users, logger: logger, metrics: recorder}
}

// SignUp stores a new account with an Argon2id password hash.
// The username is taken exactly as given.
func (s *AccountService) SignUp(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		s.metrics.IncSignUp("invalid")
		return ErrMissingCredentials
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{Username: username, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			s.metrics.IncSignUp("duplicate")
			return ErrDuplicateUsername
		}
		return err
	}

	s.metrics.IncSignUp(metrics.StatusSuccess)
	s.logger.Info("user signed up", "user_id", user.ID)
	return nil
}

// LogIn returns the user when password matches the stored hash.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
func (s *AccountService) LogIn(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		s.metrics.IncLogIn(metrics.StatusFailure)
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			auth.VerifyDummy(password)
			s.metrics.IncLogIn(metrics.StatusFailure)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		s.logger.Warn("stored password hash unreadable", "user_id", user.ID, "error", err)
		s.metrics.IncLogIn(metrics.StatusFailure)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		s.metrics.IncLogIn(metrics.StatusFailure)
		return nil, ErrInvalidCredentials
	}

	s.metrics.IncLogIn(metrics.StatusSuccess)
	return user, nil
}
