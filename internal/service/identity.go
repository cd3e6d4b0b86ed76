package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/parley/parley/internal/auth"
	"github.com/parley/parley/internal/metrics"
	"github.com/parley/parley/internal/model"
	"github.com/parley/parley/internal/repository"
)

// IdentityService handles signup, login, and user listing.
type IdentityService struct {
	store     UserStore
	broadcast Broadcaster
	metrics   metrics.Recorder
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(store UserStore, broadcast Broadcaster, recorder metrics.Recorder) *IdentityService {
	if broadcast == nil {
		broadcast = NoopBroadcaster{}
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &IdentityService{
		store:     store,
		broadcast: broadcast,
		metrics:   recorder,
	}
}

// Signup registers a new user and broadcasts a newUser event to all
// connected listeners. The returned SafeUser never carries password material.
//
// The email pre-check is advisory only: two concurrent signups can both pass
// it, so the store's unique index is the invariant that actually holds.
func (s *IdentityService) Signup(ctx context.Context, name, email, password string) (*model.SafeUser, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	_, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: hash,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.IncUserSignedUp()

	safe := user.Safe()
	s.broadcast.BroadcastAll(EventNewUser, safe)

	return &safe, nil
}

// Login verifies credentials and returns the SafeUser projection.
// No session token or credential artifact is issued; the caller keeps
// the identity client-side.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*model.SafeUser, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLoginAttempt("failed")
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !match {
		s.metrics.IncLoginAttempt("failed")
		return nil, ErrInvalidCredentials
	}

	s.metrics.IncLoginAttempt("success")

	safe := user.Safe()
	return &safe, nil
}

// ListOtherUsers returns every user except the one identified by exclude,
// in store-native order, as SafeUser projections.
func (s *IdentityService) ListOtherUsers(ctx context.Context, exclude primitive.ObjectID) ([]model.SafeUser, error) {
	users, err := s.store.ListUsersExcept(ctx, exclude)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	safe := make([]model.SafeUser, len(users))
	for i := range users {
		safe[i] = users[i].Safe()
	}

	return safe, nil
}
