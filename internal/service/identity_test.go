package service

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/parley/parley/internal/model"
	"github.com/parley/parley/internal/testutil"
)

func TestIdentityService_Signup(t *testing.T) {
	store := testutil.NewMemUserStore()
	broadcast := testutil.NewRecordingBroadcaster()
	svc := NewIdentityService(store, broadcast, nil)

	safe, err := svc.Signup(context.Background(), "Ann", "ann@x.com", "secret1")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	if safe.ID.IsZero() {
		t.Error("expected store-assigned ID")
	}
	if safe.Name != "Ann" || safe.Email != "ann@x.com" {
		t.Errorf("unexpected SafeUser: %+v", safe)
	}
	if store.Count() != 1 {
		t.Errorf("expected 1 stored user, got %d", store.Count())
	}

	stored, err := store.GetUserByEmail(context.Background(), "ann@x.com")
	if err != nil {
		t.Fatalf("stored user missing: %v", err)
	}
	if stored.Password == "secret1" || stored.Password == "" {
		t.Error("password must be stored as a hash, never plaintext or empty")
	}

	events := broadcast.Events()
	if len(events) != 1 {
		t.Fatalf("expected exactly one broadcast, got %d", len(events))
	}
	if events[0].Name != EventNewUser {
		t.Errorf("expected %q event, got %q", EventNewUser, events[0].Name)
	}
	if _, ok := events[0].Payload.(model.SafeUser); !ok {
		t.Errorf("newUser payload must be a SafeUser, got %T", events[0].Payload)
	}
}

func TestIdentityService_Signup_DistinctEmailsDistinctIDs(t *testing.T) {
	store := testutil.NewMemUserStore()
	svc := NewIdentityService(store, nil, nil)

	first, err := svc.Signup(context.Background(), "Ann", "ann@x.com", "secret1")
	if err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	second, err := svc.Signup(context.Background(), "Bob", "bob@x.com", "secret2")
	if err != nil {
		t.Fatalf("second signup failed: %v", err)
	}

	if first.ID == second.ID {
		t.Error("distinct signups must yield distinct identities")
	}
	if store.Count() != 2 {
		t.Errorf("expected 2 stored users, got %d", store.Count())
	}
}

func TestIdentityService_Signup_DuplicateEmail(t *testing.T) {
	store := testutil.NewMemUserStore()
	broadcast := testutil.NewRecordingBroadcaster()
	svc := NewIdentityService(store, broadcast, nil)

	if _, err := svc.Signup(context.Background(), "Ann", "ann@x.com", "secret1"); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	_, err := svc.Signup(context.Background(), "Ann", "ann@x.com", "secret1")
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	if store.Count() != 1 {
		t.Errorf("duplicate signup must not alter the store, got %d users", store.Count())
	}
	if len(broadcast.Events()) != 1 {
		t.Error("duplicate signup must not broadcast")
	}
}

func TestIdentityService_Signup_MissingFields(t *testing.T) {
	svc := NewIdentityService(testutil.NewMemUserStore(), nil, nil)

	tests := []struct {
		name, userName, email, password string
	}{
		{"empty name", "", "a@x.com", "pw"},
		{"empty email", "Ann", "", "pw"},
		{"empty password", "Ann", "a@x.com", ""},
		{"whitespace name", "   ", "a@x.com", "pw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.userName, tt.email, tt.password)
			if !errors.Is(err, ErrMissingFields) {
				t.Errorf("expected ErrMissingFields, got %v", err)
			}
		})
	}
}

func TestIdentityService_Login(t *testing.T) {
	store := testutil.NewMemUserStore()
	svc := NewIdentityService(store, nil, nil)

	created, err := svc.Signup(context.Background(), "Ann", "ann@x.com", "secret1")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	safe, err := svc.Login(context.Background(), "ann@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if safe.ID != created.ID {
		t.Error("login must return the stored identity")
	}
	if safe.Name != "Ann" || safe.Email != "ann@x.com" {
		t.Errorf("unexpected SafeUser: %+v", safe)
	}
}

func TestIdentityService_Login_Failures(t *testing.T) {
	store := testutil.NewMemUserStore()
	svc := NewIdentityService(store, nil, nil)

	if _, err := svc.Signup(context.Background(), "Ann", "ann@x.com", "secret1"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	tests := []struct {
		name, email, password string
		want                  error
	}{
		{"wrong password", "ann@x.com", "wrong", ErrInvalidCredentials},
		{"unknown email", "ghost@x.com", "secret1", ErrUserNotFound},
		{"missing email", "", "secret1", ErrMissingFields},
		{"missing password", "ann@x.com", "", ErrMissingFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.email, tt.password)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestIdentityService_ListOtherUsers(t *testing.T) {
	store := testutil.NewMemUserStore()
	svc := NewIdentityService(store, nil, nil)

	ann, err := svc.Signup(context.Background(), "Ann", "ann@x.com", "pw1")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if _, err := svc.Signup(context.Background(), "Bob", "bob@x.com", "pw2"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if _, err := svc.Signup(context.Background(), "Cay", "cay@x.com", "pw3"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	others, err := svc.ListOtherUsers(context.Background(), ann.ID)
	if err != nil {
		t.Fatalf("ListOtherUsers failed: %v", err)
	}

	if len(others) != 2 {
		t.Fatalf("expected 2 users, got %d", len(others))
	}
	for _, u := range others {
		if u.ID == ann.ID {
			t.Error("excluded user must not appear in the listing")
		}
	}
}

func TestIdentityService_ListOtherUsers_Empty(t *testing.T) {
	svc := NewIdentityService(testutil.NewMemUserStore(), nil, nil)

	others, err := svc.ListOtherUsers(context.Background(), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("ListOtherUsers failed: %v", err)
	}
	if len(others) != 0 {
		t.Errorf("expected empty listing, got %d", len(others))
	}
}
