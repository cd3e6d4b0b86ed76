package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/parley/parley/internal/auth"
	"github.com/parley/parley/internal/model"
	"github.com/parley/parley/internal/repository"
)

type seededUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type output struct {
	Users    []seededUser `json:"users"`
	Messages int          `json:"messages"`
}

func main() {
	var (
		mongoURL = flag.String("mongo-url", os.Getenv("MONGO_URL"), "MongoDB connection string")
		dbName   = flag.String("database", envOrDefault("MONGO_DATABASE", "parley"), "Database name")
		password = flag.String("password", "demo-password", "Password for every seeded user")
		format   = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *mongoURL == "" {
		fmt.Fprintln(os.Stderr, "MONGO_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *mongoURL, *dbName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect store:", err)
		os.Exit(1)
	}
	defer repo.Close(ctx)

	if err := repo.EnsureIndexes(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "ensure indexes:", err)
		os.Exit(1)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash password:", err)
		os.Exit(1)
	}

	demo := []struct {
		name  string
		email string
	}{
		{"Ann", "ann@parley.local"},
		{"Bob", "bob@parley.local"},
		{"Cay", "cay@parley.local"},
	}

	users := make([]*model.User, 0, len(demo))
	for _, d := range demo {
		user, err := ensureUser(ctx, repo, d.name, d.email, hash)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		users = append(users, user)
	}

	conversation := []struct {
		from, to int
		text     string
	}{
		{0, 1, "Hey Bob, welcome aboard!"},
		{1, 0, "Thanks Ann, glad to be here."},
		{0, 2, "Cay, standup moved to 10."},
		{2, 0, "Got it, see you there."},
	}

	for _, m := range conversation {
		msg := &model.Message{
			Sender:   users[m.from].ID,
			Receiver: users[m.to].ID,
			Text:     m.text,
		}
		if err := repo.CreateMessage(ctx, msg); err != nil {
			fmt.Fprintln(os.Stderr, "create message:", err)
			os.Exit(1)
		}
	}

	out := output{Messages: len(conversation)}
	for _, u := range users {
		out.Users = append(out.Users, seededUser{
			ID:    u.ID.Hex(),
			Name:  u.Name,
			Email: u.Email,
		})
	}

	switch strings.ToLower(*format) {
	case "plain":
		for _, u := range out.Users {
			fmt.Printf("%s\t%s\t%s\n", u.ID, u.Name, u.Email)
		}
		fmt.Printf("seeded %d messages\n", out.Messages)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// ensureUser creates the demo user if it does not already exist. Reruns
// reuse existing accounts instead of failing on the unique email index.
func ensureUser(ctx context.Context, repo *repository.Repository, name, email, hash string) (*model.User, error) {
	existing, err := repo.GetUserByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("look up %s: %w", email, err)
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: hash,
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user %s: %w", email, err)
	}
	return user, nil
}
