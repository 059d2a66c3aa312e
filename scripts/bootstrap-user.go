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

	"github.com/oklog/ulid/v2"

	"github.com/modelgate/modelgate/internal/auth"
	"github.com/modelgate/modelgate/internal/model"
	"github.com/modelgate/modelgate/internal/repository"
)

type output struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Credits int64  `json:"credits"`
	KeyID   string `json:"key_id,omitempty"`
	Key     string `json:"key,omitempty"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		email       = flag.String("email", "admin@modelgate.local", "Account email")
		password    = flag.String("password", "", "Account password (required)")
		withKey     = flag.Bool("with-key", false, "Also create an API key for the account")
		keyName     = flag.String("key-name", "bootstrap", "API key name")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *password == "" {
		fmt.Fprintln(os.Stderr, "password is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	if err := repo.Migrate(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "run migrations:", err)
		os.Exit(1)
	}

	user, err := ensureUser(ctx, repo, *email, *password)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	out := output{
		UserID:  user.ID,
		Email:   user.Email,
		Credits: user.Credits,
	}

	if *withKey {
		secret, err := auth.GenerateKeySecret()
		if err != nil {
			fmt.Fprintln(os.Stderr, "generate api key:", err)
			os.Exit(1)
		}

		apiKey := &model.APIKey{
			ID:        ulid.Make().String(),
			UserID:    user.ID,
			Name:      *keyName,
			Secret:    secret,
			CreatedAt: time.Now().UTC(),
		}
		if err := repo.CreateAPIKey(ctx, apiKey); err != nil {
			fmt.Fprintln(os.Stderr, "create api key:", err)
			os.Exit(1)
		}

		out.KeyID = apiKey.ID
		out.Key = secret
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.UserID)
		if out.Key != "" {
			fmt.Println(out.Key)
		}
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

func ensureUser(ctx context.Context, repo *repository.Repository, email, password string) (*model.User, error) {
	existing, err := repo.GetUserByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        email,
		PasswordHash: hash,
		Credits:      model.SignupCredits,
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}
