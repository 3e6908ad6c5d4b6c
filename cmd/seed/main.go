package main

import (
	"context"
	"errors"
	"flag"

	"kopiscan/api/internal/config"
	"kopiscan/api/internal/database"
	"kopiscan/api/internal/ids"
	"kopiscan/api/internal/log"
	"kopiscan/api/internal/models"
	"kopiscan/api/internal/repository"
	"kopiscan/api/internal/security"
)

// Seeds a default account for development setups.
func main() {
	email := flag.String("email", "demo@kopiscan.local", "account email")
	password := flag.String("password", "kopi123", "account password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	users := repository.NewUserRepository(pool)

	if _, err := users.FindByEmail(ctx, *email); err == nil {
		logger.Info().Str("email", *email).Msg("seed skipped, user exists")
		return
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		logger.Fatal().Err(err).Msg("lookup failed")
	}

	hash, err := security.HashPassword(*password)
	if err != nil {
		logger.Fatal().Err(err).Msg("hash password failed")
	}

	user := models.User{
		ID:           ids.New(),
		Email:        *email,
		PasswordHash: hash,
	}
	if err := users.Create(ctx, user); err != nil {
		logger.Fatal().Err(err).Msg("create user failed")
	}

	logger.Info().Str("email", *email).Str("user_id", user.ID).Msg("seed user created")
}
