package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/okaraca/coursehub/internal/app/models"
	appRepos "github.com/okaraca/coursehub/internal/app/repositories"
	"github.com/okaraca/coursehub/internal/config"
	"github.com/okaraca/coursehub/internal/pkg/auth"
)

// CreateDefaultData creates the default admin account if it does not exist.
// The account is only seeded when both credentials are configured.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(cfg.Seed.AdminEmail))
	password := cfg.Seed.AdminPassword
	if email == "" || password == "" {
		lgr.Info().Msg("Admin seed credentials not configured, skipping default admin creation")
		return nil
	}

	userRepo := appRepos.NewUserRepository(dbPool)

	exists, err := userRepo.EmailExists(ctx, email)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return err
	}
	if exists {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	}

	lgr.Info().Str("email", email).Msg("Creating default admin user...")

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	admin := &appModels.User{
		Email:       email,
		Password:    hashedPassword,
		FirstName:   "System",
		LastName:    "Administrator",
		RoleType:    appModels.RoleAdmin,
		IsActive:    true,
		Preferences: appModels.DefaultPreferences(),
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin user")
		return err
	}
	if admin.ID == 0 {
		return errors.New("admin user was not assigned an id")
	}

	lgr.Info().Int64("adminID", admin.ID).Msg("Default admin user created successfully")
	return nil
}
