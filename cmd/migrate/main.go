package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/sainam-co/jobtrack-api/internal/config"
	"github.com/sainam-co/jobtrack-api/internal/database"
	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/logger"
	"github.com/sainam-co/jobtrack-api/internal/repository"
	"github.com/sainam-co/jobtrack-api/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Migration error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	args := os.Args[1:]
	if len(args) == 0 {
		return fmt.Errorf("usage: migrate [up|down|status|version|create|seed]")
	}

	command := args[0]
	arguments := args[1:]

	if command == "seed" {
		return seedUsers(cfg)
	}

	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	migrationsDir := "./migrations"

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	switch command {
	case "up":
		if err := goose.Up(db, migrationsDir); err != nil {
			return fmt.Errorf("failed to run up migrations: %w", err)
		}
		fmt.Println("Migrations applied successfully")

	case "down":
		if err := goose.Down(db, migrationsDir); err != nil {
			return fmt.Errorf("failed to run down migration: %w", err)
		}
		fmt.Println("Migration rolled back successfully")

	case "status":
		if err := goose.Status(db, migrationsDir); err != nil {
			return fmt.Errorf("failed to get migration status: %w", err)
		}

	case "version":
		if err := goose.Version(db, migrationsDir); err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}

	case "create":
		if len(arguments) == 0 {
			return fmt.Errorf("create requires a migration name")
		}
		if err := goose.Create(db, migrationsDir, arguments[0], "sql"); err != nil {
			return fmt.Errorf("failed to create migration: %w", err)
		}
		fmt.Printf("Migration created: %s\n", arguments[0])

	default:
		return fmt.Errorf("unknown command: %s", command)
	}

	return nil
}

// seedUsers creates the initial accounts. Passwords come from the
// environment so hashes never end up in migration files. Existing
// usernames are left untouched.
func seedUsers(cfg *config.Config) error {
	log, err := logger.New(&cfg.Logging, cfg.App.Name, cfg.App.Environment)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	userService := service.NewUserService(userRepo, nil, log)

	seeds := []struct {
		username    string
		displayName string
		passwordEnv string
		role        domain.Role
	}{
		{"admin", "Administrator", "SEED_ADMIN_PASSWORD", domain.RoleAdmin},
		{"foreman", "Site Foreman", "SEED_FOREMAN_PASSWORD", domain.RoleForeman},
		{"owner", "Business Owner", "SEED_OWNER_PASSWORD", domain.RoleOwner},
	}

	ctx := context.Background()
	for _, s := range seeds {
		password := os.Getenv(s.passwordEnv)
		if password == "" {
			fmt.Printf("Skipping %s: %s not set\n", s.username, s.passwordEnv)
			continue
		}
		if err := userService.SeedUser(ctx, s.username, s.displayName, password, s.role); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", s.username, err)
		}
		fmt.Printf("Seeded user: %s (%s)\n", s.username, s.role)
	}

	return nil
}
