// cmd/seed/main.go
//
// Provisioning command: applies schema migrations, ensures the role rows
// exist, and creates the default admin and caretaker accounts. Safe to run
// repeatedly.
package main

import (
	"database/sql"
	"fmt"
	"go-auth-api/config"
	"go-auth-api/db"
	"go-auth-api/logger"
	"go-auth-api/model"
	"go-auth-api/repository"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Printf("error loading configuration: %v\n", err)
		return
	}
	logger.Init()

	if err := runMigrations(cfg); err != nil {
		logger.Log.Fatalf("Failed to run migrations: %v", err)
	}

	database, err := db.Connect(cfg)
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	userRepo := repository.NewUserRepository(database)
	roleRepo := repository.NewRoleRepository(database)

	for _, name := range []string{model.RoleTenant, model.RoleCaretaker, model.RoleAdmin} {
		if err := roleRepo.EnsureRole(name); err != nil {
			logger.Log.Fatalf("Failed to ensure role %s: %v", name, err)
		}
	}
	logger.Log.Info("Roles provisioned")

	seedUser(userRepo, roleRepo, "admin@smartaprt.com", "AdminPass123!", "Admin User", model.RoleAdmin)
	seedUser(userRepo, roleRepo, "caretaker@smartaprt.com", "CaretakerPass123!", "Caretaker User", model.RoleCaretaker)

	logger.Log.Info("Seed completed")
}

func runMigrations(cfg *config.Config) error {
	d := cfg.Database
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)

	mig, err := migrate.New("file://db/migrations", connStr)
	if err != nil {
		return fmt.Errorf("cannot create migrate instance: %w", err)
	}
	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrate up: %w", err)
	}
	return nil
}

func seedUser(userRepo *repository.UserRepository, roleRepo *repository.RoleRepository, email, password, name, roleName string) {
	if _, err := userRepo.GetUserByEmail(email); err == nil {
		logger.Log.WithField("email", email).Info("User already exists, skipping")
		return
	} else if err != sql.ErrNoRows {
		logger.Log.Fatalf("Failed to look up user %s: %v", email, err)
	}

	role, err := roleRepo.GetRoleByName(roleName)
	if err != nil {
		logger.Log.Fatalf("Failed to look up role %s: %v", roleName, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Fatalf("Failed to hash seed password: %v", err)
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		RoleID:   role.ID,
	}
	if err := userRepo.CreateUser(user); err != nil {
		logger.Log.Fatalf("Failed to create user %s: %v", email, err)
	}
	logger.Log.WithField("email", email).Infof("Created %s user", roleName)
}
