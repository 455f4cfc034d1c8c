// file: repository/role_repository.go

package repository

import (
	"database/sql"
	"go-auth-api/logger"
	"go-auth-api/model"
)

// IRoleRepository defines the contract for role database operations.
type IRoleRepository interface {
	GetRoleByName(name string) (*model.Role, error)
	EnsureRole(name string) error
}

// RoleRepository implements IRoleRepository.
type RoleRepository struct {
	DB *sql.DB
}

func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{DB: db}
}

// GetRoleByName retrieves a role row by its unique name.
// Returns sql.ErrNoRows when the role has not been provisioned.
func (r *RoleRepository) GetRoleByName(name string) (*model.Role, error) {
	role := &model.Role{}
	query := `SELECT id, name FROM roles WHERE name = $1`
	err := r.DB.QueryRow(query, name).Scan(&role.ID, &role.Name)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithField("role", name).Error("Failed to execute get role by name query")
		}
		return nil, err
	}
	return role, nil
}

// EnsureRole creates the role if it does not already exist. Used by the seed
// command; the API never creates roles.
func (r *RoleRepository) EnsureRole(name string) error {
	log := logger.Log.WithField("role", name)
	log.Info("Executing query to ensure role exists")

	query := `INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`
	_, err := r.DB.Exec(query, name)
	if err != nil {
		log.WithError(err).Error("Failed to execute ensure role query")
		return err
	}
	return nil
}
