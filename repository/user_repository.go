// file: repository/user_repository.go

package repository

import (
	"database/sql"
	"go-auth-api/logger"
	"go-auth-api/model"

	"github.com/sirupsen/logrus"
)

// IUserRepository defines the contract for user database operations.
type IUserRepository interface {
	CreateUser(user *model.User) error
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	GetAllUsers() ([]*model.User, error)
	UpdateRefreshToken(userID int, token string) error
	RotateRefreshToken(userID int, oldToken, newToken string) error
	ClearRefreshToken(userID int) error
}

// UserRepository implements IUserRepository.
type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// CreateUser inserts a new user row and fills in the generated id and
// creation timestamp.
func (r *UserRepository) CreateUser(user *model.User) error {
	log := logger.Log.WithFields(logrus.Fields{
		"email":   user.Email,
		"role_id": user.RoleID,
	})
	log.Info("Executing query to create a new user")

	query := `INSERT INTO users (name, email, password, role_id) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.DB.QueryRow(query, user.Name, user.Email, user.Password, user.RoleID).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create user query")
		return err
	}
	return nil
}

// GetUserByEmail retrieves a user together with its role.
// Returns sql.ErrNoRows when no user has the given email.
func (r *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT u.id, u.name, u.email, u.password, u.role_id, u.refresh_token, u.created_at, r.id, r.name
	          FROM users u JOIN roles r ON r.id = u.role_id WHERE u.email = $1`
	err := r.DB.QueryRow(query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.RoleID,
		&user.RefreshToken, &user.CreatedAt, &user.Role.ID, &user.Role.Name,
	)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).Error("Failed to execute get user by email query")
		}
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user together with its role.
// Returns sql.ErrNoRows when no user has the given id.
func (r *UserRepository) GetUserByID(id int) (*model.User, error) {
	user := &model.User{}
	query := `SELECT u.id, u.name, u.email, u.password, u.role_id, u.refresh_token, u.created_at, r.id, r.name
	          FROM users u JOIN roles r ON r.id = u.role_id WHERE u.id = $1`
	err := r.DB.QueryRow(query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.RoleID,
		&user.RefreshToken, &user.CreatedAt, &user.Role.ID, &user.Role.Name,
	)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).Error("Failed to execute get user by id query")
		}
		return nil, err
	}
	return user, nil
}

// GetAllUsers retrieves every user together with its role.
func (r *UserRepository) GetAllUsers() ([]*model.User, error) {
	logger.Log.Info("Executing query to get all users")

	query := `SELECT u.id, u.name, u.email, u.role_id, u.created_at, r.id, r.name
	          FROM users u JOIN roles r ON r.id = u.role_id ORDER BY u.id`
	rows, err := r.DB.Query(query)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute get all users query")
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user := &model.User{}
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.RoleID,
			&user.CreatedAt, &user.Role.ID, &user.Role.Name); err != nil {
			logger.Log.WithError(err).Error("Failed to scan user row")
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateRefreshToken overwrites the stored refresh token unconditionally.
// Used by signup and login, which always start a fresh session.
func (r *UserRepository) UpdateRefreshToken(userID int, token string) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to store refresh token")

	query := `UPDATE users SET refresh_token = $1 WHERE id = $2`
	_, err := r.DB.Exec(query, token, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute store refresh token query")
		return err
	}
	return nil
}

// RotateRefreshToken swaps the stored refresh token for a new one, but only
// if the stored value still equals oldToken. Returns sql.ErrNoRows when the
// stored token changed underneath us, so concurrent rotations of the same
// token cannot both succeed.
func (r *UserRepository) RotateRefreshToken(userID int, oldToken, newToken string) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to rotate refresh token")

	query := `UPDATE users SET refresh_token = $1 WHERE id = $2 AND refresh_token = $3`
	res, err := r.DB.Exec(query, newToken, userID, oldToken)
	if err != nil {
		log.WithError(err).Error("Failed to execute rotate refresh token query")
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ClearRefreshToken removes the stored refresh token. Clearing an already
// empty token is not an error, which makes logout idempotent.
func (r *UserRepository) ClearRefreshToken(userID int) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to clear refresh token")

	query := `UPDATE users SET refresh_token = NULL WHERE id = $1`
	_, err := r.DB.Exec(query, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute clear refresh token query")
		return err
	}
	return nil
}
