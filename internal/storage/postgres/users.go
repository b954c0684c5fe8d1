package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"

	"shiftdesk/internal/models"
	"shiftdesk/internal/storage"
	"shiftdesk/internal/transport/dto"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const userColumns = `id, name, email, password_hash, role, work_role, skills, languages, rating, created_at, updated_at`

// UserRepo implements the storage.UserRepository interface using PostgreSQL.
type UserRepo struct {
	db Querier
}

// Compile-time check to ensure UserRepo implements UserRepository
var _ storage.UserRepository = (*UserRepo)(nil)

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.WorkRole,
		&u.Skills,
		&u.Languages,
		&u.Rating,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create saves a new user, hashing the supplied password.
func (r *UserRepo) Create(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing password for %s: %v\n", req.Email, err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	skills := req.Skills
	if skills == nil {
		skills = []string{}
	}
	languages := req.Languages
	if languages == nil {
		languages = []string{}
	}

	query := fmt.Sprintf(`
		INSERT INTO users (id, name, email, password_hash, role, work_role, skills, languages, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, NOW(), NOW())
		RETURNING %s
	`, userColumns)

	row := r.db.QueryRow(ctx, query,
		uuid.New(),
		req.Name,
		req.Email,
		string(hash),
		req.Role,
		req.WorkRole,
		skills,
		languages,
	)

	createdUser, err := scanUser(row)
	if err != nil {
		log.Printf("Error creating user %s: %v\n", req.Email, err)
		return nil, fmt.Errorf("failed to create user: %w", mapPgError(err))
	}

	log.Printf("User created successfully with ID: %s", createdUser.ID)
	return createdUser, nil
}

// GetByID retrieves a single user by ID.
func (r *UserRepo) GetByID(ctx context.Context, req *dto.GetUserByIDRequest) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, req.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("User not found with ID: %s\n", req.ID)
			return nil, storage.ErrNotFound
		}
		log.Printf("Error getting user by ID %s: %v\n", req.ID, err)
		return nil, fmt.Errorf("failed to get user by ID %s: %w", req.ID, err)
	}

	return user, nil
}

// GetByEmail retrieves a single user by email (including password hash).
func (r *UserRepo) GetByEmail(ctx context.Context, req *dto.GetUserByEmailRequest) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, req.Email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("User not found with email: %s\n", req.Email)
			return nil, storage.ErrNotFound
		}
		log.Printf("Error getting user by email %s: %v\n", req.Email, err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}
