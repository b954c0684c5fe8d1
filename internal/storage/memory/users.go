package memory

import (
	"context"
	"fmt"
	"time"

	"shiftdesk/internal/models"
	"shiftdesk/internal/storage"
	"shiftdesk/internal/transport/dto"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserRepo struct {
	store *Store
	inTx  bool
}

var _ storage.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	unlock := r.store.lockWrite(r.inTx)
	defer unlock()

	if _, exists := r.store.usersByEmail[req.Email]; exists {
		return nil, fmt.Errorf("email %s already registered: %w", req.Email, storage.ErrDuplicate)
	}

	skills := req.Skills
	if skills == nil {
		skills = []string{}
	}
	languages := req.Languages
	if languages == nil {
		languages = []string{}
	}

	now := time.Now()
	user := models.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		WorkRole:     req.WorkRole,
		Skills:       skills,
		Languages:    languages,
		Rating:       0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	r.store.users[user.ID] = user
	r.store.usersByEmail[user.Email] = user.ID
	return &user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, req *dto.GetUserByIDRequest) (*models.User, error) {
	unlock := r.store.lockRead(r.inTx)
	defer unlock()

	user, ok := r.store.users[req.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, req *dto.GetUserByEmailRequest) (*models.User, error) {
	unlock := r.store.lockRead(r.inTx)
	defer unlock()

	id, ok := r.store.usersByEmail[req.Email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	user := r.store.users[id]
	return &user, nil
}
