package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"shiftdesk/internal/storage"
	"shiftdesk/internal/transport/dto"

	"shiftdesk/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type userService struct {
	repo          storage.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo storage.UserRepository, jwtSecret string, jwtExpiration time.Duration) UserService {
	return &userService{
		repo:          repo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

func (s *userService) Register(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	user, err := s.repo.Create(ctx, req)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) || errors.Is(err, storage.ErrConflict) {
			return nil, fmt.Errorf("%w: %w", ErrConflict, err)
		}
		log.Printf("UserService: Error creating user: %v", err)
		return nil, fmt.Errorf("internal error creating user: %w", err)
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, req *dto.LoginRequest) (*models.User, string, error) {
	emailReq := dto.GetUserByEmailRequest{Email: req.Email}
	user, err := s.repo.GetByEmail(ctx, &emailReq)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Printf("Login attempt failed for email %s: user not found", req.Email)
			return nil, "", ErrInvalidCredentials
		}
		log.Printf("Error fetching user by email %s during login: %v", req.Email, err)
		return nil, "", fmt.Errorf("internal error during login: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if err != nil {
		log.Printf("Login attempt failed for email %s: invalid password", req.Email)
		return nil, "", ErrInvalidCredentials
	}

	// Generate JWT Token
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(expirationTime),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		log.Printf("Error generating JWT token for user %s: %v", user.Email, err)
		return nil, "", fmt.Errorf("failed to generate login token: %w", err)
	}

	return user, tokenString, nil
}

func (s *userService) GetByID(ctx context.Context, req *dto.GetUserByIDRequest) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, req)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	return user, err
}
