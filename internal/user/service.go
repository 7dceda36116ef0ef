package user

import (
	"context"
	"strings"

	"campuseats-be/internal/auth"
	"campuseats-be/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, email, password, role string) (string, *User, error)
	Login(ctx context.Context, email, password string) (string, *User, error)
}

type service struct {
	repo      Repository
	jwtSecret string
}

func NewService(repo Repository, jwtSecret string) Service {
	return &service{repo: repo, jwtSecret: jwtSecret}
}

func (s *service) Register(ctx context.Context, email, password, role string) (string, *User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	// Admin accounts are provisioned out of band; self-registration may
	// only pick courier, anything else becomes a customer.
	if role != auth.RoleCourier {
		role = auth.RoleCustomer
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	u, err := s.repo.Create(ctx, email, string(hash), role)
	if err != nil {
		return "", nil, err
	}

	token, err := auth.GenerateToken(s.jwtSecret, u.ID.String(), u.Role)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to generate jwt", zap.String("user_id", u.ID.String()), zap.Error(err))
		return "", nil, err
	}

	return token, u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, *User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.repo.GetByEmail(ctx, email)
	if err == ErrUserNotFound {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(s.jwtSecret, u.ID.String(), u.Role)
	if err != nil {
		return "", nil, err
	}

	return token, u, nil
}
