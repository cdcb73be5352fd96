package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/apperr"
	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/entity"
	"github.com/Pramodh92/VoltHive-The-Digital-Marketplace-That-Knows-What-You-Need/internal/repository"
)

const (
	minPasswordLength = 6
	tokenTTL          = 7 * 24 * time.Hour
)

type TokenClaims struct {
	UserID   int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type UserService struct {
	userRepo repository.UserRepository
	secret   []byte
}

// NewUserService creates a new instance of UserService.
func NewUserService(userRepo repository.UserRepository, secret []byte) *UserService {
	return &UserService{
		userRepo: userRepo,
		secret:   secret,
	}
}

// Signup registers a new account and returns a signed token for it.
func (s *UserService) Signup(ctx context.Context, username, email, password string) (string, *entity.User, error) {
	if username == "" || email == "" || password == "" {
		return "", nil, apperr.Validation("all fields are required")
	}
	if len(password) < minPasswordLength {
		return "", nil, apperr.Validation("password must be at least %d characters", minPasswordLength)
	}

	_, err := s.userRepo.GetUserByEmailOrUsername(ctx, email, username)
	if err == nil {
		return "", nil, apperr.Conflict("user already exists")
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		logger.Error().Err(err).Msg("Error looking up user")
		return "", nil, apperr.Persistence("failed to create user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error().Err(err).Msg("Error hashing password")
		return "", nil, apperr.Persistence("failed to create user", err)
	}

	user := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         entity.RoleUser, // admins are promoted manually
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating user")
		return "", nil, apperr.Persistence("failed to create user", err)
	}

	token, err := s.signToken(created)
	if err != nil {
		logger.Error().Err(err).Msg("Error signing token")
		return "", nil, apperr.Persistence("failed to create user", err)
	}

	return token, created, nil
}

// Login authenticates by email and password.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	if email == "" || password == "" {
		return "", nil, apperr.Validation("email and password are required")
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, apperr.Auth("invalid credentials")
		}
		logger.Error().Err(err).Msg("Error looking up user")
		return "", nil, apperr.Persistence("failed to login", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperr.Auth("invalid credentials")
	}

	token, err := s.signToken(user)
	if err != nil {
		logger.Error().Err(err).Msg("Error signing token")
		return "", nil, apperr.Persistence("failed to login", err)
	}

	return token, user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int) (*entity.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		logger.Error().Err(err).Msgf("Error getting user by ID %d", id)
		return nil, apperr.Persistence("failed to fetch user", err)
	}
	return user, nil
}

// VerifyToken parses and validates a signed token.
func (s *UserService) VerifyToken(token string) (*TokenClaims, error) {
	if token == "" {
		return nil, apperr.Auth("no token provided")
	}

	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apperr.Auth("invalid token")
	}

	return claims, nil
}

// Secret exposes the signing key for the HTTP JWT middleware.
func (s *UserService) Secret() []byte {
	return s.secret
}

func (s *UserService) signToken(user *entity.User) (string, error) {
	claims := &TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tkn.SignedString(s.secret)
}
