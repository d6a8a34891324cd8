package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taniku/internal/domain"
	"taniku/internal/repository"
	"taniku/internal/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10

	// MinPasswordLength applies to registration and profile updates
	MinPasswordLength = 6

	// DefaultTokenExpiration is used when no expiry is configured
	DefaultTokenExpiration = 24 * time.Hour
)

// UserService defines the interface for account and session logic
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	// UpdateProfile changes username, email and optionally the password. The
	// returned token keeps the caller's session id so the cart survives.
	UpdateProfile(ctx context.Context, principal domain.Principal, username, email, password string) (token string, user *domain.User, err error)
	Logout(ctx context.Context, principal domain.Principal) error
	ValidateToken(tokenString string) (*Claims, error)
	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)
}

// Claims represents the JWT claims
type Claims struct {
	UserID    int64       `json:"id"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	SessionID string      `json:"sid"`
	jwt.RegisteredClaims
}

// Principal returns the request identity carried by the claims
func (c *Claims) Principal() domain.Principal {
	return domain.Principal{
		ID:        c.UserID,
		Username:  c.Username,
		Role:      c.Role,
		SessionID: c.SessionID,
	}
}

type userService struct {
	userRepo    repository.UserRepository
	carts       session.CartStore
	jwtSecret   string
	tokenExpiry time.Duration
	now         func() time.Time
}

// NewUserService creates a new instance of UserService
func NewUserService(
	userRepo repository.UserRepository,
	carts session.CartStore,
	jwtSecret string,
	tokenExpiry time.Duration,
) UserService {
	if tokenExpiry <= 0 {
		tokenExpiry = DefaultTokenExpiration
	}
	return &userService{
		userRepo:    userRepo,
		carts:       carts,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
		now:         time.Now,
	}
}

// Register creates a new user account with hashed password
func (s *userService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return nil, ErrMissingProfileField
	}
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hashedPassword, err := s.hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         domain.RoleUser,
		CreatedAt:    s.now().UTC(),
	}

	// uniqueness is checked under the collection lock
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user and starts a fresh session
func (s *userService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.verifyPassword(user.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(user, uuid.NewString())
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return token, user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, principal domain.Principal, username, email, password string) (string, *domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return "", nil, ErrMissingProfileField
	}
	if password != "" && len(password) < MinPasswordLength {
		return "", nil, ErrPasswordTooShort
	}

	user, err := s.userRepo.FindByID(ctx, principal.ID)
	if err != nil {
		return "", nil, err
	}

	user.Username = username
	user.Email = email
	if password != "" {
		hashedPassword, err := s.hashPassword(password)
		if err != nil {
			return "", nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hashedPassword
	}
	now := s.now().UTC()
	user.UpdatedAt = &now

	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := s.generateAccessToken(user, principal.SessionID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, user, nil
}

// Logout discards the session state bound to the principal's token
func (s *userService) Logout(ctx context.Context, principal domain.Principal) error {
	if principal.SessionID == "" {
		return nil
	}
	if err := s.carts.Delete(ctx, principal.SessionID); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *userService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) hashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *userService) verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func (s *userService) generateAccessToken(user *domain.User, sessionID string) (string, error) {
	issuedAt := s.now()
	claims := &Claims{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
