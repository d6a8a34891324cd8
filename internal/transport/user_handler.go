package transport

import (
	"net/http"

	"taniku/internal/domain"
	"taniku/internal/middleware"
	"taniku/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileRequest updates the caller's account; an empty password keeps the old one
type ProfileRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

// UserProfile represents user profile data
type UserProfile struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
}

func profileOf(user *domain.User) UserProfile {
	return UserProfile{ID: user.ID, Username: user.Username, Email: user.Email, Role: user.Role}
}

// AuthResponse is returned whenever a new token is issued
type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserProfile `json:"user"`
}

type RegisterResponse struct {
	Message string      `json:"message"`
	User    UserProfile `json:"user"`
}

type PrincipalResponse struct {
	User domain.Principal `json:"user"`
}

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	userService service.UserService
	rateLimit   func(http.Handler) http.Handler
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler. rateLimit guards register and
// login and may be nil.
func NewUserHandler(userService service.UserService, rateLimit func(http.Handler) http.Handler, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		rateLimit:   rateLimit,
		logger:      logger,
	}
}

// RegisterRoutes registers all user routes
func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		if h.rateLimit != nil {
			r.Use(h.rateLimit)
		}
		r.Post("/api/register", h.Register)
		r.Post("/api/login", h.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/api/user", h.GetUser)
		r.Put("/api/profile", h.UpdateProfile)
		r.Post("/api/logout", h.Logout)
	})
}

// Register handles user registration
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to register user")
		return
	}

	h.logger.Info("User registered successfully", zap.Int64("user_id", user.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, RegisterResponse{
		Message: "registration successful, please log in",
		User:    profileOf(user),
	})
}

// Login handles user authentication
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	token, user, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to login")
		return
	}

	h.logger.Info("User logged in successfully", zap.Int64("user_id", user.ID))
	middleware.RespondWithJSON(w, http.StatusOK, AuthResponse{Message: "login successful", Token: token, User: profileOf(user)})
}

// GetUser returns the identity carried by the caller's token
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, PrincipalResponse{User: p})
}

// UpdateProfile handles PUT /api/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	var req ProfileRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	token, user, err := h.userService.UpdateProfile(r.Context(), p, req.Username, req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to update profile")
		return
	}

	h.logger.Info("Profile updated", zap.Int64("user_id", user.ID))
	middleware.RespondWithJSON(w, http.StatusOK, AuthResponse{Message: "profile updated", Token: token, User: profileOf(user)})
}

// Logout discards the caller's session state
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	if err := h.userService.Logout(r.Context(), p); err != nil {
		respondWithServiceError(w, h.logger, err, "failed to logout")
		return
	}

	h.logger.Info("User logged out", zap.Int64("user_id", p.ID))
	middleware.RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "logged out"})
}
