package handler

import (
	"net/http"

	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

func NewAuthHandler(userService *service.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
	}
}

// Login godoc
// @Summary Sign in
// @Description Exchange username and password for an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.LoginResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to sign in")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Me godoc
// @Summary Current user
// @Description Get the signed-in user's profile
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.UserResponse
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Current(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get current user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}
