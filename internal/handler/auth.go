package handler

import (
	"net/http"
	"time"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/dto"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/middleware"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc       service.AuthService
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthHandler(svc service.AuthService, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{svc: svc, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Login authenticates and issues a bearer token for the local API.
// POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	p, err := h.svc.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	token, err := middleware.IssueToken(h.jwtSecret, h.tokenTTL, p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(h.tokenTTL.Seconds()),
		User: dto.UserResponse{
			ID:       p.UserID().String(),
			Username: p.Username(),
			Role:     string(p.Role()),
		},
	})
}

// Me returns the caller's current identity.
// GET /v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	c.JSON(http.StatusOK, dto.UserResponse{
		ID:       p.UserID().String(),
		Username: p.Username(),
		Role:     string(p.Role()),
	})
}

// CreateUser provisions an operator. Admin only.
// POST /v1/users
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateUser(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
