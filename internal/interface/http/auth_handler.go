package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ajisatria/go-blog-api/internal/application"
	"github.com/ajisatria/go-blog-api/internal/domain/entity"
	"github.com/ajisatria/go-blog-api/internal/interface/middleware"
	"github.com/ajisatria/go-blog-api/pkg/response"
	"github.com/ajisatria/go-blog-api/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Role     string `json:"role" binding:"omitempty,role"`
}

// login intentionally has no password length floor; registration is where
// the bound applies.
type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "validation error", validation.ToDetails(err))
		return
	}
	id, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     entity.Role(req.Role),
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{"message": "registered", "id": id})
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "validation error", validation.ToDetails(err))
		return
	}
	token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"token": token})
}

// Me GET /api/auth/me (auth required)
func (h *AuthHandler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	response.JSON(c, http.StatusOK, userJSON(u))
}
