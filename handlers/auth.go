package handlers

import (
	"net/http"

	"pulsefit/middleware"
	"pulsefit/services/user"
	"pulsefit/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	Users user.UserService
}

func NewAuthHandler(users user.UserService) *AuthHandler {
	return &AuthHandler{Users: users}
}

// RegisterUserHandler handles POST /api/auth/register.
func (h *AuthHandler) RegisterUserHandler(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		getLogger(c).Debug("Invalid registration request", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.Users.Register(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthenticateUserHandler handles POST /api/auth/login.
func (h *AuthHandler) AuthenticateUserHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.Users.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CurrentUserHandler handles GET /api/auth/me.
func (h *AuthHandler) CurrentUserHandler(c *gin.Context) {
	u, err := h.Users.GetUserByID(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
