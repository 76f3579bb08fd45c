package controllers

import (
	"net/http"

	"guesthouse-backend/middleware"
	"guesthouse-backend/services"
	"guesthouse-backend/utils"

	"github.com/gin-gonic/gin"
)

type LoginPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateAdminPayload struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

type AuthController struct {
	Sessions *services.SessionService
}

func NewAuthController(sessions *services.SessionService) *AuthController {
	return &AuthController{Sessions: sessions}
}

// Login handles POST /api/admin/login
func (ac *AuthController) Login(c *gin.Context) {
	var payload LoginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "username and password are required")
		return
	}

	admin, token, err := ac.Sessions.Login(payload.Username, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"token": token,
		"admin": admin,
	})
}

// Logout handles POST /api/admin/logout
func (ac *AuthController) Logout(c *gin.Context) {
	token := c.GetHeader("Authorization")
	if len(token) > 7 {
		token = token[7:]
	}
	if err := ac.Sessions.Logout(token); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"loggedOut": true})
}

// Me handles GET /api/admin/me
func (ac *AuthController) Me(c *gin.Context) {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, admin)
}

// CreateAdmin handles POST /api/admin/admins
func (ac *AuthController) CreateAdmin(c *gin.Context) {
	var payload CreateAdminPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "username, email and password are required")
		return
	}

	admin, err := ac.Sessions.CreateAdmin(
		payload.Username, payload.Email, payload.Password,
		payload.FirstName, payload.LastName, payload.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, admin)
}
