package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"partflow/services"
	"partflow/utils"
)

type AuthController struct {
	authService *services.AuthService
}

func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid registration payload", err.Error())
		return
	}

	user, token, err := ac.authService.Register(c.Request.Context(), req.Email, req.Username, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) || errors.Is(err, services.ErrUsernameTaken) {
			utils.ConflictResponse(c, err.Error(), nil)
			return
		}
		utils.InternalServerErrorResponse(c, "Registration failed", err.Error())
		return
	}

	utils.CreatedResponse(c, "Registered successfully", gin.H{
		"user":  user,
		"token": token,
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid login payload", err.Error())
		return
	}

	user, token, err := ac.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.UnauthorizedResponse(c, "Invalid email or password")
			return
		}
		utils.InternalServerErrorResponse(c, "Login failed", err.Error())
		return
	}

	utils.SuccessResponse(c, "Logged in successfully", gin.H{
		"user":  user,
		"token": token,
	})
}
