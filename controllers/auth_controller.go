package controllers

import (
	"github.com/Nhongkham198/POS-Sirimokol/pkg/resp"
	"github.com/Nhongkham198/POS-Sirimokol/services"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct{ Auth *services.AuthService }

func NewAuthController(auth *services.AuthService) *AuthController { return &AuthController{Auth: auth} }

// POST /auth/login
func (a *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error()); return
	}

	token, user, err := a.Auth.Login(req.Username, req.Password)
	if err == services.ErrInvalidLogin {
		resp.Unauthorized(c, "invalid credentials"); return
	}
	if err != nil {
		resp.ServerError(c, err); return
	}

	resp.OK(c, gin.H{"token": token, "user": user})
}

type ChangePasswordRequest struct {
	Username    string `json:"username" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=4"`
}

// POST /auth/password (admin)
func (a *AuthController) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error()); return
	}
	if err := a.Auth.SetPassword(req.Username, req.NewPassword); err != nil {
		resp.BadRequest(c, err.Error()); return
	}
	resp.OK(c, gin.H{"username": req.Username})
}
