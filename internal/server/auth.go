package server

import (
	"github.com/gin-gonic/gin"
	authdomain "github.com/storekeeplabs/storekeep/internal/auth/domain"
	userdomain "github.com/storekeeplabs/storekeep/internal/user/domain"
)

type registerRequest struct {
	Name                 string `json:"name" binding:"required,max=255"`
	Email                string `json:"email" binding:"required,email,max=255"`
	Password             string `json:"password" binding:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.AbortWithError(c, bindError(err))
		return
	}

	session, err := s.authSvc.Register(c.Request.Context(), authdomain.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.AbortWithError(c, err)
		return
	}

	respondCreated(c, "User registered successfully", session)
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.AbortWithError(c, bindError(err))
		return
	}

	session, err := s.authSvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.AbortWithError(c, err)
		return
	}

	respondOK(c, "Login successful", session)
}

func (s *Server) Logout(c *gin.Context) {
	if err := s.authSvc.Logout(c.Request.Context(), bearerToken(c)); err != nil {
		s.AbortWithError(c, err)
		return
	}
	respondOK(c, "Logged out successfully", nil)
}

func (s *Server) CurrentUser(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		s.AbortWithError(c, ErrUnauthorized)
		return
	}
	respondOK(c, "User retrieved successfully", userdomain.ToResponse(user))
}
