package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	userdomain "github.com/storekeeplabs/storekeep/internal/user/domain"
	"github.com/storekeeplabs/storekeep/pkg/db/pagination"
	"go.uber.org/zap"
)

type createUserRequest struct {
	Name                 string `json:"name" binding:"required,max=255"`
	Email                string `json:"email" binding:"required,email,max=255"`
	Password             string `json:"password" binding:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
	Role                 string `json:"role" binding:"omitempty,oneof=user admin"`
}

type updateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Role     *string `json:"role" binding:"omitempty,oneof=user admin"`
	Password string  `json:"password" binding:"omitempty,min=8"`
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

func (s *Server) ListUsers(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Search        string `form:"search"`
		EmailVerified string `form:"email_verified"`
		Role          string `form:"role"`
		SortBy        string `form:"sort_by"`
		SortOrder     string `form:"sort_order"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		s.AbortWithError(c, ErrInvalidRequest)
		return
	}

	emailVerified, err := parseOptionalBool(query.EmailVerified)
	if err != nil {
		s.AbortWithError(c, newValidationError("email_verified", "The email_verified field must be a boolean."))
		return
	}

	resp, err := s.userSvc.List(c.Request.Context(), userdomain.ListRequest{
		Search:        strings.TrimSpace(query.Search),
		EmailVerified: emailVerified,
		Role:          strings.TrimSpace(query.Role),
		SortBy:        query.SortBy,
		SortOrder:     query.SortOrder,
		Page:          query.Pagination,
	})
	if err != nil {
		s.AbortWithError(c, err)
		return
	}

	respondOK(c, "Users retrieved successfully", resp)
}

func (s *Server) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.userSvc.Create(c.Request.Context(), userdomain.CreateRequest{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		s.AbortWithError(c, err)
		return
	}

	respondCreated(c, "User created successfully", resp)
}

func (s *Server) GetUser(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		s.AbortWithError(c, notFoundError("User not found"))
		return
	}

	resp, err := s.userSvc.Find(c.Request.Context(), id)
	if err != nil {
		s.AbortWithError(c, err)
		return
	}

	respondOK(c, "User retrieved successfully", resp)
}

func (s *Server) UpdateUser(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		s.AbortWithError(c, notFoundError("User not found"))
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.AbortWithError(c, bindError(err))
		return
	}

	// Role changes go through the dedicated endpoint; a user may never
	// change their own role here either.
	if req.Role != nil {
		if actor := currentUser(c); actor != nil && actor.ID == id && *req.Role != actor.Role {
			s.AbortWithError(c, forbiddenError("You cannot change your own role."))
			return
		}
	}

	resp, err := s.userSvc.Update(c.Request.Context(), id, userdomain.UpdateRequest{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		s.AbortWithError(c, err)
		return
	}

	respondOK(c, "User updated successfully", resp)
}

func (s *Server) DeleteUser(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		s.AbortWithError(c, notFoundError("User not found"))
		return
	}

	if actor := currentUser(c); actor != nil && actor.ID == id {
		s.AbortWithError(c, forbiddenError("You cannot delete your own account."))
		return
	}

	if err := s.userSvc.Delete(c.Request.Context(), id); err != nil {
		s.AbortWithError(c, err)
		return
	}
	if err := s.authSvc.RevokeUserTokens(c.Request.Context(), id); err != nil {
		s.log.Warn("failed to revoke tokens for deleted user", zap.Int64("user_id", id), zap.Error(err))
	}

	respondOK(c, "User deleted successfully", nil)
}

func (s *Server) UpdateUserRole(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		s.AbortWithError(c, notFoundError("User not found"))
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.AbortWithError(c, bindError(err))
		return
	}

	// Self-demotion guard.
	if actor := currentUser(c); actor != nil && actor.ID == id {
		s.AbortWithError(c, forbiddenError("You cannot change your own role."))
		return
	}

	var (
		resp *userdomain.Response
		err  error
	)
	if req.Role == userdomain.RoleAdmin {
		resp, err = s.userSvc.PromoteToAdmin(c.Request.Context(), id)
	} else {
		resp, err = s.userSvc.DemoteToUser(c.Request.Context(), id)
	}
	if err != nil {
		s.AbortWithError(c, err)
		return
	}

	respondOK(c, "User role updated successfully", resp)
}

func (s *Server) AllUsers(c *gin.Context) {
	resp, err := s.userSvc.All(c.Request.Context())
	if err != nil {
		s.AbortWithError(c, err)
		return
	}
	respondOK(c, "Users retrieved successfully", resp)
}

func (s *Server) VerifiedUsers(c *gin.Context) {
	resp, err := s.userSvc.Verified(c.Request.Context())
	if err != nil {
		s.AbortWithError(c, err)
		return
	}
	respondOK(c, "Verified users retrieved successfully", resp)
}

func (s *Server) UnverifiedUsers(c *gin.Context) {
	resp, err := s.userSvc.Unverified(c.Request.Context())
	if err != nil {
		s.AbortWithError(c, err)
		return
	}
	respondOK(c, "Unverified users retrieved successfully", resp)
}

func (s *Server) AdminUsers(c *gin.Context) {
	resp, err := s.userSvc.Admins(c.Request.Context())
	if err != nil {
		s.AbortWithError(c, err)
		return
	}
	respondOK(c, "Admin users retrieved successfully", resp)
}

func (s *Server) UserStatistics(c *gin.Context) {
	stats, err := s.userSvc.Statistics(c.Request.Context())
	if err != nil {
		s.AbortWithError(c, err)
		return
	}
	respondOK(c, "Statistics retrieved successfully", stats)
}
