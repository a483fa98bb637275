package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	userdomain "github.com/storekeeplabs/storekeep/internal/user/domain"
)

const (
	contextUserKey  = "current_user"
	contextTokenKey = "bearer_token"
)

// AuthRequired authenticates requests using a bearer token.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			s.AbortWithError(c, ErrUnauthorized)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			s.AbortWithError(c, ErrUnauthorized)
			return
		}

		user, err := s.authSvc.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			s.AbortWithError(c, err)
			return
		}

		c.Set(contextUserKey, user)
		c.Set(contextTokenKey, parts[1])
		c.Next()
	}
}

// AdminRequired gates a route group on the admin role. Runs after AuthRequired.
func (s *Server) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			s.AbortWithError(c, ErrUnauthorized)
			return
		}
		if !user.IsAdmin() {
			s.AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *userdomain.User {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, ok := value.(*userdomain.User)
	if !ok {
		return nil
	}
	return user
}

func bearerToken(c *gin.Context) string {
	value, ok := c.Get(contextTokenKey)
	if !ok {
		return ""
	}
	token, _ := value.(string)
	return token
}
