package devbackend

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nhle/study-dashboard/internal/model"
)

const claimsKey = "claims"

// authRequired verifies the bearer token and stores its claims.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := s.tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		revoked, err := s.denylist.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			s.log.Errorw("checking token denylist", "error", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "auth unavailable"})
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token revoked"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *Claims {
	return c.MustGet(claimsKey).(*Claims)
}

func userID(c *gin.Context) string {
	return claimsFrom(c).UserID
}

func (s *Server) handleRegister(c *gin.Context) {
	var creds model.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := creds.Validate(); err != nil {
		s.writeError(c, err)
		return
	}
	if !strings.Contains(creds.Email, "@") {
		s.writeError(c, &model.ValidationError{Field: "email", Message: "must be an email address"})
		return
	}
	if len(creds.Password) < minPasswordLen {
		s.writeError(c, &model.ValidationError{Field: "password", Message: "must be at least 8 characters"})
		return
	}

	hash, err := hashPassword(creds.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	user, err := s.store.CreateUser(c.Request.Context(), creds.Email, hash)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.issue(c, http.StatusCreated, user)
}

func (s *Server) handleLogin(c *gin.Context) {
	var creds model.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := s.store.GetUserByEmail(c.Request.Context(), creds.Email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.writeError(c, err)
		return
	}
	if user == nil || !checkPassword(user.PasswordHash, creds.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
		return
	}
	s.issue(c, http.StatusOK, user)
}

func (s *Server) issue(c *gin.Context, status int, user *User) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(status, model.AuthResponse{Token: token, Email: user.Email})
}

func (s *Server) handleLogout(c *gin.Context) {
	claims := claimsFrom(c)
	if err := s.denylist.Revoke(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleProfile(c *gin.Context) {
	user, err := s.store.GetUserByID(c.Request.Context(), userID(c))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Profile{Email: user.Email})
}
