package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nhle/study-dashboard/internal/api"
)

var authSuffix = regexp.MustCompile(`^[a-z0-9-]+$`)

// sessionMaxAge matches the backend's default token lifetime.
const sessionMaxAge = 7 * 24 * 60 * 60

// handleAuthProxy relays POST /api/auth/:suffix to the backend's
// /auth/:suffix. Status and body come back untouched; only the session
// cookie is maintained on the way through.
func (s *Server) handleAuthProxy(c *gin.Context) {
	suffix := c.Param("suffix")
	if !authSuffix.MatchString(suffix) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid auth route"})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable request body"})
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost,
		s.backendURL+"/auth/"+suffix, bytes.NewReader(body))
	if err != nil {
		s.log.Errorw("building auth proxy request", "suffix", suffix, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable"})
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if authz := c.GetHeader("Authorization"); authz != "" {
		req.Header.Set("Authorization", authz)
	} else if token, _ := c.Cookie(s.cfg.CookieName); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if suffix == "logout" {
		s.clearSessionCookie(c)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Warnw("auth proxy upstream failed", "suffix", suffix, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable"})
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		s.log.Warnw("reading auth proxy response", "suffix", suffix, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable"})
		return
	}

	if (suffix == "login" || suffix == "register") && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var issued struct {
			Token string `json:"token"`
		}
		if json.Unmarshal(respBody, &issued) == nil && strings.TrimSpace(issued.Token) != "" {
			s.setSessionCookie(c, issued.Token)
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.StatusCode, contentType, respBody)
}

// handleProfile looks up the signed-in user's profile with the session
// cookie as the bearer token.
func (s *Server) handleProfile(c *gin.Context) {
	token, _ := c.Cookie(s.cfg.CookieName)
	if strings.TrimSpace(token) == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	client := api.New(s.backendURL, api.StaticToken(token), api.WithHTTPClient(s.httpClient))
	profile, err := client.Profile(c.Request.Context())
	if err != nil {
		if apiErr := api.AsAPIError(err); apiErr != nil {
			c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Message})
			return
		}
		s.log.Warnw("profile lookup failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cfg.CookieName, token, sessionMaxAge, "/", "", s.secureCookies(), true)
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cfg.CookieName, "", -1, "/", "", s.secureCookies(), true)
}

func (s *Server) secureCookies() bool {
	return s.cfg.Environment == "production"
}
