package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/citypulse/errors"
	"github.com/techagentng/citypulse/models"
	"github.com/techagentng/citypulse/server/response"
)

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var signupRequest models.SignupRequest
		if err := decode(c, &signupRequest); err != nil {
			response.HandleErrors(c, err)
			return
		}
		profile, err := s.AuthService.Signup(c.Request.Context(), &signupRequest)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "signup successful", http.StatusCreated, profile, nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest models.LoginRequest
		if err := decode(c, &loginRequest); err != nil {
			response.JSON(c, "", errs.ErrBadRequest.Status, nil, err)
			return
		}
		loginResponse, err := s.AuthService.Login(c.Request.Context(), &loginRequest)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		s.setTokenCookie(c, loginResponse.AccessToken)
		response.JSON(c, "login successful", http.StatusOK, loginResponse, nil)
	}
}

func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetString("access_token")
		if err := s.AuthService.Logout(c.Request.Context(), token); err != nil {
			response.HandleErrors(c, err)
			return
		}
		c.SetCookie(tokenCookieName, "", -1, "/", "", s.secureCookies(), true)
		response.JSON(c, "logout successful", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleGetSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := getSession(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "retrieved session", http.StatusOK, session, nil)
	}
}

func (s *Server) handleShowProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := getSession(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		profile, err := s.ReportService.GetProfile(c.Request.Context(), session, getLang(c))
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "retrieved profile", http.StatusOK, profile, nil)
	}
}

func (s *Server) setTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookieName, token, int(s.Config.TokenTTL.Seconds()), "/", "", s.secureCookies(), true)
}

func (s *Server) secureCookies() bool {
	return s.Config.Env == "prod"
}

// safeNext keeps post-login redirects on this site. Browsers read "/\" as
// "//", so backslashes are refused outright.
func safeNext(next string) string {
	const fallback = "/app/report-issues"
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}
