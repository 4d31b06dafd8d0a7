package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/citypulse/models"
)

var pageTitles = map[string]string{
	"report-issues":  "reportIssues.title",
	"ward-dashboard": "ward.title",
	"rewards":        "rewards.title",
	"profile":        "profile.personalInfo",
	"city-info":      "cityInfo.title",
	"bill-payments":  "billPayments.title",
	"analytics":      "nav.analytics",
}

func (s *Server) handleLoginPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "login.html", gin.H{
			"Lang":   getLang(c),
			"Action": s.Config.LoginPath,
			"Next":   safeNext(c.Query("next")),
		})
	}
}

// handleLoginForm signs in from the HTML form and redirects to the page the
// user originally asked for.
func (s *Server) handleLoginForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		next := safeNext(c.PostForm("next"))
		var loginRequest models.LoginRequest
		err := decode(c, &loginRequest)
		if err == nil {
			var loginResponse *models.LoginResponse
			loginResponse, err = s.AuthService.Login(c.Request.Context(), &loginRequest)
			if err == nil {
				s.setTokenCookie(c, loginResponse.AccessToken)
				c.Redirect(http.StatusSeeOther, next)
				return
			}
		}
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Lang":   getLang(c),
			"Action": s.Config.LoginPath,
			"Next":   next,
			"Email":  loginRequest.Email,
			"Error":  err.Error(),
		})
	}
}

func (s *Server) handleAppPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		view := c.Param("view")
		title, ok := pageTitles[view]
		if !ok {
			c.Redirect(http.StatusFound, "/app/report-issues")
			return
		}
		session, err := getSession(c)
		if err != nil {
			redirectToLogin(c, s.Config.LoginPath)
			return
		}
		c.HTML(http.StatusOK, "app.html", gin.H{
			"Lang":     getLang(c),
			"View":     view,
			"Title":    title,
			"Session":  session,
			"WardHead": session.Role == models.RoleWardHead,
		})
	}
}
