package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/citypulse/errors"
	"github.com/techagentng/citypulse/server/response"
)

// Authorize lets a request through only when it carries a live session.
// Page requests without one are redirected to the login page, API requests
// get a 401. Roles are not checked here.
func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getAccessToken(c)
		session, err := s.AuthService.GetSession(c.Request.Context(), accessToken)
		if err != nil {
			if wantsHTML(c) {
				redirectToLogin(c, s.Config.LoginPath)
				return
			}
			status := errs.Status(err)
			if status == http.StatusInternalServerError {
				respondAndAbort(c, "", status, nil, errs.ErrInternalServerError)
				return
			}
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		c.Set(sessionContextKey, session)
		c.Set("access_token", accessToken)
		c.Next()
	}
}

// Locale resolves the display language once per request
func (s *Server) Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(langCookieName)
		lang := s.LocaleService.Resolve(c.Query("lang"), cookie, c.GetHeader("Accept-Language"))
		c.Set(langContextKey, lang)
		c.Next()
	}
}

func limitRate(store ratelimit.Store, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: errs.ErrorHandler,
		KeyFunc:      keyFunc,
	})
}

func newRateStore(rate time.Duration, limit uint) ratelimit.Store {
	return ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  rate,
		Limit: limit,
	})
}

func keyFuncClientIP(c *gin.Context) string {
	return c.ClientIP()
}

// keyFuncSession throttles per signed-in user; it must run after Authorize
func keyFuncSession(c *gin.Context) string {
	session, err := getSession(c)
	if err != nil {
		return c.ClientIP()
	}
	return session.UserID
}

// respondAndAbort calls response.JSON and aborts the Context
func respondAndAbort(c *gin.Context, message string, status int, data interface{}, e *errs.Error) {
	response.JSON(c, message, status, data, e)
	c.Abort()
}

func redirectToLogin(c *gin.Context, loginPath string) {
	target := loginPath
	if c.Request.Method == http.MethodGet {
		target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
	}
	c.Redirect(http.StatusFound, target)
	c.Abort()
}

// wantsHTML reports whether the request is for a page rather than the API
func wantsHTML(c *gin.Context) bool {
	path := c.Request.URL.Path
	if path == "/app" || strings.HasPrefix(path, "/app/") {
		return true
	}
	if c.GetHeader("Accept") == "" {
		return false
	}
	return c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML
}

// getAccessToken reads the bearer token, falling back to the session cookie
func getAccessToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie(tokenCookieName); err == nil {
		return cookie
	}
	return ""
}
