package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/citypulse/errors"
	"github.com/techagentng/citypulse/server/response"
)

type setLocaleRequest struct {
	Lang string `json:"lang" form:"lang" conform:"trim,lower" validate:"required"`
}

const langCookieMaxAge = 365 * 24 * 60 * 60

func (s *Server) handleGetLocale() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := getLang(c)
		response.JSON(c, "retrieved strings", http.StatusOK, gin.H{
			"lang":      lang,
			"languages": s.LocaleService.Languages(),
			"strings":   s.LocaleService.Table(lang),
		}, nil)
	}
}

func (s *Server) handleSetLocale() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setLocaleRequest
		if err := decode(c, &req); err != nil {
			response.HandleErrors(c, err)
			return
		}
		if !s.LocaleService.Supported(req.Lang) {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("unsupported language", http.StatusBadRequest))
			return
		}
		c.SetCookie(langCookieName, req.Lang, langCookieMaxAge, "/", "", s.secureCookies(), false)
		response.JSON(c, "language updated", http.StatusOK, gin.H{"lang": req.Lang}, nil)
	}
}
