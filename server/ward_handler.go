package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/citypulse/errors"
	"github.com/techagentng/citypulse/models"
	"github.com/techagentng/citypulse/server/response"
)

// requireWardHead answers 403 and returns false for any other role
func requireWardHead(c *gin.Context) bool {
	session, err := getSession(c)
	if err != nil {
		response.HandleErrors(c, err)
		return false
	}
	if session.Role != models.RoleWardHead {
		response.JSON(c, "ward dashboard is restricted to ward heads", http.StatusForbidden, nil, errs.ErrForbidden)
		return false
	}
	return true
}

func (s *Server) handleWardDashboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireWardHead(c) {
			return
		}
		dashboard, err := s.WardService.Dashboard(c.Request.Context(), getLang(c))
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "retrieved ward dashboard", http.StatusOK, dashboard, nil)
	}
}

func (s *Server) handleUpdateReportStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireWardHead(c) {
			return
		}
		var statusRequest models.StatusUpdateRequest
		if err := decode(c, &statusRequest); err != nil {
			response.HandleErrors(c, err)
			return
		}
		report, err := s.WardService.UpdateStatus(c.Request.Context(), c.Param("reportID"), statusRequest.Status)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "report status updated", http.StatusOK, report, nil)
	}
}
