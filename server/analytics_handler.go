package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/citypulse/server/response"
)

// handleGetAnalytics is open to any signed-in role
func (s *Server) handleGetAnalytics() gin.HandlerFunc {
	return func(c *gin.Context) {
		analytics, err := s.WardService.Analytics(c.Request.Context())
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "retrieved analytics", http.StatusOK, analytics, nil)
	}
}
