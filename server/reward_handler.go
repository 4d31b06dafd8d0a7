package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/citypulse/server/response"
)

func (s *Server) handleGetRewardSummary() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := getSession(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		summary, err := s.RewardService.Summary(c.Request.Context(), session.UserID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "retrieved rewards", http.StatusOK, summary, nil)
	}
}

func (s *Server) handleGetLeaderboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		if limit > 50 {
			limit = 50
		}
		board, err := s.RewardService.Leaderboard(c.Request.Context(), limit)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "retrieved leaderboard", http.StatusOK, board, nil)
	}
}
