package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/citypulse/models"
	"github.com/techagentng/citypulse/server/response"
)

func (s *Server) handleAssistantGreeting() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.JSON(c, "assistant ready", http.StatusOK, models.AssistantReply{Reply: s.AssistantService.Greeting()}, nil)
	}
}

func (s *Server) handleAssistantMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		var assistantRequest models.AssistantRequest
		if err := decode(c, &assistantRequest); err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "assistant replied", http.StatusOK, s.AssistantService.Reply(assistantRequest.Message), nil)
	}
}
