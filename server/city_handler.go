package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/citypulse/server/response"
	"github.com/techagentng/citypulse/services"
)

func (s *Server) handleGetTransport() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.JSON(c, "retrieved transport directory", http.StatusOK, s.CityService.Transport(), nil)
	}
}

func (s *Server) handleGetBills() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.JSON(c, "retrieved bills", http.StatusOK, s.CityService.Bills(), nil)
	}
}

// handleFormatLocation turns device coordinates into the location text used
// on the report form.
func (s *Server) handleFormatLocation() gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, lon, err := services.ParseCoordinates(c.Query("lat"), c.Query("lon"))
		if err != nil {
			response.JSON(c, s.LocaleService.Translate(getLang(c), "reportIssues.locationManual"), http.StatusBadRequest, nil, err)
			return
		}
		response.JSON(c, "formatted location", http.StatusOK, gin.H{
			"location": services.FormatCoordinates(lat, lon),
		}, nil)
	}
}
