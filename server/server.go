package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/citypulse/config"
	errs "github.com/techagentng/citypulse/errors"
	"github.com/techagentng/citypulse/models"
	"github.com/techagentng/citypulse/services"
)

const (
	sessionContextKey = "session"
	langContextKey    = "lang"

	tokenCookieName = "citypulse_token"
	langCookieName  = "citypulse_lang"
)

// Server holds the http dependencies
type Server struct {
	Config        *config.Config
	AuthService   services.AuthService
	ReportService services.ReportService
	RewardService services.RewardService
	WardService   services.WardService
	LocaleService services.LocaleService
	CityService   services.CityService

	AssistantService services.AssistantService
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests
func (s *Server) Start() {
	r := s.setupRouter()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.Config.Port),
		Handler: r,
	}
	go func() {
		log.Printf("Server started on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	log.Println("server exiting")
}

// decode binds the request body by content type and validates it
func decode(c *gin.Context, v interface{}) error {
	if err := c.ShouldBind(v); err != nil {
		return errs.Wrap(errs.ErrBadRequest, err)
	}
	return models.ValidateStruct(v)
}

// getSession returns the session placed in the context by Authorize
func getSession(c *gin.Context) (*models.Session, error) {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil, errs.ErrUnauthorized
	}
	session, ok := v.(*models.Session)
	if !ok {
		return nil, errs.ErrUnauthorized
	}
	return session, nil
}

func getLang(c *gin.Context) string {
	if lang := c.GetString(langContextKey); lang != "" {
		return lang
	}
	return services.LangEnglish
}
