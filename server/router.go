package server

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFiles embed.FS

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()

	// LoggerWithFormatter middleware will write the logs to gin.DefaultWriter
	// By default gin.DefaultWriter = os.Stdout
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Accept-Language"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if s.Config.AccessControlAllowOrigin != "" {
		corsConfig.AllowOrigins = []string{s.Config.AccessControlAllowOrigin}
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	r.Use(cors.New(corsConfig))
	r.MaxMultipartMemory = 32 << 20
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(template.Must(template.New("").Funcs(template.FuncMap{
		"t": s.LocaleService.Translate,
	}).ParseFS(templateFiles, "templates/*.html")))
	router.Use(s.Locale())

	authLimit := limitRate(newRateStore(time.Minute, 10), keyFuncClientIP)
	reportLimit := limitRate(newRateStore(time.Minute, 5), keyFuncSession)
	assistantLimit := limitRate(newRateStore(time.Minute, 30), keyFuncClientIP)

	router.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/app/report-issues") })
	router.GET(s.Config.LoginPath, s.handleLoginPage())
	router.POST(s.Config.LoginPath, authLimit, s.handleLoginForm())

	pages := router.Group("/app")
	pages.Use(s.Authorize())
	pages.GET("/:view", s.handleAppPage())

	apirouter := router.Group("/api/v1")
	apirouter.POST("/auth/signup", authLimit, s.handleSignup())
	apirouter.POST("/auth/login", authLimit, s.handleLogin())
	apirouter.GET("/locale", s.handleGetLocale())
	apirouter.PUT("/locale", s.handleSetLocale())
	apirouter.GET("/city/transport", s.handleGetTransport())
	apirouter.GET("/city/bills", s.handleGetBills())
	apirouter.GET("/geo/format", s.handleFormatLocation())
	apirouter.GET("/assistant", s.handleAssistantGreeting())
	apirouter.POST("/assistant", assistantLimit, s.handleAssistantMessage())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.POST("/auth/logout", s.handleLogout())
	authorized.GET("/me", s.handleGetSession())
	authorized.GET("/profile", s.handleShowProfile())
	authorized.POST("/reports", reportLimit, s.handleSubmitReport())
	authorized.GET("/reports", s.handleListReports())
	authorized.GET("/rewards", s.handleGetRewardSummary())
	authorized.GET("/rewards/leaderboard", s.handleGetLeaderboard())
	authorized.GET("/analytics", s.handleGetAnalytics())
	authorized.GET("/ward/dashboard", s.handleWardDashboard())
	authorized.PUT("/ward/reports/:reportID/status", s.handleUpdateReportStatus())
}
