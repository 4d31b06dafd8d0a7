package main

import (
	"context"
	"log"
	"time"

	"github.com/techagentng/citypulse/config"
	"github.com/techagentng/citypulse/db"
	"github.com/techagentng/citypulse/server"
	"github.com/techagentng/citypulse/services"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	gormDB := db.GetDB(conf)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	redisClient, err := db.ConnectRedis(ctx, conf.RedisURL)
	cancel()
	if err != nil {
		log.Fatalf("unable to connect to redis: %v", err)
	}
	defer redisClient.Close()

	mediaRepo, err := db.NewMediaRepo(conf)
	if err != nil {
		log.Fatalf("unable to create object storage client: %v", err)
	}
	authRepo := db.NewAuthRepo(gormDB)
	reportRepo := db.NewReportRepo(gormDB)
	rewardRepo := db.NewRewardRepo(gormDB)
	sessionRepo := db.NewSessionRepo(redisClient)

	localeService, err := services.NewLocaleService(conf.DefaultLanguage)
	if err != nil {
		log.Fatal(err)
	}
	cityService, err := services.NewCityService()
	if err != nil {
		log.Fatal(err)
	}
	assistantService, err := services.NewAssistantService()
	if err != nil {
		log.Fatal(err)
	}
	authService := services.NewAuthService(authRepo, sessionRepo, conf)
	mediaService := services.NewMediaService(mediaRepo, conf)
	rewardService := services.NewRewardService(rewardRepo, reportRepo, conf)
	reportService := services.NewReportService(reportRepo, authRepo, mediaService, rewardService, authService, localeService, conf)
	wardService := services.NewWardService(reportRepo, localeService)

	s := &server.Server{
		Config:        conf,
		AuthService:   authService,
		ReportService: reportService,
		RewardService: rewardService,
		WardService:   wardService,
		LocaleService: localeService,
		CityService:   cityService,

		AssistantService: assistantService,
	}
	s.Start()
}
