package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug                    bool          `envconfig:"debug"`
	Port                     int           `envconfig:"port" default:"8080"`
	Env                      string        `envconfig:"env" default:"dev"`
	PostgresHost             string        `envconfig:"postgres_host"`
	PostgresUser             string        `envconfig:"postgres_user"`
	PostgresDB               string        `envconfig:"postgres_db"`
	PostgresPort             int           `envconfig:"postgres_port" default:"5432"`
	PostgresPassword         string        `envconfig:"postgres_password"`
	PostgresTimeZone         string        `envconfig:"postgres_timezone" default:"Asia/Kolkata"`
	RedisURL                 string        `envconfig:"redis_url" default:"localhost:6379"`
	JWTSecret                string        `envconfig:"jwt_secret"`
	TokenTTL                 time.Duration `envconfig:"token_ttl" default:"24h"`
	AWSRegion                string        `envconfig:"aws_region"`
	AWSBucket                string        `envconfig:"aws_bucket" default:"reports"`
	AWSAccessKeyID           string        `envconfig:"aws_access_key_id"`
	AWSSecretAccessKey       string        `envconfig:"aws_secret_access_key"`
	AWSEndpoint              string        `envconfig:"aws_endpoint"`
	PublicBaseURL            string        `envconfig:"public_base_url"`
	MaxImageBytes            int64         `envconfig:"max_image_bytes" default:"5242880"`
	MaxImageEdge             int           `envconfig:"max_image_edge" default:"2048"`
	MaxImagePixels           int           `envconfig:"max_image_pixels" default:"40000000"`
	RewardFallback           bool          `envconfig:"reward_fallback" default:"true"`
	WardHeadInviteCode       string        `envconfig:"ward_head_invite_code"`
	LoginPath                string        `envconfig:"login_path" default:"/login"`
	DefaultLanguage          string        `envconfig:"default_language" default:"en"`
	LeaderboardSize          int           `envconfig:"leaderboard_size" default:"5"`
	AccessControlAllowOrigin string        `envconfig:"access_control_allow_origin"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("citypulse", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
