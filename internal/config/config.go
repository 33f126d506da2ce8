package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ServerPort string

	JWTSecret   string
	TokenMaxAge int

	TMDBBaseURL string
	TMDBAPIKey  string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string

	DefaultAvatar string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	tokenMaxAge, err := strconv.Atoi(os.Getenv("TOKEN_MAX_AGE"))
	if err != nil || tokenMaxAge <= 0 {
		tokenMaxAge = 864000 // 10 days
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	defaultAvatar := os.Getenv("DEFAULT_AVATAR")
	if defaultAvatar == "" {
		defaultAvatar = "boy1.png"
	}

	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		ServerPort: serverPort,

		JWTSecret:   os.Getenv("JWT_SECRET"),
		TokenMaxAge: tokenMaxAge,

		TMDBBaseURL: os.Getenv("TMDB_BASE_URL"),
		TMDBAPIKey:  os.Getenv("TMDB_API_KEY"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicURL:       os.Getenv("R2_PUBLIC_URL"),

		DefaultAvatar: defaultAvatar,
	}, nil
}
