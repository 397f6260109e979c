package config

import (
	"os"
	"strconv"
)

type Config struct {
	HTTPAddr string

	DBDriver string // "mysql" or "sqlite"
	DBDSN    string

	JWTSecret string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Gemini oracle
	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string

	// rabbitMQ audit event queue; empty RabbitURL wires the synchronous writer instead
	RabbitURL   string
	RabbitQueue string

	// workbook logs
	DataDir string

	SeedUsers bool
}

func Load() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "sqlite"
	}

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		switch driver {
		case "sqlite":
			dsn = "data/helpdesk.db"
		default:
			dsn = "app:apppass@tcp(127.0.0.1:3306)/helpdesk?charset=utf8mb4&parseTime=true&loc=Local"
		}
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	geminiBaseURL := os.Getenv("GEMINI_BASE_URL")
	if geminiBaseURL == "" {
		geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	geminiModel := os.Getenv("GEMINI_MODEL")
	if geminiModel == "" {
		geminiModel = "gemini-1.5-pro"
	}

	rabbitQueue := os.Getenv("RABBIT_QUEUE")
	if rabbitQueue == "" {
		rabbitQueue = "audit_events"
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	seed := false
	if v := os.Getenv("SEED_USERS"); v == "1" || v == "true" {
		seed = true
	}

	return Config{
		HTTPAddr: addr,

		DBDriver: driver,
		DBDSN:    dsn,

		JWTSecret: secret,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL: geminiBaseURL,
		GeminiModel:   geminiModel,

		RabbitURL:   os.Getenv("RABBIT_URL"),
		RabbitQueue: rabbitQueue,

		DataDir: dataDir,

		SeedUsers: seed,
	}
}
