package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Coach    CoachConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	SessionEventsTopic string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	GeminiAPIKey   string
	GeminiModel    string
	RequestTimeout int // seconds, bound on a single generation call
}

type CoachConfig struct {
	DeepInterviewQuestions int // question ceiling for deep interviews
	MockInterviewQuestions int // default totalItems for mock interviews
	SimulationMaxTurns     int // default user-turn ceiling for job simulations
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			SessionEventsTopic: getEnv("SESSION_EVENTS_TOPIC", "session.completed"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			GeminiAPIKey:   getEnv("GOOGLE_GEMINI_API_KEY", ""),
			GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			RequestTimeout: getEnvAsInt("AI_REQUEST_TIMEOUT_SEC", 20),
		},
		Coach: CoachConfig{
			DeepInterviewQuestions: getEnvAsInt("DEEP_INTERVIEW_QUESTIONS", 6),
			MockInterviewQuestions: getEnvAsInt("MOCK_INTERVIEW_QUESTIONS", 8),
			SimulationMaxTurns:     getEnvAsInt("SIMULATION_MAX_TURNS", 10),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
