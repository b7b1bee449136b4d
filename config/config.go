// china-crm/config/config.go
package config

import (
	"os"
)

// JwtKey - ключ подписи токенов staff-сессий. Выдачей токенов занимается
// внешний админ-контур, здесь только проверка.
var JwtKey []byte

// App - конфигурация приложения из переменных окружения.
type App struct {
	ListenAddr    string
	DatabaseURL   string
	RedisAddr     string
	BotToken      string
	UploadDir     string
	UploadBaseURL string
}

// Load читает конфигурацию из окружения и инициализирует JwtKey.
func Load() App {
	JwtKey = []byte(getEnv("JWT_SECRET", "dev-secret-change-me"))

	return App{
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DB_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		BotToken:      os.Getenv("TELEGRAM_BOT_TOKEN"),
		UploadDir:     getEnv("UPLOAD_DIR", "./static/uploads/chat"),
		UploadBaseURL: getEnv("UPLOAD_BASE_URL", "/static/uploads/chat"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
