// china-crm/internal/middleware/auth_middleware.go
package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/marselmagmaboy-lgtm/china-crm/config"
)

// CachedSession - данные staff-сессии в кэше.
type CachedSession struct {
	Login string `json:"login"`
}

// AuthMiddleware проверяет staff-токен из cookie или заголовка Authorization.
// Выдачей токенов занимается внешний админ-контур; здесь только проверка
// подписи и извлечение логина.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie("auth_token")
		if err != nil || tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				handleAuthError(c, "Authorization token not provided")
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				handleAuthError(c, "Invalid Authorization header format")
				return
			}
			tokenStr = parts[1]
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return config.JwtKey, nil
		})
		if err != nil || !token.Valid {
			handleAuthError(c, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			handleAuthError(c, "Invalid token claims")
			return
		}
		login, _ := claims["login"].(string)
		if login == "" {
			handleAuthError(c, "Invalid token claims")
			return
		}

		// Кэшируем сессию, чтобы не парсить токен на каждый опрос инбокса
		if config.RDB != nil {
			session := CachedSession{Login: login}
			if data, err := json.Marshal(session); err == nil {
				config.RDB.Set(c.Request.Context(), "session:"+login, data, 15*time.Minute)
			}
		}

		c.Set("login", login)
		c.Next()
	}
}

func handleAuthError(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}
