// china-crm/internal/routes/router.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marselmagmaboy-lgtm/china-crm/internal/handlers"
	"github.com/marselmagmaboy-lgtm/china-crm/internal/middleware"
)

// Deps - обработчики с зависимостями, собранные в main.
type Deps struct {
	Lessons  *handlers.LessonHandler
	Payments *handlers.PaymentHandler
	Inbox    *handlers.InboxHandler
	Uploads  *handlers.UploadHandler
}

// SetupRoutes инициализирует все маршруты приложения.
func SetupRoutes(r *gin.Engine, deps Deps) {
	// --- Публичные маршруты ---
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.Static("/static", "./static")

	// --- Защищенная группа маршрутов ---
	// Все API-маршруты требуют валидный staff-токен.
	authRequired := r.Group("/")
	authRequired.Use(middleware.AuthMiddleware())
	{
		RegisterAPIRoutes(authRequired, deps)
	}
}
