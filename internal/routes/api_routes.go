// china-crm/internal/routes/api_routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/marselmagmaboy-lgtm/china-crm/internal/handlers"
)

// RegisterAPIRoutes регистрирует все маршруты API, требующие аутентификации.
func RegisterAPIRoutes(api *gin.RouterGroup, deps Deps) {
	apiGroup := api.Group("/api")
	{
		// --- ИНБОКС ---
		inbox := apiGroup.Group("/inbox")
		{
			inbox.GET("", deps.Inbox.GetInboxHandler)
			inbox.GET("/unread", deps.Inbox.GetUnreadHandler) // Опрос фронтендом раз в несколько секунд
		}

		// --- ЛИДЫ ---
		leads := apiGroup.Group("/leads")
		{
			leads.GET("", handlers.ListLeadsHandler)
			leads.POST("", handlers.CreateLeadHandler)
			leads.GET("/:id", handlers.GetLeadHandler)
			leads.PUT("/:id", handlers.UpdateLeadHandler)
			leads.DELETE("/:id", handlers.DeleteLeadHandler)
			leads.GET("/:id/messages", deps.Inbox.GetTimelineHandler)
			leads.POST("/:id/open", deps.Inbox.OpenLeadHandler)
			leads.POST("/:id/reply", deps.Inbox.ReplyHandler)
		}

		// --- СТУДЕНТЫ ---
		students := apiGroup.Group("/students")
		{
			students.GET("", handlers.ListStudentsHandler)
			students.POST("", handlers.CreateStudentHandler)
			students.GET("/:id", handlers.GetStudentHandler)
			students.PUT("/:id", handlers.UpdateStudentHandler)
			students.DELETE("/:id", handlers.DeleteStudentHandler)
			students.GET("/:id/payments", deps.Payments.ListStudentPaymentsHandler)
			students.POST("/:id/payments", deps.Payments.CreatePaymentHandler)
		}

		// --- ПРЕПОДАВАТЕЛИ И ГРУППЫ ---
		teachers := apiGroup.Group("/teachers")
		{
			teachers.GET("", handlers.ListTeachersHandler)
			teachers.POST("", handlers.CreateTeacherHandler)
			teachers.PUT("/:id", handlers.UpdateTeacherHandler)
			teachers.DELETE("/:id", handlers.DeleteTeacherHandler)
		}
		groups := apiGroup.Group("/groups")
		{
			groups.GET("", handlers.ListGroupsHandler)
			groups.POST("", handlers.CreateGroupHandler)
			groups.GET("/:id", handlers.GetGroupHandler)
			groups.PUT("/:id", handlers.UpdateGroupHandler)
			groups.DELETE("/:id", handlers.DeleteGroupHandler)
		}

		// --- ЖУРНАЛ УРОКОВ ---
		lessons := apiGroup.Group("/lessons")
		{
			lessons.GET("", deps.Lessons.ListLessonsHandler)
			lessons.POST("", deps.Lessons.CreateLessonHandler)
			lessons.GET("/:id", deps.Lessons.GetLessonHandler)
			lessons.DELETE("/:id", deps.Lessons.DeleteLessonHandler)
			lessons.POST("/:id/attendance", deps.Lessons.MarkAttendanceHandler)
			lessons.PUT("/:id/attendance/:attendanceId", deps.Lessons.UpdateAttendanceHandler)
		}

		// --- ФИНАНСЫ ---
		tariffs := apiGroup.Group("/tariffs")
		{
			tariffs.GET("", handlers.ListTariffsHandler)
			tariffs.POST("", handlers.CreateTariffHandler)
			tariffs.PUT("/:id", handlers.UpdateTariffHandler)
			tariffs.DELETE("/:id", handlers.DeleteTariffHandler)
		}
		payments := apiGroup.Group("/payments")
		{
			payments.GET("/export", deps.Payments.ExportPaymentsHandler)
			payments.GET("/:id/receipt", deps.Payments.GetReceiptHandler)
			payments.PUT("/:id", deps.Payments.UpdatePaymentHandler)
		}

		// --- ЗАДАЧИ ---
		tasks := apiGroup.Group("/tasks")
		{
			tasks.GET("", handlers.ListTasksHandler)
			tasks.POST("", handlers.CreateTaskHandler)
			tasks.PUT("/:id", handlers.UpdateTaskHandler)
			tasks.DELETE("/:id", handlers.DeleteTaskHandler)
		}

		// --- ФАЙЛЫ ---
		apiGroup.POST("/uploads", deps.Uploads.UploadFileHandler)
	}
}
