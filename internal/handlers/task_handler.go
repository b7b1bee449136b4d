// china-crm/internal/handlers/task_handler.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/marselmagmaboy-lgtm/china-crm/config"
	"github.com/marselmagmaboy-lgtm/china-crm/models"
)

type TaskInput struct {
	AssignedTo  string              `json:"assignedTo" binding:"required"`
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	Deadline    string              `json:"deadline"` // YYYY-MM-DD
	Priority    models.TaskPriority `json:"priority"`
	Status      models.TaskStatus   `json:"status"`
}

// ListTasksHandler возвращает задачи с фильтрами по исполнителю, статусу и
// приоритету. Срочные и ближние по дедлайну сверху.
func ListTasksHandler(c *gin.Context) {
	var tasks []models.Task
	var totalRows int64

	query := config.DB.Model(&models.Task{})
	if assignee := c.Query("assigned_to"); assignee != "" {
		query = query.Where("assigned_to = ?", assignee)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if priority := c.Query("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}

	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось посчитать задачи"})
		return
	}
	err := query.Scopes(Paginate(c)).
		Order("CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END").
		Order("deadline ASC NULLS LAST").
		Find(&tasks).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список задач"})
		return
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, tasks, totalRows))
}

func CreateTaskHandler(c *gin.Context) {
	var input TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	task := models.Task{
		AssignedTo:  input.AssignedTo,
		Title:       input.Title,
		Description: input.Description,
		Priority:    models.TaskPriorityMedium,
		Status:      models.TaskStatusNew,
	}
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	if input.Status != "" {
		task.Status = input.Status
	}
	if input.Deadline != "" {
		deadline, err := time.Parse("2006-01-02", input.Deadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты. Используйте YYYY-MM-DD."})
			return
		}
		task.Deadline = &deadline
	}

	if err := config.DB.Create(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать задачу"})
		return
	}
	c.JSON(http.StatusCreated, task)
}

func UpdateTaskHandler(c *gin.Context) {
	var task models.Task
	if err := config.DB.First(&task, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Задача не найдена"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске задачи"})
		return
	}

	var input TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	task.AssignedTo = input.AssignedTo
	task.Title = input.Title
	task.Description = input.Description
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	if input.Status != "" {
		task.Status = input.Status
	}
	if input.Deadline != "" {
		deadline, err := time.Parse("2006-01-02", input.Deadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты. Используйте YYYY-MM-DD."})
			return
		}
		task.Deadline = &deadline
	}

	if err := config.DB.Save(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить задачу"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func DeleteTaskHandler(c *gin.Context) {
	if err := config.DB.Delete(&models.Task{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить задачу"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Задача удалена"})
}
