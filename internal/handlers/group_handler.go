// china-crm/internal/handlers/group_handler.go
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

// GroupInput - входящие данные для создания и редактирования группы.
type GroupInput struct {
	Name            string          `json:"name" binding:"required"`
	Level           models.HSKLevel `json:"level"`
	TeacherID       *uint           `json:"teacherId"`
	DaysDescription string          `json:"daysDescription"`
	StartDate       string          `json:"startDate"` // YYYY-MM-DD
	IsActive        *bool           `json:"isActive"`
}

// GroupListItem - группа со счетчиком учеников для списка.
type GroupListItem struct {
	models.Group
	StudentsCount int64 `json:"studentsCount"`
}

// ListGroupsHandler возвращает группы со счетчиком учеников.
func ListGroupsHandler(c *gin.Context) {
	var groups []models.Group
	query := config.DB.Preload("Teacher").Order("name")
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&groups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список групп"})
		return
	}

	items := make([]GroupListItem, 0, len(groups))
	for _, g := range groups {
		var count int64
		config.DB.Model(&models.Student{}).Where("group_id = ?", g.ID).Count(&count)
		items = append(items, GroupListItem{Group: g, StudentsCount: count})
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

// GetGroupHandler возвращает группу с преподавателем и составом.
func GetGroupHandler(c *gin.Context) {
	var group models.Group
	err := config.DB.Preload("Teacher").Preload("Students").First(&group, c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Группа не найдена"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске группы"})
		return
	}
	c.JSON(http.StatusOK, group)
}

// CreateGroupHandler создает учебную группу.
func CreateGroupHandler(c *gin.Context) {
	var input GroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	group := models.Group{
		Name:            input.Name,
		Level:           input.Level,
		TeacherID:       input.TeacherID,
		DaysDescription: input.DaysDescription,
		StartDate:       time.Now(),
		IsActive:        true,
	}
	if input.StartDate != "" {
		startDate, err := time.Parse("2006-01-02", input.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты. Используйте YYYY-MM-DD."})
			return
		}
		group.StartDate = startDate
	}
	if input.IsActive != nil {
		group.IsActive = *input.IsActive
	}

	if err := config.DB.Create(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать группу"})
		return
	}
	c.JSON(http.StatusCreated, group)
}

// UpdateGroupHandler редактирует группу.
func UpdateGroupHandler(c *gin.Context) {
	var group models.Group
	if err := config.DB.First(&group, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Группа не найдена"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске группы"})
		return
	}

	var input GroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	group.Name = input.Name
	group.Level = input.Level
	group.TeacherID = input.TeacherID
	group.DaysDescription = input.DaysDescription
	if input.StartDate != "" {
		startDate, err := time.Parse("2006-01-02", input.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты. Используйте YYYY-MM-DD."})
			return
		}
		group.StartDate = startDate
	}
	if input.IsActive != nil {
		group.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить группу"})
		return
	}
	c.JSON(http.StatusOK, group)
}

// DeleteGroupHandler удаляет группу; студенты остаются без группы.
func DeleteGroupHandler(c *gin.Context) {
	if err := config.DB.Delete(&models.Group{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить группу"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Группа удалена"})
}
