// china-crm/internal/handlers/teacher_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/marselmagmaboy-lgtm/china-crm/config"
	"github.com/marselmagmaboy-lgtm/china-crm/models"
)

type TeacherInput struct {
	FullName string `json:"fullName" binding:"required"`
	Phone    string `json:"phone"`
	IsActive *bool  `json:"isActive"`
}

func ListTeachersHandler(c *gin.Context) {
	var teachers []models.Teacher
	query := config.DB.Order("full_name")
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&teachers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список преподавателей"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": teachers})
}

func CreateTeacherHandler(c *gin.Context) {
	var input TeacherInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	teacher := models.Teacher{FullName: input.FullName, Phone: input.Phone, IsActive: true}
	if input.IsActive != nil {
		teacher.IsActive = *input.IsActive
	}
	if err := config.DB.Create(&teacher).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать преподавателя"})
		return
	}
	c.JSON(http.StatusCreated, teacher)
}

func UpdateTeacherHandler(c *gin.Context) {
	var teacher models.Teacher
	if err := config.DB.First(&teacher, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Преподаватель не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске преподавателя"})
		return
	}

	var input TeacherInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	teacher.FullName = input.FullName
	teacher.Phone = input.Phone
	if input.IsActive != nil {
		teacher.IsActive = *input.IsActive
	}
	if err := config.DB.Save(&teacher).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить преподавателя"})
		return
	}
	c.JSON(http.StatusOK, teacher)
}

func DeleteTeacherHandler(c *gin.Context) {
	if err := config.DB.Delete(&models.Teacher{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить преподавателя"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Преподаватель удален"})
}
