// china-crm/internal/handlers/student_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/marselmagmaboy-lgtm/china-crm/config"
	"github.com/marselmagmaboy-lgtm/china-crm/models"
)

// StudentInput - входящие данные для создания и редактирования студента.
// Баланс и статус через этот эндпоинт не правятся: ими управляют отметки
// посещаемости и платежи.
type StudentInput struct {
	LeadID   *uint  `json:"leadId"`
	FullName string `json:"fullName" binding:"required"`
	Phone    string `json:"phone"`
	GroupID  *uint  `json:"groupId"`
}

// ListStudentsHandler возвращает студентов с поиском и фильтрами по группе и статусу.
func ListStudentsHandler(c *gin.Context) {
	var students []models.Student
	var totalRows int64

	query := config.DB.Model(&models.Student{}).Preload("Group")

	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR phone LIKE ?", pattern, pattern)
	}
	if groupID := c.Query("group_id"); groupID != "" {
		query = query.Where("group_id = ?", groupID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("student_status = ?", status)
	}

	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось посчитать студентов"})
		return
	}
	if err := query.Scopes(Paginate(c)).Order("full_name").Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список студентов"})
		return
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, students, totalRows))
}

// GetStudentHandler возвращает студента с группой и историей оплат.
func GetStudentHandler(c *gin.Context) {
	var student models.Student
	err := config.DB.Preload("Group").Preload("Payments", func(db *gorm.DB) *gorm.DB {
		return db.Order("date DESC")
	}).First(&student, c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Студент не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске студента"})
		return
	}
	c.JSON(http.StatusOK, student)
}

// CreateStudentHandler заводит студента, опционально привязывая его к лиду.
// Лид при этом помечается как "won".
func CreateStudentHandler(c *gin.Context) {
	var input StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	student := models.Student{
		LeadID:   input.LeadID,
		FullName: input.FullName,
		Phone:    input.Phone,
		GroupID:  input.GroupID,
		Status:   models.StudentStatusActive,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&student).Error; err != nil {
			return err
		}
		if input.LeadID != nil {
			if err := tx.Model(&models.Lead{}).Where("id = ?", *input.LeadID).
				Update("status", models.LeadStatusWon).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать студента"})
		return
	}
	c.JSON(http.StatusCreated, student)
}

// UpdateStudentHandler редактирует имя, телефон и группу студента.
func UpdateStudentHandler(c *gin.Context) {
	var student models.Student
	if err := config.DB.First(&student, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Студент не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске студента"})
		return
	}

	var input StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	student.FullName = input.FullName
	student.Phone = input.Phone
	student.GroupID = input.GroupID

	if err := config.DB.Save(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить студента"})
		return
	}
	c.JSON(http.StatusOK, student)
}

// DeleteStudentHandler удаляет студента вместе с историей оплат.
func DeleteStudentHandler(c *gin.Context) {
	if err := config.DB.Delete(&models.Student{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить студента"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Студент удален"})
}
