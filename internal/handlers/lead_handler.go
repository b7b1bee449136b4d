// china-crm/internal/handlers/lead_handler.go
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

// LeadInput - входящие данные для создания и редактирования лида.
type LeadInput struct {
	FirstName      string            `json:"firstName" binding:"required"`
	LastName       string            `json:"lastName"`
	Phone          string            `json:"phone"`
	Status         models.LeadStatus `json:"status"`
	Source         string            `json:"source"`
	ManagerComment string            `json:"managerComment"`
}

// ListLeadsHandler возвращает лидов с поиском по имени/телефону и фильтром по статусу.
func ListLeadsHandler(c *gin.Context) {
	var leads []models.Lead
	var totalRows int64

	query := config.DB.Model(&models.Lead{})

	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR phone LIKE ?",
			pattern, pattern, pattern)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось посчитать лидов"})
		return
	}
	if err := query.Scopes(Paginate(c)).Order("created_at DESC").Find(&leads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список лидов"})
		return
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, leads, totalRows))
}

// GetLeadHandler возвращает одного лида.
func GetLeadHandler(c *gin.Context) {
	var lead models.Lead
	if err := config.DB.First(&lead, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Лид не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске лида"})
		return
	}
	c.JSON(http.StatusOK, lead)
}

// CreateLeadHandler заводит лида вручную (звонок или заявка с сайта).
func CreateLeadHandler(c *gin.Context) {
	var input LeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	status := input.Status
	if status == "" {
		status = models.LeadStatusNew
	}

	lead := models.Lead{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Phone:          input.Phone,
		Status:         status,
		Source:         input.Source,
		ManagerComment: input.ManagerComment,
	}
	if err := config.DB.Create(&lead).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать лида"})
		return
	}
	c.JSON(http.StatusCreated, lead)
}

// UpdateLeadHandler - ручное редактирование лида менеджером, в том числе
// переводы в waiting_payment/won/lost.
func UpdateLeadHandler(c *gin.Context) {
	var lead models.Lead
	if err := config.DB.First(&lead, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Лид не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске лида"})
		return
	}

	var input LeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	lead.FirstName = input.FirstName
	lead.LastName = input.LastName
	lead.Phone = input.Phone
	lead.ManagerComment = input.ManagerComment
	if input.Status != "" {
		lead.Status = input.Status
	}
	if input.Source != "" {
		lead.Source = input.Source
	}

	if err := config.DB.Save(&lead).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить лида"})
		return
	}
	c.JSON(http.StatusOK, lead)
}

// DeleteLeadHandler удаляет лида. Студент, сконвертированный из этого лида,
// остается: связь слабая.
func DeleteLeadHandler(c *gin.Context) {
	if err := config.DB.Delete(&models.Lead{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить лида"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Лид удален"})
}
