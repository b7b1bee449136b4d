// china-crm/internal/handlers/tariff_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/marselmagmaboy-lgtm/china-crm/config"
	"github.com/marselmagmaboy-lgtm/china-crm/models"
)

type TariffInput struct {
	Name         string  `json:"name" binding:"required"`
	Price        float64 `json:"price" binding:"required"`
	LessonsCount int     `json:"lessonsCount" binding:"required"`
}

func ListTariffsHandler(c *gin.Context) {
	var tariffs []models.Tariff
	if err := config.DB.Order("price").Find(&tariffs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список тарифов"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tariffs})
}

func CreateTariffHandler(c *gin.Context) {
	var input TariffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	tariff := models.Tariff{Name: input.Name, Price: input.Price, LessonsCount: input.LessonsCount}
	if err := config.DB.Create(&tariff).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать тариф"})
		return
	}
	c.JSON(http.StatusCreated, tariff)
}

func UpdateTariffHandler(c *gin.Context) {
	var tariff models.Tariff
	if err := config.DB.First(&tariff, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Тариф не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске тарифа"})
		return
	}

	var input TariffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	tariff.Name = input.Name
	tariff.Price = input.Price
	tariff.LessonsCount = input.LessonsCount
	if err := config.DB.Save(&tariff).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить тариф"})
		return
	}
	c.JSON(http.StatusOK, tariff)
}

// DeleteTariffHandler удаляет тариф; старые платежи сохраняют сумму, ссылка
// на тариф у них обнуляется.
func DeleteTariffHandler(c *gin.Context) {
	if err := config.DB.Delete(&models.Tariff{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить тариф"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Тариф удален"})
}
