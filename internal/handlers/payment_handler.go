// china-crm/internal/handlers/payment_handler.go
package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/divan/num2words"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/marselmagmaboy-lgtm/china-crm/config"
	"github.com/marselmagmaboy-lgtm/china-crm/internal/services"
	"github.com/marselmagmaboy-lgtm/china-crm/models"
)

// PaymentHandler проводит оплаты через ledger-сервис: начисление баланса,
// LTV и возврат студента в строй происходят в той же транзакции, что и запись.
type PaymentHandler struct {
	Ledger *services.Ledger
}

func NewPaymentHandler(ledger *services.Ledger) *PaymentHandler {
	return &PaymentHandler{Ledger: ledger}
}

// CreatePaymentRequest - входящие данные нового платежа. Сумму можно не
// указывать, если выбран тариф: подставится его цена.
type CreatePaymentRequest struct {
	TariffID *uint   `json:"tariffId"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"` // YYYY-MM-DD, по умолчанию сейчас
	Comment  string  `json:"comment"`
}

// CreatePaymentHandler добавляет платеж студенту.
func (h *PaymentHandler) CreatePaymentHandler(c *gin.Context) {
	studentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID студента"})
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}
	if req.TariffID == nil && req.Amount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Укажите тариф или сумму оплаты"})
		return
	}

	var date time.Time
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты. Используйте YYYY-MM-DD."})
			return
		}
	}

	payment, err := h.Ledger.RecordPayment(c.Request.Context(), uint(studentID), req.TariffID, req.Amount, req.Comment, date)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Студент или тариф не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить платеж"})
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// ListStudentPaymentsHandler - история оплат студента, свежие сверху.
func (h *PaymentHandler) ListStudentPaymentsHandler(c *gin.Context) {
	var payments []models.Payment
	err := config.DB.Preload("Tariff").
		Where("student_id = ?", c.Param("id")).
		Order("date DESC").
		Find(&payments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить историю оплат"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": payments})
}

// UpdatePaymentHandler правит комментарий или дату существующего платежа.
// Сумма и тариф после проведения не меняются, баланс студента не трогается.
func (h *PaymentHandler) UpdatePaymentHandler(c *gin.Context) {
	var payment models.Payment
	if err := config.DB.First(&payment, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Платеж не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске платежа"})
		return
	}

	var input struct {
		Date    string `json:"date"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	updates := map[string]interface{}{"comment": input.Comment}
	if input.Date != "" {
		date, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты. Используйте YYYY-MM-DD."})
			return
		}
		updates["date"] = date
	}

	if err := config.DB.Model(&payment).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить платеж"})
		return
	}
	c.JSON(http.StatusOK, payment)
}

// paymentExportRow - строка выгрузки истории оплат.
type paymentExportRow struct {
	StudentFullName string
	TariffName      string
	Amount          float64
	Date            time.Time
	Comment         string
}

// ExportPaymentsHandler выгружает историю оплат в Excel для бухгалтерии.
func (h *PaymentHandler) ExportPaymentsHandler(c *gin.Context) {
	var rows []paymentExportRow
	err := config.DB.Table("payments").
		Select(`students.full_name as student_full_name,
			COALESCE(tariffs.name, '') as tariff_name,
			payments.amount,
			payments.date,
			payments.comment`).
		Joins("JOIN students ON students.id = payments.student_id").
		Joins("LEFT JOIN tariffs ON tariffs.id = payments.tariff_id").
		Where("payments.deleted_at IS NULL").
		Order("payments.date DESC").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось собрать данные для выгрузки"})
		return
	}

	f := excelize.NewFile()
	sheetName := "История оплат"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ФИО студента", "Тариф", "Сумма", "Дата", "Комментарий"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, row := range rows {
		n := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", n), row.StudentFullName)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", n), row.TariffName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", n), row.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", n), row.Date.Format("02.01.2006"))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", n), row.Comment)
	}

	fileName := fmt.Sprintf("payments_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сформировать файл"})
	}
}

// GetReceiptHandler возвращает данные квитанции по платежу, сумма прописью.
func (h *PaymentHandler) GetReceiptHandler(c *gin.Context) {
	var payment models.Payment
	err := config.DB.Preload("Student").Preload("Tariff").First(&payment, c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Платеж не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске платежа"})
		return
	}

	tariffName := ""
	if payment.Tariff != nil {
		tariffName = payment.Tariff.Name
	}
	studentName := ""
	if payment.Student != nil {
		studentName = payment.Student.FullName
	}

	c.JSON(http.StatusOK, gin.H{
		"paymentId":     payment.ID,
		"student":       studentName,
		"tariff":        tariffName,
		"amount":        payment.Amount,
		"amountInWords": amountInWords(payment.Amount),
		"date":          payment.Date.Format("02.01.2006 15:04"),
		"comment":       payment.Comment,
	})
}

func amountInWords(amount float64) string {
	sum := int(amount)
	tiyin := int(math.Round((amount - float64(sum)) * 100))
	return fmt.Sprintf("%s сум %02d тийин", num2words.Convert(sum), tiyin)
}
