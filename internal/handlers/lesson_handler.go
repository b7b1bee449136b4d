// china-crm/internal/handlers/lesson_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/marselmagmaboy-lgtm/china-crm/config"
	"github.com/marselmagmaboy-lgtm/china-crm/internal/services"
	"github.com/marselmagmaboy-lgtm/china-crm/models"
)

// LessonHandler держит ledger-сервис: отметки посещаемости идут только через
// него, чтобы списание баланса и проверка прогулов не разъезжались с записью.
type LessonHandler struct {
	Ledger *services.Ledger
}

func NewLessonHandler(ledger *services.Ledger) *LessonHandler {
	return &LessonHandler{Ledger: ledger}
}

// LessonInput - входящие данные для создания урока.
type LessonInput struct {
	GroupID uint   `json:"groupId" binding:"required"`
	Date    string `json:"date"` // YYYY-MM-DD, по умолчанию сегодня
	Topic   string `json:"topic"`
}

// AttendanceMark - одна отметка в журнале.
type AttendanceMark struct {
	StudentID uint                    `json:"studentId" binding:"required"`
	Status    models.AttendanceStatus `json:"status" binding:"required"`
}

// MarkAttendanceInput - пачка отметок по уроку (страница журнала).
type MarkAttendanceInput struct {
	Marks []AttendanceMark `json:"marks" binding:"required,min=1"`
}

// LessonListItem - урок со счетчиком отмеченных студентов.
type LessonListItem struct {
	models.Lesson
	StudentsChecked int64 `json:"studentsChecked"`
}

// ListLessonsHandler возвращает журнал уроков, свежие сверху.
func (h *LessonHandler) ListLessonsHandler(c *gin.Context) {
	var lessons []models.Lesson
	var totalRows int64

	query := config.DB.Model(&models.Lesson{}).Preload("Group")
	if groupID := c.Query("group_id"); groupID != "" {
		query = query.Where("group_id = ?", groupID)
	}

	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось посчитать уроки"})
		return
	}
	if err := query.Scopes(Paginate(c)).Order("date DESC").Find(&lessons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить журнал уроков"})
		return
	}

	items := make([]LessonListItem, 0, len(lessons))
	for _, lesson := range lessons {
		var checked int64
		config.DB.Model(&models.Attendance{}).Where("lesson_id = ?", lesson.ID).Count(&checked)
		items = append(items, LessonListItem{Lesson: lesson, StudentsChecked: checked})
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, items, totalRows))
}

// GetLessonHandler возвращает урок с отметками.
func (h *LessonHandler) GetLessonHandler(c *gin.Context) {
	var lesson models.Lesson
	err := config.DB.Preload("Group").
		Preload("AttendanceRecords").Preload("AttendanceRecords.Student").
		First(&lesson, c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Урок не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске урока"})
		return
	}
	c.JSON(http.StatusOK, lesson)
}

// CreateLessonHandler создает проведенный урок.
func (h *LessonHandler) CreateLessonHandler(c *gin.Context) {
	var input LessonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	lesson := models.Lesson{GroupID: input.GroupID, Date: time.Now(), Topic: input.Topic}
	if input.Date != "" {
		date, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат даты. Используйте YYYY-MM-DD."})
			return
		}
		lesson.Date = date
	}

	if err := config.DB.Create(&lesson).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось создать урок"})
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

// MarkAttendanceHandler отмечает студентов на уроке. Каждая отметка проходит
// через ledger-сервис; дубль пары урок-студент возвращает 409 и не мешает
// остальным отметкам пачки.
func (h *LessonHandler) MarkAttendanceHandler(c *gin.Context) {
	lessonID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID урока"})
		return
	}

	var input MarkAttendanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	created := make([]models.Attendance, 0, len(input.Marks))
	duplicates := make([]uint, 0)
	for _, mark := range input.Marks {
		record, err := h.Ledger.RecordAttendance(c.Request.Context(), uint(lessonID), mark.StudentID, mark.Status)
		switch {
		case errors.Is(err, services.ErrDuplicateAttendance):
			duplicates = append(duplicates, mark.StudentID)
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Урок или студент не найден"})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить отметку"})
			return
		default:
			created = append(created, *record)
		}
	}

	if len(created) == 0 && len(duplicates) > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error":      "Все студенты уже отмечены на этом уроке",
			"duplicates": duplicates,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": created, "duplicates": duplicates})
}

// UpdateAttendanceHandler исправляет уже существующую отметку. Это именно
// правка записи: баланс и статус студента не пересчитываются.
func (h *LessonHandler) UpdateAttendanceHandler(c *gin.Context) {
	var record models.Attendance
	if err := config.DB.First(&record, c.Param("attendanceId")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Отметка не найдена"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при поиске отметки"})
		return
	}

	var input struct {
		Status models.AttendanceStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	if err := config.DB.Model(&record).Update("status", input.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить отметку"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// DeleteLessonHandler удаляет урок вместе с отметками.
func (h *LessonHandler) DeleteLessonHandler(c *gin.Context) {
	if err := config.DB.Delete(&models.Lesson{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось удалить урок"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Урок удален"})
}
