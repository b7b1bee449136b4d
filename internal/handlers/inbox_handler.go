// china-crm/internal/handlers/inbox_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/marselmagmaboy-lgtm/china-crm/internal/services"
)

// InboxHandler - staff-эндпоинты переписки: список диалогов, история лида,
// счетчик неотвеченных, взятие в работу и ответ.
type InboxHandler struct {
	Dashboard *services.Dashboard
	Inbox     *services.Inbox
}

func NewInboxHandler(dashboard *services.Dashboard, inbox *services.Inbox) *InboxHandler {
	return &InboxHandler{Dashboard: dashboard, Inbox: inbox}
}

// GetInboxHandler возвращает ранжированный список диалогов и счетчик новых.
func (h *InboxHandler) GetInboxHandler(c *gin.Context) {
	items, err := h.Dashboard.InboxList(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить список диалогов"})
		return
	}
	unread, err := h.Dashboard.UnreadCount(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось посчитать новые диалоги"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "unreadCount": unread})
}

// GetUnreadHandler - легкий эндпоинт для периодического опроса фронтендом.
func (h *InboxHandler) GetUnreadHandler(c *gin.Context) {
	unread, err := h.Dashboard.UnreadCount(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось посчитать новые диалоги"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unreadCount": unread})
}

// GetTimelineHandler возвращает историю переписки лида. Чтение ничего не
// меняет: взятие в работу - отдельная команда OpenLeadHandler.
func (h *InboxHandler) GetTimelineHandler(c *gin.Context) {
	leadID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID лида"})
		return
	}

	entries, err := h.Dashboard.Timeline(c.Request.Context(), uint(leadID))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Лид не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось получить историю переписки"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// OpenLeadHandler помечает диалог взятым в работу.
func (h *InboxHandler) OpenLeadHandler(c *gin.Context) {
	leadID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID лида"})
		return
	}

	if err := h.Inbox.OpenLead(c.Request.Context(), uint(leadID)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Лид не найден"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить статус лида"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Диалог взят в работу"})
}

// ReplyInput - текст ответа менеджера.
type ReplyInput struct {
	Text string `json:"text" binding:"required"`
}

// ReplyHandler отправляет ответ менеджера лиду в Telegram.
func (h *InboxHandler) ReplyHandler(c *gin.Context) {
	leadID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный ID лида"})
		return
	}

	var input ReplyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверные данные: " + err.Error()})
		return
	}

	message, err := h.Inbox.SendReply(c.Request.Context(), uint(leadID), input.Text)
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Лид не найден"})
	case errors.Is(err, services.ErrNoTelegramIdentity):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "У этого лида нет Telegram, ответить в канал нельзя"})
	case errors.Is(err, services.ErrDeliveryFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Telegram не принял сообщение, попробуйте еще раз"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось отправить сообщение"})
	default:
		c.JSON(http.StatusCreated, message)
	}
}
