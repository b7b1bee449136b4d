// china-crm/internal/services/inbox.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"gorm.io/gorm"

	"github.com/marselmagmaboy-lgtm/china-crm/models"
)

// Courier - внешний канал доставки (Telegram). Интерфейс нужен, чтобы
// сервис не зависел от конкретного клиента и подменялся в тестах.
type Courier interface {
	// Send доставляет текст в чат канала.
	Send(ctx context.Context, chatID int64, text string) error
	// FetchFile скачивает вложение канала по его идентификатору.
	FetchFile(ctx context.Context, fileID string) ([]byte, error)
}

// AttachmentStore сохраняет байты вложения и возвращает публичный URL.
type AttachmentStore interface {
	Save(data []byte, originalName string) (string, error)
}

// InboundMessage - одно входящее событие внешнего канала.
type InboundMessage struct {
	SenderID  int64
	FirstName string
	Username  string
	Text      string
	Kind      models.MessageKind
	FileID    string // Идентификатор вложения в канале, пуст для текста
	FileName  string // Имя файла для выбора расширения при сохранении
}

// Inbox синхронизирует лидов и их переписку с внешним каналом в обе стороны.
type Inbox struct {
	db      *gorm.DB
	courier Courier
	store   AttachmentStore
}

func NewInbox(db *gorm.DB, courier Courier, store AttachmentStore) *Inbox {
	return &Inbox{db: db, courier: courier, store: store}
}

// HandleInbound обрабатывает входящее сообщение: находит или создает лида,
// возвращает его статус в "new" и дописывает сообщение в историю.
// Недокачанное вложение не теряет событие - сообщение сохраняется без ссылки.
func (i *Inbox) HandleInbound(ctx context.Context, msg InboundMessage) (*models.ChatMessage, error) {
	telegramID := strconv.FormatInt(msg.SenderID, 10)

	var lead models.Lead
	err := i.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&lead).Error
	switch {
	case err == nil:
		// Любое новое входящее "переоткрывает" диалог, даже если менеджер
		// уже довел лида до win/lost.
		if lead.Status != models.LeadStatusNew {
			if err := i.db.WithContext(ctx).Model(&lead).
				Update("status", models.LeadStatusNew).Error; err != nil {
				return nil, err
			}
		}
	case err == gorm.ErrRecordNotFound:
		firstName := msg.FirstName
		if firstName == "" {
			firstName = "Клиент"
		}
		lead = models.Lead{
			FirstName:        firstName,
			TelegramID:       &telegramID,
			TelegramUsername: msg.Username,
			Status:           models.LeadStatusNew,
			Source:           "Telegram",
		}
		if err := i.db.WithContext(ctx).Create(&lead).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	kind := msg.Kind
	if kind == "" {
		kind = models.MessageKindText
	}

	attachmentURL := ""
	if msg.FileID != "" {
		data, fetchErr := i.courier.FetchFile(ctx, msg.FileID)
		if fetchErr != nil {
			slog.Warn("Не удалось скачать вложение, сохраняем сообщение без него",
				"lead_id", lead.ID, "file_id", msg.FileID, "error", fetchErr)
		} else {
			url, saveErr := i.store.Save(data, msg.FileName)
			if saveErr != nil {
				slog.Warn("Не удалось сохранить вложение", "lead_id", lead.ID, "error", saveErr)
			} else {
				attachmentURL = url
			}
		}
	}

	message := models.ChatMessage{
		LeadID:        lead.ID,
		Text:          msg.Text,
		Kind:          kind,
		AttachmentURL: attachmentURL,
		IsFromManager: false,
	}
	if err := i.db.WithContext(ctx).Create(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// SendReply отправляет ответ менеджера лиду. Сообщение попадает в историю
// только после успешной доставки; лид в статусе "new" переходит в "in_progress".
func (i *Inbox) SendReply(ctx context.Context, leadID uint, text string) (*models.ChatMessage, error) {
	var lead models.Lead
	if err := i.db.WithContext(ctx).First(&lead, leadID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	chatID, ok := lead.TelegramChatID()
	if !ok {
		// Лид с сайта или из импорта: канала нет, доставку даже не пробуем.
		return nil, ErrNoTelegramIdentity
	}

	if err := i.courier.Send(ctx, chatID, text); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	message := models.ChatMessage{
		LeadID:        lead.ID,
		Text:          text,
		Kind:          models.MessageKindText,
		IsFromManager: true,
	}
	if err := i.db.WithContext(ctx).Create(&message).Error; err != nil {
		return nil, err
	}

	if lead.Status == models.LeadStatusNew {
		if err := i.db.WithContext(ctx).Model(&lead).
			Update("status", models.LeadStatusInProgress).Error; err != nil {
			return nil, err
		}
	}

	return &message, nil
}

// OpenLead помечает диалог взятым в работу: "new" переходит в "in_progress".
// Это отдельная команда, а не побочный эффект чтения истории.
func (i *Inbox) OpenLead(ctx context.Context, leadID uint) error {
	var lead models.Lead
	if err := i.db.WithContext(ctx).First(&lead, leadID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	if lead.Status != models.LeadStatusNew {
		return nil
	}
	return i.db.WithContext(ctx).Model(&lead).
		Update("status", models.LeadStatusInProgress).Error
}
