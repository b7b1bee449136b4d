// china-crm/internal/services/dashboard.go
package services

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/marselmagmaboy-lgtm/china-crm/models"
)

const unreadCacheKey = "inbox:unread"
const unreadCacheTTL = 5 * time.Second

// InboxItem - строка списка диалогов для менеджера.
type InboxItem struct {
	LeadID        uint              `json:"leadId"`
	Name          string            `json:"name"`
	Username      string            `json:"username"`
	Phone         string            `json:"phone"`
	Status        models.LeadStatus `json:"status"`
	Preview       string            `json:"preview"`
	LastMessageAt *time.Time        `json:"lastMessageAt"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// TimelineEntry - одно сообщение истории в готовом для отображения виде.
type TimelineEntry struct {
	ID            uint               `json:"ID"`
	Text          string             `json:"text"`
	Kind          models.MessageKind `json:"kind"`
	AttachmentURL string             `json:"attachmentUrl,omitempty"`
	IsFromManager bool               `json:"isFromManager"`
	SentAt        string             `json:"sentAt"`
}

// Dashboard - read-модель инбокса: список диалогов, история лида, счетчик
// неотвеченных. Ничего не мутирует.
type Dashboard struct {
	db  *gorm.DB
	rdb *redis.Client // nil, если Redis не настроен
}

func NewDashboard(db *gorm.DB, rdb *redis.Client) *Dashboard {
	return &Dashboard{db: db, rdb: rdb}
}

// statusUrgency задает порядок сортировки: неотвеченные диалоги всегда сверху.
func statusUrgency(s models.LeadStatus) int {
	switch s {
	case models.LeadStatusNew:
		return 0
	case models.LeadStatusInProgress:
		return 1
	case models.LeadStatusWaitingPayment:
		return 2
	case models.LeadStatusWon:
		return 3
	default: // lost и все незнакомое - в конец
		return 4
	}
}

// previewFor строит превью диалога по последнему сообщению.
func previewFor(msg *models.ChatMessage) string {
	if msg == nil {
		return "нет сообщений"
	}
	if msg.Text != "" {
		return msg.Text
	}
	switch msg.Kind {
	case models.MessageKindImage:
		return "фото"
	case models.MessageKindVoice:
		return "голосовое сообщение"
	case models.MessageKindDocument:
		return "документ"
	default:
		return "сообщение"
	}
}

// InboxList возвращает все диалоги, отсортированные по срочности статуса,
// затем по времени последнего сообщения, затем по дате создания лида.
func (d *Dashboard) InboxList(ctx context.Context) ([]InboxItem, error) {
	var leads []models.Lead
	if err := d.db.WithContext(ctx).Find(&leads).Error; err != nil {
		return nil, err
	}

	items := make([]InboxItem, 0, len(leads))
	for _, lead := range leads {
		var lastMsg models.ChatMessage
		var last *models.ChatMessage
		err := d.db.WithContext(ctx).
			Where("lead_id = ?", lead.ID).
			Order("created_at DESC, id DESC").
			First(&lastMsg).Error
		if err == nil {
			last = &lastMsg
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}

		item := InboxItem{
			LeadID:    lead.ID,
			Name:      lead.FirstName,
			Username:  lead.TelegramUsername,
			Phone:     lead.Phone,
			Status:    lead.Status,
			Preview:   previewFor(last),
			CreatedAt: lead.CreatedAt,
		}
		if last != nil {
			t := last.CreatedAt
			item.LastMessageAt = &t
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(a, b int) bool {
		ua, ub := statusUrgency(items[a].Status), statusUrgency(items[b].Status)
		if ua != ub {
			return ua < ub
		}
		ta, tb := items[a].LastMessageAt, items[b].LastMessageAt
		switch {
		case ta != nil && tb != nil && !ta.Equal(*tb):
			return ta.After(*tb)
		case ta != nil && tb == nil:
			return true
		case ta == nil && tb != nil:
			return false
		}
		return items[a].CreatedAt.After(items[b].CreatedAt)
	})

	return items, nil
}

// Timeline возвращает всю историю лида в хронологическом порядке.
func (d *Dashboard) Timeline(ctx context.Context, leadID uint) ([]TimelineEntry, error) {
	var exists int64
	if err := d.db.WithContext(ctx).Model(&models.Lead{}).
		Where("id = ?", leadID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	var messages []models.ChatMessage
	if err := d.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}

	entries := make([]TimelineEntry, 0, len(messages))
	for _, m := range messages {
		entries = append(entries, TimelineEntry{
			ID:            m.ID,
			Text:          m.Text,
			Kind:          m.Kind,
			AttachmentURL: m.AttachmentURL,
			IsFromManager: m.IsFromManager,
			SentAt:        m.CreatedAt.Format("02.01.2006 15:04"),
		})
	}
	return entries, nil
}

// UnreadCount - количество лидов в статусе "new". Ответ коротко кэшируется
// в Redis: фронтенд опрашивает этот счетчик раз в несколько секунд.
func (d *Dashboard) UnreadCount(ctx context.Context) (int64, error) {
	if d.rdb != nil {
		if cached, err := d.rdb.Get(ctx, unreadCacheKey).Result(); err == nil {
			if n, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return n, nil
			}
		}
	}

	var count int64
	if err := d.db.WithContext(ctx).Model(&models.Lead{}).
		Where("status = ?", models.LeadStatusNew).
		Count(&count).Error; err != nil {
		return 0, err
	}

	if d.rdb != nil {
		d.rdb.Set(ctx, unreadCacheKey, strconv.FormatInt(count, 10), unreadCacheTTL)
	}
	return count, nil
}
