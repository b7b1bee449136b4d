// china-crm/models/lead.go

package models

import (
	"strconv"

	"gorm.io/gorm"
)

// LeadStatus - закрытый набор статусов лида в воронке продаж.
type LeadStatus string

const (
	LeadStatusNew            LeadStatus = "new"             // Новый
	LeadStatusInProgress     LeadStatus = "in_progress"     // В обработке
	LeadStatusWaitingPayment LeadStatus = "waiting_payment" // Ждем оплату
	LeadStatusWon            LeadStatus = "won"             // Записан в группу
	LeadStatusLost           LeadStatus = "lost"            // Отказ
)

// Lead - потенциальный клиент (звонок, заявка с сайта, сообщение в Telegram).
type Lead struct {
	gorm.Model
	FirstName        string     `json:"firstName" gorm:"not null"`
	LastName         string     `json:"lastName"`
	Phone            string     `json:"phone"`
	TelegramID       *string    `json:"telegramId" gorm:"uniqueIndex"` // ID во внешнем канале; NULL для заявок без Telegram
	TelegramUsername string     `json:"telegramUsername"`
	Status           LeadStatus `json:"status" gorm:"type:varchar(20);not null;default:'new'"`
	Source           string     `json:"source"`
	ManagerComment   string     `json:"managerComment"`

	Messages []ChatMessage `json:"-" gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE"`
}

// HasTelegramIdentity сообщает, можно ли писать этому лиду в Telegram.
// Синтетические идентификаторы ("import_...", "site_...") выдаются импортом
// и веб-формой, в канал по ним отправить нельзя.
func (l *Lead) HasTelegramIdentity() bool {
	_, ok := l.TelegramChatID()
	return ok
}

// TelegramChatID возвращает числовой ID чата для отправки.
func (l *Lead) TelegramChatID() (int64, bool) {
	if l.TelegramID == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(*l.TelegramID, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
