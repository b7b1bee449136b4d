// china-crm/models/chat_message.go

package models

import "gorm.io/gorm"

// MessageKind - тип сообщения в переписке с лидом.
type MessageKind string

const (
	MessageKindText     MessageKind = "text"
	MessageKindImage    MessageKind = "image"
	MessageKindVoice    MessageKind = "voice"
	MessageKindDocument MessageKind = "document"
)

// ChatMessage - одно сообщение в переписке с лидом. История append-only,
// упорядочена по времени создания.
type ChatMessage struct {
	gorm.Model
	LeadID        uint        `json:"leadId" gorm:"not null;index"`
	Text          string      `json:"text"`
	Kind          MessageKind `json:"kind" gorm:"type:varchar(20);not null;default:'text'"`
	AttachmentURL string      `json:"attachmentUrl,omitempty" gorm:"type:varchar(255)"`
	IsFromManager bool        `json:"isFromManager" gorm:"not null;default:false"`
}
