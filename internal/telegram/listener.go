// china-crm/internal/telegram/listener.go
package telegram

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/marselmagmaboy-lgtm/china-crm/internal/services"
	"github.com/marselmagmaboy-lgtm/china-crm/models"
)

// Listener - long-polling цикл бота. Каждое входящее сообщение превращается
// в вызов inbox-сервиса; бот сам ничего не отвечает, переписку ведет менеджер
// из панели.
type Listener struct {
	api   *tgbotapi.BotAPI
	inbox *services.Inbox
}

func NewListener(api *tgbotapi.BotAPI, inbox *services.Inbox) *Listener {
	return &Listener{api: api, inbox: inbox}
}

// Run слушает обновления до отмены контекста.
func (l *Listener) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := l.api.GetUpdatesChan(u)

	slog.Info("Бот слушает сообщения", "username", l.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			l.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			msg := classify(update.Message)
			if _, err := l.inbox.HandleInbound(ctx, msg); err != nil {
				slog.Error("Не удалось обработать входящее сообщение",
					"sender_id", msg.SenderID, "error", err)
				continue
			}
			slog.Info("Сообщение от лида", "sender_id", msg.SenderID, "kind", msg.Kind)
		}
	}
}

// classify переводит Telegram-сообщение во внутреннее входящее событие.
// Для медиа текстом становится подпись.
func classify(m *tgbotapi.Message) services.InboundMessage {
	msg := services.InboundMessage{
		SenderID:  m.From.ID,
		FirstName: m.From.FirstName,
		Username:  m.From.UserName,
		Text:      m.Text,
		Kind:      models.MessageKindText,
	}

	switch {
	case len(m.Photo) > 0:
		// Telegram присылает несколько размеров, берем самый крупный.
		photo := m.Photo[len(m.Photo)-1]
		msg.Kind = models.MessageKindImage
		msg.FileID = photo.FileID
		msg.FileName = "photo.jpg"
		msg.Text = m.Caption
	case m.Voice != nil:
		msg.Kind = models.MessageKindVoice
		msg.FileID = m.Voice.FileID
		msg.FileName = "voice.ogg"
		msg.Text = m.Caption
	case m.Document != nil:
		msg.Kind = models.MessageKindDocument
		msg.FileID = m.Document.FileID
		msg.FileName = m.Document.FileName
		msg.Text = m.Caption
	}

	return msg
}
