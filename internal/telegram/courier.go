// china-crm/internal/telegram/courier.go
package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Courier - реализация services.Courier поверх Telegram Bot API.
type Courier struct {
	api *tgbotapi.BotAPI
}

func NewCourier(api *tgbotapi.BotAPI) *Courier {
	return &Courier{api: api}
}

// Send отправляет текст в чат. Без ретраев: неудача отдается вызывающему.
func (c *Courier) Send(_ context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := c.api.Send(msg)
	return err
}

// FetchFile скачивает вложение с файлового сервера Telegram.
func (c *Courier) FetchFile(ctx context.Context, fileID string) ([]byte, error) {
	url, err := c.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("файловый сервер Telegram вернул статус %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
