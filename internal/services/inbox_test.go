// china-crm/internal/services/inbox_test.go
package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/marselmagmaboy-lgtm/china-crm/models"
)

// fakeCourier подменяет Telegram в тестах.
type fakeCourier struct {
	sent      []string
	sendErr   error
	files     map[string][]byte
	fetchErr  error
	fetchLogs []string
}

func (f *fakeCourier) Send(_ context.Context, _ int64, text string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeCourier) FetchFile(_ context.Context, fileID string) ([]byte, error) {
	f.fetchLogs = append(f.fetchLogs, fileID)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.files[fileID], nil
}

// fakeStore кладет вложения в память.
type fakeStore struct {
	saved int
}

func (f *fakeStore) Save(_ []byte, originalName string) (string, error) {
	f.saved++
	return "/static/uploads/chat/" + originalName, nil
}

func newInbox(db *gorm.DB) (*Inbox, *fakeCourier, *fakeStore) {
	courier := &fakeCourier{files: map[string][]byte{}}
	store := &fakeStore{}
	return NewInbox(db, courier, store), courier, store
}

func messagesOf(t *testing.T, db *gorm.DB, leadID uint) []models.ChatMessage {
	t.Helper()
	var messages []models.ChatMessage
	require.NoError(t, db.Where("lead_id = ?", leadID).Order("id").Find(&messages).Error)
	return messages
}

func TestHandleInbound_CreatesLead(t *testing.T) {
	db := newTestDB(t)
	inbox, _, _ := newInbox(db)

	msg, err := inbox.HandleInbound(context.Background(), InboundMessage{
		SenderID:  42,
		FirstName: "Алишер",
		Username:  "alisher",
		Text:      "Здравствуйте, хочу на HSK 1",
	})
	require.NoError(t, err)

	var lead models.Lead
	require.NoError(t, db.Where("telegram_id = ?", "42").First(&lead).Error)
	assert.Equal(t, models.LeadStatusNew, lead.Status)
	assert.Equal(t, "Алишер", lead.FirstName)
	assert.Equal(t, "Telegram", lead.Source)

	assert.Equal(t, lead.ID, msg.LeadID)
	assert.False(t, msg.IsFromManager)
	assert.Equal(t, models.MessageKindText, msg.Kind)
}

func TestHandleInbound_ReopensWonLead(t *testing.T) {
	db := newTestDB(t)
	inbox, _, _ := newInbox(db)

	id := "42"
	lead := models.Lead{FirstName: "Алишер", TelegramID: &id, Status: models.LeadStatusWon}
	require.NoError(t, db.Create(&lead).Error)

	_, err := inbox.HandleInbound(context.Background(), InboundMessage{SenderID: 42, Text: "я вернулся"})
	require.NoError(t, err)

	var got models.Lead
	require.NoError(t, db.First(&got, lead.ID).Error)
	assert.Equal(t, models.LeadStatusNew, got.Status)

	// Дубликат лида не создан
	var count int64
	require.NoError(t, db.Model(&models.Lead{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestHandleInbound_AttachmentStored(t *testing.T) {
	db := newTestDB(t)
	inbox, courier, store := newInbox(db)
	courier.files["file-1"] = []byte("jpeg-bytes")

	msg, err := inbox.HandleInbound(context.Background(), InboundMessage{
		SenderID: 42,
		Kind:     models.MessageKindImage,
		FileID:   "file-1",
		FileName: "photo.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, store.saved)
	assert.Equal(t, models.MessageKindImage, msg.Kind)
	assert.Equal(t, "/static/uploads/chat/photo.jpg", msg.AttachmentURL)
}

func TestHandleInbound_FetchFailureKeepsMessage(t *testing.T) {
	db := newTestDB(t)
	inbox, courier, store := newInbox(db)
	courier.fetchErr = errors.New("file server down")

	msg, err := inbox.HandleInbound(context.Background(), InboundMessage{
		SenderID: 42,
		Kind:     models.MessageKindVoice,
		FileID:   "file-1",
		FileName: "voice.ogg",
	})
	require.NoError(t, err)

	// Событие не потеряно: сообщение записано, но без ссылки на вложение
	assert.Equal(t, 0, store.saved)
	assert.Equal(t, models.MessageKindVoice, msg.Kind)
	assert.Empty(t, msg.AttachmentURL)
}

func TestSendReply_AdvancesNewLead(t *testing.T) {
	db := newTestDB(t)
	inbox, courier, _ := newInbox(db)

	id := "42"
	lead := models.Lead{FirstName: "Алишер", TelegramID: &id, Status: models.LeadStatusNew}
	require.NoError(t, db.Create(&lead).Error)

	msg, err := inbox.SendReply(context.Background(), lead.ID, "Добрый день!")
	require.NoError(t, err)

	assert.Equal(t, []string{"Добрый день!"}, courier.sent)
	assert.True(t, msg.IsFromManager)

	var got models.Lead
	require.NoError(t, db.First(&got, lead.ID).Error)
	assert.Equal(t, models.LeadStatusInProgress, got.Status)
}

func TestSendReply_KeepsNonNewStatus(t *testing.T) {
	db := newTestDB(t)
	inbox, _, _ := newInbox(db)

	id := "42"
	lead := models.Lead{FirstName: "Алишер", TelegramID: &id, Status: models.LeadStatusWaitingPayment}
	require.NoError(t, db.Create(&lead).Error)

	_, err := inbox.SendReply(context.Background(), lead.ID, "Напоминаем про оплату")
	require.NoError(t, err)

	var got models.Lead
	require.NoError(t, db.First(&got, lead.ID).Error)
	assert.Equal(t, models.LeadStatusWaitingPayment, got.Status)
}

func TestSendReply_DeliveryFailureLeavesNoMessage(t *testing.T) {
	db := newTestDB(t)
	inbox, courier, _ := newInbox(db)
	courier.sendErr = errors.New("bot was blocked by the user")

	id := "42"
	lead := models.Lead{FirstName: "Алишер", TelegramID: &id, Status: models.LeadStatusNew}
	require.NoError(t, db.Create(&lead).Error)

	_, err := inbox.SendReply(context.Background(), lead.ID, "Добрый день!")
	require.ErrorIs(t, err, ErrDeliveryFailed)

	assert.Empty(t, messagesOf(t, db, lead.ID))

	var got models.Lead
	require.NoError(t, db.First(&got, lead.ID).Error)
	assert.Equal(t, models.LeadStatusNew, got.Status)
}

func TestSendReply_SyntheticIdentitySkipsDelivery(t *testing.T) {
	db := newTestDB(t)
	inbox, courier, _ := newInbox(db)

	id := "import_a1b2c3d4"
	lead := models.Lead{FirstName: "Импортный", TelegramID: &id, Status: models.LeadStatusNew}
	require.NoError(t, db.Create(&lead).Error)

	_, err := inbox.SendReply(context.Background(), lead.ID, "Добрый день!")
	require.ErrorIs(t, err, ErrNoTelegramIdentity)

	// Доставка даже не пробовалась, истории нет
	assert.Empty(t, courier.sent)
	assert.Empty(t, messagesOf(t, db, lead.ID))
}

func TestOpenLead(t *testing.T) {
	db := newTestDB(t)
	inbox, _, _ := newInbox(db)

	lead := models.Lead{FirstName: "Сайт", Status: models.LeadStatusNew}
	require.NoError(t, db.Create(&lead).Error)

	require.NoError(t, inbox.OpenLead(context.Background(), lead.ID))

	var got models.Lead
	require.NoError(t, db.First(&got, lead.ID).Error)
	assert.Equal(t, models.LeadStatusInProgress, got.Status)

	// Повторное открытие и открытие не-нового статус не меняют
	require.NoError(t, db.Model(&got).Update("status", models.LeadStatusWon).Error)
	require.NoError(t, inbox.OpenLead(context.Background(), lead.ID))
	require.NoError(t, db.First(&got, lead.ID).Error)
	assert.Equal(t, models.LeadStatusWon, got.Status)
}
