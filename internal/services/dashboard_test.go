// china-crm/internal/services/dashboard_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/marselmagmaboy-lgtm/china-crm/models"
)

func createLeadAt(t *testing.T, db *gorm.DB, name string, status models.LeadStatus, createdAt time.Time) *models.Lead {
	t.Helper()
	lead := &models.Lead{FirstName: name, Status: status}
	lead.CreatedAt = createdAt
	require.NoError(t, db.Create(lead).Error)
	return lead
}

func addMessageAt(t *testing.T, db *gorm.DB, leadID uint, text string, kind models.MessageKind, at time.Time) {
	t.Helper()
	msg := &models.ChatMessage{LeadID: leadID, Text: text, Kind: kind}
	msg.CreatedAt = at
	require.NoError(t, db.Create(msg).Error)
}

func TestInboxList_NewLeadsFirstDespiteOlderMessages(t *testing.T) {
	db := newTestDB(t)
	dashboard := NewDashboard(db, nil)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	a := createLeadAt(t, db, "A", models.LeadStatusNew, day)
	b := createLeadAt(t, db, "B", models.LeadStatusInProgress, day)
	addMessageAt(t, db, a.ID, "хочу записаться", models.MessageKindText, day.Add(10*time.Hour))
	addMessageAt(t, db, b.ID, "спасибо", models.MessageKindText, day.Add(10*time.Hour+5*time.Minute))

	items, err := dashboard.InboxList(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Новый диалог выше, хотя сообщение B свежее
	assert.Equal(t, a.ID, items[0].LeadID)
	assert.Equal(t, b.ID, items[1].LeadID)
}

func TestInboxList_TieBreaks(t *testing.T) {
	db := newTestDB(t)
	dashboard := NewDashboard(db, nil)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	// Одинаковый статус: свежее сообщение выше
	a := createLeadAt(t, db, "A", models.LeadStatusNew, day)
	b := createLeadAt(t, db, "B", models.LeadStatusNew, day.Add(time.Minute))
	addMessageAt(t, db, a.ID, "раннее", models.MessageKindText, day.Add(9*time.Hour))
	addMessageAt(t, db, b.ID, "позднее", models.MessageKindText, day.Add(11*time.Hour))

	// Без сообщений: уходит под тех, у кого переписка есть, свежесозданный выше
	c := createLeadAt(t, db, "C", models.LeadStatusNew, day.Add(2*time.Minute))
	d := createLeadAt(t, db, "D", models.LeadStatusNew, day.Add(3*time.Minute))

	items, err := dashboard.InboxList(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, b.ID, items[0].LeadID)
	assert.Equal(t, a.ID, items[1].LeadID)
	assert.Equal(t, d.ID, items[2].LeadID)
	assert.Equal(t, c.ID, items[3].LeadID)
}

func TestInboxList_Previews(t *testing.T) {
	db := newTestDB(t)
	dashboard := NewDashboard(db, nil)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	text := createLeadAt(t, db, "Текст", models.LeadStatusNew, day)
	addMessageAt(t, db, text.ID, "когда старт группы?", models.MessageKindText, day.Add(time.Hour))

	photo := createLeadAt(t, db, "Фото", models.LeadStatusNew, day)
	addMessageAt(t, db, photo.ID, "", models.MessageKindImage, day.Add(2*time.Hour))

	voice := createLeadAt(t, db, "Голос", models.LeadStatusNew, day)
	addMessageAt(t, db, voice.ID, "", models.MessageKindVoice, day.Add(3*time.Hour))

	silent := createLeadAt(t, db, "Молчание", models.LeadStatusNew, day)

	items, err := dashboard.InboxList(context.Background())
	require.NoError(t, err)

	previews := map[uint]string{}
	for _, item := range items {
		previews[item.LeadID] = item.Preview
	}
	assert.Equal(t, "когда старт группы?", previews[text.ID])
	assert.Equal(t, "фото", previews[photo.ID])
	assert.Equal(t, "голосовое сообщение", previews[voice.ID])
	assert.Equal(t, "нет сообщений", previews[silent.ID])
}

func TestTimeline_ChronologicalOrder(t *testing.T) {
	db := newTestDB(t)
	dashboard := NewDashboard(db, nil)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	lead := createLeadAt(t, db, "A", models.LeadStatusNew, day)
	addMessageAt(t, db, lead.ID, "второе", models.MessageKindText, day.Add(2*time.Hour))
	addMessageAt(t, db, lead.ID, "первое", models.MessageKindText, day.Add(time.Hour))
	addMessageAt(t, db, lead.ID, "третье", models.MessageKindText, day.Add(3*time.Hour))

	entries, err := dashboard.Timeline(context.Background(), lead.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "первое", entries[0].Text)
	assert.Equal(t, "второе", entries[1].Text)
	assert.Equal(t, "третье", entries[2].Text)
	assert.Equal(t, "02.03.2026 01:00", entries[0].SentAt)
}

func TestTimeline_UnknownLead(t *testing.T) {
	db := newTestDB(t)
	dashboard := NewDashboard(db, nil)

	_, err := dashboard.Timeline(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnreadCount(t *testing.T) {
	db := newTestDB(t)
	dashboard := NewDashboard(db, nil)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	createLeadAt(t, db, "A", models.LeadStatusNew, day)
	createLeadAt(t, db, "B", models.LeadStatusNew, day)
	createLeadAt(t, db, "C", models.LeadStatusInProgress, day)
	createLeadAt(t, db, "D", models.LeadStatusLost, day)

	count, err := dashboard.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
