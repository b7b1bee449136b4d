// china-crm/internal/services/ledger_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marselmagmaboy-lgtm/china-crm/models"
)

func TestRecordAttendance_BalanceDebit(t *testing.T) {
	tests := []struct {
		name        string
		status      models.AttendanceStatus
		wantBalance int
	}{
		{name: "присутствие списывает урок", status: models.AttendancePresent, wantBalance: 4},
		{name: "прогул списывает урок", status: models.AttendanceAbsent, wantBalance: 4},
		{name: "уважительная причина не списывает", status: models.AttendanceExcused, wantBalance: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			ledger := NewLedger(db)
			student := createStudent(t, db, 5, models.StudentStatusActive)
			lesson := createLesson(t, db)

			_, err := ledger.RecordAttendance(context.Background(), lesson.ID, student.ID, tt.status)
			require.NoError(t, err)

			assert.Equal(t, tt.wantBalance, reloadStudent(t, db, student.ID).Balance)
		})
	}
}

func TestRecordAttendance_BalanceMayGoNegative(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	student := createStudent(t, db, 0, models.StudentStatusActive)
	lesson := createLesson(t, db)

	_, err := ledger.RecordAttendance(context.Background(), lesson.ID, student.ID, models.AttendancePresent)
	require.NoError(t, err)

	assert.Equal(t, -1, reloadStudent(t, db, student.ID).Balance)
}

func TestRecordAttendance_BanOnThirdAbsence(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	student := createStudent(t, db, 10, models.StudentStatusActive)

	for i := 0; i < 2; i++ {
		lesson := createLesson(t, db)
		_, err := ledger.RecordAttendance(context.Background(), lesson.ID, student.ID, models.AttendanceAbsent)
		require.NoError(t, err)
	}
	// Два прогула - еще не исключение
	assert.Equal(t, models.StudentStatusActive, reloadStudent(t, db, student.ID).Status)

	lesson := createLesson(t, db)
	_, err := ledger.RecordAttendance(context.Background(), lesson.ID, student.ID, models.AttendanceAbsent)
	require.NoError(t, err)

	got := reloadStudent(t, db, student.ID)
	assert.Equal(t, models.StudentStatusBanned, got.Status)
	assert.Equal(t, 7, got.Balance)
}

func TestRecordAttendance_ExcusedDoesNotCountTowardBan(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	student := createStudent(t, db, 10, models.StudentStatusActive)

	for i := 0; i < 2; i++ {
		lesson := createLesson(t, db)
		_, err := ledger.RecordAttendance(context.Background(), lesson.ID, student.ID, models.AttendanceAbsent)
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		lesson := createLesson(t, db)
		_, err := ledger.RecordAttendance(context.Background(), lesson.ID, student.ID, models.AttendanceExcused)
		require.NoError(t, err)
	}

	assert.Equal(t, models.StudentStatusActive, reloadStudent(t, db, student.ID).Status)
}

func TestRecordAttendance_Duplicate(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	student := createStudent(t, db, 5, models.StudentStatusActive)
	lesson := createLesson(t, db)

	_, err := ledger.RecordAttendance(context.Background(), lesson.ID, student.ID, models.AttendancePresent)
	require.NoError(t, err)

	_, err = ledger.RecordAttendance(context.Background(), lesson.ID, student.ID, models.AttendanceAbsent)
	require.ErrorIs(t, err, ErrDuplicateAttendance)

	// Эффекты первой отметки не задеты, второй раз ничего не списано
	assert.Equal(t, 4, reloadStudent(t, db, student.ID).Balance)

	var count int64
	require.NoError(t, db.Model(&models.Attendance{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRecordAttendance_UnknownLessonOrStudent(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	student := createStudent(t, db, 5, models.StudentStatusActive)
	lesson := createLesson(t, db)

	_, err := ledger.RecordAttendance(context.Background(), 9999, student.ID, models.AttendancePresent)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = ledger.RecordAttendance(context.Background(), lesson.ID, 9999, models.AttendancePresent)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEditingAttendanceDoesNotTouchStudent(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	student := createStudent(t, db, 5, models.StudentStatusActive)
	lesson := createLesson(t, db)

	record, err := ledger.RecordAttendance(context.Background(), lesson.ID, student.ID, models.AttendancePresent)
	require.NoError(t, err)

	// Правка существующей отметки - обычный UPDATE, правила не перезапускаются
	require.NoError(t, db.Model(record).Update("status", models.AttendanceAbsent).Error)

	got := reloadStudent(t, db, student.ID)
	assert.Equal(t, 4, got.Balance)
	assert.Equal(t, models.StudentStatusActive, got.Status)
}

func TestRecordPayment_TariffScenario(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	student := createStudent(t, db, 0, models.StudentStatusActive)
	tariff := &models.Tariff{Name: "Абонемент 8 занятий", Price: 100, LessonsCount: 8}
	require.NoError(t, db.Create(tariff).Error)

	// Сумма не указана: подставляется цена тарифа
	payment, err := ledger.RecordPayment(context.Background(), student.ID, &tariff.ID, 0, "", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 100.0, payment.Amount)

	got := reloadStudent(t, db, student.ID)
	assert.Equal(t, 8, got.Balance)
	assert.Equal(t, 100.0, got.TotalPaid)
	assert.Equal(t, models.StudentStatusActive, got.Status)
}

func TestRecordPayment_ReactivatesBannedStudent(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	student := createStudent(t, db, -3, models.StudentStatusBanned)
	tariff := &models.Tariff{Name: "Абонемент 4 занятия", Price: 60, LessonsCount: 4}
	require.NoError(t, db.Create(tariff).Error)

	_, err := ledger.RecordPayment(context.Background(), student.ID, &tariff.ID, 0, "", time.Time{})
	require.NoError(t, err)

	got := reloadStudent(t, db, student.ID)
	assert.Equal(t, models.StudentStatusActive, got.Status)
	assert.Equal(t, 1, got.Balance)
}

func TestRecordPayment_ReactivatesPausedStudent(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	student := createStudent(t, db, 0, models.StudentStatusPaused)

	_, err := ledger.RecordPayment(context.Background(), student.ID, nil, 50, "наличные", time.Time{})
	require.NoError(t, err)

	assert.Equal(t, models.StudentStatusActive, reloadStudent(t, db, student.ID).Status)
}

func TestRecordPayment_AmountWithoutTariffAccruesTotalPaid(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	student := createStudent(t, db, 2, models.StudentStatusActive)

	payment, err := ledger.RecordPayment(context.Background(), student.ID, nil, 75, "доплата", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 75.0, payment.Amount)

	got := reloadStudent(t, db, student.ID)
	assert.Equal(t, 75.0, got.TotalPaid)
	// Без тарифа уроки не начисляются
	assert.Equal(t, 2, got.Balance)
}

func TestEditingPaymentDoesNotTouchStudent(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	student := createStudent(t, db, 0, models.StudentStatusActive)
	tariff := &models.Tariff{Name: "Абонемент 8 занятий", Price: 100, LessonsCount: 8}
	require.NoError(t, db.Create(tariff).Error)

	payment, err := ledger.RecordPayment(context.Background(), student.ID, &tariff.ID, 0, "", time.Time{})
	require.NoError(t, err)

	require.NoError(t, db.Model(payment).Update("comment", "исправленный комментарий").Error)

	got := reloadStudent(t, db, student.ID)
	assert.Equal(t, 8, got.Balance)
	assert.Equal(t, 100.0, got.TotalPaid)
}

// Суммарное свойство: balance = initial - N(present/absent) + sum(lessons_count).
func TestLedger_BalanceArithmetic(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	student := createStudent(t, db, 3, models.StudentStatusActive)
	tariff := &models.Tariff{Name: "Абонемент 8 занятий", Price: 100, LessonsCount: 8}
	require.NoError(t, db.Create(tariff).Error)

	statuses := []models.AttendanceStatus{
		models.AttendancePresent,
		models.AttendanceAbsent,
		models.AttendanceExcused,
		models.AttendancePresent,
		models.AttendancePresent,
	}
	for _, status := range statuses {
		lesson := createLesson(t, db)
		_, err := ledger.RecordAttendance(context.Background(), lesson.ID, student.ID, status)
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := ledger.RecordPayment(context.Background(), student.ID, &tariff.ID, 0, "", time.Time{})
		require.NoError(t, err)
	}

	// 3 - 4 списания + 2*8 = 15
	assert.Equal(t, 15, reloadStudent(t, db, student.ID).Balance)
}
