// china-crm/internal/services/ledger.go
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/marselmagmaboy-lgtm/china-crm/models"
)

// absentLimit - с какого по счету прогула студент исключается.
const absentLimit = 3

// Ledger - бизнес-правила баланса и статуса студента. Создание отметки
// посещаемости или платежа и все вытекающие изменения студента выполняются
// одной транзакцией; правки уже существующих записей этих правил не запускают.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// RecordAttendance отмечает студента на уроке и применяет правила:
//   - present/absent списывают 1 урок с баланса (баланс может уйти в минус);
//   - третий прогул за все время переводит студента в banned;
//   - excused ничего не меняет.
//
// Повторная отметка той же пары урок-студент возвращает ErrDuplicateAttendance.
func (l *Ledger) RecordAttendance(ctx context.Context, lessonID, studentID uint, status models.AttendanceStatus) (*models.Attendance, error) {
	var record models.Attendance

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lesson models.Lesson
		if err := tx.First(&lesson, lessonID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var student models.Student
		if err := tx.First(&student, studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Защита от дублей. Уникальный индекс в БД страхует на случай гонки.
		var existing int64
		if err := tx.Model(&models.Attendance{}).
			Where("lesson_id = ? AND student_id = ?", lessonID, studentID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateAttendance
		}

		record = models.Attendance{LessonID: lessonID, StudentID: studentID, Status: status}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		// 1. Списание баланса (если был или прогулял)
		if status == models.AttendancePresent || status == models.AttendanceAbsent {
			if err := tx.Model(&models.Student{}).Where("id = ?", studentID).
				Update("balance", gorm.Expr("balance - 1")).Error; err != nil {
				return err
			}
		}

		// 2. Проверка на исключение (если это 3-й прогул)
		if status == models.AttendanceAbsent {
			var absentCount int64
			if err := tx.Model(&models.Attendance{}).
				Where("student_id = ? AND status = ?", studentID, models.AttendanceAbsent).
				Count(&absentCount).Error; err != nil {
				return err
			}
			if absentCount >= absentLimit {
				if err := tx.Model(&models.Student{}).Where("id = ?", studentID).
					Update("student_status", models.StudentStatusBanned).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// RecordPayment проводит оплату студента и применяет правила:
//   - пустая сумма при выбранном тарифе подменяется ценой тарифа;
//   - тариф добавляет lessons_count к балансу;
//   - ненулевая сумма увеличивает total_paid (в том числе без тарифа -
//     наличная оплата без абонемента это все равно выручка);
//   - студент не в active безусловно возвращается в active.
func (l *Ledger) RecordPayment(ctx context.Context, studentID uint, tariffID *uint, amount float64, comment string, date time.Time) (*models.Payment, error) {
	var payment models.Payment

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student models.Student
		if err := tx.First(&student, studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var tariff *models.Tariff
		if tariffID != nil {
			tariff = &models.Tariff{}
			if err := tx.First(tariff, *tariffID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
		}

		// Если менеджер не ввел сумму вручную, подставляем цену тарифа
		if amount == 0 && tariff != nil {
			amount = tariff.Price
		}

		if date.IsZero() {
			date = time.Now()
		}

		payment = models.Payment{
			StudentID: studentID,
			TariffID:  tariffID,
			Date:      date,
			Amount:    amount,
			Comment:   comment,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{}

		// 1. Добавляем уроки студенту
		if tariff != nil {
			updates["balance"] = gorm.Expr("balance + ?", tariff.LessonsCount)
		}

		// 2. Увеличиваем LTV (сколько всего денег принес)
		if amount > 0 {
			updates["total_paid"] = gorm.Expr("total_paid + ?", amount)
		}

		// 3. Если студент был "Исключен" или "Заморожен", возвращаем его в строй
		if student.Status != models.StudentStatusActive {
			updates["student_status"] = models.StudentStatusActive
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.Student{}).Where("id = ?", studentID).
				Updates(updates).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
