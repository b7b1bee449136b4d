// china-crm/internal/services/services_test.go
package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/marselmagmaboy-lgtm/china-crm/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Lead{},
		&models.Teacher{},
		&models.Group{},
		&models.Student{},
		&models.Lesson{},
		&models.Attendance{},
		&models.Tariff{},
		&models.Payment{},
		&models.Task{},
		&models.ChatMessage{},
	))
	return db
}

func createStudent(t *testing.T, db *gorm.DB, balance int, status models.StudentStatus) *models.Student {
	t.Helper()
	student := &models.Student{FullName: "Тестовый Студент", Balance: balance, Status: status}
	require.NoError(t, db.Create(student).Error)
	return student
}

func createLesson(t *testing.T, db *gorm.DB) *models.Lesson {
	t.Helper()
	group := &models.Group{Name: "HSK-1 Вечер", Level: models.HSK1, IsActive: true}
	require.NoError(t, db.Create(group).Error)
	lesson := &models.Lesson{GroupID: group.ID, Topic: "Числительные"}
	require.NoError(t, db.Create(lesson).Error)
	return lesson
}

func reloadStudent(t *testing.T, db *gorm.DB, id uint) *models.Student {
	t.Helper()
	var student models.Student
	require.NoError(t, db.First(&student, id).Error)
	return &student
}
