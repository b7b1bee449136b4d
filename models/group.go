// china-crm/models/group.go

package models

import (
	"time"

	"gorm.io/gorm"
)

// HSKLevel - уровень экзамена HSK, по которому занимается группа.
type HSKLevel string

const (
	HSK1 HSKLevel = "HSK1"
	HSK2 HSKLevel = "HSK2"
	HSK3 HSKLevel = "HSK3"
	HSK4 HSKLevel = "HSK4"
	HSK5 HSKLevel = "HSK5"
	HSK6 HSKLevel = "HSK6"
)

// Teacher - преподаватель школы.
type Teacher struct {
	gorm.Model
	FullName string `json:"fullName" gorm:"not null"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"isActive" gorm:"default:true"` // Работает сейчас
}

// Group - учебная группа с фиксированным составом.
type Group struct {
	gorm.Model
	Name            string   `json:"name" gorm:"not null"` // Например: "Группа HSK-1 Вечер"
	Level           HSKLevel `json:"level" gorm:"type:varchar(10)"`
	TeacherID       *uint    `json:"teacherId"`
	Teacher         *Teacher `json:"teacher,omitempty" gorm:"foreignKey:TeacherID;constraint:OnDelete:SET NULL"`
	DaysDescription string   `json:"daysDescription"` // Например: "Пн/Ср 19:00"
	StartDate       time.Time `json:"startDate"`
	IsActive        bool      `json:"isActive" gorm:"default:true"`

	Students []Student `json:"-" gorm:"foreignKey:GroupID"`
	Lessons  []Lesson  `json:"-" gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}
