// china-crm/models/lesson.go

package models

import (
	"time"

	"gorm.io/gorm"
)

// AttendanceStatus - отметка студента на уроке.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present" // Присутствовал (-1 урок)
	AttendanceAbsent  AttendanceStatus = "absent"  // Прогул (-1 урок)
	AttendanceExcused AttendanceStatus = "excused" // Уважительная причина (0 уроков)
)

// Lesson - конкретный проведенный урок группы.
type Lesson struct {
	gorm.Model
	GroupID uint      `json:"groupId" gorm:"not null"`
	Group   *Group    `json:"group,omitempty" gorm:"foreignKey:GroupID"`
	Date    time.Time `json:"date"`
	Topic   string    `json:"topic"`

	AttendanceRecords []Attendance `json:"-" gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE"`
}

// Attendance - отметка конкретного студента на конкретном уроке.
// Пара (урок, студент) уникальна: одна отметка на студента за урок.
type Attendance struct {
	gorm.Model
	LessonID  uint             `json:"lessonId" gorm:"not null;uniqueIndex:idx_attendance_lesson_student"`
	StudentID uint             `json:"studentId" gorm:"not null;uniqueIndex:idx_attendance_lesson_student"`
	Student   *Student         `json:"student,omitempty" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Status    AttendanceStatus `json:"status" gorm:"type:varchar(20);not null;default:'present'"`
}
