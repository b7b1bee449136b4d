// china-crm/models/task.go

package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskPriority - срочность задачи.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// TaskStatus - состояние задачи.
type TaskStatus string

const (
	TaskStatusNew        TaskStatus = "new"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// Task - задача, назначенная сотруднику (позвонить лиду, собрать группу и т.д.).
type Task struct {
	gorm.Model
	AssignedTo  string       `json:"assignedTo" gorm:"not null"` // Логин сотрудника
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description"`
	Deadline    *time.Time   `json:"deadline"`
	Priority    TaskPriority `json:"priority" gorm:"type:varchar(10);not null;default:'medium'"`
	Status      TaskStatus   `json:"status" gorm:"type:varchar(20);not null;default:'new'"`
}
