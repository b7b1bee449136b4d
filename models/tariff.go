// china-crm/models/tariff.go

package models

import "gorm.io/gorm"

// Tariff - вариант абонемента (товарная линейка школы).
type Tariff struct {
	gorm.Model
	Name         string  `json:"name" gorm:"not null"` // Например: "Абонемент 8 занятий"
	Price        float64 `json:"price" gorm:"type:numeric(10,2);not null"`
	LessonsCount int     `json:"lessonsCount" gorm:"not null"`
}
