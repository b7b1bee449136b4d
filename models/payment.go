// china-crm/models/payment.go

package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment - одна оплата студента. Начисление баланса и смена статуса
// выполняются ledger-сервисом в момент создания записи, правка
// существующего платежа студента не трогает.
type Payment struct {
	gorm.Model
	StudentID uint      `json:"studentId" gorm:"not null"`
	Student   *Student  `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	TariffID  *uint     `json:"tariffId"`
	Tariff    *Tariff   `json:"tariff,omitempty" gorm:"foreignKey:TariffID;constraint:OnDelete:SET NULL"`
	Date      time.Time `json:"date"`
	Amount    float64   `json:"amount" gorm:"type:numeric(10,2);not null;default:0"` // Может отличаться от цены тарифа, если была скидка
	Comment   string    `json:"comment"`
}
