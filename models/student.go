// china-crm/models/student.go

package models

import "gorm.io/gorm"

// StudentStatus - статус студента в школе.
type StudentStatus string

const (
	StudentStatusActive StudentStatus = "active" // Активен
	StudentStatusPaused StudentStatus = "paused" // Заморозка
	StudentStatusBanned StudentStatus = "banned" // Исключен (много прогулов)
)

// Student - ученик, который уже занимается в школе.
type Student struct {
	gorm.Model
	LeadID   *uint  `json:"leadId" gorm:"uniqueIndex"` // Из какого лида пришел; связь слабая, лид может быть удален
	Lead     *Lead  `json:"lead,omitempty" gorm:"foreignKey:LeadID;constraint:OnDelete:SET NULL"`
	FullName string `json:"fullName" gorm:"not null"`
	Phone    string `json:"phone"`
	GroupID  *uint  `json:"groupId"`
	Group    *Group `json:"group,omitempty" gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL"`

	// Баланс и статус меняет только ledger-сервис (отметки посещаемости и платежи).
	Status    StudentStatus `json:"studentStatus" gorm:"column:student_status;type:varchar(20);not null;default:'active'"`
	Balance   int           `json:"balance" gorm:"not null;default:0"` // Остаток оплаченных уроков, может уходить в минус
	TotalPaid float64       `json:"totalPaid" gorm:"type:numeric(10,2);not null;default:0"`

	Payments []Payment `json:"-" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
}
