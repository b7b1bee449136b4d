// china-crm/internal/services/errors.go
package services

import "errors"

var (
	// ErrDuplicateAttendance - на этом уроке студент уже отмечен.
	ErrDuplicateAttendance = errors.New("отметка для этой пары урок-студент уже существует")

	// ErrNoTelegramIdentity - у лида нет настоящего Telegram ID
	// (заявка с сайта или из импорта), отправить в канал нечем.
	ErrNoTelegramIdentity = errors.New("у лида нет Telegram-идентификатора для отправки")

	// ErrDeliveryFailed - внешний канал не принял сообщение.
	ErrDeliveryFailed = errors.New("не удалось доставить сообщение во внешний канал")

	// ErrNotFound - запрошенная запись отсутствует.
	ErrNotFound = errors.New("запись не найдена")
)
