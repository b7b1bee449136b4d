// china-crm/internal/storage/attachments.go
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Attachments - локальное хранилище вложений. Сохраняет байты под
// сгенерированным именем и возвращает публичный URL.
type Attachments struct {
	Dir     string // Директория на диске
	BaseURL string // Префикс, под которым директория раздается наружу
}

func NewAttachments(dir, baseURL string) *Attachments {
	return &Attachments{Dir: dir, BaseURL: baseURL}
}

// Save записывает файл под уникальным именем, сохраняя расширение исходного.
func (a *Attachments) Save(data []byte, originalName string) (string, error) {
	if err := os.MkdirAll(a.Dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("не удалось создать директорию для загрузки: %w", err)
	}

	ext := filepath.Ext(originalName)
	newFileName := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	filePath := filepath.Join(a.Dir, newFileName)

	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return "", fmt.Errorf("не удалось сохранить файл: %w", err)
	}

	return a.BaseURL + "/" + newFileName, nil
}
