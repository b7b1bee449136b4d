// china-crm/internal/handlers/upload_handler.go
package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marselmagmaboy-lgtm/china-crm/internal/storage"
)

// UploadHandler принимает файлы из панели и кладет их в хранилище вложений.
type UploadHandler struct {
	Store *storage.Attachments
}

func NewUploadHandler(store *storage.Attachments) *UploadHandler {
	return &UploadHandler{Store: store}
}

func (h *UploadHandler) UploadFileHandler(c *gin.Context) {
	// Максимальный размер тела запроса 10.5 MB
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 10<<20+512)

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Файл не предоставлен или слишком большой"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось прочитать файл"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось прочитать файл"})
		return
	}

	url, err := h.Store.Save(data, file.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось сохранить файл"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":  url,
		"name": file.Filename,
		"size": file.Size,
	})
}
