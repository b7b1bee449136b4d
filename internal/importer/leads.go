// china-crm/internal/importer/leads.go

// Пакет importer загружает лидов из CSV-выгрузок (Excel, гугл-таблицы
// администраторов). Файлы приходят в разных кодировках и с разными
// разделителями, поэтому и то и другое определяется на месте, а кривые
// строки пропускаются, не прерывая импорт.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"gorm.io/gorm"

	"github.com/marselmagmaboy-lgtm/china-crm/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Ожидаемые колонки выгрузки: [1] имя, [2] телефон, [4] уровень (необязателен).
const (
	colName  = 1
	colPhone = 2
	colLevel = 4
)

// Report - итог импорта для вывода оператору.
type Report struct {
	Created int // Добавлено новых лидов
	Dupes   int // Пропущено: телефон уже есть в базе
	Skipped int // Пропущено: строка без пригодного телефона (заголовки, мусор)
}

// ImportLeads читает CSV и заводит лидов со статусом "new" и синтетическим
// telegram_id вида "import_xxxxxxxx". Дедупликация по телефону.
func ImportLeads(db *gorm.DB, r io.Reader) (*Report, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text, err := decode(raw)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = detectDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	report := &Report{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Поломанная строка не должна ронять весь файл
			report.Skipped++
			continue
		}
		if len(row) <= colPhone {
			report.Skipped++
			continue
		}

		name := strings.TrimSpace(row[colName])
		phone := cleanPhone(row[colPhone])
		// Строка заголовков и пустые строки отсеиваются здесь же:
		// в них нет ничего похожего на телефон.
		if !isPhone(phone) {
			report.Skipped++
			continue
		}
		if name == "" {
			name = "Без имени"
		}

		comment := "Импорт из Excel."
		if len(row) > colLevel {
			if level := strings.TrimSpace(row[colLevel]); level != "" {
				comment += fmt.Sprintf("\nУровень: %s", level)
			}
		}

		syntheticID := "import_" + uuid.New().String()[:8]
		lead := models.Lead{}
		res := db.Where(models.Lead{Phone: phone}).
			Attrs(models.Lead{
				FirstName:      name,
				TelegramID:     &syntheticID,
				Source:         "Import",
				Status:         models.LeadStatusNew,
				ManagerComment: comment,
			}).
			FirstOrCreate(&lead)
		if res.Error != nil {
			return report, res.Error
		}
		if res.RowsAffected > 0 {
			report.Created++
		} else {
			report.Dupes++
		}
	}

	return report, nil
}

// decode приводит файл к UTF-8: срезает BOM, а не-UTF-8 содержимое
// считает windows-1251 (так выгружает старый Excel).
func decode(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := charmap.Windows1251.NewDecoder().Bytes(raw)
	if err != nil {
		return "", errors.New("не удалось распознать кодировку файла")
	}
	return string(decoded), nil
}

// detectDelimiter выбирает разделитель по первой строке файла.
func detectDelimiter(text string) rune {
	firstLine, _, _ := strings.Cut(text, "\n")
	if strings.Count(firstLine, ";") >= strings.Count(firstLine, ",") {
		return ';'
	}
	return ','
}

// isPhone: минимум 5 цифр, допускается ведущий "+".
func isPhone(s string) bool {
	s = strings.TrimPrefix(s, "+")
	if len(s) < 5 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// cleanPhone убирает из номера пробелы, дефисы и скобки.
func cleanPhone(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
