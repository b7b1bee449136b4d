// china-crm/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/marselmagmaboy-lgtm/china-crm/config"
	"github.com/marselmagmaboy-lgtm/china-crm/internal/handlers"
	"github.com/marselmagmaboy-lgtm/china-crm/internal/importer"
	"github.com/marselmagmaboy-lgtm/china-crm/internal/routes"
	"github.com/marselmagmaboy-lgtm/china-crm/internal/services"
	"github.com/marselmagmaboy-lgtm/china-crm/internal/storage"
	"github.com/marselmagmaboy-lgtm/china-crm/internal/telegram"
	"github.com/marselmagmaboy-lgtm/china-crm/models"
)

func main() {
	// .env не обязателен: в бою все приходит из окружения
	_ = godotenv.Load()

	importFile := flag.String("import-leads", "", "Импортировать лидов из CSV-файла и выйти")
	flag.Parse()

	cfg := config.Load()
	config.ConnectDB()
	config.ConnectRedis()

	if err := config.DB.AutoMigrate(
		&models.Lead{},
		&models.Teacher{},
		&models.Group{},
		&models.Student{},
		&models.Lesson{},
		&models.Attendance{},
		&models.Tariff{},
		&models.Payment{},
		&models.Task{},
		&models.ChatMessage{},
	); err != nil {
		slog.Error("Ошибка миграции схемы", "error", err)
		os.Exit(1)
	}

	if *importFile != "" {
		runImport(*importFile)
		return
	}

	store := storage.NewAttachments(cfg.UploadDir, cfg.UploadBaseURL)
	ledger := services.NewLedger(config.DB)
	dashboard := services.NewDashboard(config.DB, config.RDB)

	// Бот не обязателен: без токена панель работает, входящих из Telegram нет
	var courier services.Courier
	var botAPI *tgbotapi.BotAPI
	if cfg.BotToken != "" {
		api, err := tgbotapi.NewBotAPI(cfg.BotToken)
		if err != nil {
			slog.Error("Не удалось подключиться к Telegram Bot API", "error", err)
			os.Exit(1)
		}
		botAPI = api
		courier = telegram.NewCourier(api)
	} else {
		slog.Warn("TELEGRAM_BOT_TOKEN не установлен, мост с Telegram отключен")
		courier = unavailableCourier{}
	}

	inbox := services.NewInbox(config.DB, courier, store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if botAPI != nil {
		listener := telegram.NewListener(botAPI, inbox)
		go listener.Run(ctx)
	}

	r := gin.Default()
	routes.SetupRoutes(r, routes.Deps{
		Lessons:  handlers.NewLessonHandler(ledger),
		Payments: handlers.NewPaymentHandler(ledger),
		Inbox:    handlers.NewInboxHandler(dashboard, inbox),
		Uploads:  handlers.NewUploadHandler(store),
	})

	slog.Info("Запуск HTTP-сервера", "addr", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		slog.Error("HTTP-сервер остановился с ошибкой", "error", err)
		os.Exit(1)
	}
}

// unavailableCourier подставляется, когда бот не сконфигурирован: попытка
// отправки возвращает ошибку доставки, сообщение в историю не попадает.
type unavailableCourier struct{}

func (unavailableCourier) Send(context.Context, int64, string) error {
	return errors.New("telegram-бот не сконфигурирован")
}

func (unavailableCourier) FetchFile(context.Context, string) ([]byte, error) {
	return nil, errors.New("telegram-бот не сконфигурирован")
}

func runImport(path string) {
	file, err := os.Open(path)
	if err != nil {
		slog.Error("Файл для импорта не найден", "path", path, "error", err)
		os.Exit(1)
	}
	defer file.Close()

	report, err := importer.ImportLeads(config.DB, file)
	if err != nil {
		slog.Error("Импорт прерван", "error", err)
		os.Exit(1)
	}
	slog.Info("Импорт завершен",
		"created", report.Created,
		"dupes", report.Dupes,
		"skipped", report.Skipped,
	)
}
