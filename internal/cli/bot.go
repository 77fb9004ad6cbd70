package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"neurohr-interview/internal/apiclient"
	"neurohr-interview/internal/telegram"
)

var botAPIURL string

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Запустить Telegram бота",
	Long: `Запускает Telegram бота с long polling. Токен берется из TELEGRAM_BOT_TOKEN.
С --api-url бот работает через HTTP API запущенного сервера (API_KEY
используется как Bearer токен), иначе открывает базу и генератор сам.`,
	RunE: runBot,
}

func init() {
	botCmd.Flags().StringVar(&botAPIURL, "api-url", "", "Адрес HTTP API, например http://127.0.0.1:8000")
}

func runBot(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.cfg.ValidateTelegram(); err != nil {
		return err
	}

	var interviews telegram.Interviews
	if botAPIURL != "" {
		interviews = apiclient.New(botAPIURL, a.cfg.Server.APIKey, a.cfg.Server.WriteTimeout)
		a.logger.Info("бот работает через HTTP API", "api_url", botAPIURL)
	} else {
		if err := a.initService(ctx); err != nil {
			return err
		}
		interviews = a.service
	}

	bot := telegram.New(a.cfg.Telegram, a.logger)
	handler := telegram.NewHandler(bot, interviews, a.interview, a.logger)
	handler.StartCleanup(ctx)

	a.logger.Info("Telegram бот запущен", "history_limit", a.interview.GetHistoryLimit())

	handle := handler.HandleUpdate
	if a.cfg.Telegram.Debug {
		handle = func(ctx context.Context, update telegram.Update) {
			a.logger.Debug("обновление Telegram", "update_id", update.UpdateID, "has_message", update.Message != nil)
			handler.HandleUpdate(ctx, update)
		}
	}

	if err := bot.StartPolling(ctx, handle); err != nil {
		return err
	}

	a.logger.Info("Telegram бот остановлен")
	return nil
}
