// Package cli описывает команды neurohr: HTTP сервер и Telegram бот.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	envFile string
	version = "dev" // задается через ldflags при сборке
)

var rootCmd = &cobra.Command{
	Use:   "neurohr",
	Short: "Нейро-HR: технические собеседования с обратной связью от модели",
	Long: `Нейро-HR проводит техническое собеседование: 10 вопросов по выбранной
позиции, ответы кандидата и развернутый фидбэк от языковой модели.
Доступен через HTTP API (serve) и Telegram бота (bot).`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute запускает корневую команду. Вызывается из main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Путь к .env файлу")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(botCmd)
}
