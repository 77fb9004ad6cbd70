package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"neurohr-interview/internal/api"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запустить HTTP API",
	Long: `Запускает HTTP API собеседований (/api/*), /health и /metrics.
Адрес берется из HOST и PORT, флаги переопределяют окружение.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Адрес для прослушивания (по умолчанию HOST)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Порт (по умолчанию PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if serveHost != "" {
		a.cfg.Server.Host = serveHost
	}
	if servePort != 0 {
		a.cfg.Server.Port = servePort
	}

	if err := a.initService(ctx); err != nil {
		return err
	}

	router := api.NewRouter(api.RouterConfig{
		Interviews: a.service,
		DB:         a.store,
		Model:      a.generator.Model(),
		Metrics:    promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}),
		APIKey:     a.cfg.Server.APIKey,
		Logger:     a.logger,
	})

	srv := &http.Server{
		Addr:         a.cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP сервер запущен", "addr", srv.Addr, "auth", a.cfg.Server.APIKey != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("ошибка HTTP сервера: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("остановка HTTP сервера")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ошибка остановки сервера: %w", err)
	}

	a.logger.Info("HTTP сервер остановлен")
	return nil
}
