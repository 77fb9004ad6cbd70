package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"neurohr-interview/internal/config"
	"neurohr-interview/internal/generator"
	"neurohr-interview/internal/interviewer"
	"neurohr-interview/internal/metrics"
	"neurohr-interview/internal/storage"
	"neurohr-interview/internal/telemetry"
)

// app общие зависимости команд
type app struct {
	cfg       *config.AppConfig
	interview *config.Config
	logger    *slog.Logger
	registry  *prometheus.Registry
	metrics   *metrics.Metrics

	store     *storage.Store
	generator *generator.Service
	service   *interviewer.Service

	closers []func()
}

// newApp загружает конфигурацию и поднимает логирование и трассировку
func newApp(ctx context.Context) (*app, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, err
	}

	cfg := config.LoadAppConfig()

	interviewCfg, err := config.Load(cfg.InterviewFile)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации интервью: %w", err)
	}

	logger, closeLog, err := telemetry.InitLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		interview: interviewCfg,
		logger:    logger,
		closers:   []func(){func() { closeLog() }},
	}

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Tracing, version)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, shutdownTracing)

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = metrics.NewMetrics(a.registry)

	return a, nil
}

// initService открывает базу и создает генератор и сервис собеседований
func (a *app) initService(ctx context.Context) error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("некорректная конфигурация: %w", err)
	}

	store, err := storage.Open(a.cfg.Database.URL)
	if err != nil {
		return err
	}
	a.store = store
	a.closers = append(a.closers, func() {
		if err := store.Close(); err != nil {
			a.logger.Error("ошибка закрытия базы", "error", err)
		}
	})

	completer, err := generator.NewCompleter(ctx, a.cfg.Generator)
	if err != nil {
		return err
	}

	a.generator = generator.NewService(completer, a.interview.FallbackQuestions, a.metrics, a.logger)
	a.service = interviewer.New(store, a.generator, interviewer.Options{
		WelcomeMessage: a.interview.GetWelcomeMessage(),
		Metrics:        a.metrics,
		Logger:         a.logger,
	})

	a.logger.Info("сервис собеседований готов",
		"backend", a.cfg.Generator.Backend, "model", a.generator.Model())

	return nil
}

// Close освобождает ресурсы в обратном порядке
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
