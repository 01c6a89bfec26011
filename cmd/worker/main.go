package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leadbeacon/beacon/internal/bootstrap"
	"github.com/leadbeacon/beacon/internal/config"
	"github.com/leadbeacon/beacon/internal/infrastructure/sheet"
	"github.com/leadbeacon/beacon/internal/observability/logging"
	"github.com/leadbeacon/beacon/internal/observability/metrics"
)

const serviceName = "worker"

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appender := sheet.NewAppender(cfg.SheetPath, cfg.SheetName, cfg.ReportBaseURL)
	app, err := bootstrap.NewWorker(ctx, cfg, appender)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	m := metrics.NewWorkerMetrics(serviceName)
	metricsServer := serveMetrics(cfg.WorkerMetricsPort, m)
	defer shutdownMetrics(metricsServer)

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject, "sheet", cfg.SheetPath)
	err = app.Events.SubscribeAuditCreated(ctx, func(handlerCtx context.Context, auditID string) error {
		appendCtx, cancel := context.WithTimeout(handlerCtx, 30*time.Second)
		defer cancel()

		m.StartAppend()
		start := time.Now()
		appendErr := app.LogUC.LogByID(appendCtx, auditID)
		m.FinishAppend(serviceName, time.Since(start), appendErr)
		return appendErr
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}

func serveMetrics(port string, m *metrics.WorkerMetrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("worker_metrics_server_error", "error", err)
		}
	}()
	return server
}

func shutdownMetrics(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctx)
}
