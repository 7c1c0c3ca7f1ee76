package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Sequent/internal/daemon"
	"github.com/shaiso/Sequent/internal/engine"
	"github.com/shaiso/Sequent/internal/mq"
	"github.com/shaiso/Sequent/internal/repo"
	"github.com/shaiso/Sequent/internal/scheduler"
	"github.com/shaiso/Sequent/internal/telemetry"
)

func main() {
	logger := telemetry.SetupLogger()
	logger.Info("starting sequent-scheduler")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	registry := daemon.RegistryFromEnv()
	logger.Info("registered daemon services", "services", registry.Services())

	var sink engine.EventSink
	if url := os.Getenv("MQ_URL"); url != "" {
		conn, err := mq.NewConnection(url, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer conn.Close()

		if err := mq.SetupTopology(ctx, conn); err != nil {
			logger.Error("failed to setup mq topology", "error", err)
			os.Exit(1)
		}

		sink = mq.NewEventPublisher(conn, logger)
		logger.Info("connected to rabbitmq")
	}

	eng := engine.New(engine.Config{
		Caller: daemon.NewClient(registry, logger),
		Logger: logger,
		Sink:   sink,
	})

	sched := scheduler.New(scheduler.Config{
		ScheduleRepo: repo.NewScheduleRepo(pool),
		WorkflowRepo: repo.NewWorkflowRepo(pool),
		Engine:       eng,
		Logger:       logger,
	})

	// Интервал тика настраивается через TICK_INTERVAL_SEC (default: 5)
	interval := 5 * time.Second
	if v := os.Getenv("TICK_INTERVAL_SEC"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			interval = time.Duration(sec) * time.Second
		}
	}

	go sched.Run(ctx, interval)

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	addr := ":8081"
	if v := os.Getenv("SCHED_PORT"); v != "" {
		addr = ":" + v
	}

	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}
