package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Sequent/internal/daemon"
	"github.com/shaiso/Sequent/internal/domain"
	"github.com/shaiso/Sequent/internal/telemetry"
)

// Engine выполняет workflow: шаг за шагом, строго по порядку.
//
// Fail-fast: первая же ошибка (шаблон, транспорт, ok=false от сервиса)
// прерывает весь запуск, последующие шаги не выполняются, частичный
// результат не возвращается. Retry-политика — забота вызывающей
// стороны или самого daemon-сервиса, движок не повторяет вызовы.
//
// Engine безопасен для конкурентного использования: каждый вызов
// Execute создаёт собственный Context.
type Engine struct {
	caller daemon.Caller
	logger *slog.Logger
	sink   EventSink
}

// Config — конфигурация Engine.
type Config struct {
	// Caller — клиент daemon-сервисов (обязательно).
	Caller daemon.Caller

	// Logger — структурированный логгер (default: slog.Default()).
	Logger *slog.Logger

	// Sink — получатель событий жизненного цикла (default: NopSink).
	Sink EventSink
}

// New создаёт Engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var sink EventSink = NopSink{}
	if cfg.Sink != nil {
		sink = cfg.Sink
	}

	return &Engine{
		caller: cfg.Caller,
		logger: logger,
		sink:   sink,
	}
}

// Execute выполняет workflow и возвращает итоговый результат.
//
// Определение валидируется перед выполнением: до первого вызова
// сервиса. ctx передаётся в каждый вызов daemon-сервиса; отмена
// действует через границу вызова, движок сам таймаутов не ставит.
func (e *Engine) Execute(ctx context.Context, wf *domain.Workflow) (*domain.ExecutionResult, error) {
	if err := ValidateWorkflow(wf); err != nil {
		return nil, err
	}

	runID := uuid.New()
	logger := telemetry.WithWorkflow(telemetry.WithRunID(e.logger, runID.String()), wf.Name)

	logger.Info("starting workflow", "steps", len(wf.Steps))
	e.sink.RunStarted(runID, wf)

	start := time.Now()
	runCtx := NewContext()
	stepResults := make([]domain.StepResult, 0, len(wf.Steps))

	for i := range wf.Steps {
		result, err := e.runStep(ctx, logger, runCtx, i, &wf.Steps[i])
		if err != nil {
			total := time.Since(start)
			telemetry.RunsTotal.WithLabelValues("failed").Inc()

			logger.Error("workflow failed",
				"step", i,
				"duration", total,
				"error", err,
			)
			e.sink.RunFinished(runID, wf, domain.RunStatusFailed, err, total)

			return nil, err
		}

		stepResults = append(stepResults, result)
		e.sink.StepCompleted(runID, wf, result)
	}

	total := time.Since(start)
	telemetry.RunsTotal.WithLabelValues("succeeded").Inc()
	telemetry.RunDuration.Observe(total.Seconds())

	// Результат workflow — результат последнего шага.
	final, _ := runCtx.Prev()

	logger.Info("workflow completed", "duration", total)
	e.sink.RunFinished(runID, wf, domain.RunStatusSucceeded, nil, total)

	return &domain.ExecutionResult{
		Result:      final,
		StepResults: stepResults,
		Snapshot:    runCtx.Snapshot(),
		Duration:    total,
	}, nil
}

// runStep выполняет один шаг: раскрывает параметры, вызывает сервис,
// интерпретирует ответ и обновляет контекст.
func (e *Engine) runStep(ctx context.Context, logger *slog.Logger, runCtx *Context, index int, step *domain.Step) (domain.StepResult, error) {
	stepLogger := logger.With(
		"step", index,
		"service", step.Service,
		"method", step.Method,
	)

	stepLogger.Debug("executing step")
	start := time.Now()

	// Параметры раскрываются непосредственно перед вызовом — шаг
	// видит самое свежее состояние переменных и истории.
	params, err := ResolveParams(step.Params, runCtx)
	if err != nil {
		telemetry.StepFailures.WithLabelValues(step.Service, step.Method).Inc()
		return domain.StepResult{}, fmt.Errorf("step %d (%s.%s): %w", index, step.Service, step.Method, err)
	}

	resp, err := e.caller.Call(ctx, step.Service, step.Method, params)
	if err != nil {
		telemetry.StepFailures.WithLabelValues(step.Service, step.Method).Inc()
		return domain.StepResult{}, wrapStepError(index, step.Service, step.Method, err)
	}

	if !resp.OK {
		var message string
		if resp.Error != nil {
			message = resp.Error.Message
		}
		telemetry.StepFailures.WithLabelValues(step.Service, step.Method).Inc()
		return domain.StepResult{}, newStepError(index, step.Service, step.Method, message)
	}

	// Отсутствующий payload — это nil-результат, не ошибка.
	result := resp.Result

	// Сначала история, затем именованная переменная.
	runCtx.PushResult(result)
	if step.Output != "" {
		runCtx.Set(step.Output, result)
	}

	duration := time.Since(start)
	telemetry.StepDuration.WithLabelValues(step.Service, step.Method).Observe(duration.Seconds())
	stepLogger.Debug("step completed", "duration", duration)

	return domain.StepResult{
		Index:    index,
		Step:     *step,
		Result:   result,
		Duration: duration,
	}, nil
}
