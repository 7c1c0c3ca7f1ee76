package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/Sequent/internal/domain"
	"github.com/shaiso/Sequent/internal/engine"
	"github.com/shaiso/Sequent/internal/repo"
)

// Scheduler — планировщик, выполняющий due-расписания.
type Scheduler struct {
	scheduleRepo *repo.ScheduleRepo
	workflowRepo *repo.WorkflowRepo
	engine       *engine.Engine
	logger       *slog.Logger
	batchSize    int
}

// Config — конфигурация Scheduler.
type Config struct {
	ScheduleRepo *repo.ScheduleRepo
	WorkflowRepo *repo.WorkflowRepo
	Engine       *engine.Engine
	Logger       *slog.Logger
	BatchSize    int // количество расписаний за один тик (default: 100)
}

// New создаёт новый Scheduler.
func New(cfg Config) *Scheduler {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	return &Scheduler{
		scheduleRepo: cfg.ScheduleRepo,
		workflowRepo: cfg.WorkflowRepo,
		engine:       cfg.Engine,
		logger:       cfg.Logger,
		batchSize:    batchSize,
	}
}

// Tick выполняет один тик планировщика.
//
// 1. Находит due-расписания (enabled=true, next_due_at <= now)
// 2. Для каждого синхронно выполняет workflow
// 3. Фиксирует исход и новое next_due_at
//
// Ошибки одного расписания не блокируют обработку остальных.
// Состояние самого запуска нигде не сохраняется — в расписании
// остаётся только итог (last_status).
func (s *Scheduler) Tick(ctx context.Context) error {
	now := time.Now()

	schedules, err := s.scheduleRepo.ListDue(ctx, now, s.batchSize)
	if err != nil {
		return fmt.Errorf("list due schedules: %w", err)
	}

	if len(schedules) == 0 {
		return nil
	}

	s.logger.Debug("found due schedules", "count", len(schedules))

	var processed, succeeded int
	for i := range schedules {
		sched := &schedules[i]

		status, err := s.processSchedule(ctx, sched, now)
		if err != nil {
			s.logger.Error("failed to process schedule",
				"schedule_id", sched.ID,
				"schedule_name", sched.Name,
				"error", err,
			)
			// Продолжаем обработку остальных
			continue
		}

		processed++
		if status == domain.RunStatusSucceeded {
			succeeded++
		}
	}

	s.logger.Info("scheduler tick completed",
		"due", len(schedules),
		"processed", processed,
		"succeeded", succeeded,
	)

	return nil
}

// processSchedule выполняет workflow одного расписания и фиксирует исход.
func (s *Scheduler) processSchedule(ctx context.Context, sched *domain.Schedule, now time.Time) (domain.RunStatus, error) {
	sw, err := s.workflowRepo.GetByID(ctx, sched.WorkflowID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// Определение удалено — расписание больше не имеет смысла
			s.logger.Warn("workflow not found for schedule, disabling",
				"schedule_id", sched.ID,
				"workflow_id", sched.WorkflowID,
			)
			if err := s.scheduleRepo.SetEnabled(ctx, sched.ID, false); err != nil {
				return "", fmt.Errorf("disable orphan schedule: %w", err)
			}
			return "", nil
		}
		return "", fmt.Errorf("get workflow: %w", err)
	}

	status := domain.RunStatusSucceeded
	if _, err := s.engine.Execute(ctx, &sw.Spec); err != nil {
		// Провал запуска — исход, а не ошибка планировщика
		status = domain.RunStatusFailed
		s.logger.Warn("scheduled run failed",
			"schedule_id", sched.ID,
			"workflow", sw.Spec.Name,
			"error", err,
		)
	}

	nextDue, err := CalculateNextDue(sched, now)
	if err != nil {
		s.logger.Error("failed to calculate next due, disabling schedule",
			"schedule_id", sched.ID,
			"error", err,
		)
		if err := s.scheduleRepo.SetEnabled(ctx, sched.ID, false); err != nil {
			return status, fmt.Errorf("disable schedule: %w", err)
		}
		return status, nil
	}

	if err := s.scheduleRepo.MarkRun(ctx, sched.ID, now, status, nextDue); err != nil {
		return status, fmt.Errorf("mark schedule run: %w", err)
	}

	return status, nil
}

// Run запускает цикл планировщика до отмены контекста.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	s.logger.Info("scheduler started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				s.logger.Error("scheduler tick failed", "error", err)
			}
		}
	}
}
