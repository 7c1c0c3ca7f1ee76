package api

import (
	"log/slog"

	"github.com/shaiso/Sequent/internal/engine"
	"github.com/shaiso/Sequent/internal/repo"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	workflowRepo *repo.WorkflowRepo
	scheduleRepo *repo.ScheduleRepo
	engine       *engine.Engine
	logger       *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	WorkflowRepo *repo.WorkflowRepo
	ScheduleRepo *repo.ScheduleRepo
	Engine       *engine.Engine
	Logger       *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		workflowRepo: cfg.WorkflowRepo,
		scheduleRepo: cfg.ScheduleRepo,
		engine:       cfg.Engine,
		logger:       cfg.Logger,
	}
}
