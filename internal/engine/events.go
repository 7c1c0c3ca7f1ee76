package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Sequent/internal/domain"
)

// EventSink получает события жизненного цикла запуска.
//
// События чисто информационные: движок не ждёт подтверждений и
// не меняет поведение в зависимости от sink'а. Реализация в
// internal/mq публикует их в RabbitMQ.
type EventSink interface {
	// RunStarted — запуск начался.
	RunStarted(runID uuid.UUID, wf *domain.Workflow)

	// StepCompleted — шаг успешно завершён.
	StepCompleted(runID uuid.UUID, wf *domain.Workflow, result domain.StepResult)

	// RunFinished — запуск завершён (успешно или с ошибкой).
	RunFinished(runID uuid.UUID, wf *domain.Workflow, status domain.RunStatus, runErr error, duration time.Duration)
}

// NopSink — sink по умолчанию, игнорирующий все события.
type NopSink struct{}

func (NopSink) RunStarted(uuid.UUID, *domain.Workflow)                          {}
func (NopSink) StepCompleted(uuid.UUID, *domain.Workflow, domain.StepResult)    {}
func (NopSink) RunFinished(uuid.UUID, *domain.Workflow, domain.RunStatus, error, time.Duration) {
}
