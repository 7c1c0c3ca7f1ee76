package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Sequent/internal/domain"
)

const publishTimeout = 5 * time.Second

// Event — событие жизненного цикла запуска.
type Event struct {
	// ID — уникальный идентификатор события.
	ID string `json:"id"`

	// RunID — идентификатор запуска.
	RunID uuid.UUID `json:"run_id"`

	// Workflow — имя workflow.
	Workflow string `json:"workflow"`

	// Timestamp — время события.
	Timestamp time.Time `json:"timestamp"`

	// --- step.completed ---

	// StepIndex — индекс завершённого шага.
	StepIndex *int `json:"step_index,omitempty"`

	// Service и Method — адрес вызова завершённого шага.
	Service string `json:"service,omitempty"`
	Method  string `json:"method,omitempty"`

	// --- run.finished ---

	// Status — финальный статус запуска (SUCCEEDED/FAILED).
	Status domain.RunStatus `json:"status,omitempty"`

	// Error — текст ошибки при FAILED.
	Error string `json:"error,omitempty"`

	// DurationMS — длительность в миллисекундах.
	DurationMS float64 `json:"duration_ms,omitempty"`
}

// EventPublisher публикует события запусков в RabbitMQ.
//
// Реализует engine.EventSink. Сбои публикации только логируются:
// события информационные и не должны влиять на выполнение.
type EventPublisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewEventPublisher создаёт EventPublisher.
func NewEventPublisher(conn *Connection, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{
		conn:   conn,
		logger: logger,
	}
}

// RunStarted публикует событие run.started.
func (p *EventPublisher) RunStarted(runID uuid.UUID, wf *domain.Workflow) {
	p.publish(RoutingKeyRunStarted, &Event{
		ID:        uuid.New().String(),
		RunID:     runID,
		Workflow:  wf.Name,
		Timestamp: time.Now(),
	})
}

// StepCompleted публикует событие step.completed.
func (p *EventPublisher) StepCompleted(runID uuid.UUID, wf *domain.Workflow, result domain.StepResult) {
	index := result.Index
	p.publish(RoutingKeyStepCompleted, &Event{
		ID:         uuid.New().String(),
		RunID:      runID,
		Workflow:   wf.Name,
		Timestamp:  time.Now(),
		StepIndex:  &index,
		Service:    result.Step.Service,
		Method:     result.Step.Method,
		DurationMS: float64(result.Duration) / float64(time.Millisecond),
	})
}

// RunFinished публикует событие run.finished.
func (p *EventPublisher) RunFinished(runID uuid.UUID, wf *domain.Workflow, status domain.RunStatus, runErr error, duration time.Duration) {
	event := &Event{
		ID:         uuid.New().String(),
		RunID:      runID,
		Workflow:   wf.Name,
		Timestamp:  time.Now(),
		Status:     status,
		DurationMS: float64(duration) / float64(time.Millisecond),
	}
	if runErr != nil {
		event.Error = runErr.Error()
	}

	p.publish(RoutingKeyRunFinished, event)
}

// publish сериализует и отправляет событие.
func (p *EventPublisher) publish(key RoutingKey, event *Event) {
	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal event", "routing_key", key, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(ExchangeEvents), // exchange
			string(key),            // routing key
			false,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				MessageId:   event.ID,
				Timestamp:   event.Timestamp,
				Body:        body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish %s: %w", key, err)
		}
		return nil
	})
	if err != nil {
		// Событие теряется, выполнение продолжается.
		p.logger.Warn("failed to publish event",
			"routing_key", key,
			"run_id", event.RunID,
			"error", err,
		)
		return
	}

	p.logger.Debug("published event",
		"routing_key", key,
		"run_id", event.RunID,
		"message_id", event.ID,
	)
}
