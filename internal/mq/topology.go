package mq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// ExchangeEvents — exchange для событий жизненного цикла запусков.
const ExchangeEvents Exchange = "sequent.events"

// Routing keys событий.
const (
	RoutingKeyRunStarted    RoutingKey = "run.started"
	RoutingKeyStepCompleted RoutingKey = "step.completed"
	RoutingKeyRunFinished   RoutingKey = "run.finished"
)

// SetupTopology объявляет exchange событий.
//
// Очереди не объявляются: каждый подписчик привязывает свою
// очередь к sequent.events с нужным routing key.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		return ch.ExchangeDeclare(
			string(ExchangeEvents), // name
			"topic",                // type
			true,                   // durable
			false,                  // auto-deleted
			false,                  // internal
			false,                  // no-wait
			nil,                    // arguments
		)
	})
}
