// Package mq публикует события жизненного цикла запусков в RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением (reconnect, graceful shutdown)
//   - topology.go   — объявление exchange
//   - events.go     — EventPublisher, реализация engine.EventSink
//
// События (routing keys в exchange sequent.events):
//   - run.started    — запуск начался
//   - step.completed — шаг успешно завершён
//   - run.finished   — запуск завершён
//
// События информационные: подписчики (дашборды, аудит) объявляют
// собственные очереди и привязывают их к exchange. Движок не ждёт
// подтверждений и продолжает работу при сбоях публикации.
package mq
