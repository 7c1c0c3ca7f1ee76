// Package scheduler реализует планировщик расписаний.
//
// Планировщик периодически опрашивает таблицу schedules, находит
// due-записи и синхронно выполняет соответствующие workflow через
// engine. Результат каждого запуска фиксируется в расписании
// (last_run_at, last_status), после чего вычисляется следующее
// время запуска.
package scheduler
