// Package daemon реализует клиент для вызова daemon-сервисов.
//
// Контракт вызова:
//
//	call(service, method, params) → {ok, result, error}
//
// Движок workflow видит только этот контракт. Обнаружение сервисов,
// автостарт, переподключения и retry-политика — зона ответственности
// самих daemon-сервисов и этого клиента, в движок они не протекают.
//
// Транспорт — HTTP/JSON: каждый сервис слушает свой endpoint,
// вызов выполняется как POST {endpoint}/call с телом
// {"method": "...", "params": {...}}.
package daemon
