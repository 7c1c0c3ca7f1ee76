// Package engine содержит движок выполнения workflow.
//
// Включает:
//   - context.go  — контекст выполнения: переменные и история результатов
//   - template.go — раскрытие шаблонов в параметрах шагов ({{ ... }}, __template__)
//   - executor.go — последовательное выполнение шагов с fail-fast
//   - parser.go   — парсинг и валидация определений из YAML
//
// Engine выполняет шаги строго по порядку, в один поток: параметры
// шага n+1 могут зависеть от результатов шага n. Каждый запуск владеет
// собственным Context, между запусками нет разделяемого состояния.
package engine
