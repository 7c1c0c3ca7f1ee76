// Package cli реализует инструмент командной строки Sequent.
//
// # Обзор
//
// CLI работает в двух режимах:
//   - клиент Sequent API (workflow, schedule) — через HTTP;
//   - локальное выполнение (exec, validate) — YAML-файл определения
//     выполняется прямо из процесса CLI через engine, сервисы
//     берутся из переменной окружения SERVICES.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Sequent API. Инкапсулирует все HTTP-запросы,
// парсинг ответов (DataResponse, ListResponse, ErrorResponse)
// и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8080")
//	workflows, err := client.ListWorkflows()
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: sequent workflow list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - workflow: list, create, show, update, delete, run
//   - schedule: list, create, show, update, delete, enable, disable
//   - exec, validate: локальная работа с YAML-файлами
//
// Каждая группа создаётся через фабричную функцию (NewWorkflowCmd
// и т.д.), принимающую clientFn и outputFn — замыкания для ленивого
// создания Client и Output после парсинга PersistentFlags.
package cli
