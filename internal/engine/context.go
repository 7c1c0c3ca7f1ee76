package engine

// Context — контекст выполнения workflow.
//
// Хранит именованные переменные (результаты шагов с output) и
// упорядоченную историю результатов всех шагов. Создаётся пустым
// в начале запуска, мутируется только step runner'ом после каждого
// успешного шага. Context принадлежит ровно одному запуску —
// разделять его между параллельными запусками нельзя.
type Context struct {
	variables map[string]any
	results   []any
}

// Синтетические ключи snapshot'а. Доступны в шаблонах и под
// зарезервированным префиксом ($prev, $results), и без него.
const (
	// KeyPrev — результат последнего завершённого шага.
	KeyPrev = "$prev"

	// KeyResults — все результаты в порядке выполнения.
	KeyResults = "$results"
)

// NewContext создаёт пустой контекст.
func NewContext() *Context {
	return &Context{
		variables: make(map[string]any),
	}
}

// Set устанавливает переменную. Существующее значение молча
// перезаписывается (последняя запись выигрывает).
func (c *Context) Set(name string, value any) {
	c.variables[name] = value
}

// Get возвращает значение переменной. Отсутствие переменной —
// не ошибка: второе возвращаемое значение false.
func (c *Context) Get(name string) (any, bool) {
	v, ok := c.variables[name]
	return v, ok
}

// PushResult добавляет результат шага в историю.
// История append-only: порядок записей равен порядку выполнения.
func (c *Context) PushResult(value any) {
	c.results = append(c.results, value)
}

// Prev возвращает результат последнего завершённого шага.
// False, если ещё ни один шаг не завершился.
func (c *Context) Prev() (any, bool) {
	if len(c.results) == 0 {
		return nil, false
	}
	return c.results[len(c.results)-1], true
}

// Results возвращает историю результатов в порядке выполнения.
func (c *Context) Results() []any {
	return c.results
}

// Snapshot материализует состояние контекста в один map:
// все переменные плюс синтетические записи $prev/$results
// (и их безпрефиксные алиасы prev/results).
//
// Используется как scope для раскрытия шаблонов и попадает
// в ExecutionResult для внешней инспекции.
func (c *Context) Snapshot() map[string]any {
	snap := make(map[string]any, len(c.variables)+4)
	for k, v := range c.variables {
		snap[k] = v
	}

	if prev, ok := c.Prev(); ok {
		snap[KeyPrev] = prev
		snap["prev"] = prev
	}

	results := make([]any, len(c.results))
	copy(results, c.results)
	snap[KeyResults] = results
	snap["results"] = results

	return snap
}
