package domain

import (
	"time"
)

// Workflow — последовательность вызовов daemon-сервисов.
//
// Workflow — это "рецепт": упорядоченный список шагов, каждый из которых
// вызывает метод внешнего сервиса. Результаты шагов передаются дальше
// через именованные переменные и историю результатов ($prev, $results).
//
// Workflow неизменяем после создания. Один и тот же workflow можно
// выполнять сколько угодно раз — выполнение его не мутирует.
type Workflow struct {
	// Name — имя workflow (обязательно, непустое).
	Name string `yaml:"name" json:"name"`

	// Description — описание назначения workflow.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Steps — упорядоченный список шагов (минимум один).
	Steps []Step `yaml:"steps" json:"steps"`
}

// Step — один вызов daemon-сервиса в рамках workflow.
type Step struct {
	// Service — имя целевого сервиса (например, "gmail", "browser").
	// Обязательно, непустое.
	Service string `yaml:"service" json:"service"`

	// Method — имя вызываемого метода (например, "gmail.inbox").
	// Обязательно, непустое.
	Method string `yaml:"method" json:"method"`

	// Params — параметры вызова. Значения могут содержать шаблоны:
	//   - inline:  "{{ emails.0.link }}"
	//   - явный маркер: {"__template__": "{{ count }} items"}
	// Шаблоны раскрываются непосредственно перед вызовом.
	Params map[string]any `yaml:"params,omitempty" json:"params,omitempty"`

	// Output — имя переменной, в которую сохраняется результат шага.
	// Пустая строка — результат доступен только через $prev/$results.
	Output string `yaml:"output,omitempty" json:"output,omitempty"`

	// Description — описание шага. Только для документации и логов.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// StepResult — результат выполнения одного шага.
type StepResult struct {
	// Index — порядковый номер шага (с нуля).
	Index int `json:"index"`

	// Step — копия определения выполненного шага.
	Step Step `json:"step"`

	// Result — результат, возвращённый сервисом (nil, если сервис
	// не вернул payload).
	Result any `json:"result"`

	// Duration — длительность выполнения шага.
	Duration time.Duration `json:"duration"`
}

// ExecutionResult — итог выполнения workflow.
type ExecutionResult struct {
	// Result — результат последнего шага.
	// Nil, если workflow не содержал шагов (валидация такое отсекает).
	Result any `json:"result"`

	// StepResults — результаты всех шагов в порядке выполнения.
	StepResults []StepResult `json:"step_results"`

	// Snapshot — финальное состояние контекста: переменные плюс
	// синтетические записи $prev и $results.
	Snapshot map[string]any `json:"context_snapshot"`

	// Duration — общая длительность выполнения.
	Duration time.Duration `json:"duration"`
}
