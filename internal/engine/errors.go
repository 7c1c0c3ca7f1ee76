package engine

import (
	"errors"
	"fmt"
)

// Ошибки валидации определения workflow.
var (
	// ErrEmptyName — workflow без имени.
	ErrEmptyName = errors.New("workflow name is empty")

	// ErrNoSteps — workflow не содержит шагов.
	ErrNoSteps = errors.New("workflow has no steps")

	// ErrEmptyService — шаг без имени сервиса.
	ErrEmptyService = errors.New("step has empty service")

	// ErrEmptyMethod — шаг без имени метода.
	ErrEmptyMethod = errors.New("step has empty method")
)

// Ошибки рендеринга шаблонов.
var (
	// ErrTemplateParse — некорректный синтаксис шаблона.
	ErrTemplateParse = errors.New("template parse failed")

	// ErrTemplateRender — ошибка рендеринга шаблона.
	ErrTemplateRender = errors.New("template render failed")
)

// ErrStepFailed — сервис сообщил об ошибке выполнения шага.
var ErrStepFailed = errors.New("step failed")

// ValidationError — ошибка валидации определения workflow.
//
// Возникает до выполнения первого шага и всегда фатальна для запуска.
type ValidationError struct {
	Field   string // поле, вызвавшее ошибку ("name", "steps", "service", "method")
	Index   int    // индекс шага; -1 для ошибок уровня workflow
	Message string // описание ошибки
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// TemplateError — ошибка раскрытия шаблона.
//
// Несёт текст проблемного шаблона; прерывает шаг и весь запуск.
type TemplateError struct {
	Template string // исходный текст шаблона
	Message  string // описание ошибки
	Err      error  // ErrTemplateParse или ErrTemplateRender
}

// Error реализует интерфейс error.
func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %q: %s", e.Template, e.Message)
}

// Unwrap возвращает базовую ошибку.
func (e *TemplateError) Unwrap() error {
	return e.Err
}

// StepError — ошибка выполнения шага.
//
// Несёт индекс шага, сервис и метод, чтобы вызывающая сторона могла
// точно атрибутировать сбой. Всегда фатальна: retry не выполняется.
type StepError struct {
	Index   int    // индекс шага (с нуля)
	Service string // сервис шага
	Method  string // метод шага
	Message string // сообщение об ошибке от сервиса (может быть пустым)
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *StepError) Error() string {
	if errors.Is(e.Err, ErrStepFailed) {
		return fmt.Sprintf("step %d (%s.%s) returned error: %s", e.Index, e.Service, e.Method, e.Message)
	}
	return fmt.Sprintf("step %d (%s.%s) failed: %v", e.Index, e.Service, e.Method, e.Err)
}

// Unwrap возвращает базовую ошибку.
func (e *StepError) Unwrap() error {
	return e.Err
}

// newStepError создаёт StepError для логической ошибки, о которой
// сообщил сервис (response.ok=false).
func newStepError(index int, service, method, message string) *StepError {
	return &StepError{
		Index:   index,
		Service: service,
		Method:  method,
		Message: message,
		Err:     ErrStepFailed,
	}
}

// wrapStepError создаёт StepError для транспортной ошибки вызова.
func wrapStepError(index int, service, method string, err error) *StepError {
	return &StepError{
		Index:   index,
		Service: service,
		Method:  method,
		Err:     err,
	}
}
