package domain

// WorkflowBuilder — fluent-конструктор для программного создания workflow.
//
// Чисто удобство поверх неизменяемой модели данных:
//
//	wf := domain.NewWorkflow("digest").
//		Description("Утренняя сводка почты").
//		Step(domain.NewStep("gmail", "gmail.unread").
//			Param("limit", 5).
//			Output("emails")).
//		Step(domain.NewStep("browser", "browser.open").
//			TemplateParam("url", "{{ emails.0.link }}")).
//		Build()
type WorkflowBuilder struct {
	wf Workflow
}

// NewWorkflow создаёт builder для workflow с указанным именем.
func NewWorkflow(name string) *WorkflowBuilder {
	return &WorkflowBuilder{wf: Workflow{Name: name}}
}

// Description устанавливает описание workflow.
func (b *WorkflowBuilder) Description(desc string) *WorkflowBuilder {
	b.wf.Description = desc
	return b
}

// Step добавляет шаг в конец списка.
func (b *WorkflowBuilder) Step(sb *StepBuilder) *WorkflowBuilder {
	b.wf.Steps = append(b.wf.Steps, sb.Build())
	return b
}

// Add добавляет уже собранный шаг.
func (b *WorkflowBuilder) Add(step Step) *WorkflowBuilder {
	b.wf.Steps = append(b.wf.Steps, step)
	return b
}

// Build возвращает собранный workflow.
func (b *WorkflowBuilder) Build() *Workflow {
	wf := b.wf
	return &wf
}

// StepBuilder — fluent-конструктор для шага.
type StepBuilder struct {
	step Step
}

// NewStep создаёт builder для шага с сервисом и методом.
func NewStep(service, method string) *StepBuilder {
	return &StepBuilder{step: Step{Service: service, Method: method}}
}

// Param добавляет параметр с литеральным значением.
func (b *StepBuilder) Param(key string, value any) *StepBuilder {
	if b.step.Params == nil {
		b.step.Params = make(map[string]any)
	}
	b.step.Params[key] = value
	return b
}

// TemplateParam добавляет параметр-шаблон (раскрывается при выполнении).
// Оборачивает строку в явный маркер __template__.
func (b *StepBuilder) TemplateParam(key, template string) *StepBuilder {
	return b.Param(key, map[string]any{"__template__": template})
}

// Params добавляет все параметры из map.
func (b *StepBuilder) Params(params map[string]any) *StepBuilder {
	for k, v := range params {
		b.Param(k, v)
	}
	return b
}

// Output устанавливает имя переменной для результата шага.
func (b *StepBuilder) Output(name string) *StepBuilder {
	b.step.Output = name
	return b
}

// Description устанавливает описание шага.
func (b *StepBuilder) Description(desc string) *StepBuilder {
	b.step.Description = desc
	return b
}

// Build возвращает собранный шаг.
func (b *StepBuilder) Build() Step {
	return b.step
}
