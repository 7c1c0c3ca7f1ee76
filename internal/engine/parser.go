package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shaiso/Sequent/internal/domain"
)

// Parse парсит определение workflow из YAML и валидирует его.
//
// Формат:
//
//	name: morning-digest
//	description: Утренняя сводка почты
//	steps:
//	  - service: gmail
//	    method: gmail.unread
//	    params:
//	      limit: 5
//	    output: emails
//	  - service: browser
//	    method: browser.open
//	    params:
//	      url: "{{ emails.0.link }}"
func Parse(data []byte) (*domain.Workflow, error) {
	var wf domain.Workflow
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("parse workflow yaml: %w", err)
	}

	if err := ValidateWorkflow(&wf); err != nil {
		return nil, err
	}

	return &wf, nil
}

// LoadFile читает и парсит определение workflow из файла.
func LoadFile(path string) (*domain.Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow file %s: %w", path, err)
	}

	wf, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("workflow file %s: %w", path, err)
	}

	return wf, nil
}

// ValidateWorkflow выполняет полную валидацию определения.
//
// Проверяет:
//   - непустое имя workflow
//   - наличие хотя бы одного шага
//   - непустые service и method у каждого шага
//
// Ошибки поднимаются до выполнения первого шага и фатальны.
func ValidateWorkflow(wf *domain.Workflow) error {
	if wf == nil || wf.Name == "" {
		return &ValidationError{
			Field:   "name",
			Index:   -1,
			Message: "workflow name cannot be empty",
			Err:     ErrEmptyName,
		}
	}

	if len(wf.Steps) == 0 {
		return &ValidationError{
			Field:   "steps",
			Index:   -1,
			Message: "workflow must have at least one step",
			Err:     ErrNoSteps,
		}
	}

	for i := range wf.Steps {
		step := &wf.Steps[i]

		if step.Service == "" {
			return &ValidationError{
				Field:   "service",
				Index:   i,
				Message: fmt.Sprintf("step %d has empty service name", i),
				Err:     ErrEmptyService,
			}
		}

		if step.Method == "" {
			return &ValidationError{
				Field:   "method",
				Index:   i,
				Message: fmt.Sprintf("step %d has empty method name", i),
				Err:     ErrEmptyMethod,
			}
		}
	}

	return nil
}
