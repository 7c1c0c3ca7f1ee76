package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shaiso/Sequent/internal/domain"
)

func TestParse(t *testing.T) {
	data := []byte(`
name: morning-digest
description: Утренняя сводка почты
steps:
  - service: gmail
    method: gmail.unread
    params:
      limit: 5
    output: emails
  - service: browser
    method: browser.open
    params:
      url: "{{ emails.0.link }}"
`)

	wf, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if wf.Name != "morning-digest" {
		t.Errorf("Name = %q", wf.Name)
	}
	if len(wf.Steps) != 2 {
		t.Fatalf("Steps len = %d, want 2", len(wf.Steps))
	}
	if wf.Steps[0].Output != "emails" {
		t.Errorf("step 0 output = %q", wf.Steps[0].Output)
	}
	if wf.Steps[0].Params["limit"] != 5 {
		t.Errorf("step 0 limit = %#v", wf.Steps[0].Params["limit"])
	}
	if wf.Steps[1].Params["url"] != "{{ emails.0.link }}" {
		t.Errorf("step 1 url = %#v", wf.Steps[1].Params["url"])
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("name: [unclosed"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse workflow yaml") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestValidateWorkflow(t *testing.T) {
	tests := []struct {
		name     string
		wf       *domain.Workflow
		sentinel error
		message  string
		index    int
	}{
		{
			name:     "empty name",
			wf:       &domain.Workflow{Steps: []domain.Step{{Service: "a", Method: "m"}}},
			sentinel: ErrEmptyName,
			message:  "workflow name cannot be empty",
			index:    -1,
		},
		{
			name:     "no steps",
			wf:       &domain.Workflow{Name: "x"},
			sentinel: ErrNoSteps,
			message:  "workflow must have at least one step",
			index:    -1,
		},
		{
			name: "empty service",
			wf: &domain.Workflow{Name: "x", Steps: []domain.Step{
				{Service: "a", Method: "m"},
				{Method: "m"},
			}},
			sentinel: ErrEmptyService,
			message:  "step 1 has empty service name",
			index:    1,
		},
		{
			name: "empty method",
			wf: &domain.Workflow{Name: "x", Steps: []domain.Step{
				{Service: "a"},
			}},
			sentinel: ErrEmptyMethod,
			message:  "step 0 has empty method name",
			index:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWorkflow(tt.wf)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("error should wrap sentinel: %v", err)
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error should be *ValidationError: %v", err)
			}
			if vErr.Index != tt.index {
				t.Errorf("Index = %d, want %d", vErr.Index, tt.index)
			}
			if err.Error() != tt.message {
				t.Errorf("message = %q, want %q", err.Error(), tt.message)
			}
		})
	}

	valid := &domain.Workflow{
		Name:  "ok",
		Steps: []domain.Step{{Service: "a", Method: "m"}},
	}
	if err := ValidateWorkflow(valid); err != nil {
		t.Errorf("valid workflow rejected: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wf.yaml")
	data := []byte("name: from-file\nsteps:\n  - service: a\n    method: a.m\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	wf, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if wf.Name != "from-file" {
		t.Errorf("Name = %q", wf.Name)
	}

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}
