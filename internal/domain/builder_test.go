package domain

import "testing"

func TestWorkflowBuilder(t *testing.T) {
	wf := NewWorkflow("test").
		Description("Test workflow").
		Step(NewStep("gmail", "gmail.inbox").
			Param("limit", 5).
			Output("emails")).
		Step(NewStep("browser", "browser.open").
			TemplateParam("url", "{{ emails.0.link }}")).
		Build()

	if wf.Name != "test" {
		t.Errorf("expected name test, got %q", wf.Name)
	}
	if len(wf.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(wf.Steps))
	}
	if wf.Steps[0].Service != "gmail" || wf.Steps[0].Method != "gmail.inbox" {
		t.Errorf("unexpected first step: %+v", wf.Steps[0])
	}
	if wf.Steps[0].Params["limit"] != 5 {
		t.Errorf("expected limit=5, got %v", wf.Steps[0].Params["limit"])
	}
	if wf.Steps[0].Output != "emails" {
		t.Errorf("expected output emails, got %q", wf.Steps[0].Output)
	}
}

func TestStepBuilder_TemplateParam(t *testing.T) {
	step := NewStep("browser", "browser.open").
		TemplateParam("url", "{{ emails.0.link }}").
		Build()

	marker, ok := step.Params["url"].(map[string]any)
	if !ok {
		t.Fatalf("url param should be a marker map, got %T", step.Params["url"])
	}
	if marker["__template__"] != "{{ emails.0.link }}" {
		t.Errorf("unexpected template: %v", marker["__template__"])
	}
}

func TestWorkflowBuilder_Immutable(t *testing.T) {
	b := NewWorkflow("wf").Step(NewStep("svc", "svc.m"))
	first := b.Build()
	b.Step(NewStep("svc", "svc.other"))
	second := b.Build()

	if len(first.Steps) != 1 {
		t.Errorf("first build should keep 1 step, got %d", len(first.Steps))
	}
	if len(second.Steps) != 2 {
		t.Errorf("second build should have 2 steps, got %d", len(second.Steps))
	}
}
