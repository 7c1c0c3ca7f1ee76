package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Sequent/internal/daemon"
	"github.com/shaiso/Sequent/internal/domain"
)

// recordedCall фиксирует один вызов fakeCaller.
type recordedCall struct {
	Service string
	Method  string
	Params  map[string]any
}

// fakeCaller — Caller для тестов: отдаёт ответы по очереди и
// записывает все вызовы.
type fakeCaller struct {
	responses []daemon.Response
	err       error
	calls     []recordedCall
}

func (f *fakeCaller) Call(_ context.Context, service, method string, params map[string]any) (*daemon.Response, error) {
	f.calls = append(f.calls, recordedCall{Service: service, Method: method, Params: params})
	if f.err != nil {
		return nil, f.err
	}
	if len(f.calls) > len(f.responses) {
		return nil, errors.New("unexpected call: no response configured")
	}
	resp := f.responses[len(f.calls)-1]
	return &resp, nil
}

func TestEngine_Execute(t *testing.T) {
	caller := &fakeCaller{
		responses: []daemon.Response{
			{OK: true, Result: float64(10)},
			{OK: true, Result: "done"},
		},
	}
	engine := New(Config{Caller: caller})

	wf := &domain.Workflow{
		Name: "two-steps",
		Steps: []domain.Step{
			{Service: "calc", Method: "calc.load", Output: "a"},
			{
				Service: "echo",
				Method:  "echo.say",
				Params: map[string]any{
					"text": "{{ a }}-suffix",
				},
			},
		},
	}

	result, err := engine.Execute(context.Background(), wf)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if len(caller.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(caller.calls))
	}

	// Шаблон раскрыт значением переменной первого шага
	if got := caller.calls[1].Params["text"]; got != "10-suffix" {
		t.Errorf("second step params text = %#v, want 10-suffix", got)
	}

	// Результат workflow — результат последнего шага
	if result.Result != "done" {
		t.Errorf("Result = %#v, want done", result.Result)
	}

	if len(result.StepResults) != 2 {
		t.Fatalf("StepResults len = %d, want 2", len(result.StepResults))
	}
	if result.StepResults[0].Index != 0 || result.StepResults[0].Result != float64(10) {
		t.Errorf("step 0 result = %+v", result.StepResults[0])
	}

	// Snapshot несёт переменную и синтетические ключи
	if result.Snapshot["a"] != float64(10) {
		t.Errorf("snapshot a = %#v", result.Snapshot["a"])
	}
	if result.Snapshot[KeyPrev] != "done" {
		t.Errorf("snapshot $prev = %#v", result.Snapshot[KeyPrev])
	}
}

func TestEngine_Execute_StepFailure(t *testing.T) {
	caller := &fakeCaller{
		responses: []daemon.Response{
			{OK: false, Error: &daemon.CallError{Message: "boom"}},
			{OK: true, Result: "never"},
		},
	}
	engine := New(Config{Caller: caller})

	wf := &domain.Workflow{
		Name: "fails-fast",
		Steps: []domain.Step{
			{Service: "gmail", Method: "gmail.unread"},
			{Service: "echo", Method: "echo.say"},
		},
	}

	_, err := engine.Execute(context.Background(), wf)
	if err == nil {
		t.Fatal("expected error")
	}

	// Fail-fast: второй шаг не выполняется
	if len(caller.calls) != 1 {
		t.Errorf("expected exactly 1 call, got %d", len(caller.calls))
	}

	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("error should be *StepError: %v", err)
	}
	if stepErr.Index != 0 || stepErr.Service != "gmail" || stepErr.Method != "gmail.unread" {
		t.Errorf("step error attribution: %+v", stepErr)
	}
	if !errors.Is(err, ErrStepFailed) {
		t.Errorf("error should wrap ErrStepFailed: %v", err)
	}
	for _, part := range []string{"0", "gmail.unread", "boom"} {
		if !strings.Contains(err.Error(), part) {
			t.Errorf("error %q should contain %q", err.Error(), part)
		}
	}
}

func TestEngine_Execute_TransportFailure(t *testing.T) {
	transportErr := errors.New("connection refused")
	caller := &fakeCaller{err: transportErr}
	engine := New(Config{Caller: caller})

	wf := &domain.Workflow{
		Name:  "transport",
		Steps: []domain.Step{{Service: "browser", Method: "browser.open"}},
	}

	_, err := engine.Execute(context.Background(), wf)
	if !errors.Is(err, transportErr) {
		t.Errorf("error should wrap transport error: %v", err)
	}
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("error should be *StepError: %v", err)
	}
}

func TestEngine_Execute_ValidatesBeforeCalls(t *testing.T) {
	caller := &fakeCaller{}
	engine := New(Config{Caller: caller})

	wf := &domain.Workflow{Name: "empty", Steps: []domain.Step{}}

	_, err := engine.Execute(context.Background(), wf)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "at least one step") {
		t.Errorf("error = %q", err.Error())
	}
	if len(caller.calls) != 0 {
		t.Errorf("no service calls expected, got %d", len(caller.calls))
	}
}

func TestEngine_Execute_NilResultIsNotError(t *testing.T) {
	caller := &fakeCaller{
		responses: []daemon.Response{
			{OK: true, Result: nil},
			{OK: true, Result: "[{{ $prev }}]"},
		},
	}
	engine := New(Config{Caller: caller})

	wf := &domain.Workflow{
		Name: "nil-result",
		Steps: []domain.Step{
			{Service: "a", Method: "a.m", Output: "v"},
			{Service: "b", Method: "b.m"},
		},
	}

	result, err := engine.Execute(context.Background(), wf)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result.StepResults[0].Result != nil {
		t.Errorf("first step result = %#v, want nil", result.StepResults[0].Result)
	}
	if v, ok := result.Snapshot["v"]; !ok || v != nil {
		t.Errorf("output binding should hold nil: %#v, %v", v, ok)
	}
}

func TestEngine_Execute_TemplateErrorStopsRun(t *testing.T) {
	caller := &fakeCaller{}
	engine := New(Config{Caller: caller})

	wf := &domain.Workflow{
		Name: "bad-template",
		Steps: []domain.Step{
			{
				Service: "echo",
				Method:  "echo.say",
				// Явный маркер: строка без "}}" инлайново прошла бы
				// как литерал, маркер же всегда рендерится
				Params: map[string]any{
					"text": map[string]any{TemplateKey: "{{ broken"},
				},
			},
		},
	}

	_, err := engine.Execute(context.Background(), wf)
	if !errors.Is(err, ErrTemplateParse) {
		t.Errorf("error should wrap ErrTemplateParse: %v", err)
	}
	if len(caller.calls) != 0 {
		t.Errorf("service should not be called on template error, got %d calls", len(caller.calls))
	}
}

func TestEngine_Execute_UnclosedInlineIsLiteral(t *testing.T) {
	caller := &fakeCaller{
		responses: []daemon.Response{{OK: true, Result: "ok"}},
	}
	engine := New(Config{Caller: caller})

	// Инлайновая строка без "}}" — не шаблон, а обычный литерал
	wf := &domain.Workflow{
		Name: "literal-braces",
		Steps: []domain.Step{
			{
				Service: "echo",
				Method:  "echo.say",
				Params:  map[string]any{"text": "{{ broken"},
			},
		},
	}

	_, err := engine.Execute(context.Background(), wf)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(caller.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(caller.calls))
	}
	if got := caller.calls[0].Params["text"]; got != "{{ broken" {
		t.Errorf("params text = %#v, want literal {{ broken", got)
	}
}

// sinkRecorder фиксирует порядок событий жизненного цикла.
type sinkRecorder struct {
	events []string
}

func (s *sinkRecorder) RunStarted(_ uuid.UUID, _ *domain.Workflow) {
	s.events = append(s.events, "started")
}

func (s *sinkRecorder) StepCompleted(_ uuid.UUID, _ *domain.Workflow, _ domain.StepResult) {
	s.events = append(s.events, "step")
}

func (s *sinkRecorder) RunFinished(_ uuid.UUID, _ *domain.Workflow, status domain.RunStatus, _ error, _ time.Duration) {
	s.events = append(s.events, "finished:"+string(status))
}

func TestEngine_Execute_EventOrder(t *testing.T) {
	sink := &sinkRecorder{}
	caller := &fakeCaller{
		responses: []daemon.Response{{OK: true, Result: 1}},
	}
	engine := New(Config{Caller: caller, Sink: sink})

	wf := &domain.Workflow{
		Name:  "events",
		Steps: []domain.Step{{Service: "a", Method: "a.m"}},
	}

	if _, err := engine.Execute(context.Background(), wf); err != nil {
		t.Fatal(err)
	}

	want := []string{"started", "step", "finished:SUCCEEDED"}
	if len(sink.events) != len(want) {
		t.Fatalf("events = %v, want %v", sink.events, want)
	}
	for i, e := range want {
		if sink.events[i] != e {
			t.Errorf("event %d = %q, want %q", i, sink.events[i], e)
		}
	}
}

func TestEngine_Execute_FailedEvent(t *testing.T) {
	sink := &sinkRecorder{}
	caller := &fakeCaller{
		responses: []daemon.Response{{OK: false}},
	}
	engine := New(Config{Caller: caller, Sink: sink})

	wf := &domain.Workflow{
		Name:  "failed-events",
		Steps: []domain.Step{{Service: "a", Method: "a.m"}},
	}

	if _, err := engine.Execute(context.Background(), wf); err == nil {
		t.Fatal("expected error")
	}

	last := sink.events[len(sink.events)-1]
	if last != "finished:FAILED" {
		t.Errorf("last event = %q, want finished:FAILED", last)
	}
}
