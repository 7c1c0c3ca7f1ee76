package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Sequent/internal/domain"
)

// Workflow DTOs

// CreateWorkflowRequest — запрос на сохранение определения workflow.
type CreateWorkflowRequest struct {
	Spec domain.Workflow `json:"spec"`
}

// WorkflowResponse — ответ с сохранённым определением.
type WorkflowResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Spec      domain.Workflow `json:"spec"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// WorkflowFromDomain конвертирует domain.StoredWorkflow в WorkflowResponse.
func WorkflowFromDomain(sw *domain.StoredWorkflow) WorkflowResponse {
	return WorkflowResponse{
		ID:        sw.ID,
		Name:      sw.Spec.Name,
		Spec:      sw.Spec,
		CreatedAt: sw.CreatedAt,
		UpdatedAt: sw.UpdatedAt,
	}
}

// Run DTOs

// RunInlineRequest — запрос на выполнение определения без сохранения.
type RunInlineRequest struct {
	Workflow domain.Workflow `json:"workflow"`
}

// StepResultResponse — результат одного шага.
type StepResultResponse struct {
	Index      int     `json:"index"`
	Service    string  `json:"service"`
	Method     string  `json:"method"`
	Output     string  `json:"output,omitempty"`
	Result     any     `json:"result"`
	DurationMS float64 `json:"duration_ms"`
}

// ExecutionResultResponse — итог выполнения workflow.
type ExecutionResultResponse struct {
	Result          any                  `json:"result"`
	StepResults     []StepResultResponse `json:"step_results"`
	ContextSnapshot map[string]any       `json:"context_snapshot"`
	TotalMS         float64              `json:"total_ms"`
}

// ExecutionResultFromDomain конвертирует domain.ExecutionResult.
func ExecutionResultFromDomain(res *domain.ExecutionResult) ExecutionResultResponse {
	steps := make([]StepResultResponse, len(res.StepResults))
	for i, sr := range res.StepResults {
		steps[i] = StepResultResponse{
			Index:      sr.Index,
			Service:    sr.Step.Service,
			Method:     sr.Step.Method,
			Output:     sr.Step.Output,
			Result:     sr.Result,
			DurationMS: float64(sr.Duration.Microseconds()) / 1000,
		}
	}

	return ExecutionResultResponse{
		Result:          res.Result,
		StepResults:     steps,
		ContextSnapshot: res.Snapshot,
		TotalMS:         float64(res.Duration.Microseconds()) / 1000,
	}
}

// Schedule DTOs

// CreateScheduleRequest — запрос на создание schedule.
type CreateScheduleRequest struct {
	Name        string `json:"name"`
	CronExpr    string `json:"cron_expr,omitempty"`
	IntervalSec int    `json:"interval_sec,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// UpdateScheduleRequest — запрос на обновление schedule.
type UpdateScheduleRequest struct {
	Name        *string `json:"name,omitempty"`
	CronExpr    *string `json:"cron_expr,omitempty"`
	IntervalSec *int    `json:"interval_sec,omitempty"`
	Timezone    *string `json:"timezone,omitempty"`
	Enabled     *bool   `json:"enabled,omitempty"`
}

// SetEnabledRequest — запрос на включение/выключение schedule.
type SetEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// ScheduleResponse — ответ со schedule.
type ScheduleResponse struct {
	ID          uuid.UUID  `json:"id"`
	WorkflowID  uuid.UUID  `json:"workflow_id"`
	Name        string     `json:"name,omitempty"`
	CronExpr    string     `json:"cron_expr,omitempty"`
	IntervalSec int        `json:"interval_sec,omitempty"`
	Timezone    string     `json:"timezone"`
	Enabled     bool       `json:"enabled"`
	NextDueAt   *time.Time `json:"next_due_at,omitempty"`
	LastRunAt   *time.Time `json:"last_run_at,omitempty"`
	LastStatus  string     `json:"last_status,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ScheduleFromDomain конвертирует domain.Schedule в ScheduleResponse.
func ScheduleFromDomain(s *domain.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:          s.ID,
		WorkflowID:  s.WorkflowID,
		Name:        s.Name,
		CronExpr:    s.CronExpr,
		IntervalSec: s.IntervalSec,
		Timezone:    s.Timezone,
		Enabled:     s.Enabled,
		NextDueAt:   s.NextDueAt,
		LastRunAt:   s.LastRunAt,
		LastStatus:  string(s.LastStatus),
		CreatedAt:   s.CreatedAt,
	}
}
