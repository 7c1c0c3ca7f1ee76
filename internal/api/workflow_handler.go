package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Sequent/internal/domain"
	"github.com/shaiso/Sequent/internal/engine"
)

// ListWorkflows возвращает список сохранённых определений.
// GET /api/v1/workflows
func (h *Handler) ListWorkflows(w http.ResponseWriter, r *http.Request) {
	workflows, err := h.workflowRepo.List(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]WorkflowResponse, len(workflows))
	for i := range workflows {
		result[i] = WorkflowFromDomain(&workflows[i])
	}

	List(w, result, len(result))
}

// CreateWorkflow сохраняет новое определение workflow.
// POST /api/v1/workflows
func (h *Handler) CreateWorkflow(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	// Определение валидируется до записи в БД
	if err := engine.ValidateWorkflow(&req.Spec); err != nil {
		BadRequest(w, err.Error())
		return
	}

	now := time.Now()
	sw := &domain.StoredWorkflow{
		ID:        uuid.New(),
		Spec:      req.Spec,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.workflowRepo.Create(r.Context(), sw); err != nil {
		HandleRepoError(w, h.logger, err, "")
		return
	}

	Created(w, WorkflowFromDomain(sw))
}

// GetWorkflow возвращает определение по имени.
// GET /api/v1/workflows/{name}
func (h *Handler) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	sw, err := h.workflowRepo.GetByName(r.Context(), r.PathValue("name"))
	if HandleRepoError(w, h.logger, err, "workflow not found") {
		return
	}

	Success(w, WorkflowFromDomain(sw))
}

// UpdateWorkflow заменяет определение с указанным именем.
// PUT /api/v1/workflows/{name}
func (h *Handler) UpdateWorkflow(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req CreateWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if err := engine.ValidateWorkflow(&req.Spec); err != nil {
		BadRequest(w, err.Error())
		return
	}

	if err := h.workflowRepo.Update(r.Context(), name, &req.Spec); err != nil {
		HandleRepoError(w, h.logger, err, "workflow not found")
		return
	}

	sw, err := h.workflowRepo.GetByName(r.Context(), req.Spec.Name)
	if HandleRepoError(w, h.logger, err, "workflow not found") {
		return
	}

	Success(w, WorkflowFromDomain(sw))
}

// DeleteWorkflow удаляет определение.
// DELETE /api/v1/workflows/{name}
func (h *Handler) DeleteWorkflow(w http.ResponseWriter, r *http.Request) {
	if err := h.workflowRepo.Delete(r.Context(), r.PathValue("name")); err != nil {
		HandleRepoError(w, h.logger, err, "workflow not found")
		return
	}

	NoContent(w)
}
