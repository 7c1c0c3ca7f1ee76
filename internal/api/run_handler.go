package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shaiso/Sequent/internal/domain"
	"github.com/shaiso/Sequent/internal/engine"
)

// RunWorkflow синхронно выполняет сохранённое определение.
// POST /api/v1/workflows/{name}/runs
//
// Выполнение происходит внутри запроса: ответ приходит после
// завершения (или провала) последнего шага. Состояние запуска
// нигде не сохраняется.
func (h *Handler) RunWorkflow(w http.ResponseWriter, r *http.Request) {
	sw, err := h.workflowRepo.GetByName(r.Context(), r.PathValue("name"))
	if HandleRepoError(w, h.logger, err, "workflow not found") {
		return
	}

	h.execute(w, r, &sw.Spec)
}

// RunInline синхронно выполняет определение из тела запроса,
// не сохраняя его.
// POST /api/v1/runs
func (h *Handler) RunInline(w http.ResponseWriter, r *http.Request) {
	var req RunInlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	h.execute(w, r, &req.Workflow)
}

// execute запускает workflow и отображает исход в HTTP статус.
func (h *Handler) execute(w http.ResponseWriter, r *http.Request, wf *domain.Workflow) {
	result, err := h.engine.Execute(r.Context(), wf)
	if err != nil {
		var vErr *engine.ValidationError
		if errors.As(err, &vErr) {
			BadRequest(w, vErr.Message)
			return
		}

		// Ошибка шага или шаблона — это исход запуска, не сбой сервера
		var stepErr *engine.StepError
		var tmplErr *engine.TemplateError
		if errors.As(err, &stepErr) || errors.As(err, &tmplErr) {
			ExecutionFailed(w, err.Error())
			return
		}

		InternalError(w, h.logger, err)
		return
	}

	Success(w, ExecutionResultFromDomain(result))
}
