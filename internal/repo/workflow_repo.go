package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/Sequent/internal/domain"
)

// WorkflowRepo — репозиторий сохранённых определений workflow.
//
// БД хранит только определения (таблица workflows: id, name,
// spec jsonb, created_at, updated_at). Состояние выполнения
// не персистится.
type WorkflowRepo struct {
	pool *pgxpool.Pool
}

// NewWorkflowRepo создаёт новый WorkflowRepo.
func NewWorkflowRepo(pool *pgxpool.Pool) *WorkflowRepo {
	return &WorkflowRepo{pool: pool}
}

// Create сохраняет новое определение workflow.
// Имя определения должно быть уникальным.
func (r *WorkflowRepo) Create(ctx context.Context, sw *domain.StoredWorkflow) error {
	specJSON, err := json.Marshal(sw.Spec)
	if err != nil {
		return fmt.Errorf("marshal spec: %w", err)
	}

	query := `
		INSERT INTO workflows (id, name, spec, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.pool.Exec(ctx, query,
		sw.ID,
		sw.Spec.Name,
		specJSON,
		sw.CreatedAt,
		sw.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("workflow %q: %w", sw.Spec.Name, ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("insert workflow: %w", err)
	}
	return nil
}

// GetByName возвращает определение по имени.
func (r *WorkflowRepo) GetByName(ctx context.Context, name string) (*domain.StoredWorkflow, error) {
	query := `
		SELECT id, spec, created_at, updated_at
		FROM workflows
		WHERE name = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, name))
}

// GetByID возвращает определение по ID.
func (r *WorkflowRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredWorkflow, error) {
	query := `
		SELECT id, spec, created_at, updated_at
		FROM workflows
		WHERE id = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// List возвращает все сохранённые определения.
func (r *WorkflowRepo) List(ctx context.Context) ([]domain.StoredWorkflow, error) {
	query := `
		SELECT id, spec, created_at, updated_at
		FROM workflows
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	defer rows.Close()

	var workflows []domain.StoredWorkflow
	for rows.Next() {
		var sw domain.StoredWorkflow
		var specJSON []byte
		if err := rows.Scan(&sw.ID, &specJSON, &sw.CreatedAt, &sw.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan workflow: %w", err)
		}
		if err := json.Unmarshal(specJSON, &sw.Spec); err != nil {
			return nil, fmt.Errorf("unmarshal spec: %w", err)
		}
		workflows = append(workflows, sw)
	}
	return workflows, rows.Err()
}

// Update заменяет определение с указанным именем.
func (r *WorkflowRepo) Update(ctx context.Context, name string, spec *domain.Workflow) error {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("marshal spec: %w", err)
	}

	query := `
		UPDATE workflows
		SET name = $2, spec = $3, updated_at = NOW()
		WHERE name = $1
	`
	result, err := r.pool.Exec(ctx, query, name, spec.Name, specJSON)
	if err != nil {
		return fmt.Errorf("update workflow: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет определение (каскадно удалит schedules).
func (r *WorkflowRepo) Delete(ctx context.Context, name string) error {
	query := `DELETE FROM workflows WHERE name = $1`
	result, err := r.pool.Exec(ctx, query, name)
	if err != nil {
		return fmt.Errorf("delete workflow: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// scanOne сканирует одну строку workflows.
func (r *WorkflowRepo) scanOne(row pgx.Row) (*domain.StoredWorkflow, error) {
	var sw domain.StoredWorkflow
	var specJSON []byte
	err := row.Scan(&sw.ID, &specJSON, &sw.CreatedAt, &sw.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get workflow: %w", err)
	}

	if err := json.Unmarshal(specJSON, &sw.Spec); err != nil {
		return nil, fmt.Errorf("unmarshal spec: %w", err)
	}

	return &sw, nil
}

// isUniqueViolation проверяет ошибку нарушения уникальности.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
