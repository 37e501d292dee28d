package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/repository"
)

const taskColumns = `id, project_id, summary, detail, creator_id, assignee_id, state, status, created_on, modified_on`

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func scanTask(row rowScanner, t *domain.Task) error {
	var assignee sql.NullInt32
	if err := row.Scan(&t.ID, &t.ProjectID, &t.Summary, &t.Detail, &t.CreatorID, &assignee, &t.State, &t.Status, &t.CreatedOn, &t.ModifiedOn); err != nil {
		return err
	}
	if assignee.Valid {
		id := assignee.Int32
		t.AssigneeID = &id
	}
	return nil
}

func nullInt32(v *int32) sql.NullInt32 {
	if v == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: *v, Valid: true}
}

func (r *taskRepository) Create(ctx context.Context, t *domain.Task) error {
	logger.EnterMethod("taskRepository.Create", "projectID", t.ProjectID)
	now := time.Now().UTC()
	t.CreatedOn = now
	t.ModifiedOn = now
	query := `INSERT INTO tasks (project_id, summary, detail, creator_id, assignee_id, state, status, created_on, modified_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, t.ProjectID, t.Summary, t.Detail, t.CreatorID, nullInt32(t.AssigneeID),
		t.State, t.Status, t.CreatedOn, t.ModifiedOn).Scan(&t.ID)
	if err != nil {
		logger.ExitMethodWithError("taskRepository.Create", err, "projectID", t.ProjectID)
		return mapError(err)
	}
	logger.ExitMethod("taskRepository.Create", "taskID", t.ID)
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id int32) (*domain.Task, error) {
	t := &domain.Task{}
	if err := scanTask(r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id), t); err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

func (r *taskRepository) List(ctx context.Context, f repository.TaskFilter) ([]domain.Task, error) {
	conds := []string{"project_id = $1"}
	args := []any{f.ProjectID}
	if f.State != nil {
		args = append(args, *f.State)
		conds = append(conds, fmt.Sprintf("state = $%d", len(args)))
	}
	if f.AssigneeID != nil {
		args = append(args, *f.AssigneeID)
		conds = append(conds, fmt.Sprintf("assignee_id = $%d", len(args)))
	}
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY modified_on DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, t *domain.Task) error {
	t.ModifiedOn = time.Now().UTC()
	query := `UPDATE tasks SET summary = $1, detail = $2, assignee_id = $3, state = $4, status = $5, modified_on = $6 WHERE id = $7`
	res, err := r.db.ExecContext(ctx, query, t.Summary, t.Detail, nullInt32(t.AssigneeID), t.State, t.Status, t.ModifiedOn, t.ID)
	return expectAffected(res, err)
}

func (r *taskRepository) CreateChange(ctx context.Context, c *domain.TaskChange) error {
	c.CreatedOn = time.Now().UTC()
	query := `INSERT INTO task_changes (task_id, actor_id, from_state, to_state, comment, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return mapError(r.db.QueryRowContext(ctx, query, c.TaskID, c.ActorID, c.FromState, c.ToState, c.Comment, c.CreatedOn).Scan(&c.ID))
}

func (r *taskRepository) ListChanges(ctx context.Context, taskID int32) ([]domain.TaskChange, error) {
	query := `SELECT id, task_id, actor_id, from_state, to_state, comment, created_on FROM task_changes WHERE task_id = $1 ORDER BY created_on, id`
	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var changes []domain.TaskChange
	for rows.Next() {
		var c domain.TaskChange
		if err := rows.Scan(&c.ID, &c.TaskID, &c.ActorID, &c.FromState, &c.ToState, &c.Comment, &c.CreatedOn); err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}
