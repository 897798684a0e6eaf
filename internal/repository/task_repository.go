package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/task-service/internal/domain"
)

// UserTaskCount pairs a username with its number of tasks.
type UserTaskCount struct {
	Username  string
	TaskCount int64
}

// TaskRepository defines persistence access for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByUser(ctx context.Context, userID string, status *domain.TaskStatus) ([]domain.Task, error)
	ListAll(ctx context.Context) ([]domain.Task, error)
	ListAllByDeadlineDesc(ctx context.Context) ([]domain.Task, error)
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.TaskStatus) (int64, error)
	CountByUserAndStatus(ctx context.Context, userID string, status domain.TaskStatus) (int64, error)
	CountPerUser(ctx context.Context) ([]UserTaskCount, error)
}

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation.
func NewTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `id, user_id, title, description, deadline, priority, status, created_at, updated_at`

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	const query = `
        INSERT INTO tasks (user_id, title, description, deadline, priority, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		task.UserID,
		task.Title,
		task.Description,
		task.Deadline,
		task.Priority,
		task.Status,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	const query = `
        UPDATE tasks SET title=$1, description=$2, deadline=$3, priority=$4, status=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		task.Title,
		task.Description,
		task.Deadline,
		task.Priority,
		task.Status,
		task.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE id=$1`

	var task domain.Task
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Deadline,
		&task.Priority,
		&task.Status,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) ListByUser(ctx context.Context, userID string, status *domain.TaskStatus) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id=$1`
	args := []any{userID}
	if status != nil {
		query += ` AND status=$2`
		args = append(args, *status)
	}
	query += ` ORDER BY deadline`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *taskRepository) ListAll(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *taskRepository) ListAllByDeadlineDesc(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY deadline DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *taskRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&count)
	return count, err
}

func (r *taskRepository) CountByStatus(ctx context.Context, status domain.TaskStatus) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE status=$1`, status).Scan(&count)
	return count, err
}

func (r *taskRepository) CountByUserAndStatus(ctx context.Context, userID string, status domain.TaskStatus) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks WHERE user_id=$1 AND status=$2`, userID, status).Scan(&count)
	return count, err
}

func (r *taskRepository) CountPerUser(ctx context.Context) ([]UserTaskCount, error) {
	const query = `
        SELECT u.username, COUNT(t.id)
        FROM users u
        LEFT JOIN tasks t ON t.user_id = u.id
        GROUP BY u.username
        ORDER BY u.username`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []UserTaskCount{}
	for rows.Next() {
		var entry UserTaskCount
		if err := rows.Scan(&entry.Username, &entry.TaskCount); err != nil {
			return nil, err
		}
		counts = append(counts, entry)
	}
	return counts, rows.Err()
}

func scanTasks(rows pgx.Rows) ([]domain.Task, error) {
	tasks := []domain.Task{}
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.UserID,
			&task.Title,
			&task.Description,
			&task.Deadline,
			&task.Priority,
			&task.Status,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
