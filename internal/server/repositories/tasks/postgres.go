package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/google/uuid"
)

const taskColumns = `id, user_id, title, description, category, priority, status, due_date, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO tasks (id, user_id, title, description, category, priority, status, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Description, task.Category,
		string(task.Priority), string(task.Status), nullTime(task.DueDate),
	).Scan(&task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		 WHERE id = $1 AND user_id = $2
		 `

	return scanTask(r.db.QueryRowContext(ctx, query, id, ownerID))
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, ownerID, id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		 WHERE id = $1 AND user_id = $2
		 FOR UPDATE
		 `

	return scanTask(r.db.QueryRowContext(ctx, query, id, ownerID))
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	query :=
		`UPDATE tasks
		 SET title = $3, description = $4, category = $5, priority = $6, status = $7, due_date = $8, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Description, task.Category,
		string(task.Priority), string(task.Status), nullTime(task.DueDate),
	).Scan(&task.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	query :=
		`DELETE FROM tasks
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Stats(ctx context.Context, ownerID string) (*models.TaskStats, error) {
	query :=
		`SELECT
		   COUNT(*),
		   COUNT(*) FILTER (WHERE status = 'Completed'),
		   COUNT(*) FILTER (WHERE status = 'Pending'),
		   COUNT(*) FILTER (WHERE status = 'In Progress'),
		   COUNT(*) FILTER (WHERE priority = 'High')
		 FROM tasks
		 WHERE user_id = $1
		 `

	s := &models.TaskStats{}
	err := r.db.QueryRowContext(ctx, query, ownerID).
		Scan(&s.Total, &s.Completed, &s.Pending, &s.InProgress, &s.HighPriority)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*models.Task, error) {
	t := &models.Task{}
	var priority, status string
	var due sql.NullTime

	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Category,
		&priority, &status, &due, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	t.Priority = models.Priority(priority)
	t.Status = models.Status(status)
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}

	return t, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
