package repository

import (
	"context"
	"database/sql"
	"fmt"

	"learnpath/internal/db"
	"learnpath/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT id, day_id, description, resource_link, completed FROM tasks WHERE id = ?`
	var t domain.Task
	var completed int

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.DayID, &t.Description, &t.ResourceLink, &completed,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("task: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	t.Completed = intToBool(completed)
	return &t, nil
}

func (r *SQLiteTaskRepo) SetCompleted(ctx context.Context, id string, completed bool) error {
	query := `UPDATE tasks SET completed = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, boolToInt(completed), id)
	if err != nil {
		return fmt.Errorf("updating task completion: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteTaskRepo) OwnerOf(ctx context.Context, id string) (string, error) {
	query := `SELECT p.user_id
		FROM tasks t
		JOIN days d ON d.id = t.day_id
		JOIN plans p ON p.id = d.plan_id
		WHERE t.id = ?`
	var userID string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("task: %w", ErrNotFound)
		}
		return "", fmt.Errorf("resolving task owner: %w", err)
	}
	return userID, nil
}
