package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"learnpath/internal/db"
	"learnpath/internal/domain"
)

// SQLiteFeedbackRepo implements FeedbackRepo using a SQLite database.
type SQLiteFeedbackRepo struct {
	db db.DBTX
}

// NewSQLiteFeedbackRepo creates a new SQLiteFeedbackRepo.
func NewSQLiteFeedbackRepo(db db.DBTX) *SQLiteFeedbackRepo {
	return &SQLiteFeedbackRepo{db: db}
}

func (r *SQLiteFeedbackRepo) Upsert(ctx context.Context, f *domain.Feedback) error {
	query := `INSERT INTO feedback (id, plan_id, user_id, helpful, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(plan_id, user_id) DO UPDATE SET
			helpful = excluded.helpful,
			comment = excluded.comment,
			created_at = excluded.created_at`
	_, err := r.db.ExecContext(ctx, query,
		f.ID,
		f.PlanID,
		f.UserID,
		boolToInt(f.Helpful),
		f.Comment,
		f.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting feedback: %w", err)
	}
	return nil
}

func (r *SQLiteFeedbackRepo) Get(ctx context.Context, planID, userID string) (*domain.Feedback, error) {
	query := `SELECT id, plan_id, user_id, helpful, comment, created_at
		FROM feedback WHERE plan_id = ? AND user_id = ?`
	var f domain.Feedback
	var helpful int
	var createdAtStr string

	err := r.db.QueryRowContext(ctx, query, planID, userID).Scan(
		&f.ID, &f.PlanID, &f.UserID, &helpful, &f.Comment, &createdAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("feedback: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning feedback: %w", err)
	}

	f.Helpful = intToBool(helpful)
	f.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &f, nil
}

func (r *SQLiteFeedbackRepo) ListAll(ctx context.Context) ([]AdminFeedbackRow, error) {
	query := `SELECT f.id, f.plan_id, f.user_id, f.helpful, f.comment, f.created_at,
			p.topic, u.login
		FROM feedback f
		JOIN plans p ON p.id = f.plan_id
		JOIN users u ON u.id = f.user_id
		ORDER BY f.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing feedback: %w", err)
	}
	defer rows.Close()

	var result []AdminFeedbackRow
	for rows.Next() {
		var row AdminFeedbackRow
		var helpful int
		var createdAtStr string
		if err := rows.Scan(
			&row.Feedback.ID, &row.Feedback.PlanID, &row.Feedback.UserID,
			&helpful, &row.Feedback.Comment, &createdAtStr,
			&row.PlanTopic, &row.UserLogin,
		); err != nil {
			return nil, fmt.Errorf("scanning feedback row: %w", err)
		}
		row.Feedback.Helpful = intToBool(helpful)
		row.Feedback.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feedback: %w", err)
	}
	return result, nil
}
