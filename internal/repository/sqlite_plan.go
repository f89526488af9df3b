package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"learnpath/internal/db"
	"learnpath/internal/domain"
)

// SQLitePlanRepo implements PlanRepo using a SQLite database.
type SQLitePlanRepo struct {
	db db.DBTX
}

// NewSQLitePlanRepo creates a new SQLitePlanRepo. It accepts either a pooled
// *sql.DB or a tx-scoped DBTX.
func NewSQLitePlanRepo(db db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: db}
}

const planColumns = `id, user_id, topic, total_days, skill_level, created_at`

const planSelect = `SELECT p.id, p.user_id, p.topic, p.total_days, p.skill_level, p.created_at,
	(SELECT COALESCE(MAX(day_index), 0) FROM days d WHERE d.plan_id = p.id) AS generated_days
	FROM plans p`

func (r *SQLitePlanRepo) Create(ctx context.Context, p *domain.Plan) error {
	query := `INSERT INTO plans (` + planColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.Topic,
		p.TotalDays,
		string(p.SkillLevel),
		p.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) InsertDays(ctx context.Context, planID string, days []domain.Day) error {
	dayQuery := `INSERT INTO days (id, plan_id, day_index, title) VALUES (?, ?, ?, ?)`
	taskQuery := `INSERT INTO tasks (id, day_id, description, resource_link, completed, position)
		VALUES (?, ?, ?, ?, ?, ?)`

	for _, day := range days {
		if _, err := r.db.ExecContext(ctx, dayQuery, day.ID, planID, day.DayIndex, day.Title); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("day %d: %w", day.DayIndex, ErrDuplicate)
			}
			return fmt.Errorf("inserting day %d: %w", day.DayIndex, err)
		}
		for pos, task := range day.Tasks {
			if _, err := r.db.ExecContext(ctx, taskQuery,
				task.ID, day.ID, task.Description, task.ResourceLink,
				boolToInt(task.Completed), pos,
			); err != nil {
				return fmt.Errorf("inserting task for day %d: %w", day.DayIndex, err)
			}
		}
	}
	return nil
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	query := planSelect + ` WHERE p.id = ?`
	return r.scanPlan(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLitePlanRepo) GetWithContent(ctx context.Context, id string) (*domain.Plan, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dayQuery := `SELECT id, plan_id, day_index, title FROM days WHERE plan_id = ? ORDER BY day_index`
	rows, err := r.db.QueryContext(ctx, dayQuery, id)
	if err != nil {
		return nil, fmt.Errorf("listing days: %w", err)
	}
	defer rows.Close()

	dayByID := make(map[string]int)
	for rows.Next() {
		var d domain.Day
		if err := rows.Scan(&d.ID, &d.PlanID, &d.DayIndex, &d.Title); err != nil {
			return nil, fmt.Errorf("scanning day row: %w", err)
		}
		dayByID[d.ID] = len(p.Days)
		p.Days = append(p.Days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating days: %w", err)
	}

	taskQuery := `SELECT t.id, t.day_id, t.description, t.resource_link, t.completed
		FROM tasks t
		JOIN days d ON d.id = t.day_id
		WHERE d.plan_id = ?
		ORDER BY d.day_index, t.position`
	taskRows, err := r.db.QueryContext(ctx, taskQuery, id)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer taskRows.Close()

	for taskRows.Next() {
		var t domain.Task
		var completed int
		if err := taskRows.Scan(&t.ID, &t.DayID, &t.Description, &t.ResourceLink, &completed); err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		t.Completed = intToBool(completed)
		idx, ok := dayByID[t.DayID]
		if !ok {
			return nil, fmt.Errorf("task %s references unknown day %s", t.ID, t.DayID)
		}
		p.Days[idx].Tasks = append(p.Days[idx].Tasks, t)
	}
	if err := taskRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	return p, nil
}

func (r *SQLitePlanRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Plan, error) {
	query := planSelect + ` WHERE p.user_id = ? ORDER BY p.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		p, err := r.scanPlanFromRows(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	return plans, nil
}

func (r *SQLitePlanRepo) MaxDayIndex(ctx context.Context, planID string) (int, error) {
	query := `SELECT COALESCE(MAX(day_index), 0) FROM days WHERE plan_id = ?`
	var max int
	if err := r.db.QueryRowContext(ctx, query, planID).Scan(&max); err != nil {
		return 0, fmt.Errorf("finding max day index: %w", err)
	}
	return max, nil
}

func (r *SQLitePlanRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM plans WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("plan: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLitePlanRepo) scanPlan(row *sql.Row) (*domain.Plan, error) {
	var p domain.Plan
	var skillStr, createdAtStr string

	err := row.Scan(&p.ID, &p.UserID, &p.Topic, &p.TotalDays, &skillStr, &createdAtStr, &p.GeneratedDays)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("plan: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}

	p.SkillLevel = domain.SkillLevel(skillStr)
	p.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &p, nil
}

func (r *SQLitePlanRepo) scanPlanFromRows(rows *sql.Rows) (*domain.Plan, error) {
	var p domain.Plan
	var skillStr, createdAtStr string

	err := rows.Scan(&p.ID, &p.UserID, &p.Topic, &p.TotalDays, &skillStr, &createdAtStr, &p.GeneratedDays)
	if err != nil {
		return nil, fmt.Errorf("scanning plan row: %w", err)
	}

	p.SkillLevel = domain.SkillLevel(skillStr)
	p.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &p, nil
}
