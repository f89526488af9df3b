package domain

import "time"

// Feedback is one user's helpful/not-helpful rating of a plan with an
// optional free-text comment. One row exists per (plan, user); resubmitting
// replaces the previous rating.
type Feedback struct {
	ID        string
	PlanID    string
	UserID    string
	Helpful   bool
	Comment   string
	CreatedAt time.Time
}
