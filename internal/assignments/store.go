package assignments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/benchdesk/internal/db"
)

// ErrNotFound is returned when an assignment or step does not exist.
var ErrNotFound = errors.New("assignment not found")

// ErrUnknownCompany is returned when measures are submitted for a company
// that does not exist.
var ErrUnknownCompany = errors.New("company not found")

// Store persists assigned measures and their steps.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// CreateFromSubmission stores every submission with a name, after the
// company's existing assignments, in one transaction. Nameless entries are
// skipped.
func (s *Store) CreateFromSubmission(ctx context.Context, companyID string, subs []Submission) ([]Assignment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM companies WHERE id = ?)", companyID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("checking company: %w", err)
	}
	if !exists {
		return nil, ErrUnknownCompany
	}

	var next int
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM measure_assignments WHERE company_id = ?",
		companyID,
	).Scan(&next); err != nil {
		return nil, fmt.Errorf("reading next position: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	var created []Assignment
	for _, sub := range subs {
		if sub.Name == "" {
			continue
		}
		a := Assignment{
			ID:            uuid.New().String(),
			CompanyID:     companyID,
			Position:      next,
			Name:          sub.Name,
			Description:   sub.Description,
			Target:        sub.Target,
			Departments:   sub.Departments,
			Responsible:   sub.Responsible,
			Participants:  sub.Participants,
			Urgency:       sub.Urgency,
			TimeframeDate: sub.TimeframeDate,
			Status:        StatusInProgress,
			CreatedAt:     now,
		}
		if a.Urgency == 0 {
			a.Urgency = DefaultUrgency
		}
		next++

		var timeframe sql.NullString
		if a.TimeframeDate != nil {
			timeframe = sql.NullString{String: a.TimeframeDate.Format(DateLayout), Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO measure_assignments (
				id, company_id, position, name, description, target, departments,
				responsible, participants, urgency, timeframe_date, status, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.CompanyID, a.Position, a.Name, a.Description, a.Target, a.Departments,
			a.Responsible, a.Participants, a.Urgency, timeframe, a.Status, now.Format(time.DateTime),
		)
		if err != nil {
			return nil, fmt.Errorf("inserting assignment %q: %w", a.Name, err)
		}

		for i, title := range sub.Steps {
			step := Step{ID: uuid.New().String(), AssignmentID: a.ID, Step: i + 1, Title: title}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO assignment_steps (id, assignment_id, step, title) VALUES (?, ?, ?, ?)",
				step.ID, step.AssignmentID, step.Step, step.Title,
			); err != nil {
				return nil, fmt.Errorf("inserting step for %q: %w", a.Name, err)
			}
			a.Steps = append(a.Steps, step)
		}
		created = append(created, a)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing assignments: %w", err)
	}
	return created, nil
}

const assignmentColumns = `id, company_id, position, name, description, target, departments,
	responsible, participants, urgency, timeframe_date, status, created_at`

// List returns a company's assignments in position order, steps included.
func (s *Store) List(ctx context.Context, companyID string) ([]Assignment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+assignmentColumns+" FROM measure_assignments WHERE company_id = ? ORDER BY position, created_at",
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		steps, err := s.steps(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Steps = steps
	}
	return out, nil
}

// Get returns one assignment with its steps.
func (s *Store) Get(ctx context.Context, id string) (*Assignment, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+assignmentColumns+" FROM measure_assignments WHERE id = ?", id)
	a, err := scanAssignment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if a.Steps, err = s.steps(ctx, a.ID); err != nil {
		return nil, err
	}
	return a, nil
}

// SetStepCompleted marks a step done or not done.
func (s *Store) SetStepCompleted(ctx context.Context, stepID string, done bool) error {
	res, err := s.db.ExecContext(ctx, "UPDATE assignment_steps SET is_completed = ? WHERE id = ?", done, stepID)
	if err != nil {
		return fmt.Errorf("updating step: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of assignments across all companies.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM measure_assignments").Scan(&n)
	return n, err
}

func (s *Store) steps(ctx context.Context, assignmentID string) ([]Step, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, assignment_id, step, title, is_completed FROM assignment_steps WHERE assignment_id = ? ORDER BY step",
		assignmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing steps: %w", err)
	}
	defer rows.Close()

	steps := []Step{}
	for rows.Next() {
		var st Step
		if err := rows.Scan(&st.ID, &st.AssignmentID, &st.Step, &st.Title, &st.Completed); err != nil {
			return nil, fmt.Errorf("scanning step: %w", err)
		}
		steps = append(steps, st)
	}
	return steps, rows.Err()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAssignment(sc scanner) (*Assignment, error) {
	var (
		a         Assignment
		timeframe sql.NullString
		created   string
	)
	err := sc.Scan(&a.ID, &a.CompanyID, &a.Position, &a.Name, &a.Description, &a.Target,
		&a.Departments, &a.Responsible, &a.Participants, &a.Urgency, &timeframe, &a.Status, &created)
	if err != nil {
		return nil, err
	}
	if timeframe.Valid && timeframe.String != "" {
		if t, err := time.Parse(DateLayout, timeframe.String[:min(len(timeframe.String), len(DateLayout))]); err == nil {
			a.TimeframeDate = &t
		}
	}
	if t, err := time.Parse(time.DateTime, created); err == nil {
		a.CreatedAt = t
	} else if t, err := time.Parse(time.RFC3339, created); err == nil {
		a.CreatedAt = t
	}
	return &a, nil
}
