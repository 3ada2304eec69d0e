package activities

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the requested activity was not found.
var ErrNotFound = errors.New("activity not found")

// Repository is the persistence contract for activities.
type Repository interface {
	Get(ctx context.Context, id int64) (*Activity, error)
	List(ctx context.Context, req ListActivitiesRequest) ([]Activity, int, error)
	Create(ctx context.Context, a Activity) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
}

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type repository struct {
	db dbtx
}

// NewRepository builds the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const activityColumns = `id, kind, subject, notes, due_at, status, lead_id, customer_id, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Activity, error) {
	var a Activity
	query := fmt.Sprintf("SELECT %s FROM activities WHERE id = $1", activityColumns)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Kind, &a.Subject, &a.Notes, &a.DueAt, &a.Status,
		&a.LeadID, &a.CustomerID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *repository) List(ctx context.Context, req ListActivitiesRequest) ([]Activity, int, error) {
	var conditions []string
	var args []any
	argPos := 1

	if req.Status != nil && *req.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.Type != nil && *req.Type != "" {
		conditions = append(conditions, fmt.Sprintf("kind = $%d", argPos))
		args = append(args, *req.Type)
		argPos++
	}
	if req.LeadID != nil {
		conditions = append(conditions, fmt.Sprintf("lead_id = $%d", argPos))
		args = append(args, *req.LeadID)
		argPos++
	}
	if req.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argPos))
		args = append(args, *req.CustomerID)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM activities %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM activities
		%s
		ORDER BY due_at NULLS LAST, id
		LIMIT $%d OFFSET $%d
	`, activityColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		err := rows.Scan(
			&a.ID, &a.Kind, &a.Subject, &a.Notes, &a.DueAt, &a.Status,
			&a.LeadID, &a.CustomerID, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		activities = append(activities, a)
	}

	return activities, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, a Activity) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO activities (kind, subject, notes, due_at, status, lead_id, customer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, a.Kind, a.Subject, a.Notes, a.DueAt, a.Status, a.LeadID, a.CustomerID).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	query := "UPDATE activities SET updated_at = NOW()"
	var args []any
	argPos := 1

	for _, col := range []string{"kind", "subject", "notes", "due_at", "status"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM activities WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
