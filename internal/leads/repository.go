package leads

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lunaria-crm/lunaria/internal/platform/db"
)

// ErrNotFound indicates the requested lead was not found.
var ErrNotFound = errors.New("lead not found")

// Repository is the persistence contract for leads. InsertCustomer and
// GetCustomer touch the customers table so the conversion can run inside a
// single transaction.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Lead, error)
	List(ctx context.Context, req ListLeadsRequest) ([]Lead, int, error)
	Create(ctx context.Context, lead Lead) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
	InsertCustomer(ctx context.Context, customer CustomerRecord) (int64, error)
	GetCustomer(ctx context.Context, id int64) (*CustomerRecord, error)
}

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository builds the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const leadColumns = `id, first_name, last_name, name, email, phone, status, source, brand,
	brand_interest, notes, converted_to_customer, converted_customer_id, created_at, updated_at`

func scanLead(row pgx.Row) (*Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID, &l.FirstName, &l.LastName, &l.Name, &l.Email, &l.Phone, &l.Status,
		&l.Source, &l.Brand, &l.BrandInterest, &l.Notes,
		&l.ConvertedToCustomer, &l.ConvertedCustomerID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Lead, error) {
	query := fmt.Sprintf("SELECT %s FROM leads WHERE id = $1", leadColumns)
	return scanLead(r.db.QueryRow(ctx, query, id))
}

func (r *repository) List(ctx context.Context, req ListLeadsRequest) ([]Lead, int, error) {
	var conditions []string
	var args []any
	argPos := 1

	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.Brand != nil && *req.Brand != "" {
		conditions = append(conditions, fmt.Sprintf("brand = $%d", argPos))
		args = append(args, *req.Brand)
		argPos++
	}
	if req.Search != nil && *req.Search != "" {
		pattern := "%" + *req.Search + "%"
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, pattern)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM leads %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM leads
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, leadColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		var l Lead
		err := rows.Scan(
			&l.ID, &l.FirstName, &l.LastName, &l.Name, &l.Email, &l.Phone, &l.Status,
			&l.Source, &l.Brand, &l.BrandInterest, &l.Notes,
			&l.ConvertedToCustomer, &l.ConvertedCustomerID, &l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, l)
	}

	return leads, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, lead Lead) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO leads (first_name, last_name, name, email, phone, status, source, brand,
			brand_interest, notes, converted_to_customer, converted_customer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false, NULL)
		RETURNING id
	`, lead.FirstName, lead.LastName, lead.Name, lead.Email, lead.Phone, lead.Status,
		lead.Source, lead.Brand, lead.BrandInterest, lead.Notes).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	query := "UPDATE leads SET updated_at = NOW()"
	var args []any
	argPos := 1

	// Columns fixed in code; map keys never come from request input.
	for _, col := range []string{
		"first_name", "last_name", "name", "email", "phone", "status", "source",
		"brand", "brand_interest", "notes", "converted_to_customer", "converted_customer_id",
	} {
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
	tag, err := r.db.Exec(ctx, "DELETE FROM leads WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) InsertCustomer(ctx context.Context, customer CustomerRecord) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO customers (first_name, last_name, name, email, phone, brand, source, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, customer.FirstName, customer.LastName, customer.Name, customer.Email, customer.Phone,
		customer.Brand, customer.Source, customer.Notes).Scan(&id)
	return id, err
}

func (r *repository) GetCustomer(ctx context.Context, id int64) (*CustomerRecord, error) {
	var c CustomerRecord
	err := r.db.QueryRow(ctx, `
		SELECT id, first_name, last_name, name, email, phone, brand, source, notes, created_at, updated_at
		FROM customers WHERE id = $1
	`, id).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Name, &c.Email, &c.Phone,
		&c.Brand, &c.Source, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
