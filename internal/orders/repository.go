package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lunaria-crm/lunaria/internal/platform/db"
)

// ErrNotFound indicates the requested order was not found.
var ErrNotFound = errors.New("order not found")

// ErrCustomerNotFound indicates the order references a missing customer.
var ErrCustomerNotFound = errors.New("customer not found")

// ErrProductNotFound indicates a line item references a missing product.
var ErrProductNotFound = errors.New("product not found")

// ProductRow is the locked product state read during order creation.
type ProductRow struct {
	ID    int64
	Name  string
	Stock int
}

// Repository is the persistence contract for orders. The product accessors
// reach into the products table so stock decrements happen in the same
// transaction as the order insert.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, req ListOrdersRequest) ([]Order, int, error)
	Insert(ctx context.Context, order Order) (int64, error)
	InsertItems(ctx context.Context, orderID int64, items []OrderItem) error
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
	CustomerBrand(ctx context.Context, customerID int64) (string, error)
	ProductForUpdate(ctx context.Context, productID int64) (*ProductRow, error)
	SetProductStock(ctx context.Context, productID int64, stock int) error
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

const orderColumns = `id, order_number, customer_id, lead_id, total_amount, status, payment_status, brand, notes, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Order, error) {
	var o Order
	query := fmt.Sprintf("SELECT %s FROM orders WHERE id = $1", orderColumns)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.LeadID, &o.TotalAmount,
		&o.Status, &o.PaymentStatus, &o.Brand, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	items, err := r.items(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *repository) items(ctx context.Context, orderID int64) ([]OrderItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, discount, subtotal
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.Quantity, &it.UnitPrice, &it.Discount, &it.Subtotal)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListOrdersRequest) ([]Order, int, error) {
	var conditions []string
	var args []any
	argPos := 1

	if req.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argPos))
		args = append(args, *req.CustomerID)
		argPos++
	}
	if req.Status != nil && *req.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.PaymentStatus != nil && *req.PaymentStatus != "" {
		conditions = append(conditions, fmt.Sprintf("payment_status = $%d", argPos))
		args = append(args, *req.PaymentStatus)
		argPos++
	}
	if req.Search != nil && *req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("order_number ILIKE $%d", argPos))
		args = append(args, "%"+*req.Search+"%")
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM orders %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, orderColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.CustomerID, &o.LeadID, &o.TotalAmount,
			&o.Status, &o.PaymentStatus, &o.Brand, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}

	return orders, total, rows.Err()
}

func (r *repository) Insert(ctx context.Context, order Order) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO orders (order_number, customer_id, lead_id, total_amount, status, payment_status, brand, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, order.OrderNumber, order.CustomerID, order.LeadID, order.TotalAmount,
		order.Status, order.PaymentStatus, order.Brand, order.Notes).Scan(&id)
	return id, err
}

func (r *repository) InsertItems(ctx context.Context, orderID int64, items []OrderItem) error {
	for _, it := range items {
		_, err := r.db.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, discount, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, orderID, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice, it.Discount, it.Subtotal)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	query := "UPDATE orders SET updated_at = NOW()"
	var args []any
	argPos := 1

	for _, col := range []string{"total_amount", "status", "payment_status", "notes"} {
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
	// order_items cascade via the FK.
	tag, err := r.db.Exec(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) CustomerBrand(ctx context.Context, customerID int64) (string, error) {
	var brand string
	err := r.db.QueryRow(ctx, "SELECT brand FROM customers WHERE id = $1", customerID).Scan(&brand)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrCustomerNotFound
		}
		return "", err
	}
	return brand, nil
}

func (r *repository) ProductForUpdate(ctx context.Context, productID int64) (*ProductRow, error) {
	var p ProductRow
	err := r.db.QueryRow(ctx, `
		SELECT id, name, stock FROM products WHERE id = $1 FOR UPDATE
	`, productID).Scan(&p.ID, &p.Name, &p.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) SetProductStock(ctx context.Context, productID int64, stock int) error {
	tag, err := r.db.Exec(ctx, "UPDATE products SET stock = $1, updated_at = NOW() WHERE id = $2", stock, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}
