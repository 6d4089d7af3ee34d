package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

type Repository interface {
	CreateOrder(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID uint) (*Order, error)
	GetByIDForUser(ctx context.Context, orderID, userID uint) (*Order, error)
	ListByUser(ctx context.Context, userID uint) ([]*Order, error)
	List(ctx context.Context, status Status, limit, offset int) ([]*Order, error)
	Count(ctx context.Context, status Status) (int64, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	ListRecent(ctx context.Context, limit int) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status Status) error
	OrderNumberExists(ctx context.Context, number string) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `id, order_number, user_id,
		shipping_full_name, shipping_address, shipping_city, shipping_state,
		shipping_postal_code, shipping_country, shipping_phone,
		shipping_method_name, shipping_method_price, payment_method,
		subtotal, total, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID,
		&o.ShippingInfo.FullName, &o.ShippingInfo.Address, &o.ShippingInfo.City,
		&o.ShippingInfo.State, &o.ShippingInfo.PostalCode, &o.ShippingInfo.Country,
		&o.ShippingInfo.Phone,
		&o.ShippingMethod.Name, &o.ShippingMethod.Price, &o.PaymentMethod,
		&o.Subtotal, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			order_number, user_id,
			shipping_full_name, shipping_address, shipping_city, shipping_state,
			shipping_postal_code, shipping_country, shipping_phone,
			shipping_method_name, shipping_method_price, payment_method,
			subtotal, total, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id, created_at, updated_at`,
		o.OrderNumber, o.UserID,
		o.ShippingInfo.FullName, o.ShippingInfo.Address, o.ShippingInfo.City,
		o.ShippingInfo.State, o.ShippingInfo.PostalCode, o.ShippingInfo.Country,
		o.ShippingInfo.Phone,
		o.ShippingMethod.Name, o.ShippingMethod.Price, o.PaymentMethod,
		o.Subtotal, o.Total, o.Status,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, quantity, price, category, image_url)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			RETURNING id`,
			item.OrderID, item.ProductID, item.Name, item.Quantity,
			item.Price, item.Category, item.ImageURL,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *repository) GetByID(ctx context.Context, orderID uint) (*Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) GetByIDForUser(ctx context.Context, orderID, userID uint) (*Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2`,
		orderID, userID)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) List(ctx context.Context, status Status, limit, offset int) ([]*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) Count(ctx context.Context, status Status) (int64, error) {
	var count int64
	var err error
	if status != "" {
		err = r.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM orders WHERE status = $1`, status).Scan(&count)
	} else {
		err = r.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM orders`).Scan(&count)
	}
	return count, err
}

func (r *repository) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[Status]int64)
	for rows.Next() {
		var status Status
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Dashboard summary rows, items intentionally not loaded.
	return collectOrders(rows)
}

func (r *repository) UpdateStatus(ctx context.Context, orderID uint, status Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = now() WHERE id = $2`,
		status, orderID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE order_number = $1)`,
		number).Scan(&exists)
	return exists, err
}

func collectOrders(rows *sql.Rows) ([]*Order, error) {
	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// attachItems loads line items for the given orders in one query.
func (r *repository) attachItems(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(orders))
	byID := make(map[uint]*Order, len(orders))
	for _, o := range orders {
		ids = append(ids, int64(o.ID))
		byID[o.ID] = o
		o.Items = []OrderItem{}
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, name, quantity, price, category, image_url
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id`,
		pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name,
			&item.Quantity, &item.Price, &item.Category, &item.ImageURL)
		if err != nil {
			return err
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}
