package db

import "database/sql"

// InitSchema creates the order tables if they do not exist yet.
func InitSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		order_number TEXT NOT NULL UNIQUE,
		user_id BIGINT NOT NULL,
		shipping_full_name TEXT NOT NULL DEFAULT '',
		shipping_address TEXT NOT NULL DEFAULT '',
		shipping_city TEXT NOT NULL DEFAULT '',
		shipping_state TEXT NOT NULL DEFAULT '',
		shipping_postal_code TEXT NOT NULL DEFAULT '',
		shipping_country TEXT NOT NULL DEFAULT '',
		shipping_phone TEXT NOT NULL DEFAULT '',
		shipping_method_name TEXT NOT NULL DEFAULT '',
		shipping_method_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		payment_method TEXT NOT NULL DEFAULT '',
		subtotal DOUBLE PRECISION NOT NULL,
		total DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id),
		product_id TEXT NOT NULL,
		name TEXT NOT NULL,
		quantity INT NOT NULL CHECK (quantity > 0),
		price DOUBLE PRECISION NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_orders_user_created
		ON orders (user_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status);
	CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id);
	`

	_, err := db.Exec(schema)
	return err
}
