package sqlite

// migrate creates the database schema.
func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	code         TEXT NOT NULL UNIQUE,
	name         TEXT NOT NULL,
	account_type TEXT NOT NULL CHECK (account_type IN ('asset','liability','equity','revenue','expense')),
	parent_id    INTEGER REFERENCES accounts(id),
	balance      TEXT NOT NULL DEFAULT '0',
	active       INTEGER NOT NULL DEFAULT 1,
	created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS journal_entries (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	entry_date  TEXT NOT NULL,
	reference   TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	posted      INTEGER NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS journal_lines (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	entry_id    INTEGER NOT NULL REFERENCES journal_entries(id),
	account_id  INTEGER NOT NULL REFERENCES accounts(id),
	debit       TEXT NOT NULL DEFAULT '0',
	credit      TEXT NOT NULL DEFAULT '0',
	description TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_journal_lines_entry ON journal_lines(entry_id);

CREATE TABLE IF NOT EXISTS contacts (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	name         TEXT NOT NULL,
	contact_type TEXT NOT NULL CHECK (contact_type IN ('customer','supplier','both')),
	email        TEXT NOT NULL DEFAULT '',
	phone        TEXT NOT NULL DEFAULT '',
	address      TEXT NOT NULL DEFAULT '',
	active       INTEGER NOT NULL DEFAULT 1,
	created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	sku           TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	unit_price    TEXT NOT NULL DEFAULT '0',
	cost_price    TEXT NOT NULL DEFAULT '0',
	stock_qty     TEXT NOT NULL DEFAULT '0',
	reorder_level TEXT NOT NULL DEFAULT '0',
	unit          TEXT NOT NULL DEFAULT 'each',
	active        INTEGER NOT NULL DEFAULT 1,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS stock_movements (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id    INTEGER NOT NULL REFERENCES products(id),
	movement_type TEXT NOT NULL CHECK (movement_type IN ('in','out','adjustment')),
	quantity      TEXT NOT NULL,
	reference     TEXT NOT NULL DEFAULT '',
	notes         TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_stock_movements_product ON stock_movements(product_id);

CREATE TABLE IF NOT EXISTS sales_orders (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	order_number TEXT NOT NULL UNIQUE,
	customer_id  INTEGER NOT NULL REFERENCES contacts(id),
	order_date   TEXT NOT NULL,
	status       TEXT NOT NULL CHECK (status IN ('draft','confirmed','shipped','invoiced','cancelled')),
	subtotal     TEXT NOT NULL DEFAULT '0',
	tax_amount   TEXT NOT NULL DEFAULT '0',
	total        TEXT NOT NULL DEFAULT '0',
	notes        TEXT NOT NULL DEFAULT '',
	created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sales_order_lines (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	order_id    INTEGER NOT NULL REFERENCES sales_orders(id),
	product_id  INTEGER NOT NULL REFERENCES products(id),
	description TEXT NOT NULL DEFAULT '',
	quantity    TEXT NOT NULL,
	unit_price  TEXT NOT NULL,
	line_total  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sales_order_lines_order ON sales_order_lines(order_id);

CREATE TABLE IF NOT EXISTS purchase_orders (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	po_number     TEXT NOT NULL UNIQUE,
	supplier_id   INTEGER NOT NULL REFERENCES contacts(id),
	order_date    TEXT NOT NULL,
	expected_date TEXT,
	status        TEXT NOT NULL CHECK (status IN ('draft','confirmed','received','invoiced','cancelled')),
	subtotal      TEXT NOT NULL DEFAULT '0',
	tax_amount    TEXT NOT NULL DEFAULT '0',
	total         TEXT NOT NULL DEFAULT '0',
	notes         TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS purchase_order_lines (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	po_id       INTEGER NOT NULL REFERENCES purchase_orders(id),
	product_id  INTEGER NOT NULL REFERENCES products(id),
	description TEXT NOT NULL DEFAULT '',
	quantity    TEXT NOT NULL,
	unit_price  TEXT NOT NULL,
	line_total  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_purchase_order_lines_po ON purchase_order_lines(po_id);

CREATE TABLE IF NOT EXISTS invoices (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	invoice_number TEXT NOT NULL UNIQUE,
	sales_order_id INTEGER REFERENCES sales_orders(id),
	customer_id    INTEGER NOT NULL REFERENCES contacts(id),
	invoice_date   TEXT NOT NULL,
	due_date       TEXT,
	status         TEXT NOT NULL CHECK (status IN ('draft','sent','paid','overdue','cancelled')),
	subtotal       TEXT NOT NULL DEFAULT '0',
	tax_amount     TEXT NOT NULL DEFAULT '0',
	total          TEXT NOT NULL DEFAULT '0',
	amount_paid    TEXT NOT NULL DEFAULT '0',
	notes          TEXT NOT NULL DEFAULT '',
	created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS invoice_lines (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	invoice_id  INTEGER NOT NULL REFERENCES invoices(id),
	product_id  INTEGER NOT NULL REFERENCES products(id),
	description TEXT NOT NULL DEFAULT '',
	quantity    TEXT NOT NULL,
	unit_price  TEXT NOT NULL,
	line_total  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_invoice_lines_invoice ON invoice_lines(invoice_id);
`
