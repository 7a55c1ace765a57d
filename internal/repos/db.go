package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	// One connection keeps concurrent checkouts queued on the driver instead
	// of surfacing SQLITE_BUSY mid-transaction.
	db.SetMaxOpenConns(1)

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline stall data if DB is empty (products/compositions)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure staff accounts exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Products (single items carry real stock; set stock is derived)
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  unit_cost INTEGER NOT NULL CHECK (unit_cost >= 0),
  sale_price INTEGER NOT NULL CHECK (sale_price >= 0),
  product_type TEXT NOT NULL CHECK (product_type IN ('single','set')),
  initial_stock INTEGER NOT NULL DEFAULT 0 CHECK (initial_stock >= 0),
  current_stock INTEGER NOT NULL DEFAULT 0 CHECK (current_stock >= 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_products_name_nocase ON products(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_type ON products(product_type);

-- Set composition: one set unit consumes quantity units of each component.
-- Components must be single products; deleting a referenced component is
-- blocked (RESTRICT), deleting the set removes its rows (CASCADE).
CREATE TABLE IF NOT EXISTS set_components(
  set_product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  component_product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  PRIMARY KEY (set_product_id, component_product_id)
);
CREATE INDEX IF NOT EXISTS idx_set_components_component ON set_components(component_product_id);

-- Sales are append-only; no update or delete path exists.
CREATE TABLE IF NOT EXISTS sales(
  id TEXT PRIMARY KEY,
  total_amount INTEGER NOT NULL CHECK (total_amount >= 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales(created_at);

-- Sale lines keep a price snapshot; product_id has no FK on purpose so the
-- line survives product deletion (audit record).
CREATE TABLE IF NOT EXISTS sale_lines(
  id TEXT PRIMARY KEY,
  sale_id TEXT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  unit_cost INTEGER NOT NULL,
  sale_price INTEGER NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  subtotal INTEGER NOT NULL CHECK (subtotal >= 0)
);
CREATE INDEX IF NOT EXISTS idx_sale_lines_sale ON sale_lines(sale_id);

-- Staff & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('STAFF','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo stall products/compositions")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(id,name,unit_cost,sale_price,product_type,initial_stock,current_stock) VALUES
	  ('beef-skewer','Beef Rib Skewer',162,400,'single',200,200),
	  ('pork-skewer','Pork Belly Skewer',71,200,'single',400,400),
	  ('veggie-skewer','Veggie Skewer',130,200,'single',50,50),
	  ('green-tea','Green Tea',30,100,'single',150,150),
	  ('ramune','Ramune Soda',55,150,'single',120,120)`)

	tx.MustExec(`INSERT INTO products(id,name,unit_cost,sale_price,product_type,initial_stock,current_stock) VALUES
	  ('skewer-combo','Skewer Combo',0,550,'set',0,0),
	  ('drink-set','Skewer & Drink Set',0,280,'set',0,0)`)

	tx.MustExec(`INSERT INTO set_components(set_product_id,component_product_id,quantity) VALUES
	  ('skewer-combo','beef-skewer',1),
	  ('skewer-combo','pork-skewer',1),
	  ('skewer-combo','veggie-skewer',1),
	  ('drink-set','pork-skewer',1),
	  ('drink-set','green-tea',1)`)

	return tx.Commit()
}

// seedUsers ensures one STAFF and one ADMIN account exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-register", "register@stallpos.test", "Register", "STAFF", "Passw0rd!"),
		mk("u-manager", "manager@stallpos.test", "Manager", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
