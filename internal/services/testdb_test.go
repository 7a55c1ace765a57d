package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"stallpos/internal/domain"
	"stallpos/internal/repos"
	"stallpos/internal/services"
)

// memdb opens a fresh in-memory database pinned to a single connection so
// every goroutine in a test sees the same store.
func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	schema := `
	PRAGMA foreign_keys = ON;
	CREATE TABLE products(
	  id TEXT PRIMARY KEY,
	  name TEXT NOT NULL,
	  unit_cost INTEGER NOT NULL,
	  sale_price INTEGER NOT NULL,
	  product_type TEXT NOT NULL,
	  initial_stock INTEGER NOT NULL DEFAULT 0,
	  current_stock INTEGER NOT NULL DEFAULT 0 CHECK (current_stock >= 0),
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
	  updated_at TEXT
	);
	CREATE TABLE set_components(
	  set_product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	  component_product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
	  quantity INTEGER NOT NULL CHECK (quantity >= 1),
	  PRIMARY KEY (set_product_id, component_product_id)
	);
	CREATE TABLE sales(
	  id TEXT PRIMARY KEY,
	  total_amount INTEGER NOT NULL,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE sale_lines(
	  id TEXT PRIMARY KEY,
	  sale_id TEXT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
	  product_id TEXT NOT NULL,
	  product_name TEXT NOT NULL,
	  unit_cost INTEGER NOT NULL,
	  sale_price INTEGER NOT NULL,
	  quantity INTEGER NOT NULL,
	  subtotal INTEGER NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

func addSingle(t *testing.T, db *sqlx.DB, id, name string, cost, price int64, stock int) {
	t.Helper()
	_, err := db.Exec(`
	  INSERT INTO products(id,name,unit_cost,sale_price,product_type,initial_stock,current_stock)
	  VALUES(?,?,?,?,'single',?,?)
	`, id, name, cost, price, stock, stock)
	if err != nil {
		t.Fatal(err)
	}
}

func addSet(t *testing.T, db *sqlx.DB, id, name string, price int64, components map[string]int) {
	t.Helper()
	_, err := db.Exec(`
	  INSERT INTO products(id,name,unit_cost,sale_price,product_type,initial_stock,current_stock)
	  VALUES(?,?,0,?,'set',0,0)
	`, id, name, price)
	if err != nil {
		t.Fatal(err)
	}
	for cid, qty := range components {
		if _, err := db.Exec(`
		  INSERT INTO set_components(set_product_id,component_product_id,quantity)
		  VALUES(?,?,?)
		`, id, cid, qty); err != nil {
			t.Fatal(err)
		}
	}
}

type fixture struct {
	DB       *sqlx.DB
	Products *repos.ProductRepo
	Stock    *repos.StockRepo
	Sales    *repos.SaleRepo
	Resolver *services.Resolver
	Inv      *services.InventoryService
	Checkout *services.CheckoutService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memdb(t)
	prodRepo := repos.NewProductRepo(db)
	stockRepo := repos.NewStockRepo(db)
	saleRepo := repos.NewSaleRepo(db)
	resolver := services.NewResolver(prodRepo)
	return &fixture{
		DB:       db,
		Products: prodRepo,
		Stock:    stockRepo,
		Sales:    saleRepo,
		Resolver: resolver,
		Inv:      services.NewInventoryService(prodRepo, stockRepo, resolver),
		Checkout: services.NewCheckoutService(db, stockRepo, saleRepo, resolver),
	}
}

func line(productID string, qty int) domain.CartLine {
	return domain.CartLine{ProductID: productID, Quantity: qty}
}
