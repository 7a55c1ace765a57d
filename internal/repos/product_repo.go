package repos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"stallpos/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, name, unit_cost, sale_price, product_type, initial_stock, current_stock,
    created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return p, &domain.ProductNotFoundError{ProductID: id}
	}
	return p, err
}

func (r *ProductRepo) GetByName(name string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE LOWER(name) = LOWER(?)`, name)
	return p, err
}

// List returns all products, optionally filtered by type ('single' or 'set').
func (r *ProductRepo) List(productType string) ([]domain.Product, error) {
	var out []domain.Product
	if productType != "" {
		err := r.db.Select(&out, `SELECT `+productCols+` FROM products WHERE product_type = ? ORDER BY name`, productType)
		return out, err
	}
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products ORDER BY name`)
	return out, err
}

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id,name,unit_cost,sale_price,product_type,initial_stock,current_stock)
	  VALUES(?,?,?,?,?,?,?)
	`, p.ID, p.Name, p.UnitCost, p.SalePrice, p.ProductType, p.InitialStock, p.CurrentStock)
	return err
}

// Update writes the mutable catalog fields. product_type is immutable after
// creation and current_stock belongs to the stock ledger; neither is part of
// the statement, so a catalog edit racing a checkout cannot resurrect sold
// stock from a stale read.
func (r *ProductRepo) Update(p domain.Product) error {
	res, err := r.db.Exec(`
	  UPDATE products
	  SET name = ?, unit_cost = ?, sale_price = ?, initial_stock = ?, updated_at = ?
	  WHERE id = ?
	`, p.Name, p.UnitCost, p.SalePrice, p.InitialStock, time.Now().UTC().Format(time.RFC3339), p.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return &domain.ProductNotFoundError{ProductID: p.ID}
	}
	return nil
}

// Delete removes a product. Compositions owned by a set cascade; deleting a
// single product still referenced by any set fails on the RESTRICT foreign key.
func (r *ProductRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return &domain.ProductNotFoundError{ProductID: id}
	}
	return nil
}

// ComponentRefCount reports how many set compositions reference the product.
func (r *ProductRepo) ComponentRefCount(id string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM set_components WHERE component_product_id = ?`, id)
	return n, err
}

// Components returns the composition rows for a set product.
func (r *ProductRepo) Components(setID string) ([]domain.SetComponent, error) {
	var out []domain.SetComponent
	err := r.db.Select(&out, `
	  SELECT set_product_id, component_product_id, quantity
	  FROM set_components
	  WHERE set_product_id = ?
	  ORDER BY component_product_id
	`, setID)
	return out, err
}

// ReplaceComponents swaps a set's composition for the given rows in one
// transaction.
func (r *ProductRepo) ReplaceComponents(setID string, rows []domain.SetComponent) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM set_components WHERE set_product_id = ?`, setID); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := tx.Exec(`
		  INSERT INTO set_components(set_product_id, component_product_id, quantity)
		  VALUES(?,?,?)
		`, setID, row.ComponentID, row.Quantity); err != nil {
			return err
		}
	}
	return tx.Commit()
}
