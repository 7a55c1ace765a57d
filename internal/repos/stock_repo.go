package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"stallpos/internal/domain"
)

// StockRepo is the only writer of current_stock for single products. All
// mutations go through Decrement/Increment so the check-then-set stays in one
// conditional statement.
type StockRepo struct{ db *sqlx.DB }

func NewStockRepo(db *sqlx.DB) *StockRepo { return &StockRepo{db: db} }

// Qty returns current stock for a single product.
func (r *StockRepo) Qty(productID string) (int, error) {
	return stockQty(r.db, productID)
}

// AllStock snapshot-reads current stock for the given single products.
// Missing ids are simply absent from the result map.
func (r *StockRepo) AllStock(ids []string) (map[string]int, error) {
	return allStock(r.db, ids)
}

// Decrement subtracts "by" units if enough stock exists, atomically: the
// availability check and the write are one conditional UPDATE, so two
// concurrent sales can never both consume the last unit. Runs on the DB or
// inside a transaction via e.
func (r *StockRepo) Decrement(e sqlx.Ext, productID string, by int) error {
	res, err := e.Exec(`
		UPDATE products
		SET current_stock = current_stock - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND product_type = 'single' AND current_stock >= ?
	`, by, productID, by)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		avail, qerr := stockQty(e, productID)
		if qerr != nil {
			return qerr
		}
		return &domain.InsufficientStockError{
			ProductID:   productID,
			ComponentID: productID,
			Requested:   by,
			Available:   avail,
		}
	}
	return nil
}

// Increment restores stock (compensating actions; never part of checkout).
func (r *StockRepo) Increment(e sqlx.Ext, productID string, by int) error {
	res, err := e.Exec(`
		UPDATE products
		SET current_stock = current_stock + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND product_type = 'single'
	`, by, productID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return &domain.ProductNotFoundError{ProductID: productID}
	}
	return nil
}

func stockQty(q sqlx.Queryer, productID string) (int, error) {
	var qty int
	err := sqlx.Get(q, &qty, `
		SELECT current_stock FROM products
		WHERE id = ? AND product_type = 'single'
	`, productID)
	if err == sql.ErrNoRows {
		return 0, &domain.ProductNotFoundError{ProductID: productID}
	}
	if err != nil {
		return 0, err
	}
	return qty, nil
}

func allStock(q sqlx.Queryer, ids []string) (map[string]int, error) {
	if len(ids) == 0 {
		return map[string]int{}, nil
	}
	query, args, err := sqlx.In(`
		SELECT id, current_stock FROM products
		WHERE product_type = 'single' AND id IN (?)
	`, ids)
	if err != nil {
		return nil, err
	}
	type row struct {
		ID  string `db:"id"`
		Qty int    `db:"current_stock"`
	}
	var rows []row
	if err := sqlx.Select(q, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.ID] = r.Qty
	}
	return out, nil
}
