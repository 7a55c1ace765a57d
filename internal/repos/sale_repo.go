package repos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"stallpos/internal/domain"
)

// SaleRepo is the append-only sales history store. Committed sales are
// immutable: there is no update or delete method here.
type SaleRepo struct{ db *sqlx.DB }

func NewSaleRepo(db *sqlx.DB) *SaleRepo { return &SaleRepo{db: db} }

// InsertSale writes a sale header. Runs inside the checkout transaction.
func (r *SaleRepo) InsertSale(e sqlx.Ext, s domain.Sale) error {
	_, err := e.Exec(`
	  INSERT INTO sales(id, total_amount, created_at)
	  VALUES(?,?,?)
	`, s.ID, s.TotalAmount, s.CreatedAt)
	return err
}

// InsertLine writes one sale line with its price snapshot.
func (r *SaleRepo) InsertLine(e sqlx.Ext, l domain.SaleLine) error {
	_, err := e.Exec(`
	  INSERT INTO sale_lines(id, sale_id, product_id, product_name, unit_cost, sale_price, quantity, subtotal)
	  VALUES(?,?,?,?,?,?,?,?)
	`, l.ID, l.SaleID, l.ProductID, l.ProductName, l.UnitCost, l.SalePrice, l.Quantity, l.Subtotal)
	return err
}

func (r *SaleRepo) Get(saleID string) (domain.Sale, []domain.SaleLine, error) {
	var s domain.Sale
	if err := r.db.Get(&s, `SELECT id, total_amount, created_at FROM sales WHERE id = ?`, saleID); err != nil {
		if err == sql.ErrNoRows {
			return domain.Sale{}, nil, nil
		}
		return domain.Sale{}, nil, err
	}

	var lines []domain.SaleLine
	if err := r.db.Select(&lines, `
	  SELECT id, sale_id, product_id, product_name, unit_cost, sale_price, quantity, subtotal
	  FROM sale_lines
	  WHERE sale_id = ?
	  ORDER BY product_name
	`, saleID); err != nil {
		return domain.Sale{}, nil, err
	}
	return s, lines, nil
}

// ListByDateRange returns sales within [from, to], newest first. Zero times
// mean unbounded on that side.
func (r *SaleRepo) ListByDateRange(from, to time.Time) ([]domain.Sale, error) {
	where := `1=1`
	args := []any{}
	if !from.IsZero() {
		where += ` AND datetime(created_at) >= datetime(?)`
		args = append(args, from.UTC().Format(TimeLayout))
	}
	if !to.IsZero() {
		where += ` AND datetime(created_at) <= datetime(?)`
		args = append(args, to.UTC().Format(TimeLayout))
	}

	var out []domain.Sale
	err := r.db.Select(&out, `
	  SELECT id, total_amount, created_at
	  FROM sales
	  WHERE `+where+`
	  ORDER BY datetime(created_at) DESC, id
	`, args...)
	return out, err
}

type SalesSummary struct {
	SaleCount int   `db:"sale_count"`
	Revenue   int64 `db:"revenue"`
	Cost      int64 `db:"cost"`
}

// Summary aggregates committed sales for the dashboard. Cost comes from the
// unit_cost snapshots, so later catalog edits do not shift history.
func (r *SaleRepo) Summary() (SalesSummary, error) {
	var s SalesSummary
	if err := r.db.Get(&s, `
	  SELECT COUNT(*) AS sale_count, COALESCE(SUM(total_amount),0) AS revenue
	  FROM sales
	`); err != nil {
		return s, err
	}
	err := r.db.Get(&s.Cost, `
	  SELECT COALESCE(SUM(unit_cost * quantity),0) FROM sale_lines
	`)
	return s, err
}

// TimeLayout is the timestamp format stored in created_at columns.
const TimeLayout = "2006-01-02 15:04:05"
