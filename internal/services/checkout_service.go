package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"stallpos/internal/domain"
	"stallpos/internal/repos"
)

// CheckoutService commits a cart into stock decrements plus an immutable sale
// record, or nothing at all. It is the only path that writes sales.
type CheckoutService struct {
	DB       *sqlx.DB
	Stock    *repos.StockRepo
	Sales    *repos.SaleRepo
	Resolver *Resolver
}

func NewCheckoutService(db *sqlx.DB, stock *repos.StockRepo, sales *repos.SaleRepo, resolver *Resolver) *CheckoutService {
	return &CheckoutService{DB: db, Stock: stock, Sales: sales, Resolver: resolver}
}

type CheckoutResult struct {
	SaleID      string `json:"sale_id"`
	TotalAmount int64  `json:"total_amount"`
	CreatedAt   string `json:"created_at"`
}

// Checkout runs the whole commit as one transaction:
//
//  1. resolve the cart into a flat demand map, capturing the catalog price
//     snapshot per original cart line;
//  2. apply conditional decrements in sorted product-id order; the
//     decrement's stock guard is the authoritative re-check, so a stale
//     advisory check can never oversell;
//  3. insert the sale and one line per original cart line (sets stay sets on
//     the receipt), total = sum of line subtotals;
//  4. commit, or roll back everything on the first failure.
//
// The only user-correctable failure is InsufficientStockError; the caller may
// adjust the cart and retry the whole call. There is no internal retry.
func (s *CheckoutService) Checkout(cart []domain.CartLine) (CheckoutResult, error) {
	if len(cart) == 0 {
		return CheckoutResult{}, errors.New("cart is empty")
	}

	plan, err := s.Resolver.ResolveCart(cart)
	if err != nil {
		return CheckoutResult{}, err
	}
	ids := sortedKeys(plan.Demand)

	tx, err := s.DB.Beginx()
	if err != nil {
		return CheckoutResult{}, &domain.TransientStorageError{Op: "begin checkout", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	// Sorted order keeps two overlapping checkouts from deadlocking on each
	// other's rows.
	for _, id := range ids {
		if err := s.Stock.Decrement(tx, id, plan.Demand[id]); err != nil {
			var short *domain.InsufficientStockError
			if errors.As(err, &short) {
				short.ProductID = plan.Origin[id]
			}
			return CheckoutResult{}, err
		}
	}

	sale := domain.Sale{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC().Format(repos.TimeLayout),
		TotalAmount: 0,
	}
	for _, line := range plan.Lines {
		sale.TotalAmount += line.Product.SalePrice * int64(line.Quantity)
	}
	if err := s.Sales.InsertSale(tx, sale); err != nil {
		return CheckoutResult{}, fmt.Errorf("insert sale: %w", err)
	}

	for _, line := range plan.Lines {
		sl := domain.SaleLine{
			ID:          uuid.NewString(),
			SaleID:      sale.ID,
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			UnitCost:    line.Product.UnitCost,
			SalePrice:   line.Product.SalePrice,
			Quantity:    line.Quantity,
			Subtotal:    line.Product.SalePrice * int64(line.Quantity),
		}
		if err := s.Sales.InsertLine(tx, sl); err != nil {
			return CheckoutResult{}, fmt.Errorf("insert sale line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return CheckoutResult{}, &domain.TransientStorageError{Op: "commit checkout", Err: err}
	}

	return CheckoutResult{SaleID: sale.ID, TotalAmount: sale.TotalAmount, CreatedAt: sale.CreatedAt}, nil
}
