package services

import (
	"errors"
	"sort"

	"stallpos/internal/domain"
	"stallpos/internal/repos"
)

type InventoryService struct {
	Products *repos.ProductRepo
	Stock    *repos.StockRepo
	Resolver *Resolver
}

func NewInventoryService(products *repos.ProductRepo, stock *repos.StockRepo, resolver *Resolver) *InventoryService {
	return &InventoryService{Products: products, Stock: stock, Resolver: resolver}
}

// InsufficientItem names a shortfall: ProductID is the cart-line product the
// customer picked, ComponentID the single item that ran short.
type InsufficientItem struct {
	ProductID   string `json:"product_id"`
	ComponentID string `json:"component_id"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}

type AvailabilityResult struct {
	Available    bool               `json:"available"`
	Insufficient []InsufficientItem `json:"insufficient,omitempty"`
}

// CheckAvailability validates a cart against a stock snapshot without
// mutating anything. Advisory only: the checkout re-validates under its own
// transaction, so this result may be stale by commit time.
func (s *InventoryService) CheckAvailability(cart []domain.CartLine) (AvailabilityResult, error) {
	plan, err := s.Resolver.ResolveCart(cart)
	if err != nil {
		return AvailabilityResult{}, err
	}

	ids := sortedKeys(plan.Demand)
	snapshot, err := s.Stock.AllStock(ids)
	if err != nil {
		return AvailabilityResult{}, err
	}

	var short []InsufficientItem
	for _, id := range ids {
		need := plan.Demand[id]
		have := snapshot[id]
		if have < need {
			short = append(short, InsufficientItem{
				ProductID:   plan.Origin[id],
				ComponentID: id,
				Requested:   need,
				Available:   have,
			})
		}
	}
	return AvailabilityResult{Available: len(short) == 0, Insufficient: short}, nil
}

// DerivedStock returns current_stock for singles and the limiting-minimum
// derived value for sets. The stored current_stock of a set is never read.
func (s *InventoryService) DerivedStock(productID string) (int, error) {
	p, err := s.Products.Get(productID)
	if err != nil {
		return 0, err
	}
	if !p.IsSet() {
		return p.CurrentStock, nil
	}

	rows, err := s.Products.Components(p.ID)
	if err != nil {
		return 0, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ComponentID)
	}
	snapshot, err := s.Stock.AllStock(ids)
	if err != nil {
		return 0, err
	}
	return s.Resolver.DerivedStock(p.ID, snapshot)
}

// ProductInventory is one row of the stall dashboard's stock view.
type ProductInventory struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ProductType  string  `json:"product_type"`
	CurrentStock int     `json:"current_stock"`
	InitialStock int     `json:"initial_stock"`
	StockRate    float64 `json:"stock_rate"`
	OutOfStock   bool    `json:"out_of_stock"`
}

// Status reports stock for every product, deriving set stock from components.
func (s *InventoryService) Status() ([]ProductInventory, error) {
	products, err := s.Products.List("")
	if err != nil {
		return nil, err
	}

	out := make([]ProductInventory, 0, len(products))
	for _, p := range products {
		stock := p.CurrentStock
		if p.IsSet() {
			stock, err = s.DerivedStock(p.ID)
			if err != nil {
				// Misconfigured sets show as unavailable rather than
				// failing the whole dashboard.
				var bad *domain.InvalidCompositionError
				if !errors.As(err, &bad) {
					return nil, err
				}
				stock = 0
			}
		}
		rate := 0.0
		if p.InitialStock > 0 {
			rate = float64(stock) / float64(p.InitialStock)
		}
		out = append(out, ProductInventory{
			ID:           p.ID,
			Name:         p.Name,
			ProductType:  p.ProductType,
			CurrentStock: stock,
			InitialStock: p.InitialStock,
			StockRate:    rate,
			OutOfStock:   stock == 0,
		})
	}
	return out, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
