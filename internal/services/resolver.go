package services

import (
	"fmt"

	"stallpos/internal/domain"
	"stallpos/internal/repos"
)

// Resolver flattens set products into their single-item demand. Sets of sets
// are rejected at composition time, so expansion never recurses.
type Resolver struct {
	Products *repos.ProductRepo
}

func NewResolver(products *repos.ProductRepo) *Resolver {
	return &Resolver{Products: products}
}

// Expand returns the per-unit single-item demand for a product: {id: 1} for
// singles, the composition rows for sets.
func (r *Resolver) Expand(p domain.Product) (map[string]int, error) {
	if !p.IsSet() {
		return map[string]int{p.ID: 1}, nil
	}
	rows, err := r.Products.Components(p.ID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.InvalidCompositionError{SetProductID: p.ID, Reason: "set has no composition"}
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.ComponentID] = row.Quantity
	}
	return out, nil
}

// DerivedStock computes how many units of a set the current component stock
// supports: min(floor(stock/quantity)) over all composition rows. A component
// missing from the snapshot makes the set unavailable.
func (r *Resolver) DerivedStock(setID string, snapshot map[string]int) (int, error) {
	rows, err := r.Products.Components(setID)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, &domain.InvalidCompositionError{SetProductID: setID, Reason: "set has no composition"}
	}

	derived := -1
	for _, row := range rows {
		stock, ok := snapshot[row.ComponentID]
		if !ok {
			return 0, nil
		}
		n := stock / row.Quantity
		if derived < 0 || n < derived {
			derived = n
		}
	}
	return derived, nil
}

// ResolvedLine pairs the catalog snapshot of one cart line with its quantity.
// The sale record is built from these, so prices are captured here and never
// re-read.
type ResolvedLine struct {
	Product  domain.Product
	Quantity int
}

// DemandPlan is a cart flattened to single-item totals. Origin remembers
// which cart-line product first pulled in each component, so shortfalls can
// be reported against the product the customer actually picked.
type DemandPlan struct {
	Lines  []ResolvedLine
	Demand map[string]int
	Origin map[string]string
}

// ResolveCart validates every cart line and accumulates the flat demand map,
// summing components shared across lines.
func (r *Resolver) ResolveCart(cart []domain.CartLine) (*DemandPlan, error) {
	plan := &DemandPlan{
		Demand: make(map[string]int),
		Origin: make(map[string]string),
	}

	for _, line := range cart {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("invalid quantity %d for product %s", line.Quantity, line.ProductID)
		}
		p, err := r.Products.Get(line.ProductID)
		if err != nil {
			return nil, err
		}
		unit, err := r.Expand(p)
		if err != nil {
			return nil, err
		}
		for componentID, perUnit := range unit {
			plan.Demand[componentID] += perUnit * line.Quantity
			if _, seen := plan.Origin[componentID]; !seen {
				plan.Origin[componentID] = p.ID
			}
		}
		plan.Lines = append(plan.Lines, ResolvedLine{Product: p, Quantity: line.Quantity})
	}
	return plan, nil
}
