package domain

import "fmt"

// InsufficientStockError reports a shortfall for one cart line. ProductID is
// the product the caller put in the cart (possibly a set); ComponentID is the
// single item that actually ran short (equal to ProductID for singles).
type InsufficientStockError struct {
	ProductID   string `json:"product_id"`
	ComponentID string `json:"component_id"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}

func (e *InsufficientStockError) Error() string {
	if e.ComponentID != "" && e.ComponentID != e.ProductID {
		return fmt.Sprintf("insufficient stock for %s: component %s requested %d, available %d",
			e.ProductID, e.ComponentID, e.Requested, e.Available)
	}
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// InvalidCompositionError marks a misconfigured set product: no composition
// rows, a non-single component, or a bad quantity. Not user-retryable from
// the checkout flow.
type InvalidCompositionError struct {
	SetProductID string
	Reason       string
}

func (e *InvalidCompositionError) Error() string {
	return fmt.Sprintf("invalid composition for set %s: %s", e.SetProductID, e.Reason)
}

type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.ProductID)
}

// TransientStorageError marks lock-wait or connectivity failures around the
// commit boundary. Nothing was applied; the caller may retry the whole call.
type TransientStorageError struct {
	Op  string
	Err error
}

func (e *TransientStorageError) Error() string {
	return fmt.Sprintf("transient storage failure during %s: %v", e.Op, e.Err)
}

func (e *TransientStorageError) Unwrap() error { return e.Err }

// DuplicateProductError rejects catalog writes that reuse an existing name.
type DuplicateProductError struct {
	Name string
}

func (e *DuplicateProductError) Error() string {
	return fmt.Sprintf("product with name %q already exists", e.Name)
}
