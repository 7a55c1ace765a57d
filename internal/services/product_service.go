package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"stallpos/internal/domain"
	"stallpos/internal/repos"
)

var (
	// ErrProductInUse blocks deleting a single product referenced by a set.
	ErrProductInUse = errors.New("product is referenced by a set composition")
	// ErrImmutableType blocks changing product_type after creation.
	ErrImmutableType = errors.New("product_type is immutable")
)

// ProductService manages the catalog: product CRUD and set composition.
// Stock mutation stays out of here; current_stock only moves through the
// stock ledger once a product exists.
type ProductService struct {
	Products *repos.ProductRepo
}

func NewProductService(products *repos.ProductRepo) *ProductService {
	return &ProductService{Products: products}
}

type ProductInput struct {
	Name         string `json:"name"`
	UnitCost     int64  `json:"unit_cost"`
	SalePrice    int64  `json:"sale_price"`
	ProductType  string `json:"product_type"`
	InitialStock int    `json:"initial_stock"`
}

type ComponentInput struct {
	ComponentID string `json:"component_id"`
	Quantity    int    `json:"quantity"`
}

func (s *ProductService) Create(in ProductInput) (domain.Product, error) {
	if err := validateProductInput(in); err != nil {
		return domain.Product{}, err
	}
	if _, err := s.Products.GetByName(in.Name); err == nil {
		return domain.Product{}, &domain.DuplicateProductError{Name: in.Name}
	} else if err != sql.ErrNoRows {
		return domain.Product{}, err
	}

	p := domain.Product{
		ID:           uuid.NewString(),
		Name:         in.Name,
		UnitCost:     in.UnitCost,
		SalePrice:    in.SalePrice,
		ProductType:  in.ProductType,
		InitialStock: in.InitialStock,
		CurrentStock: in.InitialStock,
	}
	// A set's stored stock is vestigial and forced to zero; its real stock
	// is derived from components.
	if p.IsSet() {
		p.InitialStock = 0
		p.CurrentStock = 0
	}
	if err := s.Products.Create(p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// Update edits catalog fields. product_type is immutable: changing it would
// invalidate existing compositions and in-flight stock semantics.
func (s *ProductService) Update(id string, in ProductInput) (domain.Product, error) {
	p, err := s.Products.Get(id)
	if err != nil {
		return domain.Product{}, err
	}
	if in.ProductType != "" && in.ProductType != p.ProductType {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, ErrImmutableType)
	}
	if err := validateProductInput(ProductInput{
		Name: in.Name, UnitCost: in.UnitCost, SalePrice: in.SalePrice,
		ProductType: p.ProductType, InitialStock: in.InitialStock,
	}); err != nil {
		return domain.Product{}, err
	}

	if other, err := s.Products.GetByName(in.Name); err == nil && other.ID != id {
		return domain.Product{}, &domain.DuplicateProductError{Name: in.Name}
	} else if err != nil && err != sql.ErrNoRows {
		return domain.Product{}, err
	}

	p.Name = in.Name
	p.UnitCost = in.UnitCost
	p.SalePrice = in.SalePrice
	p.InitialStock = in.InitialStock
	if p.IsSet() {
		p.InitialStock = 0
	}
	// Repo.Update never writes current_stock; re-read so the caller sees the
	// ledger's value, not the snapshot from before the edit.
	if err := s.Products.Update(p); err != nil {
		return domain.Product{}, err
	}
	return s.Products.Get(p.ID)
}

// Delete removes a product. A single product still used by a set composition
// is protected: deleting it would silently corrupt the set's stock formula.
func (s *ProductService) Delete(id string) error {
	n, err := s.Products.ComponentRefCount(id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("product %s is a component of %d set(s): %w", id, n, ErrProductInUse)
	}
	return s.Products.Delete(id)
}

func (s *ProductService) Get(id string) (domain.Product, error) {
	return s.Products.Get(id)
}

func (s *ProductService) List(productType string) ([]domain.Product, error) {
	return s.Products.List(productType)
}

func (s *ProductService) Components(setID string) ([]domain.SetComponent, error) {
	return s.Products.Components(setID)
}

// SetComposition replaces a set's composition. Every component must be an
// existing single product (sets of sets are disallowed), quantities must be
// at least 1, and at least one distinct component is required.
func (s *ProductService) SetComposition(setID string, rows []ComponentInput) error {
	p, err := s.Products.Get(setID)
	if err != nil {
		return err
	}
	if !p.IsSet() {
		return &domain.InvalidCompositionError{SetProductID: setID, Reason: "product is not a set"}
	}
	if len(rows) == 0 {
		return &domain.InvalidCompositionError{SetProductID: setID, Reason: "set has no composition"}
	}

	seen := map[string]bool{}
	out := make([]domain.SetComponent, 0, len(rows))
	for _, row := range rows {
		if row.Quantity < 1 {
			return &domain.InvalidCompositionError{SetProductID: setID,
				Reason: fmt.Sprintf("quantity %d for component %s", row.Quantity, row.ComponentID)}
		}
		if seen[row.ComponentID] {
			return &domain.InvalidCompositionError{SetProductID: setID,
				Reason: "duplicate component " + row.ComponentID}
		}
		seen[row.ComponentID] = true

		c, err := s.Products.Get(row.ComponentID)
		if err != nil {
			return err
		}
		if c.IsSet() {
			return &domain.InvalidCompositionError{SetProductID: setID,
				Reason: "component " + row.ComponentID + " is a set"}
		}
		out = append(out, domain.SetComponent{
			SetProductID: setID,
			ComponentID:  row.ComponentID,
			Quantity:     row.Quantity,
		})
	}
	return s.Products.ReplaceComponents(setID, out)
}

func validateProductInput(in ProductInput) error {
	if in.Name == "" {
		return errors.New("product name is required")
	}
	if in.UnitCost < 0 || in.SalePrice < 0 {
		return errors.New("unit_cost and sale_price must be >= 0")
	}
	if in.ProductType != domain.TypeSingle && in.ProductType != domain.TypeSet {
		return fmt.Errorf("product_type must be %q or %q", domain.TypeSingle, domain.TypeSet)
	}
	if in.InitialStock < 0 {
		return errors.New("initial_stock must be >= 0")
	}
	return nil
}
