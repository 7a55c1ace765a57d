package services_test

import (
	"errors"
	"testing"

	"stallpos/internal/domain"
	"stallpos/internal/services"
)

func TestProductService_CreateSetForcesZeroStock(t *testing.T) {
	f := newFixture(t)
	svc := services.NewProductService(f.Products)

	p, err := svc.Create(services.ProductInput{
		Name: "Combo Set", SalePrice: 400, ProductType: domain.TypeSet, InitialStock: 99,
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.InitialStock != 0 || p.CurrentStock != 0 {
		t.Fatalf("set stock must be forced to zero, got %+v", p)
	}
}

func TestProductService_DuplicateName(t *testing.T) {
	f := newFixture(t)
	svc := services.NewProductService(f.Products)

	if _, err := svc.Create(services.ProductInput{Name: "Green Tea", SalePrice: 100, ProductType: domain.TypeSingle, InitialStock: 5}); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Create(services.ProductInput{Name: "green tea", SalePrice: 120, ProductType: domain.TypeSingle})
	var dup *domain.DuplicateProductError
	if !errors.As(err, &dup) {
		t.Fatalf("want DuplicateProductError, got %v", err)
	}
}

func TestProductService_TypeImmutable(t *testing.T) {
	f := newFixture(t)
	svc := services.NewProductService(f.Products)

	p, err := svc.Create(services.ProductInput{Name: "Green Tea", SalePrice: 100, ProductType: domain.TypeSingle, InitialStock: 5})
	if err != nil {
		t.Fatal(err)
	}
	_, err = svc.Update(p.ID, services.ProductInput{Name: "Green Tea", SalePrice: 100, ProductType: domain.TypeSet})
	if !errors.Is(err, services.ErrImmutableType) {
		t.Fatalf("want ErrImmutableType, got %v", err)
	}
}

func TestProductService_CompositionValidation(t *testing.T) {
	f := newFixture(t)
	svc := services.NewProductService(f.Products)

	addSingle(t, f.DB, "burger", "Burger", 100, 300, 5)
	addSet(t, f.DB, "combo", "Combo Set", 400, nil)
	addSet(t, f.DB, "mega", "Mega Set", 800, nil)

	// Valid composition
	if err := svc.SetComposition("combo", []services.ComponentInput{{ComponentID: "burger", Quantity: 2}}); err != nil {
		t.Fatal(err)
	}
	rows, err := svc.Components("combo")
	if err != nil || len(rows) != 1 || rows[0].Quantity != 2 {
		t.Fatalf("bad composition: %+v (%v)", rows, err)
	}

	// Sets of sets are disallowed.
	err = svc.SetComposition("mega", []services.ComponentInput{{ComponentID: "combo", Quantity: 1}})
	var bad *domain.InvalidCompositionError
	if !errors.As(err, &bad) {
		t.Fatalf("want InvalidCompositionError for set component, got %v", err)
	}

	// Empty composition is rejected.
	if err := svc.SetComposition("mega", nil); !errors.As(err, &bad) {
		t.Fatalf("want InvalidCompositionError for empty composition, got %v", err)
	}

	// Non-set target is rejected.
	if err := svc.SetComposition("burger", []services.ComponentInput{{ComponentID: "burger", Quantity: 1}}); !errors.As(err, &bad) {
		t.Fatalf("want InvalidCompositionError for non-set target, got %v", err)
	}

	// Duplicate components are rejected.
	err = svc.SetComposition("combo", []services.ComponentInput{
		{ComponentID: "burger", Quantity: 1},
		{ComponentID: "burger", Quantity: 2},
	})
	if !errors.As(err, &bad) {
		t.Fatalf("want InvalidCompositionError for duplicate component, got %v", err)
	}
}

func TestProductService_UpdateNeverMovesStock(t *testing.T) {
	f := newFixture(t)
	svc := services.NewProductService(f.Products)
	addSingle(t, f.DB, "tea", "Green Tea", 30, 100, 5)

	// A sale commits while the edit is in flight; the edit carries the
	// pre-sale catalog snapshot.
	if _, err := f.Checkout.Checkout([]domain.CartLine{line("tea", 3)}); err != nil {
		t.Fatal(err)
	}

	p, err := svc.Update("tea", services.ProductInput{
		Name: "Green Tea", UnitCost: 30, SalePrice: 120, InitialStock: 5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.SalePrice != 120 {
		t.Fatalf("price edit must land, got %+v", p)
	}

	if qty, _ := f.Stock.Qty("tea"); qty != 2 {
		t.Fatalf("catalog edit must not resurrect sold stock: want 2, got %d", qty)
	}
	if p.CurrentStock != 2 {
		t.Fatalf("update should report the ledger's stock, got %d", p.CurrentStock)
	}
}

func TestProductService_DeleteProtection(t *testing.T) {
	f := newFixture(t)
	svc := services.NewProductService(f.Products)

	addSingle(t, f.DB, "burger", "Burger", 100, 300, 5)
	addSingle(t, f.DB, "fries", "Fries", 40, 150, 3)
	addSet(t, f.DB, "combo", "Combo Set", 400, map[string]int{"burger": 2})

	// A referenced component cannot be deleted.
	if err := svc.Delete("burger"); !errors.Is(err, services.ErrProductInUse) {
		t.Fatalf("want ErrProductInUse, got %v", err)
	}

	// An unreferenced single can.
	if err := svc.Delete("fries"); err != nil {
		t.Fatal(err)
	}

	// Deleting the set cascades its composition, freeing the component.
	if err := svc.Delete("combo"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete("burger"); err != nil {
		t.Fatal(err)
	}
}
