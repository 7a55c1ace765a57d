package services_test

import (
	"reflect"
	"testing"

	"stallpos/internal/domain"
)

func TestCheckAvailability_OK(t *testing.T) {
	f := newFixture(t)
	addSingle(t, f.DB, "tea", "Green Tea", 30, 100, 5)

	res, err := f.Inv.CheckAvailability([]domain.CartLine{line("tea", 3)})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Available || len(res.Insufficient) != 0 {
		t.Fatalf("want available, got %+v", res)
	}
}

func TestCheckAvailability_InsufficientNamesCartLineProduct(t *testing.T) {
	f := newFixture(t)
	addSingle(t, f.DB, "burger", "Burger", 100, 300, 1)
	addSingle(t, f.DB, "fries", "Fries", 40, 150, 10)
	addSet(t, f.DB, "combo", "Combo Set", 400, map[string]int{"burger": 2, "fries": 1})

	res, err := f.Inv.CheckAvailability([]domain.CartLine{line("combo", 1)})
	if err != nil {
		t.Fatal(err)
	}
	if res.Available {
		t.Fatal("want unavailable")
	}
	if len(res.Insufficient) != 1 {
		t.Fatalf("want one shortfall, got %+v", res.Insufficient)
	}
	s := res.Insufficient[0]
	if s.ProductID != "combo" || s.ComponentID != "burger" || s.Requested != 2 || s.Available != 1 {
		t.Fatalf("bad shortfall detail: %+v", s)
	}
}

func TestCheckAvailability_Overlap(t *testing.T) {
	f := newFixture(t)
	// Two lines share a component; the summed demand tips it over.
	addSingle(t, f.DB, "skewer", "Pork Skewer", 70, 200, 100)
	addSingle(t, f.DB, "tea", "Green Tea", 30, 100, 150)
	addSet(t, f.DB, "drink-set", "Drink Set", 280, map[string]int{"skewer": 2, "tea": 1})

	res, err := f.Inv.CheckAvailability([]domain.CartLine{line("drink-set", 49), line("skewer", 4)})
	if err != nil {
		t.Fatal(err)
	}
	if res.Available {
		t.Fatal("want unavailable: 49*2+4=102 skewers > 100")
	}
	s := res.Insufficient[0]
	if s.ComponentID != "skewer" || s.Requested != 102 || s.Available != 100 {
		t.Fatalf("bad shortfall detail: %+v", s)
	}
}

func TestCheckAvailability_Idempotent(t *testing.T) {
	f := newFixture(t)
	addSingle(t, f.DB, "tea", "Green Tea", 30, 100, 2)

	cart := []domain.CartLine{line("tea", 10)}
	first, err := f.Inv.CheckAvailability(cart)
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.Inv.CheckAvailability(cart)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("advisory check should be pure: %+v vs %+v", first, second)
	}
}

func TestDerivedStock(t *testing.T) {
	f := newFixture(t)
	addSingle(t, f.DB, "burger", "Burger", 100, 300, 5)
	addSingle(t, f.DB, "fries", "Fries", 40, 150, 3)
	addSet(t, f.DB, "combo", "Combo Set", 400, map[string]int{"burger": 2, "fries": 1})

	if n, err := f.Inv.DerivedStock("burger"); err != nil || n != 5 {
		t.Fatalf("single derived stock: want 5, got %d (%v)", n, err)
	}
	if n, err := f.Inv.DerivedStock("combo"); err != nil || n != 2 {
		t.Fatalf("set derived stock: want 2, got %d (%v)", n, err)
	}
}

func TestInventoryStatus_MisconfiguredSet(t *testing.T) {
	f := newFixture(t)
	addSet(t, f.DB, "hollow", "Hollow Set", 100, nil)

	rows, err := f.Inv.Status()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].CurrentStock != 0 || !rows[0].OutOfStock {
		t.Fatalf("set without composition should read as out of stock: %+v", rows)
	}
}

func TestInventoryStatus(t *testing.T) {
	f := newFixture(t)
	addSingle(t, f.DB, "tea", "Green Tea", 30, 100, 0)
	addSingle(t, f.DB, "burger", "Burger", 100, 300, 4)
	addSet(t, f.DB, "combo", "Combo Set", 400, map[string]int{"burger": 2})

	rows, err := f.Inv.Status()
	if err != nil {
		t.Fatal(err)
	}
	byID := map[string]bool{}
	for _, r := range rows {
		byID[r.ID] = true
		switch r.ID {
		case "tea":
			if !r.OutOfStock || r.CurrentStock != 0 {
				t.Fatalf("tea should be out of stock: %+v", r)
			}
		case "combo":
			if r.CurrentStock != 2 {
				t.Fatalf("combo derived stock want 2, got %+v", r)
			}
		}
	}
	if len(byID) != 3 {
		t.Fatalf("want 3 products, got %v", byID)
	}
}
