package domain

// Product types
const (
	TypeSingle = "single"
	TypeSet    = "set"
)

type Product struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	UnitCost     int64  `db:"unit_cost"`
	SalePrice    int64  `db:"sale_price"`
	ProductType  string `db:"product_type"` // single | set
	InitialStock int    `db:"initial_stock"`
	CurrentStock int    `db:"current_stock"` // always 0 for sets; derived at read time
	CreatedAt    string `db:"created_at"`
	UpdatedAt    string `db:"updated_at"`
}

func (p Product) IsSet() bool { return p.ProductType == TypeSet }

// SetComponent is one row of a set product's composition: one unit of the
// set consumes Quantity units of the referenced single product.
type SetComponent struct {
	SetProductID string `db:"set_product_id"`
	ComponentID  string `db:"component_product_id"`
	Quantity     int    `db:"quantity"`
}

// CartLine is a transient checkout request entry. Nothing is persisted
// until the checkout commits.
type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type Sale struct {
	ID          string `db:"id"`
	TotalAmount int64  `db:"total_amount"`
	CreatedAt   string `db:"created_at"`
}

// SaleLine carries the price snapshot: name, unit_cost and sale_price are
// copied from the catalog at commit time and never recomputed. ProductID is
// a plain reference so the line survives product deletion.
type SaleLine struct {
	ID          string `db:"id"`
	SaleID      string `db:"sale_id"`
	ProductID   string `db:"product_id"`
	ProductName string `db:"product_name"`
	UnitCost    int64  `db:"unit_cost"`
	SalePrice   int64  `db:"sale_price"`
	Quantity    int    `db:"quantity"`
	Subtotal    int64  `db:"subtotal"`
}

type User struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
	Role  string `db:"role"`
}
