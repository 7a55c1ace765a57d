package handlers

import (
	"stallpos/internal/repos"
	"stallpos/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	SalesHandler     *SalesHandler
	ProductHandler   *ProductHandler
	InventoryHandler *InventoryHandler
	HistoryHandler   *HistoryHandler
	DashboardHandler *DashboardHandler
}

func NewDeps(db *sqlx.DB, auth *services.AuthService) *Deps {
	prodRepo := repos.NewProductRepo(db)
	stockRepo := repos.NewStockRepo(db)
	saleRepo := repos.NewSaleRepo(db)

	resolver := services.NewResolver(prodRepo)
	invSvc := services.NewInventoryService(prodRepo, stockRepo, resolver)
	checkoutSvc := services.NewCheckoutService(db, stockRepo, saleRepo, resolver)
	prodSvc := services.NewProductService(prodRepo)
	histSvc := services.NewSalesHistoryService(saleRepo)

	return &Deps{
		SalesHandler:     &SalesHandler{Checkout: checkoutSvc, Inv: invSvc},
		ProductHandler:   &ProductHandler{Products: prodSvc},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
		HistoryHandler:   &HistoryHandler{History: histSvc},
		DashboardHandler: &DashboardHandler{Inv: invSvc, History: histSvc},
	}
}
