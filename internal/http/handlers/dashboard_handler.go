package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "stallpos/internal/log"
	"stallpos/internal/services"
)

type DashboardHandler struct {
	Inv     *services.InventoryService
	History *services.SalesHistoryService
}

// Dashboard renders the stall overview: stock per product and the running
// revenue/cost/profit totals.
func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	inv, err := h.Inv.Status()
	if err != nil {
		applog.Error(c, "dashboard.inventory", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load inventory"})
	}
	sum, err := h.History.Summary()
	if err != nil {
		applog.Error(c, "dashboard.summary", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load sales summary"})
	}
	return render(c, "dashboard", fiber.Map{
		"Inventory": inv,
		"Summary":   sum,
	})
}
