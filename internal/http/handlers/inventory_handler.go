package handlers

import (
	"github.com/gofiber/fiber/v2"

	"stallpos/internal/services"
	"stallpos/internal/validate"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

// Status lists per-product stock for inventory displays; set stock is the
// derived limiting minimum, never the stored column.
func (h *InventoryHandler) Status(c *fiber.Ctx) error {
	rows, err := h.Inv.Status()
	if err != nil {
		return saleError(c, "inventory.status", err)
	}
	return c.JSON(fiber.Map{"products": rows})
}

// Stock returns the effective stock number for one product.
func (h *InventoryHandler) Stock(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	n, err := h.Inv.DerivedStock(id)
	if err != nil {
		return saleError(c, "inventory.stock", err)
	}
	return c.JSON(fiber.Map{"product_id": id, "stock": n})
}
