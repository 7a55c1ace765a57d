package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"stallpos/internal/domain"
	applog "stallpos/internal/log"
	"stallpos/internal/services"
)

type SalesHandler struct {
	Checkout *services.CheckoutService
	Inv      *services.InventoryService
}

type cartRequest struct {
	Lines []domain.CartLine `json:"lines"`
}

func parseCart(c *fiber.Ctx) ([]domain.CartLine, error) {
	var req cartRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, err
	}
	if len(req.Lines) == 0 {
		return nil, errors.New("cart is empty")
	}
	for _, l := range req.Lines {
		if l.ProductID == "" || l.Quantity < 1 {
			return nil, errors.New("each line needs product_id and quantity >= 1")
		}
	}
	return req.Lines, nil
}

// CheckAvailability is the advisory, read-only stock check.
func (h *SalesHandler) CheckAvailability(c *fiber.Ctx) error {
	cart, err := parseCart(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	res, err := h.Inv.CheckAvailability(cart)
	if err != nil {
		return saleError(c, "availability.check", err)
	}
	return c.JSON(res)
}

// PlaceCheckout commits the cart atomically and returns the sale summary.
func (h *SalesHandler) PlaceCheckout(c *fiber.Ctx) error {
	cart, err := parseCart(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	res, err := h.Checkout.Checkout(cart)
	if err != nil {
		return saleError(c, "checkout.place", err)
	}

	applog.Audit(c, "checkout.commit", map[string]any{
		"sale_id": res.SaleID, "total": res.TotalAmount, "lines": len(cart),
	})
	return c.Status(fiber.StatusCreated).JSON(res)
}

// saleError maps domain errors onto HTTP statuses; everything else is a 500.
func saleError(c *fiber.Ctx, action string, err error) error {
	var short *domain.InsufficientStockError
	if errors.As(err, &short) {
		applog.Info(c, action+".insufficient", map[string]any{
			"product": short.ProductID, "component": short.ComponentID,
			"requested": short.Requested, "available": short.Available,
		})
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":  "insufficient stock",
			"detail": short,
		})
	}
	var notFound *domain.ProductNotFoundError
	if errors.As(err, &notFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFound.Error()})
	}
	var badSet *domain.InvalidCompositionError
	if errors.As(err, &badSet) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": badSet.Error()})
	}
	var transient *domain.TransientStorageError
	if errors.As(err, &transient) {
		applog.Error(c, action+".transient", err, nil)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "temporarily unavailable, retry the request"})
	}

	applog.Error(c, action, err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
