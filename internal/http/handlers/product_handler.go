package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"stallpos/internal/domain"
	applog "stallpos/internal/log"
	"stallpos/internal/services"
	"stallpos/internal/validate"
)

type ProductHandler struct {
	Products *services.ProductService
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	ptype := c.Query("type")
	if ptype != "" && ptype != domain.TypeSingle && ptype != domain.TypeSet {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "type must be 'single' or 'set'"})
	}
	products, err := h.Products.List(ptype)
	if err != nil {
		return saleError(c, "product.list", err)
	}
	return c.JSON(fiber.Map{"products": products})
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	p, err := h.Products.Get(id)
	if err != nil {
		return saleError(c, "product.get", err)
	}
	resp := fiber.Map{"product": p}
	if p.IsSet() {
		rows, err := h.Products.Components(id)
		if err != nil {
			return saleError(c, "product.get", err)
		}
		resp["components"] = rows
	}
	return c.JSON(resp)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if _, ok := validate.Name(in.Name); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name must be 1-100 characters"})
	}
	p, err := h.Products.Create(in)
	if err != nil {
		return productError(c, "product.create", err)
	}
	applog.Audit(c, "product.create", map[string]any{"id": p.ID, "name": p.Name, "type": p.ProductType})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"product": p})
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	p, err := h.Products.Update(id, in)
	if err != nil {
		return productError(c, "product.update", err)
	}
	applog.Audit(c, "product.update", map[string]any{"id": p.ID})
	return c.JSON(fiber.Map{"product": p})
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	if err := h.Products.Delete(id); err != nil {
		return productError(c, "product.delete", err)
	}
	applog.Audit(c, "product.delete", map[string]any{"id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// SetComposition replaces the component rows of a set product.
func (h *ProductHandler) SetComposition(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	var body struct {
		Components []services.ComponentInput `json:"components"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.Products.SetComposition(id, body.Components); err != nil {
		return productError(c, "product.composition", err)
	}
	applog.Audit(c, "product.composition", map[string]any{"id": id, "components": len(body.Components)})
	return c.SendStatus(fiber.StatusNoContent)
}

func productError(c *fiber.Ctx, action string, err error) error {
	var dup *domain.DuplicateProductError
	if errors.As(err, &dup) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": dup.Error()})
	}
	if errors.Is(err, services.ErrProductInUse) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if errors.Is(err, services.ErrImmutableType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return saleError(c, action, err)
}
