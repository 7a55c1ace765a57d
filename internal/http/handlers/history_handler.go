package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"stallpos/internal/services"
	"stallpos/internal/validate"
)

type HistoryHandler struct {
	History *services.SalesHistoryService
}

// List returns committed sales, optionally bounded by ?from=&to= (RFC 3339).
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	from, ok := parseDate(c.Query("from"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid 'from' date"})
	}
	to, ok := parseDate(c.Query("to"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid 'to' date"})
	}

	sales, err := h.History.List(from, to)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"sales": sales})
}

func (h *HistoryHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid sale id"})
	}
	detail, err := h.History.Get(id)
	if err != nil {
		return saleError(c, "sales.get", err)
	}
	if detail == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "sale not found"})
	}
	return c.JSON(detail)
}

func (h *HistoryHandler) Summary(c *fiber.Ctx) error {
	sum, err := h.History.Summary()
	if err != nil {
		return saleError(c, "sales.summary", err)
	}
	return c.JSON(sum)
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
