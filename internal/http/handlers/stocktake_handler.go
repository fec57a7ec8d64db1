package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "stockroom/internal/log"
	"stockroom/internal/services"
	"stockroom/internal/validate"
)

type StocktakeHandler struct {
	Stocktakes *services.StocktakeService
}

// GET /Stocktakes
func (h *StocktakeHandler) List(c *fiber.Ctx) error {
	list, err := h.Stocktakes.List()
	if err != nil {
		return writeErr(c, "stocktakes.list.fail", err)
	}
	return c.JSON(list)
}

// POST /Stocktakes
func (h *StocktakeHandler) Create(c *fiber.Ctx) error {
	var in services.StocktakeInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "malformed request body")
	}
	st, err := h.Stocktakes.Create(in, actorID(c))
	if err != nil {
		return writeErr(c, "stocktakes.create.fail", err)
	}
	applog.Audit(c, "stocktakes.create", map[string]any{"id": st.ID, "location": st.Location})
	return c.Status(fiber.StatusCreated).JSON(st)
}

// POST /Stocktakes/:id/complete
func (h *StocktakeHandler) Complete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid id")
	}
	st, err := h.Stocktakes.Complete(id, actorID(c))
	if err != nil {
		return writeErr(c, "stocktakes.complete.fail", err)
	}
	applog.Audit(c, "stocktakes.complete", map[string]any{"id": id})
	return c.JSON(st)
}

// DELETE /Stocktakes/:id
func (h *StocktakeHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.Stocktakes.Delete(id); err != nil {
		return writeErr(c, "stocktakes.delete.fail", err)
	}
	applog.Audit(c, "stocktakes.delete", map[string]any{"id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
