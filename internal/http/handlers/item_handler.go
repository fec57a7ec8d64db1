package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "stockroom/internal/log"
	"stockroom/internal/services"
	"stockroom/internal/validate"
)

type ItemHandler struct {
	Items *services.ItemService
}

// GET /Items
func (h *ItemHandler) List(c *fiber.Ctx) error {
	search := validate.Q(c.Query("search"))
	category := validate.Q(c.Query("category"))
	items, err := h.Items.List(search, category)
	if err != nil {
		return writeErr(c, "items.list.fail", err)
	}
	return c.JSON(items)
}

// GET /Items/:sku
func (h *ItemHandler) Get(c *fiber.Ctx) error {
	sku, ok := validate.ID(c.Params("sku"))
	if !ok {
		return badRequest(c, "invalid sku")
	}
	it, err := h.Items.Get(sku)
	if err != nil {
		return writeErr(c, "items.get.fail", err)
	}
	return c.JSON(it)
}

// POST /Items
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in services.ItemInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "malformed request body")
	}
	it, err := h.Items.Create(in, actorID(c))
	if err != nil {
		return writeErr(c, "items.create.fail", err)
	}
	applog.Audit(c, "items.create", map[string]any{"sku": it.SKU})
	return c.Status(fiber.StatusCreated).JSON(it)
}

// PUT /Items/:sku
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	sku, ok := validate.ID(c.Params("sku"))
	if !ok {
		return badRequest(c, "invalid sku")
	}
	var in services.ItemInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "malformed request body")
	}
	it, err := h.Items.Update(sku, in, actorID(c))
	if err != nil {
		return writeErr(c, "items.update.fail", err)
	}
	applog.Audit(c, "items.update", map[string]any{"sku": sku})
	return c.JSON(it)
}

// DELETE /Items/:sku
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	sku, ok := validate.ID(c.Params("sku"))
	if !ok {
		return badRequest(c, "invalid sku")
	}
	if err := h.Items.Delete(sku, actorID(c)); err != nil {
		return writeErr(c, "items.delete.fail", err)
	}
	applog.Audit(c, "items.delete", map[string]any{"sku": sku})
	return c.SendStatus(fiber.StatusNoContent)
}
