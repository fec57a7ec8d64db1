package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "stockroom/internal/log"
	"stockroom/internal/services"
	"stockroom/internal/validate"
)

type ShipmentHandler struct {
	Shipments *services.ShipmentService
}

// GET /Shipments
func (h *ShipmentHandler) List(c *fiber.Ctx) error {
	list, err := h.Shipments.List()
	if err != nil {
		return writeErr(c, "shipments.list.fail", err)
	}
	return c.JSON(list)
}

// GET /Shipments/type/:type
func (h *ShipmentHandler) ListByType(c *fiber.Ctx) error {
	list, err := h.Shipments.ListByType(c.Params("type"))
	if err != nil {
		return writeErr(c, "shipments.listbytype.fail", err)
	}
	return c.JSON(list)
}

// POST /Shipments
func (h *ShipmentHandler) Create(c *fiber.Ctx) error {
	var in services.ShipmentInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "malformed request body")
	}
	sh, err := h.Shipments.Create(in, actorID(c))
	if err != nil {
		return writeErr(c, "shipments.create.fail", err)
	}
	applog.Audit(c, "shipments.create", map[string]any{"id": sh.ID, "type": sh.Type})
	return c.Status(fiber.StatusCreated).JSON(sh)
}

// PUT /Shipments/:id
func (h *ShipmentHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid id")
	}
	var in services.ShipmentInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "malformed request body")
	}
	sh, err := h.Shipments.Update(id, in, actorID(c))
	if err != nil {
		return writeErr(c, "shipments.update.fail", err)
	}
	applog.Audit(c, "shipments.update", map[string]any{"id": id})
	return c.JSON(sh)
}

// DELETE /Shipments/:id
func (h *ShipmentHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.Shipments.Delete(id, actorID(c)); err != nil {
		return writeErr(c, "shipments.delete.fail", err)
	}
	applog.Audit(c, "shipments.delete", map[string]any{"id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// POST /Shipments/:id/complete
func (h *ShipmentHandler) Complete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid id")
	}
	sh, err := h.Shipments.Complete(id)
	if err != nil {
		return writeErr(c, "shipments.complete.fail", err)
	}
	applog.Audit(c, "shipments.complete", map[string]any{"id": id})
	return c.JSON(sh)
}
