package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	applog "stockroom/internal/log"
	"stockroom/internal/services"
	"stockroom/internal/validate"
)

type ActivityHandler struct {
	Query    *services.ActivityQuery
	Audit    *services.AuditLogger
	Movement *services.MovementService
}

// GET /ActivityLogs?type=&search=&page=&pageSize=
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	page, err := h.Query.SearchAndPaginate(
		validate.Q(c.Query("type")),
		validate.Q(c.Query("search")),
		validate.Page(c.Query("page")),
		validate.PageSize(c.Query("pageSize")),
	)
	if err != nil {
		return writeErr(c, "activity.list.fail", err)
	}
	return c.JSON(page)
}

// GET /ActivityLogs/recent?count=
func (h *ActivityHandler) Recent(c *fiber.Ctx) error {
	logs, err := h.Query.GetRecent(validate.Count(c.Query("count")))
	if err != nil {
		return writeErr(c, "activity.recent.fail", err)
	}
	return c.JSON(logs)
}

// GET /ActivityLogs/type/:type?count=
func (h *ActivityHandler) ByType(c *fiber.Ctx) error {
	logs, err := h.Query.GetByType(c.Params("type"), validate.Count(c.Query("count")))
	if err != nil {
		return writeErr(c, "activity.bytype.fail", err)
	}
	return c.JSON(logs)
}

// GET /ActivityLogs/item/:sku?count=
func (h *ActivityHandler) ByItem(c *fiber.Ctx) error {
	sku, ok := validate.ID(c.Params("sku"))
	if !ok {
		return badRequest(c, "invalid sku")
	}
	logs, err := h.Query.GetByItem(sku, validate.Count(c.Query("count")))
	if err != nil {
		return writeErr(c, "activity.byitem.fail", err)
	}
	return c.JSON(logs)
}

// GET /ActivityLogs/user/:userId?count=
func (h *ActivityHandler) ByUser(c *fiber.Ctx) error {
	uid, ok := validate.ID(c.Params("userId"))
	if !ok {
		return badRequest(c, "invalid userId")
	}
	logs, err := h.Query.GetByUser(uid, validate.Count(c.Query("count")))
	if err != nil {
		return writeErr(c, "activity.byuser.fail", err)
	}
	return c.JSON(logs)
}

// GET /ActivityLogs/stockmovement
func (h *ActivityHandler) StockMovement(c *fiber.Ctx) error {
	series, err := h.Movement.Reconstruct(time.Now())
	if err != nil {
		return writeErr(c, "activity.stockmovement.fail", err)
	}
	return c.JSON(series)
}

type logRequest struct {
	ActionType  string `json:"actionType"`
	Description string `json:"description"`
	ItemSKU     string `json:"itemSKU"`
	UserID      string `json:"userId"`
}

// POST /ActivityLogs
func (h *ActivityHandler) Create(c *fiber.Ctx) error {
	var in logRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "malformed request body")
	}
	if in.UserID == "" {
		in.UserID = actorID(c)
	}
	a, err := h.Audit.LogActivity(in.ActionType, in.Description, in.ItemSKU, in.UserID)
	if err != nil {
		return writeErr(c, "activity.create.fail", err)
	}
	applog.Audit(c, "activity.create", map[string]any{"id": a.ID, "action": a.ActionType})
	return c.Status(fiber.StatusCreated).JSON(a)
}
