package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"stockroom/internal/domain"
	"stockroom/internal/http/handlers"
	"stockroom/internal/repos"
	"stockroom/internal/services"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	deps := handlers.NewDeps(db, authSvc)

	app := fiber.New()
	app.Use(requestid.New())

	app.Get("/Items", deps.ItemHandler.List)
	app.Post("/Items", deps.ItemHandler.Create)
	app.Get("/Items/:sku", deps.ItemHandler.Get)
	app.Put("/Items/:sku", deps.ItemHandler.Update)
	app.Delete("/Items/:sku", deps.ItemHandler.Delete)

	app.Get("/Shipments", deps.ShipmentHandler.List)
	app.Get("/Shipments/type/:type", deps.ShipmentHandler.ListByType)
	app.Post("/Shipments", deps.ShipmentHandler.Create)
	app.Put("/Shipments/:id", deps.ShipmentHandler.Update)
	app.Delete("/Shipments/:id", deps.ShipmentHandler.Delete)
	app.Post("/Shipments/:id/complete", deps.ShipmentHandler.Complete)

	app.Get("/ActivityLogs", deps.ActivityHandler.List)
	app.Get("/ActivityLogs/recent", deps.ActivityHandler.Recent)
	app.Get("/ActivityLogs/stockmovement", deps.ActivityHandler.StockMovement)
	app.Get("/ActivityLogs/type/:type", deps.ActivityHandler.ByType)
	app.Get("/ActivityLogs/item/:sku", deps.ActivityHandler.ByItem)
	app.Get("/ActivityLogs/user/:userId", deps.ActivityHandler.ByUser)
	app.Post("/ActivityLogs", deps.ActivityHandler.Create)

	app.Get("/Stocktakes", deps.StocktakeHandler.List)
	app.Post("/Stocktakes", deps.StocktakeHandler.Create)
	app.Post("/Stocktakes/:id/complete", deps.StocktakeHandler.Complete)
	app.Delete("/Stocktakes/:id", deps.StocktakeHandler.Delete)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return v
}

func TestItemCreateFlow(t *testing.T) {
	app := newTestApp(t)

	// empty sku with a prefix: server generates, audit trail follows
	resp := doJSON(t, app, "POST", "/Items", map[string]any{
		"skuPrefix": "SKU", "name": "Hex Bolt M8", "category": "Fasteners",
		"location": "A1-03", "condition": "New", "quantity": 40,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create expected 201, got %d", resp.StatusCode)
	}
	it := decode[domain.Item](t, resp)
	if !regexp.MustCompile(`^SKU-\d{4}-\d{3}$`).MatchString(it.SKU) {
		t.Fatalf("unexpected generated sku: %q", it.SKU)
	}

	resp = doJSON(t, app, "GET", "/ActivityLogs/recent?count=1", nil)
	logs := decode[[]domain.ActivityLog](t, resp)
	if len(logs) != 1 || logs[0].ActionType != domain.ActionAdd || logs[0].ItemSKU != it.SKU {
		t.Fatalf("bad audit trail: %+v", logs)
	}

	// missing required field names the field
	resp = doJSON(t, app, "POST", "/Items", map[string]any{
		"name": "No category", "location": "A1", "condition": "New",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing category expected 400, got %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	if body["field"] != "category" {
		t.Fatalf("error should name the field, got %v", body)
	}

	// unknown sku is a 404
	resp = doJSON(t, app, "GET", "/Items/NO-SUCH", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestShipmentLineReplaceFlow(t *testing.T) {
	app := newTestApp(t)

	for _, sku := range []string{"BOLT-001", "NUT-002"} {
		resp := doJSON(t, app, "POST", "/Items", map[string]any{
			"sku": sku, "name": "Part " + sku, "category": "Fasteners",
			"location": "A1", "condition": "New", "quantity": 10,
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("seed item %s: %d", sku, resp.StatusCode)
		}
	}

	ship := map[string]any{
		"id": "IN20250601001", "type": "Inbound", "partnerName": "Acme Logistics",
		"eta": "2025-06-02T09:00:00Z",
		"lines": []map[string]any{
			{"sku": "BOLT-001", "quantity": 100},
			{"sku": "NUT-002", "quantity": 250},
		},
	}
	resp := doJSON(t, app, "POST", "/Shipments", ship)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create shipment expected 201, got %d", resp.StatusCode)
	}

	// duplicate id conflicts
	resp = doJSON(t, app, "POST", "/Shipments", ship)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate id expected 409, got %d", resp.StatusCode)
	}

	// update with one line omitted deletes it
	ship["lines"] = []map[string]any{{"sku": "BOLT-001", "quantity": 100}}
	resp = doJSON(t, app, "PUT", "/Shipments/IN20250601001", ship)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update expected 200, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "GET", "/Shipments", nil)
	list := decode[[]domain.Shipment](t, resp)
	if len(list) != 1 || len(list[0].Lines) != 1 || list[0].Lines[0].SKU != "BOLT-001" {
		t.Fatalf("omitted line survived: %+v", list)
	}

	// complete stamps status
	resp = doJSON(t, app, "POST", "/Shipments/IN20250601001/complete", nil)
	sh := decode[domain.Shipment](t, resp)
	if sh.Status != domain.StatusCompleted || sh.CompletedAt == "" {
		t.Fatalf("bad complete: %+v", sh)
	}

	resp = doJSON(t, app, "DELETE", "/Shipments/IN20250601001", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete expected 204, got %d", resp.StatusCode)
	}
}

func TestStockMovementEndpoint(t *testing.T) {
	app := newTestApp(t)

	// item parked under a dateless inbound dock location falls back to today
	resp := doJSON(t, app, "POST", "/Items", map[string]any{
		"sku": "PAL-001", "name": "Pallet", "category": "Bulk",
		"location": "IN-DOCK-3", "condition": "New", "quantity": 6,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("seed item: %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "GET", "/ActivityLogs/stockmovement", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stockmovement expected 200, got %d", resp.StatusCode)
	}
	series := decode[domain.MovementSeries](t, resp)
	if len(series.Inbound) != 7 || len(series.Outbound) != 7 {
		t.Fatalf("bad series shape: %+v", series)
	}
	total := 0
	for _, v := range series.Inbound {
		total += v
	}
	if total != 6 {
		t.Fatalf("fallback quantity missing from series: %+v", series)
	}
}

func TestStocktakeEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, "POST", "/Stocktakes", map[string]any{
		"location": "A1",
		"lines":    []map[string]any{{"sku": "BOLT-001", "countedQty": 5}},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create stocktake expected 201, got %d", resp.StatusCode)
	}
	st := decode[domain.Stocktake](t, resp)

	resp = doJSON(t, app, "POST", "/Stocktakes/"+st.ID+"/complete", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete expected 200, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "DELETE", "/Stocktakes/"+st.ID, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete expected 204, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "DELETE", "/Stocktakes/"+st.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete expected 404, got %d", resp.StatusCode)
	}
}

func TestManualActivityLog(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, "POST", "/ActivityLogs", map[string]any{
		"actionType": "Info", "description": "Aisle A recount scheduled",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	a := decode[domain.ActivityLog](t, resp)
	if a.UserName != "System" {
		t.Fatalf("anonymous log should be attributed to System, got %q", a.UserName)
	}

	resp = doJSON(t, app, "POST", "/ActivityLogs", map[string]any{
		"actionType": "Bogus", "description": "nope",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad actionType expected 400, got %d", resp.StatusCode)
	}
}
