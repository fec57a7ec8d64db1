package services_test

import (
	"errors"
	"testing"

	"stockroom/internal/domain"
	"stockroom/internal/repos"
	"stockroom/internal/services"
)

func newShipmentService(t *testing.T) (*services.ShipmentService, *services.ActivityQuery) {
	t.Helper()
	db := memdb(t)
	shipRepo := repos.NewShipmentRepo(db)
	actRepo := repos.NewActivityRepo(db)
	audit := services.NewAuditLogger(db, actRepo, repos.NewUserRepo(db))
	return services.NewShipmentService(db, shipRepo, audit), services.NewActivityQuery(actRepo)
}

func inboundShipment(id string) services.ShipmentInput {
	return services.ShipmentInput{
		ID: id, Type: "Inbound", PartnerName: "Acme Logistics",
		Priority: "High", ETA: "2025-06-02T09:00:00Z",
		Lines: []services.ShipmentLineInput{
			{SKU: "BOLT-001", Quantity: 100},
			{SKU: "NUT-002", Quantity: 250},
		},
	}
}

func TestShipmentService_CreateAndConflict(t *testing.T) {
	svc, query := newShipmentService(t)

	sh, err := svc.Create(inboundShipment("IN20250601001"), "")
	if err != nil {
		t.Fatal(err)
	}
	if sh.Status != domain.StatusPending {
		t.Fatalf("status should default to Pending, got %q", sh.Status)
	}
	if len(sh.Lines) != 2 {
		t.Fatalf("want 2 lines, got %d", len(sh.Lines))
	}

	// same id again is a conflict, no rename fallback for shipments
	_, err = svc.Create(inboundShipment("IN20250601001"), "")
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("want Conflict, got %v", err)
	}

	// one audit record for the shipment, not one per line
	logs, err := query.GetRecent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 {
		t.Fatalf("want exactly one audit record, got %d", len(logs))
	}
	if logs[0].ActionType != domain.ActionAdd || logs[0].ItemSKU != "IN20250601001" {
		t.Fatalf("bad audit record: %+v", logs[0])
	}
}

func TestShipmentService_UpdateReplacesLines(t *testing.T) {
	svc, _ := newShipmentService(t)

	if _, err := svc.Create(inboundShipment("IN20250601002"), ""); err != nil {
		t.Fatal(err)
	}

	in := inboundShipment("IN20250601002")
	in.Lines = in.Lines[:1] // drop the second line
	if _, err := svc.Update("IN20250601002", in, ""); err != nil {
		t.Fatal(err)
	}
	sh, err := svc.Get("IN20250601002")
	if err != nil {
		t.Fatal(err)
	}
	if len(sh.Lines) != 1 || sh.Lines[0].SKU != "BOLT-001" {
		t.Fatalf("omitted line should be deleted, got %+v", sh.Lines)
	}

	// an empty line list wipes the set
	in.Lines = nil
	if _, err := svc.Update("IN20250601002", in, ""); err != nil {
		t.Fatal(err)
	}
	sh, err = svc.Get("IN20250601002")
	if err != nil {
		t.Fatal(err)
	}
	if len(sh.Lines) != 0 {
		t.Fatalf("want no lines after empty update, got %d", len(sh.Lines))
	}
}

func TestShipmentService_DeleteCascadesLines(t *testing.T) {
	svc, _ := newShipmentService(t)

	if _, err := svc.Create(inboundShipment("IN20250601003"), ""); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete("IN20250601003", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get("IN20250601003"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("shipment still readable after delete: %v", err)
	}
	if err := svc.Delete("IN20250601003", ""); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("want NotFound on second delete, got %v", err)
	}
}

func TestShipmentService_Complete(t *testing.T) {
	svc, query := newShipmentService(t)

	if _, err := svc.Create(inboundShipment("IN20250601004"), ""); err != nil {
		t.Fatal(err)
	}
	before, _ := query.GetRecent(10)

	sh, err := svc.Complete("IN20250601004")
	if err != nil {
		t.Fatal(err)
	}
	if sh.Status != domain.StatusCompleted || sh.CompletedAt == "" {
		t.Fatalf("complete did not stamp status/completedAt: %+v", sh)
	}

	// complete has no other side effects, including no audit record
	after, _ := query.GetRecent(10)
	if len(after) != len(before) {
		t.Fatalf("complete should not append audit records: %d -> %d", len(before), len(after))
	}

	if _, err := svc.Complete("OU19990101001"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("want NotFound, got %v", err)
	}
}

func TestShipmentService_ListByType(t *testing.T) {
	svc, _ := newShipmentService(t)

	if _, err := svc.Create(inboundShipment("IN20250601005"), ""); err != nil {
		t.Fatal(err)
	}
	out := inboundShipment("OU20250601001")
	out.Type = "Outbound"
	if _, err := svc.Create(out, ""); err != nil {
		t.Fatal(err)
	}

	in, err := svc.ListByType("inbound") // case-insensitive
	if err != nil {
		t.Fatal(err)
	}
	if len(in) != 1 || in[0].ID != "IN20250601005" {
		t.Fatalf("bad inbound list: %+v", in)
	}

	if _, err := svc.ListByType("sideways"); err == nil {
		t.Fatal("unknown type should be rejected")
	}
}

func TestShipmentService_Validation(t *testing.T) {
	svc, _ := newShipmentService(t)

	in := inboundShipment("IN20250601006")
	in.PartnerName = ""
	_, err := svc.Create(in, "")
	var ve *services.ValidationError
	if !errors.As(err, &ve) || ve.Field != "partnerName" {
		t.Fatalf("want validation error naming 'partnerName', got %v", err)
	}

	in = inboundShipment("IN20250601006")
	in.ETA = ""
	if _, err := svc.Create(in, ""); err == nil {
		t.Fatal("missing eta should be rejected")
	}
}

// A sku listed twice in one shipment is a validation error, not a raw
// constraint failure bubbling up from the line table.
func TestShipmentService_DuplicateLineSKU(t *testing.T) {
	svc, _ := newShipmentService(t)

	in := inboundShipment("IN20250601007")
	in.Lines = []services.ShipmentLineInput{
		{SKU: "BOLT-001", Quantity: 10},
		{SKU: "BOLT-001", Quantity: 5},
	}
	_, err := svc.Create(in, "")
	var ve *services.ValidationError
	if !errors.As(err, &ve) || ve.Field != "lines.sku" {
		t.Fatalf("want validation error naming 'lines.sku', got %v", err)
	}

	// nothing half-written
	if _, err := svc.Get("IN20250601007"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("shipment should not exist after rejected create, got %v", err)
	}

	// same rule on update
	if _, err := svc.Create(inboundShipment("IN20250601007"), ""); err != nil {
		t.Fatal(err)
	}
	_, err = svc.Update("IN20250601007", in, "")
	if !errors.As(err, &ve) || ve.Field != "lines.sku" {
		t.Fatalf("want validation error naming 'lines.sku' on update, got %v", err)
	}
}
