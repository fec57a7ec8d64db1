package services_test

import (
	"errors"
	"testing"

	"stockroom/internal/domain"
	"stockroom/internal/repos"
	"stockroom/internal/services"
)

func newStocktakeService(t *testing.T) (*services.StocktakeService, *services.ItemService) {
	t.Helper()
	db := memdb(t)
	itemRepo := repos.NewItemRepo(db)
	actRepo := repos.NewActivityRepo(db)
	audit := services.NewAuditLogger(db, actRepo, repos.NewUserRepo(db))
	items := services.NewItemService(db, itemRepo, services.NewKeyGen(itemRepo), audit)
	st := services.NewStocktakeService(db, repos.NewStocktakeRepo(db), itemRepo, audit)
	return st, items
}

func TestStocktake_Lifecycle(t *testing.T) {
	svc, items := newStocktakeService(t)

	in := services.ItemInput{SKU: "BOLT-001", Name: "Hex Bolt M8", Category: "Fasteners", Location: "A1-03", Condition: "New", Quantity: 40}
	if _, err := items.Create(in, ""); err != nil {
		t.Fatal(err)
	}

	st, err := svc.Create(services.StocktakeInput{
		Location: "A1",
		Lines: []services.StocktakeLineInput{
			{SKU: "BOLT-001", CountedQty: 38},
			{SKU: "GHOST-9", CountedQty: 2}, // unknown sku counts against expected 0
		},
	}, "")
	if err != nil {
		t.Fatal(err)
	}
	if st.Status != domain.StocktakeInProgress || len(st.Lines) != 2 {
		t.Fatalf("bad stocktake: %+v", st)
	}
	// expected quantities snapshot the item table at creation time
	if st.Lines[0].ExpectedQty != 40 || st.Lines[1].ExpectedQty != 0 {
		t.Fatalf("expected qty not snapshotted: %+v", st.Lines)
	}

	done, err := svc.Complete(st.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != domain.StocktakeCompleted || done.CompletedAt == "" {
		t.Fatalf("complete did not stamp: %+v", done)
	}

	if err := svc.Delete(st.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(st.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("stocktake still readable after delete: %v", err)
	}
}

func TestStocktake_Validation(t *testing.T) {
	svc, _ := newStocktakeService(t)

	_, err := svc.Create(services.StocktakeInput{}, "")
	var ve *services.ValidationError
	if !errors.As(err, &ve) || ve.Field != "location" {
		t.Fatalf("want validation error naming 'location', got %v", err)
	}
}
