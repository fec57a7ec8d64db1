package services

import (
	"database/sql"
	"fmt"

	"stockroom/internal/domain"
	"stockroom/internal/metrics"
	"stockroom/internal/repos"

	"github.com/jmoiron/sqlx"
)

type ItemService struct {
	DB    *sqlx.DB
	Items *repos.ItemRepo
	Keys  *KeyGen
	Audit *AuditLogger
}

func NewItemService(db *sqlx.DB, items *repos.ItemRepo, keys *KeyGen, audit *AuditLogger) *ItemService {
	return &ItemService{DB: db, Items: items, Keys: keys, Audit: audit}
}

type ItemInput struct {
	SKU       string `json:"sku"`
	SKUPrefix string `json:"skuPrefix"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Location  string `json:"location"`
	Condition string `json:"condition"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes"`
}

func validateItem(in ItemInput) error {
	switch {
	case in.Name == "":
		return missing("name")
	case in.Category == "":
		return missing("category")
	case in.Location == "":
		return missing("location")
	case in.Condition == "":
		return missing("condition")
	}
	if in.Quantity < 0 {
		return invalid("quantity", "must not be negative")
	}
	return nil
}

func (s *ItemService) List(search, category string) ([]domain.Item, error) {
	return s.Items.List(search, category)
}

func (s *ItemService) Get(sku string) (domain.Item, error) {
	it, err := s.Items.Get(sku)
	if err == sql.ErrNoRows {
		return domain.Item{}, ErrNotFound
	}
	return it, err
}

// Create stores a new item under a sku resolved by the key generator: a
// collision never fails the request, it yields a renamed sku. The insert
// and its audit record commit together.
func (s *ItemService) Create(in ItemInput, actorID string) (domain.Item, error) {
	if err := validateItem(in); err != nil {
		return domain.Item{}, err
	}

	// The existence check and insert race against concurrent creates, so
	// a unique-constraint failure re-resolves with a fresh sku.
	for attempt := 0; attempt < 3; attempt++ {
		it, err := s.createOnce(in, actorID)
		if repos.IsUniqueViolation(err) {
			continue
		}
		return it, err
	}
	return domain.Item{}, ErrExhausted
}

func (s *ItemService) createOnce(in ItemInput, actorID string) (domain.Item, error) {
	tx, err := s.DB.Beginx()
	if err != nil {
		return domain.Item{}, err
	}
	defer func() { _ = tx.Rollback() }()

	sku, err := s.Keys.ResolveItemSKU(tx, in.SKU, in.SKUPrefix)
	if err != nil {
		return domain.Item{}, err
	}

	ts := now()
	it := domain.Item{
		SKU: sku, Name: in.Name, Category: in.Category, Location: in.Location,
		Condition: in.Condition, Quantity: in.Quantity, Notes: in.Notes,
		CreatedAt: ts, UpdatedAt: ts, CreatedBy: actorID, UpdatedBy: actorID,
	}
	if err := s.Items.Insert(tx, &it); err != nil {
		return domain.Item{}, err
	}
	desc := fmt.Sprintf("Added item %s (%s)", it.Name, it.SKU)
	if _, err := s.Audit.Append(tx, domain.ActionAdd, desc, it.SKU, actorID); err != nil {
		return domain.Item{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Item{}, err
	}
	metrics.Mutations.WithLabelValues("item", "create").Inc()
	return it, nil
}

// Update overwrites the mutable fields; the sku itself is immutable.
func (s *ItemService) Update(sku string, in ItemInput, actorID string) (domain.Item, error) {
	if err := validateItem(in); err != nil {
		return domain.Item{}, err
	}
	it, err := s.Get(sku)
	if err != nil {
		return domain.Item{}, err
	}

	it.Name = in.Name
	it.Category = in.Category
	it.Location = in.Location
	it.Condition = in.Condition
	it.Quantity = in.Quantity
	it.Notes = in.Notes
	it.UpdatedAt = now()
	it.UpdatedBy = actorID

	tx, err := s.DB.Beginx()
	if err != nil {
		return domain.Item{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.Items.Update(tx, &it); err != nil {
		return domain.Item{}, err
	}
	desc := fmt.Sprintf("Updated item %s (%s)", it.Name, it.SKU)
	if _, err := s.Audit.Append(tx, domain.ActionUpdate, desc, it.SKU, actorID); err != nil {
		return domain.Item{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Item{}, err
	}
	metrics.Mutations.WithLabelValues("item", "update").Inc()
	return it, nil
}

// Delete removes the item. The display name is captured before the delete
// so the audit entry stays meaningful after the record is gone.
func (s *ItemService) Delete(sku, actorID string) error {
	it, err := s.Get(sku)
	if err != nil {
		return err
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.Items.Delete(tx, sku); err != nil {
		return err
	}
	desc := fmt.Sprintf("Removed item %s (%s)", it.Name, it.SKU)
	if _, err := s.Audit.Append(tx, domain.ActionRemove, desc, it.SKU, actorID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	metrics.Mutations.WithLabelValues("item", "delete").Inc()
	return nil
}
