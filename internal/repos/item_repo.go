package repos

import (
	"strings"

	"stockroom/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ItemRepo struct{ db *sqlx.DB }

func NewItemRepo(db *sqlx.DB) *ItemRepo { return &ItemRepo{db: db} }

const itemCols = `
  sku, name, category, location, condition, quantity, notes,
  created_at, COALESCE(updated_at,'') AS updated_at,
  COALESCE(created_by,'') AS created_by, COALESCE(updated_by,'') AS updated_by`

// List returns items, optionally filtered by a name/sku substring and/or
// an exact category, newest first.
func (r *ItemRepo) List(search, category string) ([]domain.Item, error) {
	where := `1=1`
	args := []any{}
	if search != "" {
		q := "%" + strings.ToLower(search) + "%"
		where += ` AND (LOWER(name) LIKE ? OR LOWER(sku) LIKE ?)`
		args = append(args, q, q)
	}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, category)
	}

	var out []domain.Item
	err := r.db.Select(&out, `
	  SELECT `+itemCols+`
	  FROM items
	  WHERE `+where+`
	  ORDER BY created_at DESC, sku
	`, args...)
	return out, err
}

func (r *ItemRepo) Get(sku string) (domain.Item, error) {
	var it domain.Item
	err := r.db.Get(&it, `
	  SELECT `+itemCols+`
	  FROM items
	  WHERE sku = ?
	`, sku)
	return it, err
}

// Exists is usable inside a transaction; the sku primary key remains the
// final arbiter on insert.
func (r *ItemRepo) Exists(q sqlx.Ext, sku string) (bool, error) {
	var n int
	if err := sqlx.Get(q, &n, `SELECT COUNT(*) FROM items WHERE sku = ?`, sku); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ItemRepo) Insert(q sqlx.Ext, it *domain.Item) error {
	_, err := q.Exec(`
	  INSERT INTO items(sku, name, category, location, condition, quantity, notes,
	                    created_at, updated_at, created_by, updated_by)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?)
	`, it.SKU, it.Name, it.Category, it.Location, it.Condition, it.Quantity, it.Notes,
		it.CreatedAt, it.UpdatedAt, it.CreatedBy, it.UpdatedBy)
	return err
}

func (r *ItemRepo) Update(q sqlx.Ext, it *domain.Item) error {
	_, err := q.Exec(`
	  UPDATE items
	  SET name=?, category=?, location=?, condition=?, quantity=?, notes=?,
	      updated_at=?, updated_by=?
	  WHERE sku=?
	`, it.Name, it.Category, it.Location, it.Condition, it.Quantity, it.Notes,
		it.UpdatedAt, it.UpdatedBy, it.SKU)
	return err
}

func (r *ItemRepo) Delete(q sqlx.Ext, sku string) error {
	_, err := q.Exec(`DELETE FROM items WHERE sku=?`, sku)
	return err
}
