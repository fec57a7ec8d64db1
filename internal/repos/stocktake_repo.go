package repos

import (
	"stockroom/internal/domain"

	"github.com/jmoiron/sqlx"
)

type StocktakeRepo struct{ db *sqlx.DB }

func NewStocktakeRepo(db *sqlx.DB) *StocktakeRepo { return &StocktakeRepo{db: db} }

const stocktakeCols = `
  id, location, status, notes, created_at,
  COALESCE(created_by,'') AS created_by, COALESCE(completed_at,'') AS completed_at`

func (r *StocktakeRepo) List() ([]domain.Stocktake, error) {
	var out []domain.Stocktake
	err := r.db.Select(&out, `
	  SELECT `+stocktakeCols+`
	  FROM stocktakes
	  ORDER BY created_at DESC, id
	`)
	return out, err
}

func (r *StocktakeRepo) Get(id string) (domain.Stocktake, error) {
	var st domain.Stocktake
	err := r.db.Get(&st, `
	  SELECT `+stocktakeCols+`
	  FROM stocktakes
	  WHERE id = ?
	`, id)
	return st, err
}

func (r *StocktakeRepo) Insert(q sqlx.Ext, st *domain.Stocktake) error {
	_, err := q.Exec(`
	  INSERT INTO stocktakes(id, location, status, notes, created_at, created_by)
	  VALUES (?,?,?,?,?,?)
	`, st.ID, st.Location, st.Status, st.Notes, st.CreatedAt, st.CreatedBy)
	return err
}

func (r *StocktakeRepo) InsertLine(q sqlx.Ext, l *domain.StocktakeLine) error {
	_, err := q.Exec(`
	  INSERT INTO stocktake_lines(stocktake_id, sku, expected_qty, counted_qty)
	  VALUES (?,?,?,?)
	`, l.StocktakeID, l.SKU, l.ExpectedQty, l.CountedQty)
	return err
}

func (r *StocktakeRepo) Lines(stocktakeID string) ([]domain.StocktakeLine, error) {
	var out []domain.StocktakeLine
	err := r.db.Select(&out, `
	  SELECT stocktake_id, sku, expected_qty, counted_qty
	  FROM stocktake_lines
	  WHERE stocktake_id = ?
	  ORDER BY sku
	`, stocktakeID)
	return out, err
}

func (r *StocktakeRepo) Complete(q sqlx.Ext, id, completedAt string) error {
	_, err := q.Exec(`
	  UPDATE stocktakes SET status=?, completed_at=? WHERE id=?
	`, domain.StocktakeCompleted, completedAt, id)
	return err
}

// Delete removes the stocktake and its lines in one go; the explicit line
// delete avoids depending on the per-connection foreign_keys pragma.
func (r *StocktakeRepo) Delete(q sqlx.Ext, id string) error {
	if _, err := q.Exec(`DELETE FROM stocktake_lines WHERE stocktake_id=?`, id); err != nil {
		return err
	}
	_, err := q.Exec(`DELETE FROM stocktakes WHERE id=?`, id)
	return err
}
