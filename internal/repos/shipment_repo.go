package repos

import (
	"strings"

	"stockroom/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ShipmentRepo struct{ db *sqlx.DB }

func NewShipmentRepo(db *sqlx.DB) *ShipmentRepo { return &ShipmentRepo{db: db} }

const shipmentCols = `
  id, type, partner_name, status, priority, eta, notes,
  created_at, COALESCE(created_by,'') AS created_by,
  COALESCE(completed_at,'') AS completed_at`

func (r *ShipmentRepo) List() ([]domain.Shipment, error) {
	var out []domain.Shipment
	err := r.db.Select(&out, `
	  SELECT `+shipmentCols+`
	  FROM shipments
	  ORDER BY created_at DESC, id
	`)
	return out, err
}

func (r *ShipmentRepo) ListByType(typ string) ([]domain.Shipment, error) {
	var out []domain.Shipment
	err := r.db.Select(&out, `
	  SELECT `+shipmentCols+`
	  FROM shipments
	  WHERE type = ?
	  ORDER BY created_at DESC, id
	`, typ)
	return out, err
}

func (r *ShipmentRepo) Get(id string) (domain.Shipment, error) {
	var s domain.Shipment
	err := r.db.Get(&s, `
	  SELECT `+shipmentCols+`
	  FROM shipments
	  WHERE id = ?
	`, id)
	return s, err
}

func (r *ShipmentRepo) Insert(q sqlx.Ext, s *domain.Shipment) error {
	_, err := q.Exec(`
	  INSERT INTO shipments(id, type, partner_name, status, priority, eta, notes,
	                        created_at, created_by)
	  VALUES (?,?,?,?,?,?,?,?,?)
	`, s.ID, s.Type, s.PartnerName, s.Status, s.Priority, s.ETA, s.Notes,
		s.CreatedAt, s.CreatedBy)
	return err
}

func (r *ShipmentRepo) Update(q sqlx.Ext, s *domain.Shipment) error {
	_, err := q.Exec(`
	  UPDATE shipments
	  SET type=?, partner_name=?, status=?, priority=?, eta=?, notes=?
	  WHERE id=?
	`, s.Type, s.PartnerName, s.Status, s.Priority, s.ETA, s.Notes, s.ID)
	return err
}

// Delete removes the shipment and its lines. The lines are deleted
// explicitly rather than trusting the FK cascade, since the foreign_keys
// pragma is per-connection in sqlite.
func (r *ShipmentRepo) Delete(q sqlx.Ext, id string) error {
	if _, err := q.Exec(`DELETE FROM shipment_lines WHERE shipment_id=?`, id); err != nil {
		return err
	}
	_, err := q.Exec(`DELETE FROM shipments WHERE id=?`, id)
	return err
}

func (r *ShipmentRepo) Complete(q sqlx.Ext, id, completedAt string) error {
	_, err := q.Exec(`
	  UPDATE shipments SET status=?, completed_at=? WHERE id=?
	`, domain.StatusCompleted, completedAt, id)
	return err
}

func (r *ShipmentRepo) Lines(shipmentID string) ([]domain.ShipmentLine, error) {
	var out []domain.ShipmentLine
	err := r.db.Select(&out, `
	  SELECT shipment_id, sku, quantity, notes
	  FROM shipment_lines
	  WHERE shipment_id = ?
	  ORDER BY sku
	`, shipmentID)
	return out, err
}

// ReplaceLines swaps the full line set for a shipment: delete everything,
// then insert what the caller supplied. Omitting a line deletes it.
func (r *ShipmentRepo) ReplaceLines(q sqlx.Ext, shipmentID string, lines []domain.ShipmentLine) error {
	if _, err := q.Exec(`DELETE FROM shipment_lines WHERE shipment_id=?`, shipmentID); err != nil {
		return err
	}
	for i := range lines {
		lines[i].ShipmentID = shipmentID
		if err := r.InsertLine(q, &lines[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *ShipmentRepo) InsertLine(q sqlx.Ext, l *domain.ShipmentLine) error {
	_, err := q.Exec(`
	  INSERT INTO shipment_lines(shipment_id, sku, quantity, notes)
	  VALUES (?,?,?,?)
	`, l.ShipmentID, l.SKU, l.Quantity, l.Notes)
	return err
}

// IsUniqueViolation reports whether err is a sqlite primary-key/unique
// index failure. The constraint is the source of truth for conflicts;
// any pre-insert existence check is just an optimization.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
