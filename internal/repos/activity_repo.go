package repos

import (
	"stockroom/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ActivityRepo struct{ db *sqlx.DB }

func NewActivityRepo(db *sqlx.DB) *ActivityRepo { return &ActivityRepo{db: db} }

const activityCols = `
  id, action_type, description,
  COALESCE(item_sku,'') AS item_sku, COALESCE(user_id,'') AS user_id,
  user_name, timestamp`

// Insert appends one log record and fills in the assigned id.
// Records are never updated or deleted afterwards.
func (r *ActivityRepo) Insert(q sqlx.Ext, a *domain.ActivityLog) error {
	res, err := q.Exec(`
	  INSERT INTO activity_logs(action_type, description, item_sku, user_id, user_name, timestamp)
	  VALUES (?,?,NULLIF(?,''),NULLIF(?,''),?,?)
	`, a.ActionType, a.Description, a.ItemSKU, a.UserID, a.UserName, a.Timestamp)
	if err != nil {
		return err
	}
	a.ID, err = res.LastInsertId()
	return err
}

func (r *ActivityRepo) Recent(limit int) ([]domain.ActivityLog, error) {
	var out []domain.ActivityLog
	err := r.db.Select(&out, `
	  SELECT `+activityCols+`
	  FROM activity_logs
	  ORDER BY timestamp DESC, id DESC
	  LIMIT ?
	`, limit)
	return out, err
}

func (r *ActivityRepo) ByType(actionType string, limit int) ([]domain.ActivityLog, error) {
	var out []domain.ActivityLog
	err := r.db.Select(&out, `
	  SELECT `+activityCols+`
	  FROM activity_logs
	  WHERE LOWER(action_type) = LOWER(?)
	  ORDER BY timestamp DESC, id DESC
	  LIMIT ?
	`, actionType, limit)
	return out, err
}

func (r *ActivityRepo) ByItem(sku string, limit int) ([]domain.ActivityLog, error) {
	var out []domain.ActivityLog
	err := r.db.Select(&out, `
	  SELECT `+activityCols+`
	  FROM activity_logs
	  WHERE item_sku = ?
	  ORDER BY timestamp DESC, id DESC
	  LIMIT ?
	`, sku, limit)
	return out, err
}

func (r *ActivityRepo) ByUser(userID string, limit int) ([]domain.ActivityLog, error) {
	var out []domain.ActivityLog
	err := r.db.Select(&out, `
	  SELECT `+activityCols+`
	  FROM activity_logs
	  WHERE user_id = ?
	  ORDER BY timestamp DESC, id DESC
	  LIMIT ?
	`, userID, limit)
	return out, err
}

// Window returns up to limit newest records, optionally restricted to one
// action type. Free-text filtering happens in the service layer.
func (r *ActivityRepo) Window(typeFilter string, limit int) ([]domain.ActivityLog, error) {
	if typeFilter != "" {
		return r.ByType(typeFilter, limit)
	}
	return r.Recent(limit)
}
