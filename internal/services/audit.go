package services

import (
	"stockroom/internal/domain"
	"stockroom/internal/metrics"
	"stockroom/internal/repos"

	"github.com/jmoiron/sqlx"
)

// AuditLogger appends one ActivityLog record per mutation. Mutation
// services call Append inside their own transaction so a committed
// mutation always carries its audit record.
type AuditLogger struct {
	DB         *sqlx.DB
	Activities *repos.ActivityRepo
	Users      *repos.UserRepo
}

func NewAuditLogger(db *sqlx.DB, activities *repos.ActivityRepo, users *repos.UserRepo) *AuditLogger {
	return &AuditLogger{DB: db, Activities: activities, Users: users}
}

// resolveActor maps a user id to a display name, reading through q so the
// lookup shares the mutation's transaction. A missing id means the system
// acted; a failed lookup is recorded rather than failing the write.
func (l *AuditLogger) resolveActor(q sqlx.Ext, userID string) string {
	if userID == "" {
		return "System"
	}
	name, err := l.Users.NameByID(q, userID)
	if err != nil {
		return "Unknown User"
	}
	return name
}

// Append writes one record using q, which is the mutation's live
// transaction when called from a mutation service.
func (l *AuditLogger) Append(q sqlx.Ext, actionType, description, itemSKU, userID string) (domain.ActivityLog, error) {
	a := domain.ActivityLog{
		ActionType:  actionType,
		Description: description,
		ItemSKU:     itemSKU,
		UserID:      userID,
		UserName:    l.resolveActor(q, userID),
		Timestamp:   now(),
	}
	if err := l.Activities.Insert(q, &a); err != nil {
		metrics.AuditFailures.Inc()
		return domain.ActivityLog{}, err
	}
	metrics.AuditAppends.Inc()
	return a, nil
}

// LogActivity appends a standalone record (POST /ActivityLogs).
func (l *AuditLogger) LogActivity(actionType, description, itemSKU, userID string) (domain.ActivityLog, error) {
	if !domain.ValidAction(actionType) {
		return domain.ActivityLog{}, invalid("actionType", "must be one of Add, Remove, Update, Move, Error, Info")
	}
	if description == "" {
		return domain.ActivityLog{}, missing("description")
	}
	return l.Append(l.DB, actionType, description, itemSKU, userID)
}
