package services

import (
	"database/sql"
	"fmt"

	"stockroom/internal/domain"
	"stockroom/internal/metrics"
	"stockroom/internal/repos"

	"github.com/jmoiron/sqlx"
)

type ShipmentService struct {
	DB        *sqlx.DB
	Shipments *repos.ShipmentRepo
	Audit     *AuditLogger
}

func NewShipmentService(db *sqlx.DB, shipments *repos.ShipmentRepo, audit *AuditLogger) *ShipmentService {
	return &ShipmentService{DB: db, Shipments: shipments, Audit: audit}
}

type ShipmentLineInput struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

type ShipmentInput struct {
	ID          string              `json:"id"`
	Type        string              `json:"type"`
	PartnerName string              `json:"partnerName"`
	Status      string              `json:"status"`
	Priority    string              `json:"priority"`
	ETA         string              `json:"eta"`
	Notes       string              `json:"notes"`
	Lines       []ShipmentLineInput `json:"lines"`
}

// validateShipment checks required fields and canonicalizes the enums in
// place. Status defaults to Pending and priority to Medium.
func validateShipment(in *ShipmentInput) error {
	if in.Type == "" {
		return missing("type")
	}
	typ, ok := domain.CanonShipmentType(in.Type)
	if !ok {
		return invalid("type", "must be Inbound or Outbound")
	}
	in.Type = typ

	if in.PartnerName == "" {
		return missing("partnerName")
	}
	if in.ETA == "" {
		return missing("eta")
	}

	if in.Status == "" {
		in.Status = domain.StatusPending
	}
	st, ok := domain.CanonStatus(in.Status)
	if !ok {
		return invalid("status", "unknown status")
	}
	in.Status = st

	if in.Priority == "" {
		in.Priority = domain.PriorityMedium
	}
	pr, ok := domain.CanonPriority(in.Priority)
	if !ok {
		return invalid("priority", "unknown priority")
	}
	in.Priority = pr

	seen := make(map[string]struct{}, len(in.Lines))
	for _, l := range in.Lines {
		if l.SKU == "" {
			return missing("lines.sku")
		}
		if l.Quantity < 1 {
			return invalid("lines.quantity", "must be at least 1")
		}
		if _, dup := seen[l.SKU]; dup {
			return invalid("lines.sku", "listed more than once")
		}
		seen[l.SKU] = struct{}{}
	}
	return nil
}

func toLines(id string, in []ShipmentLineInput) []domain.ShipmentLine {
	out := make([]domain.ShipmentLine, 0, len(in))
	for _, l := range in {
		out = append(out, domain.ShipmentLine{ShipmentID: id, SKU: l.SKU, Quantity: l.Quantity, Notes: l.Notes})
	}
	return out
}

func (s *ShipmentService) attachLines(list []domain.Shipment) ([]domain.Shipment, error) {
	for i := range list {
		lines, err := s.Shipments.Lines(list[i].ID)
		if err != nil {
			return nil, err
		}
		list[i].Lines = lines
	}
	return list, nil
}

func (s *ShipmentService) List() ([]domain.Shipment, error) {
	list, err := s.Shipments.List()
	if err != nil {
		return nil, err
	}
	return s.attachLines(list)
}

func (s *ShipmentService) ListByType(typ string) ([]domain.Shipment, error) {
	ct, ok := domain.CanonShipmentType(typ)
	if !ok {
		return nil, invalid("type", "must be Inbound or Outbound")
	}
	list, err := s.Shipments.ListByType(ct)
	if err != nil {
		return nil, err
	}
	return s.attachLines(list)
}

func (s *ShipmentService) Get(id string) (domain.Shipment, error) {
	sh, err := s.Shipments.Get(id)
	if err == sql.ErrNoRows {
		return domain.Shipment{}, ErrNotFound
	}
	if err != nil {
		return domain.Shipment{}, err
	}
	sh.Lines, err = s.Shipments.Lines(id)
	return sh, err
}

// Create inserts the shipment under its caller-supplied id. A duplicate id
// is a Conflict; unlike items there is no rename fallback. Lines are
// inserted as given, then one audit record covers the whole shipment.
func (s *ShipmentService) Create(in ShipmentInput, actorID string) (domain.Shipment, error) {
	if in.ID == "" {
		return domain.Shipment{}, missing("id")
	}
	if err := validateShipment(&in); err != nil {
		return domain.Shipment{}, err
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return domain.Shipment{}, err
	}
	defer func() { _ = tx.Rollback() }()

	sh := domain.Shipment{
		ID: in.ID, Type: in.Type, PartnerName: in.PartnerName, Status: in.Status,
		Priority: in.Priority, ETA: in.ETA, Notes: in.Notes,
		CreatedAt: now(), CreatedBy: actorID,
	}
	if err := s.Shipments.Insert(tx, &sh); err != nil {
		if repos.IsUniqueViolation(err) {
			return domain.Shipment{}, ErrConflict
		}
		return domain.Shipment{}, err
	}

	sh.Lines = toLines(sh.ID, in.Lines)
	for i := range sh.Lines {
		if err := s.Shipments.InsertLine(tx, &sh.Lines[i]); err != nil {
			return domain.Shipment{}, err
		}
	}

	desc := fmt.Sprintf("Created %s shipment %s (%s)", sh.Type, sh.ID, sh.PartnerName)
	if _, err := s.Audit.Append(tx, domain.ActionAdd, desc, sh.ID, actorID); err != nil {
		return domain.Shipment{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Shipment{}, err
	}
	metrics.Mutations.WithLabelValues("shipment", "create").Inc()
	return sh, nil
}

// Update overwrites the shipment fields and replaces the whole line set
// with the supplied one; a line omitted from the request is deleted.
func (s *ShipmentService) Update(id string, in ShipmentInput, actorID string) (domain.Shipment, error) {
	if err := validateShipment(&in); err != nil {
		return domain.Shipment{}, err
	}
	sh, err := s.Get(id)
	if err != nil {
		return domain.Shipment{}, err
	}

	sh.Type = in.Type
	sh.PartnerName = in.PartnerName
	sh.Status = in.Status
	sh.Priority = in.Priority
	sh.ETA = in.ETA
	sh.Notes = in.Notes

	tx, err := s.DB.Beginx()
	if err != nil {
		return domain.Shipment{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.Shipments.Update(tx, &sh); err != nil {
		return domain.Shipment{}, err
	}
	sh.Lines = toLines(id, in.Lines)
	if err := s.Shipments.ReplaceLines(tx, id, sh.Lines); err != nil {
		return domain.Shipment{}, err
	}

	desc := fmt.Sprintf("Updated shipment %s (%s)", sh.ID, sh.PartnerName)
	if _, err := s.Audit.Append(tx, domain.ActionUpdate, desc, sh.ID, actorID); err != nil {
		return domain.Shipment{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Shipment{}, err
	}
	metrics.Mutations.WithLabelValues("shipment", "update").Inc()
	return sh, nil
}

// Delete removes the shipment and, by cascade, its lines.
func (s *ShipmentService) Delete(id, actorID string) error {
	sh, err := s.Get(id)
	if err != nil {
		return err
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.Shipments.Delete(tx, id); err != nil {
		return err
	}
	desc := fmt.Sprintf("Removed shipment %s (%s)", sh.ID, sh.PartnerName)
	if _, err := s.Audit.Append(tx, domain.ActionRemove, desc, sh.ID, actorID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	metrics.Mutations.WithLabelValues("shipment", "delete").Inc()
	return nil
}

// Complete stamps status and completion time; nothing else changes and no
// audit record is written for it.
func (s *ShipmentService) Complete(id string) (domain.Shipment, error) {
	if _, err := s.Get(id); err != nil {
		return domain.Shipment{}, err
	}
	if err := s.Shipments.Complete(s.DB, id, now()); err != nil {
		return domain.Shipment{}, err
	}
	metrics.Mutations.WithLabelValues("shipment", "complete").Inc()
	return s.Get(id)
}
