package services

import (
	"database/sql"
	"fmt"

	"stockroom/internal/domain"
	"stockroom/internal/metrics"
	"stockroom/internal/repos"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// StocktakeService runs counting sessions over a location. Expected
// quantities are snapshotted from the items table at creation time so the
// count can be compared even after stock moves on.
type StocktakeService struct {
	DB         *sqlx.DB
	Stocktakes *repos.StocktakeRepo
	Items      *repos.ItemRepo
	Audit      *AuditLogger
}

func NewStocktakeService(db *sqlx.DB, stocktakes *repos.StocktakeRepo, items *repos.ItemRepo, audit *AuditLogger) *StocktakeService {
	return &StocktakeService{DB: db, Stocktakes: stocktakes, Items: items, Audit: audit}
}

type StocktakeLineInput struct {
	SKU        string `json:"sku"`
	CountedQty int    `json:"countedQty"`
}

type StocktakeInput struct {
	Location string               `json:"location"`
	Notes    string               `json:"notes"`
	Lines    []StocktakeLineInput `json:"lines"`
}

func (s *StocktakeService) List() ([]domain.Stocktake, error) {
	list, err := s.Stocktakes.List()
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Lines, err = s.Stocktakes.Lines(list[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (s *StocktakeService) Get(id string) (domain.Stocktake, error) {
	st, err := s.Stocktakes.Get(id)
	if err == sql.ErrNoRows {
		return domain.Stocktake{}, ErrNotFound
	}
	if err != nil {
		return domain.Stocktake{}, err
	}
	st.Lines, err = s.Stocktakes.Lines(id)
	return st, err
}

func (s *StocktakeService) Create(in StocktakeInput, actorID string) (domain.Stocktake, error) {
	if in.Location == "" {
		return domain.Stocktake{}, missing("location")
	}
	for _, l := range in.Lines {
		if l.SKU == "" {
			return domain.Stocktake{}, missing("lines.sku")
		}
		if l.CountedQty < 0 {
			return domain.Stocktake{}, invalid("lines.countedQty", "must not be negative")
		}
	}

	// snapshot expected quantities before the write transaction opens
	expected := make(map[string]int, len(in.Lines))
	for _, l := range in.Lines {
		if it, err := s.Items.Get(l.SKU); err == nil {
			expected[l.SKU] = it.Quantity
		}
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return domain.Stocktake{}, err
	}
	defer func() { _ = tx.Rollback() }()

	st := domain.Stocktake{
		ID: uuid.NewString(), Location: in.Location, Status: domain.StocktakeInProgress,
		Notes: in.Notes, CreatedAt: now(), CreatedBy: actorID,
	}
	if err := s.Stocktakes.Insert(tx, &st); err != nil {
		return domain.Stocktake{}, err
	}

	for _, l := range in.Lines {
		line := domain.StocktakeLine{StocktakeID: st.ID, SKU: l.SKU, ExpectedQty: expected[l.SKU], CountedQty: l.CountedQty}
		if err := s.Stocktakes.InsertLine(tx, &line); err != nil {
			return domain.Stocktake{}, err
		}
		st.Lines = append(st.Lines, line)
	}

	desc := fmt.Sprintf("Started stocktake at %s (%d lines)", st.Location, len(st.Lines))
	if _, err := s.Audit.Append(tx, domain.ActionInfo, desc, "", actorID); err != nil {
		return domain.Stocktake{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Stocktake{}, err
	}
	metrics.Mutations.WithLabelValues("stocktake", "create").Inc()
	return st, nil
}

func (s *StocktakeService) Complete(id, actorID string) (domain.Stocktake, error) {
	st, err := s.Get(id)
	if err != nil {
		return domain.Stocktake{}, err
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return domain.Stocktake{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.Stocktakes.Complete(tx, id, now()); err != nil {
		return domain.Stocktake{}, err
	}
	desc := fmt.Sprintf("Completed stocktake at %s", st.Location)
	if _, err := s.Audit.Append(tx, domain.ActionInfo, desc, "", actorID); err != nil {
		return domain.Stocktake{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Stocktake{}, err
	}
	metrics.Mutations.WithLabelValues("stocktake", "complete").Inc()
	return s.Get(id)
}

func (s *StocktakeService) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.Stocktakes.Delete(s.DB, id); err != nil {
		return err
	}
	metrics.Mutations.WithLabelValues("stocktake", "delete").Inc()
	return nil
}
