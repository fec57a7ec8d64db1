package handlers

import (
	"stockroom/internal/repos"
	"stockroom/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	ItemHandler      *ItemHandler
	ShipmentHandler  *ShipmentHandler
	ActivityHandler  *ActivityHandler
	StocktakeHandler *StocktakeHandler
	AuthHandler      *AuthHandler
}

func NewDeps(db *sqlx.DB, auth *services.AuthService) *Deps {
	itemRepo := repos.NewItemRepo(db)
	shipRepo := repos.NewShipmentRepo(db)
	actRepo := repos.NewActivityRepo(db)
	stRepo := repos.NewStocktakeRepo(db)
	userRepo := repos.NewUserRepo(db)

	audit := services.NewAuditLogger(db, actRepo, userRepo)
	keys := services.NewKeyGen(itemRepo)

	itemSvc := services.NewItemService(db, itemRepo, keys, audit)
	shipSvc := services.NewShipmentService(db, shipRepo, audit)
	querySvc := services.NewActivityQuery(actRepo)
	moveSvc := services.NewMovementService(itemRepo)
	stSvc := services.NewStocktakeService(db, stRepo, itemRepo, audit)

	return &Deps{
		ItemHandler:      &ItemHandler{Items: itemSvc},
		ShipmentHandler:  &ShipmentHandler{Shipments: shipSvc},
		ActivityHandler:  &ActivityHandler{Query: querySvc, Audit: audit, Movement: moveSvc},
		StocktakeHandler: &StocktakeHandler{Stocktakes: stSvc},
		AuthHandler:      &AuthHandler{Auth: auth},
	}
}
