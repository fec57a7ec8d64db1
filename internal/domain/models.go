package domain

// Shipment type values.
const (
	ShipmentInbound  = "Inbound"
	ShipmentOutbound = "Outbound"
)

// Shipment status values.
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusInTransit  = "InTransit"
	StatusCompleted  = "Completed"
	StatusDelayed    = "Delayed"
)

// Shipment priority values.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
	PriorityUrgent = "Urgent"
)

// ActivityLog action types.
const (
	ActionAdd    = "Add"
	ActionRemove = "Remove"
	ActionUpdate = "Update"
	ActionMove   = "Move"
	ActionError  = "Error"
	ActionInfo   = "Info"
)

type Item struct {
	SKU       string `db:"sku" json:"sku"`
	Name      string `db:"name" json:"name"`
	Category  string `db:"category" json:"category"`
	Location  string `db:"location" json:"location"`
	Condition string `db:"condition" json:"condition"`
	Quantity  int    `db:"quantity" json:"quantity"`
	Notes     string `db:"notes" json:"notes"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt"`
	CreatedBy string `db:"created_by" json:"createdBy"`
	UpdatedBy string `db:"updated_by" json:"updatedBy"`
}

type Shipment struct {
	ID          string `db:"id" json:"id"`
	Type        string `db:"type" json:"type"` // Inbound | Outbound
	PartnerName string `db:"partner_name" json:"partnerName"`
	Status      string `db:"status" json:"status"`
	Priority    string `db:"priority" json:"priority"`
	ETA         string `db:"eta" json:"eta"`
	Notes       string `db:"notes" json:"notes"`
	CreatedAt   string `db:"created_at" json:"createdAt"`
	CreatedBy   string `db:"created_by" json:"createdBy"`
	CompletedAt string `db:"completed_at" json:"completedAt,omitempty"`

	Lines []ShipmentLine `json:"lines"`
}

// ShipmentLine has no identity of its own; the whole set is replaced
// on shipment update.
type ShipmentLine struct {
	ShipmentID string `db:"shipment_id" json:"shipmentId"`
	SKU        string `db:"sku" json:"sku"`
	Quantity   int    `db:"quantity" json:"quantity"`
	Notes      string `db:"notes" json:"notes"`
}

type ActivityLog struct {
	ID          int64  `db:"id" json:"id"`
	ActionType  string `db:"action_type" json:"actionType"`
	Description string `db:"description" json:"description"`
	ItemSKU     string `db:"item_sku" json:"itemSKU,omitempty"`
	UserID      string `db:"user_id" json:"userId,omitempty"`
	UserName    string `db:"user_name" json:"userName"`
	Timestamp   string `db:"timestamp" json:"timestamp"`
}

// Stocktake status values.
const (
	StocktakeInProgress = "InProgress"
	StocktakeCompleted  = "Completed"
)

type Stocktake struct {
	ID          string `db:"id" json:"id"`
	Location    string `db:"location" json:"location"`
	Status      string `db:"status" json:"status"`
	Notes       string `db:"notes" json:"notes"`
	CreatedAt   string `db:"created_at" json:"createdAt"`
	CreatedBy   string `db:"created_by" json:"createdBy"`
	CompletedAt string `db:"completed_at" json:"completedAt,omitempty"`

	Lines []StocktakeLine `json:"lines"`
}

type StocktakeLine struct {
	StocktakeID string `db:"stocktake_id" json:"stocktakeId"`
	SKU         string `db:"sku" json:"sku"`
	ExpectedQty int    `db:"expected_qty" json:"expectedQty"`
	CountedQty  int    `db:"counted_qty" json:"countedQty"`
}

// MovementSeries is the 7-day inbound/outbound reconstruction, aligned
// to Labels (Monday first).
type MovementSeries struct {
	Labels   []string `json:"labels"`
	Inbound  []int    `json:"inbound"`
	Outbound []int    `json:"outbound"`
}
