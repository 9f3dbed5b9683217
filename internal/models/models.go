package models

import (
	"time"

	"gorm.io/datatypes"
)

// UserAccount is the persisted profile record for a signed-in user.
// Keyed by email for lookup (not by identity id). At most one active row
// per email is expected; uniqueness is NOT enforced at this layer, so the
// column carries a plain index only.
type UserAccount struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Email      string    `gorm:"index;size:255;not null" json:"email"`
	Name       *string   `gorm:"size:255" json:"name"`
	AccessRole *string   `gorm:"size:64" json:"access_role"`
	Building   *string   `gorm:"size:64" json:"building"`
	Active     *bool     `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (UserAccount) TableName() string { return "user_accounts" }

// WorkOrder references containers by id value; no ownership, no cascade.
// A dangling container id is tolerated and dropped during aggregation.
type WorkOrder struct {
	ID           string                      `gorm:"primaryKey;size:36" json:"id"`
	WorkOrderNo  string                      `gorm:"index;size:64" json:"work_order_no"`
	Building     string                      `gorm:"index;size:64" json:"building"`
	Shift        string                      `gorm:"index;size:32" json:"shift"`
	ContainerIDs datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"container_ids"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

// WorkerShare is one payout line nested in a container.
type WorkerShare struct {
	Name          string  `json:"name"`
	MinutesWorked int     `json:"minutes_worked"`
	PercentShare  float64 `json:"percent_share"`
	Payout        float64 `json:"payout"`
}

type Container struct {
	ID           string                           `gorm:"primaryKey;size:36" json:"id"`
	ContainerNo  string                           `gorm:"index;size:64" json:"container_no"`
	PiecesTotal  int                              `json:"pieces_total"`
	SKUsTotal    int                              `gorm:"column:skus_total" json:"skus_total"`
	ContainerPay float64                          `json:"container_pay"`
	Workers      datatypes.JSONSlice[WorkerShare] `gorm:"type:jsonb" json:"workers"`
	CreatedAt    time.Time                        `json:"created_at"`
	UpdatedAt    time.Time                        `json:"updated_at"`
}
