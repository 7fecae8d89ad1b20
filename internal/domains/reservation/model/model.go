package model

import (
	"time"

	"gearshare/shared/model"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID          = "id"
	FieldItemID      = "item_id"
	FieldRequesterID = "requester_id"
	FieldStartTime   = "start_time"
	FieldEndTime     = "end_time"
	FieldStatus      = "status"
	FieldItemOwnerID = "item_owner_id"

	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// Reservation is a request to use an item for a time window. The owning item
// is joined in on every read so authorization never needs a second query.
type Reservation struct {
	ID          string    `db:"id"`
	ItemID      string    `db:"item_id"`
	RequesterID string    `db:"requester_id"`
	StartTime   time.Time `db:"start_time"`
	EndTime     time.Time `db:"end_time"`
	Status      string    `db:"status"`
	ItemOwnerID string    `db:"item_owner_id" table:"items" column:"owner_id"`
	ItemName    string    `db:"item_name"     table:"items" column:"name"`
	model.Metadata
}

func (Reservation) GetJoinQuery() string {
	return "JOIN items ON items.id = reservations.item_id"
}
