package model

import "gearshare/shared/model"

const (
	TableName  = "items"
	EntityName = "item"

	FieldID          = "id"
	FieldOwnerID     = "owner_id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldAvailable   = "available"
	FieldRequestID   = "request_id"
)

type Item struct {
	ID          string  `db:"id"`
	OwnerID     string  `db:"owner_id"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Available   bool    `db:"available"`
	RequestID   *string `db:"request_id"`
	model.Metadata
}
