package model

import "gearshare/shared/model"

const (
	TableName  = "requests"
	EntityName = "request"

	FieldID          = "id"
	FieldDescription = "description"
	FieldRequesterID = "requester_id"
)

// Request is a wish for an item that is not listed yet. Owners may answer it
// by creating an item that references the request.
type Request struct {
	ID          string `db:"id"`
	Description string `db:"description"`
	RequesterID string `db:"requester_id"`
	model.Metadata
}
