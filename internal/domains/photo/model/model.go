package model

import "gearshare/shared/model"

const (
	TableName  = "photos"
	EntityName = "photo"

	FieldID          = "id"
	FieldItemID      = "item_id"
	FieldURL         = "url"
	FieldContentType = "content_type"
)

type Photo struct {
	ID          string `db:"id"`
	ItemID      string `db:"item_id"`
	URL         string `db:"url"`
	ContentType string `db:"content_type"`
	model.Metadata
}
