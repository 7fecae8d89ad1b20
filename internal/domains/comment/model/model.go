package model

import "gearshare/shared/model"

const (
	TableName  = "comments"
	EntityName = "comment"

	FieldID       = "id"
	FieldText     = "text"
	FieldItemID   = "item_id"
	FieldAuthorID = "author_id"
)

type Comment struct {
	ID         string `db:"id"`
	Text       string `db:"text"`
	ItemID     string `db:"item_id"`
	AuthorID   string `db:"author_id"`
	AuthorName string `db:"author_name" table:"users" column:"name"`
	model.Metadata
}

func (Comment) GetJoinQuery() string {
	return "JOIN users ON users.id = comments.author_id"
}
