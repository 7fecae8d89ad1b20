package model

import "gearshare/shared/model"

const (
	TableName  = "users"
	EntityName = "user"

	FieldID       = "id"
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldLevel    = "level"
	FieldActive   = "active"
)

type User struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Email    string `db:"email"`
	Password string `db:"password"`
	Level    string `db:"level"`
	Active   bool   `db:"active"`
	model.Metadata
}
