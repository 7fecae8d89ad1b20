package dto

import (
	"gearshare/internal/domains/user/model"
	"gearshare/shared"
	"gearshare/shared/constant"
	gDto "gearshare/shared/dto"
	gModel "gearshare/shared/model"
	"gearshare/shared/timezone"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8"`
	Level    string `json:"level"    validate:"omitempty,oneof=admin user"`
}

func (r *CreateUserRequest) ToModel(username, hashedPassword string) model.User {
	level := r.Level
	if level == "" {
		level = constant.RoleUser
	}

	return model.User{
		ID:       uuid.NewString(),
		Name:     r.Name,
		Email:    r.Email,
		Password: hashedPassword,
		Level:    level,
		Active:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}
}

type UpdateUserRequest struct {
	Name  *string `db:"name"  json:"name,omitempty"  validate:"omitempty,max=100"`
	Email *string `db:"email" json:"email,omitempty" validate:"omitempty,email,max=100"`
}

type UserResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Level  string `json:"level"`
	Active bool   `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Name = model.Name
	r.Email = model.Email
	r.Level = model.Level
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
