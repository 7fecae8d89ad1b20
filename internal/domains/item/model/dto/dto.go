package dto

import (
	commentDto "gearshare/internal/domains/comment/model/dto"
	"gearshare/internal/domains/item/model"
	resModel "gearshare/internal/domains/reservation/model"
	"gearshare/shared"
	"gearshare/shared/constant"
	gDto "gearshare/shared/dto"
	gModel "gearshare/shared/model"
	"gearshare/shared/timezone"

	"github.com/google/uuid"
)

type CreateItemRequest struct {
	Name        string  `json:"name"        validate:"required,max=100"`
	Description string  `json:"description" validate:"required,max=1000"`
	Available   *bool   `json:"available"   validate:"required"`
	RequestID   *string `json:"request_id"  validate:"omitempty"`
}

func (r *CreateItemRequest) ToModel(ownerID string) model.Item {
	return model.Item{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        r.Name,
		Description: r.Description,
		Available:   *r.Available,
		RequestID:   r.RequestID,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  ownerID,
			ModifiedBy: ownerID,
		},
	}
}

type UpdateItemRequest struct {
	Name        *string `db:"name"        json:"name,omitempty"        validate:"omitempty,max=100"`
	Description *string `db:"description" json:"description,omitempty" validate:"omitempty,max=1000"`
	Available   *bool   `db:"available"   json:"available,omitempty"`
}

type ItemResponse struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Available   bool    `json:"available"`
	RequestID   *string `json:"request_id,omitempty"`
	gDto.Metadata
}

func (r *ItemResponse) FromModel(model model.Item) {
	r.ID = model.ID
	r.OwnerID = model.OwnerID
	r.Name = model.Name
	r.Description = model.Description
	r.Available = model.Available
	r.RequestID = model.RequestID
	r.Metadata.FromModel(model.Metadata)
}

// ReservationBrief is the owner-facing summary of a reservation shown on the
// item detail.
type ReservationBrief struct {
	ID          string `json:"id"`
	RequesterID string `json:"requester_id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Status      string `json:"status"`
}

func BriefFromModel(model resModel.Reservation) *ReservationBrief {
	return &ReservationBrief{
		ID:          model.ID,
		RequesterID: model.RequesterID,
		StartTime:   timezone.Format(model.StartTime, constant.DateFormat),
		EndTime:     timezone.Format(model.EndTime, constant.DateFormat),
		Status:      model.Status,
	}
}

type ItemDetailResponse struct {
	ItemResponse
	LastReservation *ReservationBrief             `json:"last_reservation,omitempty"`
	NextReservation *ReservationBrief             `json:"next_reservation,omitempty"`
	Comments        []commentDto.CommentResponse  `json:"comments"`
}

type GetItemsResponse struct {
	Items     []ItemResponse `json:"items"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetItemsResponse) FromModels(models []model.Item, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Items = make([]ItemResponse, len(models))
	for i, mod := range models {
		r.Items[i].FromModel(mod)
	}
}
