package dto

import (
	itemDto "gearshare/internal/domains/item/model/dto"
	"gearshare/internal/domains/request/model"
	"gearshare/shared"
	gDto "gearshare/shared/dto"
	gModel "gearshare/shared/model"
	"gearshare/shared/timezone"

	"github.com/google/uuid"
)

type CreateRequestRequest struct {
	Description string `json:"description" validate:"required,max=1000"`
}

func (r *CreateRequestRequest) ToModel(requesterID string) model.Request {
	return model.Request{
		ID:          uuid.NewString(),
		Description: r.Description,
		RequesterID: requesterID,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  requesterID,
			ModifiedBy: requesterID,
		},
	}
}

type RequestResponse struct {
	ID          string                 `json:"id"`
	Description string                 `json:"description"`
	RequesterID string                 `json:"requester_id"`
	Items       []itemDto.ItemResponse `json:"items"`
	gDto.Metadata
}

func (r *RequestResponse) FromModel(model model.Request) {
	r.ID = model.ID
	r.Description = model.Description
	r.RequesterID = model.RequesterID
	r.Items = []itemDto.ItemResponse{}
	r.Metadata.FromModel(model.Metadata)
}

type GetRequestsResponse struct {
	Requests  []RequestResponse `json:"requests"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetRequestsResponse) FromModels(models []model.Request, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Requests = make([]RequestResponse, len(models))
	for i, mod := range models {
		r.Requests[i].FromModel(mod)
	}
}
