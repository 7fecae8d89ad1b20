package dto

import (
	"time"

	"gearshare/internal/domains/reservation/model"
	"gearshare/shared"
	"gearshare/shared/constant"
	gDto "gearshare/shared/dto"
	gModel "gearshare/shared/model"
	"gearshare/shared/timezone"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	ItemID    string    `json:"item_id"    validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time"   validate:"required"`
}

func (r *CreateReservationRequest) ToModel(requesterID string) model.Reservation {
	return model.Reservation{
		ID:          uuid.NewString(),
		ItemID:      r.ItemID,
		RequesterID: requesterID,
		StartTime:   timezone.ToAppTime(r.StartTime),
		EndTime:     timezone.ToAppTime(r.EndTime),
		Status:      model.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  requesterID,
			ModifiedBy: requesterID,
		},
	}
}

type ReservationResponse struct {
	ID          string `json:"id"`
	ItemID      string `json:"item_id"`
	ItemName    string `json:"item_name"`
	RequesterID string `json:"requester_id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Status      string `json:"status"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.ItemID = model.ItemID
	r.ItemName = model.ItemName
	r.RequesterID = model.RequesterID
	r.StartTime = timezone.Format(model.StartTime, constant.DateFormat)
	r.EndTime = timezone.Format(model.EndTime, constant.DateFormat)
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}

// ReservationEvent is the message published to Kafka on every lifecycle
// transition.
type ReservationEvent struct {
	Type          string `json:"type"`
	ReservationID string `json:"reservation_id"`
	ItemID        string `json:"item_id"`
	RequesterID   string `json:"requester_id"`
	Status        string `json:"status"`
	OccurredAt    string `json:"occurred_at"`
}
