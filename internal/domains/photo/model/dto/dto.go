package dto

import (
	"gearshare/internal/domains/photo/model"
	gDto "gearshare/shared/dto"
	gModel "gearshare/shared/model"
	"gearshare/shared/timezone"

	"github.com/google/uuid"
)

type UploadPhotoRequest struct {
	// Image is a base64 data URI, e.g. "data:image/png;base64,...".
	Image string `json:"image" validate:"required,mimetypes=image/png image/jpg image/jpeg,maxfilesize=5"`
}

func NewPhoto(itemID, url, contentType, user string) model.Photo {
	return model.Photo{
		ID:          uuid.NewString(),
		ItemID:      itemID,
		URL:         url,
		ContentType: contentType,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type PhotoResponse struct {
	ID          string `json:"id"`
	ItemID      string `json:"item_id"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	gDto.Metadata
}

func (r *PhotoResponse) FromModel(model model.Photo) {
	r.ID = model.ID
	r.ItemID = model.ItemID
	r.URL = model.URL
	r.ContentType = model.ContentType
	r.Metadata.FromModel(model.Metadata)
}

type GetPhotosResponse struct {
	Photos    []PhotoResponse `json:"photos"`
	TotalData int             `json:"total_data"`
}

func (r *GetPhotosResponse) FromModels(models []model.Photo) {
	r.TotalData = len(models)

	r.Photos = make([]PhotoResponse, len(models))
	for i, m := range models {
		r.Photos[i].FromModel(m)
	}
}
