package dto

import (
	"gearshare/internal/domains/comment/model"
	gDto "gearshare/shared/dto"
	gModel "gearshare/shared/model"
	"gearshare/shared/timezone"

	"github.com/google/uuid"
)

type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

func (r *CreateCommentRequest) ToModel(itemID, authorID string) model.Comment {
	return model.Comment{
		ID:       uuid.NewString(),
		Text:     r.Text,
		ItemID:   itemID,
		AuthorID: authorID,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  authorID,
			ModifiedBy: authorID,
		},
	}
}

type CommentResponse struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	ItemID     string `json:"item_id"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name"`
	gDto.Metadata
}

func (r *CommentResponse) FromModel(model model.Comment) {
	r.ID = model.ID
	r.Text = model.Text
	r.ItemID = model.ItemID
	r.AuthorID = model.AuthorID
	r.AuthorName = model.AuthorName
	r.Metadata.FromModel(model.Metadata)
}

type GetCommentsResponse struct {
	Comments []CommentResponse `json:"comments"`
}

func (r *GetCommentsResponse) FromModels(models []model.Comment) {
	r.Comments = make([]CommentResponse, len(models))
	for i, mod := range models {
		r.Comments[i].FromModel(mod)
	}
}
