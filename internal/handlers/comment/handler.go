package comment

import (
	"net/http"

	"gearshare/infras/otel"
	"gearshare/internal/domains/comment/model/dto"
	"gearshare/internal/domains/comment/service"
	"gearshare/shared/constant"
	"gearshare/shared/failure"
	"gearshare/shared/validator"
	"gearshare/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Comment
	otel    otel.Otel
}

func New(service service.Comment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/items/{id}/comments", handler.CreateComment)
	router.Get("/items/{id}/comments", handler.GetComments)
}

// CreateComment adds a comment on an item. The author must have an approved
// reservation of the item that has already started.
// @Summary Comment on an item
// @Tags Comment
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body dto.CreateCommentRequest true "Create Comment Request"
// @Success 201 {object} response.Data[dto.CommentResponse] "Created comment"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/items/{id}/comments [post]
// @Security BearerAuth
func (handler *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateComment")
	defer scope.End()

	authorID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || authorID == "" {
		err := failure.Unauthorized("unauthorized")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	itemID := chi.URLParam(r, constant.RequestParamID)

	req := dto.CreateCommentRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, authorID, itemID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create comment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Comment created successfully by user " + authorID)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetComments lists the comments on an item, newest first.
// @Summary Get comments on an item
// @Tags Comment
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.Data[dto.GetCommentsResponse] "List of comments"
// @Failure 404 {object} response.Error
// @Router /v1/items/{id}/comments [get]
func (handler *Handler) GetComments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetComments")
	defer scope.End()

	itemID := chi.URLParam(r, constant.RequestParamID)

	comments, err := handler.service.ListByItem(ctx, itemID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get comments")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Comments retrieved successfully")

	response.WithJSON(w, http.StatusOK, comments)
}
