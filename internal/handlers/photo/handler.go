package photo

import (
	"net/http"

	"gearshare/infras/otel"
	"gearshare/internal/domains/photo/model/dto"
	"gearshare/internal/domains/photo/service"
	"gearshare/shared/constant"
	"gearshare/shared/failure"
	"gearshare/shared/validator"
	"gearshare/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Photo
	otel    otel.Otel
}

func New(service service.Photo, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/items/{id}/photos", handler.UploadPhoto)
	router.Get("/items/{id}/photos", handler.GetPhotos)
	router.Delete("/photos/{id}", handler.DeletePhoto)
}

// UploadPhoto attaches a photo to an item owned by the authenticated user.
// @Summary Upload an item photo
// @Tags Photo
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body dto.UploadPhotoRequest true "Upload Photo Request"
// @Success 201 {object} response.Data[dto.PhotoResponse] "Uploaded photo"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/items/{id}/photos [post]
// @Security BearerAuth
func (handler *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadPhoto")
	defer scope.End()

	ownerID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || ownerID == "" {
		err := failure.Unauthorized("unauthorized")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	itemID := chi.URLParam(r, constant.RequestParamID)

	req := dto.UploadPhotoRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Upload(ctx, ownerID, itemID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload photo")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Photo uploaded successfully by user " + ownerID)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetPhotos lists the photos of an item.
// @Summary Get item photos
// @Tags Photo
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.Data[dto.GetPhotosResponse] "List of photos"
// @Router /v1/items/{id}/photos [get]
func (handler *Handler) GetPhotos(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPhotos")
	defer scope.End()

	itemID := chi.URLParam(r, constant.RequestParamID)

	photos, err := handler.service.ListByItem(ctx, itemID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get photos")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Photos retrieved successfully")

	response.WithJSON(w, http.StatusOK, photos)
}

// DeletePhoto removes a photo from an item owned by the authenticated user.
// @Summary Delete a photo by ID
// @Tags Photo
// @Accept json
// @Produce json
// @Param id path string true "Photo ID"
// @Success 200 {object} response.Message "Photo deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/photos/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeletePhoto")
	defer scope.End()

	ownerID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || ownerID == "" {
		err := failure.Unauthorized("unauthorized")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, ownerID, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete photo")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Photo deleted successfully by user " + ownerID)

	response.WithMessage(w, http.StatusOK, "Photo deleted successfully")
}
