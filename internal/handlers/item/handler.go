package item

import (
	"net/http"

	"gearshare/infras/otel"
	"gearshare/internal/domains/item/model/dto"
	"gearshare/internal/domains/item/service"
	"gearshare/shared/constant"
	gDto "gearshare/shared/dto"
	"gearshare/shared/failure"
	"gearshare/shared/validator"
	"gearshare/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Item
	otel    otel.Otel
}

func New(service service.Item, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/items", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateItem)
		routerGroup.Get("/", handler.GetMyItems)
		routerGroup.Get("/search", handler.SearchItems)
		routerGroup.Get("/{id}", handler.GetItemByID)
		routerGroup.Patch("/{id}", handler.UpdateItem)
		routerGroup.Delete("/{id}", handler.DeleteItem)
	})
}

// CreateItem lists a new item owned by the authenticated user.
// @Summary Create a new item
// @Tags Item
// @Accept json
// @Produce json
// @Param request body dto.CreateItemRequest true "Create Item Request"
// @Success 201 {object} response.Message "Item created successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/items [post]
// @Security BearerAuth
func (handler *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateItem")
	defer scope.End()

	ownerID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || ownerID == "" {
		err := failure.Unauthorized("unauthorized")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	req := dto.CreateItemRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, ownerID, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create item")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Item created successfully by user " + ownerID)

	response.WithMessage(w, http.StatusCreated, "Item created successfully")
}

// GetMyItems retrieves the items owned by the authenticated user.
// @Summary Get my items
// @Tags Item
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetItemsResponse] "List of items"
// @Failure 401 {object} response.Error
// @Router /v1/items [get]
// @Security BearerAuth
func (handler *Handler) GetMyItems(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyItems")
	defer scope.End()

	ownerID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || ownerID == "" {
		err := failure.Unauthorized("unauthorized")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	items, err := handler.service.GetAll(ctx, ownerID, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get items")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Items retrieved successfully")

	response.WithJSON(w, http.StatusOK, items)
}

// SearchItems searches available items by free text.
// @Summary Search items
// @Tags Item
// @Accept json
// @Produce json
// @Param text query string true "Search text"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetItemsResponse] "Matching items"
// @Failure 400 {object} response.Error
// @Router /v1/items/search [get]
func (handler *Handler) SearchItems(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SearchItems")
	defer scope.End()

	text := r.URL.Query().Get(constant.RequestParamText)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	items, err := handler.service.Search(ctx, text, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to search items")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Items searched successfully")

	response.WithJSON(w, http.StatusOK, items)
}

// GetItemByID retrieves an item with its comments. The owner also sees the
// last and next reservation of the item.
// @Summary Get an item by ID
// @Tags Item
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.Data[dto.ItemDetailResponse] "Item details"
// @Failure 404 {object} response.Error
// @Router /v1/items/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetItemByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetItemByID")
	defer scope.End()

	viewerID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	id := chi.URLParam(r, constant.RequestParamID)

	item, err := handler.service.Get(ctx, viewerID, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get item by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Item retrieved successfully")

	response.WithJSON(w, http.StatusOK, item)
}

// UpdateItem updates an item owned by the authenticated user.
// @Summary Update an item by ID
// @Tags Item
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body dto.UpdateItemRequest true "Update Item Request"
// @Success 200 {object} response.Message "Item updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/items/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateItem")
	defer scope.End()

	ownerID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || ownerID == "" {
		err := failure.Unauthorized("unauthorized")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateItemRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, ownerID, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update item")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Item updated successfully by user " + ownerID)

	response.WithMessage(w, http.StatusOK, "Item updated successfully")
}

// DeleteItem deletes an item owned by the authenticated user.
// @Summary Delete an item by ID
// @Tags Item
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.Message "Item deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/items/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteItem")
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
		log.Error().Err(err).Msg("failed to delete item")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Item deleted successfully by user " + ownerID)

	response.WithMessage(w, http.StatusOK, "Item deleted successfully")
}
