package request

import (
	"net/http"
	"strconv"

	"gearshare/infras/otel"
	"gearshare/internal/domains/request/model/dto"
	"gearshare/internal/domains/request/service"
	"gearshare/shared/constant"
	"gearshare/shared/failure"
	"gearshare/shared/validator"
	"gearshare/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Request
	otel    otel.Otel
}

func New(service service.Request, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/requests", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRequest)
		routerGroup.Get("/", handler.GetMyRequests)
		routerGroup.Get("/all", handler.GetOtherRequests)
		routerGroup.Get("/{id}", handler.GetRequestByID)
	})
}

// CreateRequest posts a wanted-item request.
// @Summary Create a new request
// @Tags Request
// @Accept json
// @Produce json
// @Param request body dto.CreateRequestRequest true "Create Request Request"
// @Success 201 {object} response.Message "Request created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/requests [post]
// @Security BearerAuth
func (handler *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRequest")
	defer scope.End()

	requesterID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || requesterID == "" {
		err := failure.Unauthorized("unauthorized")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	req := dto.CreateRequestRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, requesterID, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create request")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Request created successfully by user " + requesterID)

	response.WithMessage(w, http.StatusCreated, "Request created successfully")
}

// GetMyRequests lists the authenticated user's own requests, newest first.
// @Summary Get my requests
// @Tags Request
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.GetRequestsResponse] "List of requests"
// @Failure 404 {object} response.Error
// @Router /v1/requests [get]
// @Security BearerAuth
func (handler *Handler) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyRequests")
	defer scope.End()

	requesterID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || requesterID == "" {
		err := failure.Unauthorized("unauthorized")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	requests, err := handler.service.ListOwn(ctx, requesterID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get requests")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Requests retrieved successfully for user " + requesterID)

	response.WithJSON(w, http.StatusOK, requests)
}

// GetOtherRequests lists other users' requests, newest first, paginated.
// @Summary Get other users' requests
// @Tags Request
// @Accept json
// @Produce json
// @Param from query int false "Result offset"
// @Param size query int false "Page size"
// @Success 200 {object} response.Data[dto.GetRequestsResponse] "List of requests"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/requests/all [get]
// @Security BearerAuth
func (handler *Handler) GetOtherRequests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOtherRequests")
	defer scope.End()

	viewerID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || viewerID == "" {
		err := failure.Unauthorized("unauthorized")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	from, err := queryInt(r, constant.RequestParamFrom, constant.DefaultValueFrom)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	size, err := queryInt(r, constant.RequestParamSize, constant.DefaultValueSize)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	requests, err := handler.service.ListOthers(ctx, viewerID, from, size)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get requests")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Requests retrieved successfully")

	response.WithJSON(w, http.StatusOK, requests)
}

// GetRequestByID retrieves a request with the items answering it.
// @Summary Get a request by ID
// @Tags Request
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Data[dto.RequestResponse] "Request details"
// @Failure 404 {object} response.Error
// @Router /v1/requests/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetRequestByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRequestByID")
	defer scope.End()

	viewerID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || viewerID == "" {
		err := failure.Unauthorized("unauthorized")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	request, err := handler.service.Get(ctx, viewerID, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get request by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Request retrieved successfully")

	response.WithJSON(w, http.StatusOK, request)
}

func queryInt(r *http.Request, param string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, failure.BadRequestFromString(param + " must be an integer") //nolint:wrapcheck
	}

	return value, nil
}
