package reservation

import (
	"net/http"
	"strconv"

	"gearshare/infras/otel"
	"gearshare/internal/domains/reservation/model/dto"
	"gearshare/internal/domains/reservation/service"
	"gearshare/shared/constant"
	"gearshare/shared/failure"
	"gearshare/shared/validator"
	"gearshare/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Reservation
	otel    otel.Otel
}

func New(service service.Reservation, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reservations", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateReservation)
		routerGroup.Get("/", handler.GetMyReservations)
		routerGroup.Get("/owner", handler.GetOwnerReservations)
		routerGroup.Get("/{id}", handler.GetReservationByID)
		routerGroup.Patch("/{id}", handler.DecideReservation)
	})
}

// CreateReservation books an item for a time window.
// @Summary Create a new reservation
// @Tags Reservation
// @Accept json
// @Produce json
// @Param request body dto.CreateReservationRequest true "Create Reservation Request"
// @Success 201 {object} response.Data[dto.ReservationResponse] "Created reservation"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reservations [post]
// @Security BearerAuth
func (handler *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReservation")
	defer scope.End()

	requesterID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || requesterID == "" {
		err := failure.Unauthorized("unauthorized")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	req := dto.CreateReservationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, requesterID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create reservation")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation created successfully by user " + requesterID)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetMyReservations lists reservations the authenticated user has requested.
// @Summary Get my reservations
// @Tags Reservation
// @Accept json
// @Produce json
// @Param state query string false "State filter (ALL, CURRENT, PAST, FUTURE, WAITING, REJECTED)"
// @Param from query int false "Result offset"
// @Param size query int false "Page size"
// @Success 200 {object} response.Data[dto.GetReservationsResponse] "List of reservations"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/reservations [get]
// @Security BearerAuth
func (handler *Handler) GetMyReservations(w http.ResponseWriter, r *http.Request) {
	handler.list(w, r, service.RoleRequester, ".GetMyReservations")
}

// GetOwnerReservations lists reservations made against the authenticated
// user's items.
// @Summary Get reservations for my items
// @Tags Reservation
// @Accept json
// @Produce json
// @Param state query string false "State filter (ALL, CURRENT, PAST, FUTURE, WAITING, REJECTED)"
// @Param from query int false "Result offset"
// @Param size query int false "Page size"
// @Success 200 {object} response.Data[dto.GetReservationsResponse] "List of reservations"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/reservations/owner [get]
// @Security BearerAuth
func (handler *Handler) GetOwnerReservations(w http.ResponseWriter, r *http.Request) {
	handler.list(w, r, service.RoleOwner, ".GetOwnerReservations")
}

func (handler *Handler) list(w http.ResponseWriter, r *http.Request, role, spanName string) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+spanName)
	defer scope.End()

	subjectID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || subjectID == "" {
		err := failure.Unauthorized("unauthorized")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	state := r.URL.Query().Get(constant.RequestParamState)

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

	reservations, err := handler.service.List(ctx, subjectID, role, state, from, size)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservations")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservations retrieved successfully for user " + subjectID)

	response.WithJSON(w, http.StatusOK, reservations)
}

// GetReservationByID retrieves a reservation visible to the authenticated user.
// @Summary Get a reservation by ID
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Reservation details"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/reservations/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetReservationByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservationByID")
	defer scope.End()

	viewerID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || viewerID == "" {
		err := failure.Unauthorized("unauthorized")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	reservation, err := handler.service.Get(ctx, viewerID, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservation by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation retrieved successfully")

	response.WithJSON(w, http.StatusOK, reservation)
}

// DecideReservation approves or rejects a pending reservation. Only the owner
// of the reserved item may decide.
// @Summary Approve or reject a reservation
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param approved query bool true "true to approve, false to reject"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Decided reservation"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reservations/{id} [patch]
// @Security BearerAuth
func (handler *Handler) DecideReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DecideReservation")
	defer scope.End()

	ownerID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || ownerID == "" {
		err := failure.Unauthorized("unauthorized")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	approved, err := strconv.ParseBool(r.URL.Query().Get(constant.RequestParamApproved))
	if err != nil {
		err = failure.BadRequestFromString("approved must be true or false")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	reservation, err := handler.service.Decide(ctx, ownerID, id, approved)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decide reservation")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation decided successfully by user " + ownerID)

	response.WithJSON(w, http.StatusOK, reservation)
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
