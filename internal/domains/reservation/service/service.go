package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gearshare/config"
	"gearshare/infras/kafka"
	"gearshare/infras/otel"
	itemModel "gearshare/internal/domains/item/model"
	itemRepo "gearshare/internal/domains/item/repository"
	"gearshare/internal/domains/reservation/model"
	"gearshare/internal/domains/reservation/model/dto"
	"gearshare/internal/domains/reservation/repository"
	userModel "gearshare/internal/domains/user/model"
	userRepo "gearshare/internal/domains/user/repository"
	"gearshare/shared"
	"gearshare/shared/cache"
	"gearshare/shared/clock"
	"gearshare/shared/constant"
	gDto "gearshare/shared/dto"
	"gearshare/shared/failure"
	"gearshare/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"
	cacheCountReservation  = "reservation:count"
)

// Roles a subject can take when listing reservations.
const (
	RoleRequester = "requester"
	RoleOwner     = "owner"
)

// Temporal states a reservation can be queried by. States are derived from
// "now" at query time, never stored.
const (
	StateAll      = "ALL"
	StateCurrent  = "CURRENT"
	StatePast     = "PAST"
	StateFuture   = "FUTURE"
	StateWaiting  = "WAITING"
	StateRejected = "REJECTED"
)

// Lifecycle event types published to Kafka.
const (
	EventReservationCreated  = "reservation.created"
	EventReservationApproved = "reservation.approved"
	EventReservationRejected = "reservation.rejected"
)

// statePredicates maps a temporal state to the filters it adds on top of the
// role filter. Adding a state is a table edit, not a new branch.
var statePredicates = map[string]func(now time.Time) []any{
	StateAll: func(time.Time) []any {
		return nil
	},
	StateCurrent: func(now time.Time) []any {
		return []any{
			gDto.Filter{
				Field:    model.FieldStartTime,
				Operator: gDto.FilterOperatorLess,
				Value:    now,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldEndTime,
				Operator: gDto.FilterOperatorGreater,
				Value:    now,
				Table:    model.TableName,
			},
		}
	},
	StatePast: func(now time.Time) []any {
		return []any{
			gDto.Filter{
				Field:    model.FieldEndTime,
				Operator: gDto.FilterOperatorLess,
				Value:    now,
				Table:    model.TableName,
			},
		}
	},
	StateFuture: func(now time.Time) []any {
		return []any{
			gDto.Filter{
				Field:    model.FieldStartTime,
				Operator: gDto.FilterOperatorGreater,
				Value:    now,
				Table:    model.TableName,
			},
		}
	},
	StateWaiting: func(time.Time) []any {
		return []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    model.StatusPending,
				Table:    model.TableName,
			},
		}
	},
	StateRejected: func(time.Time) []any {
		return []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    model.StatusRejected,
				Table:    model.TableName,
			},
		}
	},
}

type Reservation interface {
	Create(ctx context.Context, requesterID string, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	Decide(ctx context.Context, ownerID, reservationID string, approved bool) (dto.ReservationResponse, error)
	Get(ctx context.Context, viewerID, reservationID string) (dto.ReservationResponse, error)
	List(ctx context.Context, subjectID, role, state string, from, size int) (dto.GetReservationsResponse, error)
}

type serviceImpl struct {
	repo     repository.Reservation
	userRepo userRepo.User
	itemRepo itemRepo.Item
	cfg      *config.Config
	cache    cache.RedisCache
	kafka    kafka.Client
	clock    clock.Clock
	otel     otel.Otel
}

func New(
	repo repository.Reservation,
	userRepo userRepo.User,
	itemRepo itemRepo.Item,
	cfg *config.Config,
	cache cache.RedisCache,
	kafka kafka.Client,
	clock clock.Clock,
	otel otel.Otel,
) Reservation {
	return &serviceImpl{
		repo:     repo,
		userRepo: userRepo,
		itemRepo: itemRepo,
		cfg:      cfg,
		cache:    cache,
		kafka:    kafka,
		clock:    clock,
		otel:     otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, requesterID string, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.requireUser(ctx, requesterID); err != nil {
		return res, err
	}

	item, err := s.itemRepo.Get(ctx, shared.FilterByID(req.ItemID, itemModel.FieldID, itemModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get item")

		return res, fmt.Errorf("failed to get item: %w", err)
	}

	if item.ID == constant.Empty {
		return res, failure.NotFound("item not found") //nolint:wrapcheck
	}

	if err = s.validateWindow(req.StartTime, req.EndTime); err != nil {
		return res, err
	}

	if item.OwnerID == requesterID {
		return res, failure.OwnerCannotReserveOwnItem("owner cannot reserve own item") //nolint:wrapcheck
	}

	if !item.Available {
		return res, failure.ItemUnavailable("item is not available for reservation") //nolint:wrapcheck
	}

	conflicting, err := s.repo.FindOverlapping(ctx, req.ItemID, model.StatusApproved, req.StartTime, req.EndTime)
	if err != nil {
		log.Error().Err(err).Msg("failed to find overlapping reservations")

		return res, fmt.Errorf("failed to find overlapping reservations: %w", err)
	}

	if len(conflicting) > 0 {
		return res, failure.SlotConflict("time window conflicts with an approved reservation") //nolint:wrapcheck
	}

	reservation := req.ToModel(requesterID)

	// InsertIfVacant repeats the overlap check inside the transaction, so a
	// concurrent create that slipped past the check above still loses.
	if err = s.repo.InsertIfVacant(ctx, reservation); err != nil {
		return res, err
	}

	reservation.ItemOwnerID = item.OwnerID
	reservation.ItemName = item.Name

	s.afterWrite(ctx, EventReservationCreated, reservation)

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) Decide(ctx context.Context, ownerID, reservationID string, approved bool) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Decide")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.requireUser(ctx, ownerID); err != nil {
		return res, err
	}

	reservation, err := s.repo.Get(ctx, shared.FilterByID(reservationID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return res, failure.NotFound("reservation not found") //nolint:wrapcheck
	}

	// Non-owners get not-found, never forbidden, so they cannot probe
	// whether the reservation exists.
	if reservation.ItemOwnerID != ownerID {
		return res, failure.NotFound("reservation not found") //nolint:wrapcheck
	}

	if reservation.Status != model.StatusPending {
		return res, failure.AlreadyDecided(fmt.Sprintf("reservation is already %s", reservation.Status)) //nolint:wrapcheck
	}

	status := model.StatusRejected
	event := EventReservationRejected

	if approved {
		status = model.StatusApproved
		event = EventReservationApproved
	}

	decided, err := s.repo.UpdateStatusIfPending(ctx, reservationID, status, ownerID)
	if err != nil {
		log.Error().Err(err).Msg("failed to update reservation status")

		return res, fmt.Errorf("failed to update reservation status: %w", err)
	}

	// A concurrent decide won the race between our read and the update.
	if !decided {
		return res, failure.AlreadyDecided("reservation is already decided") //nolint:wrapcheck
	}

	reservation.Status = status
	reservation.ModifiedAt = timezone.Now()
	reservation.ModifiedBy = ownerID

	s.afterWrite(ctx, event, reservation)

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, viewerID, reservationID string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.requireUser(ctx, viewerID); err != nil {
		return res, err
	}

	cacheKey := shared.BuildCacheKey(cacheGetReservation, reservationID, viewerID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation")

		return res, nil
	}

	reservation, err := s.repo.Get(ctx, shared.FilterByID(reservationID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return res, failure.NotFound("reservation not found") //nolint:wrapcheck
	}

	if viewerID != reservation.RequesterID && viewerID != reservation.ItemOwnerID {
		return res, failure.Forbidden("reservation is only visible to its requester or the item owner") //nolint:wrapcheck
	}

	res.FromModel(reservation)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) List(ctx context.Context, subjectID, role, state string, from, size int) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.List")
	defer scope.End()
	defer scope.TraceIfError(err)

	if size <= 0 {
		return res, failure.BadRequestFromString("size must be positive") //nolint:wrapcheck
	}

	if from < 0 {
		return res, failure.BadRequestFromString("from must be non-negative") //nolint:wrapcheck
	}

	filter, err := s.listFilter(subjectID, role, state)
	if err != nil {
		return res, err
	}

	if err = s.requireUser(ctx, subjectID); err != nil {
		return res, err
	}

	params := gDto.QueryParams{
		SortBy:  model.TableName + "." + model.FieldStartTime,
		SortDir: gDto.SortDirDesc,
	}
	params.FromOffset(from, size)

	// CURRENT/PAST/FUTURE filters embed "now", so their cache keys never
	// repeat. Caching those would only pollute redis until the TTL.
	cacheable := !isTemporalState(state)

	var cacheKey string

	if cacheable {
		cacheKey = shared.BuildCacheKeyWithQuery(cacheGetAllReservation, params, filter)

		err = s.cache.Get(ctx, cacheKey, &res)
		if err == nil {
			log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

			return res, nil
		}
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	if cacheable {
		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save reservations to cache")
			}
		}()
	}

	return res, nil
}

func isTemporalState(state string) bool {
	switch strings.ToUpper(state) {
	case StateCurrent, StatePast, StateFuture:
		return true
	default:
		return false
	}
}

// listFilter combines the role filter with the temporal-state predicate.
func (s *serviceImpl) listFilter(subjectID, role, state string) (gDto.FilterGroup, error) {
	var roleFilter gDto.Filter

	switch role {
	case RoleRequester:
		roleFilter = gDto.Filter{
			Field:    model.FieldRequesterID,
			Operator: gDto.FilterOperatorEq,
			Value:    subjectID,
			Table:    model.TableName,
		}
	case RoleOwner:
		roleFilter = gDto.Filter{
			Field:    itemModel.FieldOwnerID,
			Operator: gDto.FilterOperatorEq,
			Value:    subjectID,
			Table:    itemModel.TableName,
		}
	default:
		return gDto.FilterGroup{}, failure.BadRequestFromString(fmt.Sprintf("unknown role: %s", role)) //nolint:wrapcheck
	}

	if state == constant.Empty {
		state = StateAll
	}

	predicate, ok := statePredicates[strings.ToUpper(state)]
	if !ok {
		return gDto.FilterGroup{}, failure.UnknownState(fmt.Sprintf("unknown state: %s", state)) //nolint:wrapcheck
	}

	filters := []any{roleFilter}
	filters = append(filters, predicate(s.clock.Now())...)

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  filters,
	}, nil
}

func (s *serviceImpl) validateWindow(start, end time.Time) error {
	now := s.clock.Now()

	switch {
	case start.Equal(end):
		return failure.InvalidTimeWindow("start and end must not be equal") //nolint:wrapcheck
	case start.Before(now):
		return failure.InvalidTimeWindow("start must not be in the past") //nolint:wrapcheck
	case end.Before(now):
		return failure.InvalidTimeWindow("end must not be in the past") //nolint:wrapcheck
	case end.Before(start):
		return failure.InvalidTimeWindow("start must be before end") //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) requireUser(ctx context.Context, userID string) error {
	exists, err := s.userRepo.Exist(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if !exists {
		return failure.NotFound("user not found") //nolint:wrapcheck
	}

	return nil
}

// afterWrite publishes the lifecycle event and drops stale cache entries.
// Both are best effort: failures are logged and never fail the call.
func (s *serviceImpl) afterWrite(ctx context.Context, eventType string, reservation model.Reservation) {
	go func() {
		c := context.WithoutCancel(ctx)

		event := dto.ReservationEvent{
			Type:          eventType,
			ReservationID: reservation.ID,
			ItemID:        reservation.ItemID,
			RequesterID:   reservation.RequesterID,
			Status:        reservation.Status,
			OccurredAt:    timezone.Format(timezone.Now(), constant.DateFormat),
		}

		err := s.kafka.SendMessages(c, constant.KafkaTopicReservationEvents, kafka.Message{
			Key:   reservation.ID,
			Value: event,
		})
		if err != nil {
			log.Error().Err(err).Str("type", eventType).Msg("failed to publish reservation event")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetReservation)
		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
	}()
}
