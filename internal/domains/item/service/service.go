package service

import (
	"context"
	"fmt"
	"strings"

	"gearshare/config"
	"gearshare/infras/otel"
	commentModel "gearshare/internal/domains/comment/model"
	commentDto "gearshare/internal/domains/comment/model/dto"
	commentRepo "gearshare/internal/domains/comment/repository"
	"gearshare/internal/domains/item/model"
	"gearshare/internal/domains/item/model/dto"
	"gearshare/internal/domains/item/repository"
	resModel "gearshare/internal/domains/reservation/model"
	resRepo "gearshare/internal/domains/reservation/repository"
	"gearshare/shared"
	"gearshare/shared/cache"
	"gearshare/shared/clock"
	"gearshare/shared/constant"
	gDto "gearshare/shared/dto"
	"gearshare/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetItem    = "item:get"
	cacheGetAllItem = "item:gets"
	cacheCountItem  = "item:count"
)

type Item interface {
	Create(ctx context.Context, ownerID string, req dto.CreateItemRequest) error
	Get(ctx context.Context, viewerID, id string) (dto.ItemDetailResponse, error)
	GetAll(ctx context.Context, ownerID string, params gDto.QueryParams) (dto.GetItemsResponse, error)
	Search(ctx context.Context, text string, params gDto.QueryParams) (dto.GetItemsResponse, error)
	Update(ctx context.Context, ownerID, id string, req dto.UpdateItemRequest) error
	Delete(ctx context.Context, ownerID, id string) error
}

type serviceImpl struct {
	repo        repository.Item
	commentRepo commentRepo.Comment
	resRepo     resRepo.Reservation
	cfg         *config.Config
	cache       cache.RedisCache
	clock       clock.Clock
	otel        otel.Otel
}

func New(
	repo repository.Item,
	commentRepo commentRepo.Comment,
	resRepo resRepo.Reservation,
	cfg *config.Config,
	cache cache.RedisCache,
	clock clock.Clock,
	otel otel.Otel,
) Item {
	return &serviceImpl{
		repo:        repo,
		commentRepo: commentRepo,
		resRepo:     resRepo,
		cfg:         cfg,
		cache:       cache,
		clock:       clock,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, ownerID string, req dto.CreateItemRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".item.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.repo.Insert(ctx, req.ToModel(ownerID)); err != nil {
		log.Error().Err(err).Msg("failed to create item")

		return fmt.Errorf("failed to create item: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllItem)
		shared.InvalidateCaches(c, s.cache, cacheCountItem)
	}()

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, viewerID, id string) (res dto.ItemDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".item.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	item, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get item")

		return res, fmt.Errorf("failed to get item: %w", err)
	}

	if item.ID == constant.Empty {
		return res, failure.NotFound("item not found") //nolint:wrapcheck
	}

	res.ItemResponse.FromModel(item)

	comments, err := s.commentRepo.GetAll(ctx, gDto.QueryParams{
		SortBy:  commentModel.TableName + "." + constant.FieldCreatedAt,
		SortDir: gDto.SortDirDesc,
	}, shared.FilterByID(id, commentModel.FieldItemID, commentModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get item comments")

		return res, fmt.Errorf("failed to get item comments: %w", err)
	}

	res.Comments = make([]commentDto.CommentResponse, len(comments))
	for i, comment := range comments {
		res.Comments[i].FromModel(comment)
	}

	// Only the owner sees the reservation schedule around "now".
	if viewerID == item.OwnerID {
		last, next, err := s.lastAndNextReservation(ctx, id)
		if err != nil {
			return res, err
		}

		res.LastReservation = last
		res.NextReservation = next
	}

	return res, nil
}

func (s *serviceImpl) lastAndNextReservation(ctx context.Context, itemID string) (last, next *dto.ReservationBrief, err error) {
	now := s.clock.Now()

	baseFilters := func(op string) gDto.FilterGroup {
		return gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters: []any{
				gDto.Filter{
					Field:    resModel.FieldItemID,
					Operator: gDto.FilterOperatorEq,
					Value:    itemID,
					Table:    resModel.TableName,
				},
				gDto.Filter{
					Field:    resModel.FieldStatus,
					Operator: gDto.FilterOperatorEq,
					Value:    resModel.StatusApproved,
					Table:    resModel.TableName,
				},
				gDto.Filter{
					Field:    resModel.FieldStartTime,
					Operator: op,
					Value:    now,
					Table:    resModel.TableName,
				},
			},
		}
	}

	lastModels, err := s.resRepo.GetAll(ctx, gDto.QueryParams{
		Page:    1,
		Limit:   1,
		SortBy:  resModel.TableName + "." + resModel.FieldStartTime,
		SortDir: gDto.SortDirDesc,
	}, baseFilters(gDto.FilterOperatorLessEq))
	if err != nil {
		log.Error().Err(err).Msg("failed to get last reservation")

		return nil, nil, fmt.Errorf("failed to get last reservation: %w", err)
	}

	nextModels, err := s.resRepo.GetAll(ctx, gDto.QueryParams{
		Page:    1,
		Limit:   1,
		SortBy:  resModel.TableName + "." + resModel.FieldStartTime,
		SortDir: gDto.SortDirAsc,
	}, baseFilters(gDto.FilterOperatorGreater))
	if err != nil {
		log.Error().Err(err).Msg("failed to get next reservation")

		return nil, nil, fmt.Errorf("failed to get next reservation: %w", err)
	}

	if len(lastModels) > 0 {
		last = dto.BriefFromModel(lastModels[0])
	}

	if len(nextModels) > 0 {
		next = dto.BriefFromModel(nextModels[0])
	}

	return last, next, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, ownerID string, params gDto.QueryParams) (res dto.GetItemsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".item.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(ownerID, model.FieldOwnerID, model.TableName)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllItem, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for items")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count items")

		return res, fmt.Errorf("failed to count items: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get items")

		return res, fmt.Errorf("failed to get items: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save items to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Search(ctx context.Context, text string, params gDto.QueryParams) (res dto.GetItemsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".item.Search")
	defer scope.End()
	defer scope.TraceIfError(err)

	// Blank search text yields an empty page, not everything.
	if strings.TrimSpace(text) == constant.Empty {
		res.FromModels(nil, 0, params.Limit)

		return res, nil
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldAvailable,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    model.TableName,
			},
			gDto.FilterGroup{
				Operator: gDto.FilterGroupOperatorOr,
				Filters: []any{
					gDto.Filter{
						Field:    model.FieldName,
						Operator: gDto.FilterOperatorLike,
						Value:    text,
						Table:    model.TableName,
					},
					gDto.Filter{
						ArgName:  "search_description",
						Field:    model.FieldDescription,
						Operator: gDto.FilterOperatorLike,
						Value:    text,
						Table:    model.TableName,
					},
				},
			},
		},
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count items")

		return res, fmt.Errorf("failed to count items: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to search items")

		return res, fmt.Errorf("failed to search items: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, ownerID, id string, req dto.UpdateItemRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".item.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateItemRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	item, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get item")

		return fmt.Errorf("failed to get item: %w", err)
	}

	if item.ID == constant.Empty {
		return failure.NotFound("item not found") //nolint:wrapcheck
	}

	if item.OwnerID != ownerID {
		return failure.Forbidden("only the owner can modify an item") //nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, ownerID)
	if err := s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update item")

		return fmt.Errorf("failed to update item: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetItem, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete item from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllItem)
		shared.InvalidateCaches(c, s.cache, cacheCountItem)
	}()

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, ownerID, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".item.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	item, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get item")

		return fmt.Errorf("failed to get item: %w", err)
	}

	if item.ID == constant.Empty {
		return failure.NotFound("item not found") //nolint:wrapcheck
	}

	if item.OwnerID != ownerID {
		return failure.Forbidden("only the owner can delete an item") //nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete item")

		return fmt.Errorf("failed to delete item: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetItem, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete item from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllItem)
		shared.InvalidateCaches(c, s.cache, cacheCountItem)
	}()

	return nil
}
