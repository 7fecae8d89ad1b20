package service

import (
	"context"
	"fmt"

	"gearshare/config"
	"gearshare/infras/otel"
	itemModel "gearshare/internal/domains/item/model"
	itemDto "gearshare/internal/domains/item/model/dto"
	itemRepo "gearshare/internal/domains/item/repository"
	"gearshare/internal/domains/request/model"
	"gearshare/internal/domains/request/model/dto"
	"gearshare/internal/domains/request/repository"
	userModel "gearshare/internal/domains/user/model"
	userRepo "gearshare/internal/domains/user/repository"
	"gearshare/shared"
	"gearshare/shared/cache"
	"gearshare/shared/constant"
	gDto "gearshare/shared/dto"
	"gearshare/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllRequest = "request:gets"
	cacheCountRequest  = "request:count"
)

type Request interface {
	Create(ctx context.Context, requesterID string, req dto.CreateRequestRequest) error
	ListOwn(ctx context.Context, requesterID string) (dto.GetRequestsResponse, error)
	ListOthers(ctx context.Context, viewerID string, from, size int) (dto.GetRequestsResponse, error)
	Get(ctx context.Context, viewerID, id string) (dto.RequestResponse, error)
}

type serviceImpl struct {
	repo     repository.Request
	userRepo userRepo.User
	itemRepo itemRepo.Item
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(
	repo repository.Request,
	userRepo userRepo.User,
	itemRepo itemRepo.Item,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Request {
	return &serviceImpl{
		repo:     repo,
		userRepo: userRepo,
		itemRepo: itemRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, requesterID string, req dto.CreateRequestRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".request.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.requireUser(ctx, requesterID); err != nil {
		return err
	}

	if err = s.repo.Insert(ctx, req.ToModel(requesterID)); err != nil {
		log.Error().Err(err).Msg("failed to create request")

		return fmt.Errorf("failed to create request: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllRequest)
		shared.InvalidateCaches(c, s.cache, cacheCountRequest)
	}()

	return nil
}

func (s *serviceImpl) ListOwn(ctx context.Context, requesterID string) (res dto.GetRequestsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".request.ListOwn")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.requireUser(ctx, requesterID); err != nil {
		return res, err
	}

	filter := shared.FilterByID(requesterID, model.FieldRequesterID, model.TableName)

	models, err := s.repo.GetAll(ctx, gDto.QueryParams{
		SortBy:  model.TableName + "." + constant.FieldCreatedAt,
		SortDir: gDto.SortDirDesc,
	}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get requests")

		return res, fmt.Errorf("failed to get requests: %w", err)
	}

	res.FromModels(models, len(models), 0)

	if err = s.attachItems(ctx, &res); err != nil {
		return res, err
	}

	return res, nil
}

func (s *serviceImpl) ListOthers(ctx context.Context, viewerID string, from, size int) (res dto.GetRequestsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".request.ListOthers")
	defer scope.End()
	defer scope.TraceIfError(err)

	if size <= 0 {
		return res, failure.BadRequestFromString("size must be positive") //nolint:wrapcheck
	}

	if from < 0 {
		return res, failure.BadRequestFromString("from must be non-negative") //nolint:wrapcheck
	}

	if err = s.requireUser(ctx, viewerID); err != nil {
		return res, err
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRequesterID,
				Operator: gDto.FilterOperatorNotEq,
				Value:    viewerID,
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{
		SortBy:  model.TableName + "." + constant.FieldCreatedAt,
		SortDir: gDto.SortDirDesc,
	}
	params.FromOffset(from, size)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRequest, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for requests")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count requests")

		return res, fmt.Errorf("failed to count requests: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get requests")

		return res, fmt.Errorf("failed to get requests: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	if err = s.attachItems(ctx, &res); err != nil {
		return res, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save requests to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, viewerID, id string) (res dto.RequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".request.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.requireUser(ctx, viewerID); err != nil {
		return res, err
	}

	request, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get request")

		return res, fmt.Errorf("failed to get request: %w", err)
	}

	if request.ID == constant.Empty {
		return res, failure.NotFound("request not found") //nolint:wrapcheck
	}

	res.FromModel(request)

	items, err := s.itemRepo.GetAll(ctx, gDto.QueryParams{}, shared.FilterByID(id, itemModel.FieldRequestID, itemModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get items for request")

		return res, fmt.Errorf("failed to get items for request: %w", err)
	}

	res.Items = itemResponses(items)

	return res, nil
}

// attachItems resolves the items answering each request with one IN query.
func (s *serviceImpl) attachItems(ctx context.Context, res *dto.GetRequestsResponse) error {
	if len(res.Requests) == 0 {
		return nil
	}

	ids := make([]string, len(res.Requests))
	for i, request := range res.Requests {
		ids[i] = request.ID
	}

	items, err := s.itemRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    itemModel.FieldRequestID,
				Operator: gDto.FilterOperatorIn,
				Value:    ids,
				Table:    itemModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get items for requests")

		return fmt.Errorf("failed to get items for requests: %w", err)
	}

	byRequest := map[string][]itemModel.Item{}

	for _, item := range items {
		if item.RequestID == nil {
			continue
		}

		byRequest[*item.RequestID] = append(byRequest[*item.RequestID], item)
	}

	for i := range res.Requests {
		res.Requests[i].Items = itemResponses(byRequest[res.Requests[i].ID])
	}

	return nil
}

func itemResponses(items []itemModel.Item) []itemDto.ItemResponse {
	responses := make([]itemDto.ItemResponse, len(items))
	for i, item := range items {
		responses[i].FromModel(item)
	}

	return responses
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
