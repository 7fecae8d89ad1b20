package service

import (
	"context"
	"fmt"

	"gearshare/config"
	"gearshare/infras/otel"
	"gearshare/internal/domains/comment/model"
	"gearshare/internal/domains/comment/model/dto"
	"gearshare/internal/domains/comment/repository"
	itemModel "gearshare/internal/domains/item/model"
	itemRepo "gearshare/internal/domains/item/repository"
	resModel "gearshare/internal/domains/reservation/model"
	resRepo "gearshare/internal/domains/reservation/repository"
	userModel "gearshare/internal/domains/user/model"
	userRepo "gearshare/internal/domains/user/repository"
	"gearshare/shared"
	"gearshare/shared/cache"
	"gearshare/shared/clock"
	"gearshare/shared/constant"
	gDto "gearshare/shared/dto"
	"gearshare/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllComment = "comment:gets"
)

type Comment interface {
	Create(ctx context.Context, authorID, itemID string, req dto.CreateCommentRequest) (dto.CommentResponse, error)
	ListByItem(ctx context.Context, itemID string) (dto.GetCommentsResponse, error)
}

type serviceImpl struct {
	repo     repository.Comment
	userRepo userRepo.User
	itemRepo itemRepo.Item
	resRepo  resRepo.Reservation
	cfg      *config.Config
	cache    cache.RedisCache
	clock    clock.Clock
	otel     otel.Otel
}

func New(
	repo repository.Comment,
	userRepo userRepo.User,
	itemRepo itemRepo.Item,
	resRepo resRepo.Reservation,
	cfg *config.Config,
	cache cache.RedisCache,
	clock clock.Clock,
	otel otel.Otel,
) Comment {
	return &serviceImpl{
		repo:     repo,
		userRepo: userRepo,
		itemRepo: itemRepo,
		resRepo:  resRepo,
		cfg:      cfg,
		cache:    cache,
		clock:    clock,
		otel:     otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, authorID, itemID string, req dto.CreateCommentRequest) (res dto.CommentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".comment.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	author, err := s.userRepo.Get(ctx, shared.FilterByID(authorID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if author.ID == constant.Empty {
		return res, failure.NotFound("user not found") //nolint:wrapcheck
	}

	itemExists, err := s.itemRepo.Exist(ctx, shared.FilterByID(itemID, itemModel.FieldID, itemModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if item exists")

		return res, fmt.Errorf("failed to check if item exists: %w", err)
	}

	if !itemExists {
		return res, failure.NotFound("item not found") //nolint:wrapcheck
	}

	// Only renters whose approved reservation has already started may comment.
	rented, err := s.resRepo.Exist(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    resModel.FieldItemID,
				Operator: gDto.FilterOperatorEq,
				Value:    itemID,
				Table:    resModel.TableName,
			},
			gDto.Filter{
				Field:    resModel.FieldRequesterID,
				Operator: gDto.FilterOperatorEq,
				Value:    authorID,
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
				Operator: gDto.FilterOperatorLess,
				Value:    s.clock.Now(),
				Table:    resModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check reservations of author")

		return res, fmt.Errorf("failed to check reservations of author: %w", err)
	}

	if !rented {
		return res, failure.BadRequestFromString("commenting requires an approved reservation that has already started") //nolint:wrapcheck
	}

	comment := req.ToModel(itemID, authorID)

	if err = s.repo.Insert(ctx, comment); err != nil {
		log.Error().Err(err).Msg("failed to create comment")

		return res, fmt.Errorf("failed to create comment: %w", err)
	}

	comment.AuthorName = author.Name

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllComment)
	}()

	res.FromModel(comment)

	return res, nil
}

func (s *serviceImpl) ListByItem(ctx context.Context, itemID string) (res dto.GetCommentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".comment.ListByItem")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(itemID, model.FieldItemID, model.TableName)

	cacheKey := shared.BuildCacheKey(cacheGetAllComment, itemID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for comments")

		return res, nil
	}

	models, err := s.repo.GetAll(ctx, gDto.QueryParams{
		SortBy:  model.TableName + "." + constant.FieldCreatedAt,
		SortDir: gDto.SortDirDesc,
	}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get comments")

		return res, fmt.Errorf("failed to get comments: %w", err)
	}

	res.FromModels(models)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save comments to cache")
		}
	}()

	return res, nil
}
