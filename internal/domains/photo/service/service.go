package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"gearshare/config"
	"gearshare/infras/otel"
	"gearshare/infras/s3"
	itemModel "gearshare/internal/domains/item/model"
	itemRepo "gearshare/internal/domains/item/repository"
	"gearshare/internal/domains/photo/model"
	"gearshare/internal/domains/photo/model/dto"
	"gearshare/internal/domains/photo/repository"
	"gearshare/shared"
	sharedBase64 "gearshare/shared/base64"
	"gearshare/shared/cache"
	"gearshare/shared/constant"
	gDto "gearshare/shared/dto"
	"gearshare/shared/failure"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllPhoto = "photo:gets"

	base64Marker = ";base64,"
)

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpg":  ".jpg",
	"image/jpeg": ".jpg",
}

type Photo interface {
	Upload(ctx context.Context, ownerID, itemID string, req dto.UploadPhotoRequest) (dto.PhotoResponse, error)
	ListByItem(ctx context.Context, itemID string) (dto.GetPhotosResponse, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type serviceImpl struct {
	repo     repository.Photo
	itemRepo itemRepo.Item
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
	s3       s3.S3
}

func New(
	repo repository.Photo,
	itemRepo itemRepo.Item,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	s3 s3.S3,
) Photo {
	return &serviceImpl{
		repo:     repo,
		itemRepo: itemRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
		s3:       s3,
	}
}

func (s *serviceImpl) Upload(ctx context.Context, ownerID, itemID string, req dto.UploadPhotoRequest) (res dto.PhotoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".photo.Upload")
	defer scope.End()
	defer scope.TraceIfError(err)

	item, err := s.itemRepo.Get(ctx, shared.FilterByID(itemID, itemModel.FieldID, itemModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get item")

		return res, fmt.Errorf("failed to get item: %w", err)
	}

	if item.ID == constant.Empty {
		return res, failure.NotFound("item not found") //nolint:wrapcheck
	}

	if item.OwnerID != ownerID {
		return res, failure.Forbidden("only the item owner can manage photos") //nolint:wrapcheck
	}

	contentType := sharedBase64.GetContentType(req.Image)

	data, err := decodePayload(req.Image)
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	fileName := uuid.NewString() + extensions[contentType]

	url, err := s.s3.UploadFileBytes(ctx, s.cfg.External.S3.BucketName, model.EntityName, fileName, contentType, data)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload photo to S3")

		return res, fmt.Errorf("failed to upload photo to S3: %w", err)
	}

	photo := dto.NewPhoto(itemID, url, contentType, ownerID)

	if err = s.repo.Insert(ctx, photo); err != nil {
		log.Error().Err(err).Msg("failed to save photo")

		return res, fmt.Errorf("failed to save photo: %w", err)
	}

	res.FromModel(photo)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllPhoto)
	}()

	return res, nil
}

func (s *serviceImpl) ListByItem(ctx context.Context, itemID string) (res dto.GetPhotosResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".photo.ListByItem")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetAllPhoto, itemID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for photos")

		return res, nil
	}

	photos, err := s.repo.GetAll(ctx, gDto.QueryParams{
		SortBy:  model.TableName + "." + constant.FieldCreatedAt,
		SortDir: gDto.SortDirAsc,
	}, shared.FilterByID(itemID, model.FieldItemID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get photos")

		return res, fmt.Errorf("failed to get photos: %w", err)
	}

	res.FromModels(photos)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save photos to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, ownerID, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".photo.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	photo, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get photo")

		return fmt.Errorf("failed to get photo: %w", err)
	}

	if photo.ID == constant.Empty {
		return failure.NotFound("photo not found") //nolint:wrapcheck
	}

	item, err := s.itemRepo.Get(ctx, shared.FilterByID(photo.ItemID, itemModel.FieldID, itemModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get item")

		return fmt.Errorf("failed to get item: %w", err)
	}

	if item.OwnerID != ownerID {
		return failure.Forbidden("only the item owner can manage photos") //nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete photo")

		return fmt.Errorf("failed to delete photo: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllPhoto)

		bucketName := s.cfg.External.S3.BucketName

		objectName := s.s3.GetObjectNameFromURL(bucketName, photo.URL)
		if objectName == constant.Empty {
			log.Warn().Str("url", photo.URL).Msg("failed to extract object name from URL")

			return
		}

		if err := s.s3.DeleteFile(c, bucketName, model.EntityName, objectName); err != nil {
			log.Error().Err(err).Str("objectName", objectName).Msg("failed to delete photo from S3")
		}
	}()

	return nil
}

func decodePayload(image string) ([]byte, error) {
	idx := strings.Index(image, base64Marker)
	if idx == -1 {
		return nil, fmt.Errorf("image is not a base64 data URI")
	}

	data, err := base64.StdEncoding.DecodeString(image[idx+len(base64Marker):])
	if err != nil {
		return nil, fmt.Errorf("failed to decode image payload: %w", err)
	}

	return data, nil
}
