package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"gearshare/infras/otel"
	"gearshare/infras/postgres"
	"gearshare/internal/domains/photo/model"
	gDto "gearshare/shared/dto"
	gRepo "gearshare/shared/repository"
)

type Photo interface {
	Insert(ctx context.Context, model model.Photo) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Photo, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Photo, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Photo]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Photo {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Photo](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
