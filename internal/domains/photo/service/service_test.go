package service_test

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"gearshare/config"
	"gearshare/infras/otel/mocks"
	s3Mocks "gearshare/infras/s3/mocks"
	itemMocks "gearshare/internal/domains/item/mocks"
	itemModel "gearshare/internal/domains/item/model"
	photoMocks "gearshare/internal/domains/photo/mocks"
	"gearshare/internal/domains/photo/model"
	"gearshare/internal/domains/photo/model/dto"
	"gearshare/internal/domains/photo/service"
	cacheMocks "gearshare/shared/cache/mocks"
	"gearshare/shared/failure"
)

type fixture struct {
	repo     *photoMocks.MockPhoto
	itemRepo *itemMocks.MockItem
	cache    *cacheMocks.MockRedisCache
	s3       *s3Mocks.MockS3
	svc      service.Photo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:     photoMocks.NewMockPhoto(ctrl),
		itemRepo: itemMocks.NewMockItem(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
		s3:       s3Mocks.NewMockS3(ctrl),
	}

	// Cache invalidation and the S3 object delete run in a goroutine.
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.s3.EXPECT().GetObjectNameFromURL(gomock.Any(), gomock.Any()).Return("photo.png").AnyTimes()
	f.s3.EXPECT().DeleteFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.repo, f.itemRepo, &config.Config{}, f.cache, mocks.NewOtel(), f.s3)

	return f
}

func ownedItem() itemModel.Item {
	return itemModel.Item{ID: "item-1", OwnerID: "owner-1", Name: "Cordless Drill"}
}

func pngDataURI() string {
	payload := base64.StdEncoding.EncodeToString([]byte("fake png bytes"))

	return "data:image/png;base64," + payload
}

func TestPhotoService_Upload(t *testing.T) {
	tests := []struct {
		name      string
		ownerID   string
		image     string
		setupMock func(f *fixture)
		wantKind  string
	}{
		{
			name:    "successful upload",
			ownerID: "owner-1",
			image:   pngDataURI(),
			setupMock: func(f *fixture) {
				f.itemRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownedItem(), nil)
				f.s3.EXPECT().
					UploadFileBytes(gomock.Any(), gomock.Any(), model.EntityName, gomock.Any(), "image/png", []byte("fake png bytes")).
					Return("https://cdn.example.com/photo/photo.png", nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:    "item not found",
			ownerID: "owner-1",
			image:   pngDataURI(),
			setupMock: func(f *fixture) {
				f.itemRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(itemModel.Item{}, nil)
			},
			wantKind: failure.KindNotFound,
		},
		{
			name:    "non-owner is forbidden",
			ownerID: "somebody-else",
			image:   pngDataURI(),
			setupMock: func(f *fixture) {
				f.itemRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownedItem(), nil)
			},
			wantKind: failure.KindForbidden,
		},
		{
			name:    "malformed payload is rejected",
			ownerID: "owner-1",
			image:   "not a data uri",
			setupMock: func(f *fixture) {
				f.itemRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownedItem(), nil)
			},
			wantKind: failure.KindBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Upload(context.Background(), tt.ownerID, "item-1", dto.UploadPhotoRequest{Image: tt.image})

			if tt.wantKind != "" {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "https://cdn.example.com/photo/photo.png", res.URL)
				assert.Equal(t, "image/png", res.ContentType)
			}
		})
	}
}

func TestPhotoService_ListByItem(t *testing.T) {
	t.Run("cache miss hits the database", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Photo{
			{ID: "photo-1", ItemID: "item-1", URL: "https://cdn.example.com/photo/photo.png"},
		}, nil)

		res, err := f.svc.ListByItem(context.Background(), "item-1")

		assert.NoError(t, err)
		assert.Len(t, res.Photos, 1)
	})

	t.Run("cache hit skips the database", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.ListByItem(context.Background(), "item-1")

		assert.NoError(t, err)
	})
}

func TestPhotoService_Delete(t *testing.T) {
	photo := model.Photo{ID: "photo-1", ItemID: "item-1", URL: "https://cdn.example.com/photo/photo.png"}

	tests := []struct {
		name      string
		ownerID   string
		setupMock func(f *fixture)
		wantKind  string
	}{
		{
			name:    "successful delete",
			ownerID: "owner-1",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(photo, nil)
				f.itemRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownedItem(), nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:    "photo not found",
			ownerID: "owner-1",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Photo{}, nil)
			},
			wantKind: failure.KindNotFound,
		},
		{
			name:    "non-owner is forbidden",
			ownerID: "somebody-else",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(photo, nil)
				f.itemRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownedItem(), nil)
			},
			wantKind: failure.KindForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Delete(context.Background(), tt.ownerID, "photo-1")

			if tt.wantKind != "" {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
