package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"gearshare/config"
	"gearshare/infras/otel/mocks"
	commentMocks "gearshare/internal/domains/comment/mocks"
	commentModel "gearshare/internal/domains/comment/model"
	itemMocks "gearshare/internal/domains/item/mocks"
	"gearshare/internal/domains/item/model"
	"gearshare/internal/domains/item/model/dto"
	"gearshare/internal/domains/item/service"
	reservationMocks "gearshare/internal/domains/reservation/mocks"
	resModel "gearshare/internal/domains/reservation/model"
	cacheMocks "gearshare/shared/cache/mocks"
	"gearshare/shared/clock"
	gDto "gearshare/shared/dto"
	"gearshare/shared/failure"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	repo        *itemMocks.MockItem
	commentRepo *commentMocks.MockComment
	resRepo     *reservationMocks.MockReservation
	cache       *cacheMocks.MockRedisCache
	svc         service.Item
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:        itemMocks.NewMockItem(ctrl),
		commentRepo: commentMocks.NewMockComment(ctrl),
		resRepo:     reservationMocks.NewMockReservation(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
	}

	// Cache invalidation runs in a goroutine after the write commits.
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(
		f.repo,
		f.commentRepo,
		f.resRepo,
		&config.Config{},
		f.cache,
		clock.Fixed(now),
		mocks.NewOtel(),
	)

	return f
}

func ownedItem() model.Item {
	return model.Item{
		ID:          "item-1",
		OwnerID:     "owner-1",
		Name:        "Cordless Drill",
		Description: "18V with two batteries",
		Available:   true,
	}
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func TestItemService_Create(t *testing.T) {
	req := dto.CreateItemRequest{
		Name:        "Cordless Drill",
		Description: "18V with two batteries",
		Available:   boolPtr(true),
	}

	t.Run("successful creation", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, f.svc.Create(context.Background(), "owner-1", req))
	})

	t.Run("insert fails", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		assert.Error(t, f.svc.Create(context.Background(), "owner-1", req))
	})
}

func TestItemService_Get(t *testing.T) {
	comments := []commentModel.Comment{
		{ID: "comment-1", ItemID: "item-1", AuthorID: "requester-1", Text: "Great drill"},
	}

	t.Run("item not found", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Item{}, nil)

		_, err := f.svc.Get(context.Background(), "viewer-1", "missing")

		assert.Error(t, err)
		assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
	})

	t.Run("non-owner sees comments but no schedule", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownedItem(), nil)
		f.commentRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(comments, nil)

		res, err := f.svc.Get(context.Background(), "viewer-1", "item-1")

		assert.NoError(t, err)
		assert.Equal(t, "item-1", res.ID)
		assert.Len(t, res.Comments, 1)
		assert.Nil(t, res.LastReservation)
		assert.Nil(t, res.NextReservation)
	})

	t.Run("owner sees last and next reservation", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownedItem(), nil)
		f.commentRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		past := resModel.Reservation{
			ID:        "reservation-past",
			StartTime: now.Add(-48 * time.Hour),
			EndTime:   now.Add(-24 * time.Hour),
			Status:    resModel.StatusApproved,
		}
		future := resModel.Reservation{
			ID:        "reservation-future",
			StartTime: now.Add(24 * time.Hour),
			EndTime:   now.Add(48 * time.Hour),
			Status:    resModel.StatusApproved,
		}

		gomock.InOrder(
			f.resRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]resModel.Reservation{past}, nil),
			f.resRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]resModel.Reservation{future}, nil),
		)

		res, err := f.svc.Get(context.Background(), "owner-1", "item-1")

		assert.NoError(t, err)
		assert.NotNil(t, res.LastReservation)
		assert.Equal(t, "reservation-past", res.LastReservation.ID)
		assert.NotNil(t, res.NextReservation)
		assert.Equal(t, "reservation-future", res.NextReservation.ID)
	})
}

func TestItemService_GetAll(t *testing.T) {
	params := gDto.QueryParams{Page: 1, Limit: 10}

	t.Run("cache miss hits the database", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Item{ownedItem()}, nil)

		res, err := f.svc.GetAll(context.Background(), "owner-1", params)

		assert.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
		assert.Len(t, res.Items, 1)
	})

	t.Run("cache hit skips the database", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.GetAll(context.Background(), "owner-1", params)

		assert.NoError(t, err)
	})
}

func TestItemService_Search(t *testing.T) {
	params := gDto.QueryParams{Page: 1, Limit: 10}

	t.Run("blank text returns empty page without querying", func(t *testing.T) {
		f := newFixture(t)

		res, err := f.svc.Search(context.Background(), "   ", params)

		assert.NoError(t, err)
		assert.Zero(t, res.TotalData)
		assert.Empty(t, res.Items)
	})

	t.Run("matching text returns items", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Item{ownedItem()}, nil)

		res, err := f.svc.Search(context.Background(), "drill", params)

		assert.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
		assert.Len(t, res.Items, 1)
	})
}

func TestItemService_Update(t *testing.T) {
	req := dto.UpdateItemRequest{Name: strPtr("Impact Driver")}

	tests := []struct {
		name      string
		ownerID   string
		req       dto.UpdateItemRequest
		setupMock func(f *fixture)
		wantKind  string
	}{
		{
			name:    "successful update",
			ownerID: "owner-1",
			req:     req,
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownedItem(), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:      "empty request is rejected",
			ownerID:   "owner-1",
			req:       dto.UpdateItemRequest{},
			setupMock: func(*fixture) {},
			wantKind:  failure.KindBadRequest,
		},
		{
			name:    "item not found",
			ownerID: "owner-1",
			req:     req,
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Item{}, nil)
			},
			wantKind: failure.KindNotFound,
		},
		{
			name:    "non-owner is forbidden",
			ownerID: "somebody-else",
			req:     req,
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownedItem(), nil)
			},
			wantKind: failure.KindForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Update(context.Background(), tt.ownerID, "item-1", tt.req)

			if tt.wantKind != "" {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestItemService_Delete(t *testing.T) {
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
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownedItem(), nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:    "item not found",
			ownerID: "owner-1",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Item{}, nil)
			},
			wantKind: failure.KindNotFound,
		},
		{
			name:    "non-owner is forbidden",
			ownerID: "somebody-else",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(ownedItem(), nil)
			},
			wantKind: failure.KindForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Delete(context.Background(), tt.ownerID, "item-1")

			if tt.wantKind != "" {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
