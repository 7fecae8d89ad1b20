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
	"gearshare/internal/domains/comment/model"
	"gearshare/internal/domains/comment/model/dto"
	"gearshare/internal/domains/comment/service"
	itemMocks "gearshare/internal/domains/item/mocks"
	reservationMocks "gearshare/internal/domains/reservation/mocks"
	userMocks "gearshare/internal/domains/user/mocks"
	userModel "gearshare/internal/domains/user/model"
	cacheMocks "gearshare/shared/cache/mocks"
	"gearshare/shared/clock"
	"gearshare/shared/failure"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	repo     *commentMocks.MockComment
	userRepo *userMocks.MockUser
	itemRepo *itemMocks.MockItem
	resRepo  *reservationMocks.MockReservation
	cache    *cacheMocks.MockRedisCache
	svc      service.Comment
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:     commentMocks.NewMockComment(ctrl),
		userRepo: userMocks.NewMockUser(ctrl),
		itemRepo: itemMocks.NewMockItem(ctrl),
		resRepo:  reservationMocks.NewMockReservation(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
	}

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(
		f.repo,
		f.userRepo,
		f.itemRepo,
		f.resRepo,
		&config.Config{},
		f.cache,
		clock.Fixed(now),
		mocks.NewOtel(),
	)

	return f
}

func TestCommentService_Create(t *testing.T) {
	author := userModel.User{ID: "requester-1", Name: "Ada"}
	req := dto.CreateCommentRequest{Text: "Great drill, smooth pickup"}

	tests := []struct {
		name      string
		setupMock func(f *fixture)
		wantErr   bool
		wantKind  string
	}{
		{
			name: "renter with started approved reservation can comment",
			setupMock: func(f *fixture) {
				f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(author, nil)
				f.itemRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.resRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "author not found",
			setupMock: func(f *fixture) {
				f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantKind: failure.KindNotFound,
		},
		{
			name: "item not found",
			setupMock: func(f *fixture) {
				f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(author, nil)
				f.itemRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantKind: failure.KindNotFound,
		},
		{
			name: "no started approved reservation",
			setupMock: func(f *fixture) {
				f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(author, nil)
				f.itemRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.resRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantKind: failure.KindBadRequest,
		},
		{
			name: "insert fails",
			setupMock: func(f *fixture) {
				f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(author, nil)
				f.itemRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.resRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(context.Background(), "requester-1", "item-1", req)

			switch {
			case tt.wantKind != "":
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			case tt.wantErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
				assert.Equal(t, "Great drill, smooth pickup", res.Text)
				assert.Equal(t, "Ada", res.AuthorName)
			}
		})
	}
}

func TestCommentService_ListByItem(t *testing.T) {
	t.Run("cache miss hits the database", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Comment{
			{ID: "comment-1", ItemID: "item-1", AuthorID: "requester-1", Text: "Great drill"},
		}, nil)

		res, err := f.svc.ListByItem(context.Background(), "item-1")

		assert.NoError(t, err)
		assert.Len(t, res.Comments, 1)
	})

	t.Run("cache hit skips the database", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.ListByItem(context.Background(), "item-1")

		assert.NoError(t, err)
	})

	t.Run("repository failure propagates", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

		_, err := f.svc.ListByItem(context.Background(), "item-1")

		assert.Error(t, err)
	})
}
