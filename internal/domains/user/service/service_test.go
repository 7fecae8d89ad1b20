package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"gearshare/config"
	"gearshare/infras/otel/mocks"
	userMocks "gearshare/internal/domains/user/mocks"
	"gearshare/internal/domains/user/model"
	"gearshare/internal/domains/user/model/dto"
	"gearshare/internal/domains/user/service"
	cacheMocks "gearshare/shared/cache/mocks"
	gDto "gearshare/shared/dto"
	"gearshare/shared/failure"
)

type fixture struct {
	repo  *userMocks.MockUser
	cache *cacheMocks.MockRedisCache
	svc   service.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:  userMocks.NewMockUser(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.repo, &config.Config{}, f.cache, mocks.NewOtel())

	return f
}

func strPtr(s string) *string { return &s }

func TestUserService_Create(t *testing.T) {
	req := dto.CreateUserRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "password123",
	}

	tests := []struct {
		name      string
		setupMock func(f *fixture)
		wantErr   bool
		wantKind  string
	}{
		{
			name: "successful creation",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "email already registered",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr:  true,
			wantKind: failure.KindConflict,
		},
		{
			name: "insert fails",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Create(context.Background(), req)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantKind != "" {
					assert.Equal(t, tt.wantKind, failure.GetKind(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserService_Get(t *testing.T) {
	t.Run("cache miss hits the database", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "user-1", Name: "Ada"}, nil)

		res, err := f.svc.Get(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Equal(t, "user-1", res.ID)
	})

	t.Run("cache hit skips the database", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.Get(context.Background(), "user-1")

		assert.NoError(t, err)
	})

	t.Run("user not found", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)

		_, err := f.svc.Get(context.Background(), "missing")

		assert.Error(t, err)
		assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
	})
}

func TestUserService_GetAll(t *testing.T) {
	params := gDto.QueryParams{Page: 1, Limit: 10}

	t.Run("cache miss hits the database", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.User{{ID: "user-1"}}, nil)

		res, err := f.svc.GetAll(context.Background(), params, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
		assert.Len(t, res.Users, 1)
	})

	t.Run("cache hit skips the database", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.GetAll(context.Background(), params, gDto.FilterGroup{})

		assert.NoError(t, err)
	})
}

func TestUserService_Update(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.UpdateUserRequest
		setupMock func(f *fixture)
		wantKind  string
	}{
		{
			name: "successful update",
			req:  dto.UpdateUserRequest{Name: strPtr("Ada L")},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:      "empty request is rejected",
			req:       dto.UpdateUserRequest{},
			setupMock: func(*fixture) {},
			wantKind:  failure.KindBadRequest,
		},
		{
			name: "user not found",
			req:  dto.UpdateUserRequest{Name: strPtr("Ada L")},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantKind: failure.KindNotFound,
		},
		{
			name: "patched email taken by another user",
			req:  dto.UpdateUserRequest{Email: strPtr("taken@example.com")},
			setupMock: func(f *fixture) {
				gomock.InOrder(
					f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil),
					f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil),
				)
			},
			wantKind: failure.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Update(context.Background(), tt.req, "user-1")

			if tt.wantKind != "" {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserService_Delete(t *testing.T) {
	t.Run("successful delete", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, f.svc.Delete(context.Background(), "user-1"))
	})

	t.Run("user not found", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := f.svc.Delete(context.Background(), "missing")

		assert.Error(t, err)
		assert.Equal(t, failure.KindNotFound, failure.GetKind(err))
	})
}
