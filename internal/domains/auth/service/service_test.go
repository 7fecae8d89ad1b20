package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"gearshare/config"
	"gearshare/infras/jwt"
	jwtMocks "gearshare/infras/jwt/mocks"
	"gearshare/infras/otel/mocks"
	"gearshare/internal/domains/auth/model/dto"
	"gearshare/internal/domains/auth/service"
	userMocks "gearshare/internal/domains/user/mocks"
	userModel "gearshare/internal/domains/user/model"
	"gearshare/shared/constant"
	"gearshare/shared/failure"
)

// bcrypt of "password"
const hashedPassword = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

func activeUser() userModel.User {
	return userModel.User{
		ID:       "user-1",
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: hashedPassword,
		Level:    constant.RoleUser,
		Active:   true,
	}
}

func newService(t *testing.T) (service.Auth, *userMocks.MockUser, *jwtMocks.MockJWT) {
	t.Helper()

	ctrl := gomock.NewController(t)
	userRepo := userMocks.NewMockUser(ctrl)
	jwtService := jwtMocks.NewMockJWT(ctrl)
	svc := service.New(userRepo, &config.Config{}, mocks.NewOtel(), jwtService)

	return svc, userRepo, jwtService
}

func TestAuthService_Register(t *testing.T) {
	req := dto.RegisterRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "password",
	}

	tests := []struct {
		name      string
		setupMock func(userRepo *userMocks.MockUser)
		wantErr   bool
		wantKind  string
	}{
		{
			name: "successful registration",
			setupMock: func(userRepo *userMocks.MockUser) {
				userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				userRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "email already registered",
			setupMock: func(userRepo *userMocks.MockUser) {
				userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr:  true,
			wantKind: failure.KindConflict,
		},
		{
			name: "existence check fails",
			setupMock: func(userRepo *userMocks.MockUser) {
				userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))
			},
			wantErr: true,
		},
		{
			name: "insert fails",
			setupMock: func(userRepo *userMocks.MockUser) {
				userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				userRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, userRepo, _ := newService(t)
			tt.setupMock(userRepo)

			err := svc.Register(context.Background(), req)

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

func TestAuthService_Login(t *testing.T) {
	req := dto.LoginRequest{
		Email:    "ada@example.com",
		Password: "password",
	}

	tests := []struct {
		name      string
		setupMock func(userRepo *userMocks.MockUser, jwtService *jwtMocks.MockJWT)
		wantErr   bool
	}{
		{
			name: "successful login",
			setupMock: func(userRepo *userMocks.MockUser, jwtService *jwtMocks.MockJWT) {
				userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeUser(), nil)
				jwtService.EXPECT().
					GenerateTokenPair("user-1", "ada@example.com", constant.RoleUser).
					Return(&jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil)
			},
		},
		{
			name: "unknown email",
			setupMock: func(userRepo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantErr: true,
		},
		{
			name: "wrong password",
			setupMock: func(userRepo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				user := activeUser()
				user.Password = "$2a$10$0000000000000000000000000000000000000000000000000000"

				userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
			},
			wantErr: true,
		},
		{
			name: "deactivated account",
			setupMock: func(userRepo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				user := activeUser()
				user.Active = false

				userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
			},
			wantErr: true,
		},
		{
			name: "token generation fails",
			setupMock: func(userRepo *userMocks.MockUser, jwtService *jwtMocks.MockJWT) {
				userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeUser(), nil)
				jwtService.EXPECT().
					GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("signing error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, userRepo, jwtService := newService(t)
			tt.setupMock(userRepo, jwtService)

			res, err := svc.Login(context.Background(), req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "access", res.AccessToken)
				assert.Equal(t, "refresh", res.RefreshToken)
			}
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(jwtService *jwtMocks.MockJWT)
		wantErr   bool
		wantKind  string
	}{
		{
			name: "successful refresh",
			setupMock: func(jwtService *jwtMocks.MockJWT) {
				jwtService.EXPECT().
					RefreshTokens("old-refresh").
					Return(&jwt.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil)
			},
		},
		{
			name: "invalid refresh token",
			setupMock: func(jwtService *jwtMocks.MockJWT) {
				jwtService.EXPECT().RefreshTokens("old-refresh").Return(nil, errors.New("token expired"))
			},
			wantErr:  true,
			wantKind: failure.KindUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, jwtService := newService(t)
			tt.setupMock(jwtService)

			res, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "old-refresh"})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "new-access", res.AccessToken)
			}
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	req := dto.ChangePasswordRequest{
		CurrentPassword: "password",
		NewPassword:     "stronger-password",
	}

	tests := []struct {
		name      string
		setupMock func(userRepo *userMocks.MockUser)
		wantErr   bool
		wantKind  string
	}{
		{
			name: "successful change",
			setupMock: func(userRepo *userMocks.MockUser) {
				userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeUser(), nil)
				userRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "user not found",
			setupMock: func(userRepo *userMocks.MockUser) {
				userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
		{
			name: "wrong current password",
			setupMock: func(userRepo *userMocks.MockUser) {
				user := activeUser()
				user.Password = "$2a$10$0000000000000000000000000000000000000000000000000000"

				userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
			},
			wantErr:  true,
			wantKind: failure.KindBadRequest,
		},
		{
			name: "update fails",
			setupMock: func(userRepo *userMocks.MockUser) {
				userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeUser(), nil)
				userRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, userRepo, _ := newService(t)
			tt.setupMock(userRepo)

			err := svc.ChangePassword(context.Background(), req, "user-1")

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
