package service

import (
	"context"
	"fmt"

	"gearshare/config"
	"gearshare/infras/jwt"
	"gearshare/infras/otel"
	"gearshare/internal/domains/auth/model/dto"
	userModel "gearshare/internal/domains/user/model"
	userRepo "gearshare/internal/domains/user/repository"
	"gearshare/shared"
	"gearshare/shared/constant"
	gDto "gearshare/shared/dto"
	"gearshare/shared/failure"
	"gearshare/shared/password"

	"github.com/rs/zerolog/log"
)

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) error
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) error
}

type serviceImpl struct {
	userRepo   userRepo.User
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(userRepo userRepo.User, cfg *config.Config, otel otel.Otel, jwt jwt.JWT) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		cfg:        cfg,
		otel:       otel,
		jwtService: jwt,
	}
}

func emailFilter(email string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    email,
				Table:    userModel.TableName,
			},
		},
	}
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Register")
	defer scope.End()
	defer scope.TraceIfError(err)

	exists, err := s.userRepo.Exist(ctx, emailFilter(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return failure.Conflict("email already registered") //nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err = s.userRepo.Insert(ctx, req.ToUserModel(constant.ContextGuest, hashedPassword)); err != nil {
		log.Error().Err(err).Msg("failed to create user")

		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Login")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.userRepo.Get(ctx, emailFilter(req.Email))
	if err != nil || user.ID == constant.Empty {
		log.Warn().Str("email", req.Email).Msg("login attempt with non-existent email")

		return res, failure.BadRequestFromString("invalid email or password") //nolint:wrapcheck
	}

	if err := password.Verify(req.Password, user.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, failure.BadRequestFromString("invalid email or password") //nolint:wrapcheck
	}

	if !user.Active {
		return res, failure.BadRequestFromString("user account is deactivated") //nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, user.Level)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(err)

	tokenPair, err := s.jwtService.RefreshTokens(req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		return res, failure.Unauthorized("invalid refresh token") //nolint:wrapcheck
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.ChangePassword")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(userID, userModel.FieldID, userModel.TableName)

	user, err := s.userRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return failure.NotFound("user not found") //nolint:wrapcheck
	}

	if err := password.Verify(req.CurrentPassword, user.Password); err != nil {
		return failure.BadRequestFromString("current password is incorrect") //nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	updatePassword := dto.UpdatePasswordRequest{Password: hashedPassword}
	updatedFields := shared.TransformFields(updatePassword, userID)

	if err = s.userRepo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
