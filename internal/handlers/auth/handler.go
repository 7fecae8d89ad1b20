package auth

import (
	"net/http"

	"gearshare/infras/otel"
	"gearshare/internal/domains/auth/model/dto"
	"gearshare/internal/domains/auth/service"
	"gearshare/shared/constant"
	"gearshare/shared/failure"
	"gearshare/shared/validator"
	"gearshare/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Auth
	otel    otel.Otel
}

func New(service service.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/auth", func(routerGroup chi.Router) {
		routerGroup.Post("/register", handler.Register)
		routerGroup.Post("/login", handler.Login)
		routerGroup.Post("/refresh", handler.RefreshToken)
		routerGroup.Post("/change-password", handler.ChangePassword)
	})
}

// Register creates a new user account.
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Register Request"
// @Success 201 {object} response.Message "Account registered successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/auth/register [post]
func (handler *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Register")
	defer scope.End()

	req := dto.RegisterRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Register(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to register account")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Account registered successfully")

	response.WithMessage(w, http.StatusCreated, "Account registered successfully")
}

// Login authenticates a user and returns a token pair.
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Data[dto.LoginResponse] "Token pair"
// @Failure 400 {object} response.Error
// @Router /v1/auth/login [post]
func (handler *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Login")
	defer scope.End()

	req := dto.LoginRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Login(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to log in")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User logged in successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// RefreshToken exchanges a refresh token for a new token pair.
// @Summary Refresh tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} response.Data[dto.RefreshTokenResponse] "New token pair"
// @Failure 401 {object} response.Error
// @Router /v1/auth/refresh [post]
func (handler *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RefreshToken")
	defer scope.End()

	req := dto.RefreshTokenRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.RefreshToken(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to refresh tokens")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// ChangePassword updates the password of the authenticated user.
// @Summary Change password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Change Password Request"
// @Success 200 {object} response.Message "Password changed successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/auth/change-password [post]
// @Security BearerAuth
func (handler *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ChangePassword")
	defer scope.End()

	userID, ok := ctx.Value(constant.ContextKeyUserID).(string)
	if !ok || userID == "" {
		err := failure.Unauthorized("unauthorized")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	req := dto.ChangePasswordRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.ChangePassword(ctx, req, userID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to change password")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Password changed successfully")

	response.WithMessage(w, http.StatusOK, "Password changed successfully")
}
