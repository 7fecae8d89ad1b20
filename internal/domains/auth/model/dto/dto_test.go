package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gearshare/infras/jwt"
	"gearshare/internal/domains/auth/model/dto"
	"gearshare/shared/constant"
)

func TestRegisterRequest_ToUserModel(t *testing.T) {
	req := dto.RegisterRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "plaintext",
	}

	user := req.ToUserModel("guest", "hashed-password")

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "hashed-password", user.Password)
	assert.Equal(t, constant.RoleUser, user.Level)
	assert.True(t, user.Active)
	assert.Equal(t, "guest", user.CreatedBy)
}

func TestLoginResponse_FromTokenPair(t *testing.T) {
	var res dto.LoginResponse

	res.FromTokenPair(&jwt.TokenPair{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresIn:    900,
	})

	assert.Equal(t, "access", res.AccessToken)
	assert.Equal(t, "refresh", res.RefreshToken)
	assert.Equal(t, int64(900), res.ExpiresIn)
}
