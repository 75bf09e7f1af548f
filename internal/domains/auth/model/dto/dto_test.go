package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resort/infras/jwt"
	"resort/internal/domains/auth/model/dto"
	"resort/shared/constant"
)

func TestRegisterRequest_ToUserModel(t *testing.T) {
	name := "Ayu Lestari"
	req := dto.RegisterRequest{Email: "ayu@resort.test", Password: "plain-secret1", FullName: &name}

	user := req.ToUserModel(constant.ContextGuest, "hashed")

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "hashed", user.Password)
	assert.Equal(t, constant.RoleUser, user.Level)
	assert.True(t, user.Active)
	assert.Equal(t, &name, user.FullName)
	assert.Equal(t, constant.ContextGuest, user.CreatedBy)
}

func TestLoginResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}

	var response dto.LoginResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
	assert.Equal(t, "Bearer", response.TokenType)
	assert.Equal(t, int64(900), response.ExpiresIn)
}
