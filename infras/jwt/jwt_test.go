package jwt_test

import (
	"testing"

	"resort/config"
	"resort/infras/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfig(accessMin int) *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "resort"
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = accessMin
	cfg.JWT.RefreshExpireMin = 60

	return cfg
}

func TestJWT_GenerateAndValidate(t *testing.T) {
	service := jwt.New(newConfig(15))
	subject := jwt.Subject{UserID: "user-1", Email: "front.desk@resort.test", Role: "staff"}

	pair, err := service.GenerateTokenPair(subject)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	claims, err := service.ValidateToken(pair.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, subject, claims.Subject())
	assert.Equal(t, "resort", claims.Issuer)

	_, err = service.ValidateToken(pair.AccessToken, jwt.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	_, err = service.ValidateToken("not-a-token", jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestJWT_ExpiredToken(t *testing.T) {
	service := jwt.New(newConfig(-1))

	pair, err := service.GenerateTokenPair(jwt.Subject{UserID: "user-1"})
	require.NoError(t, err)

	_, err = service.ValidateToken(pair.AccessToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)
}

func TestJWT_RefreshTokens(t *testing.T) {
	service := jwt.New(newConfig(15))

	pair, err := service.GenerateTokenPair(jwt.Subject{UserID: "user-1", Role: "user"})
	require.NoError(t, err)

	refreshed, err := service.RefreshTokens(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := service.ValidateToken(refreshed.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)

	_, err = service.RefreshTokens(pair.AccessToken)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "bearer", header: "Bearer abc.def", want: "abc.def"},
		{name: "empty", header: "", wantErr: jwt.ErrMissingHeader},
		{name: "basic scheme", header: "Basic Zm9vOmJhcg==", wantErr: jwt.ErrInvalidScheme},
		{name: "bearer without token", header: "Bearer ", wantErr: jwt.ErrInvalidScheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := jwt.ExtractTokenFromHeader(tt.header)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, got)
		})
	}
}
