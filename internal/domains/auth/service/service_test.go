package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"resort/config"
	"resort/infras/jwt"
	jwtMocks "resort/infras/jwt/mocks"
	"resort/infras/otel/mocks"
	"resort/internal/domains/auth/model/dto"
	"resort/internal/domains/auth/service"
	userMocks "resort/internal/domains/user/mocks"
	userModel "resort/internal/domains/user/model"
	"resort/shared/constant"
	"resort/shared/failure"
	gModel "resort/shared/model"
	"resort/shared/password"
	"resort/shared/timezone"
)

const plainPassword = "lagoon-view-42"

func newService(t *testing.T) (service.Auth, *userMocks.MockUser, *jwtMocks.MockJWT) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)

	return service.New(mockUserRepo, &config.Config{}, mocks.NewOtel(), mockJWT), mockUserRepo, mockJWT
}

func guest(t *testing.T) userModel.User {
	t.Helper()

	hashed, err := password.Hash(plainPassword)
	require.NoError(t, err)

	return userModel.User{
		ID:       "user-id-123",
		Email:    "test@example.com",
		Password: hashed,
		Level:    constant.RoleUser,
		FullName: stringPtr("Test User"),
		Active:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "system",
			ModifiedBy: "system",
		},
	}
}

func tokens() *jwt.TokenPair {
	return &jwt.TokenPair{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		TokenType:    "Bearer",
	}
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.RegisterRequest
		setupMock func(repo *userMocks.MockUser)
		wantCode  int
	}{
		{
			name: "successful registration",
			req:  dto.RegisterRequest{Email: "new@example.com", Password: plainPassword},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u userModel.User) error {
						assert.Equal(t, constant.RoleUser, u.Level)
						assert.NotEqual(t, plainPassword, u.Password)

						return nil
					})
			},
		},
		{
			name:      "password without digits",
			req:       dto.RegisterRequest{Email: "new@example.com", Password: "onlyletters"},
			setupMock: func(*userMocks.MockUser) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "email already registered",
			req:  dto.RegisterRequest{Email: "test@example.com", Password: plainPassword},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "lookup error",
			req:  dto.RegisterRequest{Email: "new@example.com", Password: plainPassword},
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockUserRepo, _ := newService(t)
			tt.setupMock(mockUserRepo)

			err := svc.Register(context.Background(), tt.req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func(t *testing.T, repo *userMocks.MockUser, jwtSvc *jwtMocks.MockJWT)
		wantCode  int
	}{
		{
			name: "successful login",
			req:  dto.LoginRequest{Email: "test@example.com", Password: plainPassword},
			setupMock: func(t *testing.T, repo *userMocks.MockUser, jwtSvc *jwtMocks.MockJWT) {
				user := guest(t)

				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
				jwtSvc.EXPECT().
					GenerateTokenPair(jwt.Subject{UserID: user.ID, Email: user.Email, Role: user.Level}).
					Return(tokens(), nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "user not found",
			req:  dto.LoginRequest{Email: "nonexistent@example.com", Password: plainPassword},
			setupMock: func(_ *testing.T, repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "wrongpassword1"},
			setupMock: func(t *testing.T, repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest(t), nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "inactive user",
			req:  dto.LoginRequest{Email: "test@example.com", Password: plainPassword},
			setupMock: func(t *testing.T, repo *userMocks.MockUser, _ *jwtMocks.MockJWT) {
				inactive := guest(t)
				inactive.Active = false

				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(inactive, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "token generation error",
			req:  dto.LoginRequest{Email: "test@example.com", Password: plainPassword},
			setupMock: func(t *testing.T, repo *userMocks.MockUser, jwtSvc *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest(t), nil)
				jwtSvc.EXPECT().GenerateTokenPair(gomock.Any()).Return(nil, errors.New("token generation failed"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "last login update failure does not block login",
			req:  dto.LoginRequest{Email: "test@example.com", Password: plainPassword},
			setupMock: func(t *testing.T, repo *userMocks.MockUser, jwtSvc *jwtMocks.MockJWT) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest(t), nil)
				jwtSvc.EXPECT().GenerateTokenPair(gomock.Any()).Return(tokens(), nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("update error"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockUserRepo, mockJWT := newService(t)
			tt.setupMock(t, mockUserRepo, mockJWT)

			result, err := svc.Login(context.Background(), tt.req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "access-token", result.AccessToken)
			assert.Equal(t, "refresh-token", result.RefreshToken)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	claims := &jwt.Claims{UserID: "user-id-123", Email: "test@example.com", Role: constant.RoleUser, Type: jwt.RefreshToken}

	t.Run("reissues with the current role", func(t *testing.T) {
		svc, mockUserRepo, mockJWT := newService(t)

		promoted := guest(t)
		promoted.Level = constant.RoleStaff

		mockJWT.EXPECT().ValidateToken("valid-refresh-token", jwt.RefreshToken).Return(claims, nil)
		mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(promoted, nil)
		mockJWT.EXPECT().
			GenerateTokenPair(jwt.Subject{UserID: promoted.ID, Email: promoted.Email, Role: constant.RoleStaff}).
			Return(tokens(), nil)

		result, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "valid-refresh-token"})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
	})

	t.Run("invalid refresh token", func(t *testing.T) {
		svc, _, mockJWT := newService(t)

		mockJWT.EXPECT().ValidateToken("invalid-refresh-token", jwt.RefreshToken).Return(nil, jwt.ErrInvalidToken)

		_, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "invalid-refresh-token"})

		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})

	t.Run("deactivated account", func(t *testing.T) {
		svc, mockUserRepo, mockJWT := newService(t)

		inactive := guest(t)
		inactive.Active = false

		mockJWT.EXPECT().ValidateToken(gomock.Any(), jwt.RefreshToken).Return(claims, nil)
		mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(inactive, nil)

		_, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "valid-refresh-token"})

		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.ChangePasswordRequest
		setupMock func(t *testing.T, repo *userMocks.MockUser)
		wantCode  int
	}{
		{
			name: "successful password change",
			req:  dto.ChangePasswordRequest{CurrentPassword: plainPassword, NewPassword: "newpassword123"},
			setupMock: func(t *testing.T, repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest(t), nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						hashed, ok := fields[userModel.FieldPassword].(string)
						require.True(t, ok)
						assert.NoError(t, password.Verify("newpassword123", hashed))

						return nil
					})
			},
		},
		{
			name: "user not found",
			req:  dto.ChangePasswordRequest{CurrentPassword: plainPassword, NewPassword: "newpassword123"},
			setupMock: func(_ *testing.T, repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "wrong current password",
			req:  dto.ChangePasswordRequest{CurrentPassword: "wrongpassword1", NewPassword: "newpassword123"},
			setupMock: func(t *testing.T, repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest(t), nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "weak new password",
			req:  dto.ChangePasswordRequest{CurrentPassword: plainPassword, NewPassword: "12345678"},
			setupMock: func(t *testing.T, repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest(t), nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "update password error",
			req:  dto.ChangePasswordRequest{CurrentPassword: plainPassword, NewPassword: "newpassword123"},
			setupMock: func(t *testing.T, repo *userMocks.MockUser) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest(t), nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("update error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockUserRepo, _ := newService(t)
			tt.setupMock(t, mockUserRepo)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-id-123")
			err := svc.ChangePassword(ctx, tt.req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func stringPtr(s string) *string {
	return &s
}
