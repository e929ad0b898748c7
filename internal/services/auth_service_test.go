package services_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/internal/testhelpers"
	"jobboard_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService() (services.AuthService, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return services.NewAuthService(repositories.NewUserRepository(), tokens), tokens
}

func TestRegister_EmployerStartsUnderReview(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc, tokens := newAuthService()

	resp, err := svc.Register(context.Background(), db, &dto.RegisterRequest{
		Name:     " Acme Corp ",
		Email:    " HR@Acme.io ",
		Password: "password123",
		Role:     models.UserRoleEmployer,
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", resp.User.Name)
	assert.Equal(t, "hr@acme.io", resp.User.Email)
	assert.Equal(t, models.UserRoleEmployer, resp.User.Role)
	assert.Equal(t, models.UserVerificationUnderReview, resp.User.VerificationStatus)
	assert.False(t, resp.User.IsVerified)

	claims, err := tokens.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, models.UserRoleEmployer, claims.Role)
}

func TestRegister_DefaultsToJobseeker(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc, _ := newAuthService()

	resp, err := svc.Register(context.Background(), db, &dto.RegisterRequest{
		Name: "Jane", Email: "jane@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleJobseeker, resp.User.Role)
}

func TestRegister_Rejections(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, db, &dto.RegisterRequest{
		Name: "Root", Email: "root@example.com", Password: "password123", Role: models.UserRoleAdmin,
	})
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err), "Админа нельзя зарегистрировать")

	_, err = svc.Register(ctx, db, &dto.RegisterRequest{
		Name: "Jane", Email: "jane@example.com", Password: "123",
	})
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))

	_, err = svc.Register(ctx, db, &dto.RegisterRequest{
		Name: "Jane", Email: "jane@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, db, &dto.RegisterRequest{
		Name: "Jane 2", Email: "JANE@example.com", Password: "password123",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperrors.HTTPStatus(err))
}

func TestLogin(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc, _ := newAuthService()
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "Jane", "jane@example.com", "password123", models.UserRoleJobseeker)

	resp, err := svc.Login(ctx, db, &dto.LoginRequest{Email: "Jane@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Login(ctx, db, &dto.LoginRequest{Email: "jane@example.com", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, apperrors.HTTPStatus(err))

	_, err = svc.Login(ctx, db, &dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.Equal(t, http.StatusUnauthorized, apperrors.HTTPStatus(err))
}
