package services_test

import (
	"context"
	"net/http"
	"testing"

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

func strPtr(s string) *string { return &s }

func TestUserService_UpdateProfile(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := services.NewUserService(repositories.NewUserRepository())
	ctx := context.Background()

	employer := testhelpers.CreateEmployer(t, db, "Acme Corp")
	require.NoError(t, repositories.NewUserRepository().SyncVerification(db, employer.ID,
		services.MapVerificationStatus(models.VerificationStatusApproved)))

	resp, err := svc.UpdateProfile(ctx, db, employer.ID, &dto.UpdateProfileRequest{
		Headline: strPtr("  Hiring engineers "),
		City:     strPtr("Almaty"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", resp.Name, "Имя не передавали, оно не должно меняться")
	assert.Equal(t, "Hiring engineers", resp.Headline)
	assert.Equal(t, "Almaty", resp.City)
	assert.True(t, resp.IsVerified, "Профиль не трогает поля верификации")
	assert.Equal(t, models.UserVerificationPassed, resp.VerificationStatus)

	_, err = svc.UpdateProfile(ctx, db, employer.ID, &dto.UpdateProfileRequest{Name: strPtr("   ")})
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
}

func TestUserService_GetMeNotFound(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := services.NewUserService(repositories.NewUserRepository())

	_, err := svc.GetMe(context.Background(), db, "missing")
	assert.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))
}

func TestUserService_ChangePassword(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := services.NewUserService(repositories.NewUserRepository())
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "Jane", "jane@example.com", "password123", models.UserRoleJobseeker)

	err := svc.ChangePassword(ctx, db, user.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "wrong", NewPassword: "new-password",
	})
	assert.Equal(t, http.StatusUnauthorized, apperrors.HTTPStatus(err))

	err = svc.ChangePassword(ctx, db, user.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "password123", NewPassword: "new-password",
	})
	require.NoError(t, err)

	reloaded := testhelpers.ReloadUser(t, db, user.ID)
	assert.True(t, auth.CheckPasswordHash("new-password", reloaded.PasswordHash))
	assert.False(t, auth.CheckPasswordHash("password123", reloaded.PasswordHash))
}
