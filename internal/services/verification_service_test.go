package services_test

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"jobboard_backend/internal/models"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/internal/testhelpers"
	"jobboard_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOwnVerification_NoSubmission(t *testing.T) {
	f := newVerificationFixture(t)
	employer := testhelpers.CreateEmployer(t, f.db, "Acme Corp")

	resp, err := f.service.GetOwnVerification(f.ctx, f.db, employer.ID)
	require.NoError(t, err)

	assert.Equal(t, dto.VerificationStateUnverified, resp.Status)
	assert.Equal(t, models.UserVerificationUnderReview, resp.UserVerificationStatus)
	assert.False(t, resp.IsVerified)
	assert.Nil(t, resp.SubmittedAt)
	assert.Empty(t, resp.DocumentURL)
}

func TestGetOwnVerification_UnknownUser(t *testing.T) {
	f := newVerificationFixture(t)

	_, err := f.service.GetOwnVerification(f.ctx, f.db, "00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))
}

func TestSubmitOrReplace_CreatesPendingRecord(t *testing.T) {
	f := newVerificationFixture(t)
	employer := testhelpers.CreateEmployer(t, f.db, "Acme Corp")

	require.NoError(t, f.service.SubmitOrReplace(f.ctx, f.db, employer.ID, pdfUpload("%PDF-1.4 first")))

	resp, err := f.service.GetOwnVerification(f.ctx, f.db, employer.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.VerificationStatePending, resp.Status)
	assert.Empty(t, resp.Note)
	require.NotNil(t, resp.SubmittedAt)
	assert.True(t, strings.HasPrefix(resp.DocumentURL, "http://files.test/verification/"+employer.ID+"/"))
	assert.True(t, strings.HasSuffix(resp.DocumentURL, "_business_license.pdf"))

	reloaded := testhelpers.ReloadUser(t, f.db, employer.ID)
	assert.Equal(t, models.UserVerificationUnderReview, reloaded.VerificationStatus)
	assert.False(t, reloaded.IsVerified)

	msg := f.sink.Last(t)
	assert.Equal(t, employer.ID, msg.RecipientID)
	assert.Equal(t, models.NotificationTypeInfo, msg.Severity)
	assert.Equal(t, "verification_upload", msg.Meta["action"])
}

func TestSubmitOrReplace_ExternalDocumentURLWins(t *testing.T) {
	f := newVerificationFixture(t)
	employer := testhelpers.CreateEmployer(t, f.db, "Acme Corp")

	upload := pdfUpload("%PDF-1.4")
	upload.DocumentURL = "  https://drive.example.com/license  "
	require.NoError(t, f.service.SubmitOrReplace(f.ctx, f.db, employer.ID, upload))

	resp, err := f.service.GetOwnVerification(f.ctx, f.db, employer.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://drive.example.com/license", resp.DocumentURL)
}

func TestSubmitOrReplace_RequiresDocument(t *testing.T) {
	f := newVerificationFixture(t)
	employer := testhelpers.CreateEmployer(t, f.db, "Acme Corp")

	err := f.service.SubmitOrReplace(f.ctx, f.db, employer.ID, nil)
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))

	err = f.service.SubmitOrReplace(f.ctx, f.db, employer.ID, pdfUpload(""))
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))

	assert.Empty(t, f.storedFiles(t))
}

func TestSubmitOrReplace_KeepsOneRecordPerEmployer(t *testing.T) {
	f := newVerificationFixture(t)
	employer := testhelpers.CreateEmployer(t, f.db, "Acme Corp")

	firstID := f.submit(t, employer.ID, "%PDF-1.4 first")
	secondID := f.submit(t, employer.ID, "%PDF-1.4 second")
	assert.Equal(t, firstID, secondID, "Повторная загрузка должна обновлять ту же заявку")

	var count int64
	require.NoError(t, f.db.Model(&models.EmployerVerification{}).Where("employer_id = ?", employer.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Старый файл удален, остался только новый
	files := f.storedFiles(t)
	require.Len(t, files, 1)

	doc, err := f.service.AdminOpenDocument(f.ctx, f.db, secondID)
	require.NoError(t, err)
	defer doc.Content.Close()
	body, err := io.ReadAll(doc.Content)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 second", string(body))
}

func TestSubmitOrReplace_ResetsDecision(t *testing.T) {
	f := newVerificationFixture(t)
	employer := testhelpers.CreateEmployer(t, f.db, "Acme Corp")

	id := f.submit(t, employer.ID, "%PDF-1.4 first")
	_, err := f.service.AdminDecide(f.ctx, f.db, id, models.VerificationStatusRejected, "Blurry scan")
	require.NoError(t, err)

	f.submit(t, employer.ID, "%PDF-1.4 second")

	resp, err := f.service.GetOwnVerification(f.ctx, f.db, employer.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.VerificationStatePending, resp.Status)
	assert.Empty(t, resp.Note)

	reloaded := testhelpers.ReloadUser(t, f.db, employer.ID)
	assert.Equal(t, models.UserVerificationUnderReview, reloaded.VerificationStatus)
	assert.False(t, reloaded.IsVerified)
}

func TestSubmitOrReplace_UnknownEmployerReleasesDocument(t *testing.T) {
	f := newVerificationFixture(t)

	err := f.service.SubmitOrReplace(f.ctx, f.db, "00000000-0000-0000-0000-000000000000", pdfUpload("%PDF-1.4"))
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(err))

	assert.Empty(t, f.storedFiles(t), "Файл должен быть удален после отката транзакции")
	assert.Empty(t, f.sink.Messages())
}

func TestSubmitOrReplace_SinkFailureIsSwallowed(t *testing.T) {
	f := newVerificationFixture(t)
	f.sink.err = errSinkDown
	employer := testhelpers.CreateEmployer(t, f.db, "Acme Corp")

	require.NoError(t, f.service.SubmitOrReplace(f.ctx, f.db, employer.ID, pdfUpload("%PDF-1.4")))
	assert.Len(t, f.sink.Messages(), 1)
}

func TestAdminDecide_ProjectionFollowsEveryDecision(t *testing.T) {
	f := newVerificationFixture(t)
	employer := testhelpers.CreateEmployer(t, f.db, "Acme Corp")
	id := f.submit(t, employer.ID, "%PDF-1.4")

	sequence := []models.VerificationStatus{
		models.VerificationStatusApproved,
		models.VerificationStatusRejected,
		models.VerificationStatusPending,
		models.VerificationStatusApproved,
	}

	for _, status := range sequence {
		_, err := f.service.AdminDecide(f.ctx, f.db, id, status, "")
		require.NoError(t, err)

		want := services.MapVerificationStatus(status)
		reloaded := testhelpers.ReloadUser(t, f.db, employer.ID)
		assert.Equal(t, want.Status, reloaded.VerificationStatus, "status=%s", status)
		assert.Equal(t, want.IsVerified, reloaded.IsVerified, "status=%s", status)
	}
}

func TestAdminDecide_ApproveNotifiesSuccess(t *testing.T) {
	f := newVerificationFixture(t)
	employer := testhelpers.CreateEmployer(t, f.db, "Acme Corp")
	id := f.submit(t, employer.ID, "%PDF-1.4")

	resp, err := f.service.AdminDecide(f.ctx, f.db, id, models.VerificationStatusApproved, "  ")
	require.NoError(t, err)
	assert.Equal(t, "Updated", resp.Message)
	assert.Equal(t, models.VerificationStatusApproved, resp.Status)
	assert.Empty(t, resp.Note)

	msg := f.sink.Last(t)
	assert.Equal(t, employer.ID, msg.RecipientID)
	assert.Equal(t, models.NotificationTypeSuccess, msg.Severity)
	assert.Equal(t, id, msg.Meta["verificationId"])
	assert.Equal(t, "approved", msg.Meta["decision"])

	own, err := f.service.GetOwnVerification(f.ctx, f.db, employer.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.VerificationStateApproved, own.Status)
	assert.True(t, own.IsVerified)
	assert.Equal(t, models.UserVerificationPassed, own.UserVerificationStatus)
}

func TestAdminDecide_RejectCarriesNote(t *testing.T) {
	f := newVerificationFixture(t)
	employer := testhelpers.CreateEmployer(t, f.db, "Acme Corp")
	id := f.submit(t, employer.ID, "%PDF-1.4")

	_, err := f.service.AdminDecide(f.ctx, f.db, id, models.VerificationStatusRejected, "Document expired")
	require.NoError(t, err)

	msg := f.sink.Last(t)
	assert.Equal(t, models.NotificationTypeWarning, msg.Severity)
	assert.Contains(t, msg.Message, "Document expired")
	assert.Equal(t, "Document expired", msg.Meta["note"])

	own, err := f.service.GetOwnVerification(f.ctx, f.db, employer.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.VerificationStateRejected, own.Status)
	assert.Equal(t, "Document expired", own.Note)
	assert.Equal(t, models.UserVerificationFailed, own.UserVerificationStatus)
}

func TestAdminDecide_IsIdempotent(t *testing.T) {
	f := newVerificationFixture(t)
	employer := testhelpers.CreateEmployer(t, f.db, "Acme Corp")
	id := f.submit(t, employer.ID, "%PDF-1.4")

	for i := 0; i < 2; i++ {
		_, err := f.service.AdminDecide(f.ctx, f.db, id, models.VerificationStatusApproved, "ok")
		require.NoError(t, err)
	}

	detail, err := f.service.AdminGetVerification(f.ctx, f.db, id)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStatusApproved, detail.Status)
	assert.Equal(t, "ok", detail.Note)

	reloaded := testhelpers.ReloadUser(t, f.db, employer.ID)
	assert.True(t, reloaded.IsVerified)
}

func TestAdminDecide_Validation(t *testing.T) {
	f := newVerificationFixture(t)
	employer := testhelpers.CreateEmployer(t, f.db, "Acme Corp")
	id := f.submit(t, employer.ID, "%PDF-1.4")
	before := len(f.sink.Messages())

	_, err := f.service.AdminDecide(f.ctx, f.db, id, "archived", "")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))

	_, err = f.service.AdminDecide(f.ctx, f.db, id, models.VerificationStatusRejected, strings.Repeat("я", 2001))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))

	_, err = f.service.AdminDecide(f.ctx, f.db, id, models.VerificationStatusRejected, strings.Repeat("я", 2000))
	require.NoError(t, err)

	assert.Len(t, f.sink.Messages(), before+1)
}

func TestAdminDecide_NotFound(t *testing.T) {
	f := newVerificationFixture(t)

	_, err := f.service.AdminDecide(f.ctx, f.db, "missing", models.VerificationStatusApproved, "")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))
	assert.Empty(t, f.sink.Messages())
}

func TestAdminGetVerification(t *testing.T) {
	f := newVerificationFixture(t)
	employer := testhelpers.CreateEmployer(t, f.db, "Acme Corp")
	id := f.submit(t, employer.ID, "%PDF-1.4 body")

	detail, err := f.service.AdminGetVerification(f.ctx, f.db, id)
	require.NoError(t, err)

	assert.Equal(t, id, detail.ID)
	assert.Equal(t, models.VerificationStatusPending, detail.Status)
	assert.Equal(t, employer.ID, detail.Employer.ID)
	assert.Equal(t, "Acme Corp", detail.Employer.Name)
	assert.Equal(t, employer.Email, detail.Employer.Email)
	require.NotNil(t, detail.Employer.IsVerified)
	assert.False(t, *detail.Employer.IsVerified)
	assert.Equal(t, models.UserVerificationUnderReview, detail.Employer.VerificationStatus)
	assert.Equal(t, "business license.pdf", detail.File.Name)
	assert.Equal(t, "application/pdf", detail.File.Mime)
	assert.Equal(t, int64(len("%PDF-1.4 body")), detail.File.Size)

	_, err = f.service.AdminGetVerification(f.ctx, f.db, "missing")
	assert.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))
}

func TestAdminOpenDocument_MissingArtifact(t *testing.T) {
	f := newVerificationFixture(t)
	employer := testhelpers.CreateEmployer(t, f.db, "Acme Corp")
	id := f.submit(t, employer.ID, "%PDF-1.4")

	files := f.storedFiles(t)
	require.Len(t, files, 1)
	require.NoError(t, f.store.Delete(f.ctx, files[0]))

	_, err := f.service.AdminOpenDocument(f.ctx, f.db, id)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))

	_, err = f.service.AdminOpenDocument(f.ctx, f.db, "missing")
	assert.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))
}

func TestAdminListVerifications_FiltersAndPagination(t *testing.T) {
	f := newVerificationFixture(t)

	var ids []string
	for i := 0; i < 15; i++ {
		employer := testhelpers.CreateEmployer(t, f.db, fmt.Sprintf("Company %02d", i))
		ids = append(ids, f.submit(t, employer.ID, "%PDF-1.4"))
	}
	for _, id := range ids[:4] {
		_, err := f.service.AdminDecide(f.ctx, f.db, id, models.VerificationStatusApproved, "")
		require.NoError(t, err)
	}

	t.Run("second page holds the remainder", func(t *testing.T) {
		resp, err := f.service.AdminListVerifications(f.ctx, f.db, dto.VerificationListFilter{Page: 2, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(15), resp.Total)
		assert.Equal(t, 2, resp.Page)
		assert.Equal(t, 10, resp.PageSize)
		assert.Len(t, resp.Data, 5)
	})

	t.Run("status filter", func(t *testing.T) {
		resp, err := f.service.AdminListVerifications(f.ctx, f.db, dto.VerificationListFilter{Status: "approved"})
		require.NoError(t, err)
		assert.Equal(t, int64(4), resp.Total)
		for _, row := range resp.Data {
			assert.Equal(t, models.VerificationStatusApproved, row.Status)
			assert.Nil(t, row.Employer.IsVerified, "Список не содержит флагов верификации")
		}
	})

	t.Run("invalid status means no filter", func(t *testing.T) {
		resp, err := f.service.AdminListVerifications(f.ctx, f.db, dto.VerificationListFilter{Status: "archived"})
		require.NoError(t, err)
		assert.Equal(t, int64(15), resp.Total)
	})

	t.Run("page size is clamped", func(t *testing.T) {
		resp, err := f.service.AdminListVerifications(f.ctx, f.db, dto.VerificationListFilter{Page: 0, PageSize: 500})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, dto.MaxPageSize, resp.PageSize)
		assert.Len(t, resp.Data, 15)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		resp, err := f.service.AdminListVerifications(f.ctx, f.db, dto.VerificationListFilter{Page: 9, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(15), resp.Total)
		assert.NotNil(t, resp.Data)
		assert.Empty(t, resp.Data)
	})
}

func TestAdminListVerifications_Search(t *testing.T) {
	f := newVerificationFixture(t)

	acme := testhelpers.CreateUser(t, f.db, "ACME Holdings", "hr@acme.io", "password123", models.UserRoleEmployer)
	percent := testhelpers.CreateUser(t, f.db, "100% Staffing", "jobs@staffing.io", "password123", models.UserRoleEmployer)
	other := testhelpers.CreateUser(t, f.db, "Globex", "careers@globex.io", "password123", models.UserRoleEmployer)
	for _, u := range []*models.User{acme, percent, other} {
		f.submit(t, u.ID, "%PDF-1.4")
	}

	tests := []struct {
		search string
		want   []string
	}{
		{"acme", []string{acme.ID}},
		{"GLOBEX.IO", []string{other.ID}},
		{"%", []string{percent.ID}},
		{"_", nil},
		{"io", []string{acme.ID, percent.ID, other.ID}},
		{"   ", []string{acme.ID, percent.ID, other.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			resp, err := f.service.AdminListVerifications(f.ctx, f.db, dto.VerificationListFilter{Search: tt.search})
			require.NoError(t, err)

			var got []string
			for _, row := range resp.Data {
				got = append(got, row.Employer.ID)
			}
			assert.ElementsMatch(t, tt.want, got)
			assert.Equal(t, int64(len(tt.want)), resp.Total)
		})
	}
}
