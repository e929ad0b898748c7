package handlers

import (
	"mime"
	"net/http"
	"strings"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/services/dto"
	"jobboard_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// multipart overhead поверх самого файла
const multipartSlack = 1 << 20

type VerificationHandler struct {
	*BaseHandler
	verificationService services.VerificationService
	policy              DocumentPolicy
}

func NewVerificationHandler(base *BaseHandler, verificationService services.VerificationService, policy DocumentPolicy) *VerificationHandler {
	return &VerificationHandler{
		BaseHandler:         base,
		verificationService: verificationService,
		policy:              policy,
	}
}

func (h *VerificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	employer := r.Group("/verification")
	employer.Use(h.RequireAuth(), middleware.RequireRoles(models.UserRoleEmployer))
	{
		employer.GET("/me", h.GetMyVerification)
		employer.POST("/upload", middleware.RequirePermission(auth.PermVerificationSubmit), h.UploadMyVerification)
	}

	admin := r.Group("/admin/verification")
	admin.Use(h.RequireAuth(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("/list", h.AdminList)
		admin.GET("/:id", h.AdminGet)
		admin.GET("/:id/file", h.AdminDownloadFile)
		admin.PATCH("/:id/status", middleware.RequirePermission(auth.PermVerificationReview), h.AdminUpdateStatus)
	}
}

// --- Employer ---

// GetMyVerification - GET /verification/me
func (h *VerificationHandler) GetMyVerification(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.verificationService.GetOwnVerification(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UploadMyVerification - POST /verification/upload (multipart, поле "document")
func (h *VerificationHandler) UploadMyVerification(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if h.policy.MaxSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.policy.MaxSize+multipartSlack)
	}

	header, err := c.FormFile("document")
	if err != nil {
		if isBodyTooLarge(err) {
			apperrors.HandleError(c, apperrors.ErrFileTooLarge)
			return
		}
		apperrors.HandleError(c, apperrors.ErrVerificationDocumentRequired)
		return
	}

	file, mimeType, err := h.policy.openDocument(header)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer file.Close()

	content, size, err := h.policy.normalizeImage(file, mimeType, header.Size)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	upload := &dto.VerificationUpload{
		Content:      content,
		OriginalName: header.Filename,
		MimeType:     mimeType,
		Size:         size,
		DocumentURL:  c.PostForm("documentUrl"),
	}

	if err := h.verificationService.SubmitOrReplace(c.Request.Context(), h.GetDB(c), userID, upload); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Uploaded. Pending review."})
}

// --- Admin ---

// AdminList - GET /admin/verification/list?status=&search=&page=&pageSize=
func (h *VerificationHandler) AdminList(c *gin.Context) {
	var filter dto.VerificationListFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = ParsePagination(c)

	resp, err := h.verificationService.AdminListVerifications(c.Request.Context(), h.GetDB(c), filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *VerificationHandler) AdminGet(c *gin.Context) {
	resp, err := h.verificationService.AdminGetVerification(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// AdminDownloadFile отдает документ потоком, inline
func (h *VerificationHandler) AdminDownloadFile(c *gin.Context) {
	doc, err := h.verificationService.AdminOpenDocument(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer doc.Content.Close()

	extraHeaders := map[string]string{
		"Content-Disposition": contentDisposition(doc.FileName),
		"Cache-Control":       "private, no-store",
	}

	contentType := doc.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	size := doc.Size
	if size <= 0 {
		size = -1
	}

	c.DataFromReader(http.StatusOK, size, contentType, doc.Content, extraHeaders)
}

// AdminUpdateStatus - PATCH /admin/verification/:id/status
func (h *VerificationHandler) AdminUpdateStatus(c *gin.Context) {
	var req dto.VerificationDecisionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.verificationService.AdminDecide(c.Request.Context(), h.GetDB(c), c.Param("id"), req.Status, req.Note)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	logger.CtxInfo(c.Request.Context(), "Admin verification decision", "verification_id", c.Param("id"), "status", resp.Status)
	c.JSON(http.StatusOK, resp)
}

// contentDisposition собирает inline-заголовок; не-ASCII имена кодируются по RFC 2231
func contentDisposition(fileName string) string {
	fileName = strings.NewReplacer("\r", "", "\n", "", `"`, "").Replace(fileName)
	if fileName == "" {
		return "inline"
	}
	if v := mime.FormatMediaType("inline", map[string]string{"filename": fileName}); v != "" {
		return v
	}
	return "inline"
}
