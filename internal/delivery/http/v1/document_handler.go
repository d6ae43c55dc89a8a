package v1

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"ats-backend/internal/delivery/http/response"
	"ats-backend/internal/domain"
	"ats-backend/pkg/apperror"
	"ats-backend/pkg/upload"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	documentUC domain.DocumentUsecase
}

func NewDocumentHandler(r *gin.RouterGroup, documentUC domain.DocumentUsecase) {
	handler := &DocumentHandler{documentUC: documentUC}

	// The segment must stay ":id" to match the candidate routes; gin rejects
	// two wildcard names in the same position.
	candidates := r.Group("/candidates/:id")
	{
		candidates.POST("/documents", handler.Upload)
		candidates.GET("/documents", handler.GetByCandidate)
		candidates.GET("/documents/type/:documentType", handler.GetByType)
		candidates.GET("/presigned-upload-url", handler.GetPresignedUploadURL)
	}

	documents := r.Group("/documents")
	{
		documents.GET("/:id", handler.GetByID)
		documents.GET("/:id/download", handler.Download)
		documents.GET("/:id/download-url", handler.GetDownloadURL)
		documents.PATCH("/:id/status", handler.UpdateStatus)
		documents.DELETE("/:id", handler.Delete)
	}
}

// Upload godoc
// @Summary      Upload candidate document
// @Description  Accepts PDF or DOCX up to 10MB via multipart field "file"
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        id            path      int     true   "Candidate ID"
// @Param        file          formData  file    true   "Document file"
// @Param        documentType  formData  string  false  "CV, COVER_LETTER, CERTIFICATE or OTHER"
// @Success      201  {object}  response.Response{data=domain.Document}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id}/documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	candidateID, err := parseIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	docType, err := domain.ParseDocumentType(c.PostForm("documentType"))
	if err != nil {
		c.Error(apperror.Validation(err.Error()))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.Error(apperror.FileUpload("invalid multipart request", err))
		return
	}
	files := form.File["file"]
	if len(files) == 0 {
		c.Error(apperror.Validation("no file provided"))
		return
	}
	if len(files) > upload.MaxFilesPerRequest {
		c.Error(apperror.Validation(fmt.Sprintf("at most %d files per request", upload.MaxFilesPerRequest)))
		return
	}

	uploaded := make([]domain.Document, 0, len(files))
	for _, fh := range files {
		// Size is rejected before the file is even opened, so an oversize
		// upload never reaches the object store.
		if fh.Size > upload.MaxFileSize {
			c.Error(apperror.FileTooLarge(fmt.Sprintf("file %q exceeds the maximum allowed size of %dMB", fh.Filename, upload.MaxFileSize/1024/1024)))
			return
		}

		src, err := fh.Open()
		if err != nil {
			c.Error(apperror.FileUpload("failed to read uploaded file", err))
			return
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			c.Error(apperror.FileUpload("failed to read uploaded file", err))
			return
		}

		result := upload.ValidateFile(fh.Filename, data, fh.Header.Get("Content-Type"), fh.Size)
		if !result.Valid {
			if result.TooLarge {
				c.Error(apperror.FileTooLarge(result.Error))
			} else {
				c.Error(apperror.FileUpload(result.Error, nil))
			}
			return
		}

		document, err := h.documentUC.Upload(c.Request.Context(), &domain.FileUpload{
			Content:      data,
			OriginalName: fh.Filename,
			MimeType:     fh.Header.Get("Content-Type"),
			Size:         fh.Size,
		}, candidateID, docType)
		if err != nil {
			c.Error(err)
			return
		}
		uploaded = append(uploaded, *document)
	}

	if len(uploaded) == 1 {
		response.Success(c, http.StatusCreated, "Document uploaded", uploaded[0])
		return
	}
	response.Success(c, http.StatusCreated, "Documents uploaded", uploaded)
}

// GetByCandidate godoc
// @Summary      List candidate documents
// @Tags         documents
// @Produce      json
// @Param        id           path   int     true   "Candidate ID"
// @Param        withUrls     query  bool    false  "Attach presigned download URLs"
// @Success      200  {object}  response.Response{data=[]domain.DocumentWithURL}
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id}/documents [get]
func (h *DocumentHandler) GetByCandidate(c *gin.Context) {
	candidateID, err := parseIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if c.Query("withUrls") == "true" {
		documents, err := h.documentUC.GetByCandidateIDWithURLs(c.Request.Context(), candidateID)
		if err != nil {
			c.Error(err)
			return
		}
		response.Success(c, http.StatusOK, "Documents retrieved", documents)
		return
	}

	documents, err := h.documentUC.GetByCandidateID(c.Request.Context(), candidateID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Documents retrieved", documents)
}

// GetByType godoc
// @Summary      List candidate documents of one type
// @Tags         documents
// @Produce      json
// @Param        id            path  int     true  "Candidate ID"
// @Param        documentType  path  string  true  "CV, COVER_LETTER, CERTIFICATE or OTHER"
// @Success      200  {object}  response.Response{data=[]domain.Document}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id}/documents/type/{documentType} [get]
func (h *DocumentHandler) GetByType(c *gin.Context) {
	candidateID, err := parseIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	docType, err := domain.ParseDocumentType(c.Param("documentType"))
	if err != nil {
		c.Error(apperror.Validation(err.Error()))
		return
	}

	documents, err := h.documentUC.GetByType(c.Request.Context(), candidateID, docType)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Documents retrieved", documents)
}

// GetPresignedUploadURL godoc
// @Summary      Generate a presigned upload URL
// @Description  Returns a time-limited PUT URL for direct client-to-store upload
// @Tags         documents
// @Produce      json
// @Param        id            path   int     true   "Candidate ID"
// @Param        fileName      query  string  true   "Original file name"
// @Param        documentType  query  string  false  "CV, COVER_LETTER, CERTIFICATE or OTHER"
// @Param        expiresIn     query  int     false  "Expiry in seconds, default 3600"
// @Success      200  {object}  response.Response{data=domain.PresignedUpload}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id}/presigned-upload-url [get]
func (h *DocumentHandler) GetPresignedUploadURL(c *gin.Context) {
	candidateID, err := parseIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	fileName := c.Query("fileName")
	if fileName == "" {
		c.Error(apperror.Validation("fileName query parameter is required"))
		return
	}

	docType, err := domain.ParseDocumentType(c.Query("documentType"))
	if err != nil {
		c.Error(apperror.Validation(err.Error()))
		return
	}

	presigned, err := h.documentUC.GetPresignedUploadURL(c.Request.Context(), candidateID, fileName, docType, parseExpiry(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Upload URL generated", presigned)
}

// GetByID godoc
// @Summary      Get document metadata
// @Tags         documents
// @Produce      json
// @Param        id   path      int  true  "Document ID"
// @Success      200  {object}  response.Response{data=domain.Document}
// @Failure      404  {object}  response.Response
// @Router       /documents/{id} [get]
func (h *DocumentHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	document, err := h.documentUC.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Document retrieved", document)
}

// Download godoc
// @Summary      Download document binary
// @Tags         documents
// @Produce      octet-stream
// @Param        id   path  int  true  "Document ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  response.Response
// @Router       /documents/{id}/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	file, err := h.documentUC.Download(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Data(http.StatusOK, file.MimeType, file.Content)
}

// GetDownloadURL godoc
// @Summary      Generate a presigned download URL
// @Tags         documents
// @Produce      json
// @Param        id         path   int  true   "Document ID"
// @Param        expiresIn  query  int  false  "Expiry in seconds, default 3600"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /documents/{id}/download-url [get]
func (h *DocumentHandler) GetDownloadURL(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	url, err := h.documentUC.GetDownloadURL(c.Request.Context(), id, parseExpiry(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Download URL generated", gin.H{"downloadUrl": url})
}

// UpdateStatus godoc
// @Summary      Update document upload status
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id      path  int                              true  "Document ID"
// @Param        status  body  object{uploadStatus=string}  true  "New status"
// @Success      200  {object}  response.Response{data=domain.Document}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /documents/{id}/status [patch]
func (h *DocumentHandler) UpdateStatus(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var body struct {
		UploadStatus string `json:"uploadStatus"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.Error(apperror.Validation("invalid request body"))
		return
	}

	status, err := domain.ParseUploadStatus(body.UploadStatus)
	if err != nil {
		c.Error(apperror.Validation(err.Error()))
		return
	}

	document, err := h.documentUC.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Document status updated", document)
}

// Delete godoc
// @Summary      Delete document
// @Description  Removes the stored object and its metadata row
// @Tags         documents
// @Param        id   path  int  true  "Document ID"
// @Success      204
// @Failure      404  {object}  response.Response
// @Router       /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.documentUC.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseExpiry(c *gin.Context) time.Duration {
	seconds, err := strconv.Atoi(c.DefaultQuery("expiresIn", "0"))
	if err != nil || seconds <= 0 {
		return 0 // storage layer applies its default expiry
	}
	return time.Duration(seconds) * time.Second
}
