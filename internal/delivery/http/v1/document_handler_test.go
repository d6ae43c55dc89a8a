package v1_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"ats-backend/internal/delivery/http/middleware"
	v1 "ats-backend/internal/delivery/http/v1"
	"ats-backend/internal/domain"
	"ats-backend/pkg/apperror"
	"ats-backend/pkg/upload"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockDocumentUC struct {
	mock.Mock
}

func (m *MockDocumentUC) Upload(ctx context.Context, file *domain.FileUpload, candidateID int64, docType domain.DocumentType) (*domain.Document, error) {
	args := m.Called(ctx, file, candidateID, docType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentUC) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentUC) GetByCandidateID(ctx context.Context, candidateID int64) ([]domain.Document, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentUC) GetByCandidateIDWithURLs(ctx context.Context, candidateID int64) ([]domain.DocumentWithURL, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentWithURL), args.Error(1)
}

func (m *MockDocumentUC) GetByType(ctx context.Context, candidateID int64, docType domain.DocumentType) ([]domain.Document, error) {
	args := m.Called(ctx, candidateID, docType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentUC) Download(ctx context.Context, id int64) (*domain.FileDownload, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileDownload), args.Error(1)
}

func (m *MockDocumentUC) GetDownloadURL(ctx context.Context, id int64, expires time.Duration) (string, error) {
	args := m.Called(ctx, id, expires)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentUC) GetPresignedUploadURL(ctx context.Context, candidateID int64, fileName string, docType domain.DocumentType, expires time.Duration) (*domain.PresignedUpload, error) {
	args := m.Called(ctx, candidateID, fileName, docType, expires)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PresignedUpload), args.Error(1)
}

func (m *MockDocumentUC) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDocumentUC) UpdateStatus(ctx context.Context, id int64, status domain.UploadStatus) (*domain.Document, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func setupDocumentRouter(uc domain.DocumentUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())
	api := r.Group("/api/v1")
	v1.NewDocumentHandler(api, uc)
	return r
}

// multipartBody builds an upload request body with one file part carrying an
// explicit content type, plus the documentType form field the endpoint expects.
func multipartBody(t *testing.T, fieldName, fileName, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	assert.NoError(t, err)
	_, err = part.Write(content)
	assert.NoError(t, err)

	assert.NoError(t, w.WriteField("documentType", "CV"))
	assert.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestDocumentUploadEndpoint(t *testing.T) {
	pdf := []byte("%PDF-1.7 content")

	t.Run("Should return 201 for a valid PDF", func(t *testing.T) {
		uc := new(MockDocumentUC)
		uc.On("Upload", mock.Anything, mock.AnythingOfType("*domain.FileUpload"), int64(1), domain.DocumentTypeCV).
			Return(&domain.Document{ID: 10, UploadStatus: domain.UploadStatusUploaded}, nil)
		router := setupDocumentRouter(uc)

		body, contentType := multipartBody(t, "file", "resume.pdf", upload.MimePDF, pdf)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/candidates/1/documents", body)
		req.Header.Set("Content-Type", contentType)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Should reject a disallowed extension before the usecase runs", func(t *testing.T) {
		uc := new(MockDocumentUC)
		router := setupDocumentRouter(uc)

		body, contentType := multipartBody(t, "file", "malware.exe", upload.MimePDF, pdf)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/candidates/1/documents", body)
		req.Header.Set("Content-Type", contentType)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		uc.AssertNotCalled(t, "Upload")
	})

	t.Run("Should reject mismatched content", func(t *testing.T) {
		uc := new(MockDocumentUC)
		router := setupDocumentRouter(uc)

		body, contentType := multipartBody(t, "file", "resume.pdf", upload.MimePDF, []byte("plain text, no magic"))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/candidates/1/documents", body)
		req.Header.Set("Content-Type", contentType)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		uc.AssertNotCalled(t, "Upload")
	})

	t.Run("Should return 400 when no file is attached", func(t *testing.T) {
		uc := new(MockDocumentUC)
		router := setupDocumentRouter(uc)

		body, contentType := multipartBody(t, "other", "resume.pdf", upload.MimePDF, pdf)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/candidates/1/documents", body)
		req.Header.Set("Content-Type", contentType)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPresignedUploadURLEndpoint(t *testing.T) {
	t.Run("Should return 400 when fileName is missing", func(t *testing.T) {
		uc := new(MockDocumentUC)
		router := setupDocumentRouter(uc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/candidates/1/presigned-upload-url", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		uc.AssertNotCalled(t, "GetPresignedUploadURL")
	})

	t.Run("Should pass expiry and type through", func(t *testing.T) {
		uc := new(MockDocumentUC)
		uc.On("GetPresignedUploadURL", mock.Anything, int64(1), "cv.pdf", domain.DocumentTypeCV, 600*time.Second).
			Return(&domain.PresignedUpload{UploadURL: "https://store/put", FileName: "gen.pdf", FilePath: "candidates/1/cv/gen.pdf"}, nil)
		router := setupDocumentRouter(uc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/candidates/1/presigned-upload-url?fileName=cv.pdf&documentType=CV&expiresIn=600", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestDocumentListEndpoint(t *testing.T) {
	t.Run("Should attach URLs when withUrls=true", func(t *testing.T) {
		uc := new(MockDocumentUC)
		uc.On("GetByCandidateIDWithURLs", mock.Anything, int64(1)).
			Return([]domain.DocumentWithURL{{Document: domain.Document{ID: 1}, DownloadURL: "https://store/a"}}, nil)
		router := setupDocumentRouter(uc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/candidates/1/documents?withUrls=true", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		uc.AssertNotCalled(t, "GetByCandidateID")
	})

	t.Run("Should return plain metadata by default", func(t *testing.T) {
		uc := new(MockDocumentUC)
		uc.On("GetByCandidateID", mock.Anything, int64(1)).
			Return([]domain.Document{{ID: 1}}, nil)
		router := setupDocumentRouter(uc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/candidates/1/documents", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestDocumentDownloadEndpoint(t *testing.T) {
	uc := new(MockDocumentUC)
	uc.On("Download", mock.Anything, int64(10)).Return(&domain.FileDownload{
		Content:  []byte("%PDF data"),
		FileName: "resume.pdf",
		MimeType: "application/pdf",
	}, nil)
	router := setupDocumentRouter(uc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/10/download", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "resume.pdf")
}

func TestDocumentDeleteEndpoint(t *testing.T) {
	t.Run("Should return 204 on success", func(t *testing.T) {
		uc := new(MockDocumentUC)
		uc.On("Delete", mock.Anything, int64(10)).Return(nil)
		router := setupDocumentRouter(uc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/10", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Should surface the storage error code on failure", func(t *testing.T) {
		uc := new(MockDocumentUC)
		uc.On("Delete", mock.Anything, int64(10)).
			Return(apperror.FileUpload("failed to delete document", nil))
		router := setupDocumentRouter(uc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/10", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode(t, w)
		assert.Equal(t, apperror.CodeFileUpload, env.Error.Code)
	})
}
