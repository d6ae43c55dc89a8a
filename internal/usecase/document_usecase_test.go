package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ats-backend/internal/domain"
	"ats-backend/internal/usecase"
	"ats-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) Create(ctx context.Context, input *domain.CreateDocumentInput) (*domain.Document, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) GetByCandidateID(ctx context.Context, candidateID int64) ([]domain.Document, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) GetByFilePath(ctx context.Context, filePath string) (*domain.Document, error) {
	args := m.Called(ctx, filePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) Update(ctx context.Context, id int64, input *domain.UpdateDocumentInput) (*domain.Document, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDocumentRepo) UpdateUploadStatus(ctx context.Context, id int64, status domain.UploadStatus) (*domain.Document, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, file *domain.FileUpload, candidateID int64, docType domain.DocumentType) (*domain.UploadResult, error) {
	args := m.Called(ctx, file, candidateID, docType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadResult), args.Error(1)
}

func (m *MockStorage) Get(ctx context.Context, filePath string) ([]byte, error) {
	args := m.Called(ctx, filePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, filePath string) error {
	return m.Called(ctx, filePath).Error(0)
}

func (m *MockStorage) PresignDownload(ctx context.Context, filePath string, expires time.Duration) (string, error) {
	args := m.Called(ctx, filePath, expires)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) PresignUpload(ctx context.Context, candidateID int64, fileName string, docType domain.DocumentType, expires time.Duration) (*domain.PresignedUpload, error) {
	args := m.Called(ctx, candidateID, fileName, docType, expires)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PresignedUpload), args.Error(1)
}

func (m *MockStorage) List(ctx context.Context, candidateID int64) ([]string, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStorage) Stat(ctx context.Context, filePath string) (*domain.FileStat, error) {
	args := m.Called(ctx, filePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileStat), args.Error(1)
}

func pdfUpload() *domain.FileUpload {
	return &domain.FileUpload{
		Content:      []byte("%PDF-1.7 test"),
		OriginalName: "resume.pdf",
		MimeType:     "application/pdf",
		Size:         13,
	}
}

func TestDocumentUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("Should fail when candidate does not exist", func(t *testing.T) {
		candidates := new(MockCandidateRepo)
		storage := new(MockStorage)
		uc := usecase.NewDocumentUsecase(new(MockDocumentRepo), candidates, storage)

		candidates.On("GetByID", ctx, int64(42)).Return(nil, nil)

		_, err := uc.Upload(ctx, pdfUpload(), 42, domain.DocumentTypeCV)
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeNotFound, appErr.Code)
		storage.AssertNotCalled(t, "Upload")
	})

	t.Run("Should not persist a row when the storage write fails", func(t *testing.T) {
		candidates := new(MockCandidateRepo)
		docs := new(MockDocumentRepo)
		storage := new(MockStorage)
		uc := usecase.NewDocumentUsecase(docs, candidates, storage)

		candidates.On("GetByID", ctx, int64(1)).Return(&domain.Candidate{ID: 1}, nil)
		storage.On("Upload", ctx, mock.Anything, int64(1), domain.DocumentTypeCV).
			Return(nil, errors.New("connection refused"))

		_, err := uc.Upload(ctx, pdfUpload(), 1, domain.DocumentTypeCV)
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeFileUpload, appErr.Code)
		docs.AssertNotCalled(t, "Create")
	})

	t.Run("Should persist an UPLOADED row on success", func(t *testing.T) {
		candidates := new(MockCandidateRepo)
		docs := new(MockDocumentRepo)
		storage := new(MockStorage)
		uc := usecase.NewDocumentUsecase(docs, candidates, storage)

		candidates.On("GetByID", ctx, int64(1)).Return(&domain.Candidate{ID: 1}, nil)
		storage.On("Upload", ctx, mock.Anything, int64(1), domain.DocumentTypeCV).Return(&domain.UploadResult{
			FileName:     "abc123.pdf",
			OriginalName: "resume.pdf",
			MimeType:     "application/pdf",
			FileSize:     13,
			FilePath:     "candidates/1/cv/abc123.pdf",
			BucketName:   "ats-bucket",
			Etag:         "etag1",
		}, nil)
		docs.On("Create", ctx, mock.AnythingOfType("*domain.CreateDocumentInput")).
			Return(&domain.Document{ID: 10, UploadStatus: domain.UploadStatusUploaded}, nil).
			Run(func(args mock.Arguments) {
				in := args.Get(1).(*domain.CreateDocumentInput)
				assert.Equal(t, domain.UploadStatusUploaded, in.UploadStatus)
				assert.Equal(t, "candidates/1/cv/abc123.pdf", in.FilePath)
			})

		document, err := uc.Upload(ctx, pdfUpload(), 1, domain.DocumentTypeCV)
		assert.NoError(t, err)
		assert.Equal(t, domain.UploadStatusUploaded, document.UploadStatus)
	})
}

func TestDocumentDeleteCompensation(t *testing.T) {
	ctx := context.Background()
	stored := &domain.Document{ID: 10, CandidateID: 1, FilePath: "candidates/1/cv/abc.pdf", UploadStatus: domain.UploadStatusUploaded}

	t.Run("Should mark row DELETED and still raise when storage delete fails", func(t *testing.T) {
		docs := new(MockDocumentRepo)
		storage := new(MockStorage)
		uc := usecase.NewDocumentUsecase(docs, new(MockCandidateRepo), storage)

		docs.On("GetByID", ctx, int64(10)).Return(stored, nil)
		storage.On("Delete", ctx, stored.FilePath).Return(errors.New("access denied"))
		docs.On("UpdateUploadStatus", ctx, int64(10), domain.UploadStatusDeleted).
			Return(&domain.Document{ID: 10, UploadStatus: domain.UploadStatusDeleted}, nil)

		err := uc.Delete(ctx, 10)
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeFileUpload, appErr.Code)
		docs.AssertCalled(t, "UpdateUploadStatus", ctx, int64(10), domain.UploadStatusDeleted)
		docs.AssertNotCalled(t, "Delete")
	})

	t.Run("Should delete object then row on the happy path", func(t *testing.T) {
		docs := new(MockDocumentRepo)
		storage := new(MockStorage)
		uc := usecase.NewDocumentUsecase(docs, new(MockCandidateRepo), storage)

		docs.On("GetByID", ctx, int64(10)).Return(stored, nil)
		storage.On("Delete", ctx, stored.FilePath).Return(nil)
		docs.On("Delete", ctx, int64(10)).Return(nil)

		assert.NoError(t, uc.Delete(ctx, 10))
		docs.AssertNotCalled(t, "UpdateUploadStatus")
	})

	t.Run("Should fail not found for absent document", func(t *testing.T) {
		docs := new(MockDocumentRepo)
		uc := usecase.NewDocumentUsecase(docs, new(MockCandidateRepo), new(MockStorage))
		docs.On("GetByID", ctx, int64(404)).Return(nil, nil)

		err := uc.Delete(ctx, 404)
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeNotFound, appErr.Code)
	})
}

func TestDocumentListWithURLs(t *testing.T) {
	ctx := context.Background()

	t.Run("Should tolerate per-document presign failure", func(t *testing.T) {
		candidates := new(MockCandidateRepo)
		docs := new(MockDocumentRepo)
		storage := new(MockStorage)
		uc := usecase.NewDocumentUsecase(docs, candidates, storage)

		candidates.On("GetByID", ctx, int64(1)).Return(&domain.Candidate{ID: 1}, nil)
		docs.On("GetByCandidateID", ctx, int64(1)).Return([]domain.Document{
			{ID: 1, FilePath: "candidates/1/cv/a.pdf"},
			{ID: 2, FilePath: "candidates/1/cv/b.pdf"},
		}, nil)
		storage.On("PresignDownload", ctx, "candidates/1/cv/a.pdf", time.Duration(0)).Return("https://store/a.pdf", nil)
		storage.On("PresignDownload", ctx, "candidates/1/cv/b.pdf", time.Duration(0)).Return("", errors.New("presign failed"))

		result, err := uc.GetByCandidateIDWithURLs(ctx, 1)
		assert.NoError(t, err)
		assert.Len(t, result, 2)
		assert.Equal(t, "https://store/a.pdf", result[0].DownloadURL)
		assert.Empty(t, result[1].DownloadURL)
	})
}

func TestDocumentGetByType(t *testing.T) {
	ctx := context.Background()

	candidates := new(MockCandidateRepo)
	docs := new(MockDocumentRepo)
	uc := usecase.NewDocumentUsecase(docs, candidates, new(MockStorage))

	candidates.On("GetByID", ctx, int64(1)).Return(&domain.Candidate{ID: 1}, nil)
	docs.On("GetByCandidateID", ctx, int64(1)).Return([]domain.Document{
		{ID: 1, DocumentType: domain.DocumentTypeCV},
		{ID: 2, DocumentType: domain.DocumentTypeCertificate},
		{ID: 3, DocumentType: domain.DocumentTypeCV},
	}, nil)

	result, err := uc.GetByType(ctx, 1, domain.DocumentTypeCV)
	assert.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestDocumentUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject transition out of DELETED", func(t *testing.T) {
		docs := new(MockDocumentRepo)
		uc := usecase.NewDocumentUsecase(docs, new(MockCandidateRepo), new(MockStorage))

		docs.On("GetByID", ctx, int64(1)).Return(&domain.Document{ID: 1, UploadStatus: domain.UploadStatusDeleted}, nil)

		_, err := uc.UpdateStatus(ctx, 1, domain.UploadStatusUploaded)
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
		docs.AssertNotCalled(t, "UpdateUploadStatus")
	})

	t.Run("Should promote PENDING to UPLOADED", func(t *testing.T) {
		docs := new(MockDocumentRepo)
		uc := usecase.NewDocumentUsecase(docs, new(MockCandidateRepo), new(MockStorage))

		docs.On("GetByID", ctx, int64(1)).Return(&domain.Document{ID: 1, UploadStatus: domain.UploadStatusPending}, nil)
		docs.On("UpdateUploadStatus", ctx, int64(1), domain.UploadStatusUploaded).
			Return(&domain.Document{ID: 1, UploadStatus: domain.UploadStatusUploaded}, nil)

		document, err := uc.UpdateStatus(ctx, 1, domain.UploadStatusUploaded)
		assert.NoError(t, err)
		assert.Equal(t, domain.UploadStatusUploaded, document.UploadStatus)
	})
}

func TestDocumentDownload(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return content with original name", func(t *testing.T) {
		docs := new(MockDocumentRepo)
		storage := new(MockStorage)
		uc := usecase.NewDocumentUsecase(docs, new(MockCandidateRepo), storage)

		docs.On("GetByID", ctx, int64(10)).Return(&domain.Document{
			ID: 10, FilePath: "candidates/1/cv/abc.pdf", OriginalName: "resume.pdf", MimeType: "application/pdf",
		}, nil)
		storage.On("Get", ctx, "candidates/1/cv/abc.pdf").Return([]byte("%PDF data"), nil)

		file, err := uc.Download(ctx, 10)
		assert.NoError(t, err)
		assert.Equal(t, "resume.pdf", file.FileName)
		assert.Equal(t, "application/pdf", file.MimeType)
	})

	t.Run("Should wrap storage read failure", func(t *testing.T) {
		docs := new(MockDocumentRepo)
		storage := new(MockStorage)
		uc := usecase.NewDocumentUsecase(docs, new(MockCandidateRepo), storage)

		docs.On("GetByID", ctx, int64(10)).Return(&domain.Document{ID: 10, FilePath: "p"}, nil)
		storage.On("Get", ctx, "p").Return(nil, errors.New("no such key"))

		_, err := uc.Download(ctx, 10)
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeFileUpload, appErr.Code)
	})
}
