package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type DocumentType string

const (
	DocumentTypeCV          DocumentType = "CV"
	DocumentTypeCoverLetter DocumentType = "COVER_LETTER"
	DocumentTypeCertificate DocumentType = "CERTIFICATE"
	DocumentTypeOther       DocumentType = "OTHER"
)

// ParseDocumentType maps a request value onto the closed document type set.
// An empty value defaults to CV.
func ParseDocumentType(s string) (DocumentType, error) {
	switch DocumentType(strings.ToUpper(strings.TrimSpace(s))) {
	case "":
		return DocumentTypeCV, nil
	case DocumentTypeCV:
		return DocumentTypeCV, nil
	case DocumentTypeCoverLetter:
		return DocumentTypeCoverLetter, nil
	case DocumentTypeCertificate:
		return DocumentTypeCertificate, nil
	case DocumentTypeOther:
		return DocumentTypeOther, nil
	default:
		return "", fmt.Errorf("invalid document type: %q", s)
	}
}

type UploadStatus string

const (
	UploadStatusPending  UploadStatus = "PENDING"
	UploadStatusUploaded UploadStatus = "UPLOADED"
	UploadStatusFailed   UploadStatus = "FAILED"
	UploadStatusDeleted  UploadStatus = "DELETED"
)

func ParseUploadStatus(s string) (UploadStatus, error) {
	switch UploadStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case UploadStatusPending:
		return UploadStatusPending, nil
	case UploadStatusUploaded:
		return UploadStatusUploaded, nil
	case UploadStatusFailed:
		return UploadStatusFailed, nil
	case UploadStatusDeleted:
		return UploadStatusDeleted, nil
	default:
		return "", fmt.Errorf("invalid upload status: %q", s)
	}
}

// CanTransition reports whether the status may move to next. DELETED is
// terminal, and nothing transitions back to PENDING or UPLOADED except the
// PENDING -> UPLOADED promotion itself.
func (s UploadStatus) CanTransition(next UploadStatus) bool {
	if s == next {
		return false
	}
	switch s {
	case UploadStatusPending:
		return next == UploadStatusUploaded || next == UploadStatusFailed || next == UploadStatusDeleted
	case UploadStatusUploaded:
		return next == UploadStatusDeleted
	case UploadStatusFailed:
		return next == UploadStatusDeleted
	default: // DELETED
		return false
	}
}

type Document struct {
	ID           int64        `json:"id"`
	CandidateID  int64        `json:"candidateId"`
	FileName     string       `json:"fileName"`
	OriginalName string       `json:"originalName"`
	MimeType     string       `json:"mimeType"`
	FileSize     int64        `json:"fileSize"`
	FilePath     string       `json:"filePath"`
	BucketName   string       `json:"bucketName"`
	Etag         string       `json:"etag"`
	DocumentType DocumentType `json:"documentType"`
	UploadStatus UploadStatus `json:"uploadStatus"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// DocumentWithURL attaches a presigned download URL to a document read. The
// URL is empty when presigning failed for that document.
type DocumentWithURL struct {
	Document
	DownloadURL string `json:"downloadUrl,omitempty"`
}

type CreateDocumentInput struct {
	CandidateID  int64
	FileName     string
	OriginalName string
	MimeType     string
	FileSize     int64
	FilePath     string
	BucketName   string
	Etag         string
	DocumentType DocumentType
	UploadStatus UploadStatus
}

type UpdateDocumentInput struct {
	FileName     *string
	OriginalName *string
	MimeType     *string
	FileSize     *int64
	FilePath     *string
	BucketName   *string
	Etag         *string
	DocumentType *DocumentType
	UploadStatus *UploadStatus
}

// FileUpload is an in-memory file received from a multipart request.
type FileUpload struct {
	Content      []byte
	OriginalName string
	MimeType     string
	Size         int64
}

type FileDownload struct {
	Content  []byte
	FileName string
	MimeType string
}

// UploadResult describes an object successfully written to storage.
type UploadResult struct {
	FileName     string `json:"fileName"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	FileSize     int64  `json:"fileSize"`
	FilePath     string `json:"filePath"`
	BucketName   string `json:"bucketName"`
	Etag         string `json:"etag"`
}

// PresignedUpload carries a time-limited PUT URL plus the generated object
// name and path, so the caller can register metadata after the client-side
// upload completes.
type PresignedUpload struct {
	UploadURL string `json:"uploadUrl"`
	FileName  string `json:"fileName"`
	FilePath  string `json:"filePath"`
}

type FileStat struct {
	Size         int64     `json:"size"`
	ContentType  string    `json:"contentType"`
	Etag         string    `json:"etag"`
	LastModified time.Time `json:"lastModified"`
}

type DocumentRepository interface {
	Create(ctx context.Context, input *CreateDocumentInput) (*Document, error)
	// GetByID returns nil, nil when no document exists.
	GetByID(ctx context.Context, id int64) (*Document, error)
	// GetByCandidateID returns documents ordered newest-first.
	GetByCandidateID(ctx context.Context, candidateID int64) ([]Document, error)
	GetByFilePath(ctx context.Context, filePath string) (*Document, error)
	Update(ctx context.Context, id int64, input *UpdateDocumentInput) (*Document, error)
	Delete(ctx context.Context, id int64) error
	UpdateUploadStatus(ctx context.Context, id int64, status UploadStatus) (*Document, error)
}

// DocumentStorage is the object-store boundary, independent of the relational
// store.
type DocumentStorage interface {
	Upload(ctx context.Context, file *FileUpload, candidateID int64, docType DocumentType) (*UploadResult, error)
	Get(ctx context.Context, filePath string) ([]byte, error)
	Delete(ctx context.Context, filePath string) error
	PresignDownload(ctx context.Context, filePath string, expires time.Duration) (string, error)
	PresignUpload(ctx context.Context, candidateID int64, fileName string, docType DocumentType, expires time.Duration) (*PresignedUpload, error)
	List(ctx context.Context, candidateID int64) ([]string, error)
	Stat(ctx context.Context, filePath string) (*FileStat, error)
}

type DocumentUsecase interface {
	Upload(ctx context.Context, file *FileUpload, candidateID int64, docType DocumentType) (*Document, error)
	GetByID(ctx context.Context, id int64) (*Document, error)
	GetByCandidateID(ctx context.Context, candidateID int64) ([]Document, error)
	GetByCandidateIDWithURLs(ctx context.Context, candidateID int64) ([]DocumentWithURL, error)
	GetByType(ctx context.Context, candidateID int64, docType DocumentType) ([]Document, error)
	Download(ctx context.Context, id int64) (*FileDownload, error)
	GetDownloadURL(ctx context.Context, id int64, expires time.Duration) (string, error)
	GetPresignedUploadURL(ctx context.Context, candidateID int64, fileName string, docType DocumentType, expires time.Duration) (*PresignedUpload, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status UploadStatus) (*Document, error)
}
