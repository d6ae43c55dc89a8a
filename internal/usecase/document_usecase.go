package usecase

import (
	"context"
	"errors"
	"time"

	"ats-backend/internal/domain"
	"ats-backend/pkg/apperror"
	"ats-backend/pkg/logger"
)

type documentUsecase struct {
	docs       domain.DocumentRepository
	candidates domain.CandidateRepository
	storage    domain.DocumentStorage
}

func NewDocumentUsecase(docs domain.DocumentRepository, candidates domain.CandidateRepository, storage domain.DocumentStorage) domain.DocumentUsecase {
	return &documentUsecase{
		docs:       docs,
		candidates: candidates,
		storage:    storage,
	}
}

// Upload writes the binary to the object store first and only persists a
// metadata row once the write succeeded, so a storage failure never leaves an
// orphan row. The inverse gap remains: a row insert failure after a
// successful object write leaves an orphaned object.
func (u *documentUsecase) Upload(ctx context.Context, file *domain.FileUpload, candidateID int64, docType domain.DocumentType) (*domain.Document, error) {
	if err := u.ensureCandidateExists(ctx, candidateID); err != nil {
		return nil, err
	}

	result, err := u.storage.Upload(ctx, file, candidateID, docType)
	if err != nil {
		return nil, apperror.FileUpload("failed to upload document", err)
	}

	document, err := u.docs.Create(ctx, &domain.CreateDocumentInput{
		CandidateID:  candidateID,
		FileName:     result.FileName,
		OriginalName: result.OriginalName,
		MimeType:     result.MimeType,
		FileSize:     result.FileSize,
		FilePath:     result.FilePath,
		BucketName:   result.BucketName,
		Etag:         result.Etag,
		DocumentType: docType,
		UploadStatus: domain.UploadStatusUploaded,
	})
	if err != nil {
		logger.Log.Error("document row insert failed after object write, object orphaned",
			"filePath", result.FilePath, "candidateId", candidateID, "error", err)
		return nil, apperror.Business("failed to register uploaded document", err)
	}

	return document, nil
}

func (u *documentUsecase) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	if id <= 0 {
		return nil, apperror.Validation("invalid document id")
	}

	document, err := u.docs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, apperror.NotFound("document not found")
	}
	return document, nil
}

func (u *documentUsecase) GetByCandidateID(ctx context.Context, candidateID int64) ([]domain.Document, error) {
	if err := u.ensureCandidateExists(ctx, candidateID); err != nil {
		return nil, err
	}
	return u.docs.GetByCandidateID(ctx, candidateID)
}

// GetByCandidateIDWithURLs attaches a presigned download URL per document. A
// presign failure degrades that one document to an empty URL instead of
// failing the whole listing.
func (u *documentUsecase) GetByCandidateIDWithURLs(ctx context.Context, candidateID int64) ([]domain.DocumentWithURL, error) {
	documents, err := u.GetByCandidateID(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	withURLs := make([]domain.DocumentWithURL, 0, len(documents))
	for _, doc := range documents {
		url, err := u.storage.PresignDownload(ctx, doc.FilePath, 0)
		if err != nil {
			logger.Log.Error("failed to presign download URL", "documentId", doc.ID, "error", err)
			url = ""
		}
		withURLs = append(withURLs, domain.DocumentWithURL{Document: doc, DownloadURL: url})
	}
	return withURLs, nil
}

// GetByType filters the candidate's documents in memory; document counts per
// candidate are small enough that a dedicated query is not worth it.
func (u *documentUsecase) GetByType(ctx context.Context, candidateID int64, docType domain.DocumentType) ([]domain.Document, error) {
	documents, err := u.GetByCandidateID(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	filtered := []domain.Document{}
	for _, doc := range documents {
		if doc.DocumentType == docType {
			filtered = append(filtered, doc)
		}
	}
	return filtered, nil
}

func (u *documentUsecase) Download(ctx context.Context, id int64) (*domain.FileDownload, error) {
	document, err := u.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	content, err := u.storage.Get(ctx, document.FilePath)
	if err != nil {
		return nil, apperror.FileUpload("failed to download document", err)
	}

	return &domain.FileDownload{
		Content:  content,
		FileName: document.OriginalName,
		MimeType: document.MimeType,
	}, nil
}

func (u *documentUsecase) GetDownloadURL(ctx context.Context, id int64, expires time.Duration) (string, error) {
	document, err := u.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	url, err := u.storage.PresignDownload(ctx, document.FilePath, expires)
	if err != nil {
		return "", apperror.FileUpload("failed to generate download URL", err)
	}
	return url, nil
}

func (u *documentUsecase) GetPresignedUploadURL(ctx context.Context, candidateID int64, fileName string, docType domain.DocumentType, expires time.Duration) (*domain.PresignedUpload, error) {
	if err := u.ensureCandidateExists(ctx, candidateID); err != nil {
		return nil, err
	}

	presigned, err := u.storage.PresignUpload(ctx, candidateID, fileName, docType, expires)
	if err != nil {
		return nil, apperror.FileUpload("failed to generate upload URL", err)
	}
	return presigned, nil
}

// Delete removes the object first and the row second. When either step fails
// the row is marked DELETED as best-effort compensation and the original
// error still reaches the caller. An object whose deletion failed stays live
// in storage with no row pointing at it; this mark-and-alert window is a
// documented tradeoff, not a two-phase commit.
func (u *documentUsecase) Delete(ctx context.Context, id int64) error {
	document, err := u.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := u.storage.Delete(ctx, document.FilePath); err != nil {
		u.markDeleted(ctx, document.ID)
		return apperror.FileUpload("failed to delete document", err)
	}

	if err := u.docs.Delete(ctx, document.ID); err != nil {
		u.markDeleted(ctx, document.ID)
		return apperror.FileUpload("failed to delete document", err)
	}

	return nil
}

func (u *documentUsecase) UpdateStatus(ctx context.Context, id int64, status domain.UploadStatus) (*domain.Document, error) {
	document, err := u.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !document.UploadStatus.CanTransition(status) {
		return nil, apperror.Validation("invalid upload status transition")
	}

	updated, err := u.docs.UpdateUploadStatus(ctx, id, status)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperror.Business("failed to update document status", err)
	}
	return updated, nil
}

func (u *documentUsecase) ensureCandidateExists(ctx context.Context, candidateID int64) error {
	if candidateID <= 0 {
		return apperror.Validation("invalid candidate id")
	}
	candidate, err := u.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return err
	}
	if candidate == nil {
		return apperror.NotFound("candidate not found")
	}
	return nil
}

func (u *documentUsecase) markDeleted(ctx context.Context, id int64) {
	if _, err := u.docs.UpdateUploadStatus(ctx, id, domain.UploadStatusDeleted); err != nil {
		logger.Log.Error("failed to mark document as deleted", "documentId", id, "error", err)
	}
}
