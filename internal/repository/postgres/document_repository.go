package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ats-backend/internal/domain"
	"ats-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const documentColumns = `id, candidate_id, file_name, original_name, mime_type, file_size, file_path,
	bucket_name, etag, document_type, upload_status, created_at, updated_at`

type documentRepository struct {
	db *pgxpool.Pool
}

func NewDocumentRepository(db *pgxpool.Pool) domain.DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, input *domain.CreateDocumentInput) (*domain.Document, error) {
	status := input.UploadStatus
	if status == "" {
		status = domain.UploadStatusPending
	}

	query := `
		INSERT INTO documents (candidate_id, file_name, original_name, mime_type, file_size,
			file_path, bucket_name, etag, document_type, upload_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING ` + documentColumns

	var d domain.Document
	err := r.db.QueryRow(ctx, query,
		input.CandidateID, input.FileName, input.OriginalName, input.MimeType, input.FileSize,
		input.FilePath, input.BucketName, input.Etag, input.DocumentType, status,
	).Scan(scanDocumentFields(&d)...)
	if err != nil {
		return nil, translateError(err)
	}
	return &d, nil
}

func (r *documentRepository) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	var d domain.Document
	err := r.db.QueryRow(ctx, query, id).Scan(scanDocumentFields(&d)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *documentRepository) GetByCandidateID(ctx context.Context, candidateID int64) ([]domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE candidate_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	documents := []domain.Document{}
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(scanDocumentFields(&d)...); err != nil {
			return nil, err
		}
		documents = append(documents, d)
	}
	return documents, rows.Err()
}

func (r *documentRepository) GetByFilePath(ctx context.Context, filePath string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE file_path = $1`

	var d domain.Document
	err := r.db.QueryRow(ctx, query, filePath).Scan(scanDocumentFields(&d)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *documentRepository) Update(ctx context.Context, id int64, input *domain.UpdateDocumentInput) (*domain.Document, error) {
	set := []string{"updated_at = NOW()"}
	args := []any{}
	addSet := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if input.FileName != nil {
		addSet("file_name", *input.FileName)
	}
	if input.OriginalName != nil {
		addSet("original_name", *input.OriginalName)
	}
	if input.MimeType != nil {
		addSet("mime_type", *input.MimeType)
	}
	if input.FileSize != nil {
		addSet("file_size", *input.FileSize)
	}
	if input.FilePath != nil {
		addSet("file_path", *input.FilePath)
	}
	if input.BucketName != nil {
		addSet("bucket_name", *input.BucketName)
	}
	if input.Etag != nil {
		addSet("etag", *input.Etag)
	}
	if input.DocumentType != nil {
		addSet("document_type", *input.DocumentType)
	}
	if input.UploadStatus != nil {
		addSet("upload_status", *input.UploadStatus)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE documents SET %s WHERE id = $%d RETURNING `+documentColumns,
		strings.Join(set, ", "), len(args))

	var d domain.Document
	err := r.db.QueryRow(ctx, query, args...).Scan(scanDocumentFields(&d)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("document not found")
		}
		return nil, translateError(err)
	}
	return &d, nil
}

func (r *documentRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NotFound("document not found")
	}
	return nil
}

// UpdateUploadStatus is the compensation primitive used when the object store
// and the database disagree.
func (r *documentRepository) UpdateUploadStatus(ctx context.Context, id int64, status domain.UploadStatus) (*domain.Document, error) {
	query := `UPDATE documents SET upload_status = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + documentColumns

	var d domain.Document
	err := r.db.QueryRow(ctx, query, status, id).Scan(scanDocumentFields(&d)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("document not found")
		}
		return nil, err
	}
	return &d, nil
}

func scanDocumentFields(d *domain.Document) []any {
	return []any{
		&d.ID, &d.CandidateID, &d.FileName, &d.OriginalName, &d.MimeType, &d.FileSize,
		&d.FilePath, &d.BucketName, &d.Etag, &d.DocumentType, &d.UploadStatus,
		&d.CreatedAt, &d.UpdatedAt,
	}
}
