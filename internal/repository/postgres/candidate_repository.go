package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ats-backend/internal/domain"
	"ats-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type candidateRepository struct {
	db *pgxpool.Pool
}

func NewCandidateRepository(db *pgxpool.Pool) domain.CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) Create(ctx context.Context, input *domain.CreateCandidateInput, recruiterID int64) (*domain.Candidate, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var candidateID int64
	insertQuery := `
		INSERT INTO candidates (first_name, last_name, email, phone, address, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id`
	err = tx.QueryRow(ctx, insertQuery,
		input.FirstName, input.LastName, input.Email, input.Phone, input.Address, recruiterID,
	).Scan(&candidateID)
	if err != nil {
		return nil, translateError(err)
	}

	if err := insertEducations(ctx, tx, candidateID, input.Educations); err != nil {
		return nil, err
	}
	if err := insertExperiences(ctx, tx, candidateID, input.Experiences); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, candidateID)
}

func (r *candidateRepository) GetByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	query := `
		SELECT c.id, c.first_name, c.last_name, c.email, c.phone, c.address,
		       c.created_by, c.created_at, c.updated_at,
		       r.id, r.name, r.email
		FROM candidates c
		JOIN recruiters r ON c.created_by = r.id
		WHERE c.id = $1`

	var c domain.Candidate
	var rec domain.RecruiterRef
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
		&rec.ID, &rec.Name, &rec.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	c.Recruiter = &rec

	if err := r.loadRelations(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *candidateRepository) GetByEmail(ctx context.Context, email string) (*domain.Candidate, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, address, created_by, created_at, updated_at
		FROM candidates WHERE email = $1`

	var c domain.Candidate
	err := r.db.QueryRow(ctx, query, email).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *candidateRepository) Fetch(ctx context.Context, filters domain.CandidateFilters, limit, offset int) ([]domain.Candidate, int64, error) {
	where, args := buildCandidateFilters(filters)

	var total int64
	countQuery := `SELECT COUNT(*) FROM candidates c` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT c.id, c.first_name, c.last_name, c.email, c.phone, c.address,
		       c.created_by, c.created_at, c.updated_at,
		       r.id, r.name, r.email
		FROM candidates c
		JOIN recruiters r ON c.created_by = r.id
		%s
		ORDER BY c.created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var candidates []domain.Candidate
	for rows.Next() {
		var c domain.Candidate
		var rec domain.RecruiterRef
		err := rows.Scan(
			&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address,
			&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
			&rec.ID, &rec.Name, &rec.Email,
		)
		if err != nil {
			return nil, 0, err
		}
		c.Recruiter = &rec
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range candidates {
		if err := r.loadRelations(ctx, &candidates[i]); err != nil {
			return nil, 0, err
		}
	}

	return candidates, total, nil
}

func (r *candidateRepository) Update(ctx context.Context, id int64, input *domain.UpdateCandidateInput) (*domain.Candidate, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	set := []string{"updated_at = NOW()"}
	args := []any{}
	addSet := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if input.FirstName != nil {
		addSet("first_name", *input.FirstName)
	}
	if input.LastName != nil {
		addSet("last_name", *input.LastName)
	}
	if input.Email != nil {
		addSet("email", *input.Email)
	}
	if input.Phone != nil {
		addSet("phone", *input.Phone)
	}
	if input.Address != nil {
		addSet("address", *input.Address)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE candidates SET %s WHERE id = $%d`, strings.Join(set, ", "), len(args))

	cmdTag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperror.NotFound("candidate not found")
	}

	// Full replace of nested collections when provided (delete all, insert new)
	if input.Educations != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM educations WHERE candidate_id = $1`, id); err != nil {
			return nil, fmt.Errorf("failed to delete educations: %w", err)
		}
		if err := insertEducations(ctx, tx, id, input.Educations); err != nil {
			return nil, err
		}
	}
	if input.Experiences != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM work_experiences WHERE candidate_id = $1`, id); err != nil {
			return nil, fmt.Errorf("failed to delete work experiences: %w", err)
		}
		if err := insertExperiences(ctx, tx, id, input.Experiences); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *candidateRepository) Delete(ctx context.Context, id int64) error {
	// Educations, experiences and documents cascade at the schema level
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NotFound("candidate not found")
	}
	return nil
}

// loadRelations fills the owned collections of a candidate.
func (r *candidateRepository) loadRelations(ctx context.Context, c *domain.Candidate) error {
	c.Educations = []domain.Education{}
	c.Experiences = []domain.WorkExperience{}
	c.Documents = []domain.Document{}

	eduQuery := `
		SELECT id, candidate_id, institution, degree, field_of_study, start_date, end_date, is_current, description
		FROM educations WHERE candidate_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, eduQuery, c.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch educations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.Education
		var startDate, endDate *time.Time
		err := rows.Scan(&e.ID, &e.CandidateID, &e.Institution, &e.Degree, &e.FieldOfStudy,
			&startDate, &endDate, &e.IsCurrent, &e.Description)
		if err != nil {
			return err
		}
		e.StartDate = formatDate(startDate)
		e.EndDate = formatDate(endDate)
		c.Educations = append(c.Educations, e)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	expQuery := `
		SELECT id, candidate_id, company, position, start_date, end_date, is_current, description
		FROM work_experiences WHERE candidate_id = $1 ORDER BY id`
	expRows, err := r.db.Query(ctx, expQuery, c.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch work experiences: %w", err)
	}
	defer expRows.Close()

	for expRows.Next() {
		var w domain.WorkExperience
		var startDate time.Time
		var endDate *time.Time
		err := expRows.Scan(&w.ID, &w.CandidateID, &w.Company, &w.Position,
			&startDate, &endDate, &w.IsCurrent, &w.Description)
		if err != nil {
			return err
		}
		w.StartDate = startDate.Format("2006-01-02")
		w.EndDate = formatDate(endDate)
		c.Experiences = append(c.Experiences, w)
	}
	if err := expRows.Err(); err != nil {
		return err
	}

	docQuery := `
		SELECT id, candidate_id, file_name, original_name, mime_type, file_size, file_path,
		       bucket_name, etag, document_type, upload_status, created_at, updated_at
		FROM documents WHERE candidate_id = $1 ORDER BY created_at DESC`
	docRows, err := r.db.Query(ctx, docQuery, c.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch documents: %w", err)
	}
	defer docRows.Close()

	for docRows.Next() {
		var d domain.Document
		err := docRows.Scan(&d.ID, &d.CandidateID, &d.FileName, &d.OriginalName, &d.MimeType,
			&d.FileSize, &d.FilePath, &d.BucketName, &d.Etag, &d.DocumentType, &d.UploadStatus,
			&d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return err
		}
		c.Documents = append(c.Documents, d)
	}
	return docRows.Err()
}

func buildCandidateFilters(filters domain.CandidateFilters) (string, []any) {
	var conditions []string
	var args []any

	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(c.first_name ILIKE $%d OR c.last_name ILIKE $%d OR c.email ILIKE $%d)", n, n, n))
	}
	if filters.RecruiterID != 0 {
		args = append(args, filters.RecruiterID)
		conditions = append(conditions, fmt.Sprintf("c.created_by = $%d", len(args)))
	}
	if filters.StartDate != nil {
		args = append(args, *filters.StartDate)
		conditions = append(conditions, fmt.Sprintf("c.created_at >= $%d", len(args)))
	}
	if filters.EndDate != nil {
		args = append(args, *filters.EndDate)
		conditions = append(conditions, fmt.Sprintf("c.created_at <= $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func insertEducations(ctx context.Context, tx pgx.Tx, candidateID int64, items []domain.EducationInput) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO educations (candidate_id, institution, degree, field_of_study, start_date, end_date, is_current, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, e := range items {
		end := e.EndDate
		if e.IsCurrent {
			// current entries never store an end date
			end = nil
		}
		_, err := tx.Exec(ctx, query, candidateID, e.Institution, e.Degree, e.FieldOfStudy,
			parseDate(e.StartDate), parseDate(end), e.IsCurrent, e.Description)
		if err != nil {
			return fmt.Errorf("failed to insert education: %w", err)
		}
	}
	return nil
}

func insertExperiences(ctx context.Context, tx pgx.Tx, candidateID int64, items []domain.ExperienceInput) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO work_experiences (candidate_id, company, position, start_date, end_date, is_current, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, w := range items {
		start, err := time.Parse("2006-01-02", w.StartDate)
		if err != nil {
			return fmt.Errorf("invalid experience start date %q: %w", w.StartDate, err)
		}
		end := w.EndDate
		if w.IsCurrent {
			end = nil
		}
		_, err = tx.Exec(ctx, query, candidateID, w.Company, w.Position,
			start, parseDate(end), w.IsCurrent, w.Description)
		if err != nil {
			return fmt.Errorf("failed to insert work experience: %w", err)
		}
	}
	return nil
}

func parseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
