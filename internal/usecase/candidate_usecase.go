package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"ats-backend/internal/domain"
	"ats-backend/pkg/apperror"
	"ats-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type candidateUsecase struct {
	repo         domain.CandidateRepository
	notifier     domain.CandidateNotifier
	validate     *validator.Validate
	defaultLimit int
	maxLimit     int
}

func NewCandidateUsecase(repo domain.CandidateRepository, notifier domain.CandidateNotifier, validate *validator.Validate, defaultLimit, maxLimit int) domain.CandidateUsecase {
	return &candidateUsecase{
		repo:         repo,
		notifier:     notifier,
		validate:     validate,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

func (u *candidateUsecase) Create(ctx context.Context, input *domain.CreateCandidateInput, recruiterID int64) (*domain.Candidate, error) {
	if err := u.validate.Struct(input); err != nil {
		return nil, apperror.Validation(strings.Join(validation.FormatValidationErrors(err), ", "))
	}

	normalizeEducations(input.Educations)
	normalizeExperiences(input.Experiences)

	existing, err := u.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperror.Business("failed to check candidate email", err)
	}
	if existing != nil {
		return nil, apperror.DuplicateEmail("a candidate with this email already exists")
	}

	candidate, err := u.repo.Create(ctx, input, recruiterID)
	if err != nil {
		if isConflict(err) {
			return nil, apperror.DuplicateEmail("a candidate with this email already exists")
		}
		return nil, apperror.Business("failed to create candidate", err)
	}

	u.notifier.CandidateCreated(candidate)
	return candidate, nil
}

func (u *candidateUsecase) GetByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	if id <= 0 {
		return nil, apperror.Validation("invalid candidate id")
	}

	candidate, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, apperror.NotFound("candidate not found")
	}
	return candidate, nil
}

func (u *candidateUsecase) GetAll(ctx context.Context, filters domain.CandidateFilters, page, limit int) (*domain.CandidatePage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = u.defaultLimit
	}
	if limit > u.maxLimit {
		limit = u.maxLimit
	}

	offset := (page - 1) * limit
	candidates, total, err := u.repo.Fetch(ctx, filters, limit, offset)
	if err != nil {
		return nil, err
	}
	if candidates == nil {
		candidates = []domain.Candidate{}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &domain.CandidatePage{
		Candidates: candidates,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (u *candidateUsecase) Update(ctx context.Context, id int64, input *domain.UpdateCandidateInput) (*domain.Candidate, error) {
	if _, err := u.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := u.validate.Struct(input); err != nil {
		return nil, apperror.Validation(strings.Join(validation.FormatValidationErrors(err), ", "))
	}

	normalizeEducations(input.Educations)
	normalizeExperiences(input.Experiences)

	if input.Email != nil {
		existing, err := u.repo.GetByEmail(ctx, *input.Email)
		if err != nil {
			return nil, apperror.Business("failed to check candidate email", err)
		}
		if existing != nil && existing.ID != id {
			return nil, apperror.DuplicateEmail("another candidate with this email already exists")
		}
	}

	candidate, err := u.repo.Update(ctx, id, input)
	if err != nil {
		if isConflict(err) {
			return nil, apperror.DuplicateEmail("another candidate with this email already exists")
		}
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperror.Business("failed to update candidate", err)
	}

	u.notifier.CandidateUpdated(candidate)
	return candidate, nil
}

func (u *candidateUsecase) Delete(ctx context.Context, id int64) error {
	if _, err := u.GetByID(ctx, id); err != nil {
		return err
	}

	if err := u.repo.Delete(ctx, id); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return apperror.Business("failed to delete candidate", err)
	}
	return nil
}

func (u *candidateUsecase) Search(ctx context.Context, term string, page, limit int) (*domain.CandidatePage, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < 2 {
		return nil, apperror.Validation("search term must be at least 2 characters")
	}

	return u.GetAll(ctx, domain.CandidateFilters{Search: term}, page, limit)
}

// normalizeEducations clears the end date of entries flagged as current,
// whatever the client sent.
func normalizeEducations(items []domain.EducationInput) {
	for i := range items {
		if items[i].IsCurrent {
			items[i].EndDate = nil
		}
	}
}

func normalizeExperiences(items []domain.ExperienceInput) {
	for i := range items {
		if items[i].IsCurrent {
			items[i].EndDate = nil
		}
	}
}

func isConflict(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Status == http.StatusConflict
}
