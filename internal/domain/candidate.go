package domain

import (
	"context"
	"time"
)

// RecruiterRef is the minimal recruiter projection attached to candidate reads.
// Recruiter lifecycle is out of scope; a configured default recruiter is used
// at creation time while there is no auth system.
type RecruiterRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Education struct {
	ID           int64   `json:"id"`
	CandidateID  int64   `json:"candidateId"`
	Institution  string  `json:"institution"`
	Degree       string  `json:"degree"`
	FieldOfStudy string  `json:"fieldOfStudy"`
	StartDate    *string `json:"startDate"`
	EndDate      *string `json:"endDate"`
	IsCurrent    bool    `json:"isCurrent"`
	Description  string  `json:"description"`
}

type WorkExperience struct {
	ID          int64   `json:"id"`
	CandidateID int64   `json:"candidateId"`
	Company     string  `json:"company"`
	Position    string  `json:"position"`
	StartDate   string  `json:"startDate"`
	EndDate     *string `json:"endDate"`
	IsCurrent   bool    `json:"isCurrent"`
	Description string  `json:"description"`
}

type Candidate struct {
	ID          int64            `json:"id"`
	FirstName   string           `json:"firstName"`
	LastName    string           `json:"lastName"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone"`
	Address     string           `json:"address"`
	CreatedBy   int64            `json:"createdBy"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Educations  []Education      `json:"educations"`
	Experiences []WorkExperience `json:"experiences"`
	Documents   []Document       `json:"documents"`
	Recruiter   *RecruiterRef    `json:"recruiter,omitempty"`
}

// EducationInput carries one education entry of a create/update payload.
// Dates cross the API as YYYY-MM-DD strings.
type EducationInput struct {
	Institution  string  `json:"institution" validate:"required,max=255"`
	Degree       string  `json:"degree" validate:"required,max=255"`
	FieldOfStudy string  `json:"fieldOfStudy" validate:"omitempty,max=255"`
	StartDate    *string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate      *string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	IsCurrent    bool    `json:"isCurrent"`
	Description  string  `json:"description"`
}

type ExperienceInput struct {
	Company     string  `json:"company" validate:"required,max=255"`
	Position    string  `json:"position" validate:"required,max=255"`
	StartDate   string  `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     *string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	IsCurrent   bool    `json:"isCurrent"`
	Description string  `json:"description"`
}

type CreateCandidateInput struct {
	FirstName   string            `json:"firstName" validate:"required,max=100"`
	LastName    string            `json:"lastName" validate:"required,max=100"`
	Email       string            `json:"email" validate:"required,email,max=255"`
	Phone       string            `json:"phone" validate:"required,valid_phone"`
	Address     string            `json:"address" validate:"required,max=255,valid_address"`
	Educations  []EducationInput  `json:"educations" validate:"omitempty,dive"`
	Experiences []ExperienceInput `json:"experiences" validate:"omitempty,dive"`
}

// UpdateCandidateInput is the partial-update shape: every top-level field is
// optional. A nil Educations/Experiences slice means "leave untouched"; a
// non-nil slice (including empty) fully replaces the stored collection.
type UpdateCandidateInput struct {
	FirstName   *string           `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName    *string           `json:"lastName" validate:"omitempty,min=1,max=100"`
	Email       *string           `json:"email" validate:"omitempty,email,max=255"`
	Phone       *string           `json:"phone" validate:"omitempty,valid_phone"`
	Address     *string           `json:"address" validate:"omitempty,min=1,max=255,valid_address"`
	Educations  []EducationInput  `json:"educations" validate:"omitempty,dive"`
	Experiences []ExperienceInput `json:"experiences" validate:"omitempty,dive"`
}

type CandidateFilters struct {
	Search      string
	RecruiterID int64
	StartDate   *time.Time
	EndDate     *time.Time
}

type CandidatePage struct {
	Candidates []Candidate `json:"candidates"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"totalPages"`
}

type CandidateRepository interface {
	// Create persists the candidate and its nested collections in one
	// transaction and returns the joined record.
	Create(ctx context.Context, input *CreateCandidateInput, recruiterID int64) (*Candidate, error)
	// GetByID returns nil, nil when no candidate exists.
	GetByID(ctx context.Context, id int64) (*Candidate, error)
	GetByEmail(ctx context.Context, email string) (*Candidate, error)
	Fetch(ctx context.Context, filters CandidateFilters, limit, offset int) ([]Candidate, int64, error)
	// Update fully replaces nested collections when they are present on input.
	Update(ctx context.Context, id int64, input *UpdateCandidateInput) (*Candidate, error)
	Delete(ctx context.Context, id int64) error
}

type CandidateUsecase interface {
	Create(ctx context.Context, input *CreateCandidateInput, recruiterID int64) (*Candidate, error)
	GetByID(ctx context.Context, id int64) (*Candidate, error)
	GetAll(ctx context.Context, filters CandidateFilters, page, limit int) (*CandidatePage, error)
	Update(ctx context.Context, id int64, input *UpdateCandidateInput) (*Candidate, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, term string, page, limit int) (*CandidatePage, error)
}

// CandidateNotifier dispatches candidate lifecycle emails. Implementations are
// fire-and-forget: failures are logged, never surfaced to the caller.
type CandidateNotifier interface {
	CandidateCreated(candidate *Candidate)
	CandidateUpdated(candidate *Candidate)
}
