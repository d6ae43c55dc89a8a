package v1

import (
	"net/http"
	"strconv"
	"time"

	"ats-backend/internal/delivery/http/response"
	"ats-backend/internal/domain"
	"ats-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
	recruiterID int64
}

func NewCandidateHandler(r *gin.RouterGroup, candidateUC domain.CandidateUsecase, recruiterID int64) {
	handler := &CandidateHandler{candidateUC: candidateUC, recruiterID: recruiterID}

	candidates := r.Group("/candidates")
	{
		candidates.POST("", handler.Create)
		candidates.GET("", handler.GetAll)
		candidates.GET("/search", handler.Search)
		candidates.GET("/:id", handler.GetByID)
		candidates.PUT("/:id", handler.Update)
		candidates.DELETE("/:id", handler.Delete)
	}
}

// Create godoc
// @Summary      Create candidate
// @Description  Create a candidate with optional nested educations and work experiences
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        candidate  body      domain.CreateCandidateInput  true  "Candidate payload"
// @Success      201  {object}  response.Response{data=domain.Candidate}
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /candidates [post]
func (h *CandidateHandler) Create(c *gin.Context) {
	var input domain.CreateCandidateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.Validation("invalid request body"))
		return
	}

	candidate, err := h.candidateUC.Create(c.Request.Context(), &input, h.recruiterID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Candidate created", candidate)
}

// GetAll godoc
// @Summary      List candidates
// @Description  Paginated candidate list with optional search and created-date range filters
// @Tags         candidates
// @Produce      json
// @Param        page       query     int     false  "Page number"
// @Param        limit      query     int     false  "Page size"
// @Param        search     query     string  false  "Substring match on name or email"
// @Param        startDate  query     string  false  "Created-at lower bound (YYYY-MM-DD)"
// @Param        endDate    query     string  false  "Created-at upper bound (YYYY-MM-DD)"
// @Success      200  {object}  response.Response{data=[]domain.Candidate}
// @Router       /candidates [get]
func (h *CandidateHandler) GetAll(c *gin.Context) {
	filters, err := parseCandidateFilters(c)
	if err != nil {
		c.Error(err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	result, err := h.candidateUC.GetAll(c.Request.Context(), filters, page, limit)
	if err != nil {
		c.Error(err)
		return
	}

	response.Paginated(c, http.StatusOK, "Candidates retrieved", result.Candidates, response.Pagination{
		Page:       result.Page,
		Limit:      result.Limit,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	})
}

// Search godoc
// @Summary      Search candidates
// @Tags         candidates
// @Produce      json
// @Param        q      query     string  true   "Search term, at least 2 characters"
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Page size"
// @Success      200  {object}  response.Response{data=[]domain.Candidate}
// @Failure      400  {object}  response.Response
// @Router       /candidates/search [get]
func (h *CandidateHandler) Search(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	result, err := h.candidateUC.Search(c.Request.Context(), c.Query("q"), page, limit)
	if err != nil {
		c.Error(err)
		return
	}

	response.Paginated(c, http.StatusOK, "Candidates retrieved", result.Candidates, response.Pagination{
		Page:       result.Page,
		Limit:      result.Limit,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	})
}

// GetByID godoc
// @Summary      Get candidate
// @Tags         candidates
// @Produce      json
// @Param        id   path      int  true  "Candidate ID"
// @Success      200  {object}  response.Response{data=domain.Candidate}
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [get]
func (h *CandidateHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	candidate, err := h.candidateUC.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate retrieved", candidate)
}

// Update godoc
// @Summary      Update candidate
// @Description  Partial update; a present educations/experiences array fully replaces the stored collection
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        id         path      int                          true  "Candidate ID"
// @Param        candidate  body      domain.UpdateCandidateInput  true  "Fields to update"
// @Success      200  {object}  response.Response{data=domain.Candidate}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /candidates/{id} [put]
func (h *CandidateHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var input domain.UpdateCandidateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.Validation("invalid request body"))
		return
	}

	candidate, err := h.candidateUC.Update(c.Request.Context(), id, &input)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate updated", candidate)
}

// Delete godoc
// @Summary      Delete candidate
// @Tags         candidates
// @Param        id   path  int  true  "Candidate ID"
// @Success      204
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [delete]
func (h *CandidateHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.candidateUC.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation("invalid " + name + " parameter")
	}
	return id, nil
}

func parseCandidateFilters(c *gin.Context) (domain.CandidateFilters, error) {
	filters := domain.CandidateFilters{Search: c.Query("search")}

	if v := c.Query("recruiterId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filters, apperror.Validation("invalid recruiterId parameter")
		}
		filters.RecruiterID = id
	}
	if v := c.Query("startDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filters, apperror.Validation("invalid startDate parameter")
		}
		filters.StartDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filters, apperror.Validation("invalid endDate parameter")
		}
		// inclusive upper bound on a date-only filter
		end := t.Add(24*time.Hour - time.Nanosecond)
		filters.EndDate = &end
	}
	return filters, nil
}
