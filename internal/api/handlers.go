package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"jt-go/internal/jt"
	"jt-go/internal/model"
)

type commandRequest struct {
	Text string `json:"text" binding:"required"`
}

type outcomeResponse struct {
	Kind     string `json:"kind"`
	Intent   string `json:"intent"`
	ID       string `json:"id,omitempty"`
	Company  string `json:"company,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Error    string `json:"error,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
	Message  string `json:"message"`
}

type eventResponse struct {
	Sequence   int64     `json:"sequence"`
	OccurredAt time.Time `json:"occurred_at"`
	Status     string    `json:"status"`
	Note       string    `json:"note"`
}

type applicationResponse struct {
	ID             string          `json:"id"`
	Company        string          `json:"company"`
	Role           string          `json:"role"`
	Status         string          `json:"status"`
	AppliedDate    string          `json:"applied_date"`
	Notes          string          `json:"notes,omitempty"`
	Location       string          `json:"location,omitempty"`
	SalaryRange    string          `json:"salary_range,omitempty"`
	JobURL         string          `json:"job_url,omitempty"`
	JobDescription string          `json:"job_description,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Timeline       []eventResponse `json:"timeline,omitempty"`
}

type factResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	SourceTag string    `json:"source_tag"`
	CreatedAt time.Time `json:"created_at"`
}

func toOutcomeResponse(o jt.Outcome) outcomeResponse {
	r := outcomeResponse{
		Kind:     o.Kind.String(),
		Intent:   o.Intent.String(),
		ID:       o.ID,
		Company:  o.Company,
		Reason:   o.Reason,
		Fallback: o.Fallback,
		Message:  o.Message(),
	}
	if o.Err != nil {
		r.Error = o.Err.Error()
	}
	return r
}

func toApplicationResponse(a *model.Application) applicationResponse {
	r := applicationResponse{
		ID:             a.ID,
		Company:        a.Company,
		Role:           a.Role,
		Status:         string(a.Status),
		AppliedDate:    a.AppliedDate.Format(time.DateOnly),
		Notes:          a.Notes,
		Location:       a.Location,
		SalaryRange:    a.SalaryRange,
		JobURL:         a.JobURL,
		JobDescription: a.JobDescription,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
	for _, ev := range a.Timeline {
		r.Timeline = append(r.Timeline, eventResponse{
			Sequence:   ev.Sequence,
			OccurredAt: ev.OccurredAt,
			Status:     string(ev.Status),
			Note:       ev.Note,
		})
	}
	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleCommand routes one utterance. Rejections are reported in the body with
// status 200: the command was understood and answered, it just changed nothing.
func (s *Server) handleCommand(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	out := s.svc.Handle(c.Request.Context(), req.Text)
	status := http.StatusOK
	switch out.Kind {
	case jt.OutcomeApplicationCreated, jt.OutcomeFactStored:
		status = http.StatusCreated
	}
	c.JSON(status, toOutcomeResponse(out))
}

func (s *Server) listApplications(c *gin.Context) {
	filter := jt.ApplicationFilter{
		Company: c.Query("company"),
		SortBy:  "applied_date",
		Desc:    true,
	}
	if st := c.Query("status"); st != "" {
		status, ok := model.ParseStatus(st)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status: " + st})
			return
		}
		filter.Status = status
	}
	apps, err := s.svc.ListApplications(c.Request.Context(), filter)
	if err != nil {
		s.internalError(c, err)
		return
	}
	out := make([]applicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, toApplicationResponse(a))
	}
	c.JSON(http.StatusOK, gin.H{"applications": out})
}

func (s *Server) getApplication(c *gin.Context) {
	app, err := s.svc.GetApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		if jt.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, toApplicationResponse(app))
}

// listFacts returns recent facts, or the best matches for q when it is set.
func (s *Server) listFacts(c *gin.Context) {
	limit := 50
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	var facts []*model.Fact
	var err error
	if q := c.Query("q"); q != "" {
		facts, err = s.svc.SearchFacts(c.Request.Context(), q, limit)
	} else {
		facts, err = s.svc.ListFacts(c.Request.Context(), c.Query("tag"), limit)
	}
	if err != nil {
		if errors.Is(err, jt.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.internalError(c, err)
		return
	}
	out := make([]factResponse, 0, len(facts))
	for _, f := range facts {
		out = append(out, factResponse{ID: f.ID, Text: f.Text, SourceTag: f.SourceTag, CreatedAt: f.CreatedAt})
	}
	c.JSON(http.StatusOK, gin.H{"facts": out})
}

func (s *Server) internalError(c *gin.Context, err error) {
	s.logger.Error("request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
