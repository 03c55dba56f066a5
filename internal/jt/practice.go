package jt

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"jt-go/internal/model"
)

// PracticeSessionTypes is the vocabulary of practice session types.
var PracticeSessionTypes = []string{"mock_interview", "questions", "coding", "system_design", "other"}

// NewConcept is the input to AddConcept.
type NewConcept struct {
	Name        string
	Category    string
	Explanation string
	Example     string
	Tags        []string
}

// AddConcept stores a technical concept.
func (s *JTService) AddConcept(ctx context.Context, in NewConcept) (*model.Concept, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: concept name is empty", ErrValidation)
	}
	now := s.clock.Now()
	c := &model.Concept{
		ID:          s.idgen.New(),
		Name:        name,
		Category:    strings.ToLower(strings.TrimSpace(in.Category)),
		Explanation: strings.TrimSpace(in.Explanation),
		Example:     strings.TrimSpace(in.Example),
		Tags:        cleanTags(in.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.database.CreateConcept(ctx, c); err != nil {
		return nil, fmt.Errorf("creating concept: %w", err)
	}
	return c, nil
}

// ListConcepts returns concepts ordered by name, optionally filtered.
func (s *JTService) ListConcepts(ctx context.Context, category, tag string) ([]*model.Concept, error) {
	cs, err := s.database.ListConcepts(ctx, strings.TrimSpace(category), strings.TrimSpace(tag))
	if err != nil {
		return nil, fmt.Errorf("listing concepts: %w", err)
	}
	return cs, nil
}

// DeleteConcept removes a concept.
func (s *JTService) DeleteConcept(ctx context.Context, id string) error {
	return s.database.DeleteConcept(ctx, id)
}

// NewPracticeSession is the input to LogPracticeSession.
type NewPracticeSession struct {
	Type            string
	Date            time.Time // zero means today in the profile's time zone
	DurationMinutes int
	Company         string
	QuestionIDs     []string
	Rating          int // 1-5, 0 when unrated
	Notes           string
}

// LogPracticeSession records a practice session. Every listed question is
// marked practiced in the same transaction.
func (s *JTService) LogPracticeSession(ctx context.Context, in NewPracticeSession) (*model.PracticeSession, error) {
	typ := strings.ToLower(strings.TrimSpace(in.Type))
	if typ == "" {
		typ = "other"
		if len(in.QuestionIDs) > 0 {
			typ = "questions"
		}
	}
	if !slices.Contains(PracticeSessionTypes, typ) {
		return nil, fmt.Errorf("%w: unknown session type %q (want one of %s)", ErrValidation, in.Type, strings.Join(PracticeSessionTypes, ", "))
	}
	if in.DurationMinutes < 0 {
		return nil, fmt.Errorf("%w: duration must not be negative", ErrValidation)
	}
	if in.Rating < 0 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	now := s.clock.Now()
	date := in.Date
	if date.IsZero() {
		date = CalendarDate(now, s.profile.location())
	} else {
		date = CalendarDate(date, time.UTC)
	}

	var ids []string
	for _, id := range in.QuestionIDs {
		if id = strings.TrimSpace(id); id != "" && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}

	ps := &model.PracticeSession{
		ID:              s.idgen.New(),
		SessionType:     typ,
		Date:            date,
		DurationMinutes: int64(in.DurationMinutes),
		Company:         s.profile.CanonicalCompany(in.Company),
		QuestionIDs:     ids,
		Rating:          int64(in.Rating),
		Notes:           strings.TrimSpace(in.Notes),
		CreatedAt:       now,
	}
	if err := s.database.CreatePracticeSession(ctx, ps); err != nil {
		return nil, fmt.Errorf("logging practice session: %w", err)
	}
	s.logger.Info("practice session logged", "id", ps.ID, "type", ps.SessionType, "questions", len(ids))
	return ps, nil
}

// ListPracticeSessions returns sessions most recent first.
func (s *JTService) ListPracticeSessions(ctx context.Context, sessionType string, limit int) ([]*model.PracticeSession, error) {
	ss, err := s.database.ListPracticeSessions(ctx, strings.TrimSpace(sessionType), limit)
	if err != nil {
		return nil, fmt.Errorf("listing practice sessions: %w", err)
	}
	return ss, nil
}

// DeletePracticeSession removes a session. Practice counts of its questions are kept.
func (s *JTService) DeletePracticeSession(ctx context.Context, id string) error {
	return s.database.DeletePracticeSession(ctx, id)
}

// PrepStats summarizes the interview preparation material.
type PrepStats struct {
	TotalQuestions        int
	QuestionsByType       map[string]int
	QuestionsByDifficulty map[string]int
	PracticedQuestions    int
	// PracticeRate is the share of questions practiced at least once.
	PracticeRate         float64
	TotalConcepts        int
	ConceptsByCategory   map[string]int
	ResearchedCompanies  int
	TotalSessions        int
	TotalPracticeMinutes int64
	// AverageRating is the mean rating of rated sessions, 0 when none are rated.
	AverageRating float64
}

// GetPrepStats computes statistics over questions, concepts, research and sessions.
func (s *JTService) GetPrepStats(ctx context.Context) (*PrepStats, error) {
	qs, err := s.database.ListPrepQuestions(ctx, PrepFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing prep questions: %w", err)
	}
	cs, err := s.database.ListConcepts(ctx, "", "")
	if err != nil {
		return nil, fmt.Errorf("listing concepts: %w", err)
	}
	rs, err := s.database.ListCompanyResearch(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing company research: %w", err)
	}
	ss, err := s.database.ListPracticeSessions(ctx, "", 0)
	if err != nil {
		return nil, fmt.Errorf("listing practice sessions: %w", err)
	}

	st := &PrepStats{
		TotalQuestions:        len(qs),
		QuestionsByType:       make(map[string]int),
		QuestionsByDifficulty: make(map[string]int),
		TotalConcepts:         len(cs),
		ConceptsByCategory:    make(map[string]int),
		ResearchedCompanies:   len(rs),
		TotalSessions:         len(ss),
	}
	for _, q := range qs {
		st.QuestionsByType[q.Type]++
		st.QuestionsByDifficulty[q.Difficulty]++
		if q.PracticeCount > 0 {
			st.PracticedQuestions++
		}
	}
	if st.TotalQuestions > 0 {
		st.PracticeRate = float64(st.PracticedQuestions) / float64(st.TotalQuestions)
	}
	for _, c := range cs {
		category := c.Category
		if category == "" {
			category = "uncategorized"
		}
		st.ConceptsByCategory[category]++
	}
	var rated, ratingSum int64
	for _, ps := range ss {
		st.TotalPracticeMinutes += ps.DurationMinutes
		if ps.Rating > 0 {
			rated++
			ratingSum += ps.Rating
		}
	}
	if rated > 0 {
		st.AverageRating = float64(ratingSum) / float64(rated)
	}
	return st, nil
}
