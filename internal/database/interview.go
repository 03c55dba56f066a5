package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"

	"jt-go/internal/database/sqlc"
	"jt-go/internal/jt"
	"jt-go/internal/model"
)

// Technical concepts

func (s *SQLiteDatabase) CreateConcept(ctx context.Context, c *model.Concept) error {
	if c.ID == "" {
		return fmt.Errorf("concept id is required")
	}
	tags, err := encodeList(c.Tags)
	if err != nil {
		return err
	}
	err = s.queries.InsertConcept(ctx, sqlc.InsertConceptParams{
		ID:          c.ID,
		Name:        c.Name,
		Category:    c.Category,
		Explanation: c.Explanation,
		Example:     c.Example,
		Tags:        tags,
		CreatedAt:   c.CreatedAt.UTC(),
		UpdatedAt:   c.UpdatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("inserting concept: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListConcepts(ctx context.Context, category, tag string) ([]*model.Concept, error) {
	rows, err := s.queries.ListConcepts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing concepts: %w", err)
	}
	var out []*model.Concept
	for _, row := range rows {
		c, err := toConcept(row)
		if err != nil {
			return nil, err
		}
		if category != "" && !strings.EqualFold(c.Category, category) {
			continue
		}
		if tag != "" && !containsFold(c.Tags, tag) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *SQLiteDatabase) DeleteConcept(ctx context.Context, id string) error {
	n, err := s.queries.DeleteConcept(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting concept: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("concept %s: %w", id, jt.ErrNotFound)
	}
	return nil
}

// Company research

func (s *SQLiteDatabase) CreateCompanyResearch(ctx context.Context, r *model.CompanyResearch) error {
	if r.ID == "" {
		return fmt.Errorf("company research id is required")
	}
	err := s.queries.InsertCompanyResearch(ctx, sqlc.InsertCompanyResearchParams{
		ID:               r.ID,
		Company:          r.Company,
		Industry:         r.Industry,
		Overview:         r.Overview,
		Culture:          r.Culture,
		InterviewProcess: r.InterviewProcess,
		WhyCompany:       r.WhyCompany,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt.UTC(),
		UpdatedAt:        r.UpdatedAt.UTC(),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", r.Company, jt.ErrResearchExists)
		}
		return fmt.Errorf("inserting company research: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) GetCompanyResearch(ctx context.Context, company string) (*model.CompanyResearch, error) {
	row, err := s.queries.GetCompanyResearchByCompany(ctx, company)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("getting company research: %w", err)
	}
	return toCompanyResearch(row), nil
}

func (s *SQLiteDatabase) ListCompanyResearch(ctx context.Context) ([]*model.CompanyResearch, error) {
	rows, err := s.queries.ListCompanyResearch(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing company research: %w", err)
	}
	out := make([]*model.CompanyResearch, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCompanyResearch(row))
	}
	return out, nil
}

func (s *SQLiteDatabase) UpdateCompanyResearch(ctx context.Context, r *model.CompanyResearch) error {
	n, err := s.queries.UpdateCompanyResearch(ctx, sqlc.UpdateCompanyResearchParams{
		Industry:         r.Industry,
		Overview:         r.Overview,
		Culture:          r.Culture,
		InterviewProcess: r.InterviewProcess,
		WhyCompany:       r.WhyCompany,
		Notes:            r.Notes,
		UpdatedAt:        r.UpdatedAt.UTC(),
		ID:               r.ID,
	})
	if err != nil {
		return fmt.Errorf("updating company research: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("company research %s: %w", r.ID, jt.ErrNotFound)
	}
	return nil
}

func (s *SQLiteDatabase) DeleteCompanyResearch(ctx context.Context, id string) error {
	n, err := s.queries.DeleteCompanyResearch(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting company research: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("company research %s: %w", id, jt.ErrNotFound)
	}
	return nil
}

// Practice sessions

func (s *SQLiteDatabase) CreatePracticeSession(ctx context.Context, ps *model.PracticeSession) error {
	if ps.ID == "" {
		return fmt.Errorf("practice session id is required")
	}
	ids, err := encodeList(ps.QuestionIDs)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)
	err = qtx.InsertPracticeSession(ctx, sqlc.InsertPracticeSessionParams{
		ID:              ps.ID,
		SessionType:     ps.SessionType,
		Date:            ps.Date.UTC(),
		DurationMinutes: ps.DurationMinutes,
		Company:         ps.Company,
		QuestionIds:     ids,
		Rating:          ps.Rating,
		Notes:           ps.Notes,
		CreatedAt:       ps.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("inserting practice session: %w", err)
	}

	for _, qid := range ps.QuestionIDs {
		n, err := qtx.MarkPrepQuestionPracticed(ctx, sqlc.MarkPrepQuestionPracticedParams{
			At: sql.NullTime{Time: ps.CreatedAt.UTC(), Valid: true},
			ID: qid,
		})
		if err != nil {
			return fmt.Errorf("marking prep question practiced: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("prep question %s: %w", qid, jt.ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListPracticeSessions(ctx context.Context, sessionType string, limit int) ([]*model.PracticeSession, error) {
	rows, err := s.queries.ListPracticeSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing practice sessions: %w", err)
	}
	var out []*model.PracticeSession
	for _, row := range rows {
		if sessionType != "" && !strings.EqualFold(row.SessionType, sessionType) {
			continue
		}
		ps, err := toPracticeSession(row)
		if err != nil {
			return nil, err
		}
		out = append(out, ps)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *SQLiteDatabase) DeletePracticeSession(ctx context.Context, id string) error {
	n, err := s.queries.DeletePracticeSession(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting practice session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("practice session %s: %w", id, jt.ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}
