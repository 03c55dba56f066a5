package jt

import (
	"context"
	"fmt"
	"strings"

	"jt-go/internal/model"
)

// CompanyResearchInput carries research fields. On update, empty fields are
// left unchanged and Notes is appended as a dated line.
type CompanyResearchInput struct {
	Company          string
	Industry         string
	Overview         string
	Culture          string
	InterviewProcess string
	WhyCompany       string
	Notes            string
}

// AddCompanyResearch stores research for a company. Aliases are applied, and
// a company can have only one entry.
func (s *JTService) AddCompanyResearch(ctx context.Context, in CompanyResearchInput) (*model.CompanyResearch, error) {
	company := s.profile.CanonicalCompany(in.Company)
	if company == "" {
		return nil, fmt.Errorf("%w: company is required", ErrValidation)
	}
	now := s.clock.Now()
	r := &model.CompanyResearch{
		ID:               s.idgen.New(),
		Company:          company,
		Industry:         strings.TrimSpace(in.Industry),
		Overview:         strings.TrimSpace(in.Overview),
		Culture:          strings.TrimSpace(in.Culture),
		InterviewProcess: strings.TrimSpace(in.InterviewProcess),
		WhyCompany:       strings.TrimSpace(in.WhyCompany),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if notes := strings.TrimSpace(in.Notes); notes != "" {
		r.Notes = FormatNoteLine(now, s.profile.location(), notes)
	}
	if err := s.database.CreateCompanyResearch(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Info("company research added", "id", r.ID, "company", r.Company)
	return r, nil
}

// GetCompanyResearch returns the research for company, or nil if there is none.
func (s *JTService) GetCompanyResearch(ctx context.Context, company string) (*model.CompanyResearch, error) {
	company = s.profile.CanonicalCompany(company)
	if company == "" {
		return nil, nil
	}
	r, err := s.database.GetCompanyResearch(ctx, company)
	if err != nil {
		return nil, fmt.Errorf("getting company research: %w", err)
	}
	return r, nil
}

// ListCompanyResearch returns every research entry ordered by company.
func (s *JTService) ListCompanyResearch(ctx context.Context) ([]*model.CompanyResearch, error) {
	rs, err := s.database.ListCompanyResearch(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing company research: %w", err)
	}
	return rs, nil
}

// UpdateCompanyResearch merges in into the existing research for in.Company.
func (s *JTService) UpdateCompanyResearch(ctx context.Context, in CompanyResearchInput) (*model.CompanyResearch, error) {
	r, err := s.mustGetResearch(ctx, in.Company)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	r.Industry = firstNonBlank(in.Industry, r.Industry)
	r.Overview = firstNonBlank(in.Overview, r.Overview)
	r.Culture = firstNonBlank(in.Culture, r.Culture)
	r.InterviewProcess = firstNonBlank(in.InterviewProcess, r.InterviewProcess)
	r.WhyCompany = firstNonBlank(in.WhyCompany, r.WhyCompany)
	if notes := strings.TrimSpace(in.Notes); notes != "" {
		line := FormatNoteLine(now, s.profile.location(), notes)
		if r.Notes == "" {
			r.Notes = line
		} else {
			r.Notes += "\n" + line
		}
	}
	r.UpdatedAt = now
	if err := s.database.UpdateCompanyResearch(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteCompanyResearch removes the research for company.
func (s *JTService) DeleteCompanyResearch(ctx context.Context, company string) error {
	r, err := s.mustGetResearch(ctx, company)
	if err != nil {
		return err
	}
	return s.database.DeleteCompanyResearch(ctx, r.ID)
}

func (s *JTService) mustGetResearch(ctx context.Context, company string) (*model.CompanyResearch, error) {
	r, err := s.GetCompanyResearch(ctx, company)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("research for %q: %w", strings.TrimSpace(company), ErrNotFound)
	}
	return r, nil
}

func firstNonBlank(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
