package jt

import (
	"context"
	"fmt"
	"strings"

	"jt-go/internal/model"
)

// NewResume is the input to AddResume. It always creates a master resume.
type NewResume struct {
	Name    string
	Content string
	Active  bool
	Note    string // change note of version 1
}

// TailorInput is the input to TailorResume.
type TailorInput struct {
	Name          string // defaults to "<master name> - <company>"
	Company       string // defaults to the application's company
	ApplicationID string // optional, a full ID or unique prefix
	Content       string // defaults to the master's current content
	Note          string
}

// ResumeFilter narrows ListResumes. Zero values match everything.
type ResumeFilter struct {
	MastersOnly  bool
	TailoredOnly bool
	ActiveOnly   bool
	Company      string // tailored-for company, aliases applied
	ParentID     string
}

// AddResume stores a master resume as version 1.
func (s *JTService) AddResume(ctx context.Context, in NewResume) (*model.Resume, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: resume name is empty", ErrValidation)
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: resume content is empty", ErrValidation)
	}
	now := s.clock.Now()
	r := &model.Resume{
		ID:        s.idgen.New(),
		Name:      name,
		IsMaster:  true,
		IsActive:  in.Active,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.database.CreateResume(ctx, r, strings.TrimSpace(in.Note)); err != nil {
		return nil, fmt.Errorf("creating resume: %w", err)
	}
	s.logger.Info("resume added", "id", r.ID, "name", r.Name)
	return r, nil
}

// TailorResume derives a tailored resume from a master resume.
func (s *JTService) TailorResume(ctx context.Context, masterID string, in TailorInput) (*model.Resume, error) {
	master, err := s.GetResume(ctx, masterID)
	if err != nil {
		return nil, err
	}
	if !master.IsMaster {
		return nil, fmt.Errorf("%w: %s is a tailored resume; tailor from its master %s", ErrValidation, master.Name, master.ParentID)
	}

	company := s.profile.CanonicalCompany(in.Company)
	var appID string
	if strings.TrimSpace(in.ApplicationID) != "" {
		app, err := s.GetApplication(ctx, in.ApplicationID)
		if err != nil {
			return nil, err
		}
		appID = app.ID
		if company == "" {
			company = app.Company
		}
	}
	if company == "" {
		return nil, fmt.Errorf("%w: a company or an application is required", ErrValidation)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = master.Name + " - " + company
	}
	content := in.Content
	if strings.TrimSpace(content) == "" {
		content = master.Content
	}
	note := strings.TrimSpace(in.Note)
	if note == "" {
		note = fmt.Sprintf("tailored from %s v%d", master.Name, master.Version)
	}

	now := s.clock.Now()
	r := &model.Resume{
		ID:                     s.idgen.New(),
		Name:                   name,
		ParentID:               master.ID,
		TailoredForCompany:     company,
		TailoredForApplication: appID,
		Content:                content,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := s.database.CreateResume(ctx, r, note); err != nil {
		return nil, fmt.Errorf("creating tailored resume: %w", err)
	}
	s.logger.Info("resume tailored", "id", r.ID, "master", master.ID, "company", company)
	return r, nil
}

// GetResume returns a resume with its current content. A unique ID prefix is accepted.
func (s *JTService) GetResume(ctx context.Context, id string) (*model.Resume, error) {
	full, err := s.resolveResumeID(ctx, id)
	if err != nil {
		return nil, err
	}
	r, err := s.database.GetResume(ctx, full)
	if err != nil {
		return nil, fmt.Errorf("getting resume: %w", err)
	}
	if r == nil {
		return nil, fmt.Errorf("resume %s: %w", id, ErrNotFound)
	}
	return r, nil
}

// ListResumes returns resumes matching filter, oldest first.
func (s *JTService) ListResumes(ctx context.Context, filter ResumeFilter) ([]*model.Resume, error) {
	rs, err := s.database.ListResumes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing resumes: %w", err)
	}
	company := normalizeCompany(s.profile.CanonicalCompany(filter.Company))
	var out []*model.Resume
	for _, r := range rs {
		switch {
		case filter.MastersOnly && !r.IsMaster,
			filter.TailoredOnly && r.IsMaster,
			filter.ActiveOnly && !r.IsActive,
			company != "" && normalizeCompany(r.TailoredForCompany) != company,
			filter.ParentID != "" && r.ParentID != filter.ParentID:
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// UpdateResume stores content as the next version of a resume.
func (s *JTService) UpdateResume(ctx context.Context, id, content, note string) (*model.ResumeVersion, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: resume content is empty", ErrValidation)
	}
	full, err := s.resolveResumeID(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := s.database.AddResumeVersion(ctx, full, content, strings.TrimSpace(note), s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("updating resume: %w", err)
	}
	return v, nil
}

// ResumeVersions returns every version of a resume, newest first.
func (s *JTService) ResumeVersions(ctx context.Context, id string) ([]*model.ResumeVersion, error) {
	full, err := s.resolveResumeID(ctx, id)
	if err != nil {
		return nil, err
	}
	vs, err := s.database.ListResumeVersions(ctx, full)
	if err != nil {
		return nil, fmt.Errorf("listing resume versions: %w", err)
	}
	return vs, nil
}

// ActivateResume makes a resume the only active one.
func (s *JTService) ActivateResume(ctx context.Context, id string) error {
	full, err := s.resolveResumeID(ctx, id)
	if err != nil {
		return err
	}
	return s.database.SetActiveResume(ctx, full, s.clock.Now())
}

// DeleteResume removes a resume and its versions. Master resumes with
// tailored resumes are refused.
func (s *JTService) DeleteResume(ctx context.Context, id string) error {
	full, err := s.resolveResumeID(ctx, id)
	if err != nil {
		return err
	}
	return s.database.DeleteResume(ctx, full)
}

// ResumeStats summarizes the resume library.
type ResumeStats struct {
	Total         int
	Masters       int
	Tailored      int
	Active        int
	TotalVersions int64
	// LinkedApplications counts tailored resumes tied to an application that still exists.
	LinkedApplications int
	// LinkedResponseRate is the share of linked applications that got past
	// "applied", withdrawals excluded. It is 0 when none are linked.
	LinkedResponseRate float64
}

// GetResumeStats computes statistics over every resume.
func (s *JTService) GetResumeStats(ctx context.Context) (*ResumeStats, error) {
	rs, err := s.database.ListResumes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing resumes: %w", err)
	}
	st := &ResumeStats{Total: len(rs)}
	responded := 0
	for _, r := range rs {
		if r.IsMaster {
			st.Masters++
		} else {
			st.Tailored++
		}
		if r.IsActive {
			st.Active++
		}
		st.TotalVersions += r.Version

		if r.TailoredForApplication == "" {
			continue
		}
		app, err := s.database.GetApplication(ctx, r.TailoredForApplication)
		if err != nil {
			return nil, fmt.Errorf("getting application: %w", err)
		}
		if app == nil {
			continue
		}
		st.LinkedApplications++
		if app.Status != model.StatusApplied && app.Status != model.StatusWithdrawn {
			responded++
		}
	}
	if st.LinkedApplications > 0 {
		st.LinkedResponseRate = float64(responded) / float64(st.LinkedApplications)
	}
	return st, nil
}

// resolveResumeID expands a unique ID prefix to a full resume ID.
func (s *JTService) resolveResumeID(ctx context.Context, id string) (string, error) {
	id = strings.TrimSpace(id)
	r, err := s.database.GetResume(ctx, id)
	if err != nil {
		return "", fmt.Errorf("getting resume: %w", err)
	}
	if r != nil {
		return r.ID, nil
	}
	if len(id) < minIDPrefix {
		return "", fmt.Errorf("resume %s: %w", id, ErrNotFound)
	}
	rs, err := s.database.ListResumes(ctx)
	if err != nil {
		return "", fmt.Errorf("listing resumes: %w", err)
	}
	var match string
	for _, r := range rs {
		if strings.HasPrefix(r.ID, id) {
			if match != "" {
				return "", fmt.Errorf("resume id prefix %q is ambiguous", id)
			}
			match = r.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("resume %s: %w", id, ErrNotFound)
	}
	return match, nil
}

