package jt

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"jt-go/internal/model"
)

// Prep question vocabularies.
var (
	PrepTypes        = []string{"behavioral", "technical", "system_design", "other"}
	PrepDifficulties = []string{"easy", "medium", "hard"}
)

// NewPrepQuestion is the input to AddPrepQuestion.
type NewPrepQuestion struct {
	Question   string   `yaml:"question"`
	Answer     string   `yaml:"answer,omitempty"`
	Type       string   `yaml:"type,omitempty"`
	Category   string   `yaml:"category,omitempty"`
	Difficulty string   `yaml:"difficulty,omitempty"`
	Companies  []string `yaml:"companies,omitempty"`
	Tags       []string `yaml:"tags,omitempty"`
}

// prepFile is the YAML document read by ImportPrep and written by ExportPrep.
type prepFile struct {
	Questions []NewPrepQuestion `yaml:"questions"`
}

// AddPrepQuestion validates and stores an interview preparation question.
func (s *JTService) AddPrepQuestion(ctx context.Context, in NewPrepQuestion) (*model.PrepQuestion, error) {
	q, err := s.buildPrepQuestion(in)
	if err != nil {
		return nil, err
	}
	if err := s.database.CreatePrepQuestion(ctx, q); err != nil {
		return nil, fmt.Errorf("creating prep question: %w", err)
	}
	return q, nil
}

func (s *JTService) buildPrepQuestion(in NewPrepQuestion) (*model.PrepQuestion, error) {
	question := strings.TrimSpace(in.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", ErrValidation)
	}
	typ := strings.ToLower(strings.TrimSpace(in.Type))
	if typ == "" {
		typ = "other"
	}
	if !slices.Contains(PrepTypes, typ) {
		return nil, fmt.Errorf("%w: unknown question type %q (want one of %s)", ErrValidation, in.Type, strings.Join(PrepTypes, ", "))
	}
	difficulty := strings.ToLower(strings.TrimSpace(in.Difficulty))
	if difficulty == "" {
		difficulty = "medium"
	}
	if !slices.Contains(PrepDifficulties, difficulty) {
		return nil, fmt.Errorf("%w: unknown difficulty %q (want one of %s)", ErrValidation, in.Difficulty, strings.Join(PrepDifficulties, ", "))
	}

	companies := make([]string, 0, len(in.Companies))
	for _, c := range in.Companies {
		if c = s.profile.CanonicalCompany(c); c != "" {
			companies = append(companies, c)
		}
	}

	now := s.clock.Now()
	return &model.PrepQuestion{
		ID:         s.idgen.New(),
		Question:   question,
		Answer:     strings.TrimSpace(in.Answer),
		Type:       typ,
		Category:   strings.TrimSpace(in.Category),
		Difficulty: difficulty,
		Companies:  companies,
		Tags:       cleanTags(in.Tags),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// ListPrepQuestions returns questions matching filter.
func (s *JTService) ListPrepQuestions(ctx context.Context, filter PrepFilter) ([]*model.PrepQuestion, error) {
	qs, err := s.database.ListPrepQuestions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing prep questions: %w", err)
	}
	return qs, nil
}

// Practice marks a question as practiced and returns it. With an empty id it
// picks the least practiced question matching filter, or nil if none match.
func (s *JTService) Practice(ctx context.Context, id string, filter PrepFilter) (*model.PrepQuestion, error) {
	if id == "" {
		qs, err := s.database.ListPrepQuestions(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("listing prep questions: %w", err)
		}
		if len(qs) == 0 {
			return nil, nil
		}
		sort.SliceStable(qs, func(i, j int) bool {
			if qs[i].PracticeCount != qs[j].PracticeCount {
				return qs[i].PracticeCount < qs[j].PracticeCount
			}
			return practicedBefore(qs[i], qs[j])
		})
		id = qs[0].ID
	}

	if err := s.database.MarkPrepQuestionPracticed(ctx, id, s.clock.Now()); err != nil {
		return nil, fmt.Errorf("marking question practiced: %w", err)
	}
	q, err := s.database.GetPrepQuestion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting prep question: %w", err)
	}
	if q == nil {
		return nil, fmt.Errorf("prep question not found: %s", id)
	}
	return q, nil
}

// practicedBefore orders never-practiced questions first, then by last practice time.
func practicedBefore(a, b *model.PrepQuestion) bool {
	switch {
	case a.LastPracticedAt == nil:
		return b.LastPracticedAt != nil
	case b.LastPracticedAt == nil:
		return false
	default:
		return a.LastPracticedAt.Before(*b.LastPracticedAt)
	}
}

// DeletePrepQuestion removes a question.
func (s *JTService) DeletePrepQuestion(ctx context.Context, id string) error {
	if err := s.database.DeletePrepQuestion(ctx, id); err != nil {
		return fmt.Errorf("deleting prep question: %w", err)
	}
	return nil
}

// ImportPrep reads a YAML document with a top-level "questions" list and stores
// every entry. It validates the whole document before writing anything.
func (s *JTService) ImportPrep(ctx context.Context, r io.Reader) (int, error) {
	var doc prepFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, fmt.Errorf("decoding prep questions: %w", err)
	}

	qs := make([]*model.PrepQuestion, 0, len(doc.Questions))
	for i, in := range doc.Questions {
		q, err := s.buildPrepQuestion(in)
		if err != nil {
			return 0, fmt.Errorf("question %d: %w", i+1, err)
		}
		qs = append(qs, q)
	}
	for _, q := range qs {
		if err := s.database.CreatePrepQuestion(ctx, q); err != nil {
			return 0, fmt.Errorf("creating prep question: %w", err)
		}
	}
	s.logger.Info("prep questions imported", "count", len(qs))
	return len(qs), nil
}

// ExportPrep writes questions matching filter as YAML in the format ImportPrep reads.
func (s *JTService) ExportPrep(ctx context.Context, w io.Writer, filter PrepFilter) (int, error) {
	qs, err := s.database.ListPrepQuestions(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("listing prep questions: %w", err)
	}
	doc := prepFile{Questions: make([]NewPrepQuestion, 0, len(qs))}
	for _, q := range qs {
		doc.Questions = append(doc.Questions, NewPrepQuestion{
			Question:   q.Question,
			Answer:     q.Answer,
			Type:       q.Type,
			Category:   q.Category,
			Difficulty: q.Difficulty,
			Companies:  q.Companies,
			Tags:       q.Tags,
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return 0, fmt.Errorf("encoding prep questions: %w", err)
	}
	if err := enc.Close(); err != nil {
		return 0, fmt.Errorf("encoding prep questions: %w", err)
	}
	return len(qs), nil
}

func cleanTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
