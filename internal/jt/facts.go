package jt

import (
	"context"
	"fmt"
	"strings"

	"jt-go/internal/model"
)

// SourceManual tags facts entered directly with `jt fact add`.
const SourceManual = "manual"

// AddFact stores text in the fact store. An empty tag means SourceManual.
func (s *JTService) AddFact(ctx context.Context, text, tag string) (*model.Fact, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: fact is empty", ErrValidation)
	}
	if tag == "" {
		tag = SourceManual
	}
	fact := &model.Fact{
		ID:        s.idgen.New(),
		Text:      text,
		SourceTag: tag,
		CreatedAt: s.clock.Now(),
	}
	if err := s.database.AppendFact(ctx, fact); err != nil {
		return nil, fmt.Errorf("storing fact: %w", err)
	}
	return fact, nil
}

// ListFacts returns facts newest first, optionally restricted to one tag.
func (s *JTService) ListFacts(ctx context.Context, tag string, limit int) ([]*model.Fact, error) {
	facts, err := s.database.ListFacts(ctx, tag, limit)
	if err != nil {
		return nil, fmt.Errorf("listing facts: %w", err)
	}
	return facts, nil
}

// SearchFacts returns the facts most similar to query.
func (s *JTService) SearchFacts(ctx context.Context, query string, limit int) ([]*model.Fact, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is empty", ErrValidation)
	}
	facts, err := s.database.SearchFacts(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching facts: %w", err)
	}
	return facts, nil
}
