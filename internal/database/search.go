package database

import (
	"sort"
	"strings"
	"unicode"

	"jt-go/internal/model"
)

// stopWords are dropped before facts are compared.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "at": true, "for": true, "in": true,
	"is": true, "of": true, "on": true, "that": true, "the": true, "to": true,
	"with": true, "remember": true, "note": true,
}

func tokenize(s string) map[string]bool {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]bool, len(words))
	for _, w := range words {
		if !stopWords[w] {
			set[w] = true
		}
	}
	return set
}

// similarity is the Jaccard overlap of the token sets of query and text, plus a
// bonus when the whole query appears verbatim.
func similarity(query string, q map[string]bool, text string) float64 {
	t := tokenize(text)
	if len(q) == 0 || len(t) == 0 {
		return 0
	}
	shared := 0
	for w := range q {
		if t[w] {
			shared++
		}
	}
	if shared == 0 {
		return 0
	}
	score := float64(shared) / float64(len(q)+len(t)-shared)
	if strings.Contains(strings.ToLower(text), strings.ToLower(strings.TrimSpace(query))) {
		score += 0.5
	}
	return score
}

// rankFacts returns the facts that share at least one token with query, best
// first and newest first among equals. facts must be ordered newest first.
func rankFacts(query string, facts []*model.Fact, limit int) []*model.Fact {
	q := tokenize(query)
	type scored struct {
		fact  *model.Fact
		score float64
	}
	var hits []scored
	for _, f := range facts {
		if sc := similarity(query, q, f.Text); sc > 0 {
			hits = append(hits, scored{f, sc})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]*model.Fact, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.fact)
	}
	return out
}
