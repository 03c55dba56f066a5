package jt

import (
	"sort"
	"strings"

	"jt-go/internal/model"
)

// ResolveKind tags the result of Resolve.
type ResolveKind int

const (
	ResolveNotFound ResolveKind = iota
	ResolveUnique
	ResolveAmbiguous
)

func (k ResolveKind) String() string {
	switch k {
	case ResolveUnique:
		return "unique"
	case ResolveAmbiguous:
		return "ambiguous"
	default:
		return "not_found"
	}
}

// ResolveResult holds the candidates that survived resolution, most recently
// created first. Matches[0] is the target for both Unique and Ambiguous.
type ResolveResult struct {
	Kind    ResolveKind
	Matches []*model.Application
}

// Target returns the application a mutation should apply to, or nil for NotFound.
func (r ResolveResult) Target() *model.Application {
	if r.Kind == ResolveNotFound || len(r.Matches) == 0 {
		return nil
	}
	return r.Matches[0]
}

// Resolve picks the application an interview reference to company points at.
//
// Exact company matches (case-insensitive, aliases applied) are tried first.
// Only when no application matches exactly, whatever its status, are stored
// company names that contain the query considered. Active applications are
// preferred. When none is active, offer and accepted applications remain
// eligible so the interview is still recorded, but rejected and withdrawn ones
// never are.
func Resolve(company string, candidates []*model.Application, profile Profile) ResolveResult {
	query := normalizeCompany(profile.CanonicalCompany(company))
	if query == "" {
		return ResolveResult{Kind: ResolveNotFound}
	}

	var exact, partial []*model.Application
	for _, app := range candidates {
		name := normalizeCompany(profile.CanonicalCompany(app.Company))
		if name == "" {
			continue
		}
		switch {
		case name == query:
			exact = append(exact, app)
		case strings.Contains(name, query):
			partial = append(partial, app)
		}
	}

	// A closed exact match still claims the name: the substring tier is not
	// consulted, so "Meta" never lands on an open "Metadata Inc".
	var matches []*model.Application
	if len(exact) > 0 {
		matches = eligible(exact)
	} else {
		matches = eligible(partial)
	}

	switch len(matches) {
	case 0:
		return ResolveResult{Kind: ResolveNotFound}
	case 1:
		return ResolveResult{Kind: ResolveUnique, Matches: matches}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID > matches[j].ID
	})
	return ResolveResult{Kind: ResolveAmbiguous, Matches: matches}
}

func eligible(apps []*model.Application) []*model.Application {
	var active, advanced []*model.Application
	for _, app := range apps {
		switch {
		case app.Status.IsActive():
			active = append(active, app)
		case app.Status == model.StatusOffer || app.Status == model.StatusAccepted:
			advanced = append(advanced, app)
		}
	}
	if len(active) > 0 {
		return active
	}
	return advanced
}
